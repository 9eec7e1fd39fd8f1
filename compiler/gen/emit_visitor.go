package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/visitgen/schema"
)

// hook is a visitor method called for an entity.
type hook struct {
	name   string
	entity *schema.Entity
}

// hooks returns the hooks of v in emission order: records first, then
// variant groups, each in declaration order, enter before leave.
func (g *Generator) hooks(v *Visitor) []hook {
	var hs []hook
	for _, e := range g.model.Partitioned() {
		if v.HasEnter() {
			hs = append(hs, hook{name: v.EnterHook(e.Name), entity: e})
		}
		if v.HasLeave() {
			hs = append(hs, hook{name: v.LeaveHook(e.Name), entity: e})
		}
	}
	return hs
}

// hookType renders the type a hook receives for an entity.
func hookType(e *schema.Entity) jen.Code {
	switch {
	case e.IsGeneric():
		return jen.Id(nodeName(e))
	case e.IsRecord():
		return jen.Op("*").Id(e.Name)
	default:
		return jen.Id(e.Name)
	}
}

// emitVisitor emits the visitor interface, its no-op implementation, the
// acceptor interface, the helpers and the accept methods of every entity.
func (g *Generator) emitVisitor(f *jen.File, v *Visitor) {
	var (
		s     = &Scope{Visitor: v}
		hooks = g.hooks(v)
		name  = v.TypeName()
		base  = v.BaseName()
	)
	methods := make([]jen.Code, len(hooks))
	for i, h := range hooks {
		methods[i] = jen.Id(h.name).Params(jen.Id(goParam(ParamName(h.entity.Name))).Add(hookType(h.entity)))
	}
	f.Line().Commentf("%s visits the nodes of the hierarchy.", name)
	f.Type().Id(name).Interface(methods...)

	f.Line().Commentf("%s implements %s with hooks that do nothing.", base, name)
	f.Commentf("Embed it to implement only the hooks of interest.")
	f.Type().Id(base).Struct()
	f.Line().Var().Id("_").Id(name).Op("=").Id(base).Values()
	f.Line()
	for _, h := range hooks {
		f.Func().Params(jen.Id(base)).Id(h.name).Params(hookType(h.entity)).Block()
	}

	f.Line().Commentf("%s is implemented by every node visitable by %s.", v.AcceptorName(), name)
	f.Type().Id(v.AcceptorName()).Interface(
		jen.Id(v.AcceptMethod()).Params(jen.Id("v").Id(name)),
	)

	for _, h := range g.cfg.Registry.Helpers() {
		f.Line().Add(h.Decl(s))
	}
	for _, e := range g.model.Records() {
		g.emitRecordAccept(f, s, g.plans[e])
	}
	for _, e := range g.model.Groups() {
		g.emitGroupAccept(f, s, g.plans[e])
	}
}

// wrapHooks surrounds the traversal of children with the enter and leave
// hooks of e.
func wrapHooks(v *Visitor, e *schema.Entity, children []jen.Code) []jen.Code {
	stmts := make([]jen.Code, 0, len(children)+2)
	if v.HasEnter() {
		stmts = append(stmts, jen.Id("v").Dot(v.EnterHook(e.Name)).Call(jen.Id("x")))
	}
	stmts = append(stmts, children...)
	if v.HasLeave() {
		stmts = append(stmts, jen.Id("v").Dot(v.LeaveHook(e.Name)).Call(jen.Id("x")))
	}
	return stmts
}

// visitFields renders the traversal of the non-inert fields of x.
func visitFields(s *Scope, fields []*fieldPlan) []jen.Code {
	var stmts []jen.Code
	for _, fp := range fields {
		if fp.typ.Inert() {
			continue
		}
		stmts = append(stmts, s.visit(fp.typ, jen.Id("x").Dot(fp.name)))
	}
	return stmts
}

func (g *Generator) emitRecordAccept(f *jen.File, s *Scope, p *entityPlan) {
	var (
		v = s.Visitor
		e = p.entity
	)
	body := []jen.Code{jen.If(jen.Id("x").Op("==").Nil()).Block(jen.Return())}
	body = append(body, wrapHooks(v, e, visitFields(s, p.fields))...)
	f.Line().Commentf("%s calls the hooks of v for x and its fields.", v.AcceptMethod())
	f.Func().Params(jen.Id("x").Op("*").Add(selfType(e, e.Name))).Id(v.AcceptMethod()).
		Params(jen.Id("v").Id(v.TypeName())).
		Block(body...)
}

func (g *Generator) emitGroupAccept(f *jen.File, s *Scope, p *entityPlan) {
	var (
		v     = s.Visitor
		e     = p.entity
		fn    = v.GroupFunc(e.Name)
		cases = make([]jen.Code, len(p.variants))
		bound bool
	)
	// A nil variant pointer is absent like a nil group value.
	absent := jen.Id("x").Op("==").Nil()
	for i, vp := range p.variants {
		stmts := visitFields(s, vp.fields)
		bound = bound || len(stmts) > 0
		cases[i] = jen.Case(jen.Op("*").Add(selfType(e, vp.typeName))).Block(stmts...)
		absent.Op("||").Id("x").Op("==").Parens(jen.Op("*").Add(selfType(e, vp.typeName))).Call(jen.Nil())
	}
	subject := jen.Id("x").Assert(jen.Type())
	if bound {
		subject = jen.Id("x").Op(":=").Add(subject)
	}
	body := []jen.Code{jen.If(absent).Block(jen.Return())}
	body = append(body, wrapHooks(v, e, []jen.Code{jen.Switch(subject).Block(cases...)})...)

	f.Line().Commentf("%s calls the hooks of v for x and the fields of its variant.", fn)
	f.Add(withTypes(jen.Func().Id(fn), g.typeParams(e)).
		Params(jen.Id("x").Add(selfType(e, e.Name)), jen.Id("v").Id(v.TypeName())).
		Block(body...))

	call := withTypes(jen.Id(fn), paramIds(e))
	for _, vp := range p.variants {
		f.Line().Commentf("%s calls the hooks of v for x and its fields.", v.AcceptMethod())
		f.Func().Params(jen.Id("x").Op("*").Add(selfType(e, vp.typeName))).Id(v.AcceptMethod()).
			Params(jen.Id("v").Id(v.TypeName())).
			Block(jen.Add(call).Call(jen.Id("x"), jen.Id("v")))
	}
}
