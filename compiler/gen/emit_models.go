package gen

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/visitgen/schema"
)

// emitModels declares the record and variant group types in declaration
// order.
func (g *Generator) emitModels(f *jen.File) {
	for _, e := range g.model.Entities() {
		p := g.plans[e]
		if e.IsRecord() {
			g.emitRecord(f, p)
		} else {
			g.emitGroup(f, p)
		}
	}
}

func (g *Generator) emitRecord(f *jen.File, p *entityPlan) {
	e := p.entity
	f.Line().Commentf("%s is a record of the hierarchy.", e.Name)
	f.Add(withTypes(jen.Type().Id(e.Name), g.typeParams(e)).Struct(structFields(p.fields)...))
	if e.IsGeneric() {
		g.emitNode(f, e, jen.Op("*").Add(selfType(e, e.Name)))
	}
}

func (g *Generator) emitGroup(f *jen.File, p *entityPlan) {
	e := p.entity
	variants := make([]string, len(p.variants))
	for i, vp := range p.variants {
		variants[i] = vp.typeName
	}
	methods := make([]jen.Code, 0, len(g.visitors)+2)
	if e.IsGeneric() {
		methods = append(methods, jen.Id(nodeName(e)))
	}
	methods = append(methods, jen.Id(markerName(e)).Params(paramIds(e)...))
	for _, v := range g.visitors {
		methods = append(methods, jen.Id(v.AcceptorName()))
	}
	f.Line().Commentf("%s is a variant group of the hierarchy. It is implemented by %s.", e.Name, joinNames(variants))
	f.Add(withTypes(jen.Type().Id(e.Name), g.typeParams(e)).Interface(methods...))
	if e.IsGeneric() {
		f.Line().Commentf("%s is implemented by every instantiation of %s.", nodeName(e), e.Name)
		f.Type().Id(nodeName(e)).Interface(jen.Id(markerName(e) + "Node").Params())
	}
	for _, vp := range p.variants {
		f.Line().Commentf("%s is the %s variant of %s.", vp.typeName, vp.variant.Name, e.Name)
		f.Add(withTypes(jen.Type().Id(vp.typeName), g.typeParams(e)).Struct(structFields(vp.fields)...))
		recv := jen.Op("*").Add(selfType(e, vp.typeName))
		f.Line().Func().Params(recv).Id(markerName(e)).Params(paramIds(e)...).Block()
		if e.IsGeneric() {
			f.Func().Params(jen.Op("*").Add(selfType(e, vp.typeName))).Id(markerName(e) + "Node").Params().Block()
		}
	}
}

// emitNode declares the node interface of a generic record. Visitor hooks
// receive it since Go methods cannot have type parameters.
func (g *Generator) emitNode(f *jen.File, e *schema.Entity, recv jen.Code) {
	f.Line().Commentf("%s is implemented by every instantiation of %s.", nodeName(e), e.Name)
	f.Type().Id(nodeName(e)).Interface(jen.Id(markerName(e) + "Node").Params())
	f.Line().Func().Params(recv).Id(markerName(e) + "Node").Params().Block()
}

func structFields(fields []*fieldPlan) []jen.Code {
	codes := make([]jen.Code, len(fields))
	for i, fp := range fields {
		codes[i] = jen.Id(fp.name).Add(goType(fp.typ))
	}
	return codes
}

// typeParams declares the generic parameters of e. Each parameter is bound
// by its extra bounds and the acceptor interface of every visitor.
func (g *Generator) typeParams(e *schema.Entity) []jen.Code {
	params := make([]jen.Code, len(e.Params))
	for i, p := range e.Params {
		params[i] = jen.Id(p.Name).Add(g.constraint(p))
	}
	return params
}

func (g *Generator) constraint(p *schema.Param) jen.Code {
	elems := make([]jen.Code, 0, len(p.Bounds)+len(g.visitors))
	for _, b := range p.Bounds {
		elems = append(elems, jen.Id(b))
	}
	for _, v := range g.visitors {
		elems = append(elems, jen.Id(v.AcceptorName()))
	}
	switch len(elems) {
	case 0:
		return jen.Id("any")
	case 1:
		return elems[0]
	default:
		return jen.Interface(elems...)
	}
}

// selfType renders name instantiated with the generic parameters of e.
func selfType(e *schema.Entity, name string) *jen.Statement {
	return withTypes(jen.Id(name), paramIds(e))
}

func paramIds(e *schema.Entity) []jen.Code {
	ids := make([]jen.Code, len(e.Params))
	for i, p := range e.Params {
		ids[i] = jen.Id(p.Name)
	}
	return ids
}

func nodeName(e *schema.Entity) string {
	return e.Name + "Node"
}

func markerName(e *schema.Entity) string {
	return "is" + exported(e.Name)
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}
