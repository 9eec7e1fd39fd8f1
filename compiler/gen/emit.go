package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/visitgen/schema"
)

// Scope is the emission context of a single visitor. It is passed to
// rules and helpers so they can name the visitor types and functions.
type Scope struct {
	Visitor *Visitor
}

// Helper returns the name of the helper function with the given suffix.
func (s *Scope) Helper(suffix string) string {
	return s.Visitor.helper(suffix)
}

// VisitorType returns the visitor interface type.
func (s *Scope) VisitorType() jen.Code {
	return jen.Id(s.Visitor.TypeName())
}

// goType renders the Go type of a resolved reference.
func goType(r *Resolved) jen.Code {
	switch r.Action {
	case ActionRecord, ActionGroup:
		return withTypes(jen.Id(r.Entity.Name), typeArgs(r.Args))
	case ActionParam:
		return jen.Id(r.Param.Name)
	case ActionWrap:
		return r.Rule.Type(r.Ref, goType(r.Elem))
	default:
		return r.Leaf
	}
}

func typeArgs(args []*Resolved) []jen.Code {
	codes := make([]jen.Code, len(args))
	for i, a := range args {
		codes[i] = goType(a)
	}
	return codes
}

// withTypes appends a type argument or parameter list when it is not empty.
func withTypes(s *jen.Statement, types []jen.Code) *jen.Statement {
	if len(types) == 0 {
		return s
	}
	return s.Types(types...)
}

// acceptFunc renders an expression of type func(*T, V) that visits a value
// of the resolved type T with a visitor V.
func (s *Scope) acceptFunc(r *Resolved) jen.Code {
	switch r.Action {
	case ActionRecord:
		return jen.Parens(jen.Op("*").Add(goType(r))).Dot(s.Visitor.AcceptMethod())
	case ActionGroup, ActionParam:
		return jen.Id(s.Helper(HelperAccept)).Types(goType(r))
	default:
		if r.Rule.Helper != "" {
			return jen.Id(s.Helper(r.Rule.Helper)).Call(s.acceptFunc(r.Elem))
		}
		return r.Rule.Inline(s, r.Ref, goType(r), s.acceptFunc(r.Elem))
	}
}

// visit renders the statement visiting operand, an addressable expression
// of the resolved type.
func (s *Scope) visit(r *Resolved, operand *jen.Statement) jen.Code {
	v := s.Visitor
	switch r.Action {
	case ActionRecord:
		return operand.Dot(v.AcceptMethod()).Call(jen.Id("v"))
	case ActionGroup:
		return withTypes(jen.Id(v.GroupFunc(r.Entity.Name)), typeArgs(r.Args)).Call(operand, jen.Id("v"))
	case ActionParam:
		return jen.Id(s.Helper(HelperAccept)).Call(jen.Op("&").Add(operand), jen.Id("v"))
	default:
		return jen.Add(s.acceptFunc(r)).Call(jen.Op("&").Add(operand), jen.Id("v"))
	}
}

func builtinHelpers() []*Helper {
	return []*Helper{
		{Suffix: HelperAccept, Decl: acceptHelper},
		{Suffix: HelperSlice, Decl: sliceHelper},
		{Suffix: HelperSet, Decl: setHelper},
		{Suffix: HelperPtr, Decl: ptrHelper},
	}
}

// acceptFuncType renders func(*T, V).
func acceptFuncType(s *Scope, t jen.Code) *jen.Statement {
	return jen.Func().Params(jen.Op("*").Add(t), s.VisitorType())
}

func acceptHelper(s *Scope) jen.Code {
	name := s.Helper(HelperAccept)
	return jen.Commentf("%s visits *x unless it holds a nil value.", name).Line().
		Func().Id(name).Types(jen.Id("T").Id(s.Visitor.AcceptorName())).
		Params(jen.Id("x").Op("*").Id("T"), jen.Id("v").Add(s.VisitorType())).
		Block(
			jen.If(jen.Id("any").Call(jen.Op("*").Id("x")).Op("!=").Nil()).Block(
				jen.Parens(jen.Op("*").Id("x")).Dot(s.Visitor.AcceptMethod()).Call(jen.Id("v")),
			),
		)
}

func sliceHelper(s *Scope) jen.Code {
	name := s.Helper(HelperSlice)
	return jen.Commentf("%s lifts accept to visit every element of a slice in order.", name).Line().
		Func().Id(name).Types(jen.Id("T").Id("any")).
		Params(jen.Id("accept").Add(acceptFuncType(s, jen.Id("T")))).
		Add(acceptFuncType(s, jen.Index().Id("T"))).
		Block(
			jen.Return(jen.Func().Params(jen.Id("xs").Op("*").Index().Id("T"), jen.Id("v").Add(s.VisitorType())).Block(
				jen.For(jen.Id("i").Op(":=").Range().Op("*").Id("xs")).Block(
					jen.Id("accept").Call(jen.Op("&").Parens(jen.Op("*").Id("xs")).Index(jen.Id("i")), jen.Id("v")),
				),
			)),
		)
}

func setHelper(s *Scope) jen.Code {
	name := s.Helper(HelperSet)
	return jen.Commentf("%s lifts accept to visit every element of a set. The order is unspecified.", name).Line().
		Func().Id(name).Types(jen.Id("T").Id("comparable")).
		Params(jen.Id("accept").Add(acceptFuncType(s, jen.Id("T")))).
		Add(acceptFuncType(s, jen.Map(jen.Id("T")).Struct())).
		Block(
			jen.Return(jen.Func().Params(jen.Id("xs").Op("*").Map(jen.Id("T")).Struct(), jen.Id("v").Add(s.VisitorType())).Block(
				jen.For(jen.Id("x").Op(":=").Range().Op("*").Id("xs")).Block(
					jen.Id("accept").Call(jen.Op("&").Id("x"), jen.Id("v")),
				),
			)),
		)
}

func ptrHelper(s *Scope) jen.Code {
	name := s.Helper(HelperPtr)
	return jen.Commentf("%s lifts accept to visit the target of a non-nil pointer.", name).Line().
		Func().Id(name).Types(jen.Id("T").Id("any")).
		Params(jen.Id("accept").Add(acceptFuncType(s, jen.Id("T")))).
		Add(acceptFuncType(s, jen.Op("*").Id("T"))).
		Block(
			jen.Return(jen.Func().Params(jen.Id("x").Op("**").Id("T"), jen.Id("v").Add(s.VisitorType())).Block(
				jen.If(jen.Op("*").Id("x").Op("!=").Nil()).Block(
					jen.Id("accept").Call(jen.Op("*").Id("x"), jen.Id("v")),
				),
			)),
		)
}

// arrayAccept renders a literal function visiting every element of a fixed
// size array. Go generics cannot abstract over array lengths.
func arrayAccept(s *Scope, _ *schema.TypeRef, wrapper, accept jen.Code) jen.Code {
	return jen.Func().Params(jen.Id("xs").Op("*").Add(wrapper), jen.Id("v").Add(s.VisitorType())).Block(
		jen.For(jen.Id("i").Op(":=").Range().Id("xs")).Block(
			jen.Add(accept).Call(jen.Op("&").Id("xs").Index(jen.Id("i")), jen.Id("v")),
		),
	)
}
