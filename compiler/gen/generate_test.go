package gen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/visitgen/schema"
)

// treeModel is the canonical two-visitor example:
//
//	Tree { foo1: Foo, foo2: Foo }
//	Foo = Bar { bar: BarItem } | Baz { baz: BazItem }
func treeModel(t *testing.T) *schema.Model {
	t.Helper()
	m, err := schema.NewModel(
		schema.Record("Tree",
			schema.Named("foo1", schema.Ref("Foo")),
			schema.Named("foo2", schema.Ref("Foo")),
		),
		schema.Group("Foo",
			schema.Case("Bar", schema.Named("bar", schema.Ref("BarItem"))),
			schema.Case("Baz", schema.Named("baz", schema.Ref("BazItem"))),
		),
		schema.Record("BarItem"),
		schema.Record("BazItem"),
	)
	require.NoError(t, err)
	return m
}

func treeDirectives() []schema.Directive {
	return []schema.Directive{
		schema.Visitor("EnumVisitor", "public", true),
		schema.Visitor("HierVisitor", "public", true, "enter", "enter", "leave", "leave"),
	}
}

// generated is a rendered and type checked unit. flat is the source with
// every run of white space collapsed to a single space, so assertions do not
// depend on gofmt alignment.
type generated struct {
	src  string
	flat string
	file *ast.File
	pkg  *types.Package
}

func generate(t *testing.T, m *schema.Model, directives ...schema.Directive) *generated {
	t.Helper()
	g, err := NewGenerator(MustNewConfig(WithPackage("tree")), m, directives...)
	require.NoError(t, err)
	return check(t, g.File().GoString())
}

func check(t *testing.T, src string) *generated {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "visitor_gen.go", src, parser.ParseComments)
	require.NoError(t, err, src)
	conf := types.Config{GoVersion: "go1.26"}
	pkg, err := conf.Check("tree", fset, []*ast.File{f}, nil)
	require.NoError(t, err, src)
	return &generated{src: src, flat: strings.Join(strings.Fields(src), " "), file: f, pkg: pkg}
}

// methods returns the method names of an interface declaration in source
// order.
func (g *generated) methods(t *testing.T, iface string) []string {
	t.Helper()
	for _, d := range g.file.Decls {
		gd, ok := d.(*ast.GenDecl)
		if !ok {
			continue
		}
		for _, s := range gd.Specs {
			ts, ok := s.(*ast.TypeSpec)
			if !ok || ts.Name.Name != iface {
				continue
			}
			it, ok := ts.Type.(*ast.InterfaceType)
			require.True(t, ok, "%s is not an interface", iface)
			var names []string
			for _, m := range it.Methods.List {
				if len(m.Names) == 0 {
					names = append(names, types.ExprString(m.Type))
					continue
				}
				names = append(names, m.Names[0].Name)
			}
			return names
		}
	}
	t.Fatalf("interface %s not found", iface)
	return nil
}

// body returns the statements of a function or method in source order.
// Expression statements are rendered, other statements are named by kind.
func (g *generated) body(t *testing.T, recv, name string) []string {
	t.Helper()
	for _, d := range g.file.Decls {
		fd, ok := d.(*ast.FuncDecl)
		if !ok || fd.Name.Name != name || recvName(fd) != recv {
			continue
		}
		return stmts(fd.Body.List)
	}
	t.Fatalf("func (%s) %s not found", recv, name)
	return nil
}

func stmts(list []ast.Stmt) []string {
	var out []string
	for _, s := range list {
		switch s := s.(type) {
		case *ast.ExprStmt:
			out = append(out, types.ExprString(s.X))
		case *ast.IfStmt:
			out = append(out, "if "+types.ExprString(s.Cond))
		case *ast.TypeSwitchStmt:
			out = append(out, "switch")
		default:
			out = append(out, "?")
		}
	}
	return out
}

// cases returns the statements of every clause of the type switch in a
// function.
func (g *generated) cases(t *testing.T, name string) map[string][]string {
	t.Helper()
	for _, d := range g.file.Decls {
		fd, ok := d.(*ast.FuncDecl)
		if !ok || fd.Name.Name != name || fd.Recv != nil {
			continue
		}
		for _, s := range fd.Body.List {
			sw, ok := s.(*ast.TypeSwitchStmt)
			if !ok {
				continue
			}
			out := make(map[string][]string)
			for _, c := range sw.Body.List {
				cc := c.(*ast.CaseClause)
				out[types.ExprString(cc.List[0])] = stmts(cc.Body)
			}
			return out
		}
	}
	t.Fatalf("type switch in %s not found", name)
	return nil
}

func recvName(fd *ast.FuncDecl) string {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return ""
	}
	return types.ExprString(fd.Recv.List[0].Type)
}

func TestGenerateTree(t *testing.T) {
	g := generate(t, treeModel(t), treeDirectives()...)

	t.Run("visitor interfaces list records first", func(t *testing.T) {
		assert.Equal(t, []string{"VisitTree", "VisitBarItem", "VisitBazItem", "VisitFoo"}, g.methods(t, "EnumVisitor"))
		assert.Equal(t, []string{
			"EnterTree", "LeaveTree",
			"EnterBarItem", "LeaveBarItem",
			"EnterBazItem", "LeaveBazItem",
			"EnterFoo", "LeaveFoo",
		}, g.methods(t, "HierVisitor"))
	})

	t.Run("hook signatures", func(t *testing.T) {
		assert.Contains(t, g.flat, "VisitTree(tree *Tree)")
		assert.Contains(t, g.flat, "VisitBarItem(barItem *BarItem)")
		assert.Contains(t, g.flat, "VisitFoo(foo Foo)")
		assert.Contains(t, g.flat, "func (BaseEnumVisitor) VisitTree(*Tree) {}")
		assert.Contains(t, g.flat, "func (BaseHierVisitor) LeaveFoo(Foo) {}")
		assert.Contains(t, g.flat, "var _ EnumVisitor = BaseEnumVisitor{}")
	})

	t.Run("acceptor interfaces", func(t *testing.T) {
		assert.Equal(t, []string{"AcceptEnumVisitor"}, g.methods(t, "EnumVisitorAcceptor"))
		assert.Equal(t, []string{"isFoo", "EnumVisitorAcceptor", "HierVisitorAcceptor"}, g.methods(t, "Foo"))
	})

	t.Run("record traversal", func(t *testing.T) {
		assert.Equal(t, []string{
			"if x == nil",
			"AcceptEnumVisitorFoo(x.Foo1, v)",
			"AcceptEnumVisitorFoo(x.Foo2, v)",
			"v.VisitTree(x)",
		}, g.body(t, "*Tree", "AcceptEnumVisitor"))
		assert.Equal(t, []string{
			"if x == nil",
			"v.EnterTree(x)",
			"AcceptHierVisitorFoo(x.Foo1, v)",
			"AcceptHierVisitorFoo(x.Foo2, v)",
			"v.LeaveTree(x)",
		}, g.body(t, "*Tree", "AcceptHierVisitor"))
		assert.Equal(t, []string{"if x == nil", "v.EnterBarItem(x)", "v.LeaveBarItem(x)"}, g.body(t, "*BarItem", "AcceptHierVisitor"))
	})

	t.Run("group dispatch", func(t *testing.T) {
		assert.Equal(t, []string{
			"if x == nil || x == (*FooBar)(nil) || x == (*FooBaz)(nil)",
			"v.EnterFoo(x)",
			"switch",
			"v.LeaveFoo(x)",
		}, g.body(t, "", "AcceptHierVisitorFoo"))
		assert.Equal(t, map[string][]string{
			"*FooBar": {"x.Bar.AcceptHierVisitor(v)"},
			"*FooBaz": {"x.Baz.AcceptHierVisitor(v)"},
		}, g.cases(t, "AcceptHierVisitorFoo"))
		assert.Equal(t, []string{"AcceptEnumVisitorFoo(x, v)"}, g.body(t, "*FooBar", "AcceptEnumVisitor"))
	})

	t.Run("units follow directive order", func(t *testing.T) {
		enum := strings.Index(g.src, "type EnumVisitor interface")
		hier := strings.Index(g.src, "type HierVisitor interface")
		tree := strings.Index(g.src, "type Tree struct")
		require.NotEqual(t, -1, enum)
		require.NotEqual(t, -1, hier)
		assert.Less(t, tree, enum)
		assert.Less(t, enum, hier)
	})

	t.Run("exported identifiers", func(t *testing.T) {
		for _, name := range []string{"EnumVisitor", "BaseEnumVisitor", "EnumVisitorAcceptor", "AcceptEnumVisitorFoo"} {
			assert.NotNil(t, g.pkg.Scope().Lookup(name), name)
		}
	})

	t.Run("header", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(g.src, "// Code generated by visitgen. DO NOT EDIT."))
	})
}

func TestGenerateDeterministic(t *testing.T) {
	a := generate(t, treeModel(t), treeDirectives()...)
	b := generate(t, treeModel(t), treeDirectives()...)
	assert.Equal(t, a.src, b.src)
}

func TestGeneratePrivateVisitor(t *testing.T) {
	g := generate(t, treeModel(t), schema.Visitor("HierVisitor", "enter", "enter", "leave", "leave"))

	entities := map[string]bool{"Tree": true, "Foo": true, "FooBar": true, "FooBaz": true, "BarItem": true, "BazItem": true}
	for _, name := range g.pkg.Scope().Names() {
		if entities[name] {
			continue
		}
		assert.False(t, token.IsExported(name), "%s should not be exported", name)
	}
	assert.Equal(t, []string{"enterTree", "leaveTree", "enterBarItem", "leaveBarItem", "enterBazItem", "leaveBazItem", "enterFoo", "leaveFoo"}, g.methods(t, "hierVisitor"))
	assert.Equal(t, []string{
		"if x == nil",
		"v.enterTree(x)",
		"acceptHierVisitorFoo(x.Foo1, v)",
		"acceptHierVisitorFoo(x.Foo2, v)",
		"v.leaveTree(x)",
	}, g.body(t, "*Tree", "acceptHierVisitor"))
	assert.Contains(t, g.flat, "type baseHierVisitor struct{}")
}

func TestGenerateEnterOnly(t *testing.T) {
	g := generate(t, treeModel(t), schema.Visitor("PreVisitor", "public", true, "enter", "pre"))
	assert.Equal(t, []string{"PreTree", "PreBarItem", "PreBazItem", "PreFoo"}, g.methods(t, "PreVisitor"))
	assert.Equal(t, []string{"if x == nil || x == (*FooBar)(nil) || x == (*FooBaz)(nil)", "v.PreFoo(x)", "switch"}, g.body(t, "", "AcceptPreVisitorFoo"))
}

func TestGenerateContainers(t *testing.T) {
	m, err := schema.NewModel(
		schema.Record("Leaf"),
		schema.Group("Foo", schema.Case("Unit")),
		schema.Record("Holder",
			schema.Named("items", schema.List(schema.Ref("Leaf"))),
			schema.Named("boxed", schema.List(schema.Box(schema.Ref("Leaf")))),
			schema.Named("maybe", schema.Optional(schema.Ref("Foo"))),
			schema.Named("set", schema.Set(schema.Ref("Leaf"))),
			schema.Named("foos", schema.Set(schema.Ref("Foo"))),
			schema.Named("pair", schema.Array(2, schema.Ref("Leaf"))),
			schema.Named("grid", schema.Array(2, schema.Array(3, schema.Rc(schema.Ref("Leaf"))))),
			schema.Named("deep", schema.Box(schema.Box(schema.Box(schema.Ref("Leaf"))))),
			schema.Named("shared", schema.Arc(schema.Ref("Foo"))),
			schema.Named("view", schema.Borrowed(schema.Ref("Leaf"))),
			schema.Named("count", schema.Leaf(schema.Int64)),
			schema.Named("names", schema.List(schema.Leaf(schema.String))),
			schema.Named("flags", schema.Optional(schema.Array(2, schema.Leaf(schema.Bool)))),
		),
	)
	require.NoError(t, err)
	g := generate(t, m, schema.Visitor("EnumVisitor", "public", true))

	t.Run("field types", func(t *testing.T) {
		for _, field := range []string{
			"Items []Leaf",
			"Boxed []*Leaf",
			"Maybe *Foo",
			"Set map[Leaf]struct{}",
			"Foos map[Foo]struct{}",
			"Pair [2]Leaf",
			"Grid [2][3]*Leaf",
			"Deep ***Leaf",
			"Shared *Foo",
			"View *Leaf",
			"Count int64",
			"Names []string",
			"Flags *[2]bool",
		} {
			assert.Contains(t, g.flat, field)
		}
	})

	t.Run("traversal skips inert fields", func(t *testing.T) {
		body := g.body(t, "*Holder", "AcceptEnumVisitor")
		require.Len(t, body, 12)
		assert.Equal(t, "if x == nil", body[0])
		assert.Equal(t, "enumVisitorSlice((*Leaf).AcceptEnumVisitor)(&x.Items, v)", body[1])
		assert.Equal(t, "enumVisitorSlice(enumVisitorPtr((*Leaf).AcceptEnumVisitor))(&x.Boxed, v)", body[2])
		assert.Equal(t, "enumVisitorPtr(enumVisitorAccept[Foo])(&x.Maybe, v)", body[3])
		assert.Equal(t, "enumVisitorSet((*Leaf).AcceptEnumVisitor)(&x.Set, v)", body[4])
		assert.Equal(t, "enumVisitorSet(enumVisitorAccept[Foo])(&x.Foos, v)", body[5])
		assert.Equal(t, "(func(xs *[2]Leaf, v EnumVisitor) literal)(&x.Pair, v)", body[6])
		assert.Equal(t, "(func(xs *[2][3]*Leaf, v EnumVisitor) literal)(&x.Grid, v)", body[7])
		assert.Equal(t, "enumVisitorPtr(enumVisitorPtr(enumVisitorPtr((*Leaf).AcceptEnumVisitor)))(&x.Deep, v)", body[8])
		assert.Equal(t, "enumVisitorPtr(enumVisitorAccept[Foo])(&x.Shared, v)", body[9])
		assert.Equal(t, "enumVisitorPtr((*Leaf).AcceptEnumVisitor)(&x.View, v)", body[10])
		assert.Equal(t, "v.VisitHolder(x)", body[11])
	})

	t.Run("unit only group does not bind the switch variable", func(t *testing.T) {
		assert.Contains(t, g.flat, "switch x.(type) {")
		assert.Equal(t, map[string][]string{"*FooUnit": nil}, g.cases(t, "AcceptEnumVisitorFoo"))
	})
}

func TestGeneratePositionalFields(t *testing.T) {
	m, err := schema.NewModel(
		schema.Record("Child"),
		schema.Record("Bar",
			schema.Positional(schema.Ref("Child")),
			schema.Positional(schema.Leaf(schema.String)),
			schema.Positional(schema.Ref("Child")),
		),
		schema.Group("Expr",
			schema.Case("Lit", schema.Positional(schema.Leaf(schema.Int))),
			schema.Case("Neg", schema.Positional(schema.Box(schema.Ref("Expr")))),
			schema.Case("Add", schema.Positional(schema.Box(schema.Ref("Expr"))), schema.Positional(schema.Box(schema.Ref("Expr")))),
		),
	)
	require.NoError(t, err)
	g := generate(t, m, schema.Visitor("EnumVisitor", "public", true))

	assert.Equal(t, []string{
		"if x == nil",
		"x.F0.AcceptEnumVisitor(v)",
		"x.F2.AcceptEnumVisitor(v)",
		"v.VisitBar(x)",
	}, g.body(t, "*Bar", "AcceptEnumVisitor"))
	assert.Equal(t, map[string][]string{
		"*ExprLit": nil,
		"*ExprNeg": {"enumVisitorPtr(enumVisitorAccept[Expr])(&x.F0, v)"},
		"*ExprAdd": {
			"enumVisitorPtr(enumVisitorAccept[Expr])(&x.F0, v)",
			"enumVisitorPtr(enumVisitorAccept[Expr])(&x.F1, v)",
		},
	}, g.cases(t, "AcceptEnumVisitorExpr"))
}

func TestGenerateSelfReference(t *testing.T) {
	m, err := schema.NewModel(
		schema.Record("Node",
			schema.Named("children", schema.List(schema.Ref("Node"))),
			schema.Named("parent", schema.Optional(schema.Ref("Node"))),
		),
	)
	require.NoError(t, err)
	g := generate(t, m, schema.Visitor("NodeVisitor", "public", true))
	assert.Equal(t, []string{
		"if x == nil",
		"nodeVisitorSlice((*Node).AcceptNodeVisitor)(&x.Children, v)",
		"nodeVisitorPtr((*Node).AcceptNodeVisitor)(&x.Parent, v)",
		"v.VisitNode(x)",
	}, g.body(t, "*Node", "AcceptNodeVisitor"))
}

func TestGenerateGenerics(t *testing.T) {
	m, err := schema.NewModel(
		schema.Record("Leaf"),
		schema.Record("Pair",
			schema.Named("first", schema.Ref("A")),
			schema.Named("second", schema.Ref("B")),
			schema.Named("rest", schema.List(schema.Ref("A"))),
			schema.Named("next", schema.Optional(schema.Ref("Pair", schema.Ref("A"), schema.Ref("B")))),
		).Generic(schema.TypeParam("A"), schema.TypeParam("B", "comparable")),
		schema.Group("Either",
			schema.Case("Left", schema.Positional(schema.Ref("A"))),
			schema.Case("Right", schema.Positional(schema.Ref("Pair", schema.Ref("A"), schema.Ref("A")))),
			schema.Case("Nothing"),
		).Generic(schema.TypeParam("A", "comparable")),
		schema.Record("Holder",
			schema.Named("pair", schema.Ref("Pair", schema.Box(schema.Ref("Leaf")), schema.Ref("Either", schema.Box(schema.Ref("Leaf"))))),
			schema.Named("either", schema.Ref("Either", schema.Box(schema.Ref("Leaf")))),
		),
	)
	require.NoError(t, err)
	g := generate(t, m, treeDirectives()...)

	t.Run("node interfaces", func(t *testing.T) {
		assert.Contains(t, g.flat, "VisitPair(pair PairNode)")
		assert.Contains(t, g.flat, "VisitEither(either EitherNode)")
		assert.Equal(t, []string{"EitherNode", "isEither", "EnumVisitorAcceptor", "HierVisitorAcceptor"}, g.methods(t, "Either"))
		assert.NotNil(t, g.pkg.Scope().Lookup("PairNode"))
	})

	t.Run("constraints carry every acceptor", func(t *testing.T) {
		obj := g.pkg.Scope().Lookup("Pair")
		require.NotNil(t, obj)
		named := obj.Type().(*types.Named)
		require.Equal(t, 2, named.TypeParams().Len())
		for i := 0; i < named.TypeParams().Len(); i++ {
			bound := named.TypeParams().At(i).Constraint().Underlying().(*types.Interface)
			assert.Equal(t, 2, bound.NumMethods())
			assert.Equal(t, i == 1, bound.IsComparable())
		}
	})

	t.Run("generic traversal", func(t *testing.T) {
		assert.Equal(t, []string{
			"if x == nil",
			"enumVisitorAccept(&x.First, v)",
			"enumVisitorAccept(&x.Second, v)",
			"enumVisitorSlice(enumVisitorAccept[A])(&x.Rest, v)",
			"enumVisitorPtr((*Pair[A, B]).AcceptEnumVisitor)(&x.Next, v)",
			"v.VisitPair(x)",
		}, g.body(t, "*Pair[A, B]", "AcceptEnumVisitor"))
		assert.Equal(t, map[string][]string{
			"*EitherLeft[A]":    {"enumVisitorAccept(&x.F0, v)"},
			"*EitherRight[A]":   {"x.F0.AcceptEnumVisitor(v)"},
			"*EitherNothing[A]": nil,
		}, g.cases(t, "AcceptEnumVisitorEither"))
		assert.Equal(t, []string{"AcceptEnumVisitorEither[A](x, v)"}, g.body(t, "*EitherLeft[A]", "AcceptEnumVisitor"))
		assert.Equal(t,
			"if x == nil || x == (*EitherLeft[A])(nil) || x == (*EitherRight[A])(nil) || x == (*EitherNothing[A])(nil)",
			g.body(t, "", "AcceptEnumVisitorEither")[0])
		assert.Equal(t, []string{
			"if x == nil",
			"x.Pair.AcceptEnumVisitor(v)",
			"AcceptEnumVisitorEither[*Leaf](x.Either, v)",
			"v.VisitHolder(x)",
		}, g.body(t, "*Holder", "AcceptEnumVisitor"))
	})
}

func TestGenerateGenericGroupArgument(t *testing.T) {
	m, err := schema.NewModel(
		schema.Record("Leaf"),
		schema.Record("Wrap", schema.Named("v", schema.Ref("T"))).Generic(schema.TypeParam("T")),
		schema.Group("Opt",
			schema.Case("Some", schema.Positional(schema.Ref("T"))),
			schema.Case("None"),
		).Generic(schema.TypeParam("T")),
		schema.Record("Holder",
			schema.Named("w", schema.Ref("Wrap", schema.Ref("Opt", schema.Box(schema.Ref("Leaf"))))),
		),
	)
	require.NoError(t, err)
	g := generate(t, m, treeDirectives()...)

	obj := g.pkg.Scope().Lookup("Holder")
	require.NotNil(t, obj)
	field := obj.Type().Underlying().(*types.Struct).Field(0)
	assert.Equal(t, "tree.Wrap[tree.Opt[*tree.Leaf]]", field.Type().String())

	assert.Equal(t, []string{
		"if x == nil",
		"x.W.AcceptEnumVisitor(v)",
		"v.VisitHolder(x)",
	}, g.body(t, "*Holder", "AcceptEnumVisitor"))
	assert.Equal(t, map[string][]string{
		"*OptSome[T]": {"enumVisitorAccept(&x.F0, v)"},
		"*OptNone[T]": nil,
	}, g.cases(t, "AcceptEnumVisitorOpt"))
}

func TestGenerateWithoutModels(t *testing.T) {
	cfg := MustNewConfig(WithPackage("tree"), WithoutModels())
	g, err := NewGenerator(cfg, treeModel(t), treeDirectives()...)
	require.NoError(t, err)
	src := g.File().GoString()
	assert.NotContains(t, src, "type Tree struct")
	assert.NotContains(t, src, "type FooBar struct")
	assert.Contains(t, src, "type EnumVisitor interface")

	// The models file and the visitor units together form a valid package.
	var b strings.Builder
	b.WriteString(g.ModelsFile().GoString())
	for _, v := range g.Visitors() {
		unit := g.VisitorFile(v).GoString()
		b.WriteString(unit[strings.Index(unit, "\npackage tree")+len("\npackage tree"):])
	}
	check(t, b.String())
}

func TestGenerateHeader(t *testing.T) {
	cfg := MustNewConfig(WithPackage("tree"), WithHeader("Copyright 2026 The Authors."))
	g, err := NewGenerator(cfg, treeModel(t), treeDirectives()...)
	require.NoError(t, err)
	assert.Contains(t, g.File().GoString(), "// Copyright 2026 The Authors.")
}

func TestGenerateNoVisitors(t *testing.T) {
	g := generate(t, treeModel(t))
	assert.Contains(t, g.flat, "type Tree struct")
	assert.Equal(t, []string{"isFoo"}, g.methods(t, "Foo"))
}

func TestNewGeneratorErrors(t *testing.T) {
	tests := []struct {
		name       string
		model      func(t *testing.T) *schema.Model
		directives []schema.Directive
		kind       error
		contains   string
	}{
		{
			name: "unregistered container",
			model: func(t *testing.T) *schema.Model {
				return schema.MustNewModel(
					schema.Record("Tree", schema.Named("kids", schema.Container("btree", schema.Ref("Tree")))).At("schema.yaml:4:3"),
				)
			},
			directives: []schema.Directive{schema.Visitor("V")},
			kind:       ErrUnregisteredType,
			contains:   `schema.yaml:4:3: visitgen: unregistered type "btree(Tree)" on type Tree field kids`,
		},
		{
			name: "unknown entity in variant",
			model: func(t *testing.T) *schema.Model {
				return schema.MustNewModel(schema.Group("Foo", schema.Case("Bar", schema.Positional(schema.Ref("Missing")))))
			},
			kind:     ErrUnregisteredType,
			contains: "field Bar.#0",
		},
		{
			name: "same enter and leave",
			model: func(t *testing.T) *schema.Model {
				return treeModel(t)
			},
			directives: []schema.Directive{schema.Visitor("V", "enter", "x", "leave", "x")},
			kind:       ErrSameEnterLeaveIdentifier,
		},
		{
			name: "duplicate visitors",
			model: func(t *testing.T) *schema.Model {
				return treeModel(t)
			},
			directives: []schema.Directive{schema.Visitor("V"), schema.Visitor("V", "public", true)},
			kind:       ErrDuplicateConfigName,
		},
		{
			name: "visitor collides with entity",
			model: func(t *testing.T) *schema.Model {
				return treeModel(t)
			},
			directives: []schema.Directive{schema.Visitor("Tree", "public", true)},
			kind:       ErrDuplicateConfigName,
			contains:   "collides with record Tree",
		},
		{
			name: "hook names collide",
			model: func(t *testing.T) *schema.Model {
				return schema.MustNewModel(schema.Record("HTTPCode"), schema.Record("HttpCode"))
			},
			kind:     ErrInvalidSchema,
			contains: `hook name "http_code"`,
		},
		{
			name: "field names collide",
			model: func(t *testing.T) *schema.Model {
				return schema.MustNewModel(schema.Record("R",
					schema.Named("user_id", schema.Leaf(schema.Int)),
					schema.Named("userID", schema.Leaf(schema.Int)),
				))
			},
			kind:     ErrInvalidSchema,
			contains: "Go field name UserID",
		},
		{
			name: "leaf generic argument",
			model: func(t *testing.T) *schema.Model {
				return schema.MustNewModel(
					schema.Record("Box", schema.Named("v", schema.Ref("T"))).Generic(schema.TypeParam("T")),
					schema.Record("R", schema.Named("b", schema.Ref("Box", schema.Leaf(schema.Int)))),
				)
			},
			kind:     ErrInvalidSchema,
			contains: "type argument of Box",
		},
		{
			name: "set of non comparable record",
			model: func(t *testing.T) *schema.Model {
				return schema.MustNewModel(
					schema.Record("Item", schema.Named("xs", schema.List(schema.Leaf(schema.Int)))),
					schema.Record("Holder", schema.Named("items", schema.Set(schema.Ref("Item")))),
				)
			},
			kind:     ErrInvalidSchema,
			contains: `"set(Item)" on type Holder field items: set elements must be comparable, Item is not`,
		},
		{
			name: "enter and leave render alike",
			model: func(t *testing.T) *schema.Model {
				return treeModel(t)
			},
			directives: []schema.Directive{schema.Visitor("V", "enter", "Visit", "leave", "visit")},
			kind:       ErrSameEnterLeaveIdentifier,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGenerator(MustNewConfig(WithPackage("tree")), tt.model(t), tt.directives...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}

	t.Run("missing package", func(t *testing.T) {
		_, err := NewGenerator(&Config{}, treeModel(t))
		assert.True(t, IsConfigError(err))
	})

	t.Run("missing model", func(t *testing.T) {
		_, err := NewGenerator(MustNewConfig(WithPackage("tree")), nil)
		assert.True(t, IsConfigError(err))
	})

	t.Run("MustNewGenerator panics", func(t *testing.T) {
		assert.Panics(t, func() {
			MustNewGenerator(MustNewConfig(WithPackage("tree")), treeModel(t), schema.Visitor("V"), schema.Visitor("V"))
		})
	})
}

func TestRender(t *testing.T) {
	g := MustNewGenerator(MustNewConfig(WithPackage("tree")), treeModel(t), treeDirectives()...)
	var b strings.Builder
	require.NoError(t, g.Render(&b))
	check(t, b.String())
}
