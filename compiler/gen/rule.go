package gen

import (
	"fmt"
	"maps"
	"slices"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/visitgen/schema"
)

// KindBorrowed is the registry key of the rule applied to borrowed
// references.
const KindBorrowed schema.Kind = "borrowed"

// Built-in helper suffixes. Each visitor gets its own copy of the helpers,
// prefixed with the visitor name (e.g. enumVisitorSlice).
const (
	HelperAccept = "Accept"
	HelperSlice  = "Slice"
	HelperSet    = "Set"
	HelperPtr    = "Ptr"
)

type (
	// Rule describes how the values of a wrapper kind are declared and
	// traversed.
	Rule struct {
		// Kind is the wrapper kind the rule applies to.
		Kind schema.Kind
		// Type renders the Go type of the wrapper around its element type.
		Type func(ref *schema.TypeRef, elem jen.Code) jen.Code
		// Helper names the built-in helper that lifts an element accept
		// function into an accept function of the wrapper.
		Helper string
		// Inline renders an accept function of the wrapper when no generic
		// helper can express it. It is used when Helper is empty.
		Inline func(s *Scope, ref *schema.TypeRef, wrapper, accept jen.Code) jen.Code
		// Pointer reports whether the wrapper is a nillable reference to a
		// single element. Pointer wrappers around records are valid generic
		// arguments.
		Pointer bool
		// Keyed reports whether the elements are map keys and must be
		// comparable.
		Keyed bool
		// Comparable reports whether the wrapper type is comparable given
		// the comparability of its element. A nil func means never.
		Comparable func(elem bool) bool
	}

	// Helper is a generic function emitted once per visitor.
	Helper struct {
		// Suffix is appended to the visitor prefix to form the function name.
		Suffix string
		// Decl renders the function declaration.
		Decl func(s *Scope) jen.Code
	}

	// Registry maps wrapper kinds and leaf kinds to traversal rules. It is
	// immutable once generation starts.
	Registry struct {
		rules   map[schema.Kind]*Rule
		leaves  map[schema.LeafKind]jen.Code
		helpers []*Helper
	}
)

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rules:  make(map[schema.Kind]*Rule),
		leaves: make(map[schema.LeafKind]jen.Code),
	}
}

// DefaultRegistry returns a registry with rules for every known container
// kind and leaf kind.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, k := range schema.LeafKinds {
		r.RegisterLeaf(k, jen.Id(string(k)))
	}
	for _, h := range builtinHelpers() {
		r.RegisterHelper(h)
	}
	r.Register(&Rule{
		Kind:   schema.KindList,
		Type:   func(_ *schema.TypeRef, elem jen.Code) jen.Code { return jen.Index().Add(elem) },
		Helper: HelperSlice,
	})
	r.Register(&Rule{
		Kind:   schema.KindSet,
		Type:   func(_ *schema.TypeRef, elem jen.Code) jen.Code { return jen.Map(elem).Struct() },
		Helper: HelperSet,
		Keyed:  true,
	})
	r.Register(&Rule{
		Kind:       schema.KindArray,
		Type:       func(ref *schema.TypeRef, elem jen.Code) jen.Code { return jen.Index(jen.Lit(ref.Len)).Add(elem) },
		Inline:     arrayAccept,
		Comparable: func(elem bool) bool { return elem },
	})
	for _, k := range []schema.Kind{schema.KindOptional, schema.KindBox, schema.KindRc, schema.KindArc, KindBorrowed} {
		r.Register(&Rule{
			Kind:       k,
			Type:       func(_ *schema.TypeRef, elem jen.Code) jen.Code { return jen.Op("*").Add(elem) },
			Helper:     HelperPtr,
			Pointer:    true,
			Comparable: func(bool) bool { return true },
		})
	}
	return r
}

// Register adds or replaces the rule for a wrapper kind.
func (r *Registry) Register(rule *Rule) {
	r.rules[rule.Kind] = rule
}

// RegisterLeaf adds or replaces a leaf kind and its Go type.
func (r *Registry) RegisterLeaf(k schema.LeafKind, goType jen.Code) {
	r.leaves[k] = goType
}

// RegisterHelper adds a helper emitted for every visitor. Helpers are
// emitted in registration order. A helper with an existing suffix replaces
// the previous one.
func (r *Registry) RegisterHelper(h *Helper) {
	for i, prev := range r.helpers {
		if prev.Suffix == h.Suffix {
			r.helpers[i] = h
			return
		}
	}
	r.helpers = append(r.helpers, h)
}

// Rule returns the rule registered for the given kind.
func (r *Registry) Rule(k schema.Kind) (*Rule, bool) {
	rule, ok := r.rules[k]
	return rule, ok
}

// Kinds returns the registered wrapper kinds, sorted.
func (r *Registry) Kinds() []schema.Kind {
	return slices.Sorted(maps.Keys(r.rules))
}

// Helpers returns the registered helpers in emission order.
func (r *Registry) Helpers() []*Helper {
	return r.helpers
}

// Action tells how a resolved type is traversed.
type Action uint8

// Traversal actions.
const (
	// ActionNone marks inert types. Nothing is emitted for them.
	ActionNone Action = iota
	// ActionRecord delegates to the accept method of a record.
	ActionRecord
	// ActionGroup delegates to the dispatch function of a variant group.
	ActionGroup
	// ActionParam delegates to the acceptor bound of a generic parameter.
	ActionParam
	// ActionWrap traverses the element of a wrapper through its rule.
	ActionWrap
)

// Resolved is a type reference resolved against a model and a registry.
type Resolved struct {
	Ref    *schema.TypeRef
	Action Action
	// Entity is set for ActionRecord and ActionGroup.
	Entity *schema.Entity
	// Param is set for ActionParam.
	Param *schema.Param
	// Args are the resolved generic arguments of Entity.
	Args []*Resolved
	// Rule and Elem are set for ActionWrap.
	Rule *Rule
	Elem *Resolved
	// Leaf is the Go type of a leaf.
	Leaf jen.Code
}

// Inert reports whether no entity or generic parameter is reachable from
// the type. Inert types generate no traversal code.
func (r *Resolved) Inert() bool {
	switch r.Action {
	case ActionNone:
		return true
	case ActionWrap:
		return r.Elem.Inert()
	default:
		return false
	}
}

// acceptor reports whether values of the type implement the acceptor
// interface of every visitor.
func (r *Resolved) acceptor() bool {
	switch r.Action {
	case ActionGroup, ActionParam:
		return true
	case ActionWrap:
		return r.Rule.Pointer && r.Elem.Action == ActionRecord
	default:
		return false
	}
}

// Resolve resolves a field type declared by owner. Generic parameters of
// owner shadow entities with the same name.
func (r *Registry) Resolve(m *schema.Model, owner *schema.Entity, ref *schema.TypeRef) (*Resolved, error) {
	if ref == nil {
		return nil, &TypeError{Kind: ErrUnregisteredType, Message: "missing type reference"}
	}
	switch ref.Shape {
	case schema.ShapeRef:
		if p, ok := owner.Param(ref.Name); ok && len(ref.Args) == 0 {
			return &Resolved{Ref: ref, Action: ActionParam, Param: p}, nil
		}
		e, ok := m.Lookup(ref.Name)
		if !ok {
			return nil, &TypeError{Ref: ref.String(), Kind: ErrUnregisteredType, Message: "no entity, generic parameter or rule matches"}
		}
		if len(ref.Args) != len(e.Params) {
			return nil, &TypeError{
				Ref:     ref.String(),
				Kind:    ErrInvalidSchema,
				Message: fmt.Sprintf("%s expects %d type arguments, got %d", e.Name, len(e.Params), len(ref.Args)),
			}
		}
		res := &Resolved{Ref: ref, Action: ActionRecord, Entity: e}
		if e.IsGroup() {
			res.Action = ActionGroup
		}
		for _, a := range ref.Args {
			arg, err := r.Resolve(m, owner, a)
			if err != nil {
				return nil, err
			}
			if !arg.acceptor() {
				return nil, &TypeError{
					Ref:     a.String(),
					Kind:    ErrInvalidSchema,
					Message: fmt.Sprintf("type argument of %s must be a variant group, a generic parameter or a pointer to a record", e.Name),
				}
			}
			res.Args = append(res.Args, arg)
		}
		return res, nil
	case schema.ShapeContainer, schema.ShapeBorrowed:
		k := ref.Kind
		if ref.Shape == schema.ShapeBorrowed {
			k = KindBorrowed
		}
		rule, ok := r.rules[k]
		if !ok {
			return nil, &TypeError{Ref: ref.String(), Kind: ErrUnregisteredType, Message: fmt.Sprintf("no rule for %q", k)}
		}
		if rule.Helper == "" && rule.Inline == nil {
			return nil, &TypeError{Ref: ref.String(), Kind: ErrUnregisteredType, Message: fmt.Sprintf("rule for %q cannot traverse its elements", k)}
		}
		if k == schema.KindArray && ref.Len <= 0 {
			return nil, &TypeError{Ref: ref.String(), Kind: ErrInvalidSchema, Message: "array length must be positive"}
		}
		elem, err := r.Resolve(m, owner, ref.Elem)
		if err != nil {
			return nil, err
		}
		if rule.Keyed && !r.comparable(m, owner, ref.Elem, ownerParams(owner), nil) {
			return nil, &TypeError{
				Ref:     ref.String(),
				Kind:    ErrInvalidSchema,
				Message: fmt.Sprintf("%s elements must be comparable, %s is not", k, ref.Elem),
			}
		}
		return &Resolved{Ref: ref, Action: ActionWrap, Rule: rule, Elem: elem}, nil
	case schema.ShapeLeaf:
		t, ok := r.leaves[ref.Leaf]
		if !ok {
			return nil, &TypeError{Ref: ref.String(), Kind: ErrUnregisteredType, Message: "unknown leaf kind"}
		}
		return &Resolved{Ref: ref, Action: ActionNone, Leaf: t}, nil
	default:
		return nil, &TypeError{Ref: ref.String(), Kind: ErrUnregisteredType, Message: "invalid type reference"}
	}
}

// ownerParams maps the generic parameters of owner to their
// comparability.
func ownerParams(owner *schema.Entity) map[string]bool {
	env := make(map[string]bool, len(owner.Params))
	for _, p := range owner.Params {
		env[p.Name] = slices.Contains(p.Bounds, "comparable")
	}
	return env
}

// comparable reports whether the Go type of ref, declared by owner, is
// comparable. env holds the comparability of the generic parameters of
// owner. Records are comparable when all their fields are. Variant groups
// are interfaces and always comparable.
func (r *Registry) comparable(m *schema.Model, owner *schema.Entity, ref *schema.TypeRef, env map[string]bool, seen map[*schema.Entity]bool) bool {
	switch ref.Shape {
	case schema.ShapeLeaf:
		return true
	case schema.ShapeContainer, schema.ShapeBorrowed:
		k := ref.Kind
		if ref.Shape == schema.ShapeBorrowed {
			k = KindBorrowed
		}
		rule, ok := r.rules[k]
		if !ok {
			return true
		}
		if rule.Comparable == nil {
			return false
		}
		return rule.Comparable(r.comparable(m, owner, ref.Elem, env, seen))
	case schema.ShapeRef:
		if _, ok := owner.Param(ref.Name); ok && len(ref.Args) == 0 {
			return env[ref.Name]
		}
		e, ok := m.Lookup(ref.Name)
		if !ok {
			// Reported when the declaring entity is resolved.
			return true
		}
		if e.IsGroup() || seen[e] {
			return true
		}
		args := make(map[string]bool, len(e.Params))
		for i, p := range e.Params {
			args[p.Name] = i < len(ref.Args) && r.comparable(m, owner, ref.Args[i], env, seen)
		}
		if seen == nil {
			seen = make(map[*schema.Entity]bool)
		}
		seen[e] = true
		defer delete(seen, e)
		for _, f := range e.Fields {
			if !r.comparable(m, e, f.Type, args, seen) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
