package schema

// EntityKind distinguishes records from variant groups.
type EntityKind uint8

// Entity kinds.
const (
	KindRecord EntityKind = iota + 1
	KindGroup
)

// String returns the kind name.
func (k EntityKind) String() string {
	switch k {
	case KindRecord:
		return "record"
	case KindGroup:
		return "variant-group"
	default:
		return "invalid"
	}
}

type (
	// Entity is a declared record or variant group.
	Entity struct {
		// Name is the entity identifier, unique within a schema.
		Name string
		// Kind tells records and variant groups apart.
		Kind EntityKind
		// Params holds the generic parameters in declaration order.
		Params []*Param
		// Fields of a record, in declaration order.
		Fields []*Field
		// Variants of a variant group, in declaration order.
		Variants []*Variant
		// Pos is the origin of the declaration, if known.
		Pos string
	}

	// Param is a generic parameter of an entity.
	Param struct {
		Name string
		// Bounds are additional Go constraints (e.g. "comparable") that are
		// combined with the acceptor capability of every visitor.
		Bounds []string
	}

	// Field is a named or positional field.
	Field struct {
		// Name is empty for positional fields.
		Name string
		// Index is the position of the field within its record or variant.
		Index int
		Type  *TypeRef
	}

	// Variant is one case of a variant group.
	Variant struct {
		Name   string
		Fields []*Field
		Pos    string
	}
)

// Record declares a record entity.
func Record(name string, fields ...*Field) *Entity {
	return &Entity{Name: name, Kind: KindRecord, Fields: fields}
}

// Group declares a variant group entity.
func Group(name string, variants ...*Variant) *Entity {
	return &Entity{Name: name, Kind: KindGroup, Variants: variants}
}

// Generic sets the generic parameters of the entity.
func (e *Entity) Generic(params ...*Param) *Entity {
	e.Params = params
	return e
}

// At records the origin of the declaration.
func (e *Entity) At(pos string) *Entity {
	e.Pos = pos
	return e
}

// IsRecord reports whether the entity is a record.
func (e *Entity) IsRecord() bool { return e.Kind == KindRecord }

// IsGroup reports whether the entity is a variant group.
func (e *Entity) IsGroup() bool { return e.Kind == KindGroup }

// IsGeneric reports whether the entity declares generic parameters.
func (e *Entity) IsGeneric() bool { return len(e.Params) > 0 }

// Param returns the generic parameter with the given name.
func (e *Entity) Param(name string) (*Param, bool) {
	for _, p := range e.Params {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// TypeParam declares a generic parameter.
func TypeParam(name string, bounds ...string) *Param {
	return &Param{Name: name, Bounds: bounds}
}

// Named declares a named field.
func Named(name string, t *TypeRef) *Field {
	return &Field{Name: name, Type: t}
}

// Positional declares a positional field. Its index is assigned by NewModel.
func Positional(t *TypeRef) *Field {
	return &Field{Type: t}
}

// IsPositional reports whether the field has no name.
func (f *Field) IsPositional() bool { return f.Name == "" }

// Case declares a variant of a group. A variant without fields is a unit
// variant.
func Case(name string, fields ...*Field) *Variant {
	return &Variant{Name: name, Fields: fields}
}

// IsUnit reports whether the variant has no fields.
func (v *Variant) IsUnit() bool { return len(v.Fields) == 0 }
