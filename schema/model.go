package schema

import (
	"fmt"
	"go/token"
	"go/types"
)

// Model is the normalized, immutable view of the declared entities.
// It must not be modified after NewModel returns.
type Model struct {
	entities []*Entity
	byName   map[string]*Entity
}

// NewModel validates the given entities and returns a model that preserves
// their declaration order. It does not check that referenced types exist;
// that is the job of the traversal registry at generation time.
func NewModel(entities ...*Entity) (*Model, error) {
	m := &Model{
		entities: make([]*Entity, 0, len(entities)),
		byName:   make(map[string]*Entity, len(entities)),
	}
	for i, e := range entities {
		if e == nil {
			return nil, NewSchemaError("", "", "", fmt.Sprintf("entity #%d is nil", i))
		}
		if err := checkEntity(e); err != nil {
			return nil, err
		}
		if prev, ok := m.byName[e.Name]; ok {
			msg := "declared more than once"
			if prev.Pos != "" {
				msg += " (previous declaration at " + prev.Pos + ")"
			}
			return nil, NewSchemaError(e.Pos, e.Name, "", msg)
		}
		m.byName[e.Name] = e
		m.entities = append(m.entities, e)
	}
	// Variant types are named after their group, make sure they do
	// not shadow a declared entity.
	for _, e := range m.Groups() {
		for _, v := range e.Variants {
			if other, ok := m.byName[e.Name+v.Name]; ok {
				return nil, NewSchemaError(v.Pos, e.Name, v.Name,
					fmt.Sprintf("variant type %s%s clashes with %s %s", e.Name, v.Name, other.Kind, other.Name))
			}
		}
	}
	return m, nil
}

// MustNewModel is like NewModel but panics on error.
func MustNewModel(entities ...*Entity) *Model {
	m, err := NewModel(entities...)
	if err != nil {
		panic(err)
	}
	return m
}

// Entities returns all entities in declaration order.
func (m *Model) Entities() []*Entity {
	return append([]*Entity(nil), m.entities...)
}

// Records returns the records in declaration order.
func (m *Model) Records() []*Entity {
	return m.filter(KindRecord)
}

// Groups returns the variant groups in declaration order.
func (m *Model) Groups() []*Entity {
	return m.filter(KindGroup)
}

// Partitioned returns records followed by variant groups, each part in
// declaration order. This is the order in which per-entity code is emitted.
func (m *Model) Partitioned() []*Entity {
	return append(m.Records(), m.Groups()...)
}

// Lookup returns the entity with the given name.
func (m *Model) Lookup(name string) (*Entity, bool) {
	e, ok := m.byName[name]
	return e, ok
}

// Len returns the number of entities.
func (m *Model) Len() int { return len(m.entities) }

func (m *Model) filter(k EntityKind) []*Entity {
	var out []*Entity
	for _, e := range m.entities {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

func checkEntity(e *Entity) error {
	if !token.IsIdentifier(e.Name) {
		return NewSchemaError(e.Pos, e.Name, "", "invalid entity identifier")
	}
	if reserved(e.Name) {
		return NewSchemaError(e.Pos, e.Name, "", fmt.Sprintf("entity name %s is reserved", e.Name))
	}
	seen := make(map[string]struct{}, len(e.Params))
	for _, p := range e.Params {
		if p == nil || !token.IsIdentifier(p.Name) {
			return NewSchemaError(e.Pos, e.Name, "", "invalid generic parameter")
		}
		if reserved(p.Name) {
			return NewSchemaError(e.Pos, e.Name, "", fmt.Sprintf("generic parameter name %s is reserved", p.Name))
		}
		if _, ok := seen[p.Name]; ok {
			return NewSchemaError(e.Pos, e.Name, "", fmt.Sprintf("generic parameter %s declared more than once", p.Name))
		}
		seen[p.Name] = struct{}{}
	}
	switch e.Kind {
	case KindRecord:
		if len(e.Variants) > 0 {
			return NewSchemaError(e.Pos, e.Name, "", "record cannot declare variants")
		}
		return checkFields(e.Pos, e.Name, e.Fields)
	case KindGroup:
		if len(e.Fields) > 0 {
			return NewSchemaError(e.Pos, e.Name, "", "variant group cannot declare fields")
		}
		if len(e.Variants) == 0 {
			return NewSchemaError(e.Pos, e.Name, "", "variant group requires at least one variant")
		}
		names := make(map[string]struct{}, len(e.Variants))
		for _, v := range e.Variants {
			if v == nil || !token.IsIdentifier(v.Name) {
				return NewSchemaError(e.Pos, e.Name, "", "invalid variant identifier")
			}
			if _, ok := names[v.Name]; ok {
				return NewSchemaError(v.Pos, e.Name, v.Name, "variant declared more than once")
			}
			names[v.Name] = struct{}{}
			pos := v.Pos
			if pos == "" {
				pos = e.Pos
			}
			if err := checkFields(pos, e.Name, v.Fields); err != nil {
				return err
			}
		}
		return nil
	default:
		return NewSchemaError(e.Pos, e.Name, "", "unknown entity kind")
	}
}

// reserved reports whether a type named name would shadow a leaf kind or
// a predeclared Go identifier, or cannot be declared at package level.
func reserved(name string) bool {
	return IsLeaf(name) || types.Universe.Lookup(name) != nil || name == "_" || name == "init"
}

// checkFields validates a field list and assigns positional indexes.
func checkFields(pos, owner string, fields []*Field) error {
	names := make(map[string]struct{}, len(fields))
	var named, positional int
	for i, f := range fields {
		if f == nil {
			return NewSchemaError(pos, owner, "", fmt.Sprintf("field #%d is nil", i))
		}
		if f.Type == nil {
			return NewSchemaError(pos, owner, fieldLabel(f, i), "missing type reference")
		}
		f.Index = i
		if f.IsPositional() {
			positional++
			continue
		}
		named++
		if !token.IsIdentifier(f.Name) {
			return NewSchemaError(pos, owner, f.Name, "invalid field identifier")
		}
		if _, ok := names[f.Name]; ok {
			return NewSchemaError(pos, owner, f.Name, "field declared more than once")
		}
		names[f.Name] = struct{}{}
	}
	if named > 0 && positional > 0 {
		return NewSchemaError(pos, owner, "", "cannot mix named and positional fields")
	}
	return nil
}

func fieldLabel(f *Field, i int) string {
	if f.Name != "" {
		return f.Name
	}
	return fmt.Sprintf("#%d", i)
}

// Label returns the field name, or its position for positional fields.
func (f *Field) Label() string {
	return fieldLabel(f, f.Index)
}
