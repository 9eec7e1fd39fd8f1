package load

import (
	"fmt"

	"github.com/syssam/visitgen/schema"
)

// Document is a schema descriptor as decoded from a YAML, JSON or
// MessagePack file. It is the normalized input of the generator: entity
// declarations in order plus the raw visitor directives.
type Document struct {
	Package  string           `json:"package,omitempty" yaml:"package,omitempty" msgpack:"package,omitempty"`
	Header   string           `json:"header,omitempty" yaml:"header,omitempty" msgpack:"header,omitempty"`
	Visitors []map[string]any `json:"visitors,omitempty" yaml:"visitors,omitempty" msgpack:"visitors,omitempty"`
	Entities []*Entity        `json:"entities,omitempty" yaml:"entities,omitempty" msgpack:"entities,omitempty"`

	// visitorPos holds the origin of each visitor directive.
	visitorPos []string
}

// Entity describes a record or a variant group. Exactly one of Record and
// Group is set.
type Entity struct {
	Record   string     `json:"record,omitempty" yaml:"record,omitempty" msgpack:"record,omitempty"`
	Group    string     `json:"group,omitempty" yaml:"group,omitempty" msgpack:"group,omitempty"`
	Params   []*Param   `json:"params,omitempty" yaml:"params,omitempty" msgpack:"params,omitempty"`
	Fields   []*Field   `json:"fields,omitempty" yaml:"fields,omitempty" msgpack:"fields,omitempty"`
	Variants []*Variant `json:"variants,omitempty" yaml:"variants,omitempty" msgpack:"variants,omitempty"`
	Pos      string     `json:"-" yaml:"-" msgpack:"-"`
}

// Param is a generic parameter with optional extra Go constraints.
type Param struct {
	Name   string   `json:"name" yaml:"name" msgpack:"name"`
	Bounds []string `json:"bounds,omitempty" yaml:"bounds,omitempty" msgpack:"bounds,omitempty"`
}

// Field is a named or positional field. Positional fields have no name.
type Field struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	Type string `json:"type" yaml:"type" msgpack:"type"`
}

// Variant is a case of a variant group. A variant without fields is a unit
// variant.
type Variant struct {
	Name   string   `json:"name" yaml:"name" msgpack:"name"`
	Fields []*Field `json:"fields,omitempty" yaml:"fields,omitempty" msgpack:"fields,omitempty"`
	Pos    string   `json:"-" yaml:"-" msgpack:"-"`
}

// Schema is a loaded document converted into the generator input.
type Schema struct {
	Package    string
	Header     string
	Model      *schema.Model
	Directives []schema.Directive
}

// Build converts the document into a validated model and its visitor
// directives.
func (d *Document) Build() (*Schema, error) {
	entities := make([]*schema.Entity, 0, len(d.Entities))
	for i, e := range d.Entities {
		if e == nil {
			return nil, schema.NewSchemaError("", "", "", fmt.Sprintf("entity #%d is empty", i))
		}
		se, err := e.build()
		if err != nil {
			return nil, err
		}
		entities = append(entities, se)
	}
	m, err := schema.NewModel(entities...)
	if err != nil {
		return nil, err
	}
	directives := make([]schema.Directive, len(d.Visitors))
	for i, v := range d.Visitors {
		directives[i] = schema.DirectiveOf(d.VisitorPos(i), v)
	}
	return &Schema{
		Package:    d.Package,
		Header:     d.Header,
		Model:      m,
		Directives: directives,
	}, nil
}

// VisitorPos returns the origin of the i-th visitor directive, if known.
func (d *Document) VisitorPos(i int) string {
	if i < len(d.visitorPos) {
		return d.visitorPos[i]
	}
	return ""
}

func (e *Entity) build() (*schema.Entity, error) {
	var se *schema.Entity
	switch {
	case e.Record != "" && e.Group != "":
		return nil, schema.NewSchemaError(e.Pos, e.Record, "", fmt.Sprintf("entity is declared as both record and group %s", e.Group))
	case e.Record != "":
		fields, err := buildFields(e.Pos, e.Record, "", e.Fields)
		if err != nil {
			return nil, err
		}
		if len(e.Variants) > 0 {
			return nil, schema.NewSchemaError(e.Pos, e.Record, "", "record cannot declare variants")
		}
		se = schema.Record(e.Record, fields...)
	case e.Group != "":
		if len(e.Fields) > 0 {
			return nil, schema.NewSchemaError(e.Pos, e.Group, "", "variant group cannot declare fields")
		}
		variants := make([]*schema.Variant, 0, len(e.Variants))
		for i, v := range e.Variants {
			if v == nil {
				return nil, schema.NewSchemaError(e.Pos, e.Group, "", fmt.Sprintf("variant #%d is empty", i))
			}
			fields, err := buildFields(e.Pos, e.Group, v.Name+".", v.Fields)
			if err != nil {
				return nil, err
			}
			sv := schema.Case(v.Name, fields...)
			sv.Pos = v.Pos
			variants = append(variants, sv)
		}
		se = schema.Group(e.Group, variants...)
	default:
		return nil, schema.NewSchemaError(e.Pos, "", "", "entity requires a record or group name")
	}
	for i, p := range e.Params {
		if p == nil {
			return nil, schema.NewSchemaError(e.Pos, se.Name, "", fmt.Sprintf("generic parameter #%d is empty", i))
		}
		se.Params = append(se.Params, schema.TypeParam(p.Name, p.Bounds...))
	}
	return se.At(e.Pos), nil
}

func buildFields(pos, owner, prefix string, fields []*Field) ([]*schema.Field, error) {
	out := make([]*schema.Field, len(fields))
	for i, f := range fields {
		if f == nil {
			return nil, schema.NewSchemaError(pos, owner, fmt.Sprintf("%s#%d", prefix, i), "field is empty")
		}
		label := f.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}
		t, err := schema.ParseTypeRef(f.Type)
		if err != nil {
			serr := schema.NewSchemaError(pos, owner, prefix+label, "invalid field type")
			serr.Cause = err
			return nil, serr
		}
		if f.Name == "" {
			out[i] = schema.Positional(t)
		} else {
			out[i] = schema.Named(f.Name, t)
		}
	}
	return out, nil
}
