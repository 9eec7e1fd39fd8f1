package gen

import (
	"errors"
	"fmt"
	"go/token"
	"io"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/visitgen/schema"
)

// Generator generates the model types and visitor code of a schema. All
// validation happens in NewGenerator: once created, rendering cannot fail
// on schema or directive errors.
type Generator struct {
	cfg      *Config
	model    *schema.Model
	visitors []*Visitor
	plans    map[*schema.Entity]*entityPlan
}

type (
	// entityPlan is an entity with its fields resolved.
	entityPlan struct {
		entity   *schema.Entity
		fields   []*fieldPlan
		variants []*variantPlan
	}

	variantPlan struct {
		variant  *schema.Variant
		typeName string
		fields   []*fieldPlan
	}

	fieldPlan struct {
		field *schema.Field
		name  string
		typ   *Resolved
	}
)

// NewGenerator validates the visitor directives and resolves every field
// type of the model. Any error aborts the request and no code is produced.
func NewGenerator(cfg *Config, model *schema.Model, directives ...schema.Directive) (*Generator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if model == nil {
		return nil, NewConfigError("Model", nil, "missing schema model")
	}
	visitors, err := ParseVisitors(directives...)
	if err != nil {
		return nil, err
	}
	g := &Generator{
		cfg:      cfg,
		model:    model,
		visitors: visitors,
		plans:    make(map[*schema.Entity]*entityPlan, model.Len()),
	}
	for _, e := range model.Entities() {
		p, err := g.plan(e)
		if err != nil {
			return nil, err
		}
		g.plans[e] = p
	}
	if err := g.checkNames(); err != nil {
		return nil, err
	}
	cfg.Logger.Debug("visitor generator ready",
		"package", cfg.Package,
		"entities", model.Len(),
		"visitors", len(visitors),
	)
	return g, nil
}

// MustNewGenerator is like NewGenerator but panics on error.
func MustNewGenerator(cfg *Config, model *schema.Model, directives ...schema.Directive) *Generator {
	g, err := NewGenerator(cfg, model, directives...)
	if err != nil {
		panic(err)
	}
	return g
}

// Visitors returns the validated visitor configurations in directive order.
func (g *Generator) Visitors() []*Visitor {
	return g.visitors
}

// Config returns the generator configuration.
func (g *Generator) Config() *Config {
	return g.cfg
}

func (g *Generator) plan(e *schema.Entity) (*entityPlan, error) {
	p := &entityPlan{entity: e}
	if e.IsRecord() {
		fields, err := g.planFields(e, "", e.Fields)
		if err != nil {
			return nil, err
		}
		p.fields = fields
		return p, nil
	}
	for _, v := range e.Variants {
		fields, err := g.planFields(e, v.Name+".", v.Fields)
		if err != nil {
			return nil, err
		}
		p.variants = append(p.variants, &variantPlan{
			variant:  v,
			typeName: e.Name + v.Name,
			fields:   fields,
		})
	}
	return p, nil
}

func (g *Generator) planFields(e *schema.Entity, prefix string, fields []*schema.Field) ([]*fieldPlan, error) {
	var (
		plans = make([]*fieldPlan, 0, len(fields))
		names = make(map[string]string, len(fields))
	)
	for _, f := range fields {
		label := prefix + f.Label()
		res, err := g.cfg.Registry.Resolve(g.model, e, f.Type)
		if err != nil {
			var typeErr *TypeError
			if errors.As(err, &typeErr) {
				typeErr.Pos, typeErr.Type, typeErr.Field = e.Pos, e.Name, label
			}
			return nil, err
		}
		name := fmt.Sprintf("F%d", f.Index)
		if !f.IsPositional() {
			name = pascal(f.Name)
		}
		if !token.IsIdentifier(name) {
			return nil, schema.NewSchemaError(e.Pos, e.Name, label, fmt.Sprintf("field name %q has no Go form", f.Name))
		}
		if prev, ok := names[name]; ok {
			return nil, schema.NewSchemaError(e.Pos, e.Name, label, fmt.Sprintf("Go field name %s is also derived from field %s", name, prev))
		}
		for _, v := range g.visitors {
			if name == v.AcceptMethod() {
				return nil, schema.NewSchemaError(e.Pos, e.Name, label, fmt.Sprintf("Go field name %s collides with the accept method of %s", name, v.Name))
			}
		}
		names[name] = label
		plans = append(plans, &fieldPlan{field: f, name: name, typ: res})
	}
	return plans, nil
}

// checkNames rejects schemas whose entities map to the same hook name and
// visitors whose generated identifiers collide with declared types.
func (g *Generator) checkNames() error {
	var (
		hooks = make(map[string]*schema.Entity, g.model.Len())
		decls = make(map[string]string)
	)
	for _, e := range g.model.Entities() {
		key := Normalize(e.Name)
		if prev, ok := hooks[key]; ok {
			return schema.NewSchemaError(e.Pos, e.Name, "", fmt.Sprintf("hook name %q is also derived from %s", key, prev.Name))
		}
		hooks[key] = e
		decls[e.Name] = e.Kind.String() + " " + e.Name
		if e.IsGeneric() {
			decls[nodeName(e)] = "node interface of " + e.Name
		}
		for _, vp := range g.plans[e].variants {
			decls[vp.typeName] = "variant " + e.Name + "." + vp.variant.Name
		}
	}
	for _, v := range g.visitors {
		idents := []string{v.TypeName(), v.BaseName(), v.AcceptorName()}
		for _, h := range g.cfg.Registry.Helpers() {
			idents = append(idents, v.helper(h.Suffix))
		}
		for _, e := range g.model.Groups() {
			idents = append(idents, v.GroupFunc(e.Name))
		}
		for _, id := range idents {
			if prev, ok := decls[id]; ok {
				return &DirectiveError{
					Pos:     v.Pos,
					Visitor: v.Name,
					Message: fmt.Sprintf("generated identifier %s collides with %s", id, prev),
					Kind:    ErrDuplicateConfigName,
				}
			}
			decls[id] = "visitor " + v.Name
		}
	}
	return nil
}

// newFile creates a new Jennifer file with the header comment.
func (g *Generator) newFile() *jen.File {
	f := jen.NewFile(g.cfg.Package)
	f.HeaderComment("Code generated by visitgen. DO NOT EDIT.")
	if g.cfg.Header != "" {
		f.HeaderComment(g.cfg.Header)
	}
	return f
}

// File returns a single file holding the models, if enabled, followed by
// every visitor in directive order.
func (g *Generator) File() *jen.File {
	f := g.newFile()
	if g.cfg.Models {
		g.emitModels(f)
	}
	for _, v := range g.visitors {
		g.emitVisitor(f, v)
	}
	return f
}

// ModelsFile returns a file holding only the model types.
func (g *Generator) ModelsFile() *jen.File {
	f := g.newFile()
	g.emitModels(f)
	return f
}

// VisitorFile returns a file holding the code of a single visitor.
func (g *Generator) VisitorFile(v *Visitor) *jen.File {
	f := g.newFile()
	g.emitVisitor(f, v)
	return f
}

// Render writes the combined file to w.
func (g *Generator) Render(w io.Writer) error {
	if err := g.File().Render(w); err != nil {
		return NewGenerationError("render", g.cfg.Filename, "", err)
	}
	return nil
}
