// Package load reads schema descriptors and converts them into the input of
// the visitor generator.
//
// A descriptor lists the entities of a hierarchy and the visitors to
// generate for it:
//
//	package: tree
//	visitors:
//	  - {name: EnumVisitor, public: true}
//	  - {name: HierVisitor, public: true, enter: enter, leave: leave}
//	entities:
//	  - record: Tree
//	    fields: [{name: foo1, type: Foo}, {name: foo2, type: Foo}]
//	  - group: Foo
//	    variants:
//	      - {name: Bar, fields: [{name: bar, type: BarItem}]}
//	      - {name: Baz, fields: [{name: baz, type: BazItem}]}
//	  - record: BarItem
//	  - record: BazItem
//
// Descriptors are read from YAML, JSON or MessagePack. Declarations decoded
// from YAML carry their file:line:col origin.
package load

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a descriptor file.
type Format string

// Supported formats.
const (
	YAML        Format = "yaml"
	JSON        Format = "json"
	MessagePack Format = "msgpack"
)

// ErrUnknownFormat is returned for files whose extension maps to no format.
var ErrUnknownFormat = errors.New("load: unknown descriptor format")

// FormatOf returns the format of a descriptor file from its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".json":
		return JSON, nil
	case ".msgpack", ".mpk":
		return MessagePack, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// Load reads and builds the descriptor at path.
func Load(path string) (*Schema, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return Decode(path, f, data)
}

// Decode builds the descriptor held in data. The name is used in the
// origins of declarations.
func Decode(name string, f Format, data []byte) (*Schema, error) {
	doc, err := Unmarshal(name, f, data)
	if err != nil {
		return nil, err
	}
	return doc.Build()
}

// Unmarshal decodes a descriptor document. Unknown keys are rejected.
func Unmarshal(name string, f Format, data []byte) (*Document, error) {
	doc := &Document{}
	switch f {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(doc); err != nil {
			return nil, fmt.Errorf("load: decode %s: %w", name, err)
		}
		var root yaml.Node
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("load: decode %s: %w", name, err)
		}
		doc.positionsFromNode(name, &root)
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(doc); err != nil {
			return nil, fmt.Errorf("load: decode %s: %w", name, err)
		}
		doc.positionsFromIndex(name)
	case MessagePack:
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields(true)
		if err := dec.Decode(doc); err != nil {
			return nil, fmt.Errorf("load: decode %s: %w", name, err)
		}
		doc.positionsFromIndex(name)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	return doc, nil
}

// Marshal encodes a descriptor document.
func Marshal(f Format, doc *Document) ([]byte, error) {
	switch f {
	case YAML:
		return yaml.Marshal(doc)
	case JSON:
		return json.MarshalIndent(doc, "", "  ")
	case MessagePack:
		return msgpack.Marshal(doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// positionsFromNode records the file:line:col origin of every visitor,
// entity and variant.
func (d *Document) positionsFromNode(name string, root *yaml.Node) {
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	pos := func(n *yaml.Node) string {
		return fmt.Sprintf("%s:%d:%d", name, n.Line, n.Column)
	}
	for _, n := range items(mapValue(root, "visitors")) {
		d.visitorPos = append(d.visitorPos, pos(n))
	}
	for i, n := range items(mapValue(root, "entities")) {
		if i >= len(d.Entities) || d.Entities[i] == nil {
			break
		}
		e := d.Entities[i]
		e.Pos = pos(n)
		for j, vn := range items(mapValue(n, "variants")) {
			if j < len(e.Variants) && e.Variants[j] != nil {
				e.Variants[j].Pos = pos(vn)
			}
		}
	}
}

// positionsFromIndex records origins as JSON pointers into the document.
func (d *Document) positionsFromIndex(name string) {
	for i := range d.Visitors {
		d.visitorPos = append(d.visitorPos, fmt.Sprintf("%s#/visitors/%d", name, i))
	}
	for i, e := range d.Entities {
		if e == nil {
			continue
		}
		e.Pos = fmt.Sprintf("%s#/entities/%d", name, i)
		for j, v := range e.Variants {
			if v != nil {
				v.Pos = fmt.Sprintf("%s#/entities/%d/variants/%d", name, i, j)
			}
		}
	}
}

func mapValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func items(n *yaml.Node) []*yaml.Node {
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	return n.Content
}
