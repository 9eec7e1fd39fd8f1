package schema

import (
	"strconv"
	"strings"
)

// Shape identifies the structural form of a type reference.
type Shape uint8

// Type reference shapes.
const (
	ShapeInvalid Shape = iota
	// ShapeRef references a declared entity or an enclosing generic parameter.
	ShapeRef
	// ShapeContainer wraps an inner reference with a container kind.
	ShapeContainer
	// ShapeBorrowed is a read-only reference to the inner type.
	ShapeBorrowed
	// ShapeLeaf is a terminal primitive type.
	ShapeLeaf
)

var shapeNames = [...]string{
	ShapeInvalid:   "invalid",
	ShapeRef:       "ref",
	ShapeContainer: "container",
	ShapeBorrowed:  "borrowed",
	ShapeLeaf:      "leaf",
}

// String returns the shape name.
func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "Shape(" + strconv.Itoa(int(s)) + ")"
}

// Kind names a container wrapper. The set of kinds is open; the ones
// below are known to the default traversal registry.
type Kind string

// Known container kinds.
const (
	KindList     Kind = "list"
	KindArray    Kind = "array"
	KindSet      Kind = "set"
	KindOptional Kind = "optional"
	KindBox      Kind = "box"
	KindRc       Kind = "rc"
	KindArc      Kind = "arc"
)

// LeafKind names a primitive type that never recurses.
type LeafKind string

// Leaf kinds.
const (
	Int     LeafKind = "int"
	Int8    LeafKind = "int8"
	Int16   LeafKind = "int16"
	Int32   LeafKind = "int32"
	Int64   LeafKind = "int64"
	Uint    LeafKind = "uint"
	Uint8   LeafKind = "uint8"
	Uint16  LeafKind = "uint16"
	Uint32  LeafKind = "uint32"
	Uint64  LeafKind = "uint64"
	Float32 LeafKind = "float32"
	Float64 LeafKind = "float64"
	Bool    LeafKind = "bool"
	String  LeafKind = "string"
)

// LeafKinds lists every known leaf kind.
var LeafKinds = []LeafKind{
	Int, Int8, Int16, Int32, Int64,
	Uint, Uint8, Uint16, Uint32, Uint64,
	Float32, Float64,
	Bool, String,
}

// IsLeaf reports whether name is a known leaf kind.
func IsLeaf(name string) bool {
	for _, k := range LeafKinds {
		if string(k) == name {
			return true
		}
	}
	return false
}

// TypeRef describes the type of a field.
type TypeRef struct {
	Shape Shape
	// Name of the referenced entity or generic parameter (ShapeRef).
	Name string
	// Args are the type arguments of a generic entity reference.
	Args []*TypeRef
	// Kind of the container (ShapeContainer).
	Kind Kind
	// Len is the length of fixed size arrays.
	Len int
	// Leaf kind (ShapeLeaf).
	Leaf LeafKind
	// Elem is the wrapped reference of containers and borrowed references.
	Elem *TypeRef
}

// Ref returns a reference to the named entity or generic parameter.
func Ref(name string, args ...*TypeRef) *TypeRef {
	return &TypeRef{Shape: ShapeRef, Name: name, Args: args}
}

// Container wraps elem with the given container kind.
func Container(kind Kind, elem *TypeRef) *TypeRef {
	return &TypeRef{Shape: ShapeContainer, Kind: kind, Elem: elem}
}

// List returns a sequence of elem.
func List(elem *TypeRef) *TypeRef { return Container(KindList, elem) }

// Array returns a fixed size sequence of elem.
func Array(n int, elem *TypeRef) *TypeRef {
	t := Container(KindArray, elem)
	t.Len = n
	return t
}

// Set returns an unordered set of elem.
func Set(elem *TypeRef) *TypeRef { return Container(KindSet, elem) }

// Optional returns an optional elem.
func Optional(elem *TypeRef) *TypeRef { return Container(KindOptional, elem) }

// Box returns an owning pointer to elem.
func Box(elem *TypeRef) *TypeRef { return Container(KindBox, elem) }

// Rc returns a shared single-threaded pointer to elem.
func Rc(elem *TypeRef) *TypeRef { return Container(KindRc, elem) }

// Arc returns a shared multi-owner pointer to elem.
func Arc(elem *TypeRef) *TypeRef { return Container(KindArc, elem) }

// Borrowed returns a read-only reference to elem.
func Borrowed(elem *TypeRef) *TypeRef {
	return &TypeRef{Shape: ShapeBorrowed, Elem: elem}
}

// Leaf returns a leaf type reference.
func Leaf(k LeafKind) *TypeRef {
	return &TypeRef{Shape: ShapeLeaf, Leaf: k}
}

// String returns the textual form of the reference, as accepted by
// ParseTypeRef.
func (t *TypeRef) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *TypeRef) write(b *strings.Builder) {
	if t == nil {
		b.WriteString("<nil>")
		return
	}
	switch t.Shape {
	case ShapeRef:
		b.WriteString(t.Name)
		if len(t.Args) > 0 {
			b.WriteByte('[')
			for i, a := range t.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				a.write(b)
			}
			b.WriteByte(']')
		}
	case ShapeContainer:
		b.WriteString(string(t.Kind))
		b.WriteByte('(')
		if t.Kind == KindArray {
			b.WriteString(strconv.Itoa(t.Len))
			b.WriteString(", ")
		}
		t.Elem.write(b)
		b.WriteByte(')')
	case ShapeBorrowed:
		b.WriteString("borrowed(")
		t.Elem.write(b)
		b.WriteByte(')')
	case ShapeLeaf:
		b.WriteString(string(t.Leaf))
	default:
		b.WriteString(t.Shape.String())
	}
}
