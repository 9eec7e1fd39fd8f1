// Package schema provides the normalized schema model consumed by the
// visitgen code generator.
//
// A schema is a closed set of entities. An entity is either a record (a
// product type with named, positional or no fields) or a variant group (a sum
// type with one or more variants). Field types are described by [TypeRef]
// values: references to other entities or generic parameters, container
// wrappers (list, array, set, optional, box, rc, arc), borrowed references and
// leaf kinds.
//
// # Quick Start
//
// Entities are usually produced by a front-end (see compiler/load), but they
// can also be declared directly with the builders of this package:
//
//	model, err := schema.NewModel(
//	    schema.Record("Tree",
//	        schema.Named("foo1", schema.Ref("Foo")),
//	        schema.Named("foo2", schema.Ref("Foo")),
//	    ),
//	    schema.Group("Foo",
//	        schema.Case("Bar", schema.Named("bar", schema.Ref("BarItem"))),
//	        schema.Case("Baz", schema.Named("baz", schema.Ref("BazItem"))),
//	    ),
//	    schema.Record("BarItem"),
//	    schema.Record("BazItem"),
//	)
//
// Type references can also be written in their textual form and parsed
// with [ParseTypeRef]:
//
//	list(box(Leaf))      // []*Leaf
//	array(3, int32)      // [3]int32
//	Pair[Leaf, Foo]      // Pair[Leaf, Foo]
//	borrowed(Foo)        // *Foo
//
// # Ordering
//
// The model preserves declaration order everywhere: entities, fields,
// variants and generic parameters. Field order is the traversal order of the
// generated code.
//
// # Cycles
//
// The model does not validate referential or topological soundness. An
// entity may reference itself, directly or through other entities.
// Termination of a traversal relies on values being finite.
package schema
