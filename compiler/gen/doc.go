// Package gen generates hierarchical visitors for the records and variant
// groups of a schema.
//
// # Architecture
//
// The code generation pipeline follows this flow:
//
//	schema.Model + []schema.Directive
//	        ↓
//	   ParseVisitors (validated visitor configurations)
//	        ↓
//	   Registry.Resolve (one traversal plan per field)
//	        ↓
//	   Generator (models + one unit per visitor, rendered with Jennifer)
//	        ↓
//	   Writer (parallel goimports, then staged writes)
//
// # Generated Code
//
// For a visitor named EnumVisitor the generator emits:
//
//   - EnumVisitor: an interface with one hook per entity and prefix, records
//     first, then variant groups, enter before leave.
//   - BaseEnumVisitor: a no-op implementation to embed.
//   - EnumVisitorAcceptor: the interface implemented by every entity.
//   - AcceptEnumVisitor methods on records and variants, and a nil-safe
//     AcceptEnumVisitor<Group> dispatch function per variant group.
//   - Unexported helpers lifting element traversal over slices, sets and
//     pointers.
//
// Records are structs, variant groups are sealed interfaces implemented by
// one struct per variant. A visitor that is not public produces unexported
// identifiers only.
//
// Generic entities are emitted as generic types whose parameters are
// bounded by the acceptor interfaces. Packages using a generic variant
// group as a type argument need Go 1.26 or later.
//
// # Traversal Rules
//
// Field types are resolved by a Registry keyed by wrapper kind:
//
//	list(T)     []T              every element in order
//	array(N, T) [N]T             every element in order
//	set(T)      map[T]struct{}   every element, unspecified order
//	optional(T) *T               the element unless nil
//	box/rc/arc  *T               the element unless nil
//	borrowed(T) *T               the element unless nil
//
// Leaf kinds and references without any entity inside generate no code.
// Adding a wrapper kind is a single Registry.Register call.
//
// # Error Handling
//
// All validation happens in NewGenerator and is fatal:
//
//   - DirectiveError: ErrDuplicateConfigName, ErrSameEnterLeaveIdentifier,
//     ErrMalformedConfigDirective
//   - TypeError: ErrUnregisteredType, or ErrInvalidSchema for misused types
//   - schema.SchemaError: ErrInvalidSchema
//   - ConfigError: generator options
//   - GenerationError: rendering, formatting and writing
//
// Example error handling:
//
//	g, err := gen.NewGenerator(cfg, model, directives...)
//	if errors.Is(err, gen.ErrUnregisteredType) {
//	    // a field type has no traversal rule
//	}
package gen
