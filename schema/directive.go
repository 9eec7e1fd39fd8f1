package schema

import "sort"

// Directive is a raw visitor configuration directive as produced by a
// front-end. Values keep the shape they had in the source (string, bool,
// ...); validation happens when the directives are parsed into visitor
// configurations.
type Directive struct {
	// Pos is the origin of the directive, if known (e.g. "schema.yaml:3:5").
	Pos  string
	Args []Arg
}

// Arg is a single key/value pair of a directive.
type Arg struct {
	Key   string
	Value any
}

// DirectiveOf builds a directive from a map. Keys are sorted to keep the
// argument order deterministic.
func DirectiveOf(pos string, args map[string]any) Directive {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	d := Directive{Pos: pos, Args: make([]Arg, 0, len(keys))}
	for _, k := range keys {
		d.Args = append(d.Args, Arg{Key: k, Value: args[k]})
	}
	return d
}

// Visitor is a shorthand for a directive with the given name and
// optional extra arguments given as key/value pairs.
//
//	schema.Visitor("HierVisitor", "enter", "enter", "leave", "leave")
func Visitor(name string, kv ...any) Directive {
	d := Directive{Args: []Arg{{Key: "name", Value: name}}}
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		d.Args = append(d.Args, Arg{Key: key, Value: kv[i+1]})
	}
	return d
}
