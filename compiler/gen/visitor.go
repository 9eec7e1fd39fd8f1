package gen

import (
	"fmt"
	"go/token"

	"github.com/syssam/visitgen/schema"
)

// DefaultLeave is the leave prefix used when a visitor configures neither
// an enter nor a leave prefix.
const DefaultLeave = "visit"

// Visitor is a validated visitor configuration.
type Visitor struct {
	// Name of the visitor interface as written in the directive.
	Name string
	// Public reports whether the generated identifiers are exported.
	Public bool
	// Enter is the prefix of hooks called before the children of a node
	// are visited. Empty when not configured.
	Enter string
	// Leave is the prefix of hooks called after the children of a node
	// are visited. Empty when not configured.
	Leave string
	// Pos is the origin of the directive, if known.
	Pos string
}

// ParseVisitors validates the given directives and returns one visitor
// configuration per directive, in order.
func ParseVisitors(directives ...schema.Directive) ([]*Visitor, error) {
	var (
		visitors = make([]*Visitor, 0, len(directives))
		names    = make(map[string]*Visitor, len(directives))
	)
	for _, d := range directives {
		v, err := parseVisitor(d)
		if err != nil {
			return nil, err
		}
		key := snake(v.Name)
		if prev, ok := names[key]; ok {
			msg := "name already used"
			if prev.Pos != "" {
				msg = fmt.Sprintf("name already used at %s", prev.Pos)
			}
			return nil, &DirectiveError{Pos: d.Pos, Visitor: v.Name, Message: msg, Kind: ErrDuplicateConfigName}
		}
		names[key] = v
		if v.Enter == "" && v.Leave == "" {
			v.Leave = DefaultLeave
		}
		if v.HasEnter() && v.HasLeave() {
			var msg string
			switch {
			case v.Enter == v.Leave:
				msg = fmt.Sprintf("enter and leave are both %q", v.Enter)
			case v.ident(v.Enter) == v.ident(v.Leave):
				// Hooks are the prefix identifier followed by the entity words.
				msg = fmt.Sprintf("enter %q and leave %q both render as %q", v.Enter, v.Leave, v.ident(v.Enter))
			}
			if msg != "" {
				return nil, &DirectiveError{Pos: d.Pos, Visitor: v.Name, Message: msg, Kind: ErrSameEnterLeaveIdentifier}
			}
		}
		visitors = append(visitors, v)
	}
	return visitors, nil
}

func parseVisitor(d schema.Directive) (*Visitor, error) {
	var (
		v    = &Visitor{Pos: d.Pos}
		seen = make(map[string]bool, len(d.Args))
	)
	for _, arg := range d.Args {
		if seen[arg.Key] {
			return nil, malformed(d, v.Name, arg.Key, "argument given more than once")
		}
		seen[arg.Key] = true
		switch arg.Key {
		case "name":
			s, ok := arg.Value.(string)
			if !ok {
				return nil, malformed(d, "", arg.Key, "expected identifier, got %T", arg.Value)
			}
			if !token.IsIdentifier(s) {
				return nil, malformed(d, "", arg.Key, "%q is not an identifier", s)
			}
			v.Name = s
		case "public":
			b, ok := arg.Value.(bool)
			if !ok {
				return nil, malformed(d, v.Name, arg.Key, "expected boolean, got %T", arg.Value)
			}
			v.Public = b
		case "enter", "leave":
			s, ok := arg.Value.(string)
			if !ok {
				return nil, malformed(d, v.Name, arg.Key, "expected identifier, got %T", arg.Value)
			}
			if !token.IsIdentifier(s) {
				return nil, malformed(d, v.Name, arg.Key, "%q is not an identifier", s)
			}
			if arg.Key == "enter" {
				v.Enter = s
			} else {
				v.Leave = s
			}
		default:
			return nil, malformed(d, v.Name, arg.Key, "unknown argument")
		}
	}
	if v.Name == "" {
		return nil, malformed(d, "", "name", "a visitor name is required")
	}
	return v, nil
}

// HasEnter reports whether enter hooks are generated.
func (v *Visitor) HasEnter() bool { return v.Enter != "" }

// HasLeave reports whether leave hooks are generated.
func (v *Visitor) HasLeave() bool { return v.Leave != "" }

// ident renders a canonical name as a Go identifier with the visibility
// of the visitor.
func (v *Visitor) ident(canonical string) string {
	if v.Public {
		return pascal(canonical)
	}
	return camel(canonical)
}

// TypeName returns the Go name of the visitor interface.
func (v *Visitor) TypeName() string {
	if v.Public {
		return exported(v.Name)
	}
	return camel(snake(v.Name))
}

// BaseName returns the Go name of the no-op visitor implementation.
func (v *Visitor) BaseName() string {
	return v.ident("base") + exported(v.Name)
}

// AcceptorName returns the Go name of the acceptor interface.
func (v *Visitor) AcceptorName() string {
	return v.TypeName() + "Acceptor"
}

// AcceptMethod returns the name of the accept method every entity type
// implements for this visitor.
func (v *Visitor) AcceptMethod() string {
	return v.ident("accept") + exported(v.Name)
}

// EnterHook returns the Go name of the enter hook for the given entity.
func (v *Visitor) EnterHook(entity string) string {
	return v.ident(MethodName(v.Enter, entity))
}

// LeaveHook returns the Go name of the leave hook for the given entity.
func (v *Visitor) LeaveHook(entity string) string {
	return v.ident(MethodName(v.Leave, entity))
}

// helper returns the name of an unexported function generated for this
// visitor.
func (v *Visitor) helper(suffix string) string {
	return camel(snake(v.Name)) + suffix
}

// GroupFunc returns the name of the nil-safe dispatch function of a
// variant group.
func (v *Visitor) GroupFunc(entity string) string {
	return v.AcceptMethod() + entity
}
