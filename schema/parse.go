package schema

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"
)

// ParseTypeRef parses the textual form of a type reference:
//
//	ref  := leaf
//	      | "borrowed" "(" ref ")"
//	      | "array" "(" int "," ref ")"
//	      | kind "(" ref ")"
//	      | ident [ "[" ref { "," ref } "]" ]
//
// Any identifier followed by "(" is read as a container kind. Whether the
// kind is known is decided by the traversal registry, not by the parser.
func ParseTypeRef(s string) (*TypeRef, error) {
	p := &refParser{src: s}
	p.sc.Init(strings.NewReader(s))
	p.sc.Mode = scanner.ScanIdents | scanner.ScanInts
	p.sc.Error = func(_ *scanner.Scanner, msg string) { p.fail(msg) }
	p.next()
	t := p.ref()
	if p.err == nil && p.tok != scanner.EOF {
		p.fail(fmt.Sprintf("unexpected %q", p.text))
	}
	if p.err != nil {
		return nil, p.err
	}
	return t, nil
}

// MustParseTypeRef is like ParseTypeRef but panics on error.
func MustParseTypeRef(s string) *TypeRef {
	t, err := ParseTypeRef(s)
	if err != nil {
		panic(err)
	}
	return t
}

type refParser struct {
	src  string
	sc   scanner.Scanner
	tok  rune
	text string
	err  error
}

func (p *refParser) next() {
	p.tok = p.sc.Scan()
	p.text = p.sc.TokenText()
}

func (p *refParser) fail(msg string) {
	if p.err == nil {
		p.err = fmt.Errorf("type reference %q: %s", p.src, msg)
	}
}

func (p *refParser) expect(r rune) {
	if p.tok != r {
		p.fail(fmt.Sprintf("expected %q, got %q", string(r), p.text))
		return
	}
	p.next()
}

func (p *refParser) ref() *TypeRef {
	if p.err != nil {
		return nil
	}
	if p.tok != scanner.Ident {
		p.fail(fmt.Sprintf("expected identifier, got %q", p.text))
		return nil
	}
	name := p.text
	p.next()
	switch {
	case p.tok == '(':
		p.next()
		var t *TypeRef
		switch name {
		case "borrowed":
			t = Borrowed(p.ref())
		case string(KindArray):
			n := p.length()
			p.expect(',')
			t = Array(n, p.ref())
		default:
			t = Container(Kind(name), p.ref())
		}
		p.expect(')')
		return t
	case p.tok == '[':
		p.next()
		t := Ref(name)
		for p.err == nil {
			t.Args = append(t.Args, p.ref())
			if p.tok != ',' {
				break
			}
			p.next()
		}
		p.expect(']')
		return t
	case IsLeaf(name):
		return Leaf(LeafKind(name))
	default:
		return Ref(name)
	}
}

func (p *refParser) length() int {
	if p.tok != scanner.Int {
		p.fail(fmt.Sprintf("expected array length, got %q", p.text))
		return 0
	}
	n, err := strconv.Atoi(p.text)
	if err != nil || n <= 0 {
		p.fail(fmt.Sprintf("invalid array length %q", p.text))
		return 0
	}
	p.next()
	return n
}
