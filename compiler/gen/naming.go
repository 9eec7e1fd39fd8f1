package gen

import (
	"go/token"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
)

var (
	rules    = ruleset()
	acronyms = make(map[string]struct{})
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	// Add common initialisms from golint and more.
	for _, w := range []string{
		"ACL", "API", "ASCII", "AST", "AWS", "CPU", "CSS", "DNS", "EOF", "GB", "GUID",
		"HCL", "HTML", "HTTP", "HTTPS", "ID", "IP", "JSON", "KB", "LHS", "MAC",
		"MB", "QPS", "RAM", "RHS", "RPC", "SLA", "SMTP", "SQL", "SSH", "SSO",
		"TCP", "TLS", "TTL", "UDP", "UI", "UID", "URI", "URL", "UTF8", "UUID",
		"VM", "XML", "XMPP", "XSRF", "XSS",
	} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// AddAcronym registers an additional acronym used when rendering Go
// identifiers. It must be called before generation starts.
func AddAcronym(word string) {
	upper := strings.ToUpper(word)
	acronyms[upper] = struct{}{}
	rules.AddAcronym(upper)
}

// Normalize maps an entity identifier to its canonical, word-separated form.
//
//	BarItem  => bar_item
//	HTTPCode => http_code
//	AST      => ast
func Normalize(identifier string) string {
	return snake(identifier)
}

// MethodName returns the canonical name of a visitor hook.
//
//	MethodName("visit", "BarItem") => visit_bar_item
func MethodName(prefix, identifier string) string {
	return prefix + "_" + Normalize(identifier)
}

// ParamName returns the canonical placeholder parameter name for an entity.
// Generated code never reads it.
//
//	ParamName("BarItem") => _bar_item
func ParamName(identifier string) string {
	return "_" + Normalize(identifier)
}

// goParam renders a placeholder parameter name as a Go identifier.
func goParam(placeholder string) string {
	name := camel(placeholder)
	if name == "" || token.Lookup(name).IsKeyword() {
		return placeholder
	}
	return name
}

// pascalWords converts the given words to Pascal case.
func pascalWords(words []string) string {
	for i, w := range words {
		upper := strings.ToUpper(w)
		if _, ok := acronyms[upper]; ok {
			words[i] = upper
		} else {
			words[i] = rules.Capitalize(w)
		}
	}
	return strings.Join(words, "")
}

// pascal converts the given name into a PascalCase.
//
//	user_info 	=> UserInfo
//	full_name 	=> FullName
//	user_id   	=> UserID
//	full-admin	=> FullAdmin
func pascal(s string) string {
	words := strings.FieldsFunc(s, isSeparator)
	return pascalWords(words)
}

// camel converts the given name into a camelCase.
//
//	user_info  => userInfo
//	full_name  => fullName
//	user_id    => userID
//	full-admin => fullAdmin
func camel(s string) string {
	words := strings.FieldsFunc(s, isSeparator)
	switch len(words) {
	case 0:
		return ""
	case 1:
		return strings.ToLower(words[0])
	default:
		return strings.ToLower(words[0]) + pascalWords(words[1:])
	}
}

// snake converts the given struct or field name into a snake_case.
//
//	Username => username
//	FullName => full_name
//	HTTPCode => http_code
func snake(s string) string {
	var (
		j int
		b strings.Builder
	)
	for i := 0; i < len(s); i++ {
		r := rune(s[i])
		// Put '_' if it is not a start or end of a word, current letter is uppercase,
		// and previous is lowercase (cases like: "UserInfo"), or next letter is also
		// a lowercase and previous letter is not "_".
		if i > 0 && i < len(s)-1 && unicode.IsUpper(r) {
			if unicode.IsLower(rune(s[i-1])) ||
				j != i-1 && unicode.IsLower(rune(s[i+1])) && unicode.IsLetter(rune(s[i-1])) {
				j = i
				b.WriteString("_")
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// exported upper-cases the first letter of s.
func exported(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}
