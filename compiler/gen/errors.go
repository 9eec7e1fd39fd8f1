package gen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/visitgen/schema"
)

// Sentinel errors for the failure kinds of a generation request.
var (
	// ErrDuplicateConfigName indicates two visitor directives share a name.
	ErrDuplicateConfigName = errors.New("visitgen: duplicate visitor name")
	// ErrSameEnterLeaveIdentifier indicates a visitor uses the same prefix for enter and leave.
	ErrSameEnterLeaveIdentifier = errors.New("visitgen: same identifier used for enter and leave")
	// ErrMalformedConfigDirective indicates a visitor directive with a missing name or a wrong value shape.
	ErrMalformedConfigDirective = errors.New("visitgen: malformed visitor directive")
	// ErrUnregisteredType indicates a field type that no traversal rule can resolve.
	ErrUnregisteredType = errors.New("visitgen: unregistered type")
	// ErrMissingConfig indicates a generator configuration error.
	ErrMissingConfig = errors.New("visitgen: missing configuration")
	// ErrGenerationFailed indicates a failure while rendering or writing code.
	ErrGenerationFailed = errors.New("visitgen: code generation failed")
)

// ErrInvalidSchema is re-exported for convenience.
var ErrInvalidSchema = schema.ErrInvalidSchema

// DirectiveError represents an invalid visitor directive.
type DirectiveError struct {
	Pos     string // Origin of the directive, if known
	Visitor string // Visitor name (if known)
	Key     string // Offending argument (if applicable)
	Message string
	// Kind is one of ErrDuplicateConfigName, ErrSameEnterLeaveIdentifier
	// or ErrMalformedConfigDirective.
	Kind error
}

// Error implements the error interface.
func (e *DirectiveError) Error() string {
	var b strings.Builder
	if e.Pos != "" {
		b.WriteString(e.Pos)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Visitor != "" {
		fmt.Fprintf(&b, " %q", e.Visitor)
	}
	if e.Key != "" {
		b.WriteString(" (")
		b.WriteString(e.Key)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the kind of the DirectiveError.
func (e *DirectiveError) Is(target error) bool {
	return target == e.Kind
}

func malformed(d schema.Directive, visitor, key, format string, args ...any) *DirectiveError {
	return &DirectiveError{
		Pos:     d.Pos,
		Visitor: visitor,
		Key:     key,
		Message: fmt.Sprintf(format, args...),
		Kind:    ErrMalformedConfigDirective,
	}
}

// TypeError represents a field type that cannot be traversed.
type TypeError struct {
	Pos     string // Origin of the entity declaration, if known
	Type    string // Entity name
	Field   string // Field label, prefixed by the variant for variant fields
	Ref     string // Textual form of the type reference
	Message string
	// Kind is ErrUnregisteredType, or ErrInvalidSchema for references that
	// resolve but are used in an invalid way (e.g. wrong type arity).
	Kind error
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	var b strings.Builder
	if e.Pos != "" {
		b.WriteString(e.Pos)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Ref != "" {
		fmt.Fprintf(&b, " %q", e.Ref)
	}
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the kind of the TypeError.
func (e *TypeError) Is(target error) bool {
	return target == e.Kind
}

// ConfigError represents a generator configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("visitgen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("visitgen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// GenerationError represents a code generation error.
type GenerationError struct {
	Phase   string // "render", "format", "write"
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("visitgen: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// IsDirectiveError reports whether the error is a DirectiveError.
func IsDirectiveError(err error) bool {
	var dirErr *DirectiveError
	return errors.As(err, &dirErr)
}

// IsTypeError reports whether the error is a TypeError.
func IsTypeError(err error) bool {
	var typeErr *TypeError
	return errors.As(err, &typeErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
