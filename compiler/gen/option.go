package gen

import (
	"errors"
	"go/token"
	"log/slog"
	"runtime"
	"strings"
)

// DefaultFilename is the name of the generated file when output is not split.
const DefaultFilename = "visitor_gen.go"

// Config holds the global codegen configuration shared by all generated
// visitors.
type Config struct {
	// Package is the name of the generated Go package.
	Package string
	// Header is an optional comment placed after the "Code generated"
	// line of every file.
	Header string
	// Models reports whether record and variant group declarations are
	// emitted. When false, the types must be declared elsewhere in the
	// package following the same conventions.
	Models bool
	// Split writes one file per visitor plus a models file instead of a
	// single combined file.
	Split bool
	// Filename is the name of the combined output file.
	Filename string
	// Workers bounds the number of files rendered in parallel.
	Workers int
	// Logger receives debug and info events. Defaults to a discarding logger.
	Logger *slog.Logger
	// Registry holds the traversal rules. Defaults to DefaultRegistry().
	Registry *Registry
}

// Option configures code generation.
type Option func(*Config) error

// WithPackage sets the name of the generated package.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		if !token.IsIdentifier(pkg) {
			return NewConfigError("Package", pkg, "package must be a valid Go identifier")
		}
		c.Package = pkg
		return nil
	}
}

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = strings.TrimSpace(header)
		return nil
	}
}

// WithoutModels disables the emission of record and variant group types.
func WithoutModels() Option {
	return func(c *Config) error {
		c.Models = false
		return nil
	}
}

// WithSplitFiles writes one file per visitor.
func WithSplitFiles() Option {
	return func(c *Config) error {
		c.Split = true
		return nil
	}
}

// WithFilename sets the name of the combined output file.
func WithFilename(name string) Option {
	return func(c *Config) error {
		if name == "" || !strings.HasSuffix(name, ".go") {
			return NewConfigError("Filename", name, "filename must end with .go")
		}
		c.Filename = name
		return nil
	}
}

// WithWorkers sets the number of parallel workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithLogger sets the logger used during generation.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) error {
		if logger == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = logger
		return nil
	}
}

// WithRegistry sets the traversal rule registry.
func WithRegistry(r *Registry) Option {
	return func(c *Config) error {
		if r == nil {
			return NewConfigError("Registry", nil, "registry cannot be nil")
		}
		c.Registry = r
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Models:   true,
		Filename: DefaultFilename,
		Workers:  runtime.GOMAXPROCS(0),
		Logger:   slog.New(slog.DiscardHandler),
		Registry: DefaultRegistry(),
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Config) validate() error {
	if c == nil {
		return NewConfigError("Config", nil, "missing configuration")
	}
	if c.Package == "" {
		return NewConfigError("Package", nil, "package name is required")
	}
	if c.Registry == nil {
		c.Registry = DefaultRegistry()
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	if c.Filename == "" {
		c.Filename = DefaultFilename
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	return nil
}
