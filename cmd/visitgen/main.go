// visitgen generates hierarchical visitors from a schema descriptor.
//
//	visitgen -schema schema.yaml [-out PATH] [-pkg NAME] [-split] [-no-models] [-watch] [-v]
//
// It is meant to be invoked from a go:generate directive:
//
//	//go:generate go run github.com/syssam/visitgen/cmd/visitgen -schema schema.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/syssam/visitgen/compiler/gen"
	"github.com/syssam/visitgen/compiler/load"
)

// debounce is the quiet period after a change of the schema before it is
// regenerated in watch mode.
const debounce = 100 * time.Millisecond

type options struct {
	schema   string
	out      string
	pkg      string
	split    bool
	noModels bool
	watch    bool
	verbose  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "visitgen: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	var (
		opts = &options{}
		fs   = flag.NewFlagSet("visitgen", flag.ContinueOnError)
	)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.schema, "schema", "", "schema descriptor (.yaml, .json or .msgpack)")
	fs.StringVar(&opts.out, "out", "", "output file or directory (default: the directory of the schema)")
	fs.StringVar(&opts.pkg, "pkg", "", "package name of the generated code (default: the package of the schema)")
	fs.BoolVar(&opts.split, "split", false, "write the models and every visitor to separate files")
	fs.BoolVar(&opts.noModels, "no-models", false, "do not generate the model types")
	fs.BoolVar(&opts.watch, "watch", false, "regenerate when the schema changes")
	fs.BoolVar(&opts.verbose, "v", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if opts.schema == "" {
		return nil, errors.New("missing -schema")
	}
	if opts.out == "" {
		opts.out = filepath.Dir(opts.schema)
	}
	return opts, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	logger := newLogger(stderr, opts.verbose)
	if err := generate(ctx, opts, logger); err != nil {
		if !opts.watch {
			return err
		}
		logger.Error("generation failed", "error", err)
	}
	if opts.watch {
		return watch(ctx, opts, logger)
	}
	return nil
}

// generate loads the schema and writes the generated code.
func generate(ctx context.Context, opts *options, logger *slog.Logger) error {
	s, err := load.Load(opts.schema)
	if err != nil {
		return err
	}
	var genOpts []gen.Option
	switch {
	case opts.pkg != "":
		genOpts = append(genOpts, gen.WithPackage(opts.pkg))
	case s.Package != "":
		genOpts = append(genOpts, gen.WithPackage(s.Package))
	}
	genOpts = append(genOpts, gen.WithHeader(s.Header), gen.WithLogger(logger))
	if opts.split {
		genOpts = append(genOpts, gen.WithSplitFiles())
	}
	if opts.noModels {
		genOpts = append(genOpts, gen.WithoutModels())
	}
	cfg, err := gen.NewConfig(genOpts...)
	if err != nil {
		return err
	}
	g, err := gen.NewGenerator(cfg, s.Model, s.Directives...)
	if err != nil {
		return err
	}
	return gen.Write(ctx, g, opts.out)
}

// watch regenerates the code every time the schema file is written, until
// ctx is done. Generation errors are logged and do not stop watching.
func watch(ctx context.Context, opts *options, logger *slog.Logger) error {
	path, err := filepath.Abs(opts.schema)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	// Watch the directory, editors often replace the file on save.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	logger.Info("watching for changes", "schema", opts.schema)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Debug("schema changed", "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if err := generate(ctx, opts, logger); err != nil {
				logger.Error("generation failed", "error", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", "error", err)
		}
	}
}
