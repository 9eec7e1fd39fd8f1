package gen

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// ModelsFilename is the name of the models file when output is split.
const ModelsFilename = "models.go"

// Writer renders the files of a generator to disk with parallel execution.
type Writer struct {
	gen    *Generator
	target string

	// Metrics for performance monitoring
	mu      sync.Mutex
	metrics *WriterMetrics
}

// WriterMetrics tracks generation performance
type WriterMetrics struct {
	FilesGenerated int
	TotalBytes     int64
	FormatTime     time.Duration
}

// NewWriter creates a writer for the given target. Without split files,
// target is the path of the combined file, or a directory receiving
// Config.Filename. With split files, target is a directory receiving the
// models file and one file per visitor.
func NewWriter(g *Generator, target string) *Writer {
	return &Writer{
		gen:     g,
		target:  target,
		metrics: &WriterMetrics{},
	}
}

// Metrics returns the generation metrics.
func (w *Writer) Metrics() *WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	m := *w.metrics
	return &m
}

// fileTask represents a single file generation task.
type fileTask struct {
	path string
	file *jen.File
	data []byte
}

// Files returns the paths that Write produces, in order.
func (w *Writer) Files() []string {
	tasks := w.tasks()
	paths := make([]string, len(tasks))
	for i, t := range tasks {
		paths[i] = t.path
	}
	return paths
}

func (w *Writer) tasks() []fileTask {
	cfg := w.gen.cfg
	if !cfg.Split {
		path := w.target
		if !strings.HasSuffix(path, ".go") {
			path = filepath.Join(path, cfg.Filename)
		}
		return []fileTask{{path: path, file: w.gen.File()}}
	}
	var tasks []fileTask
	if cfg.Models {
		tasks = append(tasks, fileTask{path: filepath.Join(w.target, ModelsFilename), file: w.gen.ModelsFile()})
	}
	for _, v := range w.gen.visitors {
		tasks = append(tasks, fileTask{path: filepath.Join(w.target, visitorFilename(v)), file: w.gen.VisitorFile(v)})
	}
	return tasks
}

func visitorFilename(v *Visitor) string {
	name := snake(v.Name)
	if name+".go" == ModelsFilename {
		name += "_visitor"
	}
	return name + ".go"
}

// Write renders and formats all files in parallel, then writes them. No
// file is written unless every file renders, and files are staged next to
// their target and renamed into place once all of them are on disk.
func (w *Writer) Write(ctx context.Context) error {
	var (
		start  = time.Now()
		tasks  = w.tasks()
		logger = w.gen.cfg.Logger
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(w.gen.cfg.Workers)
	for i := range tasks {
		eg.Go(func() error {
			select {
			case <-egCtx.Done():
				return egCtx.Err()
			default:
				return w.formatFile(&tasks[i])
			}
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := w.commit(tasks); err != nil {
		return err
	}
	logger.Info("code generated",
		"files", len(tasks),
		"visitors", len(w.gen.visitors),
		"duration", time.Since(start),
	)
	return nil
}

// formatFile renders and formats a single file.
func (w *Writer) formatFile(t *fileTask) error {
	// 1. Render
	var buf bytes.Buffer
	if err := t.file.Render(&buf); err != nil {
		return NewGenerationError("render", t.path, "", err)
	}

	// 2. Format using goimports
	formatStart := time.Now()
	formatted, err := imports.Process(t.path, buf.Bytes(), nil)
	if err != nil {
		return NewGenerationError("format", t.path, "", err)
	}
	t.data = formatted

	w.mu.Lock()
	w.metrics.FormatTime += time.Since(formatStart)
	w.mu.Unlock()
	return nil
}

// commit stages every file in a temporary file of its target directory
// and renames them into place. Staged files are removed on failure.
func (w *Writer) commit(tasks []fileTask) error {
	staged := make([]string, 0, len(tasks))
	cleanup := func() {
		for _, name := range staged {
			_ = os.Remove(name)
		}
	}
	for _, t := range tasks {
		name, err := stage(t)
		if err != nil {
			cleanup()
			return err
		}
		staged = append(staged, name)
	}
	for i, t := range tasks {
		if err := os.Rename(staged[i], t.path); err != nil {
			cleanup()
			return NewGenerationError("write", t.path, "", err)
		}
		w.gen.cfg.Logger.Debug("file written", "path", t.path, "bytes", len(t.data))

		w.mu.Lock()
		w.metrics.FilesGenerated++
		w.metrics.TotalBytes += int64(len(t.data))
		w.mu.Unlock()
	}
	return nil
}

// stage writes the data of t to a temporary file next to its path.
func stage(t fileTask) (string, error) {
	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", NewGenerationError("write", t.path, "create directory", err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(t.path)+".*")
	if err != nil {
		return "", NewGenerationError("write", t.path, "", err)
	}
	_, err = f.Write(t.data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(f.Name(), 0o644)
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return "", NewGenerationError("write", t.path, "", err)
	}
	return f.Name(), nil
}

// Write is a convenience function that writes the files of g to target.
func Write(ctx context.Context, g *Generator, target string) error {
	return NewWriter(g, target).Write(ctx)
}
