package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// OutputExtension is appended to the recording name of exported files.
const OutputExtension = ".owl.json"

// ErrNoTestName is returned for a path with no usable file name.
var ErrNoTestName = errors.New("no file or folder was found to export")

// BatchOptions tune Batch.
type BatchOptions struct {
	Options

	// OutputDir receives <name>.owl.json. It must already exist.
	OutputDir string
	// FallbackDir is tried once when writing to OutputDir fails.
	FallbackDir string
	// Dry prints results to Stdout and writes nothing.
	Dry bool
	// Print also prints results after writing them.
	Print bool
	// Concurrency bounds the recordings converted at once.
	Concurrency int
	// Stdout receives printed results; nil means os.Stdout.
	Stdout io.Writer
}

// Batch converts files concurrently. Results are in the order of files; a
// failed file is reported in its Result and does not stop the others. The
// returned error is only set when ctx ends the batch early.
func Batch(ctx context.Context, files []string, opts BatchOptions) ([]*Result, error) {
	log := opts.logger().With(zap.String("run_id", uuid.NewString()))
	opts.Logger = log

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	p := &printer{w: stdout}

	results := make([]*Result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}

	for i, file := range files {
		g.Go(func() error {
			results[i] = convertFile(ctx, file, opts, p)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func convertFile(ctx context.Context, file string, opts BatchOptions, p *printer) *Result {
	log := opts.Logger.With(zap.String("file", file))
	res := &Result{Source: file}

	if err := ctx.Err(); err != nil {
		return res.fail(err)
	}
	log.Info("Running Owloops Chrome Recorder")

	content, err := os.ReadFile(file)
	if err != nil {
		return res.fail(fmt.Errorf("failed to read recording: %w", err))
	}

	fileOpts := opts.Options
	fileOpts.Logger = log
	converted, err := Convert(content, fileOpts)
	if err != nil {
		log.Error("conversion failed", zap.Error(err))
		return res.fail(err)
	}
	converted.Source = file
	if converted.Empty {
		return converted
	}

	if opts.Dry {
		p.println(converted.Output)
		return converted
	}

	name := TestName(file)
	if name == "" {
		log.Error(ErrNoTestName.Error())
		return converted.fail(ErrNoTestName)
	}
	if err := ctx.Err(); err != nil {
		return converted.fail(err)
	}

	path, err := Export(converted.Output, name, opts.OutputDir, opts.FallbackDir)
	if err != nil {
		log.Warn(err.Error())
		return converted.fail(err)
	}
	converted.WrittenTo = path
	log.Info(fmt.Sprintf("%s.json exported to %s", name, path))

	if opts.Print {
		p.println(converted.Output)
	}
	return converted
}

// TestName is the recording's file name without its .json extension.
func TestName(file string) string {
	base := filepath.Base(file)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, ".json")
}

// Export writes output to dir/<name>.owl.json, retrying once in fallback
// when dir cannot be written. It returns the path written.
func Export(output, name, dir, fallback string) (string, error) {
	path := filepath.Join(dir, name+OutputExtension)
	err := os.WriteFile(path, []byte(output), 0o644)
	if err == nil {
		return path, nil
	}
	if fallback == "" || filepath.Clean(fallback) == filepath.Clean(dir) {
		return "", fmt.Errorf("there was an issue writing the output to %s, please check that it exists and try again: %w", dir, err)
	}

	fallbackPath := filepath.Join(fallback, name+OutputExtension)
	if ferr := os.WriteFile(fallbackPath, []byte(output), 0o644); ferr != nil {
		return "", fmt.Errorf("there was an issue writing the output to %s, please check that it exists and try again: %w", fallback, errors.Join(err, ferr))
	}
	return fallbackPath, nil
}

// printer serializes writes from concurrent conversions.
type printer struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *printer) println(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, s)
}
