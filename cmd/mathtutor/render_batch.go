package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Worker limits for batch rendering.
const maxWorkers = 8

// Sentinel errors for batch rendering.
var (
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrNoInput            = errors.New("no markdown files found")
)

// renderJob is one file of a batch.
type renderJob struct {
	InputPath  string
	OutputPath string
}

// renderResult holds the outcome of a single job.
type renderResult struct {
	renderJob
	Err      error
	Duration time.Duration
}

func runRenderBatch(ctx context.Context, s *renderSetup, inputs []string, f *renderCmdFlags, defaultDir string) error {
	outDir := firstNonEmpty(f.out.output, defaultDir)
	jobs, err := discoverJobs(inputs, outDir)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("%w in %s", ErrNoInput, strings.Join(inputs, ", "))
	}

	results := renderBatch(ctx, s, jobs, resolveWorkers(f.workers), f.out.page)
	return reportBatch(s.env, results, f.common.quiet)
}

// discoverJobs expands inputs into jobs. Directories are walked for
// Markdown files; output keeps the layout under outDir, or sits next to
// the source when outDir is empty.
func discoverJobs(inputs []string, outDir string) ([]renderJob, error) {
	var jobs []renderJob
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
		}
		if !info.IsDir() {
			if err := validateMarkdownExtension(in); err != nil {
				return nil, err
			}
			jobs = append(jobs, renderJob{InputPath: in, OutputPath: outputPathFor(in, outDir, "")})
			continue
		}
		err = filepath.WalkDir(in, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if d.IsDir() || validateMarkdownExtension(path) != nil {
				return nil
			}
			jobs = append(jobs, renderJob{InputPath: path, OutputPath: outputPathFor(path, outDir, in)})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return jobs, nil
}

// outputPathFor returns the HTML path for a Markdown file.
func outputPathFor(inputPath, outDir, baseDir string) string {
	name := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath)) + ".html"
	if outDir == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}
	if baseDir != "" {
		if rel, err := filepath.Rel(baseDir, inputPath); err == nil {
			return filepath.Join(outDir, filepath.Dir(rel), name)
		}
	}
	return filepath.Join(outDir, name)
}

func validateMarkdownExtension(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidExtension, path)
}

func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > maxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, maxWorkers)
	}
	return nil
}

// resolveWorkers picks the worker count; 0 means one per CPU up to the cap.
func resolveWorkers(n int) int {
	if n > 0 {
		return n
	}
	return max(1, min(runtime.GOMAXPROCS(0), maxWorkers))
}

// renderBatch renders jobs on a fixed set of workers sharing one Renderer.
func renderBatch(ctx context.Context, s *renderSetup, jobs []renderJob, workers int, page bool) []renderResult {
	workers = min(workers, len(jobs))
	results := make([]renderResult, len(jobs))
	queue := make(chan int, len(jobs))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				if err := ctx.Err(); err != nil {
					results[idx] = renderResult{renderJob: jobs[idx], Err: err}
					continue
				}
				results[idx] = renderFile(ctx, s, jobs[idx], page)
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)
	wg.Wait()
	return results
}

func renderFile(ctx context.Context, s *renderSetup, job renderJob, page bool) renderResult {
	start := time.Now()
	res := renderResult{renderJob: job}

	data, err := os.ReadFile(job.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		res.Err = fmt.Errorf("%w: %w", ErrReadInput, err)
		res.Duration = time.Since(start)
		return res
	}

	content := s.renderer.RenderClass(string(data), s.class)
	if page {
		title := strings.TrimSuffix(filepath.Base(job.InputPath), filepath.Ext(job.InputPath))
		if content, err = s.renderer.Page(ctx, title, content); err != nil {
			res.Err = err
			res.Duration = time.Since(start)
			return res
		}
	}

	res.Err = writeOutput(nil, job.OutputPath, content+"\n")
	res.Duration = time.Since(start)
	return res
}

// reportBatch prints one line per file and returns an error naming the
// failure count, wrapping the first failure.
func reportBatch(env *Environment, results []renderResult, quiet bool) error {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	var failed int
	var first error
	for _, r := range results {
		if r.Err != nil {
			failed++
			if first == nil {
				first = r.Err
			}
			red.Fprintf(env.Stderr, "✗ %s: %v\n", r.InputPath, r.Err)
			continue
		}
		if !quiet {
			green.Fprintf(env.Stderr, "✓ %s → %s (%s)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed: %w", failed, len(results), first)
	}
	return nil
}
