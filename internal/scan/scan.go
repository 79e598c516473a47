// Package scan runs structural analysis over every supported file in a
// directory tree or in the HEAD commit of a git repository.
package scan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/QTest-hq/umlparse/internal/parser"
)

// DefaultConcurrency is used when Options.Concurrency is not positive
const DefaultConcurrency = 4

// Options configures a scan
type Options struct {
	Root         string
	Include      []string // base-name globs, e.g. *.java
	Exclude      []string // gitignore syntax
	Git          bool     // read the HEAD tree instead of the working directory
	Concurrency  int
	MaxFileBytes int64
	Language     string // hint applied to every file; empty detects per file
}

// FileResult is the analysis of a single file
type FileResult struct {
	Path     string                  `json:"path" yaml:"path"`
	Language string                  `json:"language,omitempty" yaml:"language,omitempty"`
	Merged   bool                    `json:"merged,omitempty" yaml:"merged,omitempty"`
	Result   *parser.StructuralModel `json:"result,omitempty" yaml:"result,omitempty"`
	Error    string                  `json:"error,omitempty" yaml:"error,omitempty"`
}

// Summary aggregates counts over all scanned files
type Summary struct {
	Files         int `json:"files" yaml:"files"`
	Failed        int `json:"failed" yaml:"failed"`
	Classes       int `json:"classes" yaml:"classes"`
	Functions     int `json:"functions" yaml:"functions"`
	Relationships int `json:"relationships" yaml:"relationships"`
}

// Report is the outcome of a scan. Files are ordered by path.
type Report struct {
	Root     string       `json:"root" yaml:"root"`
	Revision *Revision    `json:"revision,omitempty" yaml:"revision,omitempty"`
	Files    []FileResult `json:"files" yaml:"files"`
	Summary  Summary      `json:"summary" yaml:"summary"`
}

// Run lists the files selected by opts and analyzes them concurrently.
// Per-file read failures are recorded in the report; only listing errors and
// context cancellation abort the scan.
func Run(ctx context.Context, opts Options, registry *parser.Registry) (*Report, error) {
	if registry == nil {
		registry = parser.NewRegistry()
	}

	filter, err := NewFilter(opts.Root, opts.Include, opts.Exclude, opts.MaxFileBytes)
	if err != nil {
		return nil, err
	}

	var (
		files []File
		rev   *Revision
	)
	if opts.Git {
		files, rev, err = ListGitHead(opts.Root, filter)
	} else {
		files, err = ListDir(opts.Root, filter)
	}
	if err != nil {
		return nil, err
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	log.Info().
		Str("root", opts.Root).
		Bool("git", opts.Git).
		Int("files", len(files)).
		Int("concurrency", concurrency).
		Msg("starting scan")
	start := time.Now()

	hint := parser.NormalizeHint(opts.Language)
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = analyzeFile(registry, f, hint)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan interrupted: %w", err)
	}

	report := &Report{
		Root:     opts.Root,
		Revision: rev,
		Files:    results,
	}
	report.Summary = summarize(results)

	log.Info().
		Int("files", report.Summary.Files).
		Int("failed", report.Summary.Failed).
		Int("classes", report.Summary.Classes).
		Int("functions", report.Summary.Functions).
		Dur("duration", time.Since(start)).
		Msg("scan complete")

	return report, nil
}

func analyzeFile(registry *parser.Registry, f File, hint string) FileResult {
	res := FileResult{Path: f.Path}

	content, err := f.Read()
	if err != nil {
		log.Warn().Err(err).Str("path", f.Path).Msg("failed to read file")
		res.Error = err.Error()
		return res
	}

	code := string(content)
	if strings.TrimSpace(code) == "" {
		res.Result = parser.NewStructuralModel()
		res.Language = string(parser.LanguageFromFilename(f.Path))
		return res
	}

	a := registry.Analyze(code, hint, f.Path)
	res.Language = string(a.Language)
	res.Merged = a.Merged
	res.Result = a.Model
	return res
}

func summarize(results []FileResult) Summary {
	var s Summary
	for _, r := range results {
		s.Files++
		if r.Error != "" {
			s.Failed++
			continue
		}
		s.Classes += len(r.Result.Classes)
		s.Functions += len(r.Result.Functions)
		s.Relationships += len(r.Result.Relationships)
	}
	return s
}
