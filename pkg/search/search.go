// Package search implements the concurrent multi-source package search.
//
// A Searcher fans a batch of queries out across a fixed set of registry
// sources under a bounded worker pool, isolates per-source failures, and
// merges the answers into one [Report]. Sources perform the actual network
// I/O; this package only coordinates them.
package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/pkgscout/pkgscout/pkg/observability"
)

const (
	// defaultWorkers bounds the worker pool; a batch smaller than this
	// uses one worker per task.
	defaultWorkers = 32

	// defaultTaskTimeout caps a single source call. Without it one stuck
	// registry would stall the whole batch, since Search always waits for
	// every task.
	defaultTaskTimeout = 30 * time.Second
)

// ProgressFunc receives a tick after every task completion. completed is
// monotonically increasing up to total; ticks are delivered from a single
// goroutine, in order.
type ProgressFunc func(completed, total int)

// Option configures a Searcher.
type Option func(*Searcher)

// WithWorkers sets the maximum worker-pool size.
func WithWorkers(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithTaskTimeout sets the per-source-call timeout. Zero disables it.
func WithTaskTimeout(d time.Duration) Option {
	return func(s *Searcher) { s.timeout = d }
}

// WithLogger sets the logger used for per-task failures and batch summary.
func WithLogger(l *log.Logger) Option {
	return func(s *Searcher) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Searcher) { s.progress = fn }
}

// WithGenericNames overrides the reserved generic marker names rejected by
// the result filter (default: [DefaultGenericNames]).
func WithGenericNames(names ...string) Option {
	return func(s *Searcher) { s.filter = NewFilter(names) }
}

// Searcher coordinates package searches across multiple registry sources.
// The source set and configuration are fixed at construction; a single
// Searcher may run any number of batches, sequentially or concurrently.
type Searcher struct {
	sources  []Source
	workers  int
	timeout  time.Duration
	logger   *log.Logger
	progress ProgressFunc
	filter   *Filter
}

// New creates a Searcher over the given sources.
func New(sources []Source, opts ...Option) *Searcher {
	s := &Searcher{
		sources: sources,
		workers: defaultWorkers,
		timeout: defaultTaskTimeout,
		logger:  log.Default(),
		filter:  NewFilter(DefaultGenericNames),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// task is one (query, source) pair of the batch cross-product.
type task struct {
	query  string
	source Source
}

// outcome is a completed task: at most one of pkg/err is set; both nil
// means the source answered "not found".
type outcome struct {
	task
	pkg *Package
	err error
}

// Search runs one batch over the full {queries} x {sources} cross-product
// and returns the aggregated report.
//
// Every task completes before Search returns: a source that errors, panics,
// or times out contributes "no result" and never aborts sibling tasks. The
// returned report has exactly the query set as keys (duplicate queries
// share a key, though each occurrence is still searched) and never nil
// entries. Results are appended in completion order.
func (s *Searcher) Search(ctx context.Context, queries []string) Report {
	report := make(Report, len(queries))
	for _, q := range queries {
		if _, ok := report[q]; !ok {
			report[q] = []*Package{}
		}
	}

	total := len(queries) * len(s.sources)
	if total == 0 {
		return report
	}

	batch := uuid.NewString()
	start := time.Now()
	observability.Search().OnBatchStart(ctx, batch, len(queries), len(s.sources))
	s.logger.Debug("starting search batch",
		"batch", batch, "queries", len(queries), "sources", len(s.sources), "tasks", total)

	jobs := make(chan task)
	results := make(chan outcome)

	var wg sync.WaitGroup
	for range min(s.workers, total) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				results <- s.run(ctx, batch, t)
			}
		}()
	}

	go func() {
		for _, q := range queries {
			for _, src := range s.sources {
				jobs <- task{query: q, source: src}
			}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Single collector: all report mutation and progress emission happens
	// on this goroutine, so appends to one query's slice cannot race no
	// matter how many workers produced results.
	completed := 0
	for out := range results {
		completed++
		s.collect(out, report)
		if s.progress != nil {
			s.progress(completed, total)
		}
	}

	observability.Search().OnBatchComplete(ctx, batch, report.Found(), time.Since(start))
	s.logger.Debug("search batch complete",
		"batch", batch, "found", report.Found(), "duration", time.Since(start).Round(time.Millisecond))
	return report
}

// run executes one task, converting every failure mode (error, timeout,
// panic) into an outcome. Nothing a source does can escape this boundary
// or abort sibling tasks.
func (s *Searcher) run(ctx context.Context, batch string, t task) (out outcome) {
	start := time.Now()
	out = outcome{task: t}

	defer func() {
		if r := recover(); r != nil {
			out.pkg = nil
			out.err = fmt.Errorf("source panicked: %v", r)
		}
		observability.Search().OnTaskComplete(ctx, batch, t.query, t.source.Name(), time.Since(start), out.err)
	}()

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	out.pkg, out.err = t.source.Search(callCtx, t.query)
	return out
}

// collect folds one outcome into the report.
func (s *Searcher) collect(out outcome, report Report) {
	if out.err != nil {
		s.logger.Warn("source failed",
			"source", out.source.Name(), "query", out.query, "error", out.err)
		return
	}
	if out.pkg == nil {
		return
	}
	if reason, ok := s.filter.Accept(out.pkg, report[out.query]); !ok {
		s.logger.Debug("record rejected",
			"source", out.source.Name(), "query", out.query, "name", out.pkg.Name, "reason", reason)
		return
	}
	report[out.query] = append(report[out.query], out.pkg)
}
