// Package orchestrate drives runner sessions to a reportable point: run
// mode to completion and teardown, watch mode to a detached steady state.
package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"ptb/internal/domain"
	"ptb/internal/extract"
	"ptb/internal/runner"
	"ptb/internal/storage"
)

// ErrRunnerStart marks failures to initialize a runner session.
var ErrRunnerStart = errors.New("runner start failure")

// Run owns the lifecycle of one-shot test executions against a fixed
// project root: configure, start, await completion, collect, close.
type Run struct {
	starter runner.Starter
	root    string
	timeout time.Duration
	workers int
	store   storage.Storage // optional; last-run persistence
}

// NewRun creates a run orchestrator for the given root.
func NewRun(starter runner.Starter, root string, timeout time.Duration, workers int) *Run {
	return &Run{starter: starter, root: root, timeout: timeout, workers: workers}
}

// SetStorage attaches last-run persistence. Persistence failures are
// logged, never surfaced.
func (o *Run) SetStorage(store storage.Storage) {
	o.store = store
}

// Execute drives a single run session to completion and returns the
// flattened test-case results in file discovery order. The session is
// closed unconditionally, including on collection failure.
func (o *Run) Execute(ctx context.Context, includeFiles []string, suppressOutput bool) ([]domain.TestCaseResult, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	cfg := runner.Config{
		RootPath:       o.root,
		Watch:          false,
		IncludeFiles:   includeFiles,
		SuppressOutput: suppressOutput,
	}

	sess, err := o.starter.Start(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRunnerStart, err)
	}
	if sess == nil {
		return nil, fmt.Errorf("%w: runner returned no session", ErrRunnerStart)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			log.Printf("closing runner session: %v", cerr)
		}
	}()

	start := time.Now()
	if err := sess.Execute(ctx); err != nil {
		return nil, fmt.Errorf("test execution: %w", err)
	}

	files := sess.Files()
	roots := make([]*runner.Entity, 0, len(files))
	for _, f := range files {
		roots = append(roots, sess.Entity(f))
	}
	results := extract.Extract(roots)

	o.persist(files, results, time.Since(start))
	return results, nil
}

func (o *Run) persist(files []string, results []domain.TestCaseResult, duration time.Duration) {
	if o.store == nil {
		return
	}
	if err := o.store.Save(buildOutput(files, results, duration, o.workers)); err != nil {
		log.Printf("persisting run results: %v", err)
	}
}

func buildOutput(files []string, results []domain.TestCaseResult, duration time.Duration, workers int) *domain.TestRunOutput {
	meta := domain.TestRunMeta{
		TotalTestFiles:  len(files),
		TotalTestCases:  len(results),
		Duration:        duration.String(),
		DurationSeconds: duration.Seconds(),
		Workers:         workers,
		Timestamp:       time.Now().Format(time.RFC3339),
	}
	for _, r := range results {
		switch r.Status {
		case domain.StatusFailed:
			meta.FailedTestCases++
		case domain.StatusPassed:
			meta.PassedTestCases++
		}
	}
	return &domain.TestRunOutput{Meta: meta, Results: results}
}
