package runner

import "context"

// Config is the immutable per-invocation session configuration. It is built
// once by an orchestrator and never mutated afterwards.
type Config struct {
	// RootPath is the absolute project root for this session.
	RootPath string

	// Watch keeps the session alive after the first run, re-running on
	// file changes.
	Watch bool

	// IncludeFiles restricts the run to files matching these patterns.
	// Empty means everything under the configured test path.
	IncludeFiles []string

	// SuppressOutput silences per-file progress reporting.
	SuppressOutput bool
}

// Update describes one completed (re-)run of a watch session.
type Update struct {
	Trigger string   // path that triggered the re-run, empty for the initial run
	Files   []string // files executed, in enumeration order
}

// Session is a handle to one live runner instance. Run-mode sessions are
// created, driven and closed within a single orchestrator invocation;
// watch-mode sessions outlive it.
type Session interface {
	// Execute runs the session's test plan. For run-mode sessions it
	// returns once every outcome has settled. For watch-mode sessions it
	// blocks until ctx is cancelled or the session is closed, re-running
	// changed files as they change.
	Execute(ctx context.Context) error

	// Files enumerates the session's test files in discovery order.
	Files() []string

	// Entity returns the reported entity tree for one file, or nil if the
	// file is unknown or has not run yet.
	Entity(file string) *Entity

	// Updates reports completed watch re-runs. The channel is closed when
	// the session ends. Run-mode sessions return nil.
	Updates() <-chan Update

	// Close releases the session's resources. Safe to call more than once.
	Close() error
}

// Starter initializes runner sessions.
type Starter interface {
	Start(ctx context.Context, cfg Config) (Session, error)
}

// Progress receives execution progress callbacks during a run.
type Progress interface {
	Update(completedFiles, passedCases, failedCases int)
	Finish()
}
