package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"ptb/internal/event"
	"ptb/internal/extract"
	"ptb/internal/runner"
)

// ErrWatchActive is returned when a watch session already runs for the root.
var ErrWatchActive = errors.New("watch session already active")

// Watch starts long-lived watch sessions. A started session is deliberately
// detached: it is owned by the process runtime from then on and is never
// closed by this component. One watch session per root at a time.
type Watch struct {
	starter runner.Starter
	root    string
	bus     *event.Bus

	mu     sync.Mutex
	active bool
}

// NewWatch creates a watch orchestrator for the given root. The bus may be
// nil when nobody consumes re-run notifications.
func NewWatch(starter runner.Starter, root string, bus *event.Bus) *Watch {
	return &Watch{starter: starter, root: root, bus: bus}
}

// Active reports whether a watch session currently runs.
func (o *Watch) Active() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active
}

// Execute starts a watch session and returns as soon as it is running.
// It does not wait for any test outcome; results of each (re-)run are
// published on the event bus instead.
func (o *Watch) Execute(ctx context.Context, includeFiles []string) error {
	o.mu.Lock()
	if o.active {
		o.mu.Unlock()
		return fmt.Errorf("%w for %s", ErrWatchActive, o.root)
	}
	o.active = true
	o.mu.Unlock()

	cfg := runner.Config{
		RootPath:       o.root,
		Watch:          true,
		IncludeFiles:   includeFiles,
		SuppressOutput: true,
	}

	sess, err := o.starter.Start(ctx, cfg)
	if err != nil {
		o.clear()
		return fmt.Errorf("%w: %v", ErrRunnerStart, err)
	}
	if sess == nil {
		o.clear()
		return fmt.Errorf("%w: runner returned no session", ErrRunnerStart)
	}

	// Fire and forget: the invocation's ctx must not bound the session's
	// lifetime, so the detached execution gets a fresh context.
	go func() {
		defer o.clear()
		if err := sess.Execute(context.Background()); err != nil {
			log.Printf("watch session ended: %v", err)
		}
	}()
	go o.forward(sess)

	if o.bus != nil {
		o.bus.Fire(event.Event{Type: event.WatchStarted, Root: o.root})
	}
	return nil
}

func (o *Watch) clear() {
	o.mu.Lock()
	o.active = false
	o.mu.Unlock()
}

// forward turns each completed re-run into a RunFinished event carrying
// the flattened results of the files that ran.
func (o *Watch) forward(sess runner.Session) {
	updates := sess.Updates()
	if updates == nil {
		return
	}
	for u := range updates {
		roots := make([]*runner.Entity, 0, len(u.Files))
		for _, f := range u.Files {
			roots = append(roots, sess.Entity(f))
		}
		if o.bus != nil {
			o.bus.Fire(event.Event{
				Type:    event.RunFinished,
				Root:    o.root,
				Trigger: u.Trigger,
				Results: extract.Extract(roots),
			})
		}
	}
}
