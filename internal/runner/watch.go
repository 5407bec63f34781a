package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"ptb/internal/discovery"
)

const watchDebounce = 100 * time.Millisecond

// watch runs the initial pass and then keeps re-running files as they
// change until ctx is cancelled or the session is closed. The updates
// channel is closed on exit.
func (s *phpunitSession) watch(ctx context.Context) error {
	defer close(s.updates)

	if err := s.runFiles(ctx, s.files); err != nil {
		return err
	}
	s.publish(Update{Files: s.Files()})

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, s.cfg.GetTestPath()); err != nil {
		return fmt.Errorf("watch test path: %w", err)
	}

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()
	pending := make(chan string, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.closed:
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Ext(event.Name) != ".php" {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			name := event.Name
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case pending <- name:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)

		case trigger := <-pending:
			files := s.filesToRerun(trigger)
			if len(files) == 0 {
				continue
			}
			if err := s.runFiles(ctx, files); err != nil {
				return err
			}
			s.publish(Update{Trigger: relPath(s.runCfg.RootPath, trigger), Files: files})
		}
	}
}

// filesToRerun maps a changed path to the files worth re-executing: the
// file itself when it is a known test file, everything otherwise (a change
// to production code can break any test).
func (s *phpunitSession) filesToRerun(changed string) []string {
	if discovery.IsTestFile(filepath.Base(changed)) {
		rel := relPath(s.runCfg.RootPath, changed)
		for _, f := range s.files {
			if f == rel {
				return []string{rel}
			}
		}
		// Changed test file outside the include set: not ours to run.
		if len(s.runCfg.IncludeFiles) > 0 || s.cfg.Flags.NameFilter != "" {
			return nil
		}
	}
	return s.Files()
}

func (s *phpunitSession) publish(u Update) {
	select {
	case s.updates <- u:
	default:
		// A slow consumer drops updates rather than stalling re-runs.
	}
}

func watchDirRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if strings.HasPrefix(filepath.Base(path), ".") && path != root {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
