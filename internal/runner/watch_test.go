package runner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ptb/internal/config"
)

func TestFilesToRerun(t *testing.T) {
	sess := &phpunitSession{
		cfg:    config.New(),
		runCfg: Config{RootPath: "/proj"},
		files: []string{
			filepath.Join("tests", "AlphaTest.php"),
			filepath.Join("tests", "BetaTest.php"),
		},
	}

	t.Run("known test file reruns only itself", func(t *testing.T) {
		got := sess.filesToRerun("/proj/tests/AlphaTest.php")
		if len(got) != 1 || got[0] != filepath.Join("tests", "AlphaTest.php") {
			t.Errorf("got %v, want just AlphaTest.php", got)
		}
	})

	t.Run("production code change reruns everything", func(t *testing.T) {
		got := sess.filesToRerun("/proj/src/User.php")
		if len(got) != 2 {
			t.Errorf("got %v, want all files", got)
		}
	})

	t.Run("new test file without filters reruns everything", func(t *testing.T) {
		got := sess.filesToRerun("/proj/tests/GammaTest.php")
		if len(got) != 2 {
			t.Errorf("got %v, want all files", got)
		}
	})

	t.Run("test file outside the include set is ignored", func(t *testing.T) {
		scoped := &phpunitSession{
			cfg:    config.New(),
			runCfg: Config{RootPath: "/proj", IncludeFiles: []string{"AlphaTest.php"}},
			files:  []string{filepath.Join("tests", "AlphaTest.php")},
		}
		if got := scoped.filesToRerun("/proj/tests/GammaTest.php"); got != nil {
			t.Errorf("got %v, want nil", got)
		}
	})
}

func TestPHPUnitSession_Watch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping watch integration test in short mode")
	}

	cfg := setupProject(t)
	installFakePHPUnit(t)

	sess, err := NewPHPUnitStarter(cfg).Start(context.Background(), Config{
		RootPath:       cfg.ProjectPath,
		Watch:          true,
		SuppressOutput: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- sess.Execute(context.Background()) }()

	// Initial pass runs everything
	select {
	case u := <-sess.Updates():
		if u.Trigger != "" {
			t.Errorf("initial update trigger = %q, want empty", u.Trigger)
		}
		if len(u.Files) != 2 {
			t.Errorf("initial update files = %v, want both test files", u.Files)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for the initial run")
	}

	// Touching a known test file re-runs just that file. The watcher arms
	// after the initial pass, so keep rewriting until an update lands.
	alpha := filepath.Join(cfg.ProjectPath, "tests", "AlphaTest.php")
	deadline := time.After(10 * time.Second)
	var update Update
	for {
		if err := os.WriteFile(alpha, []byte(passingSource), 0644); err != nil {
			t.Fatalf("failed to rewrite test file: %v", err)
		}
		select {
		case update = <-sess.Updates():
		case <-time.After(500 * time.Millisecond):
			continue
		case <-deadline:
			t.Fatal("timed out waiting for a re-run")
		}
		break
	}
	if !strings.HasSuffix(update.Trigger, "AlphaTest.php") {
		t.Errorf("re-run trigger = %q, want AlphaTest.php", update.Trigger)
	}
	if len(update.Files) != 1 {
		t.Errorf("re-run files = %v, want just the changed file", update.Files)
	}

	if err := sess.Close(); err != nil {
		t.Errorf("close failed: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("execute returned %v after close", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("execute did not return after close")
	}
}
