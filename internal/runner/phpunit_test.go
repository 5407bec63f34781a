package runner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"ptb/internal/config"
	"ptb/internal/domain"
)

const passingSource = `<?php
final class AlphaTest extends TestCase
{
    public function testOne(): void {}
    public function testTwo(): void {}
}
`

const failingSource = `<?php
final class BetaTest extends TestCase
{
    public function testOk(): void {}
    public function testBroken(): void {}
}
`

// setupProject writes a throwaway PHPUnit project with two test files and a
// non-test helper.
func setupProject(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"tests/AlphaTest.php": passingSource,
		"tests/BetaTest.php":  failingSource,
		"tests/Helper.php":    "<?php // not a test\n",
	}
	for rel, src := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create dir for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(src), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", rel, err)
		}
	}

	cfg := config.New()
	cfg.ProjectPath = dir
	return cfg
}

// installFakePHPUnit points PTB_PHPUNIT at a script that emits canned
// PHPUnit output: a clean pass for AlphaTest, one failure for anything else.
func installFakePHPUnit(t *testing.T) {
	t.Helper()

	script := `#!/bin/sh
case "$1" in
*AlphaTest.php)
	cat <<'EOF'
PHPUnit 10.5 by Sebastian Bergmann and contributors.

..                                                                  2 / 2 (100%)

OK (2 tests, 2 assertions)
EOF
	;;
*)
	cat <<'EOF'
PHPUnit 10.5 by Sebastian Bergmann and contributors.

.F                                                                  2 / 2 (100%)

There was 1 failure:

1) BetaTest::testBroken
Failed asserting that two strings are identical.

/app/tests/BetaTest.php:5

FAILURES!
Tests: 2, Assertions: 2, Failures: 1.
EOF
	exit 1
	;;
esac
`
	path := filepath.Join(t.TempDir(), "phpunit")
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write fake phpunit: %v", err)
	}
	t.Setenv("PTB_PHPUNIT", path)
}

func TestPHPUnitStarter_Start(t *testing.T) {
	cfg := setupProject(t)
	starter := NewPHPUnitStarter(cfg)
	rc := Config{RootPath: cfg.ProjectPath}

	t.Run("discovers test files in order", func(t *testing.T) {
		sess, err := starter.Start(context.Background(), rc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer sess.Close()

		want := []string{
			filepath.Join("tests", "AlphaTest.php"),
			filepath.Join("tests", "BetaTest.php"),
		}
		got := sess.Files()
		if len(got) != len(want) {
			t.Fatalf("files = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("files[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("applies include patterns", func(t *testing.T) {
		sess, err := starter.Start(context.Background(), Config{
			RootPath:     cfg.ProjectPath,
			IncludeFiles: []string{"AlphaTest.php"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer sess.Close()

		files := sess.Files()
		if len(files) != 1 || !strings.HasSuffix(files[0], "AlphaTest.php") {
			t.Errorf("files = %v, want only AlphaTest.php", files)
		}
	})

	t.Run("applies name filter flag", func(t *testing.T) {
		filtered := config.New()
		filtered.ProjectPath = cfg.ProjectPath
		filtered.Flags.NameFilter = "*Beta*"

		sess, err := NewPHPUnitStarter(filtered).Start(context.Background(), Config{RootPath: cfg.ProjectPath})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer sess.Close()

		files := sess.Files()
		if len(files) != 1 || !strings.HasSuffix(files[0], "BetaTest.php") {
			t.Errorf("files = %v, want only BetaTest.php", files)
		}
	})

	t.Run("run mode has no updates channel", func(t *testing.T) {
		sess, _ := starter.Start(context.Background(), rc)
		defer sess.Close()
		if sess.Updates() != nil {
			t.Error("run-mode session should return a nil updates channel")
		}
	})

	t.Run("watch mode has an updates channel", func(t *testing.T) {
		sess, _ := starter.Start(context.Background(), Config{RootPath: cfg.ProjectPath, Watch: true})
		defer sess.Close()
		if sess.Updates() == nil {
			t.Error("watch-mode session should return an updates channel")
		}
	})

	t.Run("unknown file has no entity", func(t *testing.T) {
		sess, _ := starter.Start(context.Background(), rc)
		defer sess.Close()
		if sess.Entity("tests/NopeTest.php") != nil {
			t.Error("expected nil entity for unknown file")
		}
	})

	t.Run("cancelled context fails fast", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := starter.Start(ctx, rc); err == nil {
			t.Error("expected error from cancelled context")
		}
	})
}

type recordingProgress struct {
	mu       sync.Mutex
	updates  int
	finished bool
}

func (p *recordingProgress) Update(completedFiles, passedCases, failedCases int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates++
}

func (p *recordingProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finished = true
}

func TestPHPUnitSession_Execute(t *testing.T) {
	cfg := setupProject(t)
	installFakePHPUnit(t)

	progress := &recordingProgress{}
	starter := NewPHPUnitStarter(cfg)
	starter.SetProgressFactory(func(totalFiles int) Progress {
		if totalFiles != 2 {
			t.Errorf("progress sized for %d files, want 2", totalFiles)
		}
		return progress
	})

	sess, err := starter.Start(context.Background(), Config{RootPath: cfg.ProjectPath})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sess.Close()

	if err := sess.Execute(context.Background()); err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	alpha := sess.Entity(filepath.Join("tests", "AlphaTest.php"))
	if alpha == nil {
		t.Fatal("no entity for AlphaTest.php")
	}
	for _, c := range alpha.Children[0].Children {
		if c.Status != domain.StatusPassed {
			t.Errorf("alpha case %q status = %q, want passed", c.Name, c.Status)
		}
	}

	beta := sess.Entity(filepath.Join("tests", "BetaTest.php"))
	if beta == nil {
		t.Fatal("no entity for BetaTest.php")
	}
	var sawFailure bool
	for _, c := range beta.Children[0].Children {
		if c.Name == "testBroken" {
			sawFailure = true
			if c.Status != domain.StatusFailed || c.Error == nil {
				t.Errorf("testBroken = %+v, want failed with detail", c)
			}
		}
	}
	if !sawFailure {
		t.Error("beta entity has no testBroken case")
	}

	progress.mu.Lock()
	defer progress.mu.Unlock()
	if progress.updates != 2 {
		t.Errorf("progress updates = %d, want 2", progress.updates)
	}
	if !progress.finished {
		t.Error("progress was never finished")
	}
}

func TestPHPUnitSession_ExecuteSuppressedOutputSkipsProgress(t *testing.T) {
	cfg := setupProject(t)
	installFakePHPUnit(t)

	starter := NewPHPUnitStarter(cfg)
	starter.SetProgressFactory(func(totalFiles int) Progress {
		t.Error("progress factory called for a suppressed session")
		return &recordingProgress{}
	})

	sess, err := starter.Start(context.Background(), Config{RootPath: cfg.ProjectPath, SuppressOutput: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sess.Close()

	if err := sess.Execute(context.Background()); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
}
