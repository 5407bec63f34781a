package storage

import (
	"os"
	"path/filepath"
	"testing"

	"ptb/internal/config"
	"ptb/internal/domain"
)

func newStorage(t *testing.T) (*JSONStorage, *config.Config) {
	t.Helper()
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	return NewJSONStorage(cfg), cfg
}

func TestJSONStorage_SaveAndLoad(t *testing.T) {
	store, cfg := newStorage(t)

	saved := &domain.TestRunOutput{
		Meta: domain.TestRunMeta{
			TotalTestFiles:  1,
			TotalTestCases:  2,
			PassedTestCases: 1,
			FailedTestCases: 1,
			Workers:         4,
		},
		Results: []domain.TestCaseResult{
			{Name: "testPasses", Status: domain.StatusPassed},
			{
				Name:   "testFails",
				Status: domain.StatusFailed,
				Error:  &domain.ErrorInfo{Message: "boom", Stack: "/app/tests/ExampleTest.php:9"},
			},
		},
	}

	if err := store.Save(saved); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// The output dir is created on demand
	if _, err := os.Stat(filepath.Dir(cfg.GetOutputPath())); err != nil {
		t.Fatalf("output dir missing: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Meta != saved.Meta {
		t.Errorf("meta = %+v, want %+v", loaded.Meta, saved.Meta)
	}
	if len(loaded.Results) != 2 {
		t.Fatalf("results = %d entries, want 2", len(loaded.Results))
	}
	if loaded.Results[0] != saved.Results[0] {
		t.Errorf("results[0] = %+v, want %+v", loaded.Results[0], saved.Results[0])
	}
	failed := loaded.Results[1]
	if failed.Error == nil || failed.Error.Message != "boom" {
		t.Errorf("failed result lost its error detail: %+v", failed)
	}
}

func TestJSONStorage_LoadMissingFile(t *testing.T) {
	store, _ := newStorage(t)
	if _, err := store.Load(); err == nil {
		t.Error("expected error loading before any save")
	}
}

func TestJSONStorage_LoadCorruptFile(t *testing.T) {
	store, cfg := newStorage(t)

	path := cfg.GetOutputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create output dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	if _, err := store.Load(); err == nil {
		t.Error("expected error loading corrupt results")
	}
}
