package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"ptb/internal/orchestrate"
)

// WatchAck is the acknowledgement text returned when watch mode starts.
const WatchAck = "Watch mode started. Tests will re-run automatically when files change."

const runSchema = `{
  "type": "object",
  "properties": {
    "testFiles": {
      "description": "Test file name or path patterns to include. A single string or an array of strings; omit to run everything.",
      "oneOf": [
        {"type": "string"},
        {"type": "array", "items": {"type": "string"}}
      ]
    },
    "updateMode": {
      "type": "string",
      "enum": ["run", "watch"],
      "default": "run"
    }
  }
}`

const watchSchema = `{
  "type": "object",
  "properties": {
    "testFiles": {
      "description": "Test file name or path patterns to include. A single string or an array of strings; omit to watch everything.",
      "oneOf": [
        {"type": "string"},
        {"type": "array", "items": {"type": "string"}}
      ]
    }
  }
}`

// runArgs is the argument shape shared by run_tests and watch_tests.
type runArgs struct {
	TestFiles  any    `json:"testFiles"`
	UpdateMode string `json:"updateMode"`
}

// NewDefaultDispatcher registers the test-execution tools on a dispatcher.
// Run invocations against the process's single root are serialized; the
// underlying runner is not assumed to support concurrent sessions.
func NewDefaultDispatcher(run *orchestrate.Run, watch *orchestrate.Watch) *Dispatcher {
	d := NewDispatcher()
	var runMu sync.Mutex

	watchHandler := func(ctx context.Context, raw json.RawMessage) Response {
		args, err := parseArgs(raw)
		if err != nil {
			return Errorf("Invalid arguments: %v", err)
		}
		files, err := normalizeTestFiles(args.TestFiles)
		if err != nil {
			return Errorf("Invalid arguments: %v", err)
		}
		if err := watch.Execute(ctx, files); err != nil {
			if errors.Is(err, orchestrate.ErrWatchActive) {
				return Errorf("Watch mode is already active: %v", err)
			}
			return Errorf("Failed to start watch mode: %v", err)
		}
		return Response{Text: WatchAck}
	}

	d.Register(Tool{
		Name:        "run_tests",
		Description: "Run the project's tests once and return flattened per-case results as JSON. Optional testFiles restricts the run; updateMode \"watch\" starts watch mode instead.",
		InputSchema: []byte(runSchema),
		Handler: func(ctx context.Context, raw json.RawMessage) Response {
			args, err := parseArgs(raw)
			if err != nil {
				return Errorf("Invalid arguments: %v", err)
			}
			switch args.UpdateMode {
			case "", "run":
			case "watch":
				return watchHandler(ctx, raw)
			default:
				return Errorf("Invalid arguments: updateMode must be \"run\" or \"watch\", got %q", args.UpdateMode)
			}
			files, err := normalizeTestFiles(args.TestFiles)
			if err != nil {
				return Errorf("Invalid arguments: %v", err)
			}

			runMu.Lock()
			defer runMu.Unlock()

			results, err := run.Execute(ctx, files, true)
			if err != nil {
				if errors.Is(err, orchestrate.ErrRunnerStart) {
					return Errorf("Failed to start test run: %v", err)
				}
				return Errorf("Test run failed: %v", err)
			}

			data, err := json.MarshalIndent(results, "", "  ")
			if err != nil {
				return Errorf("Failed to encode results: %v", err)
			}
			return Response{Text: string(data)}
		},
	})

	d.Register(Tool{
		Name:        "watch_tests",
		Description: "Start watch mode: run the project's tests and keep re-running them when files change. Returns an acknowledgement, not test results.",
		InputSchema: []byte(watchSchema),
		Handler:     watchHandler,
	})

	return d
}

func parseArgs(raw json.RawMessage) (runArgs, error) {
	var args runArgs
	if len(raw) == 0 {
		return args, nil
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return args, fmt.Errorf("arguments must be a JSON object: %v", err)
	}
	return args, nil
}

// normalizeTestFiles accepts a single string, an array of strings, or
// nothing at all. Absent or empty means "no filter".
func normalizeTestFiles(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		if val == "" {
			return nil, nil
		}
		return []string{val}, nil
	case []any:
		files := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("testFiles must contain only strings, got %T", item)
			}
			files = append(files, s)
		}
		return files, nil
	default:
		return nil, fmt.Errorf("testFiles must be a string or an array of strings, got %T", v)
	}
}
