package domain

import "time"

// Status is the terminal outcome a runner reports for a single test case.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	// StatusPending is synthesized for cases the runner never finalized
	// (e.g. the process died before a verdict was recorded).
	StatusPending Status = "pending"
)

// ErrorInfo carries the failure detail reported for a failed test case.
type ErrorInfo struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// TestCaseResult is one flattened test-case outcome. Error is set only when
// Status is StatusFailed.
type TestCaseResult struct {
	Name   string     `json:"name"`
	Status Status     `json:"status"`
	Error  *ErrorInfo `json:"error,omitempty"`
}

// FileResult represents the raw outcome of executing one test file
type FileResult struct {
	TestPath string        // Path to the test file that was executed
	Success  bool          // Whether the phpunit process exited cleanly
	Output   string        // Raw output from PHPUnit
	Err      error         // Error if execution itself failed
	Duration time.Duration // Time taken to execute
}

// TestRunMeta contains metadata about a test run
type TestRunMeta struct {
	TotalTestFiles  int     `json:"total_test_files"`
	TotalTestCases  int     `json:"total_test_cases"`
	PassedTestCases int     `json:"passed_test_cases"`
	FailedTestCases int     `json:"failed_test_cases"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Workers         int     `json:"workers"`
	Timestamp       string  `json:"timestamp"`
}

// TestRunOutput is the complete persisted shape of one run
type TestRunOutput struct {
	Meta    TestRunMeta      `json:"meta"`
	Results []TestCaseResult `json:"results"`
}
