package domain

// TestFailure represents a failed test case as parsed from runner output
type TestFailure struct {
	TestName   string   // Test method name
	FilePath   string   // Project-relative path to the test file
	Message    string   // Failure message lines joined with newlines
	StackTrace []string // File:line frames, most recent first
}
