package config

import "time"

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultTestPath is the default test path relative to the project root
	DefaultTestPath = "tests"
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "test-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = "storage"
	// DefaultWorkers is the default number of parallel workers
	DefaultWorkers = 4
	// DefaultRunTimeout bounds a single run invocation end to end
	DefaultRunTimeout = 10 * time.Minute
	// DefaultListen is the default HTTP listen address for serve mode
	DefaultListen = ":8045"
)

// DefaultPathsToIgnore are the default directories to ignore when scanning for tests
var DefaultPathsToIgnore = []string{
	"vendor",
	"node_modules",
	"public",
	"storage",
	"bootstrap",
	"config",
	"database",
	"resources",
	"routes",
}
