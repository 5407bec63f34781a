package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	TestPath    string

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string

	// Execution settings
	Workers    int
	RunTimeout time.Duration

	// Server settings
	Listen string

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	Workers    int
	TestPath   string
	NameFilter string
	Listen     string
	Quiet      bool
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:    DefaultProjectPath,
		TestPath:       DefaultTestPath,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		Workers:        DefaultWorkers,
		RunTimeout:     DefaultRunTimeout,
		Listen:         DefaultListen,
		Flags:          Flags{Workers: DefaultWorkers},
	}
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load creates a config for the given project directory, applying .env
// overrides from the project root and then flag overrides on top.
func Load(projectDir string, flags Flags) (*Config, error) {
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("resolve project path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("project directory does not exist: %s", abs)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project path is not a directory: %s", abs)
	}

	cfg := New()
	cfg.ProjectPath = abs
	cfg.Flags = flags

	// .env in the project root is optional
	_ = godotenv.Load(filepath.Join(abs, ".env"))
	cfg.applyEnv()

	if flags.Workers > 0 {
		cfg.Workers = flags.Workers
	}
	if flags.Listen != "" {
		cfg.Listen = flags.Listen
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PTB_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Workers = n
		}
	}
	if v := os.Getenv("PTB_TEST_PATH"); v != "" {
		c.TestPath = v
	}
	if v := os.Getenv("PTB_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("PTB_RUN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.RunTimeout = d
		}
	}
}

// GetTestPath returns the test path, using flag if provided
func (c *Config) GetTestPath() string {
	if c.Flags.TestPath != "" {
		if filepath.IsAbs(c.Flags.TestPath) {
			return c.Flags.TestPath
		}
		return filepath.Join(c.ProjectPath, c.Flags.TestPath)
	}
	return filepath.Join(c.ProjectPath, c.TestPath)
}

// GetOutputPath returns the full path to the output JSON file (under project so run and faills use the same file).
// Resolves to an absolute path so run and faills always read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetPHPUnitPath returns the path to the PHPUnit binary
func (c *Config) GetPHPUnitPath() string {
	if v := os.Getenv("PTB_PHPUNIT"); v != "" {
		if filepath.IsAbs(v) {
			return v
		}
		return filepath.Join(c.ProjectPath, v)
	}
	return filepath.Join(c.ProjectPath, "vendor", "bin", "phpunit")
}
