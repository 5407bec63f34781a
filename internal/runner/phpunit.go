package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"ptb/internal/config"
	"ptb/internal/discovery"
	"ptb/internal/domain"
	"ptb/internal/parser"
)

// PHPUnitStarter starts sessions that execute PHPUnit test files in
// parallel worker processes.
type PHPUnitStarter struct {
	cfg       *config.Config
	scanner   *discovery.Scanner
	filter    *discovery.Filter
	srcParser *discovery.Parser
	outParser *parser.PHPUnitParser
	progress  func(totalFiles int) Progress
}

// NewPHPUnitStarter creates a Starter for the given application config.
func NewPHPUnitStarter(cfg *config.Config) *PHPUnitStarter {
	return &PHPUnitStarter{
		cfg:       cfg,
		scanner:   discovery.NewScanner(cfg.PathsToIgnore),
		filter:    discovery.NewFilter(),
		srcParser: discovery.NewParser(),
		outParser: parser.NewPHPUnitParser(),
	}
}

// SetProgressFactory attaches a progress reporter to sessions started
// later, sized to each session's file count. Sessions that suppress output
// never report progress.
func (s *PHPUnitStarter) SetProgressFactory(f func(totalFiles int) Progress) {
	s.progress = f
}

// Start discovers the session's test files and returns a ready session.
// An empty file set is not an error; the session will simply report no
// entities.
func (s *PHPUnitStarter) Start(ctx context.Context, rc Config) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	files, err := s.scanner.Scan(s.cfg.GetTestPath())
	if err != nil {
		return nil, fmt.Errorf("discover tests: %w", err)
	}
	files = s.filter.FilterByPatterns(files, rc.IncludeFiles)
	files = s.filter.FilterByName(files, s.cfg.Flags.NameFilter)

	sess := &phpunitSession{
		cfg:       s.cfg,
		runCfg:    rc,
		srcParser: s.srcParser,
		outParser: s.outParser,
		abs:       make(map[string]string, len(files)),
		entities:  make(map[string]*Entity, len(files)),
		closed:    make(chan struct{}),
	}
	for _, f := range files {
		rel := relPath(rc.RootPath, f)
		sess.files = append(sess.files, rel)
		sess.abs[rel] = f
	}
	if s.progress != nil && !rc.SuppressOutput {
		sess.progress = s.progress(len(sess.files))
	}
	if rc.Watch {
		sess.updates = make(chan Update, 16)
	}
	return sess, nil
}

type phpunitSession struct {
	cfg       *config.Config
	runCfg    Config
	srcParser *discovery.Parser
	outParser *parser.PHPUnitParser
	progress  Progress

	files []string          // project-relative, discovery order
	abs   map[string]string // relative -> absolute

	mu       sync.RWMutex
	entities map[string]*Entity

	updates   chan Update
	closeOnce sync.Once
	closed    chan struct{}
}

func (s *phpunitSession) Files() []string {
	out := make([]string, len(s.files))
	copy(out, s.files)
	return out
}

func (s *phpunitSession) Entity(file string) *Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entities[file]
}

func (s *phpunitSession) Updates() <-chan Update {
	if s.updates == nil {
		return nil
	}
	return s.updates
}

// Execute runs the plan. Run mode returns once all files have executed;
// watch mode blocks until ctx is cancelled or Close is called.
func (s *phpunitSession) Execute(ctx context.Context) error {
	if !s.runCfg.Watch {
		return s.runFiles(ctx, s.files)
	}
	return s.watch(ctx)
}

func (s *phpunitSession) Close() error {
	s.closeOnce.Do(func() {
		if s.closed != nil {
			close(s.closed)
		}
	})
	return nil
}

// runFiles executes the given files on a worker pool and stores one entity
// tree per file.
func (s *phpunitSession) runFiles(ctx context.Context, files []string) error {
	if len(files) == 0 {
		return nil
	}

	queue := make(chan string, len(files))
	for _, f := range files {
		queue <- f
	}
	close(queue)

	workerCount := s.cfg.Workers
	if workerCount <= 0 {
		workerCount = 1
	}

	var mu sync.Mutex
	var completed, passed, failed int

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rel := range queue {
				if ctx.Err() != nil {
					return
				}
				res := s.runOne(ctx, rel)
				root, counts := s.buildEntity(rel, res)

				s.mu.Lock()
				s.entities[rel] = root
				s.mu.Unlock()

				mu.Lock()
				completed++
				passed += counts.Total - counts.Failed - counts.Skipped
				failed += counts.Failed
				if s.progress != nil {
					s.progress.Update(completed, passed, failed)
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if s.progress != nil {
		s.progress.Finish()
	}
	return ctx.Err()
}

// runOne executes PHPUnit for a single test file
func (s *phpunitSession) runOne(ctx context.Context, rel string) domain.FileResult {
	abs := s.abs[rel]
	cmd := exec.CommandContext(ctx, s.cfg.GetPHPUnitPath(), abs)
	cmd.Env = os.Environ()
	cmd.Dir = s.runCfg.RootPath

	start := time.Now()
	output, err := cmd.CombinedOutput()

	return domain.FileResult{
		TestPath: rel,
		Success:  err == nil,
		Output:   string(output),
		Err:      err,
		Duration: time.Since(start),
	}
}

func relPath(root, abs string) string {
	if rel, err := filepath.Rel(root, abs); err == nil {
		return rel
	}
	return abs
}
