package runner

import (
	"path/filepath"
	"strings"

	"ptb/internal/discovery"
	"ptb/internal/domain"
	"ptb/internal/parser"
)

// buildEntity converts one file's execution outcome into its reported
// entity tree: file collection -> class collection -> case nodes. Case
// nodes come from a source scan so that passing cases are named too, in
// declaration order; the output parse contributes statuses and failure
// detail.
func (s *phpunitSession) buildEntity(rel string, res domain.FileResult) (*Entity, parser.Counts) {
	counts := s.outParser.ParseCounts(res)
	failures := s.outParser.ParseFailures(res)

	failedByName := make(map[string]*domain.TestFailure, len(failures))
	for i := range failures {
		failedByName[failures[i].TestName] = &failures[i]
	}

	class, err := s.srcParser.ParseFile(s.abs[rel])
	if err != nil || class == nil {
		class = &discovery.TestClass{}
	}
	className := class.Name
	if className == "" {
		className = strings.TrimSuffix(filepath.Base(rel), ".php")
	}

	// A dead process with no parseable output means no case ever settled.
	// Those cases stay status-less; classification downgrades them later.
	settled := counts.Parsed || res.Success

	suite := NewCollection(className)
	for _, name := range class.Cases {
		suite.Children = append(suite.Children, s.caseNode(name, failedByName, settled))
	}

	// Failures reported for cases the source scan did not find (data
	// providers, generated names) still get a node each.
	known := make(map[string]bool, len(class.Cases))
	for _, name := range class.Cases {
		known[name] = true
	}
	for i := range failures {
		if !known[failures[i].TestName] {
			suite.Children = append(suite.Children, failureNode(&failures[i]))
		}
	}

	return NewCollection(rel, suite), counts
}

func (s *phpunitSession) caseNode(name string, failed map[string]*domain.TestFailure, settled bool) *Entity {
	if f, ok := failed[name]; ok {
		return failureNode(f)
	}
	if !settled {
		return &Entity{Name: name}
	}
	return NewCase(name, domain.StatusPassed, nil)
}

func failureNode(f *domain.TestFailure) *Entity {
	info := &domain.ErrorInfo{
		Message: f.Message,
		Stack:   strings.Join(f.StackTrace, "\n"),
	}
	return NewCase(f.TestName, domain.StatusFailed, info)
}
