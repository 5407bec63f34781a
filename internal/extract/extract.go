package extract

import (
	"ptb/internal/domain"
	"ptb/internal/runner"
)

// FallbackFailureMessage is reported when a runner flags a case as failed
// without supplying any detail.
const FallbackFailureMessage = "test failed (no failure detail reported)"

// Extract walks the given root entities depth-first and returns one record
// per case leaf, in pre-order (declaration) order. Collection nodes emit
// nothing themselves. The function is pure and total: malformed nodes
// degrade to best-effort records rather than failing the extraction.
func Extract(roots []*runner.Entity) []domain.TestCaseResult {
	results := make([]domain.TestCaseResult, 0)
	for _, root := range roots {
		results = appendResults(results, root)
	}
	return results
}

func appendResults(results []domain.TestCaseResult, e *runner.Entity) []domain.TestCaseResult {
	if e == nil {
		return results
	}
	if Classify(e) == KindCollection {
		for _, child := range e.Children {
			results = appendResults(results, child)
		}
		return results
	}
	return append(results, caseResult(e))
}

func caseResult(e *runner.Entity) domain.TestCaseResult {
	status := e.Status
	if status == "" {
		// Never-finalized node, classified as a case conservatively.
		status = domain.StatusPending
	}

	r := domain.TestCaseResult{Name: e.Name, Status: status}
	if status != domain.StatusFailed {
		return r
	}

	info := domain.ErrorInfo{Message: FallbackFailureMessage}
	if e.Error != nil {
		if e.Error.Message != "" {
			info.Message = e.Error.Message
		}
		info.Stack = e.Error.Stack
	}
	r.Error = &info
	return r
}
