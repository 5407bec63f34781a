package parser

import (
	"fmt"
	"regexp"
	"strings"

	"ptb/internal/domain"
)

// PHPUnitParser parses PHPUnit test output
type PHPUnitParser struct{}

// NewPHPUnitParser creates a new PHPUnitParser
func NewPHPUnitParser() *PHPUnitParser {
	return &PHPUnitParser{}
}

var (
	okPattern      = regexp.MustCompile(`OK\s*\(\s*(\d+)\s+tests?`)
	testsPattern   = regexp.MustCompile(`Tests:\s*(\d+)`)
	failPattern    = regexp.MustCompile(`Failures:\s*(\d+)`)
	errPattern     = regexp.MustCompile(`Errors:\s*(\d+)`)
	skipPattern    = regexp.MustCompile(`Skipped:\s*(\d+)`)
	// Failure list entries look like:
	//   1) Tests\Unit\PaymentTest::testChargeSucceeds
	failureHeader = regexp.MustCompile(`^\d+\)\s+(\S+)::(\w+)`)
	stackFrame    = regexp.MustCompile(`^(/\S+\.php):(\d+)$`)
)

// Counts summarizes per-file case counts parsed from PHPUnit's summary line.
type Counts struct {
	Total   int
	Failed  int
	Skipped int
	// Parsed is false when no recognizable summary was found and the
	// counts are a file-granularity fallback.
	Parsed bool
}

// ParseCounts extracts test case counts from PHPUnit output. When the output
// carries no recognizable summary, the file itself counts as a single case
// that passed or failed with the process.
func (p *PHPUnitParser) ParseCounts(result domain.FileResult) Counts {
	output := result.Output

	if m := okPattern.FindStringSubmatch(output); len(m) >= 2 {
		var total int
		fmt.Sscanf(m[1], "%d", &total)
		return Counts{Total: total, Parsed: true}
	}

	var c Counts
	if m := testsPattern.FindStringSubmatch(output); len(m) >= 2 {
		fmt.Sscanf(m[1], "%d", &c.Total)
	}
	var failures, errors int
	if m := failPattern.FindStringSubmatch(output); len(m) >= 2 {
		fmt.Sscanf(m[1], "%d", &failures)
	}
	if m := errPattern.FindStringSubmatch(output); len(m) >= 2 {
		fmt.Sscanf(m[1], "%d", &errors)
	}
	if m := skipPattern.FindStringSubmatch(output); len(m) >= 2 {
		fmt.Sscanf(m[1], "%d", &c.Skipped)
	}
	c.Failed = failures + errors

	if c.Total > 0 || c.Failed > 0 {
		c.Parsed = true
		return c
	}

	// Fallback: one "case" per file
	if result.Success {
		return Counts{Total: 1}
	}
	return Counts{Total: 1, Failed: 1}
}

// ParseFailures parses the failure list from PHPUnit output into one record
// per failed test case.
func (p *PHPUnitParser) ParseFailures(result domain.FileResult) []domain.TestFailure {
	var failures []domain.TestFailure
	lines := strings.Split(result.Output, "\n")

	for i := 0; i < len(lines); i++ {
		m := failureHeader.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if m == nil {
			continue
		}
		failure := domain.TestFailure{
			TestName: m[2],
			FilePath: result.TestPath,
		}
		i = p.parseFailureBody(lines, i+1, &failure)
		failures = append(failures, failure)
	}

	return failures
}

// parseFailureBody consumes message and stack lines following a failure
// header and returns the index of the last consumed line.
func (p *PHPUnitParser) parseFailureBody(lines []string, start int, failure *domain.TestFailure) int {
	var messageLines []string
	var stack []string
	last := start - 1

	for j := start; j < len(lines); j++ {
		trimmed := strings.TrimSpace(lines[j])

		// Next failure entry or the trailing summary ends this one
		if failureHeader.MatchString(trimmed) {
			break
		}
		if testsPattern.MatchString(trimmed) || strings.HasPrefix(trimmed, "FAILURES!") || strings.HasPrefix(trimmed, "ERRORS!") {
			last = j
			break
		}

		last = j
		if stackFrame.MatchString(trimmed) {
			stack = append(stack, trimmed)
			continue
		}
		if len(messageLines) == 0 && trimmed == "" {
			continue
		}
		if len(stack) == 0 {
			messageLines = append(messageLines, lines[j])
		}
	}

	for len(messageLines) > 0 && strings.TrimSpace(messageLines[len(messageLines)-1]) == "" {
		messageLines = messageLines[:len(messageLines)-1]
	}
	failure.Message = strings.Join(messageLines, "\n")
	failure.StackTrace = stack
	return last
}
