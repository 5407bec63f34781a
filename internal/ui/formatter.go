package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"ptb/internal/domain"
)

// Formatter renders run summaries on the terminal.
type Formatter struct{}

// NewFormatter creates a new Formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// PrintSummary displays a run's statistics and its failures, if any.
func (f *Formatter) PrintSummary(output *domain.TestRunOutput) {
	meta := output.Meta

	fmt.Println()
	color.Cyan("╔═══════════════════════════════════════════════════════════════╗")
	color.Cyan("║                    Test Execution Statistics                  ║")
	color.Cyan("╚═══════════════════════════════════════════════════════════════╝")
	fmt.Println()

	f.row("Test Files", fmt.Sprintf("%d", meta.TotalTestFiles), color.New(color.FgWhite))
	f.row("Test Cases", fmt.Sprintf("%d", meta.TotalTestCases), color.New(color.FgWhite))
	f.row("Passed", fmt.Sprintf("%d", meta.PassedTestCases), color.New(color.FgGreen))
	f.row("Failed", fmt.Sprintf("%d", meta.FailedTestCases), color.New(color.FgRed))
	f.row("Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds), color.New(color.FgWhite))
	f.row("Workers", fmt.Sprintf("%d", meta.Workers), color.New(color.FgWhite))

	fmt.Println()
	if meta.FailedTestCases == 0 {
		color.Green("✓ All tests passed!")
		return
	}

	color.Red("✗ %d test case(s) failed", meta.FailedTestCases)
	fmt.Println()
	f.printFailures(output.Results)
}

func (f *Formatter) row(label, value string, c *color.Color) {
	fmt.Printf("  %-16s ", label)
	c.Printf("%s\n", value)
}

func (f *Formatter) printFailures(results []domain.TestCaseResult) {
	for _, r := range results {
		if r.Status != domain.StatusFailed {
			continue
		}
		color.Red("  ✗ %s", r.Name)
		if r.Error == nil {
			continue
		}
		for _, line := range strings.Split(r.Error.Message, "\n") {
			fmt.Printf("      %s\n", line)
		}
		if r.Error.Stack != "" {
			for _, frame := range strings.Split(r.Error.Stack, "\n") {
				color.New(color.FgHiBlack).Printf("      %s\n", frame)
			}
		}
	}
}

// PrintWatchRun displays one watch-mode re-run result line per case.
func (f *Formatter) PrintWatchRun(trigger string, results []domain.TestCaseResult) {
	fmt.Println()
	if trigger == "" {
		color.Cyan("Initial run complete (%d cases)", len(results))
	} else {
		color.Cyan("Re-ran after change to %s (%d cases)", trigger, len(results))
	}
	for _, r := range results {
		switch r.Status {
		case domain.StatusPassed:
			color.Green("  ✓ %s", r.Name)
		case domain.StatusFailed:
			color.Red("  ✗ %s", r.Name)
			if r.Error != nil {
				fmt.Printf("      %s\n", strings.SplitN(r.Error.Message, "\n", 2)[0])
			}
		default:
			color.Yellow("  - %s (%s)", r.Name, r.Status)
		}
	}
}
