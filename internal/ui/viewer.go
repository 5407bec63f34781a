package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"ptb/internal/domain"
)

// FailureViewer displays the failed cases of a run in an interactive TUI.
type FailureViewer struct{}

// NewFailureViewer creates a new FailureViewer
func NewFailureViewer() *FailureViewer {
	return &FailureViewer{}
}

// View opens the viewer over a run's failures. Returns immediately when the
// run has none.
func (v *FailureViewer) View(output *domain.TestRunOutput) error {
	var failures []domain.TestCaseResult
	for _, r := range output.Results {
		if r.Status == domain.StatusFailed {
			failures = append(failures, r)
		}
	}
	if len(failures) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)
	list.SetBorder(true).SetTitle(fmt.Sprintf(" Failures (%d) ", len(failures)))

	details := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)
	details.SetBorder(true).SetTitle(" Detail ")

	renderDetail := func(index int) {
		if index < 0 || index >= len(failures) {
			return
		}
		f := failures[index]
		var b strings.Builder
		fmt.Fprintf(&b, "[red]✗ %s[white]\n\n", tview.Escape(f.Name))
		if f.Error != nil {
			fmt.Fprintf(&b, "%s\n", tview.Escape(f.Error.Message))
			if f.Error.Stack != "" {
				b.WriteString("\n[gray]")
				b.WriteString(tview.Escape(f.Error.Stack))
				b.WriteString("[white]\n")
			}
		}
		details.SetText(b.String())
		details.ScrollToBeginning()
	}

	for i, f := range failures {
		list.AddItem(fmt.Sprintf("[yellow]%d.[white] %s", i+1, tview.Escape(f.Name)), "", 0, nil)
	}
	list.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		renderDetail(index)
	})
	renderDetail(0)

	layout := tview.NewFlex().
		AddItem(list, 0, 1, true).
		AddItem(details, 0, 2, false)

	frame := tview.NewFrame(layout).
		SetBorders(0, 0, 0, 1, 0, 0).
		AddText("↑/↓ select   q quit", false, tview.AlignCenter, tcell.ColorGray)

	app.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if ev.Rune() == 'q' || ev.Key() == tcell.KeyEscape {
			app.Stop()
			return nil
		}
		return ev
	})

	return app.SetRoot(frame, true).Run()
}
