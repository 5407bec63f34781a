package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ptb/internal/cli"
	"ptb/internal/event"
	"ptb/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// WatchCommand handles the watch command
type WatchCommand struct {
	flags *cli.Flags
}

// NewWatchCommand creates a new WatchCommand
func NewWatchCommand(flags *cli.Flags) *WatchCommand {
	return &WatchCommand{flags: flags}
}

// Execute starts watch mode and prints each completed re-run until
// interrupted.
func (wc *WatchCommand) Execute(cmd *cobra.Command, args []string) error {
	d, err := buildDeps(args[0], wc.flags)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := d.bus.Subscribe()
	defer d.bus.Unsubscribe(events)

	if err := d.watch.Execute(ctx, nil); err != nil {
		return err
	}
	color.Cyan("Watching %s for changes. Press Ctrl+C to stop.", d.cfg.GetTestPath())

	formatter := ui.NewFormatter()
	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case evt := <-events:
			if evt.Type == event.RunFinished {
				formatter.PrintWatchRun(evt.Trigger, evt.Results)
			}
		}
	}
}
