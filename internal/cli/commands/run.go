package commands

import (
	"fmt"

	"ptb/internal/cli"
	"ptb/internal/runner"
	"ptb/internal/ui"

	"github.com/spf13/cobra"
)

// RunCommand handles the run command
type RunCommand struct {
	flags *cli.Flags
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(flags *cli.Flags) *RunCommand {
	return &RunCommand{flags: flags}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	d, err := buildDeps(args[0], rc.flags)
	if err != nil {
		return err
	}

	if !rc.flags.Quiet {
		d.starter.SetProgressFactory(func(total int) runner.Progress {
			return ui.NewProgressBar(total)
		})
	}

	if _, err := d.run.Execute(cmd.Context(), nil, rc.flags.Quiet); err != nil {
		return err
	}

	output, err := d.store.Load()
	if err != nil {
		return fmt.Errorf("load run results: %w", err)
	}
	ui.NewFormatter().PrintSummary(output)
	return nil
}
