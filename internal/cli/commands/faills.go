package commands

import (
	"fmt"

	"ptb/internal/cli"
	"ptb/internal/ui"

	"github.com/spf13/cobra"
)

// FaillsCommand handles the faills command
type FaillsCommand struct {
	flags *cli.Flags
}

// NewFaillsCommand creates a new FaillsCommand
func NewFaillsCommand(flags *cli.Flags) *FaillsCommand {
	return &FaillsCommand{flags: flags}
}

// Execute opens the interactive failure viewer over the last saved run.
func (fc *FaillsCommand) Execute(cmd *cobra.Command, args []string) error {
	d, err := buildDeps(args[0], fc.flags)
	if err != nil {
		return err
	}

	output, err := d.store.Load()
	if err != nil {
		return fmt.Errorf("load last run results (run 'ptb run' first): %w", err)
	}
	return ui.NewFailureViewer().View(output)
}
