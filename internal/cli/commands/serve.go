package commands

import (
	"ptb/internal/cli"
	"ptb/internal/server"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ServeCommand handles the serve command
type ServeCommand struct {
	flags *cli.Flags
}

// NewServeCommand creates a new ServeCommand
func NewServeCommand(flags *cli.Flags) *ServeCommand {
	return &ServeCommand{flags: flags}
}

// Execute runs the HTTP server until it fails or the process is killed.
func (sc *ServeCommand) Execute(cmd *cobra.Command, args []string) error {
	d, err := buildDeps(args[0], sc.flags)
	if err != nil {
		return err
	}

	color.Cyan("Serving tools for %s on %s", d.cfg.ProjectPath, d.cfg.Listen)
	srv := server.NewHTTPServer(d.dispatcher, d.bus)
	return srv.ListenAndServe(d.cfg.Listen)
}
