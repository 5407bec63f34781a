package commands

import (
	"log"
	"os"

	"ptb/internal/cli"
	"ptb/internal/server"

	"github.com/spf13/cobra"
)

// StdioCommand handles the stdio command
type StdioCommand struct {
	flags *cli.Flags
}

// NewStdioCommand creates a new StdioCommand
func NewStdioCommand(flags *cli.Flags) *StdioCommand {
	return &StdioCommand{flags: flags}
}

// Execute serves the tool protocol over stdin/stdout. Stdout belongs to
// the protocol, so all logging goes to stderr.
func (sc *StdioCommand) Execute(cmd *cobra.Command, args []string) error {
	d, err := buildDeps(args[0], sc.flags)
	if err != nil {
		return err
	}

	log.SetOutput(os.Stderr)
	srv := server.NewStdioServer(d.dispatcher, os.Stdin, os.Stdout)
	return srv.Serve(cmd.Context())
}
