package main

import (
	"fmt"
	"os"

	"ptb/internal/cli"
	"ptb/internal/cli/commands"
	"ptb/internal/server"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:     "ptb",
		Short:   "PHPUnit test bridge for tool-calling clients",
		Long:    `A bridge between tool-calling clients and PHPUnit projects. Exposes run_tests and watch_tests tools over stdio or HTTP, and doubles as a standalone parallel test runner.`,
		Version: version,
	}
	server.Version = version

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands and register them
	cmds := commands.NewCommands(&flags)
	cmds.Register(rootCmd, &flags)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
