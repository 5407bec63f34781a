package commands

import (
	"ptb/internal/cli"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Run    *RunCommand
	Watch  *WatchCommand
	Stdio  *StdioCommand
	Serve  *ServeCommand
	Faills *FaillsCommand
}

// NewCommands creates all commands. Wiring against a concrete project
// happens per invocation, from the required positional argument.
func NewCommands(flags *cli.Flags) *Commands {
	return &Commands{
		Run:    NewRunCommand(flags),
		Watch:  NewWatchCommand(flags),
		Stdio:  NewStdioCommand(flags),
		Serve:  NewServeCommand(flags),
		Faills: NewFaillsCommand(flags),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags) {
	// Stdio command
	stdioCmd := &cobra.Command{
		Use:   "stdio <project-dir>",
		Short: "Serve test tools over stdin/stdout",
		Long:  "Expose the run_tests and watch_tests tools to a tool-calling client over a JSON-RPC stdio transport",
		Args:  cobra.ExactArgs(1),
		RunE:  c.Stdio.Execute,
	}
	stdioCmd.Flags().IntVarP(&flags.Workers, "workers", "p", 0, "Number of parallel PHPUnit workers")
	stdioCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test detection should start")
	rootCmd.AddCommand(stdioCmd)

	// Serve command
	serveCmd := &cobra.Command{
		Use:   "serve <project-dir>",
		Short: "Serve test tools over HTTP",
		Long:  "Expose the run_tests and watch_tests tools over HTTP, with watch-run events on a websocket",
		Args:  cobra.ExactArgs(1),
		RunE:  c.Serve.Execute,
	}
	serveCmd.Flags().IntVarP(&flags.Workers, "workers", "p", 0, "Number of parallel PHPUnit workers")
	serveCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test detection should start")
	serveCmd.Flags().StringVarP(&flags.Listen, "listen", "l", "", "Address to listen on (default :8045)")
	rootCmd.AddCommand(serveCmd)

	// Run command
	runCmd := &cobra.Command{
		Use:   "run <project-dir>",
		Short: "Run PHPUnit tests once",
		Long:  "Discover and execute the project's PHPUnit tests in parallel, then print a summary",
		Args:  cobra.ExactArgs(1),
		RunE:  c.Run.Execute,
	}
	runCmd.Flags().IntVarP(&flags.Workers, "workers", "p", 0, "Number of parallel PHPUnit workers")
	runCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test detection should start")
	runCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter tests by name pattern (supports wildcards, e.g., '*UserTest.php' or '*Payment*')")
	runCmd.Flags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress the progress bar")
	rootCmd.AddCommand(runCmd)

	// Watch command
	watchCmd := &cobra.Command{
		Use:   "watch <project-dir>",
		Short: "Re-run tests on file changes",
		Long:  "Run the project's PHPUnit tests and keep re-running them as test files change",
		Args:  cobra.ExactArgs(1),
		RunE:  c.Watch.Execute,
	}
	watchCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test detection should start")
	watchCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter tests by name pattern (supports wildcards, e.g., '*UserTest.php' or '*Payment*')")
	rootCmd.AddCommand(watchCmd)

	// Faills command
	faillsCmd := &cobra.Command{
		Use:   "faills <project-dir>",
		Short: "View test failures interactively",
		Long:  "Display test failures from the last test run in an interactive viewer",
		Args:  cobra.ExactArgs(1),
		RunE:  c.Faills.Execute,
	}
	rootCmd.AddCommand(faillsCmd)
}
