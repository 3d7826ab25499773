package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Version is reported by `pullsheet version`.
const Version = "0.1.0"

var (
	cliStdout io.Writer = os.Stdout
	cliStderr io.Writer = os.Stderr
)

// Run executes the pullsheet CLI. It returns a process exit code.
func Run(args []string) int {
	root := buildRootCommand()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(cliStderr, "error:", err)
		return 1
	}
	return 0
}

func buildRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "pullsheet",
		Short: "Full-screen terminal sheets you can pull down to dismiss",
		Long: `pullsheet - a full-screen overlay for terminal apps with pull-to-dismiss

  pullsheet demo           Open the interactive demo
  pullsheet config         Print the effective configuration
  pullsheet version        Print the version

The config file is read from --config, $PULLSHEET_CONFIG, or
config.yaml in the user config directory. Any key can be overridden
with a PULLSHEET_ environment variable, e.g. PULLSHEET_GESTURE_VELOCITY_DAMPENING=8.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = Version
	root.SetOut(cliStdout)
	root.SetErr(cliStderr)
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().String("config", "", "config file (default: $PULLSHEET_CONFIG or <config dir>/pullsheet/config.yaml)")

	root.AddCommand(buildDemoCommand())
	root.AddCommand(buildConfigCommand())
	root.AddCommand(buildVersionCommand())
	return root
}

func buildVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "pullsheet", Version)
		},
	}
}
