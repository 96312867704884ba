package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cratecompat/cratecompat/cmd/cratecompat/output"
	"github.com/cratecompat/cratecompat/observability"
)

var rootCmd = &cobra.Command{
	Use:   "cratecompat",
	Short: "Find crates.io versions compatible with a Cargo.lock",
	Long: `cratecompat inspects a Cargo.lock snapshot and reports which published
versions of a crate satisfy every package that depends on it.

Complete documentation is available at https://github.com/cratecompat/cratecompat`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		// Show help when no command is provided
		_ = cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return applyRootFlags(cmd)
	},
}

// Console is the global console for CLI commands
var Console *output.Console

// Logger is the global structured logger; its level follows --verbosity.
var Logger observability.Logger

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	Console = output.DefaultConsole()
	Logger = observability.NewDefaultLogger()

	rootCmd.PersistentFlags().String("verbosity", "normal", "Output verbosity (quiet, normal, detailed, diagnostic)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
}

// applyRootFlags propagates the persistent flags into the console and the
// logger before any subcommand runs.
func applyRootFlags(cmd *cobra.Command) error {
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		Console.SetColors(false)
	}

	name, _ := cmd.Flags().GetString("verbosity")
	verbosity, level, err := parseVerbosity(name)
	if err != nil {
		return err
	}
	Console.SetVerbosity(verbosity)
	Logger = observability.NewLogger(os.Stderr, level)
	return nil
}

// parseVerbosity maps a --verbosity value onto the console level and the
// matching logger level. Single-letter shorthands are accepted.
func parseVerbosity(name string) (output.Verbosity, observability.LogLevel, error) {
	switch name {
	case "q", "quiet":
		return output.VerbosityQuiet, observability.ErrorLevel, nil
	case "n", "normal":
		return output.VerbosityNormal, observability.WarnLevel, nil
	case "d", "detailed":
		return output.VerbosityDetailed, observability.InfoLevel, nil
	case "diag", "diagnostic":
		return output.VerbosityDiagnostic, observability.VerboseLevel, nil
	}
	return 0, 0, fmt.Errorf("invalid verbosity %q (expected quiet, normal, detailed, or diagnostic)", name)
}

// SetupVersion configures version information after variables are set
func SetupVersion() {
	rootCmd.SetVersionTemplate(GetFullVersion() + "\n")
	rootCmd.Version = GetVersion()
}

// AddCommand adds a command to the root command
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}
