package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cratecompat/cratecompat/cmd/cratecompat/cli"
	"github.com/cratecompat/cratecompat/cmd/cratecompat/commands"
)

// Version information (set via ldflags during build)
var (
	version = "0.0.0-dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date
	cli.BuiltBy = builtBy
	cli.SetupVersion()

	cli.AddCommand(commands.NewCompatCommand(cli.Console))
	cli.AddCommand(commands.NewVersionsCommand(cli.Console))
	cli.AddCommand(commands.NewCacheCommand(cli.Console))
	cli.AddCommand(commands.NewVersionCommand(cli.Console))

	// Handle signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		os.Exit(130) // 128 + SIGINT
	}()

	// SilenceErrors is set on the root command, so the error prints here
	// exactly once.
	if err := cli.Execute(); err != nil {
		cli.Console.Error("%v", err)
		if hint := commands.ErrorHint(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(1)
	}
}
