package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/cratecompat/cratecompat/cmd/cratecompat/output"
	"github.com/cratecompat/cratecompat/compat"
)

type versionsOptions struct {
	providerOptions
	format string
}

// NewVersionsCommand creates the versions command.
func NewVersionsCommand(console *output.Console) *cobra.Command {
	opts := &versionsOptions{}

	cmd := &cobra.Command{
		Use:   "versions <CRATE>",
		Short: "List the published versions of a crate",
		Long: `Lists every published version of a crate, newest first, marking yanked
releases.

Examples:
  cratecompat versions serde
  cratecompat versions serde --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersions(cmd.Context(), console, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "console", "Output format: console or json")
	opts.bindProviderFlags(cmd)

	return cmd
}

func runVersions(ctx context.Context, console *output.Console, crate string, opts *versionsOptions) error {
	if err := validateFormat(opts.format); err != nil {
		return err
	}
	provider, err := buildProvider(console, &opts.providerOptions)
	if err != nil {
		return err
	}
	return executeVersions(ctx, console, provider, crate, opts)
}

func executeVersions(ctx context.Context, console *output.Console, provider compat.Provider, crate string, opts *versionsOptions) error {
	start := time.Now()

	published, err := provider.PublishedVersions(ctx, crate)
	if err != nil {
		return err
	}

	if opts.format == formatJSON {
		out := output.NewVersionListOutput(crate, start)
		for i := len(published) - 1; i >= 0; i-- {
			pv := published[i]
			out.Versions = append(out.Versions, output.CrateVersion{
				Num:         pv.Num,
				RustVersion: pv.RustVersion,
				Yanked:      pv.Yanked,
			})
		}
		return output.WriteJSON(console.Out(), out)
	}

	console.Header("Published versions of %s:", crate)
	for i := len(published) - 1; i >= 0; i-- {
		pv := published[i]
		if pv.Yanked {
			console.Println(pv.Num + " (yanked)")
		} else {
			console.Println(pv.Num)
		}
	}
	return nil
}
