package commands

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cratecompat/cratecompat/cmd/cratecompat/cli"
	"github.com/cratecompat/cratecompat/cmd/cratecompat/output"
	"github.com/cratecompat/cratecompat/compat"
	"github.com/cratecompat/cratecompat/lockfile"
)

// countValue is the --count flag: "all" or a positive number. The zero
// limit means no cap.
type countValue struct {
	limit int
}

func (c *countValue) String() string {
	if c.limit <= 0 {
		return "all"
	}
	return strconv.Itoa(c.limit)
}

func (c *countValue) Set(s string) error {
	if strings.EqualFold(s, "all") {
		c.limit = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return errors.New(`expected "all" or a number`)
	}
	c.limit = n
	return nil
}

func (c *countValue) Type() string {
	return "count"
}

type compatOptions struct {
	providerOptions
	path          string
	includeYanked bool
	count         countValue
	maxRust       string
	format        string
}

// NewCompatCommand creates the compat command.
func NewCompatCommand(console *output.Console) *cobra.Command {
	opts := &compatOptions{count: countValue{limit: 5}}

	cmd := &cobra.Command{
		Use:   "compat <CRATE>",
		Short: "Show which published versions of a crate satisfy the lockfile",
		Long: `Computes the range of published versions of a crate that every package
in a Cargo.lock snapshot can agree on, then lists the releases inside it,
newest first.

Examples:
  cratecompat compat serde
  cratecompat compat serde -p backend/Cargo.lock
  cratecompat compat serde --count all
  cratecompat compat serde -m 1.70 --include-yanked
  cratecompat compat serde --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompat(cmd.Context(), console, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.path, "path", "p", "Cargo.lock", "Path to the Cargo.lock snapshot")
	cmd.Flags().BoolVarP(&opts.includeYanked, "include-yanked", "i", false, "Keep yanked releases in the result")
	cmd.Flags().VarP(&opts.count, "count", "c", `How many versions to list: "all" or a number`)
	cmd.Flags().StringVarP(&opts.maxRust, "max-rust-version", "m", "", "Drop releases whose MSRV exceeds this Rust version")
	cmd.Flags().StringVar(&opts.format, "format", "console", "Output format: console or json")
	opts.bindProviderFlags(cmd)

	return cmd
}

func runCompat(ctx context.Context, console *output.Console, crate string, opts *compatOptions) error {
	if err := validateFormat(opts.format); err != nil {
		return err
	}
	provider, err := buildProvider(console, &opts.providerOptions)
	if err != nil {
		return err
	}
	return executeCompat(ctx, console, provider, crate, opts)
}

func executeCompat(ctx context.Context, console *output.Console, provider compat.Provider, crate string, opts *compatOptions) error {
	start := time.Now()

	lf, err := lockfile.Load(opts.path)
	if err != nil {
		return err
	}

	finder := compat.NewFinder(provider, cli.Logger)
	report, err := finder.Find(ctx, lf, crate, compat.Options{
		IncludeYanked:  opts.includeYanked,
		MaxRustVersion: opts.maxRust,
		Count:          opts.count.limit,
	})
	if err != nil {
		return err
	}

	if opts.format == formatJSON {
		return writeCompatJSON(console, crate, report, start)
	}
	printCompatReport(console, report)
	return nil
}

func printCompatReport(console *output.Console, report *compat.Report) {
	console.Detail("Combined requirement across %d dependents: %s", len(report.Dependents), report.CombinedBound)
	for _, d := range report.Dependents {
		console.Detail("  %s %s requires %s", d.Name, d.Version, d.Requirement)
	}

	console.Header("Compatible versions found:")
	for _, v := range report.Versions {
		if v.Yanked {
			console.Println(v.Num + " (yanked)")
		} else {
			console.Println(v.Num)
		}
		if v.RustVersion != "" {
			console.Annotation("    min-rust-version = %s", v.RustVersion)
		}
	}

	if hidden := report.TotalMatching - len(report.Versions); hidden > 0 {
		console.Detail("...and %d more (rerun with --count all to list every match)", hidden)
	}
}

func writeCompatJSON(console *output.Console, crate string, report *compat.Report, start time.Time) error {
	out := output.NewCompatOutput(crate, report.CombinedBound, start)
	out.TotalMatching = report.TotalMatching
	for _, v := range report.Versions {
		out.Versions = append(out.Versions, output.CrateVersion(v))
	}
	return output.WriteJSON(console.Out(), out)
}
