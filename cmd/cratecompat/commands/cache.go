package commands

import (
	"github.com/spf13/cobra"

	"github.com/cratecompat/cratecompat/cache"
	"github.com/cratecompat/cratecompat/cmd/cratecompat/output"
)

// NewCacheCommand creates the cache command group.
func NewCacheCommand(console *output.Console) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the registry response cache",
	}

	cmd.AddCommand(newCacheDirCommand(console))
	cmd.AddCommand(newCacheClearCommand(console))

	return cmd
}

func newCacheDirCommand(console *output.Console) *cobra.Command {
	return &cobra.Command{
		Use:   "dir",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cache.DefaultDir()
			if err != nil {
				return err
			}
			console.Println(dir)
			return nil
		},
	}
}

func newCacheClearCommand(console *output.Console) *cobra.Command {
	var cacheDir string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached registry response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheClear(console, cacheDir)
		},
	}

	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Response cache directory (default: the per-user cache dir)")

	return cmd
}

func runCacheClear(console *output.Console, cacheDir string) error {
	if cacheDir == "" {
		var err error
		cacheDir, err = cache.DefaultDir()
		if err != nil {
			return err
		}
	}

	dc, err := cache.NewDiskCache(cacheDir)
	if err != nil {
		return err
	}
	if err := dc.Clear(); err != nil {
		return err
	}

	console.Success("Cleared the response cache at %s", cacheDir)
	return nil
}
