package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cratecompat/cratecompat/cache"
	"github.com/cratecompat/cratecompat/cmd/cratecompat/cli"
	"github.com/cratecompat/cratecompat/cmd/cratecompat/output"
	"github.com/cratecompat/cratecompat/crateshttp"
	"github.com/cratecompat/cratecompat/registry"
)

const (
	formatConsole = "console"
	formatJSON    = "json"
)

func validateFormat(format string) error {
	if format != formatConsole && format != formatJSON {
		return fmt.Errorf("unsupported format %q (expected console or json)", format)
	}
	return nil
}

// providerOptions are the registry and cache flags shared by every
// command that talks to the registry.
type providerOptions struct {
	registryURL string
	cacheDir    string
	noCache     bool
}

func (o *providerOptions) bindProviderFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.registryURL, "registry", "", "Registry API base URL (default https://crates.io, or $CRATECOMPAT_REGISTRY)")
	cmd.Flags().StringVar(&o.cacheDir, "cache-dir", "", "Response cache directory (default: the per-user cache dir)")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "Skip cache reads; fresh responses are still cached")
}

// buildProvider assembles the caching registry provider from the flags.
// Cache trouble degrades to uncached operation with a warning instead of
// failing the run.
func buildProvider(console *output.Console, opts *providerOptions) (*registry.CachingProvider, error) {
	baseURL := opts.registryURL
	if baseURL == "" {
		baseURL = os.Getenv("CRATECOMPAT_REGISTRY")
	}

	httpClient := crateshttp.NewClientWithOptions(
		crateshttp.WithLogger(cli.Logger),
		crateshttp.WithUserAgent(userAgent()),
	)
	api := registry.NewAPIClient(baseURL, httpClient, cli.Logger)

	cacheDir := opts.cacheDir
	if cacheDir == "" {
		var err error
		cacheDir, err = cache.DefaultDir()
		if err != nil {
			console.Warning("Could not locate the cache directory: %v; continuing without caching", err)
			cacheDir = ""
		}
	}

	var diskCache *cache.DiskCache
	if cacheDir != "" {
		var err error
		diskCache, err = cache.NewDiskCache(cacheDir)
		if err != nil {
			console.Warning("Could not create the cache at %s: %v; continuing without caching", cacheDir, err)
			diskCache = nil
		}
	}

	cacheCtx := cache.NewSourceCacheContext()
	cacheCtx.NoCache = opts.noCache

	return registry.NewCachingProvider(api, diskCache, cacheCtx, cli.Logger)
}

// userAgent identifies the tool per the crates.io crawler policy.
func userAgent() string {
	return fmt.Sprintf("cratecompat/%s (https://github.com/cratecompat/cratecompat)", cli.GetVersion())
}
