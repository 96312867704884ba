// Package registry speaks the crates.io HTTP API. APIClient performs the
// raw endpoint calls; CachingProvider layers the disk cache, tracing, and
// metrics on top and is what the rest of the tool consumes.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cratecompat/cratecompat/crateshttp"
	"github.com/cratecompat/cratecompat/observability"
)

// DefaultRegistryURL is the public crates.io registry.
const DefaultRegistryURL = "https://crates.io"

// APIClient performs raw crates.io API calls.
type APIClient struct {
	baseURL string
	http    *crateshttp.Client
	logger  observability.Logger
}

// NewAPIClient creates a client for the registry at baseURL. An empty
// baseURL means crates.io.
func NewAPIClient(baseURL string, httpClient *crateshttp.Client, logger observability.Logger) *APIClient {
	if baseURL == "" {
		baseURL = DefaultRegistryURL
	}
	if httpClient == nil {
		httpClient = crateshttp.NewClient(nil)
	}
	if logger == nil {
		logger = observability.NewNullLogger()
	}

	return &APIClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

// BaseURL returns the registry base URL without a trailing slash.
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// Dependencies fetches the dependency list of one published crate version.
func (c *APIClient) Dependencies(ctx context.Context, crate, version string) ([]Dependency, error) {
	u := fmt.Sprintf("%s/api/v1/crates/%s/%s/dependencies",
		c.baseURL, url.PathEscape(crate), url.PathEscape(version))

	var payload dependenciesResponse
	if err := c.getJSON(ctx, u, &payload, func(status int) error {
		if status == http.StatusNotFound {
			return &VersionNotFoundError{Crate: crate, Version: version, Registry: c.baseURL}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return payload.Dependencies, nil
}

// Versions fetches every published version of a crate, in the order the
// registry returns them (newest first).
func (c *APIClient) Versions(ctx context.Context, crate string) ([]VersionInfo, error) {
	u := fmt.Sprintf("%s/api/v1/crates/%s", c.baseURL, url.PathEscape(crate))

	var payload crateResponse
	if err := c.getJSON(ctx, u, &payload, func(status int) error {
		if status == http.StatusNotFound {
			return &CrateNotFoundError{Crate: crate, Registry: c.baseURL}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return payload.Versions, nil
}

// getJSON performs a GET with retries and decodes the 200 response into
// out. notFound maps a status to a typed error; any other non-200 status
// becomes a StatusError.
func (c *APIClient) getJSON(ctx context.Context, u string, out any, notFound func(status int) error) error {
	resp, err := c.http.Get(ctx, u)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", u, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		if err := notFound(resp.StatusCode); err != nil {
			return err
		}
		return &StatusError{URL: u, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response from %s: %w", u, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", u, err)
	}

	return nil
}
