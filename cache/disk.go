// Package cache persists registry responses on disk so repeated runs
// against the same crates stay off the network. Entries are plain JSON
// files grouped per registry and expire by modification time.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

const (
	// hashLength is the number of SHA256 bytes kept when hashing a
	// registry URL into a folder name. Twenty bytes keeps paths short.
	hashLength = 20

	// bufferSize for file I/O operations.
	bufferSize = 8192

	// fileExtension for cache entries. Registry responses are JSON.
	fileExtension = ".json"
)

// DefaultMaxAge is how long a cached registry response stays valid.
// Dependency lists of a published version never change and version lists
// churn slowly, so a week keeps repeated runs cheap without going stale
// for long.
const DefaultMaxAge = 7 * 24 * time.Hour

// DiskCache stores registry responses under a root directory.
// An empty root disables the cache: reads miss and writes are dropped.
type DiskCache struct {
	rootDir string
}

// NewDiskCache creates a disk cache rooted at rootDir, creating the
// directory if needed. Pass an empty rootDir for a disabled cache.
func NewDiskCache(rootDir string) (*DiskCache, error) {
	if rootDir == "" {
		return &DiskCache{}, nil
	}
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &DiskCache{rootDir: rootDir}, nil
}

// DefaultDir returns the per-user cache root, e.g. ~/.cache/cratecompat
// on Linux.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate user cache directory: %w", err)
	}
	return filepath.Join(base, "cratecompat"), nil
}

// Dir returns the cache root directory. Empty when the cache is disabled.
func (dc *DiskCache) Dir() string {
	return dc.rootDir
}

// computeHash hashes a registry URL into a folder name. The last part of
// the URL is appended so cache folders stay recognizable by eye.
func computeHash(value string) string {
	trailing := value
	if len(value) > 32 {
		trailing = value[len(value)-32:]
	}

	h := sha256.New()
	h.Write([]byte(value))
	hash := h.Sum(nil)

	return hex.EncodeToString(hash[:hashLength]) + "$" + trailing
}

// sanitizeFileName replaces characters that cannot appear in file names
// with underscores and collapses runs of them.
func sanitizeFileName(value string) string {
	invalid := invalidFileNameChars()

	var sb strings.Builder
	sb.Grow(len(value))
	for _, ch := range value {
		if slices.Contains(invalid, ch) {
			sb.WriteRune('_')
		} else {
			sb.WriteRune(ch)
		}
	}

	result := sb.String()
	for strings.Contains(result, "__") {
		result = strings.ReplaceAll(result, "__", "_")
	}
	return result
}

func invalidFileNameChars() []rune {
	if filepath.Separator == '\\' {
		return []rune{'<', '>', ':', '"', '/', '\\', '|', '?', '*', '\x00'}
	}
	return []rune{'/', '\x00'}
}

// EntryPath computes the file path used for a registry URL and cache key.
func (dc *DiskCache) EntryPath(sourceURL, cacheKey string) string {
	folder := sanitizeFileName(computeHash(sourceURL))
	file := sanitizeFileName(cacheKey) + fileExtension
	return filepath.Join(dc.rootDir, folder, file)
}

// Get returns the cached payload for cacheKey under sourceURL when an
// entry exists and is younger than maxAge.
func (dc *DiskCache) Get(sourceURL, cacheKey string, maxAge time.Duration) ([]byte, bool) {
	if dc.rootDir == "" {
		return nil, false
	}

	path := dc.EntryPath(sourceURL, cacheKey)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) >= maxAge {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set writes a cache entry using a two-phase update: the payload goes to
// a temporary file first and is renamed into place only after the
// optional validate hook accepts it. A crash mid-write therefore never
// leaves a truncated entry behind.
func (dc *DiskCache) Set(sourceURL, cacheKey string, data io.Reader, validate func(io.ReadSeeker) error) error {
	if dc.rootDir == "" {
		return nil
	}

	cacheFile := dc.EntryPath(sourceURL, cacheKey)
	if err := os.MkdirAll(filepath.Dir(cacheFile), 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	// Unique temp name so concurrent writers never clobber each other.
	newFile := fmt.Sprintf("%s-new.%d", cacheFile, time.Now().UnixNano())

	tempFile, err := os.OpenFile(newFile, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = tempFile.Close() }()

	if _, err := io.CopyBuffer(tempFile, data, make([]byte, bufferSize)); err != nil {
		_ = os.Remove(newFile)
		return fmt.Errorf("write temp file: %w", err)
	}

	if validate != nil {
		if _, err := tempFile.Seek(0, io.SeekStart); err != nil {
			_ = os.Remove(newFile)
			return fmt.Errorf("seek temp file: %w", err)
		}
		if err := validate(tempFile); err != nil {
			_ = os.Remove(newFile)
			return fmt.Errorf("validate cache entry: %w", err)
		}
	}

	if err := tempFile.Close(); err != nil {
		_ = os.Remove(newFile)
		return fmt.Errorf("close temp file: %w", err)
	}

	// Rename is atomic on Unix. Windows refuses to replace an existing
	// file, so remove the stale entry and retry once.
	if err := os.Rename(newFile, cacheFile); err != nil {
		_ = os.Remove(cacheFile)
		if err := os.Rename(newFile, cacheFile); err != nil {
			_ = os.Remove(newFile)
			return fmt.Errorf("move cache file: %w", err)
		}
	}
	return nil
}

// Delete removes a single cache entry if present.
func (dc *DiskCache) Delete(sourceURL, cacheKey string) error {
	if dc.rootDir == "" {
		return nil
	}
	err := os.Remove(dc.EntryPath(sourceURL, cacheKey))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Clear removes every cache entry.
func (dc *DiskCache) Clear() error {
	if dc.rootDir == "" {
		return nil
	}
	return os.RemoveAll(dc.rootDir)
}
