package audio

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Cache keeps downloaded pronunciation clips on disk, keyed by URL.
type Cache struct {
	cacheDir   string
	userAgent  string
	httpClient *http.Client
}

// NewCache creates a clip cache at the specified directory.
func NewCache(cacheDir, userAgent string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create audio cache dir: %w", err)
	}

	return &Cache{
		cacheDir:  cacheDir,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Fetch returns the local path of the clip at url, downloading it first
// when it is not cached yet.
func (c *Cache) Fetch(ctx context.Context, url string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", fmt.Errorf("empty audio url")
	}

	cachePath := filepath.Join(c.cacheDir, clipFilename(url))
	if _, err := os.Stat(cachePath); err == nil {
		return cachePath, nil
	}

	if err := c.fetchAndCache(ctx, url, cachePath); err != nil {
		return "", err
	}
	return cachePath, nil
}

// CacheDir returns the cache directory path.
func (c *Cache) CacheDir() string {
	return c.cacheDir
}

// clipFilename keeps the extension of the remote file so players can sniff
// the format from the name.
func clipFilename(url string) string {
	hash := sha256.Sum256([]byte(url))
	ext := path.Ext(strings.SplitN(url, "?", 2)[0])
	if ext == "" || len(ext) > 5 {
		ext = ".mp3"
	}
	return fmt.Sprintf("clip_%x%s", hash[:8], ext)
}

func (c *Cache) fetchAndCache(ctx context.Context, url, cachePath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch audio: status %d", resp.StatusCode)
	}

	tmpFile, err := os.CreateTemp(c.cacheDir, "clip_tmp_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return err
	}
	tmpFile.Close()

	return os.Rename(tmpPath, cachePath)
}

// Prune removes cached clips that were last written more than maxAge ago
// and returns how many were removed.
func (c *Cache) Prune(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return 0, fmt.Errorf("read audio cache dir: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "clip_") || strings.HasPrefix(entry.Name(), "clip_tmp_") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(c.cacheDir, entry.Name())); err != nil && !os.IsNotExist(err) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
