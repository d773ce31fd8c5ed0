package dictionary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/mrlokans/wordlookup/internal/entities"
)

const (
	DefaultBaseURL    = "https://api.dictionaryapi.dev/api/v2/entries/en"
	DefaultMinLatency = 300 * time.Millisecond
	DefaultTimeout    = 10 * time.Second
	DefaultUserAgent  = "WordLookup/1.0"
)

// Config controls the Free Dictionary client.
type Config struct {
	BaseURL string
	// MinLatency is waited out before every request so that loading
	// indicators stay visible on fast networks. Zero disables it.
	MinLatency time.Duration
	Timeout    time.Duration
	UserAgent  string
}

// DefaultConfig returns the configuration used against the public API.
func DefaultConfig() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		MinLatency: DefaultMinLatency,
		Timeout:    DefaultTimeout,
		UserAgent:  DefaultUserAgent,
	}
}

// FreeDictionaryClient implements Client using the Free Dictionary API.
// API docs: https://dictionaryapi.dev/
type FreeDictionaryClient struct {
	httpClient *http.Client
	baseURL    string
	minLatency time.Duration
	userAgent  string
}

// NewFreeDictionaryClient creates a new Free Dictionary API client.
func NewFreeDictionaryClient(cfg Config) *FreeDictionaryClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	return &FreeDictionaryClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		minLatency: cfg.MinLatency,
		userAgent:  cfg.UserAgent,
	}
}

func (c *FreeDictionaryClient) Name() string {
	return "freedictionary"
}

// Lookup fetches the first dictionary entry for word.
// Invalid input is rejected without touching the network.
func (c *FreeDictionaryClient) Lookup(ctx context.Context, word string) (*entities.WordEntry, error) {
	word, err := ValidateWord(word)
	if err != nil {
		return nil, err
	}

	if err := c.waitMinLatency(ctx); err != nil {
		return nil, &LookupError{Kind: ErrNetwork, Word: word, Err: err}
	}

	reqURL := c.baseURL + "/" + url.PathEscape(word)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &LookupError{Kind: ErrNetwork, Word: word, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &LookupError{Kind: ErrNetwork, Word: word, Err: fmt.Errorf("fetch definition: %w", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &LookupError{Kind: ErrNotFound, Word: word}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &LookupError{Kind: ErrRateLimited, Word: word}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &LookupError{Kind: ErrTransport, Word: word, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LookupError{Kind: ErrNetwork, Word: word, Err: fmt.Errorf("read body: %w", err)}
	}

	var entries []*entities.WordEntry
	if err := sonic.Unmarshal(body, &entries); err != nil {
		return nil, &LookupError{Kind: ErrEmptyResult, Word: word, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(entries) == 0 || entries[0] == nil {
		return nil, &LookupError{Kind: ErrEmptyResult, Word: word}
	}

	return entries[0], nil
}

func (c *FreeDictionaryClient) waitMinLatency(ctx context.Context) error {
	if c.minLatency <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(c.minLatency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
