package http

import (
	"time"

	"github.com/mrlokans/wordlookup/internal/audio"
	"github.com/mrlokans/wordlookup/internal/database"
	"github.com/mrlokans/wordlookup/internal/dictionary"
	"github.com/mrlokans/wordlookup/internal/history"
	"github.com/mrlokans/wordlookup/internal/session"
)

// ClipPrefetcher queues a pronunciation clip for download.
type ClipPrefetcher interface {
	Prefetch(url string)
}

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	DictionaryClient dictionary.Client
	Audio            *audio.Controller
	Database         *database.Database

	// Prefetcher downloads clips ahead of playback; optional
	Prefetcher ClipPrefetcher

	// Per-browser history lives in the session. Without a session
	// manager every visitor shares FallbackHistory.
	SessionManager  *session.Manager
	FallbackHistory history.Storage

	// CSRF protection is enabled when a secret is set
	CSRFSecret    []byte
	SecureCookies bool

	// UI behaviour
	DefaultWords       []string
	NotifyDismissAfter time.Duration

	// Application info
	Version string
}
