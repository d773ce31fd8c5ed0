package session

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/wordlookup/internal/config"
)

// CookieName is the name of the session cookie.
const CookieName = "wordlookup_session"

// ErrNoValue is returned by Storage.Get for keys the session does not hold.
var ErrNoValue = errors.New("session value not set")

// Manager wraps scs.SessionManager with application-specific methods.
type Manager struct {
	*scs.SessionManager
}

// NewManager creates a configured session manager.
// The sqlDB parameter should be the underlying *sql.DB from GORM.
func NewManager(sqlDB *sql.DB, cfg config.Session) (*Manager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	sm.Lifetime = cfg.Lifetime
	sm.IdleTimeout = cfg.Lifetime // every visit extends the history's life

	sm.Cookie.Name = CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.Persist = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &Manager{SessionManager: sm}, nil
}

// Storage exposes the request's session as a key-value store.
// It must only be used with a context that went through LoadSave.
func (m *Manager) Storage() *Storage {
	return &Storage{sm: m}
}

// Storage reads and writes string values in the session carried by ctx.
type Storage struct {
	sm *Manager
}

func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	if !s.sm.Exists(ctx, key) {
		return "", ErrNoValue
	}
	return s.sm.GetString(ctx, key), nil
}

func (s *Storage) Put(ctx context.Context, key, value string) error {
	s.sm.Put(ctx, key, value)
	return nil
}

// GenerateSecret creates a random hex-encoded secret for CSRF tokens.
func GenerateSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// DecodeSecret turns a configured secret into key bytes. Hex strings are
// decoded; anything else is used as-is.
func DecodeSecret(secret string) []byte {
	if key, err := hex.DecodeString(secret); err == nil {
		return key
	}
	return []byte(secret)
}
