// Package history keeps the bounded, most-recent-first list of successfully
// looked up words.
//
// The list lives as a JSON array under a single key of a Storage backend.
// Storage failures never reach the caller: a broken or missing value reads
// as an empty history, and a failed write simply means the history will not
// survive a restart.
package history

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/mrlokans/wordlookup/internal/entities"
)

// MaxEntries is the history capacity.
const MaxEntries = 8

// Storage is a persistent key-value store.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
}

// Store reads and writes the search history.
type Store struct {
	storage Storage
	key     string
}

// NewStore creates a history store on top of storage using the
// well-known history key.
func NewStore(storage Storage) *Store {
	return &Store{
		storage: storage,
		key:     entities.SettingKeySearchHistory,
	}
}

// Load returns the persisted history, most recent first.
// It returns an empty slice if nothing is stored or the value is malformed.
func (s *Store) Load(ctx context.Context) []entities.SearchHistoryEntry {
	raw, err := s.storage.Get(ctx, s.key)
	if err != nil || strings.TrimSpace(raw) == "" {
		return []entities.SearchHistoryEntry{}
	}

	var entries []entities.SearchHistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Printf("Discarding malformed search history: %v", err)
		return []entities.SearchHistoryEntry{}
	}

	// Entries without a word cannot be looked up again.
	valid := make([]entities.SearchHistoryEntry, 0, len(entries))
	for _, entry := range entries {
		if strings.TrimSpace(entry.Word) != "" {
			valid = append(valid, entry)
		}
	}
	if len(valid) > MaxEntries {
		valid = valid[:MaxEntries]
	}
	return valid
}

// Add moves word to the front of the history, dropping any entry that
// matches it case-insensitively, truncates to MaxEntries and persists the
// result. The updated history is returned even if persisting failed.
func (s *Store) Add(ctx context.Context, word string) []entities.SearchHistoryEntry {
	current := s.Load(ctx)

	updated := make([]entities.SearchHistoryEntry, 0, MaxEntries)
	updated = append(updated, entities.SearchHistoryEntry{Word: word})
	for _, entry := range current {
		if strings.EqualFold(entry.Word, word) {
			continue
		}
		updated = append(updated, entry)
	}
	if len(updated) > MaxEntries {
		updated = updated[:MaxEntries]
	}

	data, err := json.Marshal(updated)
	if err != nil {
		log.Printf("Failed to encode search history: %v", err)
		return updated
	}
	if err := s.storage.Put(ctx, s.key, string(data)); err != nil {
		log.Printf("Failed to persist search history: %v", err)
	}

	return updated
}

// Latest returns the most recent entry, if any.
func (s *Store) Latest(ctx context.Context) (entities.SearchHistoryEntry, bool) {
	entries := s.Load(ctx)
	if len(entries) == 0 {
		return entities.SearchHistoryEntry{}, false
	}
	return entries[0], true
}
