package entities

// SearchHistoryEntry is one past successful lookup.
// The JSON shape matches what browsers kept under the same storage key.
type SearchHistoryEntry struct {
	Word string `json:"word"`
}
