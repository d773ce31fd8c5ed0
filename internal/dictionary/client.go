package dictionary

import (
	"context"

	"github.com/mrlokans/wordlookup/internal/entities"
)

// Client defines the interface for dictionary API providers.
// Lookup returns the first entry for word or a *LookupError.
type Client interface {
	Lookup(ctx context.Context, word string) (*entities.WordEntry, error)
	Name() string
}
