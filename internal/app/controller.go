// Package app ties the lookup flow together: input validation, the
// dictionary call, history bookkeeping and what the user sees.
package app

import (
	"context"
	"errors"
	"log"
	"math/rand/v2"
	"sync/atomic"

	"github.com/mrlokans/wordlookup/internal/dictionary"
	"github.com/mrlokans/wordlookup/internal/entities"
	"github.com/mrlokans/wordlookup/internal/render"
)

// DefaultWords seed the first lookup when there is no history yet.
var DefaultWords = []string{"dictionary", "eloquent", "serendipity", "resilient"}

// ErrSuperseded is returned by a lookup whose result was discarded because a
// newer lookup was started while it was in flight.
var ErrSuperseded = errors.New("lookup superseded by a newer one")

const msgLookupFailed = "Unable to fetch word data. Please try again."

// View is the surface results are drawn on.
type View interface {
	SetLoading(loading bool)
	ShowResult(tree *render.Node)
	ShowHistory(tree *render.Node)
}

// Notifier is the transient error channel.
type Notifier interface {
	Show(message string)
	Dismiss()
}

// Audio is the part of the audio controller a lookup touches.
type Audio interface {
	Stop()
	Load(word, url string)
}

// History is the bounded list of past searches.
type History interface {
	Load(ctx context.Context) []entities.SearchHistoryEntry
	Add(ctx context.Context, word string) []entities.SearchHistoryEntry
	Latest(ctx context.Context) (entities.SearchHistoryEntry, bool)
}

type Options struct {
	// DefaultWords overrides the package-level DefaultWords.
	DefaultWords []string
	// Intn picks the random default word; rand.IntN when nil.
	Intn func(n int) int
}

type Controller struct {
	client   dictionary.Client
	history  History
	view     View
	audio    Audio
	notifier Notifier

	defaultWords []string
	intn         func(n int) int

	// seq numbers lookups so that only the latest one renders.
	seq atomic.Uint64
}

func New(client dictionary.Client, history History, view View, audio Audio, notifier Notifier, opts Options) *Controller {
	words := opts.DefaultWords
	if len(words) == 0 {
		words = DefaultWords
	}
	intn := opts.Intn
	if intn == nil {
		intn = rand.IntN
	}
	return &Controller{
		client:       client,
		history:      history,
		view:         view,
		audio:        audio,
		notifier:     notifier,
		defaultWords: words,
		intn:         intn,
	}
}

// DefaultWords returns the example words offered to the user.
func (c *Controller) DefaultWords() []string {
	return append([]string(nil), c.defaultWords...)
}

// InitialWord is the word looked up on first load: the most recent history
// entry, or a random default word.
func (c *Controller) InitialWord(ctx context.Context) string {
	if latest, ok := c.history.Latest(ctx); ok {
		return latest.Word
	}
	return c.defaultWords[c.intn(len(c.defaultWords))]
}

// Start draws the stored history and performs the initial lookup. It
// returns the word it seeded the input with.
func (c *Controller) Start(ctx context.Context) (string, *entities.WordEntry, error) {
	c.view.ShowHistory(render.RenderHistory(c.history.Load(ctx)))
	word := c.InitialWord(ctx)
	entry, err := c.Submit(ctx, word)
	return word, entry, err
}

// Submit runs one full lookup flow for raw user input.
func (c *Controller) Submit(ctx context.Context, raw string) (*entities.WordEntry, error) {
	word, err := dictionary.ValidateWord(raw)
	if err != nil {
		c.notifier.Show(err.Error())
		return nil, err
	}
	c.notifier.Dismiss()

	seq := c.seq.Add(1)
	c.audio.Stop()
	c.view.SetLoading(true)
	defer func() {
		if c.seq.Load() == seq {
			c.view.SetLoading(false)
		}
	}()

	entry, err := c.client.Lookup(ctx, word)
	if c.seq.Load() != seq {
		return nil, ErrSuperseded
	}
	if err != nil {
		log.Printf("Lookup of %q via %s failed (%s): %v", word, c.client.Name(), dictionary.KindName(err), err)
		c.view.ShowResult(render.RenderEmptyState())
		c.notifier.Show(userMessage(err))
		return nil, err
	}

	c.view.ShowResult(render.Render(entry))
	c.view.ShowHistory(render.RenderHistory(c.history.Add(ctx, word)))
	c.audio.Load(entry.Word, render.AudioURL(entry))
	return entry, nil
}

func userMessage(err error) string {
	var lookupErr *dictionary.LookupError
	if errors.As(err, &lookupErr) {
		return lookupErr.Error()
	}
	return msgLookupFailed
}
