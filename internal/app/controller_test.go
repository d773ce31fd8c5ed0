package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/wordlookup/internal/dictionary"
	"github.com/mrlokans/wordlookup/internal/entities"
	"github.com/mrlokans/wordlookup/internal/history"
	"github.com/mrlokans/wordlookup/internal/render"
)

type lookupFunc func(ctx context.Context, word string) (*entities.WordEntry, error)

type fakeClient struct {
	calls  atomic.Int32
	lookup lookupFunc
}

func (c *fakeClient) Lookup(ctx context.Context, word string) (*entities.WordEntry, error) {
	c.calls.Add(1)
	return c.lookup(ctx, word)
}

func (c *fakeClient) Name() string { return "fake" }

func found(ctx context.Context, word string) (*entities.WordEntry, error) {
	return &entities.WordEntry{
		Word:      word,
		Phonetics: []entities.Phonetic{{Text: "/x/", Audio: "https://example.com/" + word + ".mp3"}},
		Meanings: []entities.Meaning{{
			PartOfSpeech: "noun",
			Definitions:  []entities.Definition{{Definition: "a definition"}},
		}},
	}, nil
}

type memoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

func (m *memoryStorage) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func (m *memoryStorage) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

type recordingView struct {
	*render.Screen
	mu      sync.Mutex
	loading []bool
}

func (v *recordingView) SetLoading(loading bool) {
	v.mu.Lock()
	v.loading = append(v.loading, loading)
	v.mu.Unlock()
	v.Screen.SetLoading(loading)
}

func (v *recordingView) loadingCalls() []bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]bool(nil), v.loading...)
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
	visible  bool
}

func (n *fakeNotifier) Show(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	n.visible = true
}

func (n *fakeNotifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.visible = false
}

type fakeAudio struct {
	mu    sync.Mutex
	stops int
	word  string
	url   string
}

func (a *fakeAudio) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stops++
}

func (a *fakeAudio) Load(word, url string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.word, a.url = word, url
}

type fixture struct {
	client   *fakeClient
	storage  *memoryStorage
	history  *history.Store
	view     *recordingView
	notifier *fakeNotifier
	audio    *fakeAudio
	app      *Controller
}

func newFixture(lookup lookupFunc, opts Options) *fixture {
	f := &fixture{
		client:   &fakeClient{lookup: lookup},
		storage:  &memoryStorage{},
		view:     &recordingView{Screen: render.NewScreen()},
		notifier: &fakeNotifier{},
		audio:    &fakeAudio{},
	}
	f.history = history.NewStore(f.storage)
	f.app = New(f.client, f.history, f.view, f.audio, f.notifier, opts)
	return f
}

func TestSubmit_Success(t *testing.T) {
	f := newFixture(found, Options{})

	entry, err := f.app.Submit(context.Background(), "  eloquent ")

	require.NoError(t, err)
	assert.Equal(t, "eloquent", entry.Word)
	assert.Equal(t, 1, f.audio.stops, "current audio is stopped first")
	assert.Equal(t, []bool{true, false}, f.view.loadingCalls())

	snap := f.view.Snapshot()
	assert.Equal(t, render.Render(entry), snap.Result)
	assert.False(t, snap.Loading)
	items := snap.History.FindAll(render.KindHistoryItem)
	require.Len(t, items, 1)
	assert.Equal(t, "eloquent", items[0].Text)

	assert.Equal(t, []entities.SearchHistoryEntry{{Word: "eloquent"}}, f.history.Load(context.Background()))
	assert.Equal(t, "eloquent", f.audio.word)
	assert.Equal(t, "https://example.com/eloquent.mp3", f.audio.url)
	assert.Empty(t, f.notifier.messages)
}

func TestSubmit_ValidationBlocksNetwork(t *testing.T) {
	f := newFixture(found, Options{})

	for _, input := range []string{"", "   ", "hello123", "café", "rock&roll"} {
		_, err := f.app.Submit(context.Background(), input)
		assert.ErrorIs(t, err, dictionary.ErrValidation, "input %q", input)
	}

	assert.Zero(t, f.client.calls.Load())
	assert.Empty(t, f.view.loadingCalls())
	assert.Zero(t, f.audio.stops)
	require.Len(t, f.notifier.messages, 5)
	assert.Equal(t, "Please enter a word to search.", f.notifier.messages[0])
	assert.Equal(t, "Please enter a valid English word (letters, spaces, and hyphens only).", f.notifier.messages[2])
}

func TestSubmit_NotFound(t *testing.T) {
	f := newFixture(func(ctx context.Context, word string) (*entities.WordEntry, error) {
		return nil, &dictionary.LookupError{Kind: dictionary.ErrNotFound, Word: word}
	}, Options{})

	_, err := f.app.Submit(context.Background(), "xyzzyplugh")

	assert.ErrorIs(t, err, dictionary.ErrNotFound)
	snap := f.view.Snapshot()
	assert.NotNil(t, snap.Result.Find(render.KindEmptyState))
	assert.Nil(t, snap.Result.Find(render.KindNoDefinitions))
	assert.False(t, snap.Loading)
	assert.Equal(t, []string{`The word "xyzzyplugh" was not found in the dictionary. Please check the spelling.`}, f.notifier.messages)
	assert.Empty(t, f.history.Load(context.Background()), "failures are not recorded")
}

func TestSubmit_UnexpectedErrorUsesGenericMessage(t *testing.T) {
	f := newFixture(func(ctx context.Context, word string) (*entities.WordEntry, error) {
		return nil, errors.New("boom")
	}, Options{})

	_, err := f.app.Submit(context.Background(), "eloquent")

	assert.Error(t, err)
	assert.Equal(t, []string{msgLookupFailed}, f.notifier.messages)
}

func TestSubmit_ValidInputDismissesNotification(t *testing.T) {
	f := newFixture(found, Options{})

	_, _ = f.app.Submit(context.Background(), "123")
	require.True(t, f.notifier.visible)

	_, err := f.app.Submit(context.Background(), "eloquent")
	require.NoError(t, err)
	assert.False(t, f.notifier.visible)
}

func TestSubmit_StaleResponseIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	f := newFixture(func(ctx context.Context, word string) (*entities.WordEntry, error) {
		if word == "slow" {
			close(started)
			<-release
		}
		return found(ctx, word)
	}, Options{})

	var wg sync.WaitGroup
	var slowErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, slowErr = f.app.Submit(context.Background(), "slow")
	}()
	<-started

	_, err := f.app.Submit(context.Background(), "fast")
	require.NoError(t, err)

	close(release)
	wg.Wait()

	assert.ErrorIs(t, slowErr, ErrSuperseded)
	snap := f.view.Snapshot()
	assert.Equal(t, "fast", snap.Result.Find(render.KindTitle).Text)
	assert.False(t, snap.Loading)
	assert.Equal(t, []entities.SearchHistoryEntry{{Word: "fast"}}, f.history.Load(context.Background()))
	assert.Equal(t, []bool{true, true, false}, f.view.loadingCalls(), "only the latest lookup hides the indicator")
}

func TestStart_UsesLatestHistoryEntry(t *testing.T) {
	f := newFixture(found, Options{})
	f.history.Add(context.Background(), "resilient")
	f.history.Add(context.Background(), "eloquent")

	word, entry, err := f.app.Start(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "eloquent", word)
	assert.Equal(t, "eloquent", entry.Word)
	assert.Len(t, f.view.Snapshot().History.FindAll(render.KindHistoryItem), 2)
}

func TestStart_PicksDefaultWord(t *testing.T) {
	var gotN int
	f := newFixture(found, Options{
		DefaultWords: []string{"alpha", "beta", "gamma"},
		Intn: func(n int) int {
			gotN = n
			return 2
		},
	})

	word, entry, err := f.app.Start(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, gotN)
	assert.Equal(t, "gamma", word)
	assert.Equal(t, "gamma", entry.Word)
}

func TestNew_Defaults(t *testing.T) {
	f := newFixture(found, Options{})

	assert.Equal(t, DefaultWords, f.app.DefaultWords())
	assert.Contains(t, DefaultWords, f.app.InitialWord(context.Background()))
}
