package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()

	client, err := NewClient(filepath.Join(tmpDir, "wordlookup.db"), Config{})
	require.NoError(t, err)
	defer client.Close()

	_, err = os.Stat(filepath.Join(tmpDir, "wordlookup-tasks.db"))
	assert.NoError(t, err, "tasks database should be created")
	assert.Equal(t, 2, client.config.Workers, "workers fall back to the default")
}

func TestClientStartStop(t *testing.T) {
	client := newTestClient(t)

	// Stopping a client that never started is immediate.
	assert.True(t, client.Stop(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client.Start(ctx)
	client.Start(ctx)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	assert.True(t, client.Stop(stopCtx), "stop should succeed gracefully")
}

type fetchFunc func(ctx context.Context, url string) (string, error)

func (f fetchFunc) Fetch(ctx context.Context, url string) (string, error) { return f(ctx, url) }

func TestPrefetch(t *testing.T) {
	client := newTestClient(t)

	fetched := make(chan string, 1)
	client.Register(NewPrefetchClipQueue(fetchFunc(func(_ context.Context, url string) (string, error) {
		fetched <- url
		return "/tmp/clip.mp3", nil
	})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client.Start(ctx)

	client.Prefetch("")
	client.Prefetch("https://example.com/eloquent.mp3")

	select {
	case url := <-fetched:
		assert.Equal(t, "https://example.com/eloquent.mp3", url)
	case <-time.After(5 * time.Second):
		t.Fatal("prefetch task was not executed within timeout")
	}
}

func TestPrefetchClipProcessor(t *testing.T) {
	process := PrefetchClipProcessor(fetchFunc(func(_ context.Context, url string) (string, error) {
		return "", errors.New("status 404")
	}))

	err := process(context.Background(), PrefetchClipTask{URL: "https://example.com/missing.mp3"})

	assert.ErrorContains(t, err, "https://example.com/missing.mp3")
}

func TestPrefetchClipTaskConfig(t *testing.T) {
	cfg := PrefetchClipTask{}.Config()

	assert.Equal(t, "prefetch_clip", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, time.Minute, cfg.Timeout)
	require.NotNil(t, cfg.Retention)
	assert.True(t, cfg.Retention.OnlyFailed)
}

var _ backlite.Task = PrefetchClipTask{}
