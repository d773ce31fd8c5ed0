package audio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clipServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/missing.mp3" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("fake mp3 data"))
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func newShellPlayer(t *testing.T, script string) *ExecPlayer {
	t.Helper()
	cache, err := NewCache(t.TempDir(), "WordLookup/test")
	require.NoError(t, err)
	player, err := NewExecPlayer(ExecPlayerConfig{
		Command: "sh",
		Args:    []string{"-c", script, "sh"},
		Cache:   cache,
	})
	require.NoError(t, err)
	return player
}

func collect(t *testing.T, clip Clip, until EventType) []EventType {
	t.Helper()
	var got []EventType
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-clip.Events():
			if !ok {
				return got
			}
			got = append(got, ev.Type)
			if ev.Type == until || ev.Type == EventError {
				return got
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s, got %v", until, got)
			return got
		}
	}
}

func TestExecPlayer_PlaysToEnd(t *testing.T) {
	server, _ := clipServer(t)
	// The clip path is passed as $1.
	player := newShellPlayer(t, `test -s "$1"`)

	clip, err := player.Open(context.Background(), server.URL+"/eloquent.mp3")
	require.NoError(t, err)
	defer clip.Close()
	assert.NotEmpty(t, clip.ID())

	require.NoError(t, clip.Play())

	assert.Equal(t, []EventType{EventReady, EventStarted, EventEnded}, collect(t, clip, EventEnded))
}

func TestExecPlayer_CommandFailure(t *testing.T) {
	server, _ := clipServer(t)
	player := newShellPlayer(t, "exit 3")

	clip, err := player.Open(context.Background(), server.URL+"/eloquent.mp3")
	require.NoError(t, err)
	defer clip.Close()
	require.NoError(t, clip.Play())

	assert.Equal(t, []EventType{EventReady, EventStarted, EventError}, collect(t, clip, EventEnded))
}

func TestExecPlayer_DownloadFailure(t *testing.T) {
	server, _ := clipServer(t)
	player := newShellPlayer(t, "exit 0")

	clip, err := player.Open(context.Background(), server.URL+"/missing.mp3")
	require.NoError(t, err)
	defer clip.Close()
	require.NoError(t, clip.Play())

	assert.Equal(t, []EventType{EventError}, collect(t, clip, EventEnded))
}

func TestExecPlayer_Pause(t *testing.T) {
	server, _ := clipServer(t)
	player := newShellPlayer(t, "sleep 5")

	clip, err := player.Open(context.Background(), server.URL+"/eloquent.mp3")
	require.NoError(t, err)
	defer clip.Close()
	require.NoError(t, clip.Play())

	assert.Equal(t, []EventType{EventReady, EventStarted}, collect(t, clip, EventStarted))

	clip.Pause()

	assert.Equal(t, []EventType{EventPaused}, collect(t, clip, EventPaused))
}

func TestExecPlayer_CloseStopsPlayback(t *testing.T) {
	server, _ := clipServer(t)
	player := newShellPlayer(t, "sleep 5")

	clip, err := player.Open(context.Background(), server.URL+"/eloquent.mp3")
	require.NoError(t, err)
	require.NoError(t, clip.Play())
	collect(t, clip, EventStarted)

	done := make(chan struct{})
	go func() {
		_ = clip.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Close did not stop the player process")
	}
	_, ok := <-clip.Events()
	assert.False(t, ok, "events channel is closed")
	assert.Error(t, clip.Play(), "a closed clip cannot be replayed")
}

func TestExecPlayer_Validation(t *testing.T) {
	cache, err := NewCache(t.TempDir(), "")
	require.NoError(t, err)

	_, err = NewExecPlayer(ExecPlayerConfig{Cache: cache})
	assert.Error(t, err)

	_, err = NewExecPlayer(ExecPlayerConfig{Command: "ffplay"})
	assert.Error(t, err)

	player, err := NewExecPlayer(ExecPlayerConfig{Command: "ffplay", Cache: cache})
	require.NoError(t, err)
	_, err = player.Open(context.Background(), " ")
	assert.Error(t, err)
}

func TestCache_FetchAndReuse(t *testing.T) {
	server, hits := clipServer(t)
	cacheDir := filepath.Join(t.TempDir(), "audio")
	cache, err := NewCache(cacheDir, "WordLookup/test")
	require.NoError(t, err)
	assert.Equal(t, cacheDir, cache.CacheDir())

	path1, err := cache.Fetch(context.Background(), server.URL+"/eloquent.mp3")
	require.NoError(t, err)
	data, err := os.ReadFile(path1)
	require.NoError(t, err)
	assert.Equal(t, "fake mp3 data", string(data))
	assert.Equal(t, ".mp3", filepath.Ext(path1))

	path2, err := cache.Fetch(context.Background(), server.URL+"/eloquent.mp3")
	require.NoError(t, err)
	assert.Equal(t, path1, path2)
	assert.Equal(t, int32(1), hits.Load(), "second fetch is served from disk")

	_, err = cache.Fetch(context.Background(), server.URL+"/missing.mp3")
	assert.Error(t, err)

	_, err = cache.Fetch(context.Background(), "")
	assert.Error(t, err)
}

func TestCache_Prune(t *testing.T) {
	server, hits := clipServer(t)
	cache, err := NewCache(t.TempDir(), "WordLookup/test")
	require.NoError(t, err)

	oldPath, err := cache.Fetch(context.Background(), server.URL+"/old.mp3")
	require.NoError(t, err)
	freshPath, err := cache.Fetch(context.Background(), server.URL+"/fresh.mp3")
	require.NoError(t, err)
	weekAgo := time.Now().Add(-7 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, weekAgo, weekAgo))

	// Unrelated files in the directory are left alone.
	other := filepath.Join(cache.CacheDir(), "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("keep"), 0644))
	require.NoError(t, os.Chtimes(other, weekAgo, weekAgo))

	removed, err := cache.Prune(24 * time.Hour)

	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, oldPath)
	assert.FileExists(t, freshPath)
	assert.FileExists(t, other)

	// A pruned clip is downloaded again on demand.
	_, err = cache.Fetch(context.Background(), server.URL+"/old.mp3")
	require.NoError(t, err)
	assert.Equal(t, int32(3), hits.Load())
}
