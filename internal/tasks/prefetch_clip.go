package tasks

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mikestefanello/backlite"
)

// ClipFetcher downloads a pronunciation clip into local storage.
type ClipFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// PrefetchClipTask downloads the clip of a looked up word ahead of playback.
type PrefetchClipTask struct {
	URL string `json:"url"`
}

func (t PrefetchClipTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "prefetch_clip",
		MaxAttempts: 3,
		Backoff:     10 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   time.Hour,
			OnlyFailed: true,
		},
	}
}

func PrefetchClipProcessor(fetcher ClipFetcher) backlite.QueueProcessor[PrefetchClipTask] {
	return func(ctx context.Context, task PrefetchClipTask) error {
		path, err := fetcher.Fetch(ctx, task.URL)
		if err != nil {
			return fmt.Errorf("prefetch clip %s: %w", task.URL, err)
		}
		log.Printf("[TASK] Prefetched clip %s to %s", task.URL, path)
		return nil
	}
}

func NewPrefetchClipQueue(fetcher ClipFetcher) backlite.Queue {
	return backlite.NewQueue(PrefetchClipProcessor(fetcher))
}

// Prefetch queues a download of url. Queueing failures are logged; the
// clip is then fetched when it is played.
func (c *Client) Prefetch(url string) {
	if strings.TrimSpace(url) == "" {
		return
	}
	if _, err := c.Add(PrefetchClipTask{URL: url}).Save(); err != nil {
		log.Printf("Failed to queue prefetch of %s: %v", url, err)
	}
}
