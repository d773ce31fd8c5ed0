package audio

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/mrlokans/wordlookup/internal/render"
)

// DefaultResetDelay is how long the button shows the warning state.
const DefaultResetDelay = 2 * time.Second

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StatePlaying State = "playing"
	StateError   State = "error"
)

type Icon string

const (
	IconPlay    Icon = "play"
	IconSpinner Icon = "spinner"
	IconStop    Icon = "stop"
	IconWarning Icon = "warning"
)

const (
	labelStop   = "Stop pronunciation"
	titleFailed = "Audio playback failed"
)

// Button is the visible state of the audio control.
type Button struct {
	State    State  `json:"state"`
	Icon     Icon   `json:"icon"`
	Disabled bool   `json:"disabled"`
	Label    string `json:"label"`
	Title    string `json:"title,omitempty"`
	Word     string `json:"word,omitempty"`
	URL      string `json:"url,omitempty"`
	ClipID   string `json:"clip_id,omitempty"`
}

// Controller owns the single active clip and the button it drives.
type Controller struct {
	player     Player
	resetDelay time.Duration

	mu         sync.Mutex
	clip       Clip
	word       string
	url        string
	button     Button
	resetGen   uint64
	resetTimer *time.Timer

	subMu       sync.Mutex
	subscribers map[int]func(Button)
	nextSub     int
}

// NewController creates a controller playing through player.
func NewController(player Player, resetDelay time.Duration) *Controller {
	if resetDelay <= 0 {
		resetDelay = DefaultResetDelay
	}
	c := &Controller{
		player:      player,
		resetDelay:  resetDelay,
		subscribers: make(map[int]func(Button)),
	}
	c.button = c.idleButton()
	return c
}

// Load points the button at a new word, stopping anything still playing.
// An empty url leaves the button disabled.
func (c *Controller) Load(word, url string) {
	c.mu.Lock()
	c.releaseLocked()
	c.cancelResetLocked()
	c.word = word
	c.url = url
	c.button = c.idleButton()
	b := c.button
	c.mu.Unlock()

	c.publish(b)
}

// Play starts playing url. Any clip already owned is stopped and released
// first, whatever state it is in.
func (c *Controller) Play(ctx context.Context, url string) error {
	c.mu.Lock()
	c.releaseLocked()
	c.cancelResetLocked()
	c.url = url

	clip, err := c.player.Open(ctx, url)
	if err != nil {
		b := c.failLocked(err)
		c.mu.Unlock()
		c.publish(b)
		return fmt.Errorf("%w: %v", ErrPlayback, err)
	}

	c.clip = clip
	c.button = c.idleButton()
	c.button.State = StateLoading
	c.button.Icon = IconSpinner
	c.button.Disabled = true
	c.button.ClipID = clip.ID()
	loading := c.button

	go c.watch(clip)

	if err := clip.Play(); err != nil {
		b := c.failLocked(err)
		c.mu.Unlock()
		c.publish(loading)
		c.publish(b)
		return fmt.Errorf("%w: %v", ErrPlayback, err)
	}
	c.mu.Unlock()

	c.publish(loading)
	return nil
}

// Toggle is what pressing the button does: stop while playing, play otherwise.
func (c *Controller) Toggle(ctx context.Context) error {
	c.mu.Lock()
	state, url := c.button.State, c.url
	c.mu.Unlock()

	if state == StatePlaying {
		c.Stop()
		return nil
	}
	if url == "" {
		return fmt.Errorf("%w: %w", ErrPlayback, ErrNoAudio)
	}
	return c.Play(ctx, url)
}

// Stop pauses and releases the owned clip, returning the button to idle.
// It is a no-op when nothing is owned.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.clip == nil {
		c.mu.Unlock()
		return
	}
	c.releaseLocked()
	c.button = c.idleButton()
	b := c.button
	c.mu.Unlock()

	c.publish(b)
}

// Button returns the current button state.
func (c *Controller) Button() Button {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.button
}

// Owned returns the ID of the owned clip, if any.
func (c *Controller) Owned() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.clip == nil {
		return "", false
	}
	return c.clip.ID(), true
}

// Subscribe registers fn for every button change and returns a function
// that removes it. fn must not block.
func (c *Controller) Subscribe(fn func(Button)) func() {
	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subscribers, id)
		c.subMu.Unlock()
	}
}

func (c *Controller) watch(clip Clip) {
	for ev := range clip.Events() {
		c.handle(clip, ev)
	}
}

func (c *Controller) handle(clip Clip, ev Event) {
	c.mu.Lock()
	if c.clip != clip {
		// Events from a clip we already let go of.
		c.mu.Unlock()
		return
	}

	switch ev.Type {
	case EventReady:
		c.button.Disabled = false
		c.button.Icon = IconPlay
	case EventStarted:
		c.button.State = StatePlaying
		c.button.Icon = IconStop
		c.button.Disabled = false
		c.button.Label = labelStop
	case EventPaused, EventEnded:
		c.releaseLocked()
		c.button = c.idleButton()
	case EventError:
		c.failLocked(ev.Err)
	default:
		c.mu.Unlock()
		return
	}
	b := c.button
	c.mu.Unlock()

	c.publish(b)
}

// failLocked moves to the warning state, releases the clip and schedules
// the return to the pre-play appearance.
func (c *Controller) failLocked(cause error) Button {
	if cause != nil {
		log.Printf("Audio playback failed for %s: %v", c.url, cause)
	}
	c.releaseLocked()
	c.cancelResetLocked()

	c.button = c.idleButton()
	c.button.State = StateError
	c.button.Icon = IconWarning
	c.button.Disabled = true
	c.button.Title = titleFailed

	gen := c.resetGen
	c.resetTimer = time.AfterFunc(c.resetDelay, func() { c.reset(gen) })
	return c.button
}

func (c *Controller) reset(gen uint64) {
	c.mu.Lock()
	if gen != c.resetGen || c.button.State != StateError {
		c.mu.Unlock()
		return
	}
	c.resetTimer = nil
	c.button = c.idleButton()
	b := c.button
	c.mu.Unlock()

	c.publish(b)
}

func (c *Controller) cancelResetLocked() {
	c.resetGen++
	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}
}

func (c *Controller) releaseLocked() {
	if c.clip == nil {
		return
	}
	clip := c.clip
	c.clip = nil
	clip.Pause()
	if err := clip.Close(); err != nil {
		log.Printf("Failed to release audio clip %s: %v", clip.ID(), err)
	}
}

// idleButton is the pre-play appearance for the current word.
func (c *Controller) idleButton() Button {
	b := Button{
		State: StateIdle,
		Icon:  IconPlay,
		Label: render.PlayLabel(c.word),
		Word:  c.word,
		URL:   c.url,
	}
	if c.url == "" {
		b.Disabled = true
		b.Title = render.TextNoAudio
	} else {
		b.Title = render.PlayLabel(c.word)
	}
	return b
}

func (c *Controller) publish(b Button) {
	c.subMu.Lock()
	ids := make([]int, 0, len(c.subscribers))
	for id := range c.subscribers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Button), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, c.subscribers[id])
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(b)
	}
}
