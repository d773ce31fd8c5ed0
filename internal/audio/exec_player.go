package audio

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ExecPlayer plays clips by downloading them into a Cache and running an
// external command such as ffplay on the local file.
type ExecPlayer struct {
	command string
	args    []string
	cache   *Cache
}

// ExecPlayerConfig configures the external player command. The clip path is
// appended after Args.
type ExecPlayerConfig struct {
	Command string
	Args    []string
	Cache   *Cache
}

func NewExecPlayer(cfg ExecPlayerConfig) (*ExecPlayer, error) {
	if strings.TrimSpace(cfg.Command) == "" {
		return nil, errors.New("audio player command is required")
	}
	if cfg.Cache == nil {
		return nil, errors.New("audio cache is required")
	}
	return &ExecPlayer{
		command: cfg.Command,
		args:    cfg.Args,
		cache:   cfg.Cache,
	}, nil
}

// Open prepares a clip. Playback outlives ctx so a request handler can start
// it and return.
func (p *ExecPlayer) Open(ctx context.Context, url string) (Clip, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("empty audio url")
	}
	clipCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	return &execClip{
		id:     uuid.NewString(),
		url:    url,
		player: p,
		ctx:    clipCtx,
		cancel: cancel,
		events: make(chan Event, 4),
	}, nil
}

type execClip struct {
	id     string
	url    string
	player *ExecPlayer

	ctx    context.Context
	cancel context.CancelFunc
	events chan Event
	wg     sync.WaitGroup

	mu          sync.Mutex
	started     bool
	paused      bool
	stopProcess context.CancelFunc
	closeOnce   sync.Once
}

func (c *execClip) ID() string           { return c.id }
func (c *execClip) URL() string          { return c.url }
func (c *execClip) Events() <-chan Event { return c.events }

func (c *execClip) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return errors.New("clip already started")
	}
	if c.ctx.Err() != nil {
		return errors.New("clip is closed")
	}
	c.started = true

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run()
	}()
	return nil
}

func (c *execClip) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started || c.paused {
		return
	}
	c.paused = true
	if c.stopProcess != nil {
		c.stopProcess()
	}
}

func (c *execClip) Close() error {
	c.mu.Lock()
	c.cancel()
	c.mu.Unlock()
	c.wg.Wait()
	c.closeOnce.Do(func() { close(c.events) })
	return nil
}

func (c *execClip) run() {
	path, err := c.player.cache.Fetch(c.ctx, c.url)
	if err != nil {
		c.emit(Event{Type: EventError, Err: fmt.Errorf("fetch %s: %w", c.url, err)})
		return
	}
	if !c.emit(Event{Type: EventReady}) {
		return
	}

	c.mu.Lock()
	if c.paused {
		c.mu.Unlock()
		c.emit(Event{Type: EventPaused})
		return
	}
	procCtx, stop := context.WithCancel(c.ctx)
	c.stopProcess = stop
	c.mu.Unlock()
	defer stop()

	args := append(append([]string(nil), c.player.args...), path)
	cmd := exec.CommandContext(procCtx, c.player.command, args...)
	if err := cmd.Start(); err != nil {
		c.emit(Event{Type: EventError, Err: fmt.Errorf("start %s: %w", c.player.command, err)})
		return
	}
	if !c.emit(Event{Type: EventStarted}) {
		_ = cmd.Wait()
		return
	}

	err = cmd.Wait()

	c.mu.Lock()
	paused := c.paused
	c.mu.Unlock()

	switch {
	case c.ctx.Err() != nil:
		// Closed; nobody is listening.
	case paused:
		c.emit(Event{Type: EventPaused})
	case err != nil:
		c.emit(Event{Type: EventError, Err: fmt.Errorf("%s: %w", c.player.command, err)})
	default:
		c.emit(Event{Type: EventEnded})
	}
}

// emit delivers ev unless the clip has been closed.
func (c *execClip) emit(ev Event) bool {
	select {
	case c.events <- ev:
		return true
	case <-c.ctx.Done():
		return false
	}
}
