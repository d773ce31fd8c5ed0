package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/wordlookup/internal/app"
	"github.com/mrlokans/wordlookup/internal/audio"
	"github.com/mrlokans/wordlookup/internal/dictionary"
	"github.com/mrlokans/wordlookup/internal/history"
	"github.com/mrlokans/wordlookup/internal/notify"
	"github.com/mrlokans/wordlookup/internal/render"
)

// ErrAudioDisabled is returned by Play when the shell has no player.
var ErrAudioDisabled = errors.New("audio playback is disabled")

// ShellConfig holds what a Shell is built from. Audio may be nil.
type ShellConfig struct {
	Client       dictionary.Client
	Storage      history.Storage
	Audio        *audio.Controller
	DefaultWords []string
	DismissAfter time.Duration
	Out          io.Writer
	Err          io.Writer
}

// Shell is the terminal surface: one app.Controller drawing onto stdout,
// with notifications on stderr.
type Shell struct {
	app      *app.Controller
	view     *TerminalView
	history  *history.Store
	audio    *audio.Controller
	notifier *notify.Notifier
	out      io.Writer
	errOut   io.Writer
}

func NewShell(cfg ShellConfig) *Shell {
	s := &Shell{
		view:    NewTerminalView(cfg.Out, cfg.Err),
		history: history.NewStore(cfg.Storage),
		audio:   cfg.Audio,
		out:     cfg.Out,
		errOut:  cfg.Err,
	}
	s.notifier = notify.New(cfg.DismissAfter, func(message string, visible bool) {
		if visible {
			fmt.Fprintf(s.errOut, "Error: %s\n", message)
		}
	})

	var player app.Audio = silentAudio{}
	if cfg.Audio != nil {
		player = cfg.Audio
	}
	s.app = app.New(cfg.Client, s.history, s.view, player, s.notifier, app.Options{
		DefaultWords: cfg.DefaultWords,
	})
	return s
}

// Lookup runs the submit flow for word. Failures have already been shown
// when the error is returned.
func (s *Shell) Lookup(ctx context.Context, word string) error {
	_, err := s.app.Submit(ctx, word)
	return err
}

// Play pronounces the current word and waits until playback is over.
func (s *Shell) Play(ctx context.Context) error {
	if s.audio == nil {
		return ErrAudioDisabled
	}

	finished := make(chan audio.Button, 1)
	unsubscribe := s.audio.Subscribe(func(b audio.Button) {
		if b.State != audio.StateIdle && b.State != audio.StateError {
			return
		}
		select {
		case finished <- b:
		default:
		}
	})
	defer unsubscribe()

	if err := s.audio.Toggle(ctx); err != nil {
		return err
	}
	fmt.Fprintf(s.errOut, "Playing %s...\n", s.audio.Button().Word)

	select {
	case b := <-finished:
		if b.State == audio.StateError {
			return audio.ErrPlayback
		}
		return nil
	case <-ctx.Done():
		s.audio.Stop()
		return ctx.Err()
	}
}

// PrintHistory writes the stored history, most recent first.
func (s *Shell) PrintHistory(ctx context.Context) error {
	return render.WriteText(s.out, render.RenderHistory(s.history.Load(ctx)))
}

const replHelp = `Type a word to look it up. Commands:
  :history   show recent searches
  :<n>       look up the n-th recent search again
  :play      play the pronunciation of the current word
  :stop      stop playback
  :help      show this help
  :quit      exit
`

// Run is the interactive loop. It starts like the web page does, with the
// latest history word or an example word, and reads commands from in until
// EOF or :quit.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintf(s.out, "Try: %s\n", strings.Join(s.app.DefaultWords(), ", "))
	// A failed first lookup has already been reported by the notifier.
	_, _, _ = s.app.Start(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(s.out, "> ")

		var line string
		select {
		case line = <-lines:
		case err := <-readErr:
			fmt.Fprintln(s.out)
			return err
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			return ctx.Err()
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, ":") {
			_ = s.Lookup(ctx, line)
			continue
		}

		if quit := s.command(ctx, strings.TrimPrefix(line, ":")); quit {
			return nil
		}
	}
}

func (s *Shell) command(ctx context.Context, name string) bool {
	switch name {
	case "q", "quit", "exit":
		return true
	case "h", "history":
		if err := s.PrintHistory(ctx); err != nil {
			fmt.Fprintf(s.errOut, "Error: %v\n", err)
		}
	case "p", "play":
		if err := s.Play(ctx); err != nil {
			fmt.Fprintf(s.errOut, "Error: %s\n", playbackMessage(err))
		}
	case "s", "stop":
		if s.audio != nil {
			s.audio.Stop()
		}
	case "help", "?":
		fmt.Fprint(s.out, replHelp)
	default:
		n, err := strconv.Atoi(name)
		if err != nil {
			fmt.Fprintf(s.errOut, "Unknown command :%s (try :help)\n", name)
			return false
		}
		entries := s.history.Load(ctx)
		if n < 1 || n > len(entries) {
			fmt.Fprintf(s.errOut, "No recent search #%d\n", n)
			return false
		}
		_ = s.Lookup(ctx, entries[n-1].Word)
	}
	return false
}

func playbackMessage(err error) string {
	if errors.Is(err, audio.ErrNoAudio) {
		return render.TextNoAudio
	}
	return err.Error()
}

type silentAudio struct{}

func (silentAudio) Stop()                 {}
func (silentAudio) Load(word, url string) {}
