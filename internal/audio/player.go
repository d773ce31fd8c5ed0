// Package audio plays pronunciation clips and keeps the audio button in sync
// with playback.
//
// A Player is the playback device. It hands out Clips, each of which reports
// its progress as a stream of Events. The Controller owns at most one Clip at
// a time and drives the button state machine from those events:
//
//	Idle -> Loading -> Playing -> Idle
//	Loading/Playing -> Error -> (after a delay) Idle
package audio

import (
	"context"
	"errors"
)

// ErrPlayback is reported when a clip cannot be loaded or played.
var ErrPlayback = errors.New("audio playback failed")

// ErrNoAudio is reported when the current word has no pronunciation clip.
var ErrNoAudio = errors.New("no audio available")

type EventType string

const (
	// EventReady means enough data is available to start playing.
	EventReady EventType = "ready"
	// EventStarted means sound is actually coming out.
	EventStarted EventType = "started"
	// EventPaused means playback was stopped before the end.
	EventPaused EventType = "paused"
	// EventEnded means the clip played to completion.
	EventEnded EventType = "ended"
	// EventError means loading or playback failed; Err has the cause.
	EventError EventType = "error"
)

type Event struct {
	Type EventType
	Err  error
}

// Clip is one loaded pronunciation.
type Clip interface {
	ID() string
	URL() string
	// Events is closed once the clip has been closed.
	Events() <-chan Event
	// Play starts playback asynchronously. An error means it was rejected
	// outright; later failures arrive as EventError.
	Play() error
	// Pause stops playback; the clip reports EventPaused.
	Pause()
	// Close releases the clip. No events are delivered afterwards.
	Close() error
}

// Player creates clips. Open must not block on I/O; loading happens after
// Play is called.
type Player interface {
	Open(ctx context.Context, url string) (Clip, error)
}
