// Package audio plays game cues through the system speaker. Every failure
// path degrades to silence; gameplay never waits on audio.
package audio

import (
	"fmt"

	"github.com/verte-zerg/tuimon/internal/game"
)

// Output is the cue surface the game drives. Calls are fire-and-forget.
type Output interface {
	PlayPad(game.Pad)
	PlayError()
	SetMuted(bool)
	Muted() bool
	Close()
}

// Open probes the audio device and returns a speaker-backed output, or a
// silent one when the device cannot be opened. The returned error is
// informational; the Output is always usable.
func Open(samplesDir string) (Output, error) {
	engine, err := NewEngine(samplesDir)
	if err != nil {
		return NewSilent(), fmt.Errorf("failed to open audio device: %w", err)
	}
	return engine, nil
}

// Silent is an Output that plays nothing. Used when no audio backend is
// available and as the mute-at-startup fallback in tests.
type Silent struct {
	muted bool
}

// NewSilent returns a no-op output.
func NewSilent() *Silent {
	return &Silent{}
}

// PlayPad implements Output.
func (s *Silent) PlayPad(game.Pad) {}

// PlayError implements Output.
func (s *Silent) PlayError() {}

// SetMuted implements Output.
func (s *Silent) SetMuted(m bool) { s.muted = m }

// Muted implements Output.
func (s *Silent) Muted() bool { return s.muted }

// Close implements Output.
func (s *Silent) Close() {}
