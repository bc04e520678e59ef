// Package model contains shared configuration and record types.
package model

import "time"

// Config carries the resolved game settings (flags over config file over
// defaults).
type Config struct {
	StepMs     int    // per-step presentation delay at level 1
	MinStepMs  int    // pacing floor
	RampMs     int    // per-level speed-up
	PauseMs    int    // gap before re-presenting a grown sequence
	DebounceMs int    // duplicate-input window
	Mute       bool   // start with audio suppressed
	NoAudio    bool   // skip the audio device entirely
	SamplesDir string // directory with optional wav cue samples
	Seed       int64  // sequence seed; 0 means time-based
}

// ServeConfig carries the resolved asset-server settings.
type ServeConfig struct {
	Addr string // listen address
	Dir  string // asset root directory
}

// ScoresConfig carries the resolved scores-command settings.
type ScoresConfig struct {
	Last  int  // limit to the most recent N games; 0 means all
	Plain bool // print text instead of opening the browser UI
}

// GameRecord is one finished game as persisted in the store.
type GameRecord struct {
	ID        int64
	StartedAt time.Time
	EndedAt   time.Time
	Level     int
}
