package store

import (
	"context"
	"fmt"
	"os"
)

// GameScores adapts Store to the controller's best-effort score contract:
// reads fall back to zero and writes are logged, never surfaced, so a
// broken database degrades to an in-memory-only score.
type GameScores struct {
	store *Store
	cache int
}

// NewGameScores wraps a Store for use by the round controller.
func NewGameScores(s *Store) *GameScores {
	gs := &GameScores{store: s}
	gs.cache = gs.read()
	return gs
}

// Best implements the controller's score contract.
func (g *GameScores) Best() int {
	if v := g.read(); v > g.cache {
		g.cache = v
	}
	return g.cache
}

// SetBest implements the controller's score contract.
func (g *GameScores) SetBest(v int) {
	if v > g.cache {
		g.cache = v
	}
	if err := g.store.SetBestScore(context.Background(), v); err != nil {
		logErrf("failed to save high score: %v\n", err)
	}
}

func (g *GameScores) read() int {
	v, err := g.store.BestScore(context.Background())
	if err != nil {
		logErrf("failed to load high score: %v\n", err)
		return 0
	}
	return v
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
