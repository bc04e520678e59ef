package game

import (
	"math/rand"
	"time"
)

// Generator produces random pads for sequence growth.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator returns a Generator seeded with the current time.
func NewGenerator() *Generator {
	return NewGeneratorSeeded(time.Now().UnixNano())
}

// NewGeneratorSeeded returns a Generator with a fixed seed for deterministic runs.
func NewGeneratorSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Next returns a uniformly random pad, independent of history.
func (g *Generator) Next() Pad {
	return Pad(g.rnd.Intn(int(PadCount)))
}
