// Package game contains the round controller and its collaborator contracts.
// The package is UI-agnostic and deterministic under a seeded generator.
package game

import "strings"

// Pad identifies one of the four colored targets the player presses.
type Pad uint8

const (
	PadGreen Pad = iota
	PadRed
	PadYellow
	PadBlue
	PadCount // sentinel for iteration
)

// String returns the lowercase name of the pad.
func (p Pad) String() string {
	switch p {
	case PadGreen:
		return "green"
	case PadRed:
		return "red"
	case PadYellow:
		return "yellow"
	case PadBlue:
		return "blue"
	default:
		return "unknown"
	}
}

// Tone returns the pad's cue frequency in Hz (the classic Simon tuning).
func (p Pad) Tone() float64 {
	switch p {
	case PadGreen:
		return 415.0
	case PadRed:
		return 310.0
	case PadYellow:
		return 252.0
	case PadBlue:
		return 209.0
	default:
		return 0
	}
}

// ParsePad converts a pad name or its first letter to a Pad.
// Returns PadGreen and false if unrecognized.
func ParsePad(s string) (Pad, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "green", "g":
		return PadGreen, true
	case "red", "r":
		return PadRed, true
	case "yellow", "y":
		return PadYellow, true
	case "blue", "b":
		return PadBlue, true
	default:
		return PadGreen, false
	}
}

// Pads returns the playable pads in display order.
func Pads() []Pad {
	return []Pad{PadGreen, PadRed, PadYellow, PadBlue}
}
