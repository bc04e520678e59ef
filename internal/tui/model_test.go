package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuimon/internal/audio"
	"github.com/verte-zerg/tuimon/internal/game"
	"github.com/verte-zerg/tuimon/internal/model"
)

type scriptedSeq struct {
	pads []game.Pad
	i    int
}

func (s *scriptedSeq) Next() game.Pad {
	p := s.pads[s.i%len(s.pads)]
	s.i++
	return p
}

type memScores struct {
	best int
}

func (s *memScores) Best() int     { return s.best }
func (s *memScores) SetBest(v int) { s.best = v }

func newTestModel(pads ...game.Pad) *Model {
	out := audio.NewSilent()
	scores := &memScores{}
	ctrl := game.New(&scriptedSeq{pads: pads}, out, scores, game.DefaultOptions())
	return NewModel(model.Config{}, ctrl, out, scores, nil)
}

func keyRunes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// presentAll delivers step messages until presentation completes.
func presentAll(t *testing.T, m *Model) {
	t.Helper()
	epoch := m.ctrl.Epoch()
	for i := 0; i < 100; i++ {
		m.Update(stepMsg{epoch: epoch})
		if m.ctrl.State() == game.StateAwaitingInput {
			return
		}
	}
	t.Fatalf("presentation never completed")
}

func TestPadKeysIgnoredWhileIdle(t *testing.T) {
	m := newTestModel(game.PadGreen)
	m.Update(keyRunes('g'))
	if m.ctrl.State() != game.StateIdle {
		t.Fatalf("state = %s, want idle", m.ctrl.State())
	}
}

func TestEnterStartsAndStepsPresent(t *testing.T) {
	m := newTestModel(game.PadGreen, game.PadRed)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("start scheduled no step")
	}
	if m.ctrl.State() != game.StatePresenting {
		t.Fatalf("state = %s, want presenting", m.ctrl.State())
	}

	m.Update(stepMsg{epoch: m.ctrl.Epoch()})
	if !m.litActive || m.lit != game.PadGreen {
		t.Fatalf("first step did not light green: lit=%s active=%v", m.lit, m.litActive)
	}
	m.Update(stepMsg{epoch: m.ctrl.Epoch()})
	if m.ctrl.State() != game.StateAwaitingInput {
		t.Fatalf("state = %s, want awaiting input", m.ctrl.State())
	}
}

func TestKeyPressCompletesRound(t *testing.T) {
	m := newTestModel(game.PadGreen, game.PadRed)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	presentAll(t, m)

	_, cmd := m.Update(keyRunes('g'))
	if m.ctrl.State() != game.StateRoundComplete {
		t.Fatalf("state = %s, want round complete", m.ctrl.State())
	}
	if cmd == nil {
		t.Fatalf("round completion scheduled no re-presentation")
	}
	if m.best != 1 {
		t.Fatalf("best = %d, want 1", m.best)
	}

	m.Update(stepMsg{epoch: m.ctrl.Epoch()})
	if m.ctrl.Level() != 2 {
		t.Fatalf("level = %d, want 2", m.ctrl.Level())
	}
}

func TestWrongKeyEndsGame(t *testing.T) {
	m := newTestModel(game.PadGreen)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	presentAll(t, m)

	m.Update(keyRunes('r'))
	if m.ctrl.State() != game.StateGameOver {
		t.Fatalf("state = %s, want game over", m.ctrl.State())
	}
	if m.finalLvl != 1 {
		t.Fatalf("final level = %d, want 1", m.finalLvl)
	}
	if m.litActive {
		t.Fatalf("pad left lit after game over")
	}
}

func TestMouseClickPressesPad(t *testing.T) {
	m := newTestModel(game.PadGreen, game.PadRed)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	presentAll(t, m)

	x, y := m.layout()
	m.Update(tea.MouseMsg{
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
		X:      x + 1,
		Y:      y + 1,
	})
	if m.ctrl.State() != game.StateRoundComplete {
		t.Fatalf("click did not register: state = %s", m.ctrl.State())
	}
}

func TestMouseClickOutsidePadsIgnored(t *testing.T) {
	m := newTestModel(game.PadGreen)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	presentAll(t, m)

	m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft, X: 0, Y: 0})
	if m.ctrl.State() != game.StateAwaitingInput {
		t.Fatalf("stray click changed state to %s", m.ctrl.State())
	}
}

func TestMuteToggleLeavesGameAlone(t *testing.T) {
	m := newTestModel(game.PadGreen)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	before := m.ctrl.State()

	m.Update(keyRunes('m'))
	if !m.out.Muted() {
		t.Fatalf("mute not applied")
	}
	if m.ctrl.State() != before {
		t.Fatalf("mute changed game state to %s", m.ctrl.State())
	}
	m.Update(keyRunes('m'))
	if m.out.Muted() {
		t.Fatalf("mute not cleared")
	}
}

func TestStaleClearDoesNotUnlightNewFlash(t *testing.T) {
	m := newTestModel(game.PadGreen)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(stepMsg{epoch: m.ctrl.Epoch()})
	staleSeq := m.litSeq

	m.flash(game.PadGreen, pressFlash)
	m.Update(clearMsg{seq: staleSeq})
	if !m.litActive {
		t.Fatalf("stale clear unlit the newer flash")
	}
	m.Update(clearMsg{seq: m.litSeq})
	if m.litActive {
		t.Fatalf("current clear had no effect")
	}
}
