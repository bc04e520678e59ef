package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuimon/internal/game"
)

func TestViewShowsAllPads(t *testing.T) {
	m := newTestModel(game.PadGreen)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	view := m.View()
	for _, p := range game.Pads() {
		if !strings.Contains(view, strings.ToUpper(p.String())) {
			t.Errorf("view missing pad label %q", p)
		}
	}
}

func TestHeaderTracksLevelAndBest(t *testing.T) {
	m := newTestModel(game.PadGreen, game.PadRed)
	m.best = 7
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	header := m.renderHeader()
	if !strings.Contains(header, "Level 1") {
		t.Errorf("header %q missing level", header)
	}
	if !strings.Contains(header, "Best 7") {
		t.Errorf("header %q missing best", header)
	}
}

func TestHeaderShowsMuted(t *testing.T) {
	m := newTestModel(game.PadGreen)
	if strings.Contains(m.renderHeader(), "muted") {
		t.Fatalf("header shows muted before muting")
	}
	m.out.SetMuted(true)
	if !strings.Contains(m.renderHeader(), "muted") {
		t.Fatalf("header does not reflect mute")
	}
}

func TestFooterPerState(t *testing.T) {
	m := newTestModel(game.PadGreen)
	if !strings.Contains(m.renderFooter(), "start") {
		t.Errorf("idle footer %q does not prompt to start", m.renderFooter())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	presentAll(t, m)
	if !strings.Contains(m.renderFooter(), "Your turn") {
		t.Errorf("awaiting footer %q does not prompt for input", m.renderFooter())
	}

	m.Update(keyRunes('r'))
	if !strings.Contains(m.renderFooter(), "Game over at level 1") {
		t.Errorf("game over footer %q missing final level", m.renderFooter())
	}
}

func TestPadAtMatchesLayout(t *testing.T) {
	m := newTestModel(game.PadGreen)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	x, y := m.layout()

	cases := []struct {
		dx, dy int
		want   game.Pad
		ok     bool
	}{
		{0, 0, game.PadGreen, true},
		{padWidth - 1, padHeight - 1, game.PadGreen, true},
		{padWidth + padGapX, 0, game.PadRed, true},
		{0, padHeight + padGapY, game.PadYellow, true},
		{padWidth + padGapX, padHeight + padGapY, game.PadBlue, true},
		{padWidth, 0, 0, false},
		{-1, 0, 0, false},
		{0, padHeight, 0, false},
	}
	for _, c := range cases {
		got, ok := m.padAt(x+c.dx, y+c.dy)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("padAt(+%d,+%d) = %v,%v, want %v,%v", c.dx, c.dy, got, ok, c.want, c.ok)
		}
	}
}

func TestPadAtWithoutSize(t *testing.T) {
	m := newTestModel(game.PadGreen)
	if _, ok := m.padAt(3, 3); ok {
		t.Fatalf("padAt reported a hit before the window size is known")
	}
}
