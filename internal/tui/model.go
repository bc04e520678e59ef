// Package tui provides the Bubble Tea game interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuimon/internal/audio"
	"github.com/verte-zerg/tuimon/internal/game"
	"github.com/verte-zerg/tuimon/internal/model"
	"github.com/verte-zerg/tuimon/internal/store"
)

// stepMsg drives one presentation step. The epoch pins it to the round it
// was scheduled for; the controller drops stale ones.
type stepMsg struct {
	epoch int
}

// clearMsg unlights the flashed pad. seq guards against a stale clear
// arriving after a newer flash.
type clearMsg struct {
	seq int
}

// Model implements the Bubble Tea game UI.
type Model struct {
	cfg    model.Config
	ctrl   *game.Controller
	out    audio.Output
	scores game.Scores
	st     *store.Store

	width  int
	height int

	best      int
	lit       game.Pad
	litActive bool
	litSeq    int

	startedAt time.Time
	finalLvl  int
	played    bool // at least one game finished this session
}

// NewModel constructs a game model. st may be nil, in which case game
// history is not recorded.
func NewModel(cfg model.Config, ctrl *game.Controller, out audio.Output, scores game.Scores, st *store.Store) *Model {
	m := &Model{
		cfg:    cfg,
		ctrl:   ctrl,
		out:    out,
		scores: scores,
		st:     st,
	}
	m.best = scores.Best()
	m.out.SetMuted(cfg.Mute)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if p, ok := m.padAt(msg.X, msg.Y); ok {
				return m, m.press(p)
			}
		}
		return m, nil
	case stepMsg:
		return m.handleStep(msg)
	case clearMsg:
		if msg.seq == m.litSeq {
			m.litActive = false
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "m":
		m.out.SetMuted(!m.out.Muted())
		return m, nil
	case "enter", " ":
		return m, m.start()
	case "g", "1":
		return m, m.press(game.PadGreen)
	case "r", "2":
		return m, m.press(game.PadRed)
	case "y", "3":
		return m, m.press(game.PadYellow)
	case "b", "4":
		return m, m.press(game.PadBlue)
	default:
		return m, nil
	}
}

func (m *Model) start() tea.Cmd {
	epoch, delay, ok := m.ctrl.Start(time.Now())
	if !ok {
		return nil
	}
	m.startedAt = time.Now()
	m.litActive = false
	return schedule(delay, stepMsg{epoch: epoch})
}

func (m *Model) handleStep(msg stepMsg) (tea.Model, tea.Cmd) {
	res := m.ctrl.Step(msg.epoch, time.Now())
	if res.Done {
		m.litActive = false
		return m, nil
	}
	if !res.Active {
		return m, nil
	}
	cmds := []tea.Cmd{
		m.flash(res.Lit, res.Next*2/3),
		schedule(res.Next, stepMsg{epoch: msg.epoch}),
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) press(p game.Pad) tea.Cmd {
	res := m.ctrl.Press(p, time.Now())
	switch res.Outcome {
	case game.OutcomeMatch:
		return m.flash(p, pressFlash)
	case game.OutcomeRoundComplete:
		m.best = m.scores.Best()
		return tea.Batch(
			m.flash(p, pressFlash),
			schedule(res.Next, stepMsg{epoch: m.ctrl.Epoch()}),
		)
	case game.OutcomeGameOver:
		m.best = m.scores.Best()
		m.finalLvl = res.Level
		m.played = true
		m.litActive = false
		m.recordGame(res.Level)
		return nil
	default:
		return nil
	}
}

const pressFlash = 180 * time.Millisecond

func (m *Model) flash(p game.Pad, d time.Duration) tea.Cmd {
	m.lit = p
	m.litActive = true
	m.litSeq++
	return schedule(d, clearMsg{seq: m.litSeq})
}

func (m *Model) recordGame(level int) {
	if m.st == nil {
		return
	}
	rec := model.GameRecord{
		StartedAt: m.startedAt,
		EndedAt:   time.Now(),
		Level:     level,
	}
	if _, err := m.st.InsertGame(context.Background(), rec); err != nil {
		logErrf("failed to save game: %v\n", err)
	}
}

func schedule(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
