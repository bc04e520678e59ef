package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tuimon/internal/game"
)

const (
	padWidth  = 14
	padHeight = 5
	padGapX   = 2
	padGapY   = 1

	headerLines = 2 // header line plus separator
	footerLines = 2 // separator plus footer line
)

type padColors struct {
	dim lipgloss.Color
	lit lipgloss.Color
}

var padPalette = map[game.Pad]padColors{
	game.PadGreen:  {dim: "#14532D", lit: "#4ADE80"},
	game.PadRed:    {dim: "#7F1D1D", lit: "#F87171"},
	game.PadYellow: {dim: "#713F12", lit: "#FDE047"},
	game.PadBlue:   {dim: "#1E3A8A", lit: "#60A5FA"},
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// View implements tea.Model.
func (m *Model) View() string {
	originX, originY := m.layout()

	lines := []string{m.renderHeader()}
	for len(lines) < originY {
		lines = append(lines, "")
	}
	indent := strings.Repeat(" ", originX)
	for _, l := range strings.Split(m.renderGrid(), "\n") {
		lines = append(lines, indent+l)
	}
	lines = append(lines, "", m.renderFooter())
	return strings.Join(lines, "\n")
}

// layout returns the top-left cell of the pad grid. View and mouse
// hit-testing must agree on it.
func (m *Model) layout() (originX, originY int) {
	gridW := padWidth*2 + padGapX
	gridH := padHeight*2 + padGapY
	originY = headerLines
	if m.width > gridW {
		originX = (m.width - gridW) / 2
	}
	if body := m.height - headerLines - footerLines; body > gridH {
		originY = headerLines + (body-gridH)/2
	}
	return originX, originY
}

// padAt maps terminal coordinates to the pad under them.
func (m *Model) padAt(x, y int) (game.Pad, bool) {
	if m.width == 0 || m.height == 0 {
		return 0, false
	}
	originX, originY := m.layout()
	for i, p := range game.Pads() {
		row, col := i/2, i%2
		x0 := originX + col*(padWidth+padGapX)
		y0 := originY + row*(padHeight+padGapY)
		if x >= x0 && x < x0+padWidth && y >= y0 && y < y0+padHeight {
			return p, true
		}
	}
	return 0, false
}

func (m *Model) renderGrid() string {
	pads := game.Pads()
	gap := strings.Repeat(" ", padGapX)
	rows := make([]string, 0, 2)
	for r := 0; r < 2; r++ {
		left := m.renderPad(pads[r*2])
		right := m.renderPad(pads[r*2+1])
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, left, gap, right))
	}
	return strings.Join(rows, strings.Repeat("\n", padGapY+1))
}

func (m *Model) renderPad(p game.Pad) string {
	colors := padPalette[p]
	bg, fg := colors.dim, lipgloss.Color("#E5E5E5")
	if m.litActive && m.lit == p {
		bg, fg = colors.lit, lipgloss.Color("#111111")
	}
	style := lipgloss.NewStyle().Background(bg).Foreground(fg)

	blank := style.Render(strings.Repeat(" ", padWidth))
	label := style.Render(centerLabel(strings.ToUpper(p.String()), padWidth))
	lines := make([]string, 0, padHeight)
	for i := 0; i < padHeight; i++ {
		if i == padHeight/2 {
			lines = append(lines, label)
		} else {
			lines = append(lines, blank)
		}
	}
	return strings.Join(lines, "\n")
}

func centerLabel(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return runewidth.Truncate(s, width, "")
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}

func (m *Model) renderHeader() string {
	segments := []string{
		titleStyle.Render("tuimon"),
		fmt.Sprintf("Level %d", m.ctrl.Level()),
		fmt.Sprintf("Best %d", m.best),
	}
	if m.out.Muted() {
		segments = append(segments, mutedStyle.Render("muted"))
	}
	return strings.Join(segments, "  ·  ")
}

func (m *Model) renderFooter() string {
	var status string
	switch m.ctrl.State() {
	case game.StateIdle:
		status = "Press enter to start"
	case game.StatePresenting, game.StateRoundComplete:
		status = "Watch the sequence"
	case game.StateAwaitingInput:
		status = "Your turn"
	case game.StateGameOver:
		status = fmt.Sprintf("Game over at level %d. Press enter to retry", m.ctrl.FinalLevel())
	}
	help := "g/r/y/b or 1-4 or click · m mute · q quit"
	return footerStyle.Render(status + "  ·  " + help)
}
