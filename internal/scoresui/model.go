// Package scoresui provides the Bubble Tea score-history interface.
package scoresui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuimon/internal/history"
	"github.com/verte-zerg/tuimon/internal/model"
	"github.com/verte-zerg/tuimon/internal/store"
)

const (
	tabOverview = iota
	tabGames
)

const plotHeight = 10

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea score-history UI.
type Model struct {
	store *store.Store
	cfg   model.ScoresConfig

	report history.Report
	errMsg string
	window int

	tabs      []string
	activeTab int
	overview  viewport.Model
	gameTable table.Model

	width  int
	height int
}

// NewModel constructs a score-history UI model.
func NewModel(st *store.Store, cfg model.ScoresConfig) *Model {
	m := &Model{
		store:  st,
		cfg:    cfg,
		window: 1,
		tabs:   []string{"Overview", "Games"},
	}
	m.overview = viewport.New(0, 0)
	m.gameTable = buildGameTable(nil, 0, 1)
	m.refreshReport()
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
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.window = nextWindow(m.window)
			m.renderTabContents()
			return m, nil
		case "-":
			m.window = prevWindow(m.window)
			m.renderTabContents()
			return m, nil
		case "g", "home":
			if m.activeTab == tabGames {
				m.gameTable.GotoTop()
			} else {
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabGames {
				m.gameTable.GotoBottom()
			} else {
				m.overview.GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabGames {
				var cmd tea.Cmd
				m.gameTable, cmd = m.gameTable.Update(msg)
				return m, cmd
			}
			var cmd tea.Cmd
			m.overview, cmd = m.overview.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.gameTable.SetWidth(m.width)
	m.gameTable.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabGames {
		m.gameTable.Focus()
	} else {
		m.gameTable.Blur()
	}
}

func (m *Model) renderHeader() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return padLines(lipgloss.JoinHorizontal(lipgloss.Top, parts...), m.width)
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	_, bodyHeight, _ := m.layoutHeights()
	if m.activeTab == tabGames {
		if len(m.report.Games) == 0 {
			return fitLines("No games recorded.", m.width, bodyHeight)
		}
		return fitLines(tableMutedStyle.Render(m.gameTable.View()), m.width, bodyHeight)
	}
	return fitLines(m.overview.View(), m.width, bodyHeight)
}

func (m *Model) refreshReport() {
	report, err := history.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load scores.")
		return
	}
	m.errMsg = ""
	m.report = report
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.gameTable = buildGameTable(report.Games, width, bodyHeight)
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" {
		m.overview.SetContent("Failed to load scores.")
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report, m.window, width))
}

func renderOverview(rep history.Report, window, width int) string {
	if len(rep.Games) == 0 {
		return fmt.Sprintf("High score: %d\nNo games recorded.", rep.Best)
	}
	cards := renderSummaryCards(rep, width)
	curve := renderCurve(rep.Games, window, width)
	return strings.TrimRight(cards+"\n\n"+curve, "\n")
}

func renderSummaryCards(rep history.Report, width int) string {
	var totalLevel float64
	var totalDur time.Duration
	for _, g := range rep.Games {
		totalLevel += float64(g.Level)
		totalDur += g.EndedAt.Sub(g.StartedAt)
	}
	count := float64(len(rep.Games))
	cards := []string{
		metricCard("High Score", fmt.Sprintf("%d", rep.Best)),
		metricCard("Games", fmt.Sprintf("%d", len(rep.Games))),
		metricCard("Avg Level", fmt.Sprintf("%.1f", totalLevel/count)),
		metricCard("Avg Duration", (totalDur / time.Duration(count)).Round(time.Second).String()),
	}
	if width < 60 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderCurve(games []model.GameRecord, window, width int) string {
	var buf bytes.Buffer
	if err := history.RenderLevelCurveWithSize(&buf, games, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render curve: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func buildGameTable(games []model.GameRecord, width, height int) table.Model {
	columns := []table.Column{
		{Title: "When", Width: 16},
		{Title: "Level", Width: 5},
		{Title: "Duration", Width: 8},
	}
	rows := make([]table.Row, 0, len(games))
	// Most recent first for browsing.
	for i := len(games) - 1; i >= 0; i-- {
		g := games[i]
		rows = append(rows, table.Row{
			g.StartedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", g.Level),
			g.EndedAt.Sub(g.StartedAt).Round(time.Second).String(),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(gameTableStyles())
	return t
}

func gameTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func nextWindow(n int) int {
	if n < 5 {
		return 5
	}
	return n + 5
}

func prevWindow(n int) int {
	if n <= 5 {
		return 1
	}
	return n - 5
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
