// Package history contains game-history calculations and reporting.
package history

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/tuimon/internal/model"
	"github.com/verte-zerg/tuimon/internal/store"
)

const sparkChars = " .:-=+*#%@"

// Report contains precomputed data for scores rendering.
type Report struct {
	Best  int
	Games []model.GameRecord
}

// BuildReport loads and prepares data for scores rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.ScoresConfig) (Report, error) {
	best, err := st.BestScore(ctx)
	if err != nil {
		return Report{}, err
	}
	games, err := st.ListGames(ctx, cfg.Last)
	if err != nil {
		return Report{}, err
	}
	return Report{Best: best, Games: games}, nil
}

// Levels extracts the level series from games, in chronological order.
func Levels(games []model.GameRecord) []float64 {
	out := make([]float64, len(games))
	for i, g := range games {
		out[i] = float64(g.Level)
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary block for the report.
func RenderSummary(w io.Writer, rep Report) error {
	if len(rep.Games) == 0 {
		if _, err := fmt.Fprintf(w, "High score: %d\n", rep.Best); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w, "No games recorded.")
		return err
	}
	var totalLevel float64
	var totalDur time.Duration
	for _, g := range rep.Games {
		totalLevel += float64(g.Level)
		totalDur += g.EndedAt.Sub(g.StartedAt)
	}
	count := float64(len(rep.Games))
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "High score: %d\n", rep.Best); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Games: %d\n", len(rep.Games)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg level: %.2f\n", totalLevel/count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg duration: %s\n", (totalDur / time.Duration(count)).Round(time.Second)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Levels: %s\n", Sparkline(Levels(rep.Games))); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderGameTable prints the recent games, most recent last.
func RenderGameTable(w io.Writer, games []model.GameRecord) error {
	if len(games) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Recent Games"); err != nil {
		return err
	}
	headers := []string{"When", "Level", "Duration"}
	rows := make([][]string, 0, len(games))
	for _, g := range games {
		rows = append(rows, []string{
			g.StartedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", g.Level),
			g.EndedAt.Sub(g.StartedAt).Round(time.Second).String(),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderLevelCurve prints the level progression plot.
func RenderLevelCurve(w io.Writer, games []model.GameRecord, window int) error {
	return RenderLevelCurveWithSize(w, games, window, 0, 10, false)
}

// RenderLevelCurveWithSize prints the level progression plot sized to a given
// total width.
func RenderLevelCurveWithSize(w io.Writer, games []model.GameRecord, window, totalWidth, height int, useColor bool) error {
	if len(games) == 0 {
		return nil
	}
	levels := MovingAverage(Levels(games), window)
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return plotLevels(w, "Level Progression", levels, width, height, useColor)
}
