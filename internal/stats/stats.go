// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/nback/internal/model"
)

// SessionAccuracy returns score over total questions for a stored session.
func SessionAccuracy(s model.SessionAggregate) float64 {
	if s.TotalQuestions <= 0 {
		return 0
	}
	return float64(s.Score) / float64(s.TotalQuestions)
}

// PeakLevel returns the highest level played in a session.
func PeakLevel(s model.SessionAggregate) int {
	return max(s.NLevel, s.MaxLevelReached)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

type writer struct {
	w   io.Writer
	err error
}

func (w *writer) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

func (w *writer) lines(lines []string) {
	for _, line := range lines {
		w.printf("%s\n", line)
	}
}

// RenderSummary prints aggregate figures for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate, progress model.Progress) error {
	out := &writer{w: w}
	out.printf("Summary\n")
	out.printf("Unlocked level: %d-back\n", progress.UnlockedLevel)
	out.printf("Daily peak: %d-back\n", progress.DailyMaxLevelReached)
	out.printf("Streak: %d day(s)\n", progress.Streak)
	if len(sessions) == 0 {
		out.printf("No sessions found.\n\n")
		return out.err
	}
	var totalAcc float64
	var answered, bestCombo, peak int
	for _, s := range sessions {
		totalAcc += SessionAccuracy(s)
		answered += s.TotalQuestions
		bestCombo = max(bestCombo, s.MaxCombo)
		peak = max(peak, PeakLevel(s))
	}
	out.printf("Sessions: %d\n", len(sessions))
	out.printf("Questions: %d\n", answered)
	out.printf("Avg Accuracy: %.2f%%\n", totalAcc/float64(len(sessions))*100)
	out.printf("Highest Level: %d-back\n", peak)
	out.printf("Best Combo: %d\n\n", bestCombo)
	return out.err
}

// RenderCurves plots moving-average accuracy and peak level per session.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window, totalWidth, height int, useColor bool) error {
	if len(sessions) == 0 {
		return nil
	}
	accs := make([]float64, len(sessions))
	levels := make([]float64, len(sessions))
	for i, s := range sessions {
		accs[i] = SessionAccuracy(s) * 100
		levels[i] = float64(PeakLevel(s))
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth, len("100"))
	}
	if err := PlotSeries(w, "Accuracy %", []Series{{Name: "Accuracy", Values: MovingAverage(accs, window)}}, width, height, useColor); err != nil {
		return err
	}
	return PlotSeries(w, "Level", []Series{{Name: "Level", Values: MovingAverage(levels, window)}}, width, height, useColor)
}

// SessionRows formats sessions newest first for tabular display.
func SessionRows(sessions []model.SessionAggregate) [][]string {
	rows := make([][]string, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		level := fmt.Sprintf("%d", s.NLevel)
		if s.Mode == model.ModeDaily {
			level = fmt.Sprintf("%d→%d", s.NLevel, s.MaxLevelReached)
		}
		rows = append(rows, []string{
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			string(s.Mode),
			level,
			fmt.Sprintf("%d/%d", s.Score, s.TotalQuestions),
			fmt.Sprintf("%.1f%%", SessionAccuracy(s)*100),
			fmt.Sprintf("%d", s.MaxCombo),
		})
	}
	return rows
}

// SessionHeaders are the column titles for SessionRows.
var SessionHeaders = []string{"Ended", "Mode", "Level", "Score", "Accuracy", "Combo"}

// DailyLogRows formats daily logs for tabular display.
func DailyLogRows(logs []model.DailyLog) [][]string {
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, []string{
			l.Date,
			fmt.Sprintf("%d min", l.DurationMinutes),
			fmt.Sprintf("%d-back", l.NLevel),
			fmt.Sprintf("%d", l.Score),
		})
	}
	return rows
}

// DailyLogHeaders are the column titles for DailyLogRows.
var DailyLogHeaders = []string{"Date", "Duration", "Peak", "Score"}

// RenderSessionTable prints the session list.
func RenderSessionTable(w io.Writer, sessions []model.SessionAggregate) error {
	out := &writer{w: w}
	if len(sessions) == 0 {
		out.printf("No sessions found.\n")
		return out.err
	}
	out.printf("Sessions\n")
	out.lines(formatTable(SessionHeaders, SessionRows(sessions), map[int]bool{2: true, 3: true, 4: true, 5: true}))
	out.printf("\n")
	return out.err
}

// RenderDailyLog prints daily training entries.
func RenderDailyLog(w io.Writer, logs []model.DailyLog) error {
	out := &writer{w: w}
	if len(logs) == 0 {
		out.printf("No daily training yet.\n")
		return out.err
	}
	out.printf("Daily Log\n")
	out.lines(formatTable(DailyLogHeaders, DailyLogRows(logs), map[int]bool{1: true, 3: true}))
	out.printf("\n")
	return out.err
}

// RenderFacts prints the hardest facts and per-level accuracy.
func RenderFacts(w io.Writer, facts []FactAggregate, levels []LevelAggregate) error {
	out := &writer{w: w}
	if len(facts) == 0 {
		return nil
	}
	out.printf("Hardest Facts (Windowed)\n")
	rows := make([][]string, 0, len(facts))
	for _, f := range facts {
		rows = append(rows, []string{
			f.Question,
			fmt.Sprintf("%.1f%%", f.Accuracy()*100),
			fmt.Sprintf("%.1fs", f.AvgTime().Seconds()),
			fmt.Sprintf("%d", f.Correct+f.Incorrect),
		})
	}
	out.lines(formatTable([]string{"Fact", "Accuracy", "Avg Time", "Seen"}, rows, map[int]bool{1: true, 2: true, 3: true}))
	if len(levels) > 0 {
		parts := make([]string, 0, len(levels))
		for _, l := range levels {
			parts = append(parts, fmt.Sprintf("%d-back %.0f%%", l.Level, l.Accuracy()*100))
		}
		out.printf("\nBy level: %s\n", strings.Join(parts, "  "))
	}
	out.printf("\n")
	return out.err
}
