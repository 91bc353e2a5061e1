package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/nback/internal/engine"
	"github.com/verte-zerg/nback/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	wrongStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#73D13D"))
	cardStyle    = lipgloss.NewStyle().
			Padding(1, 4).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Align(lipgloss.Center)
	memorizeCardStyle = cardStyle.BorderForeground(lipgloss.Color("#C89A3A"))
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.startErr != nil {
		return ""
	}
	var content string
	if m.done {
		content = m.renderFinished()
	} else {
		content = m.renderPlaying()
	}
	footer := footerStyle.Render(m.help.View(keys))
	if m.width == 0 || m.height < 3 {
		return content + "\n\n" + footer
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	return body + "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
}

func (m *Model) renderPlaying() string {
	snap := m.snap
	lines := []string{m.renderStatus()}
	if m.opts.Tutorial {
		lines = append(lines, mutedStyle.Render(m.text.tutorialIntro))
	}
	lines = append(lines, "")

	switch snap.Phase {
	case engine.BatchComplete:
		lines = append(lines, m.renderBatchReport()...)
		return strings.Join(lines, "\n")
	case engine.Memorize:
		if snap.CurrentIndex == 0 {
			lines = append(lines, titleStyle.Render(m.text.levelStart(snap.NLevel)), "")
		}
		lines = append(lines, memorizeCardStyle.Render(valueStyle.Render(expression(snap.Shown))))
		lines = append(lines, titleStyle.Render(m.text.memorize))
	case engine.Answer:
		lines = append(lines, cardStyle.Render(valueStyle.Render(expression(snap.Shown))))
		lines = append(lines, titleStyle.Render(m.text.inputPrompt(snap.NLevel)))
	case engine.Flush:
		lines = append(lines, cardStyle.Render(mutedStyle.Render("?")))
		lines = append(lines, titleStyle.Render(m.text.flushPrompt))
	}
	lines = append(lines, "> "+valueStyle.Render(snap.PendingInput))
	if m.wrong {
		msg := m.text.wrong
		if m.opts.Tutorial {
			msg = m.text.tutorialWrong
		}
		lines = append(lines, wrongStyle.Render(msg))
	}
	if m.opts.Tutorial && snap.CurrentIndex < len(m.text.tutorialSteps) {
		lines = append(lines, "", mutedStyle.Render(m.text.tutorialSteps[snap.CurrentIndex]))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderStatus() string {
	snap := m.snap
	parts := []string{
		fmt.Sprintf("%s %s", mutedStyle.Render(m.text.level), valueStyle.Render(fmt.Sprintf("%d-Back", snap.NLevel))),
		fmt.Sprintf("%s %s", mutedStyle.Render(m.text.combo), valueStyle.Render(fmt.Sprintf("%d", snap.Combo))),
	}
	if m.opts.Mode != nil && m.opts.Mode.Kind() == model.ModeDaily {
		parts = append(parts,
			fmt.Sprintf("%s %s", mutedStyle.Render(m.text.time), valueStyle.Render(formatClock(snap.Remaining))),
			fmt.Sprintf("%s %s", mutedStyle.Render(m.text.batch), valueStyle.Render(fmt.Sprintf("%d/%d", snap.AnswersGiven, snap.Planned))),
		)
		return strings.Join(parts, "   ")
	}
	ratio := 0.0
	if snap.Planned > 0 {
		ratio = float64(snap.AnswersGiven) / float64(snap.Planned)
	}
	parts = append(parts, fmt.Sprintf("%s %s", mutedStyle.Render(m.text.progress), m.bar.ViewAs(ratio)))
	return strings.Join(parts, "   ")
}

func (m *Model) renderBatchReport() []string {
	r := m.snap.LastBatch
	if r == nil {
		return nil
	}
	lines := []string{valueStyle.Render(m.text.batchDone(r.Number, r.Accuracy))}
	if r.Decision != nil {
		if format, ok := m.text.nextLevel[r.Decision.Direction.String()]; ok {
			lines = append(lines, titleStyle.Render(fmt.Sprintf(format, r.Decision.Level)))
		}
	}
	return append(lines, "", mutedStyle.Render(m.text.continueHint))
}

func (m *Model) renderFinished() string {
	if m.opts.Tutorial {
		return strings.Join([]string{
			titleStyle.Render(m.text.tutorialOutro),
			"",
			mutedStyle.Render(m.text.exitHint),
		}, "\n")
	}
	s := m.snap.Session
	lines := []string{titleStyle.Render(m.text.finishTitle)}
	if s.Mode == model.ModeDaily && m.snap.Remaining == 0 {
		lines = append(lines, mutedStyle.Render(m.text.timeUp))
	}
	lines = append(lines, "",
		fmt.Sprintf("%s  %s", mutedStyle.Render(m.text.score), valueStyle.Render(fmt.Sprintf("%d/%d", s.Score, s.TotalQuestions))),
		fmt.Sprintf("%s  %s", mutedStyle.Render(m.text.accuracy), valueStyle.Render(fmt.Sprintf("%.0f%%", s.Accuracy()*100))),
		fmt.Sprintf("%s  %s", mutedStyle.Render(m.text.maxCombo), valueStyle.Render(fmt.Sprintf("%d", s.MaxCombo))),
	)
	if m.outcome.Unlocked {
		lines = append(lines, successStyle.Render(m.text.unlocked(m.outcome.Progress.UnlockedLevel)))
	}
	if m.outcome.CheckedIn {
		lines = append(lines, successStyle.Render(m.text.streak(m.outcome.Progress.Streak)))
	}
	if m.saveErr != nil {
		lines = append(lines, wrongStyle.Render(fmt.Sprintf(m.text.saveFailed, m.saveErr)))
	}
	lines = append(lines, "")
	switch {
	case m.waiting:
		lines = append(lines, mutedStyle.Render(m.text.calculating))
	case m.feedback != "":
		width := 60
		if m.width > 0 {
			width = min(width, m.width-4)
		}
		lines = append(lines, lipgloss.NewStyle().Width(width).Render("🐱 "+m.feedback))
	}
	return strings.Join(append(lines, "", mutedStyle.Render(m.text.exitHint)), "\n")
}

func expression(s *model.Stimulus) string {
	if s == nil {
		return "…"
	}
	return s.Expression
}

func formatClock(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d/time.Minute), int(d%time.Minute/time.Second))
}
