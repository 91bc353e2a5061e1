package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/nback/internal/model"
	"github.com/verte-zerg/nback/internal/stats"
)

func fixedLoader(r stats.Report, err error, seen *model.StatsConfig) ReportLoader {
	return func(_ context.Context, cfg model.StatsConfig) (stats.Report, error) {
		if seen != nil {
			*seen = cfg
		}
		return r, err
	}
}

func sampleReport() stats.Report {
	end := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)
	return stats.Report{
		Progress: model.Progress{UnlockedLevel: 3, Streak: 2},
		Sessions: []model.SessionAggregate{
			{SessionID: 1, Mode: model.ModeAdventure, NLevel: 2, Score: 12, TotalQuestions: 15, EndedAt: end},
		},
		DailyLogs: []model.DailyLog{{Date: "2026-03-01", DurationMinutes: 3, NLevel: 2, Score: 20}},
	}
}

func TestTabsRender(t *testing.T) {
	m := NewModel(fixedLoader(sampleReport(), nil, nil), model.StatsConfig{CurveWindow: 5})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	if view := m.View(); !strings.Contains(view, "Unlocked") || !strings.Contains(view, "3-back") {
		t.Fatalf("overview missing progress cards:\n%s", view)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if view := m.View(); !strings.Contains(view, "adventure") || !strings.Contains(view, "12/15") {
		t.Fatalf("sessions tab missing row:\n%s", view)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if view := m.View(); !strings.Contains(view, "2026-03-01") {
		t.Fatalf("daily log tab missing entry:\n%s", view)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabOverview {
		t.Fatalf("tabs should wrap around, got %d", m.activeTab)
	}
}

func TestLoadErrorShown(t *testing.T) {
	m := NewModel(fixedLoader(stats.Report{}, errors.New("db locked"), nil), model.StatsConfig{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	if view := m.View(); !strings.Contains(view, "db locked") {
		t.Fatalf("expected error in footer:\n%s", view)
	}
}

func TestCurveWindowKeys(t *testing.T) {
	var seen model.StatsConfig
	m := NewModel(fixedLoader(sampleReport(), nil, &seen), model.StatsConfig{CurveWindow: 3})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("=")})
	if seen.CurveWindow != 5 {
		t.Fatalf("expected window 5, got %d", seen.CurveWindow)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	if seen.CurveWindow != 1 {
		t.Fatalf("expected window 1, got %d", seen.CurveWindow)
	}
}

func TestParseFilter(t *testing.T) {
	cfg, err := parseFilter("daily", "2026-02-01", "10", "4")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Mode != model.ModeDaily || cfg.Since == nil || cfg.Last != 10 || cfg.CurveWindow != 4 {
		t.Fatalf("unexpected cfg %+v", cfg)
	}
	for _, bad := range [][4]string{
		{"weekly", "", "", ""},
		{"", "02/01/2026", "", ""},
		{"", "", "-1", ""},
		{"", "", "", "0"},
	} {
		if _, err := parseFilter(bad[0], bad[1], bad[2], bad[3]); err == nil {
			t.Fatalf("expected error for %v", bad)
		}
	}
}
