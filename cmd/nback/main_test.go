package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/nback/internal/config"
	"github.com/verte-zerg/nback/internal/feedback"
	"github.com/verte-zerg/nback/internal/model"
)

func TestApplyConfigFlagsOverrideFile(t *testing.T) {
	var rounds, level int
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().IntVar(&rounds, "rounds", 15, "")
	cmd.Flags().IntVar(&level, "level", 0, "")
	if err := cmd.Flags().Parse([]string{"--rounds", "30"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	fileRounds, fileLevel := 20, 3
	applyIntConfig(cmd, "rounds", &rounds, &fileRounds)
	applyIntConfig(cmd, "level", &level, &fileLevel)
	applyIntConfig(cmd, "level", &level, nil)

	if rounds != 30 {
		t.Fatalf("expected flag value 30 to win, got %d", rounds)
	}
	if level != 3 {
		t.Fatalf("expected file value 3, got %d", level)
	}
}

func TestValidateConfig(t *testing.T) {
	valid := model.Config{
		AdventureRounds: 15,
		MaxLevel:        9,
		DailyMinutes:    3,
		DailyLevel:      1,
		DailyFloor:      1,
		CountFactor:     5,
		FloorCount:      20,
	}
	if err := validateConfig(valid); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*model.Config)
		want   string
	}{
		{"rounds", func(c *model.Config) { c.AdventureRounds = 0 }, "--rounds"},
		{"max level", func(c *model.Config) { c.MaxLevel = 0 }, "--max-level"},
		{"minutes", func(c *model.Config) { c.DailyMinutes = -1 }, "--minutes"},
		{"floor", func(c *model.Config) { c.DailyFloor = 0 }, "--floor"},
		{"level", func(c *model.Config) { c.DailyLevel = 0 }, "--level"},
		{"count factor", func(c *model.Config) { c.CountFactor = 0 }, "--count-factor"},
		{"floor count", func(c *model.Config) { c.FloorCount = 0 }, "--floor-count"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			err := validateConfig(cfg)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %s, got %v", tc.want, err)
			}
		})
	}
}

func TestParseStatsConfig(t *testing.T) {
	t.Cleanup(func() {
		statsMode, statsSince, statsLast, statsCurveWindow = "", "", 0, defaultCurveWindow
	})

	statsMode, statsSince, statsLast, statsCurveWindow = "daily", "2026-03-01", 10, 5
	cfg, err := parseStatsConfig()
	if err != nil {
		t.Fatalf("parseStatsConfig: %v", err)
	}
	if cfg.Mode != model.ModeDaily || cfg.Last != 10 || cfg.CurveWindow != 5 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Since == nil || cfg.Since.Format("2006-01-02") != "2026-03-01" {
		t.Fatalf("unexpected since: %v", cfg.Since)
	}

	statsMode = "weekly"
	if _, err := parseStatsConfig(); err == nil {
		t.Fatalf("expected invalid mode error")
	}
	statsMode, statsSince = "", "03/01/2026"
	if _, err := parseStatsConfig(); err == nil {
		t.Fatalf("expected invalid since error")
	}
	statsSince, statsCurveWindow = "", 0
	if _, err := parseStatsConfig(); err == nil {
		t.Fatalf("expected invalid curve window error")
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var lines []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		lines = append(lines, line)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Lang == nil || *cfg.Lang != defaultLang {
		t.Fatalf("unexpected lang: %v", cfg.Lang)
	}
	if cfg.Adventure.Rounds == nil || *cfg.Adventure.Rounds != defaultRounds {
		t.Fatalf("unexpected rounds: %v", cfg.Adventure.Rounds)
	}
	if cfg.Daily.FloorCount == nil || *cfg.Daily.FloorCount != 20 {
		t.Fatalf("unexpected floor-count: %v", cfg.Daily.FloorCount)
	}
	if cfg.Feedback.Timeout == nil || *cfg.Feedback.Timeout != 15*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.Feedback.Timeout)
	}
	if cfg.Feedback.Model == nil || *cfg.Feedback.Model != feedback.DefaultModel {
		t.Fatalf("unexpected model: %v", cfg.Feedback.Model)
	}
}

func TestNewFeedbackProvider(t *testing.T) {
	t.Cleanup(func() { feedbackEnabled = true })

	feedbackEnabled = false
	if p := newFeedbackProvider(settings{}); p != nil {
		t.Fatalf("expected no provider when feedback is disabled")
	}
	feedbackEnabled = true
	if p := newFeedbackProvider(settings{}); p == nil {
		t.Fatalf("expected a provider when feedback is enabled")
	}
}

func TestNewLoggerDiscardsByDefault(t *testing.T) {
	log, closer, err := newLogger("")
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	if closer != nil {
		t.Fatalf("expected no log file without a level")
	}
	log.Info("dropped")

	if _, _, err := newLogger("loud"); err == nil {
		t.Fatalf("expected invalid level error")
	}
}
