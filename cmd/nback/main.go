// Package main provides the CLI entrypoint for nback.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/nback/internal/config"
	"github.com/verte-zerg/nback/internal/engine"
	"github.com/verte-zerg/nback/internal/feedback"
	"github.com/verte-zerg/nback/internal/generator"
	"github.com/verte-zerg/nback/internal/model"
	"github.com/verte-zerg/nback/internal/stats"
	"github.com/verte-zerg/nback/internal/statsui"
	"github.com/verte-zerg/nback/internal/store"
	"github.com/verte-zerg/nback/internal/tui"
)

const (
	defaultLang         = "en"
	defaultRounds       = engine.DefaultAdventureRounds
	defaultMaxLevel     = engine.DefaultMaxLevel
	defaultDailyMinutes = 3
	defaultDailyLevel   = 1
	defaultCurveWindow  = 20
	defaultStatusLogs   = 7
)

var (
	practiceLang     string
	practiceLogLevel string

	adventureLevel    int
	adventureRounds   int
	adventureMaxLevel int

	dailyMinutes     int
	dailyLevel       int
	dailyFloor       int
	dailyCountFactor int
	dailyFloorCount  int

	feedbackEnabled bool

	statsMode        string
	statsSince       string
	statsLast        int
	statsCurveWindow int

	statusLogs int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "nback",
		Short:         "Arithmetic N-Back trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runAdventureCmd,
	}

	rootCmd.PersistentFlags().StringVar(&practiceLang, "lang", defaultLang, "interface language (en or zh)")
	rootCmd.PersistentFlags().StringVar(&practiceLogLevel, "log-level", "", "write logs to the state dir (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&feedbackEnabled, "feedback", true, "ask the coach for feedback after a session")

	rootCmd.Flags().IntVar(&adventureLevel, "level", 0, "N-Back level (default: highest unlocked)")
	rootCmd.Flags().IntVar(&adventureRounds, "rounds", defaultRounds, "answers per adventure round")
	rootCmd.Flags().IntVar(&adventureMaxLevel, "max-level", defaultMaxLevel, "highest level that can be unlocked")

	rootCmd.AddCommand(newDailyCmd())
	rootCmd.AddCommand(newTutorialCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// settings bundles what every play command resolves before starting.
type settings struct {
	file   config.FileConfig
	env    config.Env
	locale feedback.Locale
	log    *slog.Logger
	logOut io.Closer
}

func (s settings) close() {
	if s.logOut == nil {
		return
	}
	if err := s.logOut.Close(); err != nil {
		// Best-effort close of the log file.
		_ = err
	}
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	env, err := config.LoadEnv()
	if err != nil {
		return settings{}, err
	}
	applyStringConfig(cmd, "lang", &practiceLang, fileCfg.Lang)
	applyStringConfig(cmd, "log-level", &practiceLogLevel, fileCfg.LogLevel)
	applyBoolConfig(cmd, "feedback", &feedbackEnabled, fileCfg.Feedback.Enabled)

	if practiceLang != string(feedback.LocaleEN) && practiceLang != string(feedback.LocaleZH) {
		return settings{}, fmt.Errorf("--lang must be en or zh")
	}
	log, out, err := newLogger(practiceLogLevel)
	if err != nil {
		return settings{}, err
	}
	return settings{
		file:   fileCfg,
		env:    env,
		locale: feedback.ParseLocale(practiceLang),
		log:    log,
		logOut: out,
	}, nil
}

// newLogger writes structured logs to a file so the alt screen stays clean.
// An empty level discards everything.
func newLogger(level string) (*slog.Logger, io.Closer, error) {
	if level == "" {
		return slog.New(slog.DiscardHandler), nil, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level value: %w", err)
	}
	path := config.DefaultLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl})), f, nil
}

func newFeedbackProvider(s settings) feedback.Provider {
	if !feedbackEnabled {
		return nil
	}
	cfg := feedback.ClaudeConfig{
		APIKey:  s.env.APIKey(),
		Model:   feedback.DefaultModel,
		BaseURL: s.env.FeedbackBaseURL,
		Timeout: feedback.DefaultTimeout,
	}
	if s.file.Feedback.Model != nil {
		cfg.Model = *s.file.Feedback.Model
	}
	if s.file.Feedback.Timeout != nil {
		cfg.Timeout = *s.file.Feedback.Timeout
	}
	if s.env.FeedbackModel != "" {
		cfg.Model = s.env.FeedbackModel
	}
	if s.env.FeedbackTimeout > 0 {
		cfg.Timeout = s.env.FeedbackTimeout
	}
	return feedback.NewClaude(cfg, s.log)
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func runAdventureCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	applyIntConfig(cmd, "level", &adventureLevel, s.file.Adventure.Level)
	applyIntConfig(cmd, "rounds", &adventureRounds, s.file.Adventure.Rounds)
	applyIntConfig(cmd, "max-level", &adventureMaxLevel, s.file.Adventure.MaxLevel)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	progress, err := st.LoadProgress(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}
	level := adventureLevel
	if level == 0 {
		level = min(progress.UnlockedLevel, adventureMaxLevel)
	}

	cfg := model.Config{
		Lang:            practiceLang,
		AdventureRounds: adventureRounds,
		MaxLevel:        adventureMaxLevel,
		DailyMinutes:    defaultDailyMinutes,
		DailyLevel:      defaultDailyLevel,
		DailyFloor:      engine.DefaultFloor,
		CountFactor:     engine.DefaultCountFactor,
		FloorCount:      engine.DefaultFloorCount,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if level < 1 || level > cfg.MaxLevel {
		return fmt.Errorf("--level must be between 1 and %d", cfg.MaxLevel)
	}

	eng := engine.New(generator.New(),
		engine.WithLogger(s.log),
		engine.WithProgression(engine.NewProgression(progress.UnlockedLevel, cfg.MaxLevel)),
	)
	m := tui.NewModel(tui.Options{
		Engine:   eng,
		Mode:     engine.Adventure{Rounds: cfg.AdventureRounds},
		Level:    level,
		Recorder: st,
		Feedback: newFeedbackProvider(s),
		Locale:   s.locale,
		Logger:   s.log,
	})
	return runGame(m)
}

func newDailyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Start a timed, adaptive daily training",
		Args:  cobra.NoArgs,
		RunE:  runDailyCmd,
	}
	cmd.Flags().IntVar(&dailyMinutes, "minutes", defaultDailyMinutes, "training time budget in minutes")
	cmd.Flags().IntVar(&dailyLevel, "level", defaultDailyLevel, "starting N-Back level")
	cmd.Flags().IntVar(&dailyFloor, "floor", engine.DefaultFloor, "lowest level the trainer may drop to")
	cmd.Flags().IntVar(&dailyCountFactor, "count-factor", engine.DefaultCountFactor, "batch answers per level")
	cmd.Flags().IntVar(&dailyFloorCount, "floor-count", engine.DefaultFloorCount, "minimum batch answers")
	return cmd
}

func runDailyCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	applyIntConfig(cmd, "minutes", &dailyMinutes, s.file.Daily.Minutes)
	applyIntConfig(cmd, "level", &dailyLevel, s.file.Daily.Level)
	applyIntConfig(cmd, "floor", &dailyFloor, s.file.Daily.Floor)
	applyIntConfig(cmd, "count-factor", &dailyCountFactor, s.file.Daily.CountFactor)
	applyIntConfig(cmd, "floor-count", &dailyFloorCount, s.file.Daily.FloorCount)

	cfg := model.Config{
		Lang:            practiceLang,
		AdventureRounds: defaultRounds,
		MaxLevel:        defaultMaxLevel,
		DailyMinutes:    dailyMinutes,
		DailyLevel:      dailyLevel,
		DailyFloor:      dailyFloor,
		CountFactor:     dailyCountFactor,
		FloorCount:      dailyFloorCount,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	eng := engine.New(generator.New(), engine.WithLogger(s.log))
	m := tui.NewModel(tui.Options{
		Engine: eng,
		Mode: engine.Daily{
			Budget: time.Duration(cfg.DailyMinutes) * time.Minute,
			Adaptive: engine.Adaptive{
				Floor:       cfg.DailyFloor,
				CountFactor: cfg.CountFactor,
				FloorCount:  cfg.FloorCount,
			},
		},
		Level:    max(cfg.DailyLevel, cfg.DailyFloor),
		Recorder: st,
		Feedback: newFeedbackProvider(s),
		Locale:   s.locale,
		Logger:   s.log,
	})
	return runGame(m)
}

func newTutorialCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tutorial",
		Short: "Walk through a scripted 1-Back round",
		Args:  cobra.NoArgs,
		RunE:  runTutorialCmd,
	}
}

func runTutorialCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer s.close()
	return runGame(tui.NewTutorial(s.locale, s.log))
}

func runGame(m *tui.Model) error {
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if err := m.Err(); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter (adventure or daily)")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func parseStatsConfig() (model.StatsConfig, error) {
	cfg := model.StatsConfig{Last: statsLast, CurveWindow: statsCurveWindow}
	if statsMode != "" {
		if err := cfg.Mode.UnmarshalText([]byte(statsMode)); err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --mode value: %w", err)
		}
	}
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	if cfg.Last < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if cfg.CurveWindow <= 0 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be > 0")
	}
	return cfg, nil
}

func runStatsCmd(_ *cobra.Command, _ []string) error {
	cfg, err := parseStatsConfig()
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	m := statsui.NewModel(statsui.StoreLoader(st), cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print progress, streak and recent daily logs",
		Args:  cobra.NoArgs,
		RunE:  runStatusCmd,
	}
	cmd.Flags().IntVar(&statusLogs, "logs", defaultStatusLogs, "number of daily log entries to show")
	return cmd
}

func runStatusCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	progress, err := st.LoadProgress(ctx)
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}
	sessions, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}
	logs, err := st.ListDailyLogs(ctx, statusLogs)
	if err != nil {
		return fmt.Errorf("failed to load daily logs: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, sessions, progress); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(logs) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderDailyLog(out, logs); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# nback configuration
# Uncomment a value to enable it. CLI flags override config values.
# The coach API key is read from NBACK_FEEDBACK_API_KEY or ANTHROPIC_API_KEY.

# lang = %q               # Interface language (en or zh)
# log-level = "info"       # Write logs to the state dir

[adventure]
# level = 1                # Starting level (default: highest unlocked)
# rounds = %d              # Answers per adventure round
# max-level = %d            # Highest level that can be unlocked

[daily]
# minutes = %d              # Training time budget
# level = %d                # Starting level
# floor = %d                # Lowest level the trainer may drop to
# count-factor = %d         # Batch answers per level
# floor-count = %d         # Minimum batch answers

[feedback]
# enabled = true
# model = %q
# timeout = %q
`,
		defaultLang,
		defaultRounds,
		defaultMaxLevel,
		defaultDailyMinutes,
		defaultDailyLevel,
		engine.DefaultFloor,
		engine.DefaultCountFactor,
		engine.DefaultFloorCount,
		feedback.DefaultModel,
		feedback.DefaultTimeout.String(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.AdventureRounds <= 0 {
		return fmt.Errorf("--rounds must be > 0")
	}
	if cfg.MaxLevel < 1 {
		return fmt.Errorf("--max-level must be >= 1")
	}
	if cfg.DailyMinutes <= 0 {
		return fmt.Errorf("--minutes must be > 0")
	}
	if cfg.DailyFloor < 1 {
		return fmt.Errorf("--floor must be >= 1")
	}
	if cfg.DailyLevel < 1 {
		return fmt.Errorf("--level must be >= 1")
	}
	if cfg.CountFactor <= 0 {
		return fmt.Errorf("--count-factor must be > 0")
	}
	if cfg.FloorCount <= 0 {
		return fmt.Errorf("--floor-count must be > 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
