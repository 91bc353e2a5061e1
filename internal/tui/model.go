// Package tui provides the Bubble Tea n-back interface.
package tui

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/nback/internal/engine"
	"github.com/verte-zerg/nback/internal/feedback"
	"github.com/verte-zerg/nback/internal/generator"
)

const tickInterval = time.Second

// Options configures a game Model.
type Options struct {
	Engine *engine.Engine
	Mode   engine.Mode
	Level  int
	// Tutorial disables persistence and feedback and only accepts the
	// scripted answers.
	Tutorial bool
	Recorder Recorder
	Feedback feedback.Provider
	Locale   feedback.Locale
	Logger   *slog.Logger
	Now      func() time.Time
}

type tickMsg time.Time

type feedbackMsg string

// Model implements the Bubble Tea game UI.
type Model struct {
	opts Options
	text texts
	log  *slog.Logger

	snap     engine.Snapshot
	startErr error
	wrong    bool
	outcome  Outcome
	saveErr  error
	feedback string
	waiting  bool
	done     bool

	bar  progress.Model
	help help.Model

	width  int
	height int
}

// NewModel constructs a game model. The session starts in Init.
func NewModel(opts Options) *Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Model{
		opts: opts,
		text: textsFor(opts.Locale),
		log:  opts.Logger.With(slog.String("component", "tui")),
		bar:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help: help.New(),
	}
}

// NewTutorial builds the scripted 1-back walkthrough.
func NewTutorial(loc feedback.Locale, log *slog.Logger) *Model {
	script := generator.Tutorial()
	eng := engine.New(generator.NewScript(script, nil), engine.WithLogger(log))
	return NewModel(Options{
		Engine:   eng,
		Mode:     engine.Adventure{Rounds: len(script)},
		Level:    1,
		Tutorial: true,
		Locale:   loc,
		Logger:   log,
	})
}

// Err returns the error that prevented the session from starting.
func (m *Model) Err() error {
	return m.startErr
}

// Snapshot returns the last engine snapshot.
func (m *Model) Snapshot() engine.Snapshot {
	return m.snap
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	snap, err := m.opts.Engine.Start(m.opts.Mode, m.opts.Level)
	if err != nil {
		m.startErr = err
		return tea.Quit
	}
	m.snap = snap
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.bar.Width = min(max(msg.Width/2, 10), 60)
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		if m.done {
			return m, nil
		}
		cmd := m.apply(m.opts.Engine.Tick())
		if m.done {
			return m, cmd
		}
		return m, tea.Batch(cmd, tick())
	case feedbackMsg:
		m.feedback = string(msg)
		m.waiting = false
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		if !m.done {
			m.apply(m.opts.Engine.Quit())
		}
		return m, tea.Quit
	case m.done:
		if msg.Type == tea.KeyEnter {
			return m, tea.Quit
		}
		return m, nil
	case key.Matches(msg, keys.Digit):
		d := int(msg.Runes[0] - '0')
		if m.opts.Tutorial && !m.tutorialAccepts(d) {
			m.wrong = true
			return m, nil
		}
		before := len(m.snap.Session.History)
		snap := m.opts.Engine.SubmitDigit(d)
		m.wrong = false
		if n := len(snap.Session.History); n > before {
			m.wrong = !snap.Session.History[n-1].IsCorrect
		}
		return m, m.apply(snap)
	case key.Matches(msg, keys.Acknowledge):
		m.wrong = false
		return m, m.apply(m.opts.Engine.AcknowledgeMemorized())
	}
	return m, nil
}

// tutorialAccepts only lets the expected digit through so the walkthrough
// cannot go off script.
func (m *Model) tutorialAccepts(d int) bool {
	if !m.snap.Phase.AcceptsDigits() {
		return false
	}
	script := generator.Tutorial()
	idx := m.snap.CurrentIndex - m.snap.NLevel
	if idx < 0 || idx >= len(script) {
		return false
	}
	return script[idx].Answer == d
}

// apply stores snap and, on the transition to Finished, records the
// session and requests feedback.
func (m *Model) apply(snap engine.Snapshot) tea.Cmd {
	wasDone := m.done
	m.snap = snap
	if snap.Phase != engine.Finished || wasDone {
		return nil
	}
	m.done = true
	if snap.Aborted || m.opts.Tutorial {
		return nil
	}
	if m.opts.Recorder != nil {
		outcome, err := Record(context.Background(), m.opts.Recorder, snap, m.opts.Now())
		if err != nil {
			m.log.Error("record session", slog.String("error", err.Error()))
			m.saveErr = err
		}
		m.outcome = outcome
	}
	m.waiting = true
	return requestFeedback(m.opts.Feedback, snap, m.opts.Locale, m.log)
}

func requestFeedback(p feedback.Provider, snap engine.Snapshot, loc feedback.Locale, log *slog.Logger) tea.Cmd {
	session := snap.Session.Clone()
	return func() tea.Msg {
		return feedbackMsg(feedback.Get(context.Background(), p, session, loc, log))
	}
}
