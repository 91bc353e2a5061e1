// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// Mode identifies how a session is structured.
type Mode string

const (
	// ModeAdventure is a fixed-count round at a user-selected level.
	ModeAdventure Mode = "adventure"
	// ModeDaily is a time-boxed run of adaptive batches.
	ModeDaily Mode = "daily"
)

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if m != ModeAdventure && m != ModeDaily {
		return nil, fmt.Errorf("invalid mode: %q", string(m))
	}
	return []byte(m), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	switch Mode(text) {
	case ModeAdventure, ModeDaily:
		*m = Mode(text)
		return nil
	default:
		return fmt.Errorf("invalid mode: %q", text)
	}
}

// Stimulus is one generated arithmetic fact. Answer is always a single digit.
type Stimulus struct {
	ID         string
	Expression string
	Answer     int
}

// TrialResult records one resolved answer.
type TrialResult struct {
	Question      string
	UserAnswer    string
	CorrectAnswer int
	IsCorrect     bool
	StageLevel    int
	TimeTaken     time.Duration
}

// Session captures a practice session across one or more batches.
type Session struct {
	Mode            Mode
	NLevel          int
	Score           int
	TotalQuestions  int
	MaxCombo        int
	History         []TrialResult
	MaxLevelReached int
	Duration        time.Duration
	StartedAt       time.Time
	EndedAt         time.Time
}

// Clone returns a copy that shares no mutable state with s.
func (s Session) Clone() Session {
	out := s
	if s.History != nil {
		out.History = make([]TrialResult, len(s.History))
		copy(out.History, s.History)
	}
	return out
}

// Accuracy returns Score/TotalQuestions, or 0 for an empty session.
func (s Session) Accuracy() float64 {
	if s.TotalQuestions <= 0 {
		return 0
	}
	return float64(s.Score) / float64(s.TotalQuestions)
}

// DailyLog is one completed daily training entry.
type DailyLog struct {
	Date            string
	DurationMinutes int
	NLevel          int
	Score           int
}

// Progress holds persisted cross-session state.
type Progress struct {
	UnlockedLevel        int
	DailyMaxLevelReached int
	Streak               int
	LastCheckInDate      string
}

// Config defines practice settings resolved from flags and the config file.
type Config struct {
	Lang            string
	AdventureRounds int
	MaxLevel        int
	DailyMinutes    int
	DailyLevel      int
	DailyFloor      int
	CountFactor     int
	FloorCount      int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Mode        Mode
	Since       *time.Time
	Last        int
	CurveWindow int
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID       int64
	Mode            Mode
	EndedAt         time.Time
	NLevel          int
	MaxLevelReached int
	Score           int
	TotalQuestions  int
	MaxCombo        int
	DurationMs      int64
}
