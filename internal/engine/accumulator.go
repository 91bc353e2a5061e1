package engine

import (
	"time"

	"github.com/verte-zerg/nback/internal/model"
)

// Accumulator aggregates score, combo and answer history for one session.
// It has a single writer: the owning Engine.
type Accumulator struct {
	session model.Session
	combo   int
}

// NewAccumulator starts an empty session.
func NewAccumulator(mode model.Mode, level int, startedAt time.Time) *Accumulator {
	return &Accumulator{session: model.Session{
		Mode:            mode,
		NLevel:          level,
		MaxLevelReached: level,
		StartedAt:       startedAt,
	}}
}

// Record appends a resolved trial and updates score and combo.
func (a *Accumulator) Record(r model.TrialResult) {
	a.session.History = append(a.session.History, r)
	if !r.IsCorrect {
		a.combo = 0
		return
	}
	a.session.Score++
	a.combo++
	if a.combo > a.session.MaxCombo {
		a.session.MaxCombo = a.combo
	}
}

// Combo returns the current run of consecutive correct answers.
func (a *Accumulator) Combo() int {
	return a.combo
}

// Answered returns the number of recorded trials.
func (a *Accumulator) Answered() int {
	return len(a.session.History)
}

// SetLevel records the lag of the batch now being played.
func (a *Accumulator) SetLevel(level int) {
	a.session.NLevel = level
	if level > a.session.MaxLevelReached {
		a.session.MaxLevelReached = level
	}
}

// BatchAccuracy returns accuracy over the most recent planned entries.
func (a *Accumulator) BatchAccuracy(planned int) float64 {
	return BatchAccuracy(a.session.History, planned)
}

// Accuracy returns accuracy over the whole history.
func (a *Accumulator) Accuracy() float64 {
	return BatchAccuracy(a.session.History, len(a.session.History))
}

// Session returns a copy of the session in its current state.
func (a *Accumulator) Session() model.Session {
	return a.session.Clone()
}

// Finalize stamps the end of the session. Adventure sessions keep the
// planned count as their total; daily sessions count what was answered.
func (a *Accumulator) Finalize(planned int, endedAt time.Time) model.Session {
	switch a.session.Mode {
	case model.ModeDaily:
		a.session.TotalQuestions = len(a.session.History)
	default:
		a.session.TotalQuestions = planned
	}
	a.session.EndedAt = endedAt
	return a.session.Clone()
}

// BatchAccuracy computes correct/total over the last planned entries of
// history. It does not modify history.
func BatchAccuracy(history []model.TrialResult, planned int) float64 {
	if planned <= 0 || len(history) == 0 {
		return 0
	}
	window := history
	if len(history) > planned {
		window = history[len(history)-planned:]
	}
	correct := 0
	for _, r := range window {
		if r.IsCorrect {
			correct++
		}
	}
	return float64(correct) / float64(len(window))
}
