package engine

import (
	"time"

	"github.com/verte-zerg/nback/internal/model"
)

// DefaultAdventureRounds is the answer count of an adventure batch.
const DefaultAdventureRounds = 15

// DefaultDailyBudget is used when a Daily mode has no budget set.
const DefaultDailyBudget = 3 * time.Minute

// DailyLookahead is how many stimuli the daily queue keeps past the cursor.
const DailyLookahead = 5

// Mode selects how the round controller structures a session.
// It is implemented by Adventure and Daily only.
type Mode interface {
	Kind() model.Mode
	plan(level int) int
	lookahead() int
	budget() time.Duration
}

// Adventure is a single batch of a fixed size.
type Adventure struct {
	Rounds int
}

// Kind implements Mode.
func (a Adventure) Kind() model.Mode { return model.ModeAdventure }

func (a Adventure) plan(int) int {
	if a.Rounds <= 0 {
		return DefaultAdventureRounds
	}
	return a.Rounds
}

// The whole batch is generated up front.
func (a Adventure) lookahead() int { return 0 }

func (a Adventure) budget() time.Duration { return 0 }

// Daily runs adaptive batches until the time budget is spent.
type Daily struct {
	Budget   time.Duration
	Adaptive Adaptive
}

// Kind implements Mode.
func (d Daily) Kind() model.Mode { return model.ModeDaily }

func (d Daily) plan(level int) int { return d.Adaptive.BatchSize(level) }

func (d Daily) lookahead() int { return DailyLookahead }

func (d Daily) budget() time.Duration {
	if d.Budget <= 0 {
		return DefaultDailyBudget
	}
	return d.Budget
}
