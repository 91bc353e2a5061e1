// Package checkin applies the daily streak rules to stored progress.
package checkin

import (
	"time"

	"github.com/verte-zerg/nback/internal/model"
)

// DateLayout is the persisted check-in date format.
const DateLayout = "2006-01-02"

// Date formats t as a check-in date in t's location.
func Date(t time.Time) string {
	return t.Format(DateLayout)
}

// CheckIn records a check-in for the day of now. A second check-in on the
// same day is a no-op; a check-in the day after the last one extends the
// streak; anything else restarts it at 1. The bool reports whether progress
// changed.
func CheckIn(p model.Progress, now time.Time) (model.Progress, bool) {
	today := Date(now)
	if p.LastCheckInDate == today {
		return p, false
	}
	yesterday := Date(now.AddDate(0, 0, -1))
	if p.LastCheckInDate == yesterday {
		p.Streak++
	} else {
		p.Streak = 1
	}
	p.LastCheckInDate = today
	return p, true
}

// Eligible reports whether a finished session earns a check-in: any daily
// session, or an adventure session with at least one correct answer.
func Eligible(s model.Session, aborted bool) bool {
	if aborted {
		return false
	}
	switch s.Mode {
	case model.ModeDaily:
		return true
	case model.ModeAdventure:
		return s.Score > 0
	default:
		return false
	}
}

// DailyLogFor builds the log entry for a finished daily session.
func DailyLogFor(s model.Session, now time.Time) model.DailyLog {
	return model.DailyLog{
		Date:            Date(now),
		DurationMinutes: int(s.Duration / time.Minute),
		NLevel:          s.MaxLevelReached,
		Score:           s.Score,
	}
}
