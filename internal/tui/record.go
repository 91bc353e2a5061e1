package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/verte-zerg/nback/internal/checkin"
	"github.com/verte-zerg/nback/internal/engine"
	"github.com/verte-zerg/nback/internal/model"
)

// Recorder persists finished sessions. *store.Store satisfies it.
type Recorder interface {
	LoadProgress(ctx context.Context) (model.Progress, error)
	SaveProgress(ctx context.Context, p model.Progress) error
	InsertSession(ctx context.Context, s model.Session) (int64, error)
	InsertDailyLog(ctx context.Context, l model.DailyLog) error
}

// Outcome is what recording a session changed.
type Outcome struct {
	Progress  model.Progress
	CheckedIn bool
	Unlocked  bool
}

// Record stores a finished, non-aborted session: it merges progression,
// applies the daily check-in and appends the daily log entry.
func Record(ctx context.Context, rec Recorder, snap engine.Snapshot, now time.Time) (Outcome, error) {
	if snap.Phase != engine.Finished || snap.Aborted {
		return Outcome{}, nil
	}
	s := snap.Session
	p, err := rec.LoadProgress(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to load progress: %w", err)
	}
	var out Outcome
	switch s.Mode {
	case model.ModeAdventure:
		if snap.Unlocked > p.UnlockedLevel {
			p.UnlockedLevel = snap.Unlocked
			out.Unlocked = true
		}
	case model.ModeDaily:
		p.DailyMaxLevelReached = max(p.DailyMaxLevelReached, s.MaxLevelReached)
		if err := rec.InsertDailyLog(ctx, checkin.DailyLogFor(s, now)); err != nil {
			return Outcome{}, fmt.Errorf("failed to save daily log: %w", err)
		}
	}
	if checkin.Eligible(s, snap.Aborted) {
		p, out.CheckedIn = checkin.CheckIn(p, now)
	}
	if err := rec.SaveProgress(ctx, p); err != nil {
		return Outcome{}, fmt.Errorf("failed to save progress: %w", err)
	}
	if _, err := rec.InsertSession(ctx, s); err != nil {
		return Outcome{}, fmt.Errorf("failed to save session: %w", err)
	}
	out.Progress = p
	return out, nil
}
