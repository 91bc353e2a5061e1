package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/nback/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "nback.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return st
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nback.db")
	for i := 0; i < 2; i++ {
		st, err := Open(path)
		if err != nil {
			t.Fatalf("open #%d: %v", i, err)
		}
		if err := st.Close(); err != nil {
			t.Fatalf("close #%d: %v", i, err)
		}
	}
}

func TestProgressRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	got, err := st.LoadProgress(ctx)
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if got != (model.Progress{UnlockedLevel: 1}) {
		t.Fatalf("unexpected default progress %+v", got)
	}

	want := model.Progress{UnlockedLevel: 4, DailyMaxLevelReached: 6, Streak: 3, LastCheckInDate: "2026-03-10"}
	if err := st.SaveProgress(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	want.Streak = 4
	if err := st.SaveProgress(ctx, want); err != nil {
		t.Fatalf("save again: %v", err)
	}
	got, err = st.LoadProgress(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("LoadProgress = %+v, want %+v", got, want)
	}
}

func TestDailyLogs(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	logs := []model.DailyLog{
		{Date: "2026-03-08", DurationMinutes: 3, NLevel: 2, Score: 30},
		{Date: "2026-03-09", DurationMinutes: 5, NLevel: 3, Score: 51},
		{Date: "2026-03-10", DurationMinutes: 10, NLevel: 4, Score: 99},
	}
	for _, l := range logs {
		if err := st.InsertDailyLog(ctx, l); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	got, err := st.ListDailyLogs(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0] != logs[2] || got[1] != logs[1] {
		t.Fatalf("unexpected logs %+v", got)
	}
	all, err := st.ListDailyLogs(ctx, 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected all logs, got %d (%v)", len(all), err)
	}
}

func TestSessionsAndTrials(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	insert := func(mode model.Mode, offset time.Duration, score int) int64 {
		t.Helper()
		s := model.Session{
			Mode:            mode,
			NLevel:          2,
			Score:           score,
			TotalQuestions:  3,
			MaxCombo:        2,
			MaxLevelReached: 2,
			StartedAt:       base.Add(offset),
			EndedAt:         base.Add(offset + 90*time.Second),
			History: []model.TrialResult{
				{Question: "1 + 2", UserAnswer: "3", CorrectAnswer: 3, IsCorrect: true, StageLevel: 2, TimeTaken: 1200 * time.Millisecond},
				{Question: "4 - 1", UserAnswer: "2", CorrectAnswer: 3, IsCorrect: false, StageLevel: 2, TimeTaken: 800 * time.Millisecond},
			},
		}
		id, err := st.InsertSession(ctx, s)
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		return id
	}
	first := insert(model.ModeAdventure, 0, 1)
	insert(model.ModeDaily, time.Hour, 2)
	insert(model.ModeAdventure, 2*time.Hour, 3)

	all, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].SessionID != first || all[2].Score != 3 {
		t.Fatalf("expected oldest-first sessions, got %+v", all)
	}
	if all[0].DurationMs != 90000 || !all[0].EndedAt.Equal(base.Add(90*time.Second)) {
		t.Fatalf("unexpected aggregate %+v", all[0])
	}

	adv, err := st.ListSessions(ctx, model.StatsConfig{Mode: model.ModeAdventure, Last: 1})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(adv) != 1 || adv[0].Score != 3 || adv[0].Mode != model.ModeAdventure {
		t.Fatalf("unexpected filtered sessions %+v", adv)
	}

	since := base.Add(30 * time.Minute)
	recent, err := st.ListSessions(ctx, model.StatsConfig{Since: &since})
	if err != nil || len(recent) != 2 {
		t.Fatalf("expected 2 sessions since %s, got %d (%v)", since, len(recent), err)
	}

	trials, err := st.ListTrials(ctx, first)
	if err != nil {
		t.Fatalf("trials: %v", err)
	}
	if len(trials) != 2 || !trials[0].IsCorrect || trials[1].IsCorrect || trials[1].TimeTaken != 800*time.Millisecond {
		t.Fatalf("unexpected trials %+v", trials)
	}
}
