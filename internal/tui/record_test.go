package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/verte-zerg/nback/internal/engine"
	"github.com/verte-zerg/nback/internal/model"
)

type fakeRecorder struct {
	progress  model.Progress
	loadErr   error
	sessions  []model.Session
	dailyLogs []model.DailyLog
	saves     int
}

func (f *fakeRecorder) LoadProgress(context.Context) (model.Progress, error) {
	return f.progress, f.loadErr
}

func (f *fakeRecorder) SaveProgress(_ context.Context, p model.Progress) error {
	f.saves++
	f.progress = p
	return nil
}

func (f *fakeRecorder) InsertSession(_ context.Context, s model.Session) (int64, error) {
	f.sessions = append(f.sessions, s)
	return int64(len(f.sessions)), nil
}

func (f *fakeRecorder) InsertDailyLog(_ context.Context, l model.DailyLog) error {
	f.dailyLogs = append(f.dailyLogs, l)
	return nil
}

var recordNow = time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)

func TestRecordAdventureUnlock(t *testing.T) {
	rec := &fakeRecorder{progress: model.Progress{UnlockedLevel: 2, Streak: 4, LastCheckInDate: "2026-03-01"}}
	snap := engine.Snapshot{
		Phase:    engine.Finished,
		Unlocked: 3,
		Session:  model.Session{Mode: model.ModeAdventure, NLevel: 2, Score: 14, TotalQuestions: 15},
	}

	out, err := Record(context.Background(), rec, snap, recordNow)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if !out.Unlocked || out.Progress.UnlockedLevel != 3 {
		t.Fatalf("expected unlock to level 3, got %+v", out)
	}
	if !out.CheckedIn || out.Progress.Streak != 5 {
		t.Fatalf("expected streak 5 after check-in, got %+v", out)
	}
	if len(rec.sessions) != 1 || len(rec.dailyLogs) != 0 {
		t.Fatalf("expected one session and no daily logs, got %d/%d", len(rec.sessions), len(rec.dailyLogs))
	}
	if rec.progress.UnlockedLevel != 3 {
		t.Fatalf("expected saved unlocked level 3, got %d", rec.progress.UnlockedLevel)
	}
}

func TestRecordAdventureZeroScoreSkipsCheckIn(t *testing.T) {
	rec := &fakeRecorder{progress: model.Progress{UnlockedLevel: 1}}
	snap := engine.Snapshot{
		Phase:    engine.Finished,
		Unlocked: 1,
		Session:  model.Session{Mode: model.ModeAdventure, NLevel: 1, TotalQuestions: 15},
	}
	out, err := Record(context.Background(), rec, snap, recordNow)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if out.CheckedIn || out.Unlocked {
		t.Fatalf("expected no check-in or unlock, got %+v", out)
	}
	if rec.progress.Streak != 0 {
		t.Fatalf("expected streak untouched, got %d", rec.progress.Streak)
	}
}

func TestRecordDaily(t *testing.T) {
	rec := &fakeRecorder{progress: model.Progress{UnlockedLevel: 1, DailyMaxLevelReached: 2}}
	snap := engine.Snapshot{
		Phase: engine.Finished,
		Session: model.Session{
			Mode:            model.ModeDaily,
			NLevel:          1,
			MaxLevelReached: 4,
			Score:           30,
			TotalQuestions:  36,
			Duration:        3 * time.Minute,
		},
	}
	out, err := Record(context.Background(), rec, snap, recordNow)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if out.Progress.DailyMaxLevelReached != 4 {
		t.Fatalf("expected daily peak 4, got %d", out.Progress.DailyMaxLevelReached)
	}
	if !out.CheckedIn || out.Progress.Streak != 1 || out.Progress.LastCheckInDate != "2026-03-02" {
		t.Fatalf("unexpected check-in: %+v", out.Progress)
	}
	if len(rec.dailyLogs) != 1 {
		t.Fatalf("expected one daily log, got %d", len(rec.dailyLogs))
	}
	want := model.DailyLog{Date: "2026-03-02", DurationMinutes: 3, NLevel: 4, Score: 30}
	if rec.dailyLogs[0] != want {
		t.Fatalf("daily log = %+v, want %+v", rec.dailyLogs[0], want)
	}
}

func TestRecordSkipsAbortedAndUnfinished(t *testing.T) {
	cases := []struct {
		name string
		snap engine.Snapshot
	}{
		{"aborted", engine.Snapshot{Phase: engine.Finished, Aborted: true, Session: model.Session{Mode: model.ModeDaily}}},
		{"running", engine.Snapshot{Phase: engine.Answer, Session: model.Session{Mode: model.ModeAdventure}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &fakeRecorder{}
			out, err := Record(context.Background(), rec, tc.snap, recordNow)
			if err != nil {
				t.Fatalf("Record: %v", err)
			}
			if out != (Outcome{}) {
				t.Fatalf("expected empty outcome, got %+v", out)
			}
			if rec.saves != 0 || len(rec.sessions) != 0 || len(rec.dailyLogs) != 0 {
				t.Fatalf("expected nothing persisted")
			}
		})
	}
}

func TestRecordLoadError(t *testing.T) {
	boom := errors.New("boom")
	rec := &fakeRecorder{loadErr: boom}
	snap := engine.Snapshot{Phase: engine.Finished, Session: model.Session{Mode: model.ModeAdventure, Score: 1}}
	if _, err := Record(context.Background(), rec, snap, recordNow); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped load error, got %v", err)
	}
	if rec.saves != 0 {
		t.Fatalf("expected no save after load failure")
	}
}
