package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/nback/internal/model"
	"github.com/verte-zerg/nback/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "nback.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		session := model.Session{
			Mode:            model.ModeAdventure,
			NLevel:          i + 1,
			Score:           1,
			TotalQuestions:  2,
			MaxCombo:        1,
			MaxLevelReached: i + 1,
			StartedAt:       start,
			EndedAt:         start.Add(30 * time.Second),
			History: []model.TrialResult{
				{Question: "2 + 2", UserAnswer: "4", CorrectAnswer: 4, IsCorrect: true, StageLevel: i + 1},
				{Question: "7 - 3", UserAnswer: "5", CorrectAnswer: 4, IsCorrect: false, StageLevel: i + 1},
			},
		}
		id, err := st.InsertSession(ctx, session)
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		ids = append(ids, id)
	}
	if err := st.InsertDailyLog(ctx, model.DailyLog{Date: "1970-01-01", DurationMinutes: 3, NLevel: 2, Score: 10}); err != nil {
		t.Fatalf("insert daily log: %v", err)
	}

	cfg := model.StatsConfig{
		Mode:        model.ModeAdventure,
		Last:        2,
		CurveWindow: 1,
	}
	report, err := BuildReport(ctx, st, cfg)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].SessionID != ids[1] || report.Sessions[1].SessionID != ids[2] {
		t.Fatalf("unexpected session ids: %+v", report.Sessions)
	}
	if len(report.DailyLogs) != 1 || report.Progress.UnlockedLevel != 1 {
		t.Fatalf("unexpected logs/progress: %+v %+v", report.DailyLogs, report.Progress)
	}
	if len(report.Facts) != 2 || report.Facts[0].Question != "7 - 3" {
		t.Fatalf("expected hardest fact first, got %+v", report.Facts)
	}
	if len(report.Levels) != 1 || report.Levels[0].Level != 3 {
		t.Fatalf("expected only the windowed session's level, got %+v", report.Levels)
	}
}
