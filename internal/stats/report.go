package stats

import (
	"context"

	"github.com/verte-zerg/nback/internal/model"
	"github.com/verte-zerg/nback/internal/store"
)

const hardestFactsShown = 8

// Report contains precomputed data for stats rendering.
type Report struct {
	Progress  model.Progress
	Sessions  []model.SessionAggregate
	DailyLogs []model.DailyLog
	Facts     []FactAggregate
	Levels    []LevelAggregate
}

// BuildReport loads and prepares data for stats rendering. Fact and level
// breakdowns cover the last cfg.CurveWindow sessions.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	progress, err := st.LoadProgress(ctx)
	if err != nil {
		return Report{}, err
	}
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	logs, err := st.ListDailyLogs(ctx, 0)
	if err != nil {
		return Report{}, err
	}

	var trials []model.TrialResult
	for _, s := range lastSessions(sessions, cfg.CurveWindow) {
		ts, err := st.ListTrials(ctx, s.SessionID)
		if err != nil {
			return Report{}, err
		}
		trials = append(trials, ts...)
	}

	return Report{
		Progress:  progress,
		Sessions:  sessions,
		DailyLogs: logs,
		Facts:     HardestFacts(AggregateFacts(trials), hardestFactsShown),
		Levels:    AggregateLevels(trials),
	}, nil
}

func lastSessions(sessions []model.SessionAggregate, window int) []model.SessionAggregate {
	if window <= 0 || len(sessions) <= window {
		return sessions
	}
	return sessions[len(sessions)-window:]
}
