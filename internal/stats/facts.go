package stats

import (
	"sort"
	"time"

	"github.com/verte-zerg/nback/internal/model"
)

// FactAggregate summarizes every recorded answer to one arithmetic fact.
type FactAggregate struct {
	Question  string
	Correct   int
	Incorrect int
	TotalTime time.Duration
}

// Accuracy returns the share of correct answers, 1 when unanswered.
func (f FactAggregate) Accuracy() float64 {
	total := f.Correct + f.Incorrect
	if total == 0 {
		return 1
	}
	return float64(f.Correct) / float64(total)
}

// AvgTime returns the mean answer time.
func (f FactAggregate) AvgTime() time.Duration {
	total := f.Correct + f.Incorrect
	if total == 0 {
		return 0
	}
	return f.TotalTime / time.Duration(total)
}

// LevelAggregate summarizes answers given at one n-back level.
type LevelAggregate struct {
	Level     int
	Correct   int
	Incorrect int
}

// Accuracy returns the share of correct answers at the level.
func (l LevelAggregate) Accuracy() float64 {
	total := l.Correct + l.Incorrect
	if total == 0 {
		return 0
	}
	return float64(l.Correct) / float64(total)
}

// AggregateFacts groups trials by question text.
func AggregateFacts(trials []model.TrialResult) []FactAggregate {
	byQuestion := map[string]*FactAggregate{}
	var order []string
	for _, tr := range trials {
		agg, ok := byQuestion[tr.Question]
		if !ok {
			agg = &FactAggregate{Question: tr.Question}
			byQuestion[tr.Question] = agg
			order = append(order, tr.Question)
		}
		if tr.IsCorrect {
			agg.Correct++
		} else {
			agg.Incorrect++
		}
		agg.TotalTime += tr.TimeTaken
	}
	out := make([]FactAggregate, 0, len(order))
	for _, q := range order {
		out = append(out, *byQuestion[q])
	}
	return out
}

// HardestFacts returns up to n facts with the lowest accuracy, slowest
// first among ties.
func HardestFacts(aggs []FactAggregate, n int) []FactAggregate {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	sorted := make([]FactAggregate, len(aggs))
	copy(sorted, aggs)
	sort.Slice(sorted, func(i, j int) bool {
		ai, aj := sorted[i].Accuracy(), sorted[j].Accuracy()
		if ai != aj {
			return ai < aj
		}
		if ti, tj := sorted[i].AvgTime(), sorted[j].AvgTime(); ti != tj {
			return ti > tj
		}
		return sorted[i].Question < sorted[j].Question
	})
	return sorted[:min(n, len(sorted))]
}

// AggregateLevels groups trials by the level they were answered at, in
// ascending level order.
func AggregateLevels(trials []model.TrialResult) []LevelAggregate {
	byLevel := map[int]*LevelAggregate{}
	for _, tr := range trials {
		agg, ok := byLevel[tr.StageLevel]
		if !ok {
			agg = &LevelAggregate{Level: tr.StageLevel}
			byLevel[tr.StageLevel] = agg
		}
		if tr.IsCorrect {
			agg.Correct++
		} else {
			agg.Incorrect++
		}
	}
	out := make([]LevelAggregate, 0, len(byLevel))
	for _, agg := range byLevel {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out
}
