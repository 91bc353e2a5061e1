package store

import (
	"context"
	"fmt"
	"slices"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/verte-zerg/nback/internal/model"
)

// InsertSession stores a finished session and its trial history.
func (s *Store) InsertSession(ctx context.Context, session model.Session) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer rollback(tx, &err)

	query, args, err := queryBuilder().
		Insert("sessions").
		Columns("mode", "started_at", "ended_at", "n_level", "max_level_reached",
			"score", "total_questions", "max_combo", "duration_ms").
		Values(
			string(session.Mode),
			formatTime(session.StartedAt),
			formatTime(session.EndedAt),
			session.NLevel,
			session.MaxLevelReached,
			session.Score,
			session.TotalQuestions,
			session.MaxCombo,
			session.EndedAt.Sub(session.StartedAt).Milliseconds(),
		).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert session: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(session.History) > 0 {
		ins := queryBuilder().
			Insert("session_trials").
			Columns("session_id", "idx", "question", "user_answer", "correct_answer",
				"is_correct", "stage_level", "time_taken_ms")
		for i, tr := range session.History {
			ins = ins.Values(id, i, tr.Question, tr.UserAnswer, tr.CorrectAnswer,
				tr.IsCorrect, tr.StageLevel, tr.TimeTaken.Milliseconds())
		}
		query, args, err = ins.ToSql()
		if err != nil {
			return 0, err
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("failed to insert session trials: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListSessions returns session aggregates filtered by stats config, oldest
// first. When cfg.Last is set only the most recent sessions are kept.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	b := queryBuilder().
		Select("id", "mode", "ended_at", "n_level", "max_level_reached",
			"score", "total_questions", "max_combo", "duration_ms").
		From("sessions").
		OrderBy("ended_at DESC", "id DESC")
	if cfg.Mode != "" {
		b = b.Where(sq.Eq{"mode": string(cfg.Mode)})
	}
	if cfg.Since != nil {
		b = b.Where(sq.GtOrEq{"ended_at": formatTime(*cfg.Since)})
	}
	if cfg.Last > 0 {
		b = b.Limit(uint64(cfg.Last))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer closeRows(rows)

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var mode, endedAt string
		if err := rows.Scan(&agg.SessionID, &mode, &endedAt, &agg.NLevel, &agg.MaxLevelReached,
			&agg.Score, &agg.TotalQuestions, &agg.MaxCombo, &agg.DurationMs); err != nil {
			return nil, err
		}
		if err := agg.Mode.UnmarshalText([]byte(mode)); err != nil {
			return nil, err
		}
		parsed, err := parseTime(endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	slices.Reverse(sessions)
	return sessions, nil
}

// ListTrials returns the recorded history of a session in answer order.
func (s *Store) ListTrials(ctx context.Context, sessionID int64) ([]model.TrialResult, error) {
	query, args, err := queryBuilder().
		Select("question", "user_answer", "correct_answer", "is_correct", "stage_level", "time_taken_ms").
		From("session_trials").
		Where(sq.Eq{"session_id": sessionID}).
		OrderBy("idx ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list trials: %w", err)
	}
	defer closeRows(rows)

	var trials []model.TrialResult
	for rows.Next() {
		var tr model.TrialResult
		var takenMs int64
		if err := rows.Scan(&tr.Question, &tr.UserAnswer, &tr.CorrectAnswer, &tr.IsCorrect, &tr.StageLevel, &takenMs); err != nil {
			return nil, err
		}
		tr.TimeTaken = time.Duration(takenMs) * time.Millisecond
		trials = append(trials, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return trials, nil
}
