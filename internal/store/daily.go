package store

import (
	"context"
	"fmt"

	"github.com/verte-zerg/nback/internal/model"
)

// InsertDailyLog appends a daily training entry.
func (s *Store) InsertDailyLog(ctx context.Context, log model.DailyLog) error {
	query, args, err := queryBuilder().
		Insert("daily_logs").
		Columns("date", "duration_minutes", "n_level", "score").
		Values(log.Date, log.DurationMinutes, log.NLevel, log.Score).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert daily log: %w", err)
	}
	return nil
}

// ListDailyLogs returns daily entries newest first. limit <= 0 returns all.
func (s *Store) ListDailyLogs(ctx context.Context, limit int) ([]model.DailyLog, error) {
	b := queryBuilder().
		Select("date", "duration_minutes", "n_level", "score").
		From("daily_logs").
		OrderBy("date DESC", "id DESC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily logs: %w", err)
	}
	defer closeRows(rows)

	var logs []model.DailyLog
	for rows.Next() {
		var l model.DailyLog
		if err := rows.Scan(&l.Date, &l.DurationMinutes, &l.NLevel, &l.Score); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}
