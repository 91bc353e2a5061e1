package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/verte-zerg/nback/internal/model"
)

const (
	keyUnlockedLevel   = "unlocked_level"
	keyDailyMaxLevel   = "daily_max_level"
	keyStreak          = "streak"
	keyLastCheckInDate = "last_checkin_date"
)

// LoadProgress reads persisted progress. Missing keys keep their defaults:
// level 1 unlocked and no streak.
func (s *Store) LoadProgress(ctx context.Context) (model.Progress, error) {
	p := model.Progress{UnlockedLevel: 1}
	query, args, err := queryBuilder().Select("key", "value").From("progress").ToSql()
	if err != nil {
		return p, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return p, fmt.Errorf("failed to load progress: %w", err)
	}
	defer closeRows(rows)

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return p, err
		}
		switch key {
		case keyLastCheckInDate:
			p.LastCheckInDate = value
		case keyUnlockedLevel, keyDailyMaxLevel, keyStreak:
			n, err := strconv.Atoi(value)
			if err != nil {
				return p, fmt.Errorf("invalid progress value %s=%q: %w", key, value, err)
			}
			switch key {
			case keyUnlockedLevel:
				p.UnlockedLevel = n
			case keyDailyMaxLevel:
				p.DailyMaxLevelReached = n
			default:
				p.Streak = n
			}
		}
	}
	if err := rows.Err(); err != nil {
		return p, err
	}
	if p.UnlockedLevel < 1 {
		p.UnlockedLevel = 1
	}
	return p, nil
}

// SaveProgress upserts every progress key in one transaction.
func (s *Store) SaveProgress(ctx context.Context, p model.Progress) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer rollback(tx, &err)

	values := map[string]string{
		keyUnlockedLevel:   strconv.Itoa(p.UnlockedLevel),
		keyDailyMaxLevel:   strconv.Itoa(p.DailyMaxLevelReached),
		keyStreak:          strconv.Itoa(p.Streak),
		keyLastCheckInDate: p.LastCheckInDate,
	}
	for key, value := range values {
		query, args, err := queryBuilder().
			Insert("progress").
			Columns("key", "value").
			Values(key, value).
			Suffix("ON CONFLICT (key) DO UPDATE SET value = excluded.value").
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to save progress %s: %w", key, err)
		}
	}
	return tx.Commit()
}

func rollback(tx *sql.Tx, err *error) {
	if *err == nil {
		return
	}
	if rerr := tx.Rollback(); rerr != nil {
		// Best-effort rollback.
		_ = rerr
	}
}
