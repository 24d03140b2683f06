package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"acecoach/internal/model"
)

// LiveSessionRepository persists the at-most-one in-progress session as a
// singleton row. Clear removes the row entirely so a restart never hydrates
// a stale session.
type LiveSessionRepository struct {
	db *sql.DB
}

func NewLiveSessionRepository(db *sql.DB) *LiveSessionRepository {
	return &LiveSessionRepository{db: db}
}

func (r *LiveSessionRepository) Save(ctx context.Context, live *model.LiveSession) error {
	var pauseStart interface{}
	if live.PauseStart != nil {
		pauseStart = formatTime(*live.PauseStart)
	}

	if _, err := r.db.ExecContext(
		ctx,
		`INSERT INTO live_session (
			id, start_time, stakes, location, current_profit, is_paused, pause_start, total_paused_ms
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			start_time = excluded.start_time,
			stakes = excluded.stakes,
			location = excluded.location,
			current_profit = excluded.current_profit,
			is_paused = excluded.is_paused,
			pause_start = excluded.pause_start,
			total_paused_ms = excluded.total_paused_ms`,
		formatTime(live.StartTime),
		live.Stakes,
		live.Location,
		live.CurrentProfit,
		live.IsPaused,
		pauseStart,
		live.TotalPaused.Milliseconds(),
	); err != nil {
		return fmt.Errorf("save live session: %w", err)
	}
	return nil
}

func (r *LiveSessionRepository) Load(ctx context.Context) (*model.LiveSession, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT start_time, stakes, location, current_profit, is_paused, pause_start, total_paused_ms
		 FROM live_session WHERE id = 1`,
	)

	live := model.LiveSession{}
	var startTime string
	var pauseStart sql.NullString
	var totalPausedMS int64
	err := row.Scan(
		&startTime,
		&live.Stakes,
		&live.Location,
		&live.CurrentProfit,
		&live.IsPaused,
		&pauseStart,
		&totalPausedMS,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan live session: %w", err)
	}

	parsedStart, parseErr := parseTime(startTime)
	if parseErr != nil {
		return nil, fmt.Errorf("parse live start_time: %w", parseErr)
	}
	live.StartTime = parsedStart

	if pauseStart.Valid {
		parsedPause, parseErr := parseTime(pauseStart.String)
		if parseErr != nil {
			return nil, fmt.Errorf("parse live pause_start: %w", parseErr)
		}
		live.PauseStart = &parsedPause
	}
	live.TotalPaused = time.Duration(totalPausedMS) * time.Millisecond

	return &live, nil
}

func (r *LiveSessionRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM live_session WHERE id = 1`); err != nil {
		return fmt.Errorf("clear live session: %w", err)
	}
	return nil
}
