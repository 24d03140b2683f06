package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"acecoach/internal/model"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Insert(ctx context.Context, session *model.Session) error {
	tags, err := json.Marshal(session.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO sessions (
			id, date, stakes, location, duration_hours, profit, tags, notes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.Date,
		session.Stakes,
		session.Location,
		session.DurationHours,
		session.Profit,
		string(tags),
		session.Notes,
		formatTime(time.Now()),
	); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	for i, item := range session.MediaItems {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO session_media (
				id, session_id, encoded_data, mime_type, category, position
			) VALUES (?, ?, ?, ?, ?, ?)`,
			item.ID,
			session.ID,
			item.EncodedData,
			item.MimeType,
			item.Category,
			i,
		); err != nil {
			return fmt.Errorf("insert session media: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*model.Session, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT id, date, stakes, location, duration_hours, profit, tags, notes
		 FROM sessions WHERE id = ?`,
		id,
	)
	session, err := scanSession(row)
	if err != nil {
		return nil, err
	}

	media, err := r.listMedia(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	session.MediaItems = media[id]
	if session.MediaItems == nil {
		session.MediaItems = []model.MediaAttachment{}
	}
	return session, nil
}

// List returns sessions newest first.
func (r *SessionRepository) List(ctx context.Context) ([]model.Session, error) {
	return r.list(ctx, `ORDER BY created_at DESC, rowid DESC`)
}

// ListChronological returns sessions in insertion order, oldest first. The
// ledger's cumulative series relies on this for date ties.
func (r *SessionRepository) ListChronological(ctx context.Context) ([]model.Session, error) {
	return r.list(ctx, `ORDER BY rowid ASC`)
}

func (r *SessionRepository) list(ctx context.Context, order string) ([]model.Session, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, date, stakes, location, duration_hours, profit, tags, notes
		 FROM sessions `+order,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]model.Session, 0)
	ids := make([]string, 0)
	for rows.Next() {
		session, scanErr := scanSession(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		sessions = append(sessions, *session)
		ids = append(ids, session.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	media, err := r.listMedia(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		sessions[i].MediaItems = media[sessions[i].ID]
		if sessions[i].MediaItems == nil {
			sessions[i].MediaItems = []model.MediaAttachment{}
		}
	}
	return sessions, nil
}

func (r *SessionRepository) UpdateNotes(ctx context.Context, id, notes string) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE sessions SET notes = ? WHERE id = ?`,
		notes,
		id,
	)
	if err != nil {
		return fmt.Errorf("update notes: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update notes rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SessionRepository) listMedia(ctx context.Context, sessionIDs []string) (map[string][]model.MediaAttachment, error) {
	media := make(map[string][]model.MediaAttachment, len(sessionIDs))
	if len(sessionIDs) == 0 {
		return media, nil
	}

	args := make([]interface{}, len(sessionIDs))
	placeholders := ""
	for i, id := range sessionIDs {
		if i > 0 {
			placeholders += ","
		}
		placeholders += "?"
		args[i] = id
	}

	rows, err := r.db.QueryContext(
		ctx,
		`SELECT session_id, id, encoded_data, mime_type, category
		 FROM session_media
		 WHERE session_id IN (`+placeholders+`)
		 ORDER BY session_id, position ASC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list session media: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sessionID string
		var item model.MediaAttachment
		if err := rows.Scan(&sessionID, &item.ID, &item.EncodedData, &item.MimeType, &item.Category); err != nil {
			return nil, fmt.Errorf("scan session media: %w", err)
		}
		media[sessionID] = append(media[sessionID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session media: %w", err)
	}
	return media, nil
}

func scanSession(s scanner) (*model.Session, error) {
	session := model.Session{}
	var tags string
	err := s.Scan(
		&session.ID,
		&session.Date,
		&session.Stakes,
		&session.Location,
		&session.DurationHours,
		&session.Profit,
		&tags,
		&session.Notes,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	if err := json.Unmarshal([]byte(tags), &session.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal session tags: %w", err)
	}
	if session.Tags == nil {
		session.Tags = []string{}
	}
	return &session, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}
