package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"acecoach/internal/model"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func (r *AnalysisRepository) Insert(ctx context.Context, item *model.AnalysisHistoryItem) error {
	tags, err := json.Marshal(item.StrategicTags)
	if err != nil {
		return fmt.Errorf("marshal strategic tags: %w", err)
	}

	var sizingAdvice interface{}
	if item.SizingAdvice != "" {
		sizingAdvice = item.SizingAdvice
	}
	var mediaData, mediaMime interface{}
	if item.Media != nil {
		mediaData = item.Media.Data
		mediaMime = item.Media.MimeType
	}

	if _, err := r.db.ExecContext(
		ctx,
		`INSERT INTO analysis_history (
			id, timestamp, prompt, response, strategic_tags, sizing_advice, media_data, media_mime_type
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		formatTime(item.Timestamp),
		item.Prompt,
		item.Response,
		string(tags),
		sizingAdvice,
		mediaData,
		mediaMime,
	); err != nil {
		return fmt.Errorf("insert analysis history: %w", err)
	}
	return nil
}

// List returns history items newest first.
func (r *AnalysisRepository) List(ctx context.Context, limit int) ([]model.AnalysisHistoryItem, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, timestamp, prompt, response, strategic_tags, sizing_advice, media_data, media_mime_type
		 FROM analysis_history
		 ORDER BY timestamp DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list analysis history: %w", err)
	}
	defer rows.Close()

	items := make([]model.AnalysisHistoryItem, 0, limit)
	for rows.Next() {
		var item model.AnalysisHistoryItem
		var timestamp, tags string
		var sizingAdvice, mediaData, mediaMime sql.NullString
		if err := rows.Scan(
			&item.ID,
			&timestamp,
			&item.Prompt,
			&item.Response,
			&tags,
			&sizingAdvice,
			&mediaData,
			&mediaMime,
		); err != nil {
			return nil, fmt.Errorf("scan analysis history: %w", err)
		}

		parsed, parseErr := parseTime(timestamp)
		if parseErr != nil {
			return nil, fmt.Errorf("parse analysis timestamp: %w", parseErr)
		}
		item.Timestamp = parsed

		if err := json.Unmarshal([]byte(tags), &item.StrategicTags); err != nil {
			return nil, fmt.Errorf("unmarshal strategic tags: %w", err)
		}
		if item.StrategicTags == nil {
			item.StrategicTags = []string{}
		}
		if sizingAdvice.Valid {
			item.SizingAdvice = sizingAdvice.String
		}
		if mediaData.Valid {
			item.Media = &model.MediaPayload{
				Data:     mediaData.String,
				MimeType: mediaMime.String,
			}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analysis history: %w", err)
	}
	return items, nil
}
