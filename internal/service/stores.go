package service

import (
	"context"

	"acecoach/internal/model"
)

type LiveStore interface {
	Save(ctx context.Context, live *model.LiveSession) error
	Load(ctx context.Context) (*model.LiveSession, error)
	Clear(ctx context.Context) error
}

type SessionStore interface {
	Insert(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, id string) (*model.Session, error)
	List(ctx context.Context) ([]model.Session, error)
	ListChronological(ctx context.Context) ([]model.Session, error)
	UpdateNotes(ctx context.Context, id, notes string) error
	Delete(ctx context.Context, id string) error
}

type HistoryStore interface {
	Insert(ctx context.Context, item *model.AnalysisHistoryItem) error
	List(ctx context.Context, limit int) ([]model.AnalysisHistoryItem, error)
}
