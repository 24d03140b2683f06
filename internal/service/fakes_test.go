package service_test

import (
	"context"

	"acecoach/internal/model"
	"acecoach/internal/repository"
	"acecoach/internal/service"
)

type memLiveStore struct {
	live     *model.LiveSession
	saveErr  error
	clearErr error
}

func (m *memLiveStore) Save(_ context.Context, live *model.LiveSession) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	copied := *live
	m.live = &copied
	return nil
}

func (m *memLiveStore) Load(_ context.Context) (*model.LiveSession, error) {
	if m.live == nil {
		return nil, repository.ErrNotFound
	}
	copied := *m.live
	return &copied, nil
}

func (m *memLiveStore) Clear(_ context.Context) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.live = nil
	return nil
}

type memSessionStore struct {
	sessions  []model.Session
	insertErr error
}

func (m *memSessionStore) Insert(_ context.Context, session *model.Session) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.sessions = append(m.sessions, *session)
	return nil
}

func (m *memSessionStore) Get(_ context.Context, id string) (*model.Session, error) {
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			copied := m.sessions[i]
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memSessionStore) List(_ context.Context) ([]model.Session, error) {
	listed := make([]model.Session, 0, len(m.sessions))
	for i := len(m.sessions) - 1; i >= 0; i-- {
		listed = append(listed, m.sessions[i])
	}
	return listed, nil
}

func (m *memSessionStore) ListChronological(_ context.Context) ([]model.Session, error) {
	listed := make([]model.Session, len(m.sessions))
	copy(listed, m.sessions)
	return listed, nil
}

func (m *memSessionStore) UpdateNotes(_ context.Context, id, notes string) error {
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			m.sessions[i].Notes = notes
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memSessionStore) Delete(_ context.Context, id string) error {
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			m.sessions = append(m.sessions[:i], m.sessions[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type memHistoryStore struct {
	items     []model.AnalysisHistoryItem
	insertErr error
}

func (m *memHistoryStore) Insert(_ context.Context, item *model.AnalysisHistoryItem) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.items = append([]model.AnalysisHistoryItem{*item}, m.items...)
	return nil
}

func (m *memHistoryStore) List(_ context.Context, limit int) ([]model.AnalysisHistoryItem, error) {
	if limit > len(m.items) {
		limit = len(m.items)
	}
	listed := make([]model.AnalysisHistoryItem, limit)
	copy(listed, m.items[:limit])
	return listed, nil
}

type fakeModelClient struct {
	lastReq  *service.ModelRequest
	response string
	err      error
}

func (f *fakeModelClient) GenerateAnalysis(_ context.Context, req *service.ModelRequest) (string, error) {
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}
