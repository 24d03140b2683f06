package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"acecoach/internal/clock"
	apperrors "acecoach/internal/errors"
	"acecoach/internal/model"
	"acecoach/internal/repository"
)

const storageWarning = "state change was not persisted; tracking continues in memory"

const stopWarning = "completed session could not be persisted; it exists only in this response"

// Tracker owns the single in-flight live session and is its sole writer.
// Every transition is written through to the store; a failed write degrades
// to a warning while the in-memory session stays authoritative. The mutex
// serializes request goroutines: elapsed-time polls arrive concurrently with
// transitions.
type Tracker struct {
	mu        sync.Mutex
	live      *model.LiveSession
	liveStore LiveStore
	sessions  SessionStore
	clk       clock.Clock
}

type LiveStateView struct {
	Active         bool       `json:"active"`
	Stakes         string     `json:"stakes,omitempty"`
	Location       string     `json:"location,omitempty"`
	StartedAt      *time.Time `json:"startedAt,omitempty"`
	CurrentProfit  float64    `json:"currentProfit"`
	IsPaused       bool       `json:"isPaused"`
	ElapsedSeconds float64    `json:"elapsedSeconds"`
	StorageWarning string     `json:"storageWarning,omitempty"`
}

type StopResult struct {
	Session        *model.Session `json:"session"`
	StorageWarning string         `json:"storageWarning,omitempty"`
}

// NewTracker hydrates any persisted live session so tracking survives a
// restart.
func NewTracker(ctx context.Context, liveStore LiveStore, sessions SessionStore, clk clock.Clock) *Tracker {
	t := &Tracker{liveStore: liveStore, sessions: sessions, clk: clk}

	live, err := liveStore.Load(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("load live session: %v", err)
		}
		return t
	}
	t.live = live
	return t
}

func (t *Tracker) State(_ context.Context) *LiveStateView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view("")
}

func (t *Tracker) Start(ctx context.Context, stakes, location string) (*LiveStateView, *apperrors.APIError) {
	if stakes == "" {
		return nil, apperrors.InvalidArgument("stakes must not be empty")
	}
	if location == "" {
		return nil, apperrors.InvalidArgument("location must not be empty")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.live != nil {
		return nil, apperrors.InvalidState("a live session is already active; stop it before starting another")
	}

	t.live = &model.LiveSession{
		StartTime:     t.clk.Now(),
		Stakes:        stakes,
		Location:      location,
		CurrentProfit: 0,
		IsPaused:      false,
		TotalPaused:   0,
	}
	return t.view(t.persist(ctx)), nil
}

func (t *Tracker) Pause(ctx context.Context) (*LiveStateView, *apperrors.APIError) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.live == nil {
		return nil, apperrors.InvalidState("no live session to pause")
	}
	if t.live.IsPaused {
		return nil, apperrors.InvalidState("live session is already paused")
	}

	now := t.clk.Now()
	t.live.IsPaused = true
	t.live.PauseStart = &now
	return t.view(t.persist(ctx)), nil
}

func (t *Tracker) Resume(ctx context.Context) (*LiveStateView, *apperrors.APIError) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.live == nil {
		return nil, apperrors.InvalidState("no live session to resume")
	}
	if !t.live.IsPaused {
		return nil, apperrors.InvalidState("live session is not paused")
	}

	now := t.clk.Now()
	t.live.TotalPaused += now.Sub(*t.live.PauseStart)
	t.live.PauseStart = nil
	t.live.IsPaused = false
	return t.view(t.persist(ctx)), nil
}

func (t *Tracker) UpdateProfit(ctx context.Context, profit float64) (*LiveStateView, *apperrors.APIError) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.live == nil {
		return nil, apperrors.InvalidState("no live session to update")
	}

	t.live.CurrentProfit = profit
	return t.view(t.persist(ctx)), nil
}

// Stop finalizes the live session into a completed one. Stopping while
// paused is allowed: the open pause interval is folded into TotalPaused as
// of now, so the single elapsed formula holds in both states.
func (t *Tracker) Stop(ctx context.Context) (*StopResult, *apperrors.APIError) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.live == nil {
		return nil, apperrors.InvalidState("no live session to stop")
	}

	now := t.clk.Now()
	live := t.live
	if live.IsPaused && live.PauseStart != nil {
		live.TotalPaused += now.Sub(*live.PauseStart)
		live.PauseStart = nil
		live.IsPaused = false
	}

	elapsed := now.Sub(live.StartTime) - live.TotalPaused
	hours := math.Round(elapsed.Hours()*100) / 100

	session := &model.Session{
		ID:            uuid.NewString(),
		Date:          now.Format(model.DateLayout),
		Stakes:        live.Stakes,
		Location:      live.Location,
		DurationHours: hours,
		Profit:        live.CurrentProfit,
		Tags:          []string{model.TagLiveTracked},
		MediaItems:    []model.MediaAttachment{},
	}

	warning := ""
	if err := t.sessions.Insert(ctx, session); err != nil {
		// The record is gone after this response; log it so it can be
		// re-entered by hand.
		if raw, marshalErr := json.Marshal(session); marshalErr == nil {
			log.Printf("persist completed session: %v; unsaved session: %s", err, raw)
		} else {
			log.Printf("persist completed session: %v", err)
		}
		warning = stopWarning
	}

	t.live = nil
	if err := t.liveStore.Clear(ctx); err != nil {
		log.Printf("clear live session: %v", err)
		if warning == "" {
			warning = storageWarning
		}
	}

	return &StopResult{Session: session, StorageWarning: warning}, nil
}

// ElapsedSeconds is a pure read used for the once-per-second live display.
func (t *Tracker) ElapsedSeconds() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.live == nil {
		return 0
	}
	return t.live.Elapsed(t.clk.Now()).Seconds()
}

func (t *Tracker) persist(ctx context.Context) string {
	if err := t.liveStore.Save(ctx, t.live); err != nil {
		log.Printf("persist live session: %v", err)
		return storageWarning
	}
	return ""
}

func (t *Tracker) view(warning string) *LiveStateView {
	if t.live == nil {
		return &LiveStateView{Active: false, StorageWarning: warning}
	}

	startedAt := t.live.StartTime
	return &LiveStateView{
		Active:         true,
		Stakes:         t.live.Stakes,
		Location:       t.live.Location,
		StartedAt:      &startedAt,
		CurrentProfit:  t.live.CurrentProfit,
		IsPaused:       t.live.IsPaused,
		ElapsedSeconds: t.live.Elapsed(t.clk.Now()).Seconds(),
		StorageWarning: warning,
	}
}
