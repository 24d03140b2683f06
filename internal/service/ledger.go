package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"acecoach/internal/clock"
	apperrors "acecoach/internal/errors"
	"acecoach/internal/media"
	"acecoach/internal/model"
	"acecoach/internal/repository"
)

// Ledger is the read-side view over completed sessions plus the manual-entry
// write path. Aggregates are computed on demand from the stored records.
type Ledger struct {
	sessions SessionStore
	clk      clock.Clock
}

func NewLedger(sessions SessionStore, clk clock.Clock) *Ledger {
	return &Ledger{sessions: sessions, clk: clk}
}

type MediaItemInput struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
	Category string `json:"category"`
}

type CreateSessionInput struct {
	Date          string           `json:"date"`
	Stakes        string           `json:"stakes"`
	Location      string           `json:"location"`
	DurationHours float64          `json:"durationHours"`
	Profit        float64          `json:"profit"`
	Tags          []string         `json:"tags"`
	Notes         string           `json:"notes"`
	Media         []MediaItemInput `json:"media"`
}

type SeriesPoint struct {
	Date             string  `json:"date"`
	CumulativeProfit float64 `json:"cumulativeProfit"`
}

type StatsView struct {
	TotalProfit float64       `json:"totalProfit"`
	TotalHours  float64       `json:"totalHours"`
	HourlyRate  float64       `json:"hourlyRate"`
	WinRate     float64       `json:"winRate"`
	Series      []SeriesPoint `json:"series"`
}

type LabPromptView struct {
	Prompt string              `json:"prompt"`
	Media  *model.MediaPayload `json:"media,omitempty"`
}

func (l *Ledger) List(ctx context.Context) ([]model.Session, *apperrors.APIError) {
	sessions, err := l.sessions.List(ctx)
	if err != nil {
		return nil, apperrors.Storage("failed to read sessions")
	}
	return sessions, nil
}

func (l *Ledger) Create(ctx context.Context, input *CreateSessionInput) (*model.Session, *apperrors.APIError) {
	if input.DurationHours < 0 || math.IsNaN(input.DurationHours) || math.IsInf(input.DurationHours, 0) {
		return nil, apperrors.InvalidArgument("durationHours must be a non-negative number")
	}

	date := input.Date
	if date == "" {
		date = l.clk.Now().Format(model.DateLayout)
	} else if _, err := time.Parse(model.DateLayout, date); err != nil {
		return nil, apperrors.InvalidArgument("date must use the YYYY-MM-DD format")
	}

	items := make([]model.MediaAttachment, 0, len(input.Media))
	for _, in := range input.Media {
		item, apiErr := normalizeMedia(in)
		if apiErr != nil {
			return nil, apiErr
		}
		items = append(items, *item)
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	session := &model.Session{
		ID:            uuid.NewString(),
		Date:          date,
		Stakes:        input.Stakes,
		Location:      input.Location,
		DurationHours: input.DurationHours,
		Profit:        input.Profit,
		Tags:          tags,
		Notes:         input.Notes,
		MediaItems:    items,
	}

	if err := l.sessions.Insert(ctx, session); err != nil {
		return nil, apperrors.Storage("failed to persist session")
	}
	return session, nil
}

func (l *Ledger) Delete(ctx context.Context, id string) *apperrors.APIError {
	if err := l.sessions.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("session_not_found", "session not found")
		}
		return apperrors.Storage("failed to delete session")
	}
	return nil
}

func (l *Ledger) UpdateNotes(ctx context.Context, id, notes string) *apperrors.APIError {
	if err := l.sessions.UpdateNotes(ctx, id, notes); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("session_not_found", "session not found")
		}
		return apperrors.Storage("failed to update notes")
	}
	return nil
}

func (l *Ledger) Stats(ctx context.Context) (*StatsView, *apperrors.APIError) {
	sessions, err := l.sessions.ListChronological(ctx)
	if err != nil {
		return nil, apperrors.Storage("failed to read sessions")
	}
	stats := ComputeStats(sessions)
	return &stats, nil
}

// LabPrompt formats a completed session into an analysis prompt, carrying
// its first media item along.
func (l *Ledger) LabPrompt(ctx context.Context, id string) (*LabPromptView, *apperrors.APIError) {
	session, err := l.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("session_not_found", "session not found")
		}
		return nil, apperrors.Storage("failed to read session")
	}

	tagsContext := ""
	if len(session.Tags) > 0 {
		tagsContext = fmt.Sprintf("[Tags: %s]\n", strings.Join(session.Tags, ", "))
	}
	sign := ""
	if session.Profit >= 0 {
		sign = "+"
	}
	notes := session.Notes
	if notes == "" {
		notes = "No notes provided."
	}

	prompt := fmt.Sprintf(`%s**Session Analysis Request**
Date: %s
Location: %s
Stakes: %s
Profit/Loss: %s$%v
Duration: %v hours

**Notes/History:**
%s

*Analyze my performance. Focus on GTO adherence.*`,
		tagsContext,
		session.Date,
		session.Location,
		session.Stakes,
		sign,
		session.Profit,
		session.DurationHours,
		notes,
	)

	view := &LabPromptView{Prompt: prompt}
	if len(session.MediaItems) > 0 {
		first := session.MediaItems[0]
		view.Media = &model.MediaPayload{Data: first.EncodedData, MimeType: first.MimeType}
	}
	return view, nil
}

// ComputeStats aggregates sessions given in insertion order (oldest first).
// The cumulative series is ordered by ascending date with ties broken by
// that insertion order.
func ComputeStats(sessions []model.Session) StatsView {
	totalProfit := 0.0
	totalHours := 0.0
	wins := 0
	for _, s := range sessions {
		totalProfit += s.Profit
		totalHours += s.DurationHours
		if s.Profit > 0 {
			wins++
		}
	}

	hourlyRate := 0.0
	if totalHours > 0 {
		hourlyRate = totalProfit / totalHours
	}
	winRate := 0.0
	if len(sessions) > 0 {
		winRate = float64(wins) / float64(len(sessions)) * 100
	}

	ordered := make([]model.Session, len(sessions))
	copy(ordered, sessions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date < ordered[j].Date
	})

	series := make([]SeriesPoint, 0, len(ordered))
	running := 0.0
	for _, s := range ordered {
		running += s.Profit
		series = append(series, SeriesPoint{Date: s.Date, CumulativeProfit: running})
	}

	return StatsView{
		TotalProfit: totalProfit,
		TotalHours:  totalHours,
		HourlyRate:  hourlyRate,
		WinRate:     winRate,
		Series:      series,
	}
}

func normalizeMedia(in MediaItemInput) (*model.MediaAttachment, *apperrors.APIError) {
	if in.Data == "" {
		return nil, apperrors.InvalidArgument("media data must not be empty")
	}
	if !model.ValidCategory(in.Category) {
		return nil, apperrors.InvalidArgument("unknown media category: " + in.Category)
	}

	raw, err := media.Decode(in.Data)
	if err != nil {
		return nil, apperrors.InvalidArgument("media data is not valid base64")
	}

	payload := media.Encode(raw)
	mimeType := in.MimeType
	if mimeType == "" {
		mimeType = payload.MimeType
	}

	return &model.MediaAttachment{
		ID:          uuid.NewString(),
		EncodedData: payload.Data,
		MimeType:    mimeType,
		Category:    in.Category,
	}, nil
}
