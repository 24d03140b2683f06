package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"

	"github.com/google/uuid"

	"acecoach/internal/clock"
	apperrors "acecoach/internal/errors"
	"acecoach/internal/model"
)

const (
	ModeStandard = "standard"
	ModeExtended = "extended"
	ModeSizing   = "sizing"
	ModeVenue    = "venue"
)

const placeholderPrompt = "Analyze this situation."

const systemInstruction = `You are a world-class GTO poker coach and data scientist.
Examine the provided hand history or session notes.
CRITICAL TASKS:
1. Map all player actions to specific positions (BTN, SB, BB, UTG, HJ, CO).
2. Identify high-level strategic markers: 'Bluff', 'Value Bet', 'Hero Call', 'Inductive Bet', 'Thin Value', 'Check-Raise'.
3. Look for sizing tells or GTO deviations.
4. If an image is provided, parse the board cards and stack sizes.

Structure your response to be professional, theoretically grounded, and actionable.`

const sizingClause = "\n\n**ADDITIONAL REQUEST: SIZING OPTIMIZATION**\nCurrent Pot Size: %v. Please provide specific sizing suggestions for Continuation Bets, Value Bets, and Bluffs based on this pot. Suggest exact numbers for 1/3, 1/2, 2/3, Full Pot, and Overbets where theoretically appropriate."

const venueClause = "\n\n**ADDITIONAL REQUEST: VENUE READ**\nFactor in the stated venue and stakes. Describe the typical player pool at this kind of game and how field tendencies should shift my ranges and sizings."

// ModelRequest is the assembled payload for the external analysis model.
type ModelRequest struct {
	Prompt            string
	Media             *model.MediaPayload
	SystemInstruction string
	// ThinkingBudget > 0 requests deeper internal reasoning.
	ThinkingBudget int32
}

// ModelClient invokes the external model and returns its raw structured
// response text. Schema validation happens in the pipeline, not here.
type ModelClient interface {
	GenerateAnalysis(ctx context.Context, req *ModelRequest) (string, error)
}

type AnalyzeInput struct {
	Prompt string
	Media  *model.MediaPayload
	Mode   string
	// PotSize is the reference pot for the sizing mode.
	PotSize float64
}

type AnalyzeResult struct {
	Analysis       string   `json:"analysis"`
	StrategicTags  []string `json:"strategicTags"`
	SizingAdvice   string   `json:"sizingAdvice,omitempty"`
	HistoryID      string   `json:"historyId"`
	StorageWarning string   `json:"storageWarning,omitempty"`
}

// Analyzer assembles analysis requests, enforces the structured-response
// contract and records successful calls in history. It never retries; a
// failed call is surfaced and the caller may resubmit.
type Analyzer struct {
	client         ModelClient
	history        HistoryStore
	clk            clock.Clock
	thinkingBudget int32
}

func NewAnalyzer(client ModelClient, history HistoryStore, clk clock.Clock, thinkingBudget int32) *Analyzer {
	return &Analyzer{
		client:         client,
		history:        history,
		clk:            clk,
		thinkingBudget: thinkingBudget,
	}
}

// modelPayload mirrors the response schema sent to the model. Analysis and
// strategicTags are required; a payload missing either is rejected.
type modelPayload struct {
	Analysis      *string   `json:"analysis"`
	StrategicTags *[]string `json:"strategicTags"`
	SizingAdvice  string    `json:"sizingAdvice"`
}

func (a *Analyzer) Analyze(ctx context.Context, input *AnalyzeInput) (*AnalyzeResult, *apperrors.APIError) {
	req, apiErr := a.assemble(input)
	if apiErr != nil {
		return nil, apiErr
	}

	raw, err := a.client.GenerateAnalysis(ctx, req)
	if err != nil {
		return nil, apperrors.Analysis(err.Error())
	}

	var payload modelPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, apperrors.Analysis("model returned a non-JSON payload: " + err.Error())
	}
	if payload.Analysis == nil || *payload.Analysis == "" {
		return nil, apperrors.Analysis("model response is missing the required analysis field")
	}
	if payload.StrategicTags == nil {
		return nil, apperrors.Analysis("model response is missing the required strategicTags field")
	}

	item := &model.AnalysisHistoryItem{
		ID:            uuid.NewString(),
		Timestamp:     a.clk.Now(),
		Prompt:        input.Prompt,
		Response:      *payload.Analysis,
		StrategicTags: *payload.StrategicTags,
		SizingAdvice:  payload.SizingAdvice,
		Media:         input.Media,
	}

	warning := ""
	if err := a.history.Insert(ctx, item); err != nil {
		log.Printf("persist analysis history: %v", err)
		warning = storageWarning
	}

	return &AnalyzeResult{
		Analysis:       *payload.Analysis,
		StrategicTags:  *payload.StrategicTags,
		SizingAdvice:   payload.SizingAdvice,
		HistoryID:      item.ID,
		StorageWarning: warning,
	}, nil
}

func (a *Analyzer) History(ctx context.Context, limit int) ([]model.AnalysisHistoryItem, *apperrors.APIError) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	items, err := a.history.List(ctx, limit)
	if err != nil {
		return nil, apperrors.Storage("failed to read analysis history")
	}
	return items, nil
}

func (a *Analyzer) assemble(input *AnalyzeInput) (*ModelRequest, *apperrors.APIError) {
	mode := input.Mode
	if mode == "" {
		mode = ModeStandard
	}

	prompt := input.Prompt
	var budget int32
	switch mode {
	case ModeStandard:
	case ModeExtended:
		budget = a.thinkingBudget
	case ModeSizing:
		if math.IsNaN(input.PotSize) || math.IsInf(input.PotSize, 0) {
			return nil, apperrors.InvalidArgument("potSize must be a finite number")
		}
		prompt += fmt.Sprintf(sizingClause, input.PotSize)
	case ModeVenue:
		prompt += venueClause
	default:
		return nil, apperrors.InvalidArgument("unknown analysis mode: " + mode)
	}

	// A media-only submission is valid; fall back to a generic instruction
	// instead of failing.
	if prompt == "" {
		prompt = placeholderPrompt
	}

	return &ModelRequest{
		Prompt:            prompt,
		Media:             input.Media,
		SystemInstruction: systemInstruction,
		ThinkingBudget:    budget,
	}, nil
}
