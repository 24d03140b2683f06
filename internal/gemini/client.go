package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"acecoach/internal/media"
	"acecoach/internal/service"
)

// Client calls the Gemini API with the fixed structured-response schema the
// analysis pipeline expects.
type Client struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"analysis": {Type: genai.TypeString},
		"strategicTags": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "Detailed tags for strategy and table dynamics. Mandatory: Hero call, Value bet, Bluff, Semi-bluff, Hero position (e.g., BTN, CO), Table image.",
		},
		"sizingAdvice": {Type: genai.TypeString},
	},
	Required: []string{"analysis", "strategicTags"},
}

func (c *Client) GenerateAnalysis(ctx context.Context, req *service.ModelRequest) (string, error) {
	parts := make([]*genai.Part, 0, 2)
	if req.Media != nil {
		raw, err := media.Decode(req.Media.Data)
		if err != nil {
			return "", err
		}
		parts = append(parts, genai.NewPartFromBytes(raw, req.Media.MimeType))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    responseSchema,
	}
	if req.ThinkingBudget > 0 {
		config.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(req.ThinkingBudget),
		}
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}
