package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/safespace-id/safespace-backend/internal/domain"
)

// Gemini is the Generator backed by the Gemini API. One client is
// constructed at process start and injected into both gateways; the API key
// never appears in logs or error messages.
type Gemini struct {
	client       *genai.Client
	defaultModel string
}

// NewGemini builds a Gemini client for the public Gemini API backend.
func NewGemini(ctx context.Context, apiKey, defaultModel string) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	if defaultModel == "" {
		defaultModel = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}
	return &Gemini{client: client, defaultModel: defaultModel}, nil
}

// turnContents maps the turn history onto the provider's user/model roles;
// unknown roles default to user.
func turnContents(turns []Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		var role genai.Role = genai.RoleUser
		if t.Role == domain.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Content, role))
	}
	return contents
}

// Generate implements Generator.
func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	contents := turnContents(req.Turns)

	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Temperature != nil {
		cfg.Temperature = req.Temperature
	}
	if req.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = req.MaxOutputTokens
	}

	model := req.Model
	if model == "" {
		model = g.defaultModel
	}

	res, err := g.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		// Unreachable provider, rate limit, bad credential, and context
		// timeout all fold into the same retryable condition. The cause is
		// kept in the chain so the breaker can tell a client-side cancel
		// apart from a provider outage.
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	text := res.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
