package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	genai "google.golang.org/genai"
)

// ErrEmptyResponse is returned when the model produced no candidates or
// no text parts. Callers decide whether that warrants a fallback.
var ErrEmptyResponse = errors.New("gemini: empty response from model")

// Role values for conversation history turns.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is one prior turn of a conversation, as the gateway sends it.
type Message struct {
	Role string
	Text string
}

// Client is a thin wrapper around the official genai client. It performs
// exactly one API call per Generate — retry and fallback policy belongs
// to the caller.
type Client struct {
	cli   *genai.Client
	model string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{cli: cli, model: model}, nil
}

func (c *Client) Name() string { return "Gemini:" + c.model }

// Generate sends the system instruction, prior history and a new prompt,
// and returns the model's text. All transport, auth and quota failures
// come back as a plain error with a diagnostic message.
func (c *Client) Generate(ctx context.Context, system string, history []Message, prompt string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		var role genai.Role = genai.RoleUser
		if m.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))

	cfg := &genai.GenerateContentConfig{}
	if strings.TrimSpace(system) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := c.cli.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini call: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
