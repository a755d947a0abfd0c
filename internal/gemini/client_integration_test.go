//go:build integration

package gemini

import (
	"context"
	"os"
	"strings"
	"testing"
)

func skipWithoutKey(t *testing.T) string {
	t.Helper()
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		t.Skip("GEMINI_API_KEY not set, skipping integration test")
	}
	return key
}

func TestIntegration_Generate(t *testing.T) {
	key := skipWithoutKey(t)
	ctx := context.Background()

	c, err := NewClient(ctx, key, "gemini-2.5-flash")
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	text, err := c.Generate(ctx, "You answer with a single word.", nil, "Say hello.")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if strings.TrimSpace(text) == "" {
		t.Error("expected non-empty response text")
	}
}

func TestIntegration_GenerateWithHistory(t *testing.T) {
	key := skipWithoutKey(t)
	ctx := context.Background()

	c, err := NewClient(ctx, key, "gemini-2.5-flash")
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	history := []Message{
		{Role: RoleUser, Text: "My name is Ida."},
		{Role: RoleModel, Text: "Nice to meet you, Ida."},
	}
	text, err := c.Generate(ctx, "", history, "What is my name?")
	if err != nil {
		t.Fatalf("Generate with history failed: %v", err)
	}
	if !strings.Contains(text, "Ida") {
		t.Errorf("expected the model to recall the name, got %q", text)
	}
}
