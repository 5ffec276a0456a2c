// Package responder generates post replies with Google's Gemini API.
package responder

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const systemPrompt = "You are a reddit bot. Your job is to provide short and relevant replies to the reddit posts."

// Generator is the part of genai.Models the responder calls.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Responder struct {
	models Generator
	model  string
}

// NewGenAIResponder creates a responder backed by a Gemini client.
func NewGenAIResponder(ctx context.Context, apiKey, model string) (*Responder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return New(client.Models, model), nil
}

func New(models Generator, model string) *Responder {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Responder{models: models, model: model}
}

func Prompt(title, content string) string {
	return fmt.Sprintf("Title: %s\n\nContent: %s ", title, content)
}

func (r *Responder) Respond(ctx context.Context, title, content string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(Prompt(title, content), genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}

	result, err := r.models.GenerateContent(ctx, r.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("no response text returned")
	}
	return text, nil
}
