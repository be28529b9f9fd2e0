// Package ai wraps the Gemini API for resume parsing, screening, market
// analysis, interview questions, and conversational assistance. Each wrapper
// is a single request/response call: build a prompt, generate, strip
// markdown fences, decode JSON, and fall back to a default result when the
// reply does not decode. Transport failures surface to the caller; decode
// failures do not.
package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const (
	ModelFlash = "gemini-2.5-flash"
	ModelPro   = "gemini-2.5-pro"
)

// Usage counter categories, one per model family.
const (
	CategoryFlash = "flash"
	CategoryPro   = "pro"
	CategoryVeo   = "veo"
)

var ErrNotConfigured = errors.New("ai service not configured")

// Generator is the narrow surface over the Gemini client, so tests can
// substitute a canned reply.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// UsageTracker records one invocation per model category.
type UsageTracker interface {
	TrackUsage(ctx context.Context, category string)
}

// Gemini implements Generator on the real API.
type Gemini struct {
	client *genai.Client
}

// NewGemini creates a Gemini-backed generator.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client}, nil
}

func (g *Gemini) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}

// Service is the set of AI wrappers the rest of the application calls.
// gen may be nil when no API key is configured; every call then fails with
// ErrNotConfigured.
type Service struct {
	gen   Generator
	usage UsageTracker
}

func NewService(gen Generator, usage UsageTracker) *Service {
	return &Service{gen: gen, usage: usage}
}

// generate tracks usage for the category and runs one model call. Usage is
// counted per invocation, successful or not, matching the counter's purpose
// as a call tally rather than a success tally.
func (s *Service) generate(ctx context.Context, model, category, prompt string) (string, error) {
	if s.gen == nil {
		return "", ErrNotConfigured
	}
	if s.usage != nil {
		s.usage.TrackUsage(ctx, category)
	}
	return s.gen.Generate(ctx, model, prompt)
}
