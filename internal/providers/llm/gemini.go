package llm

import (
	"context"
	"errors"
	"fmt"
	"iter"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

var errNoGeminiKey = errors.New("gemini: no API key")

// GeminiClient streams from the Gemini API. A per-request APIKey opens a
// short-lived client for that call. Without a configured key only such
// calls succeed.
type GeminiClient struct {
	client *genai.Client
}

func NewGemini(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return &GeminiClient{}, nil
	}
	c, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return &GeminiClient{client: c}, nil
}

func (g *GeminiClient) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *GeminiClient) Stream(ctx context.Context, req Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		client := g.client
		if req.APIKey != "" {
			c, err := genai.NewClient(ctx, option.WithAPIKey(req.APIKey))
			if err != nil {
				yield("", fmt.Errorf("gemini: %w", err))
				return
			}
			defer c.Close()
			client = c
		}
		if client == nil {
			yield("", errNoGeminiKey)
			return
		}
		it := client.GenerativeModel(req.Model).GenerateContentStream(ctx, genai.Text(req.Prompt))
		for {
			resp, err := it.Next()
			if errors.Is(err, iterator.Done) {
				return
			}
			if err != nil {
				yield("", fmt.Errorf("gemini: %w", err))
				return
			}
			for _, s := range texts(resp) {
				if !yield(s, nil) {
					return
				}
			}
		}
	}
}

// texts returns the text parts of the first candidate.
func texts(r *genai.GenerateContentResponse) []string {
	if r == nil || len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return nil
	}
	var out []string
	for _, part := range r.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok && t != "" {
			out = append(out, string(t))
		}
	}
	return out
}

var _ Client = (*GeminiClient)(nil)
