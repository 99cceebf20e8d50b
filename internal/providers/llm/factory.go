package llm

import (
	"context"
	"fmt"
	"strings"
)

const (
	ProviderTogether = "together"
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
	ProviderMock     = "mock"
)

// Settings select and configure a provider.
type Settings struct {
	Provider string
	APIKey   string
	BaseURL  string
}

// New returns a Client for s.Provider. An empty provider falls back to
// MockClient like the development setup. A real provider without an API
// key answers with MockClient unless the request carries its own key.
func New(ctx context.Context, s Settings) (Client, error) {
	prov := strings.ToLower(strings.TrimSpace(s.Provider))
	key := strings.TrimSpace(s.APIKey)
	var real Client
	switch prov {
	case ProviderTogether:
		base := s.BaseURL
		if base == "" {
			base = TogetherBaseURL
		}
		real = NewOpenAI(OpenAIOptions{Name: ProviderTogether, APIKey: key, BaseURL: base})
	case ProviderOpenAI:
		real = NewOpenAI(OpenAIOptions{Name: ProviderOpenAI, APIKey: key, BaseURL: s.BaseURL})
	case ProviderGemini:
		g, err := NewGemini(ctx, key)
		if err != nil {
			return nil, err
		}
		real = g
	case ProviderMock, "":
		return &MockClient{}, nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", s.Provider)
	}
	if key == "" {
		return &KeyFallback{Real: real, Mock: &MockClient{}}, nil
	}
	return real, nil
}
