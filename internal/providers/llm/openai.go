package llm

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	TogetherBaseURL = "https://api.together.xyz/v1/"
	OpenAIBaseURL   = "https://api.openai.com/v1/"
)

// OpenAIClient streams chat completions from any OpenAI-compatible API
// (OpenAI itself, Together, local gateways).
type OpenAIClient struct {
	client openai.Client
	name   string
}

type OpenAIOptions struct {
	// Name labels errors, e.g. "together". Defaults to "openai".
	Name    string
	APIKey  string
	BaseURL string
	// Extra request options, e.g. option.WithHTTPClient in tests.
	Options []option.RequestOption
}

func NewOpenAI(o OpenAIOptions) *OpenAIClient {
	base := o.BaseURL
	if base == "" {
		base = OpenAIBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	opts := []option.RequestOption{
		option.WithBaseURL(base),
		// One generation call per job; retrying would duplicate output.
		option.WithMaxRetries(0),
	}
	if o.APIKey != "" {
		opts = append(opts, option.WithAPIKey(o.APIKey))
	}
	opts = append(opts, o.Options...)
	name := o.Name
	if name == "" {
		name = "openai"
	}
	return &OpenAIClient{client: openai.NewClient(opts...), name: name}
}

func (c *OpenAIClient) Stream(ctx context.Context, req Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		var reqOpts []option.RequestOption
		if req.APIKey != "" {
			reqOpts = append(reqOpts, option.WithAPIKey(req.APIKey))
		}
		stream := c.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
			Model: req.Model,
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(req.Prompt),
			},
		}, reqOpts...)
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			if s := chunk.Choices[0].Delta.Content; s != "" {
				if !yield(s, nil) {
					return
				}
			}
		}
		if err := stream.Err(); err != nil {
			yield("", fmt.Errorf("%s: %w", c.name, err))
		}
	}
}

var _ Client = (*OpenAIClient)(nil)
