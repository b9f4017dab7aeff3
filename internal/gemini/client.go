package gemini

import (
	"context"
	"iter"

	"google.golang.org/genai"
)

// Client is the narrow surface of the provider SDK the adapter depends on.
// Tests substitute a fake; production code wraps *genai.Client.
type Client interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

type sdkClient struct {
	c *genai.Client
}

// WrapClient adapts a *genai.Client to the Client interface.
func WrapClient(c *genai.Client) Client {
	return &sdkClient{c: c}
}

func (s *sdkClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return s.c.Models.GenerateContent(ctx, model, contents, config)
}

func (s *sdkClient) GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
	return s.c.Models.GenerateContentStream(ctx, model, contents, config)
}
