package companion

import (
	"context"
	"fmt"

	gen "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// ModelName matches the model the web client talks to.
const ModelName = "gemini-1.5-flash"

// GeminiProvider adapts one API credential of the Gemini service to the
// Provider interface.
type GeminiProvider struct {
	client *gen.Client
	model  *gen.GenerativeModel
}

// NewGeminiProvider dials the service with the given API key. Callers
// hold one provider per credential; the primary/fallback pairing lives
// in the Dispatcher.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := gen.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("dialing generative service: %w", err)
	}
	return &GeminiProvider{
		client: client,
		model:  client.GenerativeModel(ModelName),
	}, nil
}

func (g *GeminiProvider) Close() error { return g.client.Close() }

func (g *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, gen.Text(prompt))
	if err != nil {
		return "", err
	}
	return flatten(resp)
}

func (g *GeminiProvider) GenerateStream(ctx context.Context, prompt string) (<-chan Chunk, error) {
	iter := g.model.GenerateContentStream(ctx, gen.Text(prompt))
	out := make(chan Chunk)
	go func() {
		defer close(out)
		for {
			resp, err := iter.Next()
			if err == iterator.Done {
				return
			}
			if err != nil {
				select {
				case <-ctx.Done():
				case out <- Chunk{Err: err}:
				}
				return
			}
			text, err := flatten(resp)
			if err != nil {
				select {
				case <-ctx.Done():
				case out <- Chunk{Err: err}:
				}
				return
			}
			select {
			case <-ctx.Done():
				return
			case out <- Chunk{Text: text}:
			}
		}
	}()
	return out, nil
}

// flatten concatenates the text parts of the first candidate.
func flatten(resp *gen.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty candidate in response")
	}
	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(gen.Text); ok {
			text += string(t)
		}
	}
	return text, nil
}
