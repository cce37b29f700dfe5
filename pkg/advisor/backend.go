package advisor

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNoAPIKey is returned by OpenAIBackend.Open when no key is configured.
var ErrNoAPIKey = errors.New("api key not set")

// TextChunk is one delta of generated text.
type TextChunk struct {
	Content string
}

// ChunkStream yields chunks until Recv returns io.EOF.
type ChunkStream interface {
	Recv() (TextChunk, error)
	Close() error
}

// Backend opens a completion stream for a prompt. The stream must stop
// when ctx is cancelled.
type Backend interface {
	Open(ctx context.Context, prompt string) (ChunkStream, error)
}

// OpenAIBackend talks to any OpenAI-compatible chat completions endpoint.
type OpenAIBackend struct {
	client *openai.Client
	model  string
	hasKey bool
}

// NewOpenAIBackend creates a backend for baseURL. An empty baseURL uses the
// library default.
func NewOpenAIBackend(baseURL, apiKey, model string) *OpenAIBackend {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIBackend{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		hasKey: apiKey != "",
	}
}

func (b *OpenAIBackend) Open(ctx context.Context, prompt string) (ChunkStream, error) {
	if !b.hasKey {
		return nil, ErrNoAPIKey
	}
	stream, err := b.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Stream: true,
	})
	if err != nil {
		return nil, err
	}
	return &openAIStream{stream: stream}, nil
}

type openAIStream struct {
	stream *openai.ChatCompletionStream
}

func (s *openAIStream) Recv() (TextChunk, error) {
	for {
		resp, err := s.stream.Recv()
		if err != nil {
			return TextChunk{}, err
		}
		// Some providers send role-only or usage-only deltas.
		if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
			continue
		}
		return TextChunk{Content: resp.Choices[0].Delta.Content}, nil
	}
}

func (s *openAIStream) Close() error {
	s.stream.Close()
	return nil
}

var _ Backend = (*OpenAIBackend)(nil)
