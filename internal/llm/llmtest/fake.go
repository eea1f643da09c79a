// Package llmtest provides a scriptable llm.Provider for tests.
package llmtest

import (
	"context"
	"sync"

	"smearn/internal/llm"
)

// Fake records every call and answers with the configured funcs.
type Fake struct {
	ChatFunc    func(ctx context.Context, prompt string) (<-chan llm.StreamChunk, error)
	ExtractFunc func(ctx context.Context, att llm.Attachment) ([]llm.RawQuestion, error)

	mu          sync.Mutex
	prompts     []string
	attachments []llm.Attachment
}

var _ llm.Provider = (*Fake)(nil)

func (f *Fake) Name() string { return "fake" }

func (f *Fake) StreamChat(ctx context.Context, prompt string) (<-chan llm.StreamChunk, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.ChatFunc == nil {
		return Stream(ctx), nil
	}
	return f.ChatFunc(ctx, prompt)
}

func (f *Fake) ExtractQuestions(ctx context.Context, att llm.Attachment) ([]llm.RawQuestion, error) {
	f.mu.Lock()
	f.attachments = append(f.attachments, att)
	f.mu.Unlock()

	if f.ExtractFunc == nil {
		return nil, nil
	}
	return f.ExtractFunc(ctx, att)
}

// Prompts returns the prompts passed to StreamChat so far.
func (f *Fake) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

// Attachments returns the attachments passed to ExtractQuestions so far.
func (f *Fake) Attachments() []llm.Attachment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]llm.Attachment(nil), f.attachments...)
}

// Stream delivers chunks in order and closes the channel, stopping early when
// ctx ends.
func Stream(ctx context.Context, chunks ...llm.StreamChunk) <-chan llm.StreamChunk {
	ch := make(chan llm.StreamChunk)
	go func() {
		defer close(ch)
		for _, c := range chunks {
			select {
			case ch <- c:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

// Fragments answers every prompt with the given text fragments.
func Fragments(parts ...string) func(context.Context, string) (<-chan llm.StreamChunk, error) {
	return func(ctx context.Context, _ string) (<-chan llm.StreamChunk, error) {
		chunks := make([]llm.StreamChunk, len(parts))
		for i, p := range parts {
			chunks[i] = llm.StreamChunk{Content: p}
		}
		return Stream(ctx, chunks...), nil
	}
}
