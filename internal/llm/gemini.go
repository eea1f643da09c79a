package llm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"smearn/internal/observability"
)

// GeminiOptions configures the Gemini provider.
type GeminiOptions struct {
	APIKey            string
	Model             string
	RequestsPerMinute int
	// BaseURL overrides the API endpoint (tests, proxies).
	BaseURL string
}

// GeminiProvider implements Provider on the Gemini API.
type GeminiProvider struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates the provider. It refuses to start without a key.
func NewGeminiProvider(ctx context.Context, opts GeminiOptions) (*GeminiProvider, error) {
	if opts.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = 60
	}

	cc := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	perRequest := time.Minute / time.Duration(opts.RequestsPerMinute)
	return &GeminiProvider{
		client:  client,
		model:   opts.Model,
		limiter: rate.NewLimiter(rate.Every(perRequest), max(1, opts.RequestsPerMinute/10)),
	}, nil
}

func (g *GeminiProvider) Name() string {
	return "Gemini (" + g.model + ")"
}

// StreamChat opens a streaming completion. Fragments are handed over one at a
// time on an unbuffered channel, so the backend is only read as fast as the
// caller consumes. Cancelling ctx stops the stream and closes the channel.
func (g *GeminiProvider) StreamChat(ctx context.Context, prompt string) (<-chan StreamChunk, error) {
	log := observability.LoggerFromContext(ctx)

	if err := g.limiter.Wait(ctx); err != nil {
		log.Error("chat stream not started", "error", err)
		return nil, chatError(err)
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(ChatTemperature),
		TopP:              genai.Ptr(ChatTopP),
	}

	log.Debug("opening chat stream", "model", g.model, "prompt_chars", len(prompt))
	stream := g.client.Models.GenerateContentStream(ctx, g.model, genai.Text(prompt), cfg)

	ch := make(chan StreamChunk)
	go func() {
		defer close(ch)

		send := func(c StreamChunk) bool {
			select {
			case ch <- c:
				return true
			case <-ctx.Done():
				return false
			}
		}

		start := time.Now()
		fragments := 0
		for resp, err := range stream {
			if err != nil {
				log.Error("chat stream failed", "error", err, "fragments", fragments)
				send(StreamChunk{Err: chatError(err)})
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			fragments++
			if !send(StreamChunk{Content: text}) {
				log.Debug("chat stream abandoned", "fragments", fragments)
				return
			}
		}
		log.Debug("chat stream complete", "fragments", fragments, "elapsed", time.Since(start))
	}()

	return ch, nil
}

// ExtractQuestions runs the single-shot structured extraction call.
func (g *GeminiProvider) ExtractQuestions(ctx context.Context, att Attachment) ([]RawQuestion, error) {
	log := observability.LoggerFromContext(ctx)

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, extractError(err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(att.Data, att.MIMEType),
			genai.NewPartFromText(ExtractionInstruction),
		}, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   QuestionSchema(),
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		log.Error("extraction request failed", "error", err, "mime_type", att.MIMEType, "bytes", len(att.Data))
		return nil, extractError(err)
	}

	questions, err := ParseQuestionArray(resp.Text())
	if err != nil {
		log.Error("extraction result rejected", "error", err)
		return nil, extractError(err)
	}

	log.Info("extraction complete", "elements", len(questions), "elapsed", time.Since(start))
	return questions, nil
}
