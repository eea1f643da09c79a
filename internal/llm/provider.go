package llm

import (
	"context"
	"errors"
)

// DefaultModel is used by both the chat and the extraction call.
const DefaultModel = "gemini-2.5-flash"

// Sampling parameters of every chat request.
const (
	ChatTemperature float32 = 0.7
	ChatTopP        float32 = 0.95
)

// User-facing messages. Raw transport errors never leave this package.
const (
	ChatFailedMessage    = "Failed to get response from AI. Please check your connection or API key."
	ExtractFailedMessage = "Failed to extract questions from the file. The AI could not process the image."
	NotAnArrayMessage    = "AI response is not in the expected array format."
)

var (
	// ErrMissingAPIKey is returned by constructors when no credential is configured.
	ErrMissingAPIKey = errors.New("API_KEY environment variable not set")
	// ErrNotArray marks a structured response whose top level is not a JSON array.
	ErrNotArray = errors.New(NotAnArrayMessage)
)

// Provider is the only component that talks to the generative backend.
type Provider interface {
	// StreamChat opens a streaming completion for prompt using the tutor persona.
	// The channel yields fragments in order and is closed when the backend ends
	// the stream. A chunk with Err set is the last one sent.
	StreamChat(ctx context.Context, prompt string) (<-chan StreamChunk, error)

	// ExtractQuestions asks the backend to read the multiple-choice questions
	// printed in the attachment and returns every element of the result array.
	ExtractQuestions(ctx context.Context, att Attachment) ([]RawQuestion, error)

	// Name identifies the backend in logs and health output.
	Name() string
}

// StreamChunk is one fragment of a streamed answer.
type StreamChunk struct {
	Content string
	Err     error
}

// Attachment is an inline binary part. The SDK base64-encodes Data on the wire.
type Attachment struct {
	MIMEType string
	Data     []byte
}

// RawQuestion is one element of the extraction result before validation.
type RawQuestion struct {
	Text    string   `json:"text" validate:"required"`
	Options []string `json:"options" validate:"len=4"`
	Answer  string   `json:"answer" validate:"required"`
}

// Error is the uniform error raised at the adapter boundary.
// Message is safe to show to users; Err keeps the cause for logs.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func chatError(err error) error {
	return &Error{Message: ChatFailedMessage, Err: err}
}

func extractError(err error) error {
	return &Error{Message: ExtractFailedMessage, Err: err}
}

// UserMessage returns the text to show for err.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return "An unknown error occurred."
}
