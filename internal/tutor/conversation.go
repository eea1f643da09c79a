package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"smearn/internal/llm"
	"smearn/internal/models"
	"smearn/internal/observability"
)

var (
	ErrEmptyPrompt  = errors.New("message is empty")
	ErrBusy         = errors.New("the tutor is still answering")
	ErrAlreadyAsked = errors.New("question already sent to the tutor")
	ErrClosed       = errors.New("conversation closed")
	ErrNotFound     = errors.New("conversation not found")
)

// EventType tells a listener what changed.
type EventType string

const (
	EventFragment EventType = "fragment"
	EventDone     EventType = "done"
	EventError    EventType = "error"
)

// Event is delivered to a Listener after every state change of a send.
type Event struct {
	Type     EventType
	Fragment string
	// Message is the trailing model message after the change.
	Message models.ChatMessage
	Err     error
}

// Listener observes a send. It runs on the sending goroutine, one event at a
// time, in fragment arrival order.
type Listener func(Event)

// Conversation is one tutor chat. Its message list is append-only except for
// the trailing model message, which grows while a response streams in.
// At most one send is in flight at a time.
type Conversation struct {
	ID        string
	OwnerID   string
	CreatedAt time.Time

	provider llm.Provider

	mu        sync.Mutex
	messages  []models.ChatMessage
	busy      bool
	err       error
	closed    bool
	lastAsked string
	cancel    context.CancelFunc
}

// NewConversation creates an idle conversation.
func NewConversation(id, ownerID string, provider llm.Provider) *Conversation {
	return &Conversation{
		ID:        id,
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
		provider:  provider,
		messages:  []models.ChatMessage{},
	}
}

// Send submits text and blocks until the answer is complete or failed.
// Empty text and sends while busy are rejected without touching the history.
func (c *Conversation) Send(ctx context.Context, text string, listener Listener) error {
	return c.send(ctx, text, "", listener)
}

// AskAbout sends the tutor a request to explain q. The same question is only
// ever sent once per conversation; repeating it returns ErrAlreadyAsked.
func (c *Conversation) AskAbout(ctx context.Context, q models.Question, listener Listener) error {
	return c.send(ctx, QuestionPrompt(q), questionKey(q), listener)
}

// QuestionPrompt builds the auto-ask prompt for q with options labelled A-D.
func QuestionPrompt(q models.Question) string {
	var b strings.Builder
	b.WriteString("Please help me understand and solve this question:\n\n")
	fmt.Fprintf(&b, "**Question:** \"%s\"\n\n", q.Text)
	b.WriteString("**Options:**")
	for i, opt := range q.Options {
		fmt.Fprintf(&b, "\n- %s: %s", models.OptionLabel(i), opt)
	}
	return b.String()
}

func questionKey(q models.Question) string {
	return fmt.Sprintf("%d\x00%s\x00%s", q.ID, q.Text, strings.Join(q.Options, "\x00"))
}

func (c *Conversation) send(ctx context.Context, text, askKey string, listener Listener) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyPrompt
	}
	if listener == nil {
		listener = func(Event) {}
	}

	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return ErrClosed
	case c.busy:
		c.mu.Unlock()
		return ErrBusy
	case askKey != "" && askKey == c.lastAsked:
		c.mu.Unlock()
		return ErrAlreadyAsked
	}
	if askKey != "" {
		c.lastAsked = askKey
	}
	c.messages = append(c.messages,
		models.ChatMessage{Role: models.RoleUser, Content: text},
		models.ChatMessage{Role: models.RoleModel, Content: ""},
	)
	c.busy = true
	c.err = nil
	streamCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()
	defer cancel()

	log := observability.LoggerFromContext(ctx).With("conversation_id", c.ID)
	start := time.Now()

	chunks, err := c.provider.StreamChat(streamCtx, text)
	if err != nil {
		return c.fail(err, listener)
	}

	fragments := 0
	for chunk := range chunks {
		if chunk.Err != nil {
			return c.fail(chunk.Err, listener)
		}
		if !c.apply(chunk.Content, listener) {
			return ErrClosed
		}
		fragments++
	}

	// The provider closes the channel silently when the context ends.
	if err := streamCtx.Err(); err != nil {
		return c.fail(&llm.Error{Message: llm.ChatFailedMessage, Err: err}, listener)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.busy = false
	c.cancel = nil
	final := c.messages[len(c.messages)-1]
	c.mu.Unlock()

	log.Info("tutor answered", "fragments", fragments, "chars", len(final.Content), "elapsed", time.Since(start))
	listener(Event{Type: EventDone, Message: final})
	return nil
}

// apply appends a fragment to the trailing model message. It reports false
// once the conversation has been closed; the fragment is then discarded.
func (c *Conversation) apply(fragment string, listener Listener) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	last := &c.messages[len(c.messages)-1]
	last.Content += fragment
	msg := *last
	c.mu.Unlock()

	listener(Event{Type: EventFragment, Fragment: fragment, Message: msg})
	return true
}

// fail drops the placeholder model message, records err and clears busy.
func (c *Conversation) fail(err error, listener Listener) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if n := len(c.messages); n > 0 && c.messages[n-1].Role == models.RoleModel {
		c.messages = c.messages[:n-1]
	}
	c.err = err
	c.busy = false
	c.cancel = nil
	c.mu.Unlock()

	observability.Logger().Warn("tutor request failed", "conversation_id", c.ID, "error", err)
	listener(Event{Type: EventError, Err: err})
	return err
}

// Close tears the conversation down. An in-flight stream is cancelled and
// nothing it still delivers is applied.
func (c *Conversation) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Messages returns a copy of the history.
func (c *Conversation) Messages() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Busy reports whether a send is in flight.
func (c *Conversation) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Err returns the error of the last failed send, cleared by the next send.
func (c *Conversation) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Closed reports whether Close has been called.
func (c *Conversation) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Snapshot is a point-in-time view of a conversation.
type Snapshot struct {
	ID       string               `json:"id"`
	Messages []models.ChatMessage `json:"messages"`
	Busy     bool                 `json:"busy"`
	Error    string               `json:"error,omitempty"`
}

func (c *Conversation) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{
		ID:       c.ID,
		Messages: make([]models.ChatMessage, len(c.messages)),
		Busy:     c.busy,
	}
	copy(s.Messages, c.messages)
	if c.err != nil {
		s.Error = llm.UserMessage(c.err)
	}
	return s
}
