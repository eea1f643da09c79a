package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"smearn/internal/llm"
	"smearn/internal/models"
	"smearn/internal/observability"
	"smearn/internal/storage"
	"smearn/internal/tutor"
)

const wsWriteTimeout = 10 * time.Second

type askRequest struct {
	QuestionID int64 `json:"question_id"`
}

type messageRequest struct {
	Message string `json:"message"`
}

// conversation loads the {id} conversation of the calling session.
func (h *Handler) conversation(w http.ResponseWriter, r *http.Request) (*tutor.Conversation, bool) {
	conv, err := h.tutors.Get(mux.Vars(r)["id"], sessionFrom(r.Context()).ID)
	if err != nil {
		errorResponse(w, "Conversation not found", http.StatusNotFound)
		return nil, false
	}
	return conv, true
}

func (h *Handler) question(id int64) (*models.Question, error) {
	q, err := h.store.GetQuestion(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errQuestionNotFound
	}
	return q, err
}

var errQuestionNotFound = errors.New("question not found")

// CreateConversation opens a conversation. With a question_id the tutor is
// asked about that question right away; the answer streams into the
// conversation in the background.
func (h *Handler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		errorResponse(w, "Invalid request", http.StatusBadRequest)
		return
	}

	var q *models.Question
	if req.QuestionID != 0 {
		var err error
		if q, err = h.question(req.QuestionID); err != nil {
			failure(w, r, err)
			return
		}
	}

	conv := h.tutors.Open(sessionFrom(r.Context()).ID)
	log := observability.LoggerFromContext(r.Context())
	log.Info("conversation opened", "conversation_id", conv.ID, "question_id", req.QuestionID)

	if q != nil {
		// outlives the request; Close cancels it
		ctx := context.WithoutCancel(r.Context())
		go func() {
			if err := conv.AskAbout(ctx, *q, nil); err != nil {
				log.Warn("auto-ask failed", "conversation_id", conv.ID, "error", err)
			}
		}()
	}

	jsonResponse(w, conv.Snapshot(), http.StatusCreated)
}

func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	conv, ok := h.conversation(w, r)
	if !ok {
		return
	}
	jsonResponse(w, conv.Snapshot(), http.StatusOK)
}

func (h *Handler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	if err := h.tutors.Close(mux.Vars(r)["id"], sessionFrom(r.Context()).ID); err != nil {
		failure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendMessage blocks until the answer is complete and returns the new state.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	conv, ok := h.conversation(w, r)
	if !ok {
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := conv.Send(r.Context(), req.Message, nil); err != nil {
		failure(w, r, err)
		return
	}
	jsonResponse(w, conv.Snapshot(), http.StatusOK)
}

// AskAboutQuestion sends the auto-ask prompt for a catalog question.
func (h *Handler) AskAboutQuestion(w http.ResponseWriter, r *http.Request) {
	conv, ok := h.conversation(w, r)
	if !ok {
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.QuestionID == 0 {
		errorResponse(w, "question_id is required", http.StatusBadRequest)
		return
	}
	q, err := h.question(req.QuestionID)
	if err != nil {
		failure(w, r, err)
		return
	}

	if err := conv.AskAbout(r.Context(), *q, nil); err != nil {
		failure(w, r, err)
		return
	}
	jsonResponse(w, conv.Snapshot(), http.StatusOK)
}

// WebSocket protocol

type wsClientMessage struct {
	Message    string `json:"message"`
	QuestionID int64  `json:"question_id"`
}

type wsEvent struct {
	Type    string              `json:"type"`
	Content string              `json:"content,omitempty"`
	Message *models.ChatMessage `json:"message,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// StreamConversation upgrades to a WebSocket. Every client message starts a
// send whose fragments are pushed as they arrive. Sends run independently of
// the socket, so a dropped connection does not lose the answer.
func (h *Handler) StreamConversation(w http.ResponseWriter, r *http.Request) {
	conv, ok := h.conversation(w, r)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	log := observability.LoggerFromContext(r.Context()).With("conversation_id", conv.ID)

	var mu sync.Mutex
	write := func(e wsEvent) {
		mu.Lock()
		defer mu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(e); err != nil {
			log.Debug("websocket write failed", "error", err)
		}
	}

	listener := func(e tutor.Event) {
		switch e.Type {
		case tutor.EventFragment:
			write(wsEvent{Type: "fragment", Content: e.Fragment})
		case tutor.EventDone:
			msg := e.Message
			write(wsEvent{Type: "done", Message: &msg})
		case tutor.EventError:
			write(wsEvent{Type: "error", Error: llm.UserMessage(e.Err)})
		}
	}

	ctx := context.WithoutCancel(r.Context())
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		var msg wsClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("websocket read ended", "error", err)
			}
			return
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := h.dispatch(ctx, conv, msg, listener)
			if err != nil && rejected(err) {
				write(wsEvent{Type: "rejected", Error: llmMessage(err)})
			}
		}()
	}
}

func (h *Handler) dispatch(ctx context.Context, conv *tutor.Conversation, msg wsClientMessage, listener tutor.Listener) error {
	if msg.QuestionID != 0 {
		q, err := h.question(msg.QuestionID)
		if err != nil {
			return err
		}
		return conv.AskAbout(ctx, *q, listener)
	}
	return conv.Send(ctx, msg.Message, listener)
}

// rejected reports whether err refused the send before anything was streamed.
func rejected(err error) bool {
	return errors.Is(err, tutor.ErrEmptyPrompt) ||
		errors.Is(err, tutor.ErrBusy) ||
		errors.Is(err, tutor.ErrAlreadyAsked) ||
		errors.Is(err, tutor.ErrClosed) ||
		errors.Is(err, errQuestionNotFound)
}
