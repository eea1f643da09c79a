package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"smearn/internal/auth"
	"smearn/internal/config"
	"smearn/internal/extract"
	"smearn/internal/llm"
	"smearn/internal/models"
	"smearn/internal/observability"
	"smearn/internal/pdf"
	"smearn/internal/storage"
	"smearn/internal/tutor"
)

// maxUploadSize bounds the multipart form kept in memory for imports.
const maxUploadSize = 20 << 20

// Handler serves every API endpoint.
type Handler struct {
	store     storage.Storage
	llm       llm.Provider
	importer  *extract.Importer
	auth      auth.Authenticator
	sessions  *auth.SessionStore
	tutors    *tutor.Manager
	previewer *pdf.Previewer
	config    *config.Config
	upgrader  websocket.Upgrader
}

// NewHandler wires the handler. The provider is shared by the tutor and the
// importer.
func NewHandler(cfg *config.Config, store storage.Storage, provider llm.Provider, authn auth.Authenticator) *Handler {
	return &Handler{
		store:     store,
		llm:       provider,
		importer:  extract.NewImporter(provider, store),
		auth:      authn,
		sessions:  auth.NewSessionStore(),
		tutors:    tutor.NewManager(provider),
		previewer: pdf.NewPreviewer(cfg.TextbooksPath, cfg.PreviewPages),
		config:    cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Close tears down every live conversation.
func (h *Handler) Close() {
	h.tutors.CloseAll()
}

// Response helpers

func jsonResponse(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResponse(w http.ResponseWriter, message string, status int) {
	jsonResponse(w, map[string]string{"error": message}, status)
}

// failure maps err to a status and replies. Backend errors carry their own
// user-facing text; everything unexpected is logged and hidden.
func failure(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		observability.LoggerFromContext(r.Context()).Error("request failed", "error", err)
		errorResponse(w, "Internal server error", status)
		return
	}
	errorResponse(w, llmMessage(err), status)
}

func llmMessage(err error) string {
	var e *llm.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func statusFor(err error) int {
	var e *llm.Error
	switch {
	case errors.Is(err, tutor.ErrEmptyPrompt),
		errors.Is(err, extract.ErrUnsupportedMedia),
		errors.Is(err, extract.ErrInvalidSubject),
		errors.Is(err, extract.ErrEmptyUpload),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, tutor.ErrBusy),
		errors.Is(err, tutor.ErrAlreadyAsked),
		errors.Is(err, tutor.ErrClosed):
		return http.StatusConflict
	case errors.Is(err, tutor.ErrNotFound),
		errors.Is(err, storage.ErrNotFound),
		errors.Is(err, errQuestionNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrSessionNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden
	case errors.As(err, &e):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// subjectVar resolves the {subject} path variable, slug or display name.
func subjectVar(r *http.Request) (models.Subject, bool) {
	return models.ParseSubject(mux.Vars(r)["subject"])
}

func int64Var(r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[key], 10, 64)
	return id, err == nil
}

// getQueryInt reads an optional integer query parameter.
func getQueryInt(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// System

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]any{
		"status":        "ok",
		"llm_provider":  h.llm.Name(),
		"conversations": h.tutors.Count(),
		"sessions":      h.sessions.Len(),
		"timestamp":     time.Now(),
	}, http.StatusOK)
}
