package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"smearn/internal/models"
	"smearn/internal/observability"
)

type sessionKey struct{}

func withSession(ctx context.Context, s models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// sessionFrom returns the session attached by requireSession.
func sessionFrom(ctx context.Context) models.Session {
	s, _ := ctx.Value(sessionKey{}).(models.Session)
	return s
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	// browsers cannot set headers on a WebSocket handshake
	return r.URL.Query().Get("token")
}

// requireSession rejects requests without a known session.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := h.sessions.Get(bearerToken(r))
		if err != nil {
			errorResponse(w, "Please log in first", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), session)))
	})
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, "Invalid request", http.StatusBadRequest)
		return
	}

	msg, err := h.auth.Signup(r.Context(), req.Email)
	if err != nil {
		failure(w, r, err)
		return
	}
	jsonResponse(w, map[string]string{"message": msg}, http.StatusAccepted)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, "Invalid request", http.StatusBadRequest)
		return
	}

	session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		failure(w, r, err)
		return
	}
	h.sessions.Save(session)
	jsonResponse(w, session, http.StatusCreated)
}

func (h *Handler) LoginGuest(w http.ResponseWriter, r *http.Request) {
	session, err := h.auth.LoginGuest(r.Context())
	if err != nil {
		failure(w, r, err)
		return
	}
	h.sessions.Save(session)
	jsonResponse(w, session, http.StatusCreated)
}

// Logout ends the session and tears down its conversations.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if !h.sessions.Delete(token) {
		errorResponse(w, "Please log in first", http.StatusUnauthorized)
		return
	}
	closed := h.tutors.CloseOwnedBy(token)
	observability.LoggerFromContext(r.Context()).Info("logout", "session_id", token, "conversations_closed", closed)
	jsonResponse(w, map[string]string{"message": "Logged out"}, http.StatusOK)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, sessionFrom(r.Context()), http.StatusOK)
}

// ExpireSessions drops sessions older than the configured lifetime and tears
// down their conversations. It returns how many sessions ended.
func (h *Handler) ExpireSessions(now time.Time) int {
	cutoff := now.Add(-time.Duration(h.config.SessionHours) * time.Hour)
	expired := h.sessions.Expire(cutoff)
	closed := 0
	for _, id := range expired {
		closed += h.tutors.CloseOwnedBy(id)
	}
	if len(expired) > 0 {
		observability.WithFields("component", "sessions").Info("sessions expired",
			"sessions", len(expired),
			"conversations_closed", closed,
		)
	}
	return len(expired)
}

// ReapSessions runs ExpireSessions every interval until ctx is done.
func (h *Handler) ReapSessions(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			h.ExpireSessions(now)
		}
	}
}
