package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter builds the HTTP router with every endpoint.
func NewRouter(h *Handler) http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public
	api.HandleFunc("/health", h.HealthCheck).Methods("GET")
	api.HandleFunc("/auth/signup", h.Signup).Methods("POST")
	api.HandleFunc("/auth/login", h.Login).Methods("POST")
	api.HandleFunc("/auth/guest", h.LoginGuest).Methods("POST")
	api.HandleFunc("/auth/logout", h.Logout).Methods("POST")

	// Everything below needs a session
	private := api.NewRoute().Subrouter()
	private.Use(h.requireSession)

	private.HandleFunc("/auth/session", h.GetSession).Methods("GET")

	// Catalog
	private.HandleFunc("/subjects", h.GetSubjects).Methods("GET")
	private.HandleFunc("/dashboard", h.GetDashboard).Methods("GET")
	private.HandleFunc("/subjects/{subject}/questions", h.GetQuestions).Methods("GET")
	private.HandleFunc("/subjects/{subject}/questions/import", h.ImportQuestions).Methods("POST")
	private.HandleFunc("/subjects/{subject}/flashcards", h.GetFlashcards).Methods("GET")
	private.HandleFunc("/subjects/{subject}/videos", h.GetVideos).Methods("GET")
	private.HandleFunc("/subjects/{subject}/textbooks", h.GetTextbooks).Methods("GET")
	private.HandleFunc("/textbooks/{id}/download", h.DownloadTextbook).Methods("GET")
	private.HandleFunc("/textbooks/{id}/preview", h.PreviewTextbook).Methods("GET")

	// Tutor
	private.HandleFunc("/tutor/conversations", h.CreateConversation).Methods("POST")
	private.HandleFunc("/tutor/conversations/{id}", h.GetConversation).Methods("GET")
	private.HandleFunc("/tutor/conversations/{id}", h.DeleteConversation).Methods("DELETE")
	private.HandleFunc("/tutor/conversations/{id}/messages", h.SendMessage).Methods("POST")
	private.HandleFunc("/tutor/conversations/{id}/ask", h.AskAboutQuestion).Methods("POST")
	private.HandleFunc("/tutor/conversations/{id}/stream", h.StreamConversation).Methods("GET")

	// Static front-end
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(h.config.StaticDir)))

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
	})

	return withLogging(withRecover(c.Handler(r)))
}
