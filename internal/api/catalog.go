package api

import (
	"errors"
	"net/http"

	"smearn/internal/auth"
	"smearn/internal/extract"
	"smearn/internal/models"
	"smearn/internal/storage"
)

// PremiumDownloadMessage is shown when a premium textbook is requested.
const PremiumDownloadMessage = "This is a premium textbook. Please upgrade your account to download."

type subjectView struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (h *Handler) GetSubjects(w http.ResponseWriter, r *http.Request) {
	out := make([]subjectView, 0, len(models.Subjects))
	for _, s := range models.Subjects {
		out = append(out, subjectView{Name: string(s), Slug: s.Slug()})
	}
	jsonResponse(w, out, http.StatusOK)
}

type featureCard struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	View        string `json:"view"`
}

var dashboardCards = []featureCard{
	{"Practice Past Questions", "Test your knowledge with official JAMB & WAEC past questions.", "past-questions"},
	{"Ask the AI Tutor", "Stuck on a concept? Get instant explanations and help.", "ai-tutor"},
	{"Review Flashcards", "Master key terms and definitions with interactive cards.", "flashcards"},
	{"Watch Tutorials", "Learn from curated educational videos by subject.", "videos"},
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]any{
		"greeting": "Welcome back, Student!",
		"tagline":  "Ready to ace your exams? Let's get started.",
		"features": dashboardCards,
		"progress": map[string]any{
			"attempted": 0,
			"message":   "You haven't attempted any quizzes yet. Start practicing to see your progress here!",
		},
	}, http.StatusOK)
}

// Questions

type optionView struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

type questionView struct {
	Index   int          `json:"index"`
	ID      int64        `json:"id"`
	Text    string       `json:"text"`
	Options []optionView `json:"options"`
	Answer  string       `json:"answer"`
}

func newQuestionView(i int, q models.Question) questionView {
	opts := make([]optionView, len(q.Options))
	for j, o := range q.Options {
		opts[j] = optionView{Label: models.OptionLabel(j), Text: o}
	}
	return questionView{Index: i + 1, ID: q.ID, Text: q.Text, Options: opts, Answer: q.Answer}
}

func (h *Handler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectVar(r)
	if !ok {
		errorResponse(w, "Unknown subject", http.StatusNotFound)
		return
	}

	qs, err := h.store.ListQuestions(subject)
	if err != nil {
		failure(w, r, err)
		return
	}

	views := make([]questionView, len(qs))
	for i, q := range qs {
		views[i] = newQuestionView(i, q)
	}
	jsonResponse(w, map[string]any{
		"subject":   subject,
		"questions": views,
		"count":     len(views),
	}, http.StatusOK)
}

// ImportQuestions reads the multipart "file" field and runs the extraction
// pipeline for the subject. Only privileged sessions may import.
func (h *Handler) ImportQuestions(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	if !session.Privileged {
		failure(w, r, auth.ErrForbidden)
		return
	}

	subject, ok := subjectVar(r)
	if !ok {
		errorResponse(w, "Unknown subject", http.StatusNotFound)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		errorResponse(w, "Invalid upload", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		errorResponse(w, "No file found", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := h.importer.Import(r.Context(), subject, extract.Upload{
		Filename: header.Filename,
		MIMEType: header.Header.Get("Content-Type"),
		Body:     file,
	})
	if err != nil {
		failure(w, r, err)
		return
	}

	jsonResponse(w, result, http.StatusCreated)
}

// Flashcards

func (h *Handler) GetFlashcards(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectVar(r)
	if !ok {
		errorResponse(w, "Unknown subject", http.StatusNotFound)
		return
	}

	cards, err := h.store.ListFlashcards(subject)
	if err != nil {
		failure(w, r, err)
		return
	}

	total := len(cards)
	index := min(max(getQueryInt(r, "index", 0), 0), max(total-1, 0))

	resp := map[string]any{
		"subject":  subject,
		"total":    total,
		"index":    index,
		"has_prev": index > 0,
		"has_next": index < total-1,
		"cards":    cards,
	}
	if total > 0 {
		resp["card"] = cards[index]
		resp["position"] = index + 1
	}
	jsonResponse(w, resp, http.StatusOK)
}

// Videos

type videoView struct {
	models.TutorialVideo
	ThumbnailURL string `json:"thumbnail_url"`
	EmbedURL     string `json:"embed_url"`
}

func (h *Handler) GetVideos(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectVar(r)
	if !ok {
		errorResponse(w, "Unknown subject", http.StatusNotFound)
		return
	}

	videos, err := h.store.ListVideos(subject)
	if err != nil {
		failure(w, r, err)
		return
	}

	views := make([]videoView, len(videos))
	for i, v := range videos {
		views[i] = videoView{TutorialVideo: v, ThumbnailURL: v.ThumbnailURL(), EmbedURL: v.EmbedURL()}
	}
	jsonResponse(w, views, http.StatusOK)
}

// Textbooks

func (h *Handler) GetTextbooks(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectVar(r)
	if !ok {
		errorResponse(w, "Unknown subject", http.StatusNotFound)
		return
	}

	books, err := h.store.ListTextbooks(subject)
	if err != nil {
		failure(w, r, err)
		return
	}
	jsonResponse(w, books, http.StatusOK)
}

func (h *Handler) textbook(w http.ResponseWriter, r *http.Request) (*models.Textbook, bool) {
	id, ok := int64Var(r, "id")
	if !ok {
		errorResponse(w, "Textbook not found", http.StatusNotFound)
		return nil, false
	}
	book, err := h.store.GetTextbook(id)
	if errors.Is(err, storage.ErrNotFound) {
		errorResponse(w, "Textbook not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		failure(w, r, err)
		return nil, false
	}
	return book, true
}

func (h *Handler) DownloadTextbook(w http.ResponseWriter, r *http.Request) {
	book, ok := h.textbook(w, r)
	if !ok {
		return
	}
	if book.IsPremium {
		errorResponse(w, PremiumDownloadMessage, http.StatusForbidden)
		return
	}
	jsonResponse(w, map[string]any{
		"id":           book.ID,
		"title":        book.Title,
		"download_url": book.DownloadURL,
	}, http.StatusOK)
}

func (h *Handler) PreviewTextbook(w http.ResponseWriter, r *http.Request) {
	book, ok := h.textbook(w, r)
	if !ok {
		return
	}
	jsonResponse(w, h.previewer.Preview(r.Context(), *book), http.StatusOK)
}
