package models

import (
	"strings"
	"time"
)

// Subject is one of the fixed exam subjects. Every catalog is partitioned by it.
type Subject string

const (
	SubjectMathematics         Subject = "Mathematics"
	SubjectEnglish             Subject = "English Language"
	SubjectPhysics             Subject = "Physics"
	SubjectChemistry           Subject = "Chemistry"
	SubjectBiology             Subject = "Biology"
	SubjectLiteratureInEnglish Subject = "Literature in English"
	SubjectGovernment          Subject = "Government"
	SubjectCRS                 Subject = "Christian Religious Studies"
	SubjectEconomics           Subject = "Economics"
)

// Subjects lists every subject in display order.
var Subjects = []Subject{
	SubjectMathematics,
	SubjectEnglish,
	SubjectPhysics,
	SubjectChemistry,
	SubjectBiology,
	SubjectLiteratureInEnglish,
	SubjectGovernment,
	SubjectCRS,
	SubjectEconomics,
}

// Slug returns the URL form of the subject, e.g. "english-language".
func (s Subject) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(s)), " ", "-")
}

// Valid reports whether s is one of the known subjects.
func (s Subject) Valid() bool {
	for _, known := range Subjects {
		if s == known {
			return true
		}
	}
	return false
}

// ParseSubject resolves a slug or a display name to a Subject.
func ParseSubject(v string) (Subject, bool) {
	for _, s := range Subjects {
		if strings.EqualFold(v, s.Slug()) || strings.EqualFold(v, string(s)) {
			return s, true
		}
	}
	return "", false
}

// OptionCount is the number of options every multiple-choice question carries.
const OptionCount = 4

// Question is a multiple-choice past question.
type Question struct {
	ID      int64    `json:"id"`
	Subject Subject  `json:"subject"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

// OptionLabel returns "A".."D" for option index i.
func OptionLabel(i int) string {
	return string(rune('A' + i))
}

// Flashcard is a question/answer pair for memorisation.
type Flashcard struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Subject  Subject `json:"subject"`
}

// TutorialVideo references a video by its YouTube id.
type TutorialVideo struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Subject     Subject `json:"subject"`
}

// ThumbnailURL returns the medium-quality thumbnail for the video.
func (v TutorialVideo) ThumbnailURL() string {
	return "https://img.youtube.com/vi/" + v.ID + "/mqdefault.jpg"
}

// EmbedURL returns the autoplaying embed URL for the video.
func (v TutorialVideo) EmbedURL() string {
	return "https://www.youtube.com/embed/" + v.ID + "?autoplay=1"
}

// Textbook is a recommended book; premium books cannot be downloaded.
type Textbook struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Subject     Subject `json:"subject"`
	Description string  `json:"description"`
	CoverURL    string  `json:"cover_url"`
	DownloadURL string  `json:"download_url"`
	IsPremium   bool    `json:"is_premium"`
}

// Role identifies who wrote a chat message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ChatMessage is one entry of a tutor conversation.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Catalog bundles the static seed tables, keyed by subject.
type Catalog struct {
	Questions  map[Subject][]Question
	Flashcards map[Subject][]Flashcard
	Videos     map[Subject][]TutorialVideo
	Textbooks  map[Subject][]Textbook
}

// Session is the capability produced by a successful login.
type Session struct {
	ID         string    `json:"id"`
	Email      string    `json:"email,omitempty"`
	Privileged bool      `json:"privileged"`
	CreatedAt  time.Time `json:"created_at"`
}
