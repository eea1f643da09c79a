package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"smearn/internal/models"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Storage is the per-subject catalog. Insertion order within a subject is
// the display order.
type Storage interface {
	// Questions
	ListQuestions(subject models.Subject) ([]models.Question, error)
	GetQuestion(id int64) (*models.Question, error)
	AppendQuestions(subject models.Subject, qs []models.Question, now time.Time) ([]models.Question, error)

	// Flashcards, videos, textbooks
	ListFlashcards(subject models.Subject) ([]models.Flashcard, error)
	ListVideos(subject models.Subject) ([]models.TutorialVideo, error)
	ListTextbooks(subject models.Subject) ([]models.Textbook, error)
	GetTextbook(id int64) (*models.Textbook, error)

	Seed(cat models.Catalog) error
	Close() error
}

// SQLiteStorage implements Storage with SQLite. The default DSN is an
// in-memory database, so nothing outlives the process.
type SQLiteStorage struct {
	db *sql.DB
}

var _ Storage = (*SQLiteStorage)(nil)

// NewSQLiteStorage opens the database and creates the schema.
func NewSQLiteStorage(dsn string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one connection: an in-memory database lives and dies with it
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	storage := &SQLiteStorage{db: db}
	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return storage, nil
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS questions (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id INTEGER NOT NULL UNIQUE,
		subject TEXT NOT NULL,
		text TEXT NOT NULL,
		options TEXT NOT NULL,
		answer TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_questions_subject ON questions(subject, seq);

	CREATE TABLE IF NOT EXISTS flashcards (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		subject TEXT NOT NULL,
		question TEXT NOT NULL,
		answer TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS videos (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL,
		subject TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT
	);

	CREATE TABLE IF NOT EXISTS textbooks (
		id INTEGER PRIMARY KEY,
		subject TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		cover_url TEXT,
		download_url TEXT,
		is_premium INTEGER DEFAULT 0
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Questions

func (s *SQLiteStorage) ListQuestions(subject models.Subject) ([]models.Question, error) {
	rows, err := s.db.Query(`
		SELECT id, subject, text, options, answer
		FROM questions WHERE subject = ? ORDER BY seq
	`, string(subject))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	qs := []models.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		qs = append(qs, *q)
	}
	return qs, rows.Err()
}

func (s *SQLiteStorage) GetQuestion(id int64) (*models.Question, error) {
	row := s.db.QueryRow(`SELECT id, subject, text, options, answer FROM questions WHERE id = ?`, id)
	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return q, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuestion(r scanner) (*models.Question, error) {
	var q models.Question
	var subject, options string
	if err := r.Scan(&q.ID, &subject, &q.Text, &options, &q.Answer); err != nil {
		return nil, err
	}
	q.Subject = models.Subject(subject)
	if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
		return nil, fmt.Errorf("question %d options: %w", q.ID, err)
	}
	return &q, nil
}

// AppendQuestions adds a batch after the subject's existing questions in one
// transaction. Ids are now in milliseconds plus the batch position, moved
// past the highest id already stored so batches never collide.
func (s *SQLiteStorage) AppendQuestions(subject models.Subject, qs []models.Question, now time.Time) ([]models.Question, error) {
	if len(qs) == 0 {
		return []models.Question{}, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var maxID int64
	if err := tx.QueryRow(`SELECT COALESCE(MAX(id), 0) FROM questions`).Scan(&maxID); err != nil {
		return nil, err
	}
	base := now.UnixMilli()
	if base <= maxID {
		base = maxID + 1
	}

	stmt, err := tx.Prepare(`INSERT INTO questions (id, subject, text, options, answer) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	stored := make([]models.Question, len(qs))
	for i, q := range qs {
		q.ID = base + int64(i)
		q.Subject = subject
		options, err := json.Marshal(q.Options)
		if err != nil {
			return nil, err
		}
		if _, err := stmt.Exec(q.ID, string(subject), q.Text, string(options), q.Answer); err != nil {
			return nil, fmt.Errorf("insert question %d: %w", i, err)
		}
		stored[i] = q
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return stored, nil
}

// Flashcards, videos, textbooks

func (s *SQLiteStorage) ListFlashcards(subject models.Subject) ([]models.Flashcard, error) {
	rows, err := s.db.Query(`SELECT question, answer FROM flashcards WHERE subject = ? ORDER BY seq`, string(subject))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := []models.Flashcard{}
	for rows.Next() {
		c := models.Flashcard{Subject: subject}
		if err := rows.Scan(&c.Question, &c.Answer); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (s *SQLiteStorage) ListVideos(subject models.Subject) ([]models.TutorialVideo, error) {
	rows, err := s.db.Query(`SELECT id, title, description FROM videos WHERE subject = ? ORDER BY seq`, string(subject))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := []models.TutorialVideo{}
	for rows.Next() {
		v := models.TutorialVideo{Subject: subject}
		if err := rows.Scan(&v.ID, &v.Title, &v.Description); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (s *SQLiteStorage) ListTextbooks(subject models.Subject) ([]models.Textbook, error) {
	rows, err := s.db.Query(`
		SELECT id, subject, title, description, cover_url, download_url, is_premium
		FROM textbooks WHERE subject = ? ORDER BY id
	`, string(subject))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []models.Textbook{}
	for rows.Next() {
		b, err := scanTextbook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *b)
	}
	return books, rows.Err()
}

func (s *SQLiteStorage) GetTextbook(id int64) (*models.Textbook, error) {
	row := s.db.QueryRow(`
		SELECT id, subject, title, description, cover_url, download_url, is_premium
		FROM textbooks WHERE id = ?
	`, id)
	b, err := scanTextbook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

func scanTextbook(r scanner) (*models.Textbook, error) {
	var b models.Textbook
	var subject string
	if err := r.Scan(&b.ID, &subject, &b.Title, &b.Description, &b.CoverURL, &b.DownloadURL, &b.IsPremium); err != nil {
		return nil, err
	}
	b.Subject = models.Subject(subject)
	return &b, nil
}

// Seed loads the static catalogs in subject order, in one transaction.
func (s *SQLiteStorage) Seed(cat models.Catalog) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, subject := range models.Subjects {
		for _, q := range cat.Questions[subject] {
			options, err := json.Marshal(q.Options)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(`INSERT INTO questions (id, subject, text, options, answer) VALUES (?, ?, ?, ?, ?)`,
				q.ID, string(subject), q.Text, string(options), q.Answer); err != nil {
				return fmt.Errorf("seed question %d: %w", q.ID, err)
			}
		}
		for _, c := range cat.Flashcards[subject] {
			if _, err := tx.Exec(`INSERT INTO flashcards (subject, question, answer) VALUES (?, ?, ?)`,
				string(subject), c.Question, c.Answer); err != nil {
				return fmt.Errorf("seed flashcard: %w", err)
			}
		}
		for _, v := range cat.Videos[subject] {
			if _, err := tx.Exec(`INSERT INTO videos (id, subject, title, description) VALUES (?, ?, ?, ?)`,
				v.ID, string(subject), v.Title, v.Description); err != nil {
				return fmt.Errorf("seed video %s: %w", v.ID, err)
			}
		}
		for _, b := range cat.Textbooks[subject] {
			if _, err := tx.Exec(`
				INSERT INTO textbooks (id, subject, title, description, cover_url, download_url, is_premium)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, b.ID, string(subject), b.Title, b.Description, b.CoverURL, b.DownloadURL, b.IsPremium); err != nil {
				return fmt.Errorf("seed textbook %d: %w", b.ID, err)
			}
		}
	}

	return tx.Commit()
}
