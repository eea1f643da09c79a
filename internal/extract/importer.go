// Package extract turns a photographed or scanned page of past questions into
// catalog records.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"

	"smearn/internal/llm"
	"smearn/internal/models"
	"smearn/internal/observability"
)

var (
	ErrUnsupportedMedia = errors.New("unsupported file type: upload a PNG, JPEG or WEBP image")
	ErrInvalidSubject   = errors.New("unknown subject")
	ErrEmptyUpload      = errors.New("uploaded file is empty")
)

// SupportedTypes are the image types the extraction backend accepts.
var SupportedTypes = []string{"image/png", "image/jpeg", "image/webp"}

// Appender is the part of the catalog store the importer writes to.
type Appender interface {
	AppendQuestions(subject models.Subject, qs []models.Question, now time.Time) ([]models.Question, error)
}

// Upload is one user-selected file.
type Upload struct {
	Filename string
	MIMEType string
	Body     io.Reader
}

// Result reports what an import added.
type Result struct {
	Subject models.Subject    `json:"subject"`
	Added   []models.Question `json:"added"`
	Dropped int               `json:"dropped"`
}

// Importer runs the extraction pipeline. It keeps no per-upload state, so a
// failed upload can be retried at once.
type Importer struct {
	provider llm.Provider
	store    Appender
	validate *validator.Validate
	now      func() time.Time
}

func NewImporter(provider llm.Provider, store Appender) *Importer {
	return &Importer{
		provider: provider,
		store:    store,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Import extracts the questions printed in the upload and appends the complete
// ones to subject. Incomplete records are dropped and counted. Nothing is
// written unless the whole pipeline succeeds.
func (im *Importer) Import(ctx context.Context, subject models.Subject, up Upload) (*Result, error) {
	if !subject.Valid() {
		return nil, ErrInvalidSubject
	}

	log := observability.LoggerFromContext(ctx).With("subject", subject, "file", up.Filename)

	data, err := io.ReadAll(up.Body)
	if err != nil {
		log.Error("reading upload failed", "error", err)
		return nil, &llm.Error{Message: llm.ExtractFailedMessage, Err: fmt.Errorf("read upload: %w", err)}
	}
	if len(data) == 0 {
		return nil, &llm.Error{Message: llm.ExtractFailedMessage, Err: ErrEmptyUpload}
	}

	mimeType, ok := mediaType(up.MIMEType, data)
	if !ok {
		log.Warn("upload rejected", "declared_type", up.MIMEType)
		return nil, ErrUnsupportedMedia
	}

	raw, err := im.provider.ExtractQuestions(ctx, llm.Attachment{MIMEType: mimeType, Data: data})
	if err != nil {
		return nil, normalize(err)
	}

	kept := make([]models.Question, 0, len(raw))
	for _, rq := range raw {
		if err := im.validate.Struct(rq); err != nil {
			continue
		}
		kept = append(kept, models.Question{Text: rq.Text, Options: rq.Options, Answer: rq.Answer})
	}
	dropped := len(raw) - len(kept)

	added, err := im.store.AppendQuestions(subject, kept, im.now())
	if err != nil {
		log.Error("storing extracted questions failed", "error", err)
		return nil, normalize(err)
	}

	log.Info("questions imported", "added", len(added), "dropped", dropped, "bytes", len(data))
	return &Result{Subject: subject, Added: added, Dropped: dropped}, nil
}

// mediaType resolves the upload's type from its declared value, falling back
// to content sniffing when the client sent none or a generic one.
func mediaType(declared string, data []byte) (string, bool) {
	if mt, _, err := mime.ParseMediaType(declared); err == nil && slices.Contains(SupportedTypes, mt) {
		return mt, true
	}
	sniffed := http.DetectContentType(data)
	if slices.Contains(SupportedTypes, sniffed) {
		return sniffed, true
	}
	return "", false
}

func normalize(err error) error {
	var e *llm.Error
	if errors.As(err, &e) && e.Message == llm.ExtractFailedMessage {
		return err
	}
	return &llm.Error{Message: llm.ExtractFailedMessage, Err: err}
}
