// Package pdf reads the opening pages of textbook PDFs for the in-app reader.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"smearn/internal/models"
	"smearn/internal/observability"
)

// Page is the plain text of one PDF page.
type Page struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// Preview is what the reader shows for a textbook.
type Preview struct {
	TextbookID  int64  `json:"textbook_id"`
	Title       string `json:"title"`
	Pages       []Page `json:"pages,omitempty"`
	PageCount   int    `json:"page_count"`
	Placeholder bool   `json:"placeholder"`
	Content     string `json:"content"`
}

// Previewer looks up <id>.pdf in the textbooks directory.
type Previewer struct {
	textbooksPath string
	maxPages      int
}

func NewPreviewer(textbooksPath string, maxPages int) *Previewer {
	if maxPages <= 0 {
		maxPages = 2
	}
	return &Previewer{textbooksPath: textbooksPath, maxPages: maxPages}
}

// Preview returns the text of the first pages of the book's PDF, or the
// placeholder text when there is no readable PDF for it.
func (p *Previewer) Preview(ctx context.Context, book models.Textbook) *Preview {
	log := observability.LoggerFromContext(ctx).With("textbook_id", book.ID)

	path := filepath.Join(p.textbooksPath, fmt.Sprintf("%d.pdf", book.ID))
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("textbook file unreadable", "path", path, "error", err)
		}
		return placeholder(book)
	}
	defer f.Close()

	preview, err := p.FromReader(f, book)
	if err != nil {
		log.Warn("textbook pdf unparsable", "path", path, "error", err)
		return placeholder(book)
	}
	return preview
}

// FromReader extracts the preview pages from a PDF stream.
func (p *Previewer) FromReader(reader io.Reader, book models.Textbook) (preview *Preview, err error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	// the parser panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			preview, err = nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	totalPages := r.NumPage()
	limit := min(totalPages, p.maxPages)

	var pages []Page
	var content strings.Builder
	for pageNum := 1; pageNum <= limit; pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		pages = append(pages, Page{Number: pageNum, Text: text})
		fmt.Fprintf(&content, "\n--- Page %d ---\n", pageNum)
		content.WriteString(text)
	}

	return &Preview{
		TextbookID: book.ID,
		Title:      book.Title,
		Pages:      pages,
		PageCount:  totalPages,
		Content:    strings.TrimSpace(content.String()),
	}, nil
}

func placeholder(book models.Textbook) *Preview {
	return &Preview{
		TextbookID:  book.ID,
		Title:       book.Title,
		Placeholder: true,
		Content: "This is a placeholder for the textbook content. In a real application, this area " +
			"would be populated with the actual pages from the textbook, perhaps using a PDF viewer " +
			"or a custom HTML renderer.\n\n" +
			fmt.Sprintf("For now, you can imagine flipping through pages of %q and studying its contents right here in the app.", book.Title),
	}
}
