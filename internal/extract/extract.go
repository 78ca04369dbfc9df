package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ledongthuc/pdf"
)

const mimePDF = "application/pdf"

var (
	// ErrNotPDF is returned when the payload is not a PDF document.
	ErrNotPDF = errors.New("not a pdf")
	// ErrDecode is returned when the PDF cannot be parsed.
	ErrDecode = errors.New("pdf decode failed")
)

// Text is the page-ordered text of one document.
type Text struct {
	Content string
	Pages   int
}

// PDFExtractor extracts text from PDF payloads using github.com/ledongthuc/pdf.
type PDFExtractor struct{}

// Extract implements the extractor contract used by the review pipeline.
func (PDFExtractor) Extract(ctx context.Context, data []byte) (Text, error) {
	return FromPDF(ctx, data)
}

// IsPDF reports whether the payload sniffs as a PDF document.
func IsPDF(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	return http.DetectContentType(head) == mimePDF
}

// FromPDF returns the text of every page in increasing page order. Text runs on a
// page are joined by single spaces and every page is terminated by a newline.
// Pages are read one at a time; ctx is checked before each page.
func FromPDF(ctx context.Context, data []byte) (text Text, err error) {
	if err := ctx.Err(); err != nil {
		return Text{}, err
	}
	if !IsPDF(data) {
		return Text{}, ErrNotPDF
	}

	// The pdf package panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			text = Text{}
			err = fmt.Errorf("%w: %v", ErrDecode, rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Text{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	numPages := reader.NumPage()
	fonts := make(map[string]*pdf.Font)
	var b strings.Builder
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return Text{}, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			b.WriteString("\n")
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := page.Font(name)
				fonts[name] = &f
			}
		}
		raw, err := page.GetPlainText(fonts)
		if err != nil {
			return Text{}, fmt.Errorf("%w: page %d: %v", ErrDecode, i, err)
		}
		b.WriteString(joinItems(raw))
		b.WriteString("\n")
	}

	return Text{Content: b.String(), Pages: numPages}, nil
}

// joinItems collapses the runs of one page into a single space separated line.
func joinItems(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}
