package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// buildPDF writes a minimal single-font PDF with one text run per page.
func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()

	var objects []string
	// 1: catalog, 2: page tree, 3: font, then a page and a content stream per page.
	kids := make([]string, 0, len(pages))
	for i := range pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", 4+i*2))
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, text := range pages {
		contentID := 5 + i*2
		stream := fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", contentID),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestFromPDFPageOrder(t *testing.T) {
	data := buildPDF(t, "First page text", "Second   page text")

	got, err := FromPDF(context.Background(), data)
	if err != nil {
		t.Fatalf("FromPDF: %v", err)
	}
	if got.Pages != 2 {
		t.Fatalf("expected 2 pages, got %d", got.Pages)
	}
	first := strings.Index(got.Content, "First page text")
	second := strings.Index(got.Content, "Second page text")
	if first < 0 || second < 0 {
		t.Fatalf("expected both pages in output, got %q", got.Content)
	}
	if first > second {
		t.Fatalf("expected page 1 before page 2, got %q", got.Content)
	}
	if !strings.HasSuffix(got.Content, "\n") {
		t.Fatalf("expected trailing page newline, got %q", got.Content)
	}
	if n := strings.Count(got.Content, "\n"); n != 2 {
		t.Fatalf("expected one newline per page, got %d in %q", n, got.Content)
	}
}

func TestFromPDFRejectsNonPDF(t *testing.T) {
	_, err := FromPDF(context.Background(), []byte("hello, plain text"))
	if !errors.Is(err, ErrNotPDF) {
		t.Fatalf("expected ErrNotPDF, got %v", err)
	}
}

func TestFromPDFMalformed(t *testing.T) {
	_, err := FromPDF(context.Background(), []byte("%PDF-1.4\nthis is not really a pdf\n"))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestFromPDFCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := FromPDF(ctx, buildPDF(t, "text")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestIsPDF(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{name: "pdf header", data: []byte("%PDF-1.7\n..."), want: true},
		{name: "png", data: []byte("\x89PNG\r\n\x1a\n"), want: false},
		{name: "text", data: []byte("Overall Rating"), want: false},
		{name: "empty", data: nil, want: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPDF(tt.data); got != tt.want {
				t.Fatalf("IsPDF(%q) = %v, want %v", tt.data, got, tt.want)
			}
		})
	}
}

func TestJoinItems(t *testing.T) {
	if got := joinItems("  Jane   Doe\nEngineer\t "); got != "Jane Doe Engineer" {
		t.Fatalf("unexpected join: %q", got)
	}
}
