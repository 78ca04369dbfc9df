// Package review splits a free-text CV critique into its four sections.
package review

import "strings"

// Placeholders substituted when a section cannot be located.
const (
	NoRating      = "No rating found."
	NoStrengths   = "No strengths found."
	NoWeaknesses  = "No weaknesses found."
	NoSuggestions = "No suggestions found."
)

// Sections is the parsed critique. Every field holds either extracted content or
// its placeholder; none is ever empty.
type Sections struct {
	Rating      string `json:"rating"`
	Strengths   string `json:"strengths"`
	Weaknesses  string `json:"weaknesses"`
	Suggestions string `json:"suggestions"`
}

// Placeholders returns a Sections value with every field set to its placeholder.
func Placeholders() Sections {
	return Sections{
		Rating:      NoRating,
		Strengths:   NoStrengths,
		Weaknesses:  NoWeaknesses,
		Suggestions: NoSuggestions,
	}
}

// Parse parses an optional response. A nil response yields all placeholders.
func Parse(response *string) Sections {
	if response == nil {
		return Placeholders()
	}
	return ParseText(*response)
}

type kind int

const (
	kindRating kind = iota
	kindStrengths
	kindWeaknesses
	kindSuggestions
	numKinds
)

// marker is one located section header.
type marker struct {
	kind      kind
	lineStart int // offset of the line holding the header
	bodyStart int // offset just past the header
	lineEnd   int // offset of the header line's newline (or len)
}

// ParseText scans text once, front to back, and records the first header of each
// kind. Section bodies run from the end of their header to the start of the next
// located header, or to the end of the text.
func ParseText(text string) Sections {
	out := Placeholders()
	markers := scan(text)

	for i, m := range markers {
		if m.kind == kindRating {
			if rating := cleanHeaderLine(text[m.bodyStart:m.lineEnd]); rating != "" {
				out.Rating = rating
			}
			continue
		}
		end := len(text)
		if i+1 < len(markers) {
			end = markers[i+1].lineStart
		}
		body := strings.TrimSpace(text[m.bodyStart:end])
		if body == "" {
			continue
		}
		switch m.kind {
		case kindStrengths:
			out.Strengths = body
		case kindWeaknesses:
			out.Weaknesses = body
		case kindSuggestions:
			out.Suggestions = body
		}
	}
	return out
}

func scan(text string) []marker {
	var (
		found   [numKinds]bool
		markers []marker
	)
	for lineStart := 0; lineStart <= len(text); {
		lineEnd := strings.IndexByte(text[lineStart:], '\n')
		if lineEnd < 0 {
			lineEnd = len(text)
		} else {
			lineEnd += lineStart
		}

		if m, ok := matchHeader(text, lineStart, lineEnd); ok && !found[m.kind] {
			found[m.kind] = true
			markers = append(markers, m)
		}

		if lineEnd == len(text) {
			break
		}
		lineStart = lineEnd + 1
	}
	return markers
}

// matchHeader recognises a header at the start of a line. Leading spaces and
// markdown emphasis (#, *) are skipped. Weaknesses and Suggestions headers must
// carry a colon on the same line; without one the line is ordinary content.
func matchHeader(text string, lineStart, lineEnd int) (marker, bool) {
	line := text[lineStart:lineEnd]
	offset := len(line) - len(strings.TrimLeft(line, " \t#*"))
	rest := line[offset:]
	at := lineStart + offset

	m := marker{lineStart: lineStart, lineEnd: lineEnd}
	switch {
	case strings.HasPrefix(rest, "Overall Rating"):
		m.kind, m.bodyStart = kindRating, at
	case strings.HasPrefix(rest, "Strengths:"):
		m.kind, m.bodyStart = kindStrengths, skipEmphasis(text, at+len("Strengths:"), lineEnd)
	case strings.HasPrefix(rest, "Weaknesses"), strings.HasPrefix(rest, "Suggestions"):
		m.kind = kindWeaknesses
		if strings.HasPrefix(rest, "Suggestions") {
			m.kind = kindSuggestions
		}
		end, ok := headerEnd(text, at, lineEnd)
		if !ok {
			return marker{}, false
		}
		m.bodyStart = end
	default:
		return marker{}, false
	}
	return m, true
}

// headerEnd returns the offset just past the first colon of a header line. ok is
// false when the line has no colon.
func headerEnd(text string, at, lineEnd int) (int, bool) {
	idx := strings.IndexByte(text[at:lineEnd], ':')
	if idx < 0 {
		return 0, false
	}
	return skipEmphasis(text, at+idx+1, lineEnd), true
}

func skipEmphasis(text string, pos, lineEnd int) int {
	for pos < lineEnd && text[pos] == '*' {
		pos++
	}
	return pos
}

func cleanHeaderLine(s string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), "*"))
}
