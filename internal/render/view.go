// Package render turns parsed review sections into panel view-models and emits
// them as an HTML fragment or plain text.
package render

import (
	"strings"

	"cv-review/internal/review"
)

type Kind string

const (
	KindText  Kind = "text"
	KindList  Kind = "list"
	KindEmpty Kind = "empty"
)

const (
	NoResponse = "Error: No response received"
	NoData     = "No data available"
	NoRating   = "No rating available"
)

// Panel is one collapsible block of the rendered critique.
type Panel struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Kind     Kind     `json:"kind"`
	Text     string   `json:"text,omitempty"`
	Items    []string `json:"items,omitempty"`
	Expanded bool     `json:"expanded"`
}

func (p Panel) IsList() bool  { return p.Kind == KindList }
func (p Panel) IsEmpty() bool { return p.Kind == KindEmpty }

// View is either a single error notice or the four panels in display order.
type View struct {
	Error  string  `json:"error,omitempty"`
	Panels []Panel `json:"panels,omitempty"`
}

func (v View) IsError() bool { return v.Error != "" }

// ErrorView returns a view holding only the given notice.
func ErrorView(msg string) View {
	if strings.TrimSpace(msg) == "" {
		msg = NoResponse
	}
	return View{Error: msg}
}

// Build projects sections into panels. A nil value renders the no-response notice.
func Build(s *review.Sections) View {
	if s == nil {
		return ErrorView(NoResponse)
	}

	rating := strings.TrimSpace(s.Rating)
	if rating == "" {
		rating = NoRating
	}

	return View{Panels: []Panel{
		{Key: "rating", Label: "Overall Rating:", Kind: KindText, Text: rating, Expanded: true},
		listPanel("strengths", "Strengths:", s.Strengths),
		listPanel("weaknesses", "Weaknesses:", s.Weaknesses),
		listPanel("suggestions", "Suggestions for Improvement:", s.Suggestions),
	}}
}

func listPanel(key, label, text string) Panel {
	items := ListItems(text)
	if len(items) == 0 {
		return Panel{Key: key, Label: label, Kind: KindEmpty, Text: NoData, Expanded: true}
	}
	return Panel{Key: key, Label: label, Kind: KindList, Items: items, Expanded: true}
}

// ListItems splits a section body into list entries on line breaks and bullet
// characters. A leading "-" or "*" list marker is stripped from each entry; blank
// entries are dropped.
func ListItems(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '•'
	})
	items := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		f = strings.TrimSpace(strings.TrimLeft(f, "-*"))
		if f != "" {
			items = append(items, f)
		}
	}
	return items
}
