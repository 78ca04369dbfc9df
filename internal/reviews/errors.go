package reviews

import "errors"

var (
	ErrNotFound      = errors.New("review not found")
	ErrNotPDF        = errors.New("not a pdf")
	ErrFileRequired  = errors.New("file is required")
	ErrEmptyResponse = errors.New("empty analysis response")
	// ErrNoUpload means the review exists but its file was not kept.
	ErrNoUpload = errors.New("upload not stored")
)

// ErrorKind classifies why a run ended in the error state.
type ErrorKind string

const (
	KindNone            ErrorKind = ""
	KindNotPDF          ErrorKind = "not_pdf"
	KindExtraction      ErrorKind = "extraction"
	KindAnalysis        ErrorKind = "analysis"
	KindInvalidResponse ErrorKind = "invalid_response"
)

// Message is the notice shown to the user for the kind.
func (k ErrorKind) Message() string {
	switch k {
	case KindNotPDF:
		return "Please drop a PDF file"
	case KindExtraction:
		return "Error: Failed to read PDF. Please try another file."
	case KindAnalysis:
		return "Error: Failed to analyze CV. Please try again."
	case KindInvalidResponse:
		return "Error: Invalid response from API"
	default:
		return ""
	}
}
