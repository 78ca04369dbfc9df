package reviews

import (
	"time"

	"cv-review/internal/render"
	"cv-review/internal/review"
)

// Review is the persisted record of one pipeline run over an uploaded CV.
type Review struct {
	ID           string
	FileName     string
	SizeBytes    int64
	StorageKey   string
	PageCount    int
	State        State
	ErrorKind    ErrorKind
	ErrorMessage string
	Provider     string
	Model        string
	PromptHash   string
	ResponseText string
	Sections     *review.Sections
	CacheHit     bool
	CreatedAt    time.Time
	CompletedAt  *time.Time
}

// View re-renders the stored outcome.
func (r Review) View() render.View {
	if r.State == StateError {
		msg := r.ErrorMessage
		if msg == "" {
			msg = r.ErrorKind.Message()
		}
		return render.ErrorView(msg)
	}
	return render.Build(r.Sections)
}
