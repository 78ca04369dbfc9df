package reviews

import (
	"time"

	"cv-review/internal/render"
)

// ReviewResponse is the outward-facing representation of a review.
type ReviewResponse struct {
	ReviewID    string      `json:"reviewId"`
	FileName    string      `json:"fileName"`
	SizeBytes   int64       `json:"sizeBytes"`
	Pages       int         `json:"pages"`
	State       State       `json:"state"`
	ErrorKind   ErrorKind   `json:"errorKind,omitempty"`
	Provider    string      `json:"provider,omitempty"`
	Model       string      `json:"model,omitempty"`
	CacheHit    bool        `json:"cacheHit"`
	CreatedAt   time.Time   `json:"createdAt"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
	View        render.View `json:"view"`
}

// ReviewSummary is one entry of the history listing.
type ReviewSummary struct {
	ReviewID  string    `json:"reviewId"`
	FileName  string    `json:"fileName"`
	State     State     `json:"state"`
	ErrorKind ErrorKind `json:"errorKind,omitempty"`
	Rating    string    `json:"rating,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toResponse(r Review) ReviewResponse {
	return ReviewResponse{
		ReviewID:    r.ID,
		FileName:    r.FileName,
		SizeBytes:   r.SizeBytes,
		Pages:       r.PageCount,
		State:       r.State,
		ErrorKind:   r.ErrorKind,
		Provider:    r.Provider,
		Model:       r.Model,
		CacheHit:    r.CacheHit,
		CreatedAt:   r.CreatedAt,
		CompletedAt: r.CompletedAt,
		View:        r.View(),
	}
}

func toSummary(r Review) ReviewSummary {
	s := ReviewSummary{
		ReviewID:  r.ID,
		FileName:  r.FileName,
		State:     r.State,
		ErrorKind: r.ErrorKind,
		CreatedAt: r.CreatedAt,
	}
	if r.Sections != nil {
		s.Rating = r.Sections.Rating
	}
	return s
}
