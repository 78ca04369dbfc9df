package object

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"cv-review/internal/shared/util"
)

// ObjectStore saves and retrieves uploaded files.
type ObjectStore interface {
	Put(ctx context.Context, storageKey, contentType string, body []byte) error
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// UploadKey builds the storage key for an uploaded CV:
// uploads/<yyyy>/<mm>/<dd>/<reviewID>/<sanitized file name>.
func UploadKey(reviewID, fileName string, at time.Time) (string, error) {
	if reviewID == "" {
		return "", fmt.Errorf("review id is required")
	}
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	at = at.UTC()
	return path.Join("uploads", at.Format("2006"), at.Format("01"), at.Format("02"), reviewID, name), nil
}
