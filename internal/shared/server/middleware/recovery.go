package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"cv-review/internal/shared/metrics"
	"cv-review/internal/shared/server/respond"
	"cv-review/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 error envelope. A review that panicked
// mid-run is counted as a failed review.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			fields := map[string]any{
				"request_id": RequestIDFromContext(c),
				"error":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
				"route":      c.FullPath(),
			}
			if id := c.GetString("reviewId"); id != "" {
				fields["review_id"] = id
				metrics.IncReviewFailed("panic")
			}
			telemetry.Error("panic", fields)
			respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
			c.Abort()
		}()
		c.Next()
	}
}
