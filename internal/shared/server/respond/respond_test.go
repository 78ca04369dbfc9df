package respond

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"cv-review/internal/shared/telemetry"
)

func serve(t *testing.T, h gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", h)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))
	return resp
}

func TestErrorEnvelopeAndLogLevel(t *testing.T) {
	var buf bytes.Buffer
	restore := telemetry.SetOutput(&buf)
	defer restore()

	resp := serve(t, func(c *gin.Context) {
		c.Set("reviewId", "rev-1")
		Error(c, http.StatusUnsupportedMediaType, "not_pdf", "Please drop a PDF file", nil)
	})
	if resp.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d", resp.Code)
	}
	if got := resp.Body.String(); got != `{"error":{"code":"not_pdf","message":"Please drop a PDF file"}}` {
		t.Fatalf("body = %s", got)
	}
	logged := buf.String()
	if !strings.Contains(logged, `"msg":"http.client_error"`) || !strings.Contains(logged, `"review_id":"rev-1"`) {
		t.Fatalf("unexpected log: %s", logged)
	}

	buf.Reset()
	serve(t, func(c *gin.Context) {
		Error(c, http.StatusBadGateway, "analysis", "upstream failed", map[string]any{"retry": false})
	})
	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Fatalf("expected error level for 5xx, got %s", buf.String())
	}
}

func TestHTMLFragment(t *testing.T) {
	resp := serve(t, func(c *gin.Context) {
		HTML(c, http.StatusOK, "<div>ok</div>")
	})
	if ct := resp.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Fatalf("content type = %q", ct)
	}
	if resp.Body.String() != "<div>ok</div>" {
		t.Fatalf("body = %q", resp.Body.String())
	}
}
