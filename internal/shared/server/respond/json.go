package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}

// HTML writes a pre-rendered, already escaped HTML fragment.
func HTML(c *gin.Context, status int, fragment string) {
	c.Data(status, "text/html; charset=utf-8", []byte(fragment))
}
