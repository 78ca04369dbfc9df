package reviews

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cv-review/internal/render"
	"cv-review/internal/shared/server/respond"
)

const defaultMaxUpload = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc       *Service
	MaxUpload int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUpload int64) *Handler {
	if maxUpload <= 0 {
		maxUpload = defaultMaxUpload
	}
	return &Handler{Svc: svc, MaxUpload: maxUpload}
}

// RegisterRoutes attaches review routes to the router group. Extra handlers run
// before the submit endpoint only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, submitMiddleware ...gin.HandlerFunc) {
	rg.POST("/reviews", append(submitMiddleware, h.submit)...)
	rg.GET("/reviews", h.list)
	rg.GET("/reviews/:id", h.get)
	rg.GET("/reviews/:id/fragment", h.fragment)
	rg.GET("/reviews/:id/file", h.file)
}

func (h *Handler) submit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUpload)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "file is too large", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	rev, err := h.Svc.Submit(c.Request.Context(), Upload{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrFileRequired):
			respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		case errors.Is(err, ErrNotPDF):
			respond.Error(c, http.StatusUnsupportedMediaType, string(KindNotPDF), KindNotPDF.Message(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to review file", nil)
		}
		return
	}

	c.Set("reviewId", rev.ID)
	c.Set("statusTransition", string(StateFileSelected)+"->"+string(rev.State))
	respond.JSON(c, statusFor(rev), toResponse(rev))
}

func statusFor(rev Review) int {
	if rev.State != StateError {
		return http.StatusCreated
	}
	switch rev.ErrorKind {
	case KindNotPDF:
		return http.StatusUnsupportedMediaType
	case KindExtraction:
		return http.StatusUnprocessableEntity
	case KindAnalysis, KindInvalidResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) get(c *gin.Context) {
	rev, ok := h.lookup(c)
	if !ok {
		return
	}
	respond.OK(c, toResponse(rev))
}

func (h *Handler) fragment(c *gin.Context) {
	rev, ok := h.lookup(c)
	if !ok {
		return
	}
	out, err := render.HTML(rev.View())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to render review", nil)
		return
	}
	respond.HTML(c, http.StatusOK, out)
}

func (h *Handler) file(c *gin.Context) {
	id := c.Param("id")
	c.Set("reviewId", id)
	rev, rc, err := h.Svc.OpenUpload(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "review not found", nil)
		case errors.Is(err, ErrNoUpload):
			respond.Error(c, http.StatusNotFound, "not_found", "file not stored for review", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open file", nil)
		}
		return
	}
	defer rc.Close()

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": rev.FileName})
	if disposition == "" {
		disposition = "attachment"
	}
	c.DataFromReader(http.StatusOK, rev.SizeBytes, "application/pdf", rc, map[string]string{
		"Content-Disposition": disposition,
	})
}

func (h *Handler) lookup(c *gin.Context) (Review, bool) {
	id := c.Param("id")
	c.Set("reviewId", id)
	rev, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "review not found", nil)
		} else {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch review", nil)
		}
		return Review{}, false
	}
	return rev, true
}

func (h *Handler) list(c *gin.Context) {
	limit := 20
	offset := 0

	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	revs, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list reviews", nil)
		return
	}

	resp := make([]ReviewSummary, 0, len(revs))
	for _, rev := range revs {
		resp = append(resp, toSummary(rev))
	}
	respond.OK(c, resp)
}
