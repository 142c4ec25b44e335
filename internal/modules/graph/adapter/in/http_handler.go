package in

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"kgview/internal/modules/graph/dto"
	graphin "kgview/internal/modules/graph/port/in"
	apperrors "kgview/internal/platform/errors"
)

// HTTPOptions are the defaults applied to render requests that omit a size.
type HTTPOptions struct {
	Width        int
	Height       int
	MaxBodyBytes int64
}

type HTTPHandler struct {
	usecase graphin.Usecase
	opts    HTTPOptions
}

func NewHTTPHandler(usecase graphin.Usecase, opts HTTPOptions) HTTPHandler {
	if opts.Width <= 0 {
		opts.Width = 1600
	}
	if opts.Height <= 0 {
		opts.Height = 1200
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 4 << 20
	}
	return HTTPHandler{usecase: usecase, opts: opts}
}

// Register mounts the tree endpoints. The request body is a tree document;
// its Content-Type selects the decoder.
func (h HTTPHandler) Register(r gin.IRouter) {
	v1 := r.Group("/v1")
	{
		v1.POST("/flatten", h.Flatten)
		v1.POST("/render/:format", h.Render)
	}
}

func (h HTTPHandler) Flatten(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}
	out, err := h.usecase.FlattenDocument(c.Request.Context(), body, c.ContentType())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Render answers with an encoded frame. Query parameters width, height and
// zoom are integers; focus names the node to centre on.
func (h HTTPHandler) Render(c *gin.Context) {
	width, err := intQuery(c, "width", h.opts.Width)
	if err != nil {
		writeError(c, err)
		return
	}
	height, err := intQuery(c, "height", h.opts.Height)
	if err != nil {
		writeError(c, err)
		return
	}
	zoom, err := intQuery(c, "zoom", 0)
	if err != nil {
		writeError(c, err)
		return
	}
	body, ok := h.readBody(c)
	if !ok {
		return
	}
	out, err := h.usecase.RenderDocument(c.Request.Context(), dto.RenderDocumentInput{
		Body:        body,
		ContentType: c.ContentType(),
		Format:      c.Param("format"),
		Width:       width,
		Height:      height,
		Zoom:        zoom,
		FocusID:     c.Query("focus"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("X-Graph-Nodes", strconv.Itoa(out.Nodes))
	c.Data(http.StatusOK, out.ContentType, out.Data)
}

func (h HTTPHandler) readBody(c *gin.Context) ([]byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxBodyBytes)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("body exceeds %d bytes", tooLarge.Limit)})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return nil, false
	}
	return body, true
}

func intQuery(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", apperrors.ErrInvalidInput, key)
	}
	return v, nil
}

func writeError(c *gin.Context, err error) {
	c.JSON(StatusFor(err), gin.H{"error": err.Error()})
}

// StatusFor maps the platform sentinel errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, apperrors.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
