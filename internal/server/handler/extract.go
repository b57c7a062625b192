package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"meterocr/internal/ocr"
	"meterocr/internal/server/service"

	"github.com/gin-gonic/gin"
)

// Error codes returned in the "code" field of failed responses.
const (
	CodeInvalidRequest   = "invalid_request"
	CodeExtractionFailed = "extraction_failed"
	CodeUpstreamFailed   = "upstream_failed"
	CodeUpstreamTimeout  = "upstream_timeout"
)

// ExtractService defines the behavior consumed by the handler.
type ExtractService interface {
	Extract(ctx context.Context, fileName string) (service.Result, error)
}

type extractRequest struct {
	FileName string `json:"fileName"`
}

// ExtractHandler manages meter reading HTTP interactions.
type ExtractHandler struct {
	service ExtractService
}

// NewExtractHandler builds the handler.
func NewExtractHandler(svc ExtractService) *ExtractHandler {
	return &ExtractHandler{service: svc}
}

// HandleExtract relays a file name to the OCR service and returns the
// normalized reading.
func (h *ExtractHandler) HandleExtract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, CodeInvalidRequest, "invalid JSON payload")
		return
	}
	if req.FileName == "" {
		abortWithError(c, http.StatusBadRequest, CodeInvalidRequest, "file name is required")
		return
	}

	result, err := h.service.Extract(c.Request.Context(), req.FileName)
	if err != nil {
		_ = c.Error(err)
		switch {
		case errors.Is(err, ocr.ErrInvalidFileName):
			abortWithError(c, http.StatusBadRequest, CodeInvalidRequest, invalidNameMessage(err))
		case errors.Is(err, ocr.ErrMalformedResponse):
			abortWithError(c, http.StatusInternalServerError, CodeExtractionFailed, "failed to detect fields or values")
		case errors.Is(err, ocr.ErrTimeout):
			abortWithError(c, http.StatusInternalServerError, CodeUpstreamTimeout, "ocr service timed out")
		default:
			abortWithError(c, http.StatusInternalServerError, CodeUpstreamFailed, "failed to process the image")
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// MethodNotAllowed answers any method other than those in allowed with 405.
func MethodNotAllowed(allowed ...string) gin.HandlerFunc {
	allow := strings.Join(allowed, ", ")
	return func(c *gin.Context) {
		c.Header("Allow", allow)
		abortWithError(c, http.StatusMethodNotAllowed, CodeInvalidRequest, "method "+c.Request.Method+" not allowed")
	}
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": message,
		"code":  code,
	})
}

// invalidNameMessage returns the rejection reason without the error prefix.
func invalidNameMessage(err error) string {
	var nameErr *ocr.FileNameError
	if errors.As(err, &nameErr) {
		return nameErr.Reason
	}
	return ocr.ErrInvalidFileName.Error()
}
