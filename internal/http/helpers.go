package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lingua/internal/database/lessons"
	"github.com/mrlokans/lingua/internal/docstore"
	"github.com/mrlokans/lingua/internal/logging"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	logging.FromContext(c, nil).WithError(err).Errorf("Internal error (%s)", context)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondError sends an error response with the given status code.
// Use the specific helpers (respondBadRequest, respondNotFound, etc.) when possible.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondLessonError maps lesson repository errors onto responses.
// Zero-affected writes are not errors and never reach here.
func respondLessonError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, docstore.ErrMalformedID):
		respondBadRequest(c, "invalid lesson id")
	case errors.Is(err, lessons.ErrLessonNotFound):
		respondNotFound(c, "Lesson")
	case errors.Is(err, lessons.ErrEntryNotFound):
		respondNotFound(c, "Vocabulary")
	default:
		respondInternalError(c, err, context)
	}
}

// --- Parameter Parsing ---

// bindJSON decodes the request body into dst or responds with 400.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondBadRequest(c, "invalid request body")
		return false
	}
	return true
}
