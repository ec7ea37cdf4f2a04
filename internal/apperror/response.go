package apperror

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
}

// NewResponse builds the envelope for a status and message.
func NewResponse(status int, message string) ErrorResponse {
	return ErrorResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
	}
}

// Respond aborts the request with the envelope derived from err.
// Internal errors are logged with their cause; the client only sees a generic message.
func Respond(c *gin.Context, logger *zap.SugaredLogger, err error) {
	kind := KindOf(err)
	if kind == Internal && logger != nil {
		logger.Errorw("request failed",
			"error", err,
			"method", c.Request.Method,
			"path", c.FullPath(),
		)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(kind.HTTPStatus(), NewResponse(kind.HTTPStatus(), MessageOf(err)))
}

// RespondKind aborts the request with a kind and message that did not come from a service call.
func RespondKind(c *gin.Context, kind Kind, message string) {
	c.AbortWithStatusJSON(kind.HTTPStatus(), NewResponse(kind.HTTPStatus(), message))
}
