// Package response writes the JSON envelopes of the dashboard API.
package response

import (
	"errors"
	"net/http"
	"time"

	"balance-dashboard/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CtxRequestID is the gin context key holding the inbound request ID.
const CtxRequestID = "request_id"

// CodeInternal marks errors that are not an *apperror.AppError.
const CodeInternal = "INTERNAL"

// SuccessResponse wraps every successful API body.
type SuccessResponse struct {
	Data      any    `json:"data"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// ErrorResponse is the body of a failed API call. Message is what a view
// shows inline.
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// OK sends data with status 200.
func OK(c *gin.Context, data any) {
	write(c, http.StatusOK, SuccessResponse{Data: data, RequestID: RequestID(c), Timestamp: now()})
}

// Error sends err. An *apperror.AppError keeps its status, code and message
// (statuses below 400 become 502). Anything else is a 500 whose cause stays
// out of the body.
func Error(c *gin.Context, err error) {
	body := ErrorResponse{
		ErrorCode: CodeInternal,
		Message:   "Internal server error",
		RequestID: RequestID(c),
		Timestamp: now(),
	}
	status := http.StatusInternalServerError

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		body.ErrorCode = appErr.Code
		body.Message = appErr.Error()
		status = appErr.HTTPStatus
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
	}
	write(c, status, body)
}

// RequestID retrieves the request ID from context, or generates one.
func RequestID(c *gin.Context) string {
	if id, ok := c.Get(CtxRequestID); ok {
		if s, ok := id.(string); ok && s != "" {
			return s
		}
	}
	return uuid.NewString()
}

// write sends body uncached: every API answer depends on the signed-in user.
func write(c *gin.Context, status int, body any) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, body)
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
