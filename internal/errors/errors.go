// Package errors renders API failures as {"error": message, "code": code}.
package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// APIError is the body of every error response. Message is serialized under
// "error" and is safe to show to end users.
type APIError struct {
	Message string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(code, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

// fallback holds the code and default message used for each status
var fallback = map[int]APIError{
	http.StatusBadRequest:          {Code: ErrCodeInvalidInput, Message: "Invalid request"},
	http.StatusUnauthorized:        {Code: ErrCodeUnauthorized, Message: "Authentication required"},
	http.StatusForbidden:           {Code: ErrCodeForbidden, Message: "Forbidden"},
	http.StatusNotFound:            {Code: ErrCodeNotFound, Message: "Resource not found"},
	http.StatusConflict:            {Code: ErrCodeConflict, Message: "Resource conflict"},
	http.StatusInternalServerError: {Code: ErrCodeInternalError, Message: "Internal server error"},
	http.StatusServiceUnavailable:  {Code: ErrCodeServiceUnavailable, Message: "Service temporarily unavailable"},
}

// Respond writes status with message, or the status' default message when
// message is empty.
func Respond(c *gin.Context, status int, message string) {
	RespondWithDetails(c, status, message, nil)
}

func RespondWithDetails(c *gin.Context, status int, message string, details interface{}) {
	body, ok := fallback[status]
	if !ok {
		body = APIError{Code: ErrCodeInternalError, Message: http.StatusText(status)}
	}
	if message != "" {
		body.Message = message
	}
	body.Details = details
	c.JSON(status, &body)
}

func Unauthorized(c *gin.Context, message string) {
	Respond(c, http.StatusUnauthorized, message)
}

// InvalidCredentials answers a failed login without saying which part was wrong.
func InvalidCredentials(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, NewAPIError(ErrCodeInvalidCredentials, "Invalid credentials"))
}

func Forbidden(c *gin.Context, message string) {
	Respond(c, http.StatusForbidden, message)
}

func NotFound(c *gin.Context, message string) {
	Respond(c, http.StatusNotFound, message)
}

func BadRequest(c *gin.Context, message string) {
	Respond(c, http.StatusBadRequest, message)
}

func BadRequestWithDetails(c *gin.Context, message string, details interface{}) {
	RespondWithDetails(c, http.StatusBadRequest, message, details)
}

func Conflict(c *gin.Context, message string) {
	Respond(c, http.StatusConflict, message)
}

// InternalError attaches err to the context for the request logger and sends
// a generic 500. The cause never reaches the client.
func InternalError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	Respond(c, http.StatusInternalServerError, "")
}

func ServiceUnavailable(c *gin.Context, message string) {
	Respond(c, http.StatusServiceUnavailable, message)
}
