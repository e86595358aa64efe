package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error is the error type returned by services. Message is safe to show to
// the caller; cause is kept for logging only.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Cause returns the wrapped error, or nil.
func (e *Error) Cause() error {
	return e.cause
}

// LogString renders the public message together with the hidden cause.
func (e *Error) LogString() string {
	if e.cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.cause)
}

func New(message string, status int) *Error {
	return &Error{Message: message, Status: status}
}

// Wrap keeps err as the cause of a new public error.
func Wrap(err error, message string, status int) *Error {
	return &Error{Message: message, Status: status, cause: err}
}

var (
	ErrNotFound            = New("not found", http.StatusNotFound)
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrUnauthorized        = New("Not allowed", http.StatusUnauthorized)
	ErrForbidden           = New("forbidden", http.StatusForbidden)
	ErrInvalidID           = New("Invalid request Id parameters", http.StatusBadRequest)
	ErrRequestNotFound     = New("Request not found", http.StatusNotFound)
	ErrCommentNotFound     = New("Comment not found", http.StatusNotFound)
	ErrInvalidCredentials  = New("invalid email or password", http.StatusUnauthorized)
	InActiveUserError      = New("user account is inactive", http.StatusUnauthorized)
)

// ValidationError, NotFoundError and friends name the taxonomy the handlers
// map onto HTTP statuses.
func ValidationError(message string) *Error {
	return New(message, http.StatusBadRequest)
}

func NotFoundError(message string) *Error {
	return New(message, http.StatusNotFound)
}

func NotAuthorizedError(message string) *Error {
	return New(message, http.StatusUnauthorized)
}

func ConflictError(message string) *Error {
	return New(message, http.StatusConflict)
}

func InternalError(cause error) *Error {
	return Wrap(cause, "internal server error", http.StatusInternalServerError)
}

// GetUniqueContraintError turns a duplicate-key database error into a 400.
func GetUniqueContraintError(err error) *Error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint") || strings.Contains(msg, "already in use") {
		return Wrap(err, msg, http.StatusBadRequest)
	}
	return InternalError(err)
}

// ErrorHandler is the gin-rate-limit callback for exhausted buckets.
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"status": http.StatusTooManyRequests,
		"error":  "Too many requests. Try again in " + time.Until(info.ResetTime).Round(time.Second).String(),
	})
}
