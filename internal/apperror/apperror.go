package apperror

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation error")
	ErrConflict            = errors.New("conflict")
	ErrForbidden           = errors.New("forbidden")
	ErrConfiguration       = errors.New("configuration error")
	ErrSignature           = errors.New("signature verification failed")
	ErrUnsupported         = errors.New("unsupported")
	ErrInsufficientCredits = errors.New("insufficient credits")
)

type AppError struct {
	Err     error  // sentinel the error matches with errors.Is
	Message string // human-readable message
	Field   string // optional offending field
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

func Forbidden(message string) *AppError {
	return &AppError{Err: ErrForbidden, Message: message}
}

// Configuration reports a missing or invalid environment value.
func Configuration(key string) *AppError {
	return &AppError{
		Err:     ErrConfiguration,
		Message: fmt.Sprintf("%s is not set", key),
		Field:   key,
	}
}

// Signature wraps the cause of a failed webhook signature check.
func Signature(cause error) *AppError {
	msg := ErrSignature.Error()
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &AppError{Err: ErrSignature, Message: msg}
}

func Unsupported(message string) *AppError {
	return &AppError{Err: ErrUnsupported, Message: message}
}

func InsufficientCredits(balance, required int) *AppError {
	return &AppError{
		Err:     ErrInsufficientCredits,
		Message: fmt.Sprintf("insufficient credits: have %d, need %d", balance, required),
	}
}

// HTTPStatus maps an error chain to the status code handlers respond with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrSignature):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInsufficientCredits):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrUnsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show a client. Errors that are
// not an *AppError are reported generically.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "An internal error occurred"
}

// Handle logs err under op and returns it wrapped with the operation name.
// It is the catch-all used by the action layer; callers seldom branch on
// the error kind.
func Handle(logger *slog.Logger, op string, err error) error {
	if err == nil {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error(op+" failed", slog.String("error", err.Error()))
	return fmt.Errorf("%s: %w", op, err)
}
