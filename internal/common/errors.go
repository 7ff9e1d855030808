package common

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes
const (
	CodeConfig   = "CONFIG_ERROR"
	CodeDocument = "DOCUMENT_ERROR"
	CodeDatabase = "DATABASE_ERROR"
	CodeInput    = "INVALID_INPUT"
)

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
	ErrDatabase     = errors.New("database error")
	ErrValidation   = errors.New("validation failed")
	// ErrConfig marks a missing or invalid configuration; processing cannot start.
	ErrConfig = errors.New("invalid configuration")
	// ErrDocument marks a PDF that cannot be opened or parsed at all.
	ErrDocument  = errors.New("unreadable document")
	ErrDuplicate = errors.New("duplicate resource")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// ConfigError wraps cause as a fatal configuration error.
func ConfigError(message string, cause error) *AppError {
	if cause == nil {
		cause = ErrConfig
	} else {
		cause = fmt.Errorf("%w: %w", ErrConfig, cause)
	}
	return NewAppError(CodeConfig, message, cause)
}

// DocumentError wraps cause as a per-document failure.
func DocumentError(path string, cause error) *AppError {
	if cause == nil {
		cause = ErrDocument
	} else {
		cause = fmt.Errorf("%w: %w", ErrDocument, cause)
	}
	return NewAppError(CodeDocument, path, cause)
}

// gRPC error helpers
func InvalidArgumentError(message string) error {
	return status.Error(codes.InvalidArgument, message)
}

func NotFoundError(message string) error {
	return status.Error(codes.NotFound, message)
}

func InternalError(message string) error {
	return status.Error(codes.Internal, message)
}

func InvalidArgumentErrorf(format string, args ...interface{}) error {
	return InvalidArgumentError(fmt.Sprintf(format, args...))
}

func InternalErrorf(format string, args ...interface{}) error {
	return InternalError(fmt.Sprintf(format, args...))
}

// GRPCError maps application errors onto gRPC status codes.
func GRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrDocument):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, ErrDuplicate):
		return status.Error(codes.AlreadyExists, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
