package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes shared by the service layer. Handlers translate them to
// HTTP statuses; everything else surfaces as a 500.
const (
	CodeValidation   = "validationError"
	CodePermission   = "permissionError"
	CodeNotFound     = "notFoundError"
	CodeConflict     = "conflictError"
	CodeInvalidState = "invalidStateError"
	CodeGateway      = "gatewayError"
)

// AppError is a typed domain error carrying a machine-readable code.
type AppError struct {
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(format string, args ...any) error {
	return &AppError{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NewPermissionError(format string, args ...any) error {
	return &AppError{Code: CodePermission, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...any) error {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...any) error {
	return &AppError{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

func NewInvalidStateError(format string, args ...any) error {
	return &AppError{Code: CodeInvalidState, Message: fmt.Sprintf(format, args...)}
}

func NewGatewayError(format string, args ...any) error {
	return &AppError{Code: CodeGateway, Message: fmt.Sprintf(format, args...)}
}

// ErrorCode extracts the AppError code from err, or "" when err is not
// an AppError.
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// HTTPStatus maps a service error to its response status.
func HTTPStatus(err error) int {
	switch ErrorCode(err) {
	case CodeValidation:
		return http.StatusBadRequest
	case CodePermission:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeInvalidState:
		return http.StatusBadRequest
	case CodeGateway:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
