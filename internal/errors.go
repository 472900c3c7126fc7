package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidTimeRange ErrorCode = "INVALID_TIME_RANGE"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidSlot      ErrorCode = "INVALID_SLOT"
	ErrCodeInvalidRole      ErrorCode = "INVALID_ROLE"

	ErrCodeBookingNotFound ErrorCode = "BOOKING_NOT_FOUND"
	ErrCodeSpaceNotFound   ErrorCode = "SPACE_NOT_FOUND"
	ErrCodeFloorNotFound   ErrorCode = "FLOOR_NOT_FOUND"
	ErrCodeUserNotFound    ErrorCode = "USER_NOT_FOUND"

	ErrCodeCoworkingNotFound ErrorCode = "COWORKING_NOT_FOUND"

	ErrCodeForbidden        ErrorCode = "FORBIDDEN"
	ErrCodeCannotBookFor    ErrorCode = "CANNOT_BOOK_FOR_USER"
	ErrCodeCannotCancel     ErrorCode = "CANNOT_CANCEL_BOOKING"
	ErrCodeAdminRequired    ErrorCode = "ADMIN_REQUIRED"
	ErrCodeEmailTaken       ErrorCode = "EMAIL_ALREADY_REGISTERED"
	ErrCodeCannotDeleteSelf ErrorCode = "CANNOT_DELETE_SELF"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on Type and Code so that sentinels survive WithCause copies.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// WithCause returns a copy of e wrapping cause. Sentinels are never mutated.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

// WithDetails returns a copy of e carrying details.
func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

var statusByType = map[ErrorType]int{
	ErrorTypeValidation:   http.StatusBadRequest,
	ErrorTypeNotFound:     http.StatusNotFound,
	ErrorTypeUnauthorized: http.StatusUnauthorized,
	ErrorTypeForbidden:    http.StatusForbidden,
	ErrorTypeConflict:     http.StatusConflict,
	ErrorTypeInternal:     http.StatusInternalServerError,
}

func newAppError(t ErrorType, code ErrorCode, message string) *AppError {
	return &AppError{Type: t, Code: code, Message: message, StatusCode: statusByType[t]}
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeValidation, code, message)
}

// NewValidationFieldError is a validation error whose details name the offending field.
func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return NewValidationError(message, code).WithDetails(ValidationErrors{
		Errors: []ValidationError{{Field: field, Message: message, Code: string(code)}},
	})
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeNotFound, code, message)
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeUnauthorized, code, message)
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeForbidden, code, message)
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeConflict, code, message)
}

func NewInternalError(message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, "INTERNAL_ERROR", message).WithCause(cause)
}

var (
	ErrForbidden        = NewForbiddenError("forbidden", ErrCodeForbidden)
	ErrAdminRequired    = NewForbiddenError("administrator role required", ErrCodeAdminRequired)
	ErrInvalidTimeRange = NewValidationError("slot start must be before slot end", ErrCodeInvalidTimeRange)
	ErrUserNotFound     = NewNotFoundError("user not found", ErrCodeUserNotFound)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
)

// IsAppError unwraps err looking for an *AppError.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
