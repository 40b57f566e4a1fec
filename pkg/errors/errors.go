package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError provides a structured error that can be rendered to API consumers.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}

	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}

	return e.Message
}

// Unwrap exposes the internal error for errors.Is / errors.As compatibility.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Internal
}

// Is matches AppErrors by code so a sentinel still matches after WithInternal
// returns a wrapped copy.
func (e *AppError) Is(target error) bool {
	if e == nil {
		return false
	}

	var appErr *AppError
	if !errors.As(target, &appErr) || appErr == nil {
		return false
	}
	return e.Code == appErr.Code
}

// WithInternal returns a copy of the AppError with an attached internal error.
func (e *AppError) WithInternal(err error) *AppError {
	if e == nil {
		return nil
	}

	cpy := *e
	cpy.Internal = err
	return &cpy
}

// Common errors exposed to the rest of the application. Tenant, auth and
// hierarchy failures are distinct values so callers can branch with errors.Is
// while clients receive stable codes.
var (
	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Authentication required",
		StatusCode: http.StatusUnauthorized,
	}

	ErrInvalidCredentials = &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Invalid username or password",
		StatusCode: http.StatusUnauthorized,
	}

	// ErrTenantMissing marks a non-global user record without a tenant
	// association. A data-integrity failure, not a caller mistake.
	ErrTenantMissing = &AppError{
		Code:       "TENANT_MISSING_ON_USER",
		Message:    "User has no tenant association",
		StatusCode: http.StatusUnauthorized,
	}

	ErrMissingTenantID = &AppError{
		Code:       "TENANT_ID_MISSING",
		Message:    "Tenant identifier is required",
		StatusCode: http.StatusBadRequest,
	}

	ErrTenantNotFound = &AppError{
		Code:       "TENANT_NOT_FOUND",
		Message:    "Tenant not found",
		StatusCode: http.StatusNotFound,
	}

	ErrTenantInactive = &AppError{
		Code:       "TENANT_INACTIVE",
		Message:    "Tenant is deactivated",
		StatusCode: http.StatusForbidden,
	}

	ErrForbidden = &AppError{
		Code:       "FORBIDDEN",
		Message:    "Permission denied",
		StatusCode: http.StatusForbidden,
	}

	// ErrOverrideRevoked is the deny produced by an explicit per-user revoke.
	// Same forbidden class as ErrForbidden externally; the code differs for
	// diagnostics.
	ErrOverrideRevoked = &AppError{
		Code:       "PERMISSION_REVOKED",
		Message:    "Permission explicitly revoked for this user",
		StatusCode: http.StatusForbidden,
	}

	ErrInsufficientRank = &AppError{
		Code:       "INSUFFICIENT_HIERARCHY_RANK",
		Message:    "Your role rank does not permit modifying this user",
		StatusCode: http.StatusForbidden,
	}

	ErrSelfLockout = &AppError{
		Code:       "SELF_LOCKOUT",
		Message:    "You cannot deactivate or terminate your own account",
		StatusCode: http.StatusForbidden,
	}

	ErrSelfDelete = &AppError{
		Code:       "SELF_DELETE",
		Message:    "You cannot delete your own account",
		StatusCode: http.StatusForbidden,
	}

	ErrOverrideConflict = &AppError{
		Code:       "OVERRIDE_CONFLICT",
		Message:    "Permission overrides were modified by another administrator",
		StatusCode: http.StatusConflict,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: http.StatusNotFound,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: http.StatusBadRequest,
	}

	ErrInternalServer = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "Internal server error",
		StatusCode: http.StatusInternalServerError,
	}
)

// New builds a new application error with the provided metadata.
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap turns any error into an AppError while keeping the original error for logging.
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Internal:   err,
	}
}

// FromError converts a generic error into an AppError, defaulting to ErrInternalServer.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return ErrInternalServer.WithInternal(err)
}

// NewBadRequest wraps validation errors with a helpful message.
func NewBadRequest(message string) *AppError {
	return &AppError{
		Code:       ErrBadRequest.Code,
		Message:    message,
		StatusCode: ErrBadRequest.StatusCode,
	}
}
