// Package errors provides custom error types for the Configly API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrValidation     = &AppError{Code: "VALIDATION_ERROR", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrConflict       = &AppError{Code: "CONFLICT", Message: "Resource conflict", StatusCode: http.StatusConflict}
	ErrRateLimit      = &AppError{Code: "RATE_LIMIT", Message: "Too many requests", StatusCode: http.StatusTooManyRequests}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Client errors.
var (
	// ErrClientNotFound is returned for unknown and malformed public keys
	// alike so key lookups give no enumeration signal.
	ErrClientNotFound = &AppError{Code: "CLIENT_NOT_FOUND", Message: "Client not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A client with this email already exists", StatusCode: http.StatusConflict}
)

// Embed trust boundary errors.
var (
	ErrMissingClientKey   = &AppError{Code: "MISSING_CLIENT_KEY", Message: "Public key is required", StatusCode: http.StatusBadRequest}
	ErrMissingEmbedOrigin = &AppError{Code: "MISSING_EMBED_ORIGIN", Message: "Embed origin header is required", StatusCode: http.StatusBadRequest}
	ErrInvalidOrigin      = &AppError{Code: "INVALID_ORIGIN", Message: "Embed origin is not a valid origin", StatusCode: http.StatusBadRequest}
	ErrNoAllowedOrigins   = &AppError{Code: "NO_ALLOWED_ORIGINS", Message: "No allowed domains are configured for this client", StatusCode: http.StatusForbidden}
	ErrOriginMismatch     = &AppError{Code: "ORIGIN_MISMATCH", Message: "Origin is not in the allowed domains list", StatusCode: http.StatusForbidden}
	ErrRequestLimit       = &AppError{Code: "REQUEST_LIMIT", Message: "Monthly request limit reached", StatusCode: http.StatusForbidden}
)

// Catalog errors.
var (
	ErrConfiguratorNotFound = &AppError{Code: "CONFIGURATOR_NOT_FOUND", Message: "Configurator not found", StatusCode: http.StatusNotFound}
	ErrCategoryNotFound     = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrOptionNotFound       = &AppError{Code: "OPTION_NOT_FOUND", Message: "Option not found", StatusCode: http.StatusNotFound}
)

// Selection validation errors.
var (
	ErrIncompatibleSelection = &AppError{Code: "INCOMPATIBLE_SELECTION", Message: "Selected options are incompatible", StatusCode: http.StatusBadRequest}
	ErrMissingDependency     = &AppError{Code: "MISSING_DEPENDENCY", Message: "A selected option requires another option", StatusCode: http.StatusBadRequest}
	ErrMissingRequired       = &AppError{Code: "MISSING_REQUIRED_CATEGORY", Message: "A required category has no selection", StatusCode: http.StatusBadRequest}
)

// Quote errors.
var (
	ErrQuoteNotFound = &AppError{Code: "QUOTE_NOT_FOUND", Message: "Quote not found", StatusCode: http.StatusNotFound}
	ErrQuoteTerminal = &AppError{Code: "QUOTE_TERMINAL", Message: "Quote is in a terminal status and cannot be changed", StatusCode: http.StatusConflict}
)

// Billing errors.
var (
	ErrPlanLimit           = &AppError{Code: "PLAN_LIMIT", Message: "Primary option limit reached for the current plan", StatusCode: http.StatusForbidden}
	ErrPaymentNotCompleted = &AppError{Code: "PAYMENT_NOT_COMPLETED", Message: "Payment has not been completed", StatusCode: http.StatusBadRequest}
)

// Theme & file errors.
var (
	ErrThemeNotFound = &AppError{Code: "THEME_NOT_FOUND", Message: "Theme not found", StatusCode: http.StatusNotFound}
	ErrFileNotFound  = &AppError{Code: "FILE_NOT_FOUND", Message: "File not found", StatusCode: http.StatusNotFound}
)
