package providers

import (
	"errors"
	"fmt"
	"time"
)

// Category is the normalized failure taxonomy surfaced to callers.
type Category string

const (
	// CategoryValidation indicates bad caller input. Never retryable.
	CategoryValidation Category = "validation"

	// CategoryProvider indicates an upstream failure. Retryable iff the
	// transport classified the status as transient (5xx, 429).
	CategoryProvider Category = "provider_error"

	// CategoryNotFound indicates the record does not exist upstream.
	CategoryNotFound Category = "not_found"

	// CategoryTimeout indicates the upstream call exceeded its deadline.
	CategoryTimeout Category = "timeout"

	// CategoryRateLimited indicates admission was denied by a limiter.
	CategoryRateLimited Category = "rate_limited"

	// CategoryDomainRejected indicates a disallowed outbound target.
	CategoryDomainRejected Category = "domain_rejected"

	// CategoryInternal indicates an unclassified error. Retryable as a
	// conservative default.
	CategoryInternal Category = "internal"
)

// Error wraps a failure with its normalized category and retryability.
type Error struct {
	Category   Category
	Provider   string
	Message    string
	Underlying error
	Retryable  bool

	// RetryAfter carries the suggested delay for rate-limited rejections.
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	prefix := string(e.Category)
	if e.Provider != "" {
		prefix = fmt.Sprintf("provider %s [%s]", e.Provider, e.Category)
	}
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// NewError creates a categorized error with the taxonomy's default
// retryability for the category.
func NewError(category Category, provider, message string, underlying error) *Error {
	return &Error{
		Category:   category,
		Provider:   provider,
		Message:    message,
		Underlying: underlying,
		Retryable:  category == CategoryTimeout || category == CategoryRateLimited || category == CategoryInternal,
	}
}

// NewProviderError creates an upstream failure with explicit retryability,
// as pre-classified by the transport's status class.
func NewProviderError(provider, message string, underlying error, retryable bool) *Error {
	return &Error{
		Category:   CategoryProvider,
		Provider:   provider,
		Message:    message,
		Underlying: underlying,
		Retryable:  retryable,
	}
}

// IsRetryable reports whether an error is worth retrying. Unclassified
// errors default to retryable.
func IsRetryable(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return true
}

// GetCategory extracts the category from an error, defaulting to internal.
func GetCategory(err error) Category {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Category
	}
	return CategoryInternal
}

// Sentinel errors for common conditions.
var (
	ErrProviderNotRegistered = errors.New("provider not registered")
	ErrJudgmentNotFound      = errors.New("judgment not found")
)
