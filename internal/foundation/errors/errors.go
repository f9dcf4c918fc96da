package errors

import "fmt"

// ErrorCategory classifies an error for routing and presentation.
type ErrorCategory string

const (
	// CategoryLifecycle covers operations attempted against a destroyed or
	// not-yet-started component (store, bridge, journal).
	CategoryLifecycle ErrorCategory = "lifecycle"
	// CategoryOverflow covers bounded-buffer capacity violations.
	CategoryOverflow ErrorCategory = "overflow"

	CategoryValidation ErrorCategory = "validation"
	CategoryConfig     ErrorCategory = "config"
	CategoryRuntime    ErrorCategory = "runtime"
	CategoryJournal    ErrorCategory = "journal"
	CategoryTransport  ErrorCategory = "transport"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"
	SeverityError   ErrorSeverity = "error"
	SeverityWarning ErrorSeverity = "warning"
	SeverityInfo    ErrorSeverity = "info"
)

// RetryStrategy is the recommended recovery behavior for an error.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"
	RetryImmediate  RetryStrategy = "immediate"
	RetryBackoff    RetryStrategy = "backoff"
	RetryUserAction RetryStrategy = "user_action"
)

// ErrorContext carries structured key/value context on a classified error.
type ErrorContext map[string]any

// Set returns a copy of the context with key set.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	next := make(ErrorContext, len(c)+1)
	for k, v := range c {
		next[k] = v
	}
	next[key] = value
	return next
}

// ClassifiedError is a structured error with category, severity, retry
// strategy, and context.
type ClassifiedError struct {
	category ErrorCategory
	severity ErrorSeverity
	retry    RetryStrategy
	message  string
	cause    error
	context  ErrorContext
}

// Error implements the standard error interface.
func (e *ClassifiedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.category, e.severity, e.message, e.cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.category, e.severity, e.message)
}

// Unwrap implements Go 1.13+ error unwrapping.
func (e *ClassifiedError) Unwrap() error { return e.cause }

func (e *ClassifiedError) Category() ErrorCategory    { return e.category }
func (e *ClassifiedError) Severity() ErrorSeverity    { return e.severity }
func (e *ClassifiedError) RetryStrategy() RetryStrategy { return e.retry }
func (e *ClassifiedError) Message() string            { return e.message }
func (e *ClassifiedError) Context() ErrorContext      { return e.context }

// WithContext returns a copy of the error with an additional context value.
func (e *ClassifiedError) WithContext(key string, value any) *ClassifiedError {
	clone := *e
	clone.context = e.context.Set(key, value)
	return &clone
}

// Is matches classified errors by category and message, so sentinel values
// built once can be compared with errors.Is against freshly built instances.
func (e *ClassifiedError) Is(target error) bool {
	if other, ok := target.(*ClassifiedError); ok {
		return e.category == other.category && e.message == other.message
	}
	return false
}

// CanRetry reports whether the strategy allows automatic retry.
func (e *ClassifiedError) CanRetry() bool {
	return e.retry != RetryNever && e.retry != RetryUserAction
}

// AsClassified attempts to convert an error to a ClassifiedError.
func AsClassified(err error) (*ClassifiedError, bool) {
	classified, ok := err.(*ClassifiedError)
	return classified, ok
}

// GetCategory extracts the category from an error, or CategoryInternal.
func GetCategory(err error) ErrorCategory {
	if classified, ok := AsClassified(err); ok {
		return classified.Category()
	}
	return CategoryInternal
}
