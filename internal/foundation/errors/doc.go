// Package errors provides foundational, type-safe error primitives for
// uniflow: classified errors with category, severity, retry strategy, and
// structured context, plus a fluent builder.
//
// Example:
//
//	err := errors.LifecycleError("store destroyed").
//		WithContext("store", name).
//		Build()
package errors
