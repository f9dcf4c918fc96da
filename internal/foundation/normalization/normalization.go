// Package normalization provides type-safe string-to-enum normalization for
// configuration values.
package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// Normalizer maps raw configuration strings onto a closed enum type, falling
// back to a default for unrecognized input.
type Normalizer[T comparable] struct {
	values       map[string]T
	defaultValue T
	validKeys    []string
}

// NewNormalizer builds a normalizer from valid string->value pairs. Keys are
// matched case-insensitively with surrounding whitespace ignored.
func NewNormalizer[T comparable](values map[string]T, defaultValue T) *Normalizer[T] {
	normalized := make(map[string]T, len(values))
	keys := make([]string, 0, len(values))
	for k, v := range values {
		key := clean(k)
		normalized[key] = v
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return &Normalizer[T]{
		values:       normalized,
		defaultValue: defaultValue,
		validKeys:    keys,
	}
}

// Normalize converts raw input to the enum value, returning the default for
// unrecognized input.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.values[clean(raw)]; ok {
		return v
	}
	return n.defaultValue
}

// NormalizeStrict converts raw input to the enum value, rejecting
// unrecognized input. Empty input yields the default.
func (n *Normalizer[T]) NormalizeStrict(raw string) (T, error) {
	cleaned := clean(raw)
	if cleaned == "" {
		return n.defaultValue, nil
	}
	if v, ok := n.values[cleaned]; ok {
		return v, nil
	}
	return n.defaultValue, fmt.Errorf("invalid value %q (valid: %s)", raw, strings.Join(n.validKeys, ", "))
}

// ValidKeys returns the accepted inputs, sorted.
func (n *Normalizer[T]) ValidKeys() []string {
	return n.validKeys
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
