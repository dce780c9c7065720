package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// Normalizer maps loosely formatted user input onto a closed set of enum values.
type Normalizer[T comparable] struct {
	values       map[string]T
	defaultValue T
	keys         []string
}

// NewNormalizer creates a normalizer with a map of valid string->value pairs.
// Keys are folded with the same rule applied to input (trim + lower-case).
func NewNormalizer[T comparable](values map[string]T, defaultValue T) *Normalizer[T] {
	folded := make(map[string]T, len(values))
	keys := make([]string, 0, len(values))
	for k, v := range values {
		fk := fold(k)
		folded[fk] = v
		keys = append(keys, fk)
	}
	sort.Strings(keys)
	return &Normalizer[T]{values: folded, defaultValue: defaultValue, keys: keys}
}

// Lookup returns the enum value for raw and whether raw was recognized.
func (n *Normalizer[T]) Lookup(raw string) (T, bool) {
	v, ok := n.values[fold(raw)]
	return v, ok
}

// Normalize returns the enum value for raw, or the default when raw is unknown or blank.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.Lookup(raw); ok {
		return v
	}
	return n.defaultValue
}

// NormalizeWithError is Normalize without the silent fallback.
func (n *Normalizer[T]) NormalizeWithError(raw string) (T, error) {
	if v, ok := n.Lookup(raw); ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid value %q, valid options: %v", raw, n.keys)
}

// Field normalizes a named configuration field and reports coercions through warn.
// Blank input silently yields the default.
func (n *Normalizer[T]) Field(field, raw string, warn func(string)) T {
	if strings.TrimSpace(raw) == "" {
		return n.defaultValue
	}
	v, ok := n.Lookup(raw)
	if !ok {
		if warn != nil {
			warn(fmt.Sprintf("unknown %s '%s', defaulting to %v", field, raw, n.defaultValue))
		}
		return n.defaultValue
	}
	if fold(raw) != raw && warn != nil {
		warn(fmt.Sprintf("normalized %s from '%s' to '%v'", field, raw, v))
	}
	return v
}

// Default returns the fallback value.
func (n *Normalizer[T]) Default() T { return n.defaultValue }

// ValidKeys returns all valid normalized keys, sorted.
func (n *Normalizer[T]) ValidKeys() []string {
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
