package engine

import (
	"errors"
	"fmt"
)

// ErrReorderMismatch is returned when a requested order is not a
// permutation of the current items.
var ErrReorderMismatch = errors.New("requested order does not match the current items")

// Reorder checks that requested lists exactly the ids of current, each once,
// and returns the new order. Persisting it (and undoing a failed write) is
// up to the caller.
func Reorder(current, requested []string) ([]string, error) {
	if len(requested) != len(current) {
		return nil, fmt.Errorf("%w: got %d ids, want %d", ErrReorderMismatch, len(requested), len(current))
	}
	known := make(map[string]bool, len(current))
	for _, id := range current {
		known[id] = true
	}
	seen := make(map[string]bool, len(requested))
	for _, id := range requested {
		if !known[id] {
			return nil, fmt.Errorf("%w: unknown id %q", ErrReorderMismatch, id)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrReorderMismatch, id)
		}
		seen[id] = true
	}
	return append([]string(nil), requested...), nil
}
