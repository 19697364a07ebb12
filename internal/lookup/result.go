// Package lookup models the outcome of a best-effort value lookup.
package lookup

import "fmt"

// Status tells whether a lookup produced a value.
type Status int

const (
	StatusNotFound Status = iota
	StatusFound
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not_found"
	case StatusFailed:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result carries a looked-up value together with how the lookup went.
// The zero value is a NotFound result.
type Result[T any] struct {
	Value  T
	Status Status
	Err    error
}

// Found wraps a successfully resolved value.
func Found[T any](v T) Result[T] {
	return Result[T]{Value: v, Status: StatusFound}
}

// NotFound reports that the source had nothing for the key.
func NotFound[T any]() Result[T] {
	return Result[T]{Status: StatusNotFound}
}

// Failed reports that the lookup could not be performed.
func Failed[T any](err error) Result[T] {
	return Result[T]{Status: StatusFailed, Err: err}
}

// Get returns the value and whether it was found.
func (r Result[T]) Get() (T, bool) {
	return r.Value, r.Status == StatusFound
}

// Or returns the value if found, def otherwise.
func (r Result[T]) Or(def T) T {
	if r.Status == StatusFound {
		return r.Value
	}
	return def
}
