package asset

import "fmt"

// Id identifies one asset entry in a Server. Zero is never a valid Id.
type Id uint64

// Handle is a typed reference to an asset. Handles are small comparable
// values; two handles to the same path from the same Server are equal.
type Handle[T any] struct {
	id Id
}

// Id returns the untyped asset id.
func (h Handle[T]) Id() Id {
	return h.id
}

// IsZero reports whether the handle was never assigned.
func (h Handle[T]) IsZero() bool {
	return h.id == 0
}

func (h Handle[T]) String() string {
	var zero T
	return fmt.Sprintf("Handle[%T](%d)", zero, h.id)
}

// LoadState is the lifecycle of an asset entry.
type LoadState int

const (
	NotLoaded LoadState = iota
	Loading
	Loaded
	Failed
)

func (s LoadState) String() string {
	switch s {
	case NotLoaded:
		return "not loaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("LoadState(%d)", int(s))
}
