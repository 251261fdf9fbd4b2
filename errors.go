package genarena

import (
	"errors"
	"fmt"
)

var (
	// ErrFull is matched by insert errors from a bounded pool at capacity.
	ErrFull = errors.New("pool is full")

	// ErrAlloc is matched by insert errors caused by failed slot growth.
	ErrAlloc = errors.New("slot allocation failed")
)

// InsertErrorKind classifies an InsertError.
type InsertErrorKind int

const (
	// Full means the pool is bounded and every slot is in use.
	Full InsertErrorKind = iota + 1
	// Alloc means a new slot could not be allocated.
	Alloc
)

func (k InsertErrorKind) String() string {
	switch k {
	case Full:
		return "full"
	case Alloc:
		return "alloc"
	default:
		return fmt.Sprintf("InsertErrorKind(%d)", int(k))
	}
}

// InsertError is returned when a pool rejects an element.
//
// The rejected element is handed back in Value; the pool never drops it.
// errors.Is matches ErrFull or ErrAlloc according to Kind, and the
// underlying cause (if any) can be accessed via errors.Unwrap.
type InsertError[T any] struct {
	Kind  InsertErrorKind
	Value T
	cause error
}

func (e *InsertError[T]) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("insert rejected (%s): %v", e.Kind, e.cause)
	}
	return fmt.Sprintf("insert rejected (%s)", e.Kind)
}

func (e *InsertError[T]) Unwrap() error { return e.cause }

// Is reports whether target is the sentinel matching e.Kind.
func (e *InsertError[T]) Is(target error) bool {
	switch e.Kind {
	case Full:
		return target == ErrFull
	case Alloc:
		return target == ErrAlloc
	}
	return false
}

// Rejected extracts the element carried by an *InsertError[T] anywhere in
// err's chain.
func Rejected[T any](err error) (T, bool) {
	var ie *InsertError[T]
	if errors.As(err, &ie) {
		return ie.Value, true
	}
	var zero T
	return zero, false
}

// LeakError describes a resource pool that was destroyed while still
// holding elements.
type LeakError struct {
	ArenaID uint32
	Live    int
}

func (e *LeakError) Error() string {
	return fmt.Sprintf("resource pool %d destroyed with %d undrained element(s)", e.ArenaID, e.Live)
}
