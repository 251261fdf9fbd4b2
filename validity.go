package genarena

import "fmt"

// Validity is the outcome of validating a handle against an accessor.
type Validity int

// Validation short-circuits in declaration order after Valid: identity,
// bounds, generation, occupancy.
const (
	// Valid means the handle names a live element.
	Valid Validity = iota
	// ForeignArena means the handle was issued by another pool.
	ForeignArena
	// OutOfBounds means the index lies beyond the slot array.
	OutOfBounds
	// Stale means the slot's generation moved past the handle's.
	Stale
	// Retired means the handle is stale and its slot is permanently retired.
	Retired
	// Vacant means the generation matches but the slot holds nothing.
	// Only fabricated handles end up here.
	Vacant
)

func (v Validity) String() string {
	switch v {
	case Valid:
		return "valid"
	case ForeignArena:
		return "foreign arena"
	case OutOfBounds:
		return "out of bounds"
	case Stale:
		return "stale"
	case Retired:
		return "retired"
	case Vacant:
		return "vacant"
	default:
		return fmt.Sprintf("Validity(%d)", int(v))
	}
}
