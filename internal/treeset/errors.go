package treeset

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCapacity is returned when the per-node bit width is 0 or
	// exceeds MaxNodeBits.
	ErrInvalidCapacity = errors.New("treeset: invalid node capacity")

	// ErrAllocationFailed is returned when a node cannot be allocated.
	// The tree is left exactly as it was before the call.
	ErrAllocationFailed = errors.New("treeset: allocation failed")
)

// CapacityError reports a rejected per-node bit width.
//
// It matches ErrInvalidCapacity via errors.Is.
type CapacityError struct {
	NodeBits int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("treeset: invalid node capacity %d (must be between 1 and %d bits)", e.NodeBits, MaxNodeBits)
}

func (e *CapacityError) Unwrap() error { return ErrInvalidCapacity }

// ValidateCapacity checks that nodeBits is a width New would accept.
func ValidateCapacity(nodeBits int) error {
	if nodeBits <= 0 || nodeBits > MaxNodeBits {
		return &CapacityError{NodeBits: nodeBits}
	}
	return nil
}
