package datefilter

import (
	"errors"
	"fmt"

	"github.com/hupe1980/datefilter/internal/treeset"
)

var (
	// ErrYearOutOfRange is returned for years the century/year partition
	// cannot address.
	ErrYearOutOfRange = errors.New("year out of range")

	// ErrAllocationFailed is returned when a tree node or bucket cannot be
	// allocated within the memory budget.
	ErrAllocationFailed = treeset.ErrAllocationFailed

	// ErrInvalidNodeBits is returned by New for an unusable node width.
	ErrInvalidNodeBits = treeset.ErrInvalidCapacity
)

// YearRangeError reports a year outside [MinYear, MaxYear].
type YearRangeError struct {
	Year int
}

func (e *YearRangeError) Error() string {
	return fmt.Sprintf("%s: %d not in [%d, %d]", ErrYearOutOfRange, e.Year, MinYear, MaxYear)
}

func (e *YearRangeError) Unwrap() error { return ErrYearOutOfRange }
