package query

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSortOption   = errors.New("invalid sort option")
	ErrMissingRangeBound   = errors.New("missing date range bound")
	ErrInvalidDateFormat   = errors.New("invalid date format")
	ErrUnknownResourceKind = errors.New("unknown resource kind")
)

// Bound identifies one side of a date range.
type Bound int

const (
	BoundStart Bound = iota
	BoundEnd
)

func (b Bound) String() string {
	if b == BoundStart {
		return "start"
	}
	return "end"
}

// MissingBoundError reports a date range supplied with only one of its bounds.
type MissingBoundError struct {
	Field   string
	Missing Bound
}

func (e *MissingBoundError) Error() string {
	return fmt.Sprintf("%s: %s date is required", e.Field, e.Missing)
}

// Message is the client-facing description of the missing side.
func (e *MissingBoundError) Message() string {
	if e.Missing == BoundStart {
		return "Start date is required"
	}
	return "End date is required"
}

func (e *MissingBoundError) Is(target error) bool {
	return target == ErrMissingRangeBound
}

// DateFormatError reports a range bound that is not a YYYY-MM-DD calendar date.
type DateFormatError struct {
	Param string
	Value string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("%s: invalid date %q, expected YYYY-MM-DD", e.Param, e.Value)
}

func (e *DateFormatError) Is(target error) bool {
	return target == ErrInvalidDateFormat
}
