package tempusmark

import "github.com/pkg/errors"

var (
	// ErrInvalidCapacity is returned by New when the capacity is not a power
	// of two of at least 2.
	ErrInvalidCapacity = errors.New("tempusmark: capacity must be a power of two and at least 2")

	// ErrCapacityExhausted is returned by Record once every slot has been
	// reserved. Indices are never recycled.
	ErrCapacityExhausted = errors.New("tempusmark: capacity exhausted")

	// ErrLayout is returned by New in strictlayout builds when the record
	// type is not 32 or 64 bytes wide.
	ErrLayout = errors.New("tempusmark: record layout must be 32 or 64 bytes")

	// ErrPolicyMismatch is returned by New when a WithDetector or WithDumper
	// option was built for another time point or mark type.
	ErrPolicyMismatch = errors.New("tempusmark: option does not match measurer type")
)
