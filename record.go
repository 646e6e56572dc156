package tempusmark

import (
	"unsafe"

	"github.com/pkg/errors"
)

/*
Record represents a single measurement sample stored inside a Measurer.

STRUCTURE

Timestamp -> One detector reading. Units and monotonicity belong to the
             policy of T, never to the Record itself.
Comment   -> Caller annotation.
Mark      -> Opaque classification tag, orthogonal to the timestamp.

COMMENT OWNERSHIP

Comment keeps the caller's string header; the bytes are never copied.
For ordinary Go strings this is free of lifetime concerns. Callers that
build comments over mutable memory (unsafe.String, reused buffers) must
keep that memory alive and unchanged until the last Dump.

LIFECYCLE

Records are written in place by Measurer.Record and are not mutated
afterwards. Slots are never reused.
*/

type Record[T any, M comparable] struct {
	Timestamp T
	Comment   string
	Mark      M
}

// Mark is the default classification type.
type Mark uint64

// Unmarked is the default Mark value.
const Unmarked Mark = 0

// UnmarkedOf returns the default mark for any mark type: its zero value.
func UnmarkedOf[M comparable]() M {
	var m M
	return m
}

/*
checkLayout enforces the cache line friendly record size used by
strictlayout builds: a Record must occupy exactly 32 or 64 bytes.

The built-in record types are asserted at compile time in
layout_strict.go. Arbitrary instantiations can only be measured once the
type parameters are known, so New runs this check before handing out an
instance.
*/

func checkLayout[T any, M comparable]() error {
	size := unsafe.Sizeof(Record[T, M]{})
	if size != 32 && size != 64 {
		return errors.Wrapf(ErrLayout, "record is %d bytes", size)
	}
	return nil
}
