package tempusmark

import (
	"fmt"
	"io"
	"reflect"
	"sync"
)

/*
Policy bundles everything the default dumper and the detector slot need to
know about one time point type.

================================================================================
REGISTRATION MODEL
================================================================================

Policies are global and keyed by the time point type T. Register binds a
bundle to T; every Measurer created for T afterwards snapshots that bundle
in New. Measurers that already exist keep the policy they were built with.

Individual measurers may still replace their Detector and Dumper slots,
either through options or by assigning the exported fields before any
concurrent use begins.

================================================================================
NEUTRAL DEFAULTS
================================================================================

A missing piece is never an error. PolicyFor substitutes:

Detector    -> returns the zero value of T
Precision   -> "undesigned"
WithTable   -> false
TableHeader -> ""
Line        -> prints the timestamp only
Explain     -> writes nothing
*/

type Policy[T any] struct {
	Detector    Detector[T]
	Precision   string
	WithTable   bool
	TableHeader string
	Line        LineFormatter[T]
	Explain     Explainer[T]
}

// Detector produces one time point. It must be cheap and should not
// allocate.
type Detector[T any] func() T

// Entry is the view of one record handed to policy formatters. The mark is
// boxed so a policy for T serves every mark type.
type Entry[T any] struct {
	Index     int
	Timestamp T
	Comment   string
	Mark      any
}

// LineFormatter writes one table line, without the trailing newline.
type LineFormatter[T any] func(w io.Writer, e Entry[T])

// Explainer appends free-form context after the report overview.
type Explainer[T any] func(w io.Writer, entries []Entry[T])

const undesigned = "undesigned"

var policies sync.Map // reflect.Type -> Policy[T]

// Register binds p to the time point type T, replacing any earlier policy.
func Register[T any](p Policy[T]) {
	policies.Store(reflect.TypeOf((*T)(nil)).Elem(), p)
}

// PolicyFor returns the policy registered for T with neutral defaults
// filled in.
func PolicyFor[T any]() Policy[T] {
	var p Policy[T]
	if v, ok := policies.Load(reflect.TypeOf((*T)(nil)).Elem()); ok {
		p = v.(Policy[T])
	}
	return p.withDefaults()
}

func (p Policy[T]) withDefaults() Policy[T] {
	if p.Detector == nil {
		p.Detector = func() T {
			var zero T
			return zero
		}
	}
	if p.Precision == "" {
		p.Precision = undesigned
	}
	if p.Line == nil {
		p.Line = func(w io.Writer, e Entry[T]) {
			fmt.Fprint(w, e.Timestamp)
		}
	}
	if p.Explain == nil {
		p.Explain = func(io.Writer, []Entry[T]) {}
	}
	return p
}

const tableRule = "------------------------------------"

/*
DefaultDumper renders the standard report for a policy:

	tempusmark info (default dumper):
	precision: <label>	sample: <n>
	<explainer output>

	<table header>
	------------------------------------
	<one line per record>

The table part appears only when the policy enables it. n is clamped to the
cache length, so a cursor that ran past capacity never causes an out of
range read; the excess is reported as "overflow". Missing pieces of p get
the same neutral defaults as PolicyFor.
*/

func DefaultDumper[T any, M comparable](p Policy[T]) Dumper[T, M] {
	p = p.withDefaults()
	return func(w io.Writer, cache []Record[T, M], n uint64) {
		count, overflow := clampCount(n, len(cache))

		fmt.Fprint(w, "tempusmark info (default dumper):\n")
		fmt.Fprintf(w, "precision: %s\tsample: %d", p.Precision, count)
		if overflow > 0 {
			fmt.Fprintf(w, "\toverflow: %d", overflow)
		}
		fmt.Fprint(w, "\n")

		entries := entriesOf(cache[:count])
		p.Explain(w, entries)
		fmt.Fprint(w, "\n\n")

		if !p.WithTable {
			return
		}
		fmt.Fprintf(w, "%s\n%s\n", p.TableHeader, tableRule)
		for _, e := range entries {
			p.Line(w, e)
			fmt.Fprint(w, "\n")
		}
	}
}

func clampCount(n uint64, capacity int) (count int, overflow uint64) {
	if n > uint64(capacity) {
		return capacity, n - uint64(capacity)
	}
	return int(n), 0
}

func entriesOf[T any, M comparable](records []Record[T, M]) []Entry[T] {
	entries := make([]Entry[T], len(records))
	for i, r := range records {
		entries[i] = Entry[T]{
			Index:     i,
			Timestamp: r.Timestamp,
			Comment:   r.Comment,
			Mark:      r.Mark,
		}
	}
	return entries
}
