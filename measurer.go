package tempusmark

import (
	"io"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

/*
Measurer implements a fixed-capacity, concurrently writable buffer of
timestamped records with pluggable timing and reporting policies.

================================================================================
ARCHITECTURAL OVERVIEW
================================================================================

A Measurer combines two pieces of state:

1. Record cache ([]Record[T, M])
   - Allocated once in New with exactly Cap() slots.
   - Never grows, shrinks or recycles slots.

2. Write cursor (atomic.Uint64)
   - Counts reservations issued so far.
   - Keeps counting past capacity, so it may exceed Cap().

Everything the Measurer knows about time and presentation lives in two
exported slots:

Detector -> produces one time point per Record call
Dumper   -> renders (sink, cache, cursor) into a report

Both are bound from the policy registered for T when New runs.

================================================================================
CONCURRENCY MODEL
================================================================================

- Record reserves its slot with a single atomic fetch-add. Concurrent
  callers always receive distinct indices.
- The three field writes that follow the reservation are plain stores.
  A Dump running at the same time may observe a slot that is reserved but
  not yet (or only partly) written. This is a data race by design: the
  write path stays a single atomic operation. Dump only after all
  recording goroutines have finished when exact output matters.
- Neither Record nor Dump blocks, sleeps or yields.
- Detector and Dumper must be set up before concurrent use begins.

================================================================================
STRUCTURE FIELDS
================================================================================

cache    -> Preallocated record slots
len      -> Reservation cursor
warned   -> Set once the capacity exhaustion warning has been logged
logger   -> Structured logger for lifecycle events
interval -> Occupancy report interval (0 disables the reporter)
stopChan -> Shutdown signal for the reporter goroutine
*/

type Measurer[T any, M comparable] struct {
	Detector Detector[T]
	Dumper   Dumper[T, M]

	cache    []Record[T, M]
	len      atomic.Uint64
	warned   atomic.Bool
	logger   logrus.FieldLogger
	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
}

// Dumper renders a report of the first n records of cache to w. n may be
// larger than len(cache) after an overflow; implementations must clamp it.
// Dumpers must not mutate cache and must not fail.
type Dumper[T any, M comparable] func(w io.Writer, cache []Record[T, M], n uint64)

// DefaultCapacity is the capacity used by the NewNano and NewCycle helpers.
const DefaultCapacity = 256

/*
New initializes and returns a Measurer with room for capacity records.

VALIDATION:
- capacity must be a power of two and at least 2 (ErrInvalidCapacity).
- strictlayout builds reject record types that are not 32 or 64 bytes
  wide (ErrLayout).
- WithDetector / WithDumper options must match T and M (ErrPolicyMismatch).

No instance is returned when validation fails.

INITIALIZATION STEPS:
1. Snapshot the policy registered for T.
2. Allocate the record cache.
3. Apply user-provided options.
4. Start the occupancy reporter (if a report interval is set).
*/

func New[T any, M comparable](capacity int, opts ...Option) (*Measurer[T, M], error) {
	if !isPowerOfTwo(capacity) {
		return nil, errors.Wrapf(ErrInvalidCapacity, "got %d", capacity)
	}
	if strictLayout {
		if err := checkLayout[T, M](); err != nil {
			return nil, err
		}
	}

	o := options{logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	policy := PolicyFor[T]()
	m := &Measurer[T, M]{
		Detector: policy.Detector,
		Dumper:   DefaultDumper[T, M](policy),
		cache:    make([]Record[T, M], capacity),
		logger:   o.logger,
		interval: o.interval,
		stopChan: make(chan struct{}),
	}

	if o.detector != nil {
		d, ok := o.detector.(Detector[T])
		if !ok {
			return nil, errors.Wrapf(ErrPolicyMismatch, "detector %T for %s", o.detector, reflect.TypeOf((*T)(nil)).Elem())
		}
		m.Detector = d
	}
	if o.dumper != nil {
		d, ok := o.dumper.(Dumper[T, M])
		if !ok {
			return nil, errors.Wrapf(ErrPolicyMismatch, "dumper %T for %s", o.dumper, reflect.TypeOf((*Record[T, M])(nil)).Elem())
		}
		m.Dumper = d
	}

	m.logger.WithFields(logrus.Fields{
		"capacity":  capacity,
		"timepoint": reflect.TypeOf((*T)(nil)).Elem().String(),
	}).Debug("measurer ready")

	m.startReporter()

	return m, nil
}

func isPowerOfTwo(n int) bool {
	return n >= 2 && n&(n-1) == 0
}

/*
Record appends one sample and returns its index.

EXECUTION FLOW:

1. Call Detector once. The timestamp reflects the moment of the call,
   not the moment the slot is granted.
2. Reserve index = cursor++ atomically.
3. If index >= Cap():
   - Nothing is written and nothing is logged.
   - ErrCapacityExhausted is returned together with the index.
   - The warning about lost records is emitted later, by the next Dump
     or occupancy report.
4. Otherwise write timestamp, comment and mark into the slot.

Indices returned to one goroutine are strictly increasing. The index is
useful for pairing related samples, e.g. the start and end of a section.

The comment is stored without copying; see Record for the ownership rules.
*/

func (m *Measurer[T, M]) Record(comment string, mark M) (int, error) {
	ts := m.Detector()
	idx := m.len.Add(1) - 1

	if idx >= uint64(len(m.cache)) {
		return m.exhausted(idx)
	}

	r := &m.cache[idx]
	r.Timestamp = ts
	r.Comment = comment
	r.Mark = mark

	return int(idx), nil
}

// Tick records comment with the unmarked tag.
func (m *Measurer[T, M]) Tick(comment string) (int, error) {
	return m.Record(comment, UnmarkedOf[M]())
}

/*
Dump renders the report through the bound Dumper.

The Dumper receives the full cache and the current cursor value, which may
be larger than Cap(). Dump does not modify records or the cursor and may be called
any number of times. Repeated dumps with no Record in between produce
identical output.

If records were lost to exhaustion, the first Dump after it logs a
single warning.

Rendering itself is best-effort. The returned error is the first write
error reported by w, if any.
*/

func (m *Measurer[T, M]) Dump(w io.Writer) error {
	m.warnExhausted(m.Stats())

	sw := &stickyWriter{w: w}
	m.Dumper(sw, m.cache, m.len.Load())
	return sw.err
}

// Records returns a copy of the written records. It carries the same race
// caveat as Dump.
func (m *Measurer[T, M]) Records() []Record[T, M] {
	out := make([]Record[T, M], m.Len())
	copy(out, m.cache)
	return out
}

// Cap returns the fixed number of slots.
func (m *Measurer[T, M]) Cap() int {
	return len(m.cache)
}

// Len returns the number of reserved slots, clamped to Cap.
func (m *Measurer[T, M]) Len() int {
	n, _ := clampCount(m.len.Load(), len(m.cache))
	return n
}

// Stats returns an occupancy snapshot taken from one cursor load.
func (m *Measurer[T, M]) Stats() Stats {
	reserved := m.len.Load()
	recorded, overflows := clampCount(reserved, len(m.cache))
	return Stats{
		Capacity:  len(m.cache),
		Reserved:  reserved,
		Recorded:  uint64(recorded),
		Overflows: overflows,
	}
}
