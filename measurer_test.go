//go:build !strictlayout

package tempusmark

import (
	"bytes"
	"io"
	"sort"
	"sync/atomic"
	"testing"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

/*
measurer_test.go validates the Measurer core.

================================================================================
TESTING OBJECTIVES
================================================================================

1. Reservation
   - Indices are unique under concurrency and gap free.
   - Indices seen by one goroutine strictly increase.

2. Capacity
   - Exactly Cap() records succeed; the next one fails detectably.
   - Invalid capacities never produce an instance.

3. Dumping
   - Dump is read only and repeatable.
   - Dumpers see the raw cursor, which may exceed Cap().

Concurrency tests dump only after every writer has returned, so they are
clean under `go test -race`.
*/

func newTestMeasurer(t *testing.T, capacity int, opts ...Option) *NanoMeasurer {
	t.Helper()
	logger, _ := quietLogger()
	opts = append([]Option{WithLogger(logger), WithDetector(stepClock(1234))}, opts...)
	m, err := New[NanoSec, Mark](capacity, opts...)
	require.NoError(t, err)
	t.Cleanup(m.Stop)
	return m
}

func TestRecordReturnsIncreasingIndices(t *testing.T) {
	m := newTestMeasurer(t, 8)

	for want := 0; want < 8; want++ {
		idx, err := m.Tick("step")
		require.NoError(t, err)
		assert.Equal(t, want, idx)
	}
	assert.Equal(t, 8, m.Len())
}

func TestRecordStoresFields(t *testing.T) {
	m := newTestMeasurer(t, 4)

	_, err := m.Record("start", 7)
	require.NoError(t, err)
	_, err = m.Tick("end")
	require.NoError(t, err)

	records := m.Records()
	require.Len(t, records, 2)
	assert.Equal(t, Record[NanoSec, Mark]{Timestamp: NanoSec{Sec: 1234, Nsec: 1}, Comment: "start", Mark: 7}, records[0])
	assert.Equal(t, Record[NanoSec, Mark]{Timestamp: NanoSec{Sec: 1234, Nsec: 2}, Comment: "end", Mark: Unmarked}, records[1])
}

func TestRecordKeepsCommentWithoutCopy(t *testing.T) {
	m := newTestMeasurer(t, 2)

	buf := []byte("borrowed comment")
	comment := unsafe.String(&buf[0], len(buf))
	_, err := m.Tick(comment)
	require.NoError(t, err)

	stored := m.Records()[0].Comment
	assert.Equal(t, unsafe.StringData(comment), unsafe.StringData(stored))
}

/*
TestConcurrentRecordIndicesAreUnique spawns several writers that together
fill the measurer exactly.

The union of the returned indices must be {0, ..., Cap()-1} and every
writer must have observed its own indices in increasing order.
*/

func TestConcurrentRecordIndicesAreUnique(t *testing.T) {
	const writers = 8
	const perWriter = 128
	m := newTestMeasurer(t, writers*perWriter)

	seen := make([][]int, writers)
	var g errgroup.Group
	for w := 0; w < writers; w++ {
		w := w
		g.Go(func() error {
			for i := 0; i < perWriter; i++ {
				idx, err := m.Record("concurrent", Mark(w))
				if err != nil {
					return err
				}
				seen[w] = append(seen[w], idx)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var all []int
	for _, indices := range seen {
		assert.True(t, sort.IntsAreSorted(indices))
		all = append(all, indices...)
	}
	sort.Ints(all)
	require.Len(t, all, writers*perWriter)
	for i, idx := range all {
		require.Equal(t, i, idx)
	}

	for _, r := range m.Records() {
		assert.Equal(t, "concurrent", r.Comment)
	}
}

func TestRecordBeyondCapacity(t *testing.T) {
	logger, hook := quietLogger()
	m, err := New[NanoSec, Mark](4, WithLogger(logger), WithDetector(stepClock(1)))
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		_, err := m.Tick("fits")
		require.NoError(t, err)
	}

	idx, err := m.Tick("overflow")
	assert.Equal(t, 4, idx)
	assert.True(t, errors.Is(err, ErrCapacityExhausted))

	idx, err = m.Tick("overflow again")
	assert.Equal(t, 5, idx)
	assert.ErrorIs(t, err, ErrCapacityExhausted)

	for _, r := range m.Records() {
		assert.Equal(t, "fits", r.Comment)
	}
	assert.Equal(t, Stats{Capacity: 4, Reserved: 6, Recorded: 4, Overflows: 2}, m.Stats())

	// Record itself never logs; the warning waits for the next Dump.
	assert.Zero(t, countWarnings(hook))

	require.NoError(t, m.Dump(io.Discard))
	assert.Equal(t, 1, countWarnings(hook))

	require.NoError(t, m.Dump(io.Discard))
	assert.Equal(t, 1, countWarnings(hook))
}

func TestDumpWithoutOverflowDoesNotWarn(t *testing.T) {
	logger, hook := quietLogger()
	m, err := New[NanoSec, Mark](2, WithLogger(logger), WithDetector(stepClock(1)))
	require.NoError(t, err)

	_, err = m.Tick("fits")
	require.NoError(t, err)
	require.NoError(t, m.Dump(io.Discard))

	assert.Zero(t, countWarnings(hook))
}

func TestNewRejectsInvalidCapacity(t *testing.T) {
	for _, capacity := range []int{-4, 0, 1, 3, 6, 100, 1000} {
		m, err := New[NanoSec, Mark](capacity)
		assert.Nil(t, m, "capacity %d", capacity)
		assert.ErrorIs(t, err, ErrInvalidCapacity, "capacity %d", capacity)
	}

	for _, capacity := range []int{2, 4, 256, 1 << 12} {
		m := newTestMeasurer(t, capacity)
		assert.Equal(t, capacity, m.Cap())
	}
}

func TestDetectorCalledOncePerRecord(t *testing.T) {
	var calls atomic.Int64
	m := newTestMeasurer(t, 2, WithDetector(func() NanoSec {
		calls.Add(1)
		return NanoSec{}
	}))

	_, _ = m.Tick("a")
	_, _ = m.Tick("b")
	_, err := m.Tick("c")
	require.ErrorIs(t, err, ErrCapacityExhausted)

	assert.Equal(t, int64(3), calls.Load())
}

func TestDetectorFieldOverride(t *testing.T) {
	m := newTestMeasurer(t, 2)
	m.Detector = func() NanoSec { return NanoSec{Sec: 99, Nsec: 1} }

	_, err := m.Tick("overridden")
	require.NoError(t, err)
	assert.Equal(t, NanoSec{Sec: 99, Nsec: 1}, m.Records()[0].Timestamp)
}

func TestOptionTypeMismatch(t *testing.T) {
	m, err := New[NanoSec, Mark](4, WithDetector(func() ClockCycle { return 1 }))
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrPolicyMismatch)

	m, err = New[NanoSec, Mark](4, WithDumper(func(io.Writer, []Record[NanoSec, string], uint64) {}))
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrPolicyMismatch)
}

func TestDumpIsIdempotent(t *testing.T) {
	m := newTestMeasurer(t, 4)
	for _, c := range []string{"a", "b", "c"} {
		_, err := m.Tick(c)
		require.NoError(t, err)
	}

	var first, second bytes.Buffer
	require.NoError(t, m.Dump(&first))
	require.NoError(t, m.Dump(&second))

	assert.NotEmpty(t, first.String())
	assert.Equal(t, first.Bytes(), second.Bytes())
	assert.Equal(t, 3, m.Len())
}

func TestDumperSeesRawCursor(t *testing.T) {
	m := newTestMeasurer(t, 2)

	var gotLen int
	var gotCount uint64
	m.Dumper = func(_ io.Writer, cache []Record[NanoSec, Mark], n uint64) {
		gotLen, gotCount = len(cache), n
	}

	for i := 0; i < 3; i++ {
		_, _ = m.Tick("x")
	}
	require.NoError(t, m.Dump(io.Discard))

	assert.Equal(t, 2, gotLen)
	assert.Equal(t, uint64(3), gotCount)
}

func TestDefaultDumperClampsOverflow(t *testing.T) {
	m := newTestMeasurer(t, 2)
	for _, c := range []string{"a", "b", "c"} {
		_, _ = m.Tick(c)
	}

	var out bytes.Buffer
	require.NoError(t, m.Dump(&out))

	assert.Equal(t,
		"tempusmark info (default dumper):\n"+
			"precision: nanosec\tsample: 2\toverflow: 1\n"+
			"\n\n"+
			"stamp(s.ns)\t\tcomment\n"+
			"------------------------------------\n"+
			"34.1\t\ta\n"+
			"34.2\t\tb\n",
		out.String())
}

type failingWriter struct {
	writes int
}

func (f *failingWriter) Write(p []byte) (int, error) {
	f.writes++
	return 0, errors.New("sink closed")
}

func TestDumpReportsSinkError(t *testing.T) {
	m := newTestMeasurer(t, 2)
	_, _ = m.Tick("a")

	sink := &failingWriter{}
	err := m.Dump(sink)

	assert.EqualError(t, err, "sink closed")
	assert.Equal(t, 1, sink.writes)
}
