package tempusmark

import (
	"fmt"
	"io"
	"time"
)

// NanoSec is a wall-clock reading with nanosecond resolution.
type NanoSec struct {
	Sec  int64
	Nsec int64
}

// Nanoseconds returns n as nanoseconds since the Unix epoch.
func (n NanoSec) Nanoseconds() int64 {
	return n.Sec*int64(time.Second) + n.Nsec
}

// Time converts n to a time.Time in the local zone.
func (n NanoSec) Time() time.Time {
	return time.Unix(n.Sec, n.Nsec)
}

// NanoMeasurer records wall-clock time points.
type NanoMeasurer = Measurer[NanoSec, Mark]

// NewNano returns a NanoMeasurer with DefaultCapacity slots.
func NewNano(opts ...Option) (*NanoMeasurer, error) {
	return New[NanoSec, Mark](DefaultCapacity, opts...)
}

func readWallClock() NanoSec {
	now := time.Now()
	return NanoSec{Sec: now.Unix(), Nsec: int64(now.Nanosecond())}
}

// Only the last two digits of the seconds are printed; they are enough to
// line up samples of one run.
func formatNanoLine(w io.Writer, e Entry[NanoSec]) {
	fmt.Fprintf(w, "%d.%d\t\t%s", e.Timestamp.Sec%100, e.Timestamp.Nsec, e.Comment)
}

func init() {
	Register(Policy[NanoSec]{
		Detector:    readWallClock,
		Precision:   "nanosec",
		WithTable:   true,
		TableHeader: "stamp(s.ns)\t\tcomment",
		Line:        formatNanoLine,
	})
}
