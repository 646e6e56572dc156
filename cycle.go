package tempusmark

import (
	"fmt"
	"io"
)

// ClockCycle is a raw CPU cycle counter reading.
type ClockCycle uint64

// CycleMeasurer records CPU cycle counts.
type CycleMeasurer = Measurer[ClockCycle, Mark]

// NewCycle returns a CycleMeasurer with DefaultCapacity slots.
func NewCycle(opts ...Option) (*CycleMeasurer, error) {
	return New[ClockCycle, Mark](DefaultCapacity, opts...)
}

func readCycleClock() ClockCycle {
	return ClockCycle(readCycles())
}

func explainCycles(w io.Writer, _ []Entry[ClockCycle]) {
	fmt.Fprintf(w, "CPU frequency: unknown (counter: %s)", cycleCounterName())
}

// The cycle table prints the mark rather than the comment: cycle runs are
// usually tagged numerically.
func formatCycleLine(w io.Writer, e Entry[ClockCycle]) {
	fmt.Fprintf(w, "%d\t\t%v", uint64(e.Timestamp), e.Mark)
}

func init() {
	Register(Policy[ClockCycle]{
		Detector:    readCycleClock,
		Precision:   "ClockCycle",
		WithTable:   true,
		TableHeader: "stamp(cycle)\t\tcomment",
		Line:        formatCycleLine,
		Explain:     explainCycles,
	})
}
