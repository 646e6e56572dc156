package tempusmark

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// exhausted is the Record path for indices past capacity. It must not log:
// logging takes the logger's lock and writes to its output.
func (m *Measurer[T, M]) exhausted(idx uint64) (int, error) {
	return int(idx), errors.Wrapf(ErrCapacityExhausted, "index %d, capacity %d", idx, len(m.cache))
}

// warnExhausted logs the first capacity exhaustion once per measurer. It
// runs from Dump and from the occupancy reporter, never from Record.
func (m *Measurer[T, M]) warnExhausted(s Stats) {
	if s.Overflows == 0 || !m.warned.CompareAndSwap(false, true) {
		return
	}
	m.logger.WithFields(logrus.Fields{
		"capacity":  s.Capacity,
		"overflows": s.Overflows,
	}).Warn("measurer capacity exhausted, further records are dropped")
}
