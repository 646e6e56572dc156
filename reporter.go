package tempusmark

import (
	"time"

	"github.com/sirupsen/logrus"
)

/*
startReporter launches the background occupancy reporter.

================================================================================
EXECUTION MODEL
================================================================================

- If interval <= 0:
    → Nothing is started.

- If interval > 0:
    → A time.Ticker is created.
    → A dedicated goroutine logs one Stats snapshot per tick.

The goroutine only performs atomic loads of the cursor. Record and Dump are
unaffected by it.

================================================================================
SHUTDOWN
================================================================================

stopChan is closed by Stop. The ticker is stopped before the goroutine
returns.
*/

func (m *Measurer[T, M]) startReporter() {
	if m.interval <= 0 {
		return
	}

	ticker := time.NewTicker(m.interval)

	go func() {
		for {
			select {
			case <-ticker.C:
				m.report()
			case <-m.stopChan:
				ticker.Stop()
				return
			}
		}
	}()
}

func (m *Measurer[T, M]) report() {
	s := m.Stats()
	m.logger.WithFields(logrus.Fields{
		"capacity":  s.Capacity,
		"recorded":  s.Recorded,
		"overflows": s.Overflows,
	}).Info("measurer occupancy")
	m.warnExhausted(s)
}

// Stop terminates the occupancy reporter. It is safe to call more than once
// and on measurers without a reporter.
func (m *Measurer[T, M]) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
}
