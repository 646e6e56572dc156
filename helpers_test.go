package tempusmark

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

// stepClock returns a detector that advances one nanosecond per call.
func stepClock(sec int64) Detector[NanoSec] {
	var n atomic.Int64
	return func() NanoSec {
		return NanoSec{Sec: sec, Nsec: n.Add(1)}
	}
}

func quietLogger() (logrus.FieldLogger, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	return logger, hook
}

func countWarnings(hook *logtest.Hook) int {
	n := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			n++
		}
	}
	return n
}
