//go:build !amd64

package tempusmark

import "time"

// cycleEpoch is the reference point for fallback readings.
var cycleEpoch = time.Now()

// readCycles returns monotonic nanoseconds since cycleEpoch on platforms
// without a supported cycle counter.
func readCycles() uint64 {
	return uint64(time.Since(cycleEpoch).Nanoseconds())
}

func cycleCounterName() string {
	return "monotonic"
}
