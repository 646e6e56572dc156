package tempusmark

// readCycles returns the time stamp counter using RDTSCP, which waits for
// earlier instructions to retire before reading.
//
//go:noescape
func readCycles() uint64

func cycleCounterName() string {
	return "rdtscp"
}
