//go:build strictlayout

package tempusmark

import "unsafe"

const strictLayout = true

// The index expression only compiles when the size is exactly 32 or 64;
// any other value yields a negative or out of range index.
const cycleRecordSize = int(unsafe.Sizeof(Record[ClockCycle, Mark]{}))

var _ = [1]struct{}{}[(cycleRecordSize-32)*(cycleRecordSize-64)]
