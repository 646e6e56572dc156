package tempusmark

/*
Stats represents the occupancy of a Measurer.

================================================================================
PURPOSE
================================================================================

Capacity  → Fixed number of record slots
Reserved  → Reservations issued so far (raw cursor, may exceed Capacity)
Recorded  → Slots actually written, i.e. min(Reserved, Capacity)
Overflows → Record calls rejected with ErrCapacityExhausted

Overflows > 0 means the buffer was sized too small for the measured phase.

================================================================================
CONCURRENCY MODEL
================================================================================

All values derive from a single atomic load of the cursor, so a snapshot is
internally consistent and never blocks writers.
*/

type Stats struct {
	Capacity  int
	Reserved  uint64
	Recorded  uint64
	Overflows uint64
}

// StatsSource is implemented by every Measurer instantiation.
type StatsSource interface {
	Stats() Stats
}
