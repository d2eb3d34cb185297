// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package acqsession

import "time"

// monotonicClock hands out microsecond timestamps relative to a fixed
// anchor: a single reference time.Time, captured once, with all later
// readings derived via time.Since (which uses Go's monotonic clock reading
// when available). The clock is read only from the event-loop goroutine,
// since everything but Stop runs single-threaded here, so no atomics are
// needed.
type monotonicClock struct {
	anchor time.Time
}

func newMonotonicClock() monotonicClock {
	return monotonicClock{anchor: time.Now()}
}

// nowMicros returns microseconds elapsed since the clock was created.
func (c monotonicClock) nowMicros() int64 {
	return int64(time.Since(c.anchor) / time.Microsecond)
}
