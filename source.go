// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package acqsession

import "time"

// PollEvents is a bitmask of I/O readiness events, mirroring poll(2)'s
// POLLIN/POLLOUT/etc.
type PollEvents int16

const (
	PollIn  PollEvents = 1 << iota // readable
	PollOut                        // writable
	PollErr                        // error condition (revents only)
	PollHup                        // hangup (revents only)
)

// PollDescriptor is one {fd, events, revents} triple. A Source contributes
// exactly NumFDs consecutive entries to the session's flat array.
type PollDescriptor struct {
	FD      int
	Events  PollEvents
	Revents PollEvents
}

// SourceCallback is invoked when a source becomes ready or its timer fires.
// fd is the single descriptor's fd for NumFDs==1 sources, or -1 for
// NumFDs>1 or pure-timer sources. Returning false requests self-removal:
// the session removes the source by its SourceKey immediately after the
// callback returns.
type SourceCallback func(fd int, revents PollEvents, ctx any) bool

// TimeoutProvider is a generic capability a source may optionally
// implement to contribute an additional "next due" hint, consulted once
// per iteration before polling, beyond whatever timer the source itself
// carries. A transport backend that tracks its own internal retry or
// keepalive schedule is the motivating case.
type TimeoutProvider interface {
	// NextTimeout returns the duration until the provider's next event is
	// due, and true, or (0, false, nil) if it has no pending timeout. A
	// non-nil error means the provider failed to produce a hint this
	// iteration; the loop logs it as a rate-limited warning and treats
	// the source as if it had no hint for this pass rather than aborting
	// the iteration.
	NextTimeout() (time.Duration, bool, error)
}

// source is one entry in the registry. Unexported: callers interact with
// sources only through Session's Add*/Remove* methods and SourceKey.
type source struct {
	key       SourceKey
	numFDs    int
	timeoutUs int64 // microseconds; -1 means "pure I/O, no timer"
	dueUs     int64 // monotonic deadline; math.MaxInt64 when timeoutUs == -1

	callback SourceCallback
	ctx      any

	// timeoutProvider is non-nil when this source was registered via
	// AddSourceWithTimeoutProvider; consulted by the loop every iteration.
	timeoutProvider TimeoutProvider

	triggered bool
}
