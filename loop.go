// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package acqsession

import (
	"math"
	"time"

	"github.com/joeycumines/logiface"
)

// Run drives the event loop until every source has been removed or Stop
// is called: poll sources until none are left.
func (s *Session) Run() error {
	if len(s.devices) == 0 {
		return newErr("Session.Run", CodeBadArg, nil)
	}
	s.running = true
	s.logBuilder(logiface.LevelInformational, logCatDispatch).Log("running")

	for s.registry.len() > 0 {
		if err := s.Iteration(); err != nil {
			s.running = false
			return err
		}
		if s.stopCh.checkAndClear() {
			return s.haltDevices()
		}
	}
	s.running = false
	return nil
}

// Iteration runs exactly one pass of the event loop: compute the poll
// deadline, block in poll(2) for at most that long, then dispatch every
// source whose I/O or timer condition is satisfied. It is exported so a
// caller that wants to interleave the loop with its own work (rather
// than handing control to Run) can drive iterations one at a time.
//
// Iteration does not act on a Stop request beyond ending its dispatch
// pass early: the request stays pending, and device acquisition is not
// stopped. Only Run consumes the request and stops the devices.
func (s *Session) Iteration() error {
	if s.registry.len() == 0 {
		return nil
	}

	startUs := s.clock.nowMicros()
	minDueUs := int64(math.MaxInt64)
	for _, src := range s.registry.sources {
		if src.dueUs < minDueUs {
			minDueUs = src.dueUs
		}
		src.triggered = false
	}

	// Merge in every registered TimeoutProvider's hint: any source may
	// opt into contributing an extra due-time hint beyond its own timer,
	// the generic form of a USB backend's "next timeout" query.
	providerDueUs := int64(math.MaxInt64)
	for _, src := range s.registry.sources {
		if src.timeoutProvider == nil {
			continue
		}
		d, ok, err := src.timeoutProvider.NextTimeout()
		if err != nil {
			if s.warn.allow(warnTimeoutProviderErr) {
				s.logBuilder(logiface.LevelWarning, logCatPoll).
					Str(`key`, src.key.String()).
					Err(err).
					Log("timeout provider hint query failed")
			}
			continue
		}
		if !ok {
			continue
		}
		due := startUs + int64(d/time.Microsecond)
		if due < providerDueUs {
			providerDueUs = due
		}
		if due < minDueUs {
			minDueUs = due
		}
	}

	var timeoutMs int
	switch {
	case minDueUs == math.MaxInt64:
		timeoutMs = -1
	case minDueUs > startUs:
		// round up, matching (min_due - start_time + 999) / 1000
		timeoutMs = int((minDueUs - startUs + 999) / 1000)
	default:
		timeoutMs = 0
	}

	s.logBuilder(logiface.LevelTrace, logCatPoll).
		Int(`sources`, s.registry.len()).
		Int(`fds`, len(s.registry.descs)).
		Int(`timeout_ms`, timeoutMs).
		Log("poll enter")

	n, err := pollFDs(s.registry.descs, timeoutMs)
	if err != nil {
		return newErr("Session.Iteration", CodeGeneric, err)
	}
	stopUs := s.clock.nowMicros()

	s.logBuilder(logiface.LevelTrace, logCatPoll).
		Int64(`elapsed_us`, stopUs-startUs).
		Log("poll leave")

	return s.dispatch(stopUs, providerDueUs, n)
}

// dispatch walks the registry once per pass, firing every source whose
// aggregated revents are non-zero or whose timer has come due, skipping
// ones already triggered this iteration. Because a callback may mutate
// the registry (most commonly by returning false, which removes the
// source), the pass restarts from the beginning whenever that happens;
// the per-source triggered flag prevents an already-fired source from
// firing again on the restarted pass, since the sources list may have
// changed underneath the loop.
//
// readyCount is poll(2)'s return value for this iteration's syscall: if
// it reported at least one descriptor ready anywhere in the flat array,
// a source with no events of its own (revents == 0) is skipped for this
// pass even if its timer has come due. A due timer only fires sources on
// a pass where poll found nothing ready at all (readyCount == 0, i.e.
// the wait actually timed out), so a source whose deadline elapsed
// during the same poll call that delivered real I/O to another source
// waits for the next iteration instead of firing alongside it.
func (s *Session) dispatch(stopUs int64, providerDueUs int64, readyCount int) error {
restart:
	fdIndex := 0
	for i := 0; i < s.registry.len(); i++ {
		src := s.registry.sources[i]

		var revents PollEvents
		fd := -1
		for k := 0; k < src.numFDs; k++ {
			d := s.registry.descs[fdIndex+k]
			fd = d.FD
			revents |= d.Revents
		}
		fdIndex += src.numFDs

		if src.triggered {
			continue
		}
		if src.numFDs > 1 {
			fd = -1
		}

		if revents == 0 {
			if readyCount > 0 {
				// poll found something ready elsewhere in the flat array
				// this iteration; a source with no events of its own does
				// not fire on this pass no matter how overdue its timer
				// is: timers yield to I/O readiness and are reconsidered
				// on the next iteration.
				continue
			}
			due := src.dueUs
			if src.timeoutProvider != nil && providerDueUs < due {
				due = providerDueUs
			}
			if stopUs < due {
				continue
			}
		}

		// Capture everything the callback needs before invoking it: the
		// source may remove itself, invalidating src afterward.
		key := src.key
		cb := src.callback
		ctx := src.ctx
		cbFD := fd
		cbRevents := revents
		if src.timeoutUs >= 0 {
			src.dueUs = stopUs + src.timeoutUs
		}
		src.triggered = true

		s.logBuilder(logiface.LevelTrace, logCatDispatch).
			Str(`key`, key.String()).
			Log("dispatching source")

		keep := cb(cbFD, cbRevents, ctx)
		if !keep {
			s.registry.remove(key)
		}

		if s.stopCh.peek() {
			// We want to take as little time as possible to stop the
			// session once asked to, so this is checked after every
			// source's callback runs, not just once per iteration.
			// Run performs the actual checkAndClear and the synchronous
			// stop sequence once Iteration returns.
			return nil
		}

		// The registry may have changed (removal, or a callback adding a
		// new source); restart the pass so the invariant "every
		// not-yet-triggered source is considered" holds for the new
		// state.
		goto restart
	}

	return nil
}

// haltDevices stops acquisition on every device whose driver supports
// it.
func (s *Session) haltDevices() error {
	s.logBuilder(logiface.LevelInformational, logCatShutdown).Log("stopping")

	var firstErr error
	for _, dev := range s.devices {
		if dev.Driver == nil {
			continue
		}
		stopper, ok := dev.Driver.(AcquisitionStopper)
		if !ok {
			continue
		}
		if err := stopper.StopAcquisition(dev); err != nil {
			s.logBuilder(logiface.LevelError, logCatShutdown).
				Str(`connection`, dev.ConnectionID).
				Err(err).
				Log("stop acquisition failed")
			if firstErr == nil {
				firstErr = newErr("Session.Stop", CodeGeneric, err)
			}
		}
	}
	s.running = false
	return firstErr
}
