// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package acqsession

import (
	"sync/atomic"

	"github.com/joeycumines/logiface"
)

var nextSessionID uint64

// Session is a single acquisition run: a device roster, a registry of
// poll sources multiplexed by a single event loop, and a datafeed
// pipeline that transforms and fans packets out to subscribers. A
// Session is not safe for concurrent use except where individual methods
// document otherwise (Stop is the only one safe to call from another
// goroutine while Run is in progress).
type Session struct {
	id    uint64
	opts  *sessionOptions
	clock monotonicClock
	warn  *warnLimiter

	registry sourceRegistry
	stopCh   stopChannel

	devices      []*Device
	ownedDevices []*Device

	trigger *Trigger

	transforms  []Transform
	subscribers []Subscriber

	running bool
}

// NewSession constructs a Session ready to have devices and sources
// added to it.
func NewSession(opts ...SessionOption) (*Session, error) {
	cfg, err := resolveSessionOptions(opts)
	if err != nil {
		return nil, newErr("NewSession", CodeBadArg, err)
	}
	return &Session{
		id:    atomic.AddUint64(&nextSessionID, 1),
		opts:  cfg,
		clock: newMonotonicClock(),
		warn:  newWarnLimiter(cfg),
	}, nil
}

// ID returns the session's process-unique identifier, used as a log
// field to disambiguate concurrent sessions.
func (s *Session) ID() uint64 {
	return s.id
}

// SetTrigger attaches a trigger configuration to the session. It is
// stored unconditionally; validation happens later, at Start time.
func (s *Session) SetTrigger(t *Trigger) {
	s.trigger = t
}

// AddSource registers a poll source directly. Most callers should prefer
// AddFDSource, AddPollDescriptorSource, or AddChannelSource, which build
// the SourceKey and PollDescriptor slice for the common cases.
//
// timeoutMs is the timer period in milliseconds: -1 disables the timer
// entirely (the source only fires on I/O), 0 makes the source due again
// as soon as it has fired (it still does not fire in an iteration where
// poll reported I/O ready on another source), and a numFDs==0 source (a
// pure timer) must specify a non-negative timeoutMs.
func (s *Session) AddSource(key SourceKey, descriptors []PollDescriptor, numFDs int, timeoutMs int, cb SourceCallback, ctx any) error {
	return s.addSource(key, descriptors, numFDs, timeoutMs, cb, ctx, nil)
}

// AddSourceWithTimeoutProvider is AddSource plus a TimeoutProvider the
// loop consults once per iteration alongside the source's own timer.
func (s *Session) AddSourceWithTimeoutProvider(key SourceKey, descriptors []PollDescriptor, numFDs int, timeoutMs int, cb SourceCallback, ctx any, tp TimeoutProvider) error {
	return s.addSource(key, descriptors, numFDs, timeoutMs, cb, ctx, tp)
}

func (s *Session) addSource(key SourceKey, descriptors []PollDescriptor, numFDs int, timeoutMs int, cb SourceCallback, ctx any, tp TimeoutProvider) error {
	_, err := s.registry.add(key, descriptors, numFDs, timeoutMs, cb, ctx, tp, s.clock.nowMicros())
	if err != nil {
		s.logBuilder(logiface.LevelWarning, logCatSource).
			Str(`key`, key.String()).
			Err(err).
			Log("add source failed")
		return err
	}
	s.logBuilder(logiface.LevelDebug, logCatSource).
		Str(`key`, key.String()).
		Int64(`timeout_ms`, int64(timeoutMs)).
		Log("source added")
	return nil
}

// AddFDSource registers a single-fd I/O source.
func (s *Session) AddFDSource(fd int, events PollEvents, timeoutMs int, cb SourceCallback, ctx any) error {
	key := FDKey(fd)
	return s.AddSource(key, []PollDescriptor{{FD: fd, Events: events}}, 1, timeoutMs, cb, ctx)
}

// AddPollDescriptorSource registers a source identified by the address
// of a caller-owned PollDescriptor (e.g. one a transport backend keeps
// updating directly).
func (s *Session) AddPollDescriptorSource(p *PollDescriptor, timeoutMs int, cb SourceCallback, ctx any) error {
	key := PollDescriptorKey(p)
	return s.AddSource(key, []PollDescriptor{*p}, 1, timeoutMs, cb, ctx)
}

// AddChannelSource registers a pure-timer source (numFDs == 0) identified
// by the address of a platform I/O channel value.
func (s *Session) AddChannelSource(handle any, timeoutMs int, cb SourceCallback, ctx any) error {
	key := ChannelKey(handle)
	return s.AddSource(key, nil, 0, timeoutMs, cb, ctx)
}

// RemoveSource removes the source identified by key. Removing a key not
// present in the registry is logged as a rate-limited warning, not
// returned as an error: a source that unregistered itself (by returning
// false from its callback) racing a caller-initiated RemoveSource is an
// expected, non-fatal event.
func (s *Session) RemoveSource(key SourceKey) {
	if s.registry.remove(key) {
		s.logBuilder(logiface.LevelDebug, logCatSource).
			Str(`key`, key.String()).
			Log("source removed")
		return
	}
	if s.warn.allow(warnSourceNotFound) {
		s.logBuilder(logiface.LevelWarning, logCatSource).
			Str(`key`, key.String()).
			Log("remove source: key not found")
	}
}

// AddTransform appends t to the session's shared transform chain. The
// chain is shared across every device in the session, not per device.
func (s *Session) AddTransform(t Transform) {
	s.transforms = append(s.transforms, t)
}

// AddSubscriber appends sub to the session's subscriber fan-out list,
// invoked (in order) after the transform chain for every packet not
// dropped by it.
func (s *Session) AddSubscriber(sub Subscriber) {
	s.subscribers = append(s.subscribers, sub)
}

// RemoveAllSubscribers clears the subscriber fan-out list.
func (s *Session) RemoveAllSubscribers() {
	s.subscribers = nil
}

// Stop requests that a running session halt. Safe to call from any
// goroutine, including the one running Run; the stop is observed at the
// next dispatch boundary, not synchronously.
func (s *Session) Stop() {
	s.stopCh.request()
}
