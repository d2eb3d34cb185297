// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

//go:build linux || darwin || netbsd || freebsd || openbsd || dragonfly

package acqsession

import "golang.org/x/sys/unix"

// pollFDs multiplexes the registry's flat descriptor array with a single
// poll(2) call via golang.org/x/sys/unix.Poll. Unlike an edge-triggered
// epoll/kqueue readiness table maintained across calls, this loop polls
// a plain array supplied fresh each iteration, so no persistent
// kernel-side registration is needed or wanted here.
//
// EINTR is treated as "zero events, retry the outer loop".
func pollFDs(descs []PollDescriptor, timeoutMs int) (int, error) {
	if len(descs) == 0 {
		// A registry with sources but zero descriptors (pure timers)
		// simply sleeps for timeoutMs via poll(nil, 0, timeoutMs).
		return unixPoll(nil, timeoutMs)
	}

	fds := make([]unix.PollFd, len(descs))
	for i, d := range descs {
		fds[i] = unix.PollFd{Fd: int32(d.FD), Events: eventsToPoll(d.Events)}
	}

	n, err := unixPoll(fds, timeoutMs)
	if err != nil {
		return n, err
	}

	for i := range descs {
		descs[i].Revents = pollToEvents(fds[i].Revents)
	}
	return n, nil
}

func unixPoll(fds []unix.PollFd, timeoutMs int) (int, error) {
	n, err := unix.Poll(fds, timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}

func eventsToPoll(e PollEvents) int16 {
	var v int16
	if e&PollIn != 0 {
		v |= unix.POLLIN
	}
	if e&PollOut != 0 {
		v |= unix.POLLOUT
	}
	return v
}

func pollToEvents(v int16) PollEvents {
	var e PollEvents
	if v&unix.POLLIN != 0 {
		e |= PollIn
	}
	if v&unix.POLLOUT != 0 {
		e |= PollOut
	}
	if v&unix.POLLERR != 0 {
		e |= PollErr
	}
	if v&(unix.POLLHUP|unix.POLLNVAL) != 0 {
		e |= PollHup
	}
	return e
}
