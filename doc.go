// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package acqsession implements the session core of a signal-acquisition
// library: a cooperative, single-threaded event loop that binds a dynamic
// set of hardware acquisition devices, multiplexes their poll sources
// (file descriptors, timers, and foreign-library handles such as a USB
// backend) over a single poll(2)-style syscall, and streams the packets
// they produce through an ordered chain of transforms to registered
// subscribers.
//
// # Architecture
//
// A [Session] owns a [Device] roster (see [Session.AddDevice]), a source
// registry (see [Session.AddSource] and friends), and a datafeed bus (see
// [Session.Send], [Session.AddTransform], [Session.AddSubscriber]). Calling
// [Session.Start] commits device configuration and invokes each driver's
// acquisition start, which registers sources against the session. Calling
// [Session.Run] drives the event loop until the source registry is empty.
//
// # Concurrency
//
// The event loop, driver callbacks, transforms, and subscribers all run on
// the goroutine that calls [Session.Run]. The only operation safe to call
// from any other goroutine is [Session.Stop]; see stop.go.
//
// # Platform support
//
// The event loop's poller is implemented with a single poll(2) syscall over
// a flat descriptor array, using golang.org/x/sys/unix.Poll. See
// poller_unix.go.
package acqsession
