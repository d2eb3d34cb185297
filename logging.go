// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package acqsession

import (
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Log categories attached to every structured log entry this package
// emits, naming the subsystem that produced it.
const (
	logCatPoll     = "poll"
	logCatSource   = "source"
	logCatDispatch = "dispatch"
	logCatDevice   = "device"
	logCatDatafeed = "datafeed"
	logCatTrigger  = "trigger"
	logCatShutdown = "shutdown"
)

// logBuilder returns a Builder for the given level with the session id and
// category fields pre-populated, cheap to call even when the level is
// disabled (logiface.Logger.Build pools builders and only allocates event
// state lazily).
func (s *Session) logBuilder(level logiface.Level, category string) *logiface.Builder[*stumpy.Event] {
	return s.opts.logger.Build(level).
		Uint64(`session`, s.id).
		Str(`category`, category)
}
