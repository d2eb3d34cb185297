// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package acqsession

import "math"

// sourceRegistry is an ordered collection of sources plus a flat
// poll-descriptor array kept in lockstep. Unlike a registry that must
// tolerate concurrent access from arbitrary goroutines, this one is
// accessed only from the event-loop goroutine, so it needs no locking
// at all.
type sourceRegistry struct {
	sources []*source        // insertion order
	descs   []PollDescriptor // flat array; len(descs) == sum(s.numFDs)
}

// add inserts a new source. Rejects a descriptor count that does not
// match numFDs, a numFDs==0 timer with no timeout (would block
// indefinitely), and a poll key already present.
func (r *sourceRegistry) add(key SourceKey, descriptors []PollDescriptor, numFDs int, timeoutMs int, cb SourceCallback, ctx any, tp TimeoutProvider, now int64) (*source, error) {
	if cb == nil {
		return nil, newErr("Session.AddSource", CodeBadArg, nil)
	}
	if len(descriptors) != numFDs {
		return nil, newErr("Session.AddSource", CodeBadArg, nil)
	}
	if numFDs == 0 && timeoutMs < 0 {
		return nil, newErr("Session.AddSource", CodeBadArg, nil)
	}
	for _, s := range r.sources {
		if s.key == key {
			return nil, newErr("Session.AddSource", CodeBadArg, nil)
		}
	}

	src := &source{
		key:             key,
		numFDs:          numFDs,
		callback:        cb,
		ctx:             ctx,
		timeoutProvider: tp,
	}
	if timeoutMs >= 0 {
		src.timeoutUs = int64(timeoutMs) * 1000
		src.dueUs = now + src.timeoutUs
	} else {
		src.timeoutUs = -1
		src.dueUs = math.MaxInt64
	}

	r.sources = append(r.sources, src)
	r.descs = append(r.descs, descriptors...)

	return src, nil
}

// remove deletes the source identified by key and its numFDs consecutive
// poll-descriptor entries atomically, keeping the flat array contiguous
// for the sources that remain, in registration order. Reports false if
// key is not present, which is not an error by itself; callers translate
// that into the NotFound diagnostic.
func (r *sourceRegistry) remove(key SourceKey) bool {
	fdIndex := 0
	for i, s := range r.sources {
		if s.key == key {
			if s.numFDs > 0 {
				r.descs = append(r.descs[:fdIndex], r.descs[fdIndex+s.numFDs:]...)
			}
			r.sources = append(r.sources[:i], r.sources[i+1:]...)
			return true
		}
		fdIndex += s.numFDs
	}
	return false
}

// len reports the number of registered sources.
func (r *sourceRegistry) len() int {
	return len(r.sources)
}

// find returns the source for key, or nil.
func (r *sourceRegistry) find(key SourceKey) *source {
	for _, s := range r.sources {
		if s.key == key {
			return s
		}
	}
	return nil
}
