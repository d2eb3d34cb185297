// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package acqsession

import (
	"github.com/joeycumines/go-catrate"
)

// warnCategory names the two diagnostics that are never fatal to the
// loop: a RemoveSource call on a key not present in the registry, and a
// TimeoutProvider hint-query failure. Both can legitimately recur at high
// frequency (device churn, a flaky USB stack) without being fatal, so
// they're rate limited rather than suppressed or left to flood the log.
type warnCategory string

const (
	warnSourceNotFound     warnCategory = "source_not_found"
	warnTimeoutProviderErr warnCategory = "timeout_provider_error"
)

// warnLimiter wraps a catrate.Limiter. WithoutWarnRateLimit (or an empty
// rates map) yields a warnLimiter whose limiter field is nil; that, like a
// nil *warnLimiter, always allows.
type warnLimiter struct {
	limiter *catrate.Limiter
}

func newWarnLimiter(opts *sessionOptions) *warnLimiter {
	if opts.disableWarnRate || len(opts.warnRateLimits) == 0 {
		return &warnLimiter{}
	}
	return &warnLimiter{limiter: catrate.NewLimiter(opts.warnRateLimits)}
}

// allow reports whether a warning in category should be emitted now.
func (w *warnLimiter) allow(category warnCategory) bool {
	if w == nil || w.limiter == nil {
		return true
	}
	_, ok := w.limiter.Allow(category)
	return ok
}
