// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package acqsession

import (
	"time"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// sessionOptions holds configuration for NewSession.
type sessionOptions struct {
	logger          *logiface.Logger[*stumpy.Event]
	warnRateLimits  map[time.Duration]int
	disableWarnRate bool
}

// SessionOption configures a Session.
type SessionOption interface {
	applySession(*sessionOptions) error
}

// sessionOptionImpl implements SessionOption.
type sessionOptionImpl struct {
	applySessionFunc func(*sessionOptions) error
}

func (o *sessionOptionImpl) applySession(opts *sessionOptions) error {
	return o.applySessionFunc(opts)
}

// WithLogger sets the structured logger used for diagnostics. The default
// is a stumpy-backed logger with logging disabled.
func WithLogger(logger *logiface.Logger[*stumpy.Event]) SessionOption {
	return &sessionOptionImpl{func(opts *sessionOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithWarnRateLimit overrides the default rate limits applied to the
// session's "not fatal to the loop" warning diagnostics (source-not-found
// on remove, TimeoutProvider hint-query failures). See metrics.go.
func WithWarnRateLimit(rates map[time.Duration]int) SessionOption {
	return &sessionOptionImpl{func(opts *sessionOptions) error {
		opts.warnRateLimits = rates
		return nil
	}}
}

// WithoutWarnRateLimit disables rate limiting of warning diagnostics
// entirely; every occurrence is logged.
func WithoutWarnRateLimit() SessionOption {
	return &sessionOptionImpl{func(opts *sessionOptions) error {
		opts.disableWarnRate = true
		return nil
	}}
}

// defaultWarnRates is the default catrate configuration: at most 5
// diagnostics per second, and at most 50 per minute, whichever is hit
// first.
func defaultWarnRates() map[time.Duration]int {
	return map[time.Duration]int{
		time.Second: 5,
		time.Minute: 50,
	}
}

// resolveSessionOptions applies SessionOption instances, skipping nil
// options gracefully.
func resolveSessionOptions(opts []SessionOption) (*sessionOptions, error) {
	cfg := &sessionOptions{
		warnRateLimits: defaultWarnRates(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applySession(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.logger == nil {
		cfg.logger = stumpy.L.New(
			stumpy.L.WithStumpy(),
			logiface.WithLevel[*stumpy.Event](logiface.LevelDisabled),
		)
	}
	return cfg, nil
}
