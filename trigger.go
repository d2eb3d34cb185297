// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package acqsession

import "github.com/joeycumines/logiface"

// MatchKind identifies the edge or level a Match fires on. The zero
// value, MatchUnset, is not a valid kind: every Match must explicitly
// set one of the others, so an uninitialized Match is rejected rather
// than silently treated as some default trigger condition.
type MatchKind int

const (
	MatchUnset MatchKind = iota
	MatchZero
	MatchOne
	MatchRising
	MatchFalling
	MatchEdge
)

// Match pairs a channel with the condition that must hold on it for a
// trigger stage to fire.
type Match struct {
	Channel *Channel
	Kind    MatchKind
}

// Stage is one step of a multi-stage trigger: every Match in Matches
// must hold simultaneously for the stage to fire.
type Stage struct {
	Matches []Match
}

// Trigger is a sequence of stages a device's acquisition logic consults
// before it starts streaming real data, attached to a Session with
// SetTrigger and validated once, at Start.
type Trigger struct {
	Stages []Stage
}

// validateTrigger checks the structural invariants a trigger must
// satisfy before a session can start: at least one stage, every stage
// has at least one match, every match names a channel, and every match
// has a kind set.
func validateTrigger(s *Session, t *Trigger) error {
	if len(t.Stages) == 0 {
		return newErr("Session.Start", CodeGeneric, nil)
	}
	for i, stage := range t.Stages {
		if len(stage.Matches) == 0 {
			return newErr("Session.Start", CodeGeneric, nil)
		}
		for _, m := range stage.Matches {
			if m.Channel == nil {
				return newErr("Session.Start", CodeGeneric, nil)
			}
			if m.Kind == MatchUnset {
				return newErr("Session.Start", CodeGeneric, nil)
			}
			s.logBuilder(logiface.LevelDebug, logCatTrigger).
				Int(`stage`, i).
				Str(`channel`, m.Channel.Name).
				Int(`kind`, int(m.Kind)).
				Log("checking trigger stage match")
		}
	}
	return nil
}
