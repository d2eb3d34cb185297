// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package acqsession

import "github.com/joeycumines/logiface"

// Transform is one stage in a session's shared transform chain. Receive
// is given the incoming packet and returns the packet to hand to the
// next stage (or to the subscribers, if this is the last stage). Stages
// run in registration order for every packet sent through the session,
// regardless of which device produced it: the chain is session-wide,
// not per device.
//
// Returning (nil, nil) drops the packet silently: the chain stops and no
// subscriber sees it. Returning a non-nil error aborts Send entirely.
type Transform interface {
	Receive(dev *Device, in *Packet) (*Packet, error)
}

// TransformFunc adapts a function to a Transform.
type TransformFunc func(dev *Device, in *Packet) (*Packet, error)

// Receive implements Transform.
func (f TransformFunc) Receive(dev *Device, in *Packet) (*Packet, error) {
	return f(dev, in)
}

// Subscriber receives every packet that survives the transform chain.
// Subscribers are invoked in registration order, an unconditional walk
// of the full list.
type Subscriber func(dev *Device, packet *Packet)

// Send runs packet through the session's transform chain and, if a
// packet survives, fans it out to every subscriber. This is how a
// Driver's acquisition goroutine, or a poll source's callback, gets
// data onto the session's datafeed bus.
func (s *Session) Send(dev *Device, packet *Packet) error {
	if dev == nil || packet == nil {
		return newErr("Session.Send", CodeBadArg, nil)
	}

	current := packet
	for _, t := range s.transforms {
		out, err := t.Receive(dev, current)
		if err != nil {
			return newErr("Session.Send", CodeGeneric, err)
		}
		if out == nil {
			s.logBuilder(logiface.LevelTrace, logCatDatafeed).
				Str(`packet`, current.Type.String()).
				Log("transform dropped packet")
			return nil
		}
		current = out
	}

	s.logPacket(current)

	for _, sub := range s.subscribers {
		sub(dev, current)
	}
	return nil
}

// logPacket emits a debug-level summary of the packet that made it
// through the transform chain, gated on the configured log level so the
// per-field rendering work is skipped entirely when debug logging is
// off.
func (s *Session) logPacket(packet *Packet) {
	b := s.logBuilder(logiface.LevelDebug, logCatDatafeed)
	if !b.Enabled() {
		b.Release()
		return
	}
	b = b.Str(`packet`, packet.Type.String())
	switch p := packet.Payload.(type) {
	case *LogicPayload:
		b = b.Uint64(`length`, p.Length)
	case *AnalogPayload:
		b = b.Int(`samples`, p.NumSamples)
	case *Analog2Payload:
		b = b.Int(`samples`, p.NumSamples)
	case *MetaPayload:
		b = b.Int(`config_items`, len(p.Config)).
			Str(`config`, renderMetaConfig(p.Config))
	}
	b.Log("bus: received packet")
}
