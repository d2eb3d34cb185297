// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package acqsession

import (
	"fmt"
	"sync/atomic"
	"time"
)

// PacketType tags a Packet's payload.
type PacketType uint8

const (
	PacketHeader PacketType = iota
	PacketEnd
	PacketTrigger
	PacketMeta
	PacketFrameBegin
	PacketFrameEnd
	PacketLogic
	PacketAnalog
	PacketAnalog2
)

// String names the tag, for logging.
func (t PacketType) String() string {
	switch t {
	case PacketHeader:
		return "header"
	case PacketEnd:
		return "end"
	case PacketTrigger:
		return "trigger"
	case PacketMeta:
		return "meta"
	case PacketFrameBegin:
		return "frame_begin"
	case PacketFrameEnd:
		return "frame_end"
	case PacketLogic:
		return "logic"
	case PacketAnalog:
		return "analog"
	case PacketAnalog2:
		return "analog2"
	default:
		return fmt.Sprintf("packet(%d)", int(t))
	}
}

// Packet is the tagged variant datafeed producers emit. Payload holds the
// tag-specific struct (a *HeaderPayload for Header), or nil for
// End/Trigger/FrameBegin/FrameEnd, which carry no payload.
type Packet struct {
	Type    PacketType
	Payload any
}

// HeaderPayload is the fixed-size payload of a Header packet.
type HeaderPayload struct {
	StartTime time.Time
}

// Variant is reference-counted payload data, used for Meta config entries.
// Go's garbage collector makes manual release unnecessary for memory
// safety, but the session still models the refcount explicitly so that
// copying a packet and then freeing it obeys a round-trip law: refcounts
// return to their pre-copy values, which only makes sense if the count
// is real and observable.
type Variant struct {
	Value any
	refs  int32
}

// NewVariant creates a Variant with an initial reference count of 1.
func NewVariant(value any) *Variant {
	return &Variant{Value: value, refs: 1}
}

// Ref increments the reference count and returns the same Variant, for
// chaining.
func (v *Variant) Ref() *Variant {
	atomic.AddInt32(&v.refs, 1)
	return v
}

// Unref decrements the reference count. It is a programmer error to call
// Unref more times than Ref (including the initial reference from
// NewVariant); this is a double-free and this package does not guard
// against it.
func (v *Variant) Unref() {
	atomic.AddInt32(&v.refs, -1)
}

// RefCount returns the current reference count, for tests asserting the
// copy/free round-trip law.
func (v *Variant) RefCount() int32 {
	return atomic.LoadInt32(&v.refs)
}

// ConfigKey names a device configuration key within a Meta packet.
type ConfigKey int

// ConfigItem is one key/value pair within a Meta packet's config list.
type ConfigItem struct {
	Key  ConfigKey
	Data *Variant
}

// MetaPayload is a Meta packet's payload: a list of config key/value pairs.
type MetaPayload struct {
	Config []ConfigItem
}

// LogicPayload is a Logic packet's payload.
type LogicPayload struct {
	Length   uint64
	UnitSize int
	Data     []byte
}

// Quantity and Unit describe what an analog sample buffer measures;
// MQFlags are measurement qualifiers (e.g. AC/DC, min/max/hold).
type (
	Quantity int
	Unit     int
	MQFlags  uint64
)

// AnalogPayload is an Analog packet's payload.
type AnalogPayload struct {
	Channels   []*Channel
	NumSamples int
	MQ         Quantity
	Unit       Unit
	MQFlags    MQFlags
	Data       []float32
}

// Analog2Payload is an Analog2 packet's payload: analog data with richer
// metadata than the plain Analog tag, modeled here as the same
// measurement fields as AnalogPayload plus a digits/resolution pair.
type Analog2Payload struct {
	Channels    []*Channel
	NumSamples  int
	MQ          Quantity
	Unit        Unit
	MQFlags     MQFlags
	Digits      int // significant digits in the measurement
	SpecDigits  int // significant digits the hardware is specified to deliver
	Data        []float32
}

// CopyPacket produces an independent deep copy of packet. Unrecognized
// tags fail with CodeBug.
func CopyPacket(packet *Packet) (*Packet, error) {
	if packet == nil {
		return nil, newErr("CopyPacket", CodeBadArg, nil)
	}

	switch packet.Type {
	case PacketTrigger, PacketEnd, PacketFrameBegin, PacketFrameEnd:
		return &Packet{Type: packet.Type}, nil

	case PacketHeader:
		h, ok := packet.Payload.(*HeaderPayload)
		if !ok {
			return nil, newErr("CopyPacket", CodeBug, nil)
		}
		cp := *h // byte-copy of the fixed header struct
		return &Packet{Type: packet.Type, Payload: &cp}, nil

	case PacketMeta:
		m, ok := packet.Payload.(*MetaPayload)
		if !ok {
			return nil, newErr("CopyPacket", CodeBug, nil)
		}
		// Built by filling a freshly allocated local slice and assigning
		// it once, rather than appending to shared state through a
		// callback closure, which would risk losing entries if the backing
		// array were reallocated mid-append without the result being
		// written back.
		cfg := make([]ConfigItem, len(m.Config))
		for i, item := range m.Config {
			cfg[i] = ConfigItem{Key: item.Key, Data: item.Data.Ref()}
		}
		return &Packet{Type: packet.Type, Payload: &MetaPayload{Config: cfg}}, nil

	case PacketLogic:
		l, ok := packet.Payload.(*LogicPayload)
		if !ok {
			return nil, newErr("CopyPacket", CodeBug, nil)
		}
		// The original sized the allocation with sizeof(logic), i.e. the
		// size of a pointer, not of the payload struct. Allocating a Go
		// slice of the actual byte length sidesteps the bug outright.
		data := make([]byte, l.Length*uint64(l.UnitSize))
		copy(data, l.Data)
		return &Packet{Type: packet.Type, Payload: &LogicPayload{
			Length:   l.Length,
			UnitSize: l.UnitSize,
			Data:     data,
		}}, nil

	case PacketAnalog:
		a, ok := packet.Payload.(*AnalogPayload)
		if !ok {
			return nil, newErr("CopyPacket", CodeBug, nil)
		}
		channels := make([]*Channel, len(a.Channels))
		copy(channels, a.Channels) // channel references are shared, not deep-copied
		data := make([]float32, a.NumSamples)
		copy(data, a.Data)
		return &Packet{Type: packet.Type, Payload: &AnalogPayload{
			Channels:   channels,
			NumSamples: a.NumSamples,
			MQ:         a.MQ,
			Unit:       a.Unit,
			MQFlags:    a.MQFlags,
			Data:       data,
		}}, nil

	case PacketAnalog2:
		a, ok := packet.Payload.(*Analog2Payload)
		if !ok {
			return nil, newErr("CopyPacket", CodeBug, nil)
		}
		channels := make([]*Channel, len(a.Channels))
		copy(channels, a.Channels)
		data := make([]float32, a.NumSamples)
		copy(data, a.Data)
		return &Packet{Type: packet.Type, Payload: &Analog2Payload{
			Channels:   channels,
			NumSamples: a.NumSamples,
			MQ:         a.MQ,
			Unit:       a.Unit,
			MQFlags:    a.MQFlags,
			Digits:     a.Digits,
			SpecDigits: a.SpecDigits,
			Data:       data,
		}}, nil

	default:
		return nil, newErr("CopyPacket", CodeBug, nil)
	}
}

// FreePacket releases packet's payload: for Meta packets, that means
// decrementing each config entry's variant refcount. Go's allocator
// reclaims the rest automatically, so there is nothing else to release;
// this still matters because FreePacket is the other half of CopyPacket's
// round-trip law (copy then free must return refcounts to their pre-copy
// values). FreePacket is not idempotent: calling it twice on the same
// Meta packet over-decrements the contained Variants, a double-free.
func FreePacket(packet *Packet) {
	if packet == nil {
		return
	}
	if packet.Type == PacketMeta {
		if m, ok := packet.Payload.(*MetaPayload); ok {
			for _, item := range m.Config {
				item.Data.Unref()
			}
		}
	}
}
