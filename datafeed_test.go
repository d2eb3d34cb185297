// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package acqsession

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_SendRunsChainThenFanout(t *testing.T) {
	s := newTestSession(t)
	dev := &Device{ConnectionID: "dev1"}

	var sawInTransform, sawInSub1, sawInSub2 []PacketType

	s.AddTransform(TransformFunc(func(dev *Device, in *Packet) (*Packet, error) {
		sawInTransform = append(sawInTransform, in.Type)
		return in, nil
	}))
	s.AddSubscriber(func(dev *Device, p *Packet) {
		sawInSub1 = append(sawInSub1, p.Type)
	})
	s.AddSubscriber(func(dev *Device, p *Packet) {
		sawInSub2 = append(sawInSub2, p.Type)
	})

	require.NoError(t, s.Send(dev, &Packet{Type: PacketHeader}))

	assert.Equal(t, []PacketType{PacketHeader}, sawInTransform)
	assert.Equal(t, []PacketType{PacketHeader}, sawInSub1)
	assert.Equal(t, []PacketType{PacketHeader}, sawInSub2)
}

func TestSession_SendDropsPacketWhenTransformReturnsNil(t *testing.T) {
	s := newTestSession(t)
	dev := &Device{ConnectionID: "dev1"}

	s.AddTransform(TransformFunc(func(*Device, *Packet) (*Packet, error) {
		return nil, nil
	}))
	var fanoutCalled bool
	s.AddSubscriber(func(*Device, *Packet) { fanoutCalled = true })

	require.NoError(t, s.Send(dev, &Packet{Type: PacketEnd}))
	assert.False(t, fanoutCalled)
}

func TestSession_SendPropagatesTransformError(t *testing.T) {
	s := newTestSession(t)
	dev := &Device{ConnectionID: "dev1"}

	s.AddTransform(TransformFunc(func(*Device, *Packet) (*Packet, error) {
		return nil, assert.AnError
	}))

	err := s.Send(dev, &Packet{Type: PacketEnd})
	require.Error(t, err)
}

func TestSession_SendChainsMultipleTransformsInOrder(t *testing.T) {
	s := newTestSession(t)
	dev := &Device{ConnectionID: "dev1"}

	var order []string
	s.AddTransform(TransformFunc(func(_ *Device, in *Packet) (*Packet, error) {
		order = append(order, "first")
		return &Packet{Type: PacketMeta, Payload: &MetaPayload{}}, nil
	}))
	s.AddTransform(TransformFunc(func(_ *Device, in *Packet) (*Packet, error) {
		order = append(order, "second")
		assert.Equal(t, PacketMeta, in.Type)
		return in, nil
	}))

	var received PacketType
	s.AddSubscriber(func(_ *Device, p *Packet) { received = p.Type })

	require.NoError(t, s.Send(dev, &Packet{Type: PacketLogic}))
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, PacketMeta, received)
}

func TestSession_SendRejectsNilArgs(t *testing.T) {
	s := newTestSession(t)
	require.Error(t, s.Send(nil, &Packet{}))
	require.Error(t, s.Send(&Device{}, nil))
}
