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

func TestCopyPacket_TagOnly(t *testing.T) {
	for _, typ := range []PacketType{PacketEnd, PacketTrigger, PacketFrameBegin, PacketFrameEnd} {
		cp, err := CopyPacket(&Packet{Type: typ})
		require.NoError(t, err)
		assert.Equal(t, typ, cp.Type)
		assert.Nil(t, cp.Payload)
	}
}

func TestCopyPacket_Header(t *testing.T) {
	orig := &Packet{Type: PacketHeader, Payload: &HeaderPayload{}}
	cp, err := CopyPacket(orig)
	require.NoError(t, err)
	origPayload := orig.Payload.(*HeaderPayload)
	cpPayload := cp.Payload.(*HeaderPayload)
	assert.NotSame(t, origPayload, cpPayload)
}

func TestCopyPacket_MetaRoundTripsRefcounts(t *testing.T) {
	v1 := NewVariant("sample_rate")
	v2 := NewVariant(int64(1000000))
	orig := &Packet{Type: PacketMeta, Payload: &MetaPayload{
		Config: []ConfigItem{
			{Key: 1, Data: v1},
			{Key: 2, Data: v2},
		},
	}}

	require.EqualValues(t, 1, v1.RefCount())
	require.EqualValues(t, 1, v2.RefCount())

	cp, err := CopyPacket(orig)
	require.NoError(t, err)
	assert.EqualValues(t, 2, v1.RefCount())
	assert.EqualValues(t, 2, v2.RefCount())

	// The copy must be an independent slice, not an alias of the original.
	cpMeta := cp.Payload.(*MetaPayload)
	origMeta := orig.Payload.(*MetaPayload)
	require.Len(t, cpMeta.Config, len(origMeta.Config))
	assert.NotSame(t, &cpMeta.Config[0], &origMeta.Config[0])

	FreePacket(cp)
	assert.EqualValues(t, 1, v1.RefCount())
	assert.EqualValues(t, 1, v2.RefCount())
}

func TestCopyPacket_Logic(t *testing.T) {
	orig := &Packet{Type: PacketLogic, Payload: &LogicPayload{
		Length:   4,
		UnitSize: 2,
		Data:     []byte{1, 2, 3, 4, 5, 6, 7, 8},
	}}
	cp, err := CopyPacket(orig)
	require.NoError(t, err)
	cpPayload := cp.Payload.(*LogicPayload)
	assert.Len(t, cpPayload.Data, 8)
	assert.Equal(t, orig.Payload.(*LogicPayload).Data, cpPayload.Data)

	// Mutating the copy must not affect the original.
	cpPayload.Data[0] = 99
	assert.NotEqual(t, cpPayload.Data[0], orig.Payload.(*LogicPayload).Data[0])
}

func TestCopyPacket_Analog(t *testing.T) {
	ch := &Channel{Name: "CH1"}
	orig := &Packet{Type: PacketAnalog, Payload: &AnalogPayload{
		Channels:   []*Channel{ch},
		NumSamples: 3,
		Data:       []float32{1.5, 2.5, 3.5},
	}}
	cp, err := CopyPacket(orig)
	require.NoError(t, err)
	cpPayload := cp.Payload.(*AnalogPayload)
	assert.Equal(t, []float32{1.5, 2.5, 3.5}, cpPayload.Data)
	assert.Same(t, ch, cpPayload.Channels[0])
}

func TestCopyPacket_UnknownTag(t *testing.T) {
	_, err := CopyPacket(&Packet{Type: PacketType(200)})
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, CodeBug, e.Code)
}

func TestFreePacket_NilIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { FreePacket(nil) })
}

func TestVariant_RefUnref(t *testing.T) {
	v := NewVariant(42)
	assert.EqualValues(t, 1, v.RefCount())
	v.Ref()
	assert.EqualValues(t, 2, v.RefCount())
	v.Unref()
	assert.EqualValues(t, 1, v.RefCount())
}
