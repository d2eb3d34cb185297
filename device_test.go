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

func TestSession_AddDeviceRejectsAlreadyAttached(t *testing.T) {
	s1 := newTestSession(t)
	s2 := newTestSession(t)
	dev, _ := newTestDevice()

	require.NoError(t, s1.AddDevice(dev))
	err := s2.AddDevice(dev)
	require.Error(t, err)
}

func TestSession_AddDeviceAcceptsVirtualDevice(t *testing.T) {
	s := newTestSession(t)
	dev := &Device{ConnectionID: "virtual"}
	require.NoError(t, s.AddDevice(dev))
	assert.Len(t, s.ListDevices(), 1)
}

func TestSession_RemoveAllDevicesClearsBackReference(t *testing.T) {
	s := newTestSession(t)
	dev, _ := newTestDevice()
	require.NoError(t, s.AddDevice(dev))

	s.RemoveAllDevices()
	assert.Empty(t, s.ListDevices())

	// Device must now be re-attachable to another session.
	s2 := newTestSession(t)
	require.NoError(t, s2.AddDevice(dev))
}

func TestSession_ListDevicesReturnsIndependentSlice(t *testing.T) {
	s := newTestSession(t)
	dev, _ := newTestDevice()
	require.NoError(t, s.AddDevice(dev))

	list := s.ListDevices()
	list[0] = nil
	assert.NotNil(t, s.ListDevices()[0])
}

func TestSession_AddOwnedDeviceTracksOwnership(t *testing.T) {
	s := newTestSession(t)
	dev, _ := newTestDevice()
	require.NoError(t, s.AddOwnedDevice(dev))
	assert.Contains(t, s.ownedDevices, dev)
}

type configFailDriver struct {
	stubDriver
	commitErr error
}

func (d *configFailDriver) CommitConfig(*Device) error { return d.commitErr }

func TestSession_AddDeviceWhileRunningLeavesDeviceEnrolledOnCommitFailure(t *testing.T) {
	s := newTestSession(t)
	s.running = true

	drv := &configFailDriver{commitErr: assert.AnError}
	dev := &Device{Driver: drv, ConnectionID: "test", Channels: []*Channel{{Name: "CH1", Enabled: true}}}

	err := s.AddDevice(dev)
	require.Error(t, err)
	assert.EqualValues(t, 0, drv.started, "StartAcquisition must not run after a commit failure")
	assert.Contains(t, s.ListDevices(), dev, "device must stay enrolled on the roster despite the failure")
	assert.NotNil(t, dev.session, "session back-reference must not be rolled back")
}

func TestSession_AddDeviceWhileRunningLeavesDeviceEnrolledOnStartFailure(t *testing.T) {
	s := newTestSession(t)
	s.running = true

	dev, drv := newTestDevice()
	drv.startAcquisitionFn = func(*Device) error { return assert.AnError }

	err := s.AddDevice(dev)
	require.Error(t, err)
	assert.Contains(t, s.ListDevices(), dev, "device must stay enrolled on the roster despite the failure")
	assert.NotNil(t, dev.session, "session back-reference must not be rolled back")
}

func TestDevice_EnabledChannels(t *testing.T) {
	dev := &Device{Channels: []*Channel{
		{Name: "a", Enabled: true},
		{Name: "b", Enabled: false},
		{Name: "c", Enabled: true},
	}}
	assert.Equal(t, 2, dev.EnabledChannels())
}
