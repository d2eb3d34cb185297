// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package acqsession

// Channel is one acquisition channel belonging to a Device: a single
// logic line or analog input, individually enabled or disabled before a
// session starts.
type Channel struct {
	Name    string
	Index   int
	Enabled bool
}

// Driver is the capability a Device must support to participate in
// acquisition. Open is never called by Session itself: opening the
// underlying hardware connection is the caller's responsibility, done
// before AddDevice. StartAcquisition is what Session actually invokes,
// from Start or from AddDevice when adding to an already-running
// session.
type Driver interface {
	Open(dev *Device) error
	StartAcquisition(dev *Device) error
}

// AcquisitionStopper is an optional Driver capability: a driver without
// it simply has nothing to do when the session stops (e.g. a virtual
// device with no hardware to quiesce).
type AcquisitionStopper interface {
	StopAcquisition(dev *Device) error
}

// ConfigCommitter is an optional Driver capability: a driver implements
// it when it has pending configuration that must be pushed to hardware
// before acquisition starts. Devices without pending configuration (or
// virtual devices) need not implement it.
type ConfigCommitter interface {
	CommitConfig(dev *Device) error
}

// Device is one acquisition device instance attached to a Session.
// Driver may be nil to model a virtual device with no backing hardware:
// it is added to the roster and appears in ListDevices, but Start skips
// Open/CommitConfig/StartAcquisition for it.
type Device struct {
	Driver       Driver
	ConnectionID string
	Channels     []*Channel

	session *Session
}

// EnabledChannels reports how many of the device's channels are enabled.
func (d *Device) EnabledChannels() int {
	n := 0
	for _, ch := range d.Channels {
		if ch.Enabled {
			n++
		}
	}
	return n
}

// AddDevice attaches dev to the session. dev must not already belong to
// any session, this one included. If the session is already running, the
// device's configuration is committed and its acquisition started
// immediately; the enabled-channel check that Start makes is not
// repeated here. A failure at either
// step is returned to the caller, but dev stays enrolled on the roster:
// enrollment and the session back-reference are not rolled back on
// failure, so a caller that gets an error back can still find dev via
// ListDevices and retry committing/starting it directly.
func (s *Session) AddDevice(dev *Device) error {
	if dev == nil {
		return newErr("Session.AddDevice", CodeBadArg, nil)
	}
	if dev.session != nil {
		return newErr("Session.AddDevice", CodeBadArg, nil)
	}

	dev.session = s
	s.devices = append(s.devices, dev)

	if s.running && dev.Driver != nil {
		if err := commitDeviceConfig(dev); err != nil {
			return newErr("Session.AddDevice", CodeGeneric, err)
		}
		if err := dev.Driver.StartAcquisition(dev); err != nil {
			return newErr("Session.AddDevice", CodeGeneric, err)
		}
	}

	return nil
}

// RemoveAllDevices detaches every device from the session. The session
// itself is left usable afterward.
func (s *Session) RemoveAllDevices() {
	for _, dev := range s.devices {
		dev.session = nil
	}
	s.devices = nil
}

// ListDevices returns a shallow copy of the session's current device
// roster, safe for the caller to mutate.
func (s *Session) ListDevices() []*Device {
	out := make([]*Device, len(s.devices))
	copy(out, s.devices)
	return out
}

// AddOwnedDevice attaches dev to the roster and also transfers ownership
// of it to the session: the device's lifetime is now tied to the
// session's (used for devices the session itself instantiated, e.g. from
// a replay file, rather than ones a caller constructed and retains a
// reference to).
func (s *Session) AddOwnedDevice(dev *Device) error {
	if err := s.AddDevice(dev); err != nil {
		return err
	}
	s.ownedDevices = append(s.ownedDevices, dev)
	return nil
}

func commitDeviceConfig(dev *Device) error {
	if committer, ok := dev.Driver.(ConfigCommitter); ok {
		return committer.CommitConfig(dev)
	}
	return nil
}
