// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package acqsession

import "github.com/joeycumines/logiface"

// Start validates and starts acquisition on every device in the roster:
// a trigger, if one is set, must validate; every device must have at
// least one enabled channel; configuration is committed and acquisition
// started device by device, halting at the first failure. Virtual
// devices (Driver == nil) are skipped entirely, since there is nothing
// to open or commit.
func (s *Session) Start() error {
	if len(s.devices) == 0 {
		return newErr("Session.Start", CodeBadArg, nil)
	}

	if s.trigger != nil {
		if err := validateTrigger(s, s.trigger); err != nil {
			return err
		}
	}

	s.logBuilder(logiface.LevelInformational, logCatDevice).Log("starting")

	for _, dev := range s.devices {
		if dev.Driver == nil {
			continue
		}
		if dev.EnabledChannels() == 0 {
			return newErr("Session.Start", CodeGeneric, nil)
		}
		if err := commitDeviceConfig(dev); err != nil {
			s.logBuilder(logiface.LevelError, logCatDevice).
				Str(`connection`, dev.ConnectionID).
				Err(err).
				Log("commit config failed")
			return newErr("Session.Start", CodeGeneric, err)
		}
		if err := dev.Driver.StartAcquisition(dev); err != nil {
			s.logBuilder(logiface.LevelError, logCatDevice).
				Str(`connection`, dev.ConnectionID).
				Err(err).
				Log("start acquisition failed")
			return newErr("Session.Start", CodeGeneric, err)
		}
	}

	return nil
}
