// Package display builds and owns the registry of video output devices: it
// drives mode discovery per output, orders devices primary-first, and hands
// the results to the storage collaborator.
package display

import (
	"github.com/1broseidon/modectl/internal/driver"
	"github.com/1broseidon/modectl/internal/mode"
)

// Device represents one physical video output and the modes it supports.
type Device struct {
	ID      driver.OutputID
	Name    string
	Primary bool
	Bounds  driver.Rect

	// DesktopMode is the mode the output runs in under normal operation.
	// Set once during discovery; the restore target at shutdown.
	DesktopMode *mode.Mode

	// CurrentMode tracks the mode the output is presently in. Initially
	// equal to DesktopMode.
	CurrentMode *mode.Mode

	// Modes is the ordered list of supported logical modes, de-duplicated
	// by logical equality.
	Modes []*mode.Mode
}

// FindMode returns the first supported mode matching the requested
// dimensions and refresh rate. A refresh of 0 matches any rate. Returns nil
// when no mode matches.
func (d *Device) FindMode(width, height, refresh int) *mode.Mode {
	for _, m := range d.Modes {
		if m.Width != width || m.Height != height {
			continue
		}
		if refresh != 0 && m.RefreshHz != refresh {
			continue
		}
		return m
	}
	return nil
}

// ReleaseDevices releases every handle collection the devices own: the
// desktop mode plus each entry of the supported-mode list, each exactly
// once.
func ReleaseDevices(devs []*Device) {
	for _, d := range devs {
		if d.DesktopMode != nil {
			d.DesktopMode.ReleaseCandidates()
		}
		for _, m := range d.Modes {
			m.ReleaseCandidates()
		}
	}
}
