// Package switcher performs safe, recoverable display-mode transitions. A
// switch attempt walks an explicit state machine
//
//	Idle → FadeOut → (Captured | SkipCapture) → ModeApplied → FadeIn → Idle
//
// with failure exits CaptureFailed → Idle and ApplyFailed → ReleaseCapture →
// Idle. Every failure transition releases exactly the resources acquired in
// the prior states of that attempt, so a failed switch never leaves a device
// captured or its mode half-changed.
package switcher

import (
	"errors"
	"log/slog"

	"github.com/1broseidon/modectl/internal/display"
	"github.com/1broseidon/modectl/internal/driver"
	"github.com/1broseidon/modectl/internal/mode"
)

type state int

const (
	stateIdle state = iota
	stateFadeOut
	stateCaptured
	stateSkipCapture
	stateModeApplied
	stateFadeIn
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateFadeOut:
		return "fade-out"
	case stateCaptured:
		return "captured"
	case stateSkipCapture:
		return "skip-capture"
	case stateModeApplied:
		return "mode-applied"
	case stateFadeIn:
		return "fade-in"
	}
	return "unknown"
}

// Engine switches devices between their desktop mode and requested modes.
// Not safe for concurrent use; discovery and switching run on the thread
// owning the display subsystem.
type Engine struct {
	drv    driver.Driver
	chrome Chrome
	fader  Fader
	log    *slog.Logger

	chromeSuppressed bool
}

func New(drv driver.Driver, chrome Chrome, fader Fader, log *slog.Logger) *Engine {
	if chrome == nil {
		chrome = NopChrome{}
	}
	if fader == nil {
		fader = NopFader{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{drv: drv, chrome: chrome, fader: fader, log: log}
}

func (e *Engine) enter(s state, dev *display.Device) {
	e.log.Debug("switch state", "state", s.String(), "device", dev.Name)
}

// Switch transitions the device to the target mode. A request for the
// device's desktop mode is a restore: it skips capture, applies the mode,
// then releases any held capture and restores suppressed chrome. Any other
// mode is a capture switch: the device (all devices when it is the primary)
// is captured exclusively for the duration so the window manager cannot
// rearrange windows mid-transition.
//
// On failure the device is left exactly as it was before the call and the
// returned error is a *CaptureError or *ApplyError.
func (e *Engine) Switch(dev *display.Device, target *mode.Mode) error {
	restore := target.Equal(dev.DesktopMode)

	e.enter(stateFadeOut, dev)
	tok, haveFade := e.fader.Reserve()
	if haveFade {
		e.fader.FadeOut(tok)
	}

	captured := false
	if restore {
		e.enter(stateSkipCapture, dev)
	} else {
		if err := e.drv.Capture(dev.Primary); err != nil {
			// Nothing acquired beyond the fade reservation; give
			// it back and report with no device state touched.
			if haveFade {
				e.fader.FadeIn(tok)
			}
			e.enter(stateIdle, dev)
			return &CaptureError{Op: "capture display", Device: dev.Name, Err: err}
		}
		captured = true
		e.enter(stateCaptured, dev)
	}

	applied, applyErr := e.applyCandidates(dev, target)
	if applied == nil {
		if captured {
			e.drv.Release(dev.Primary)
		}
		if haveFade {
			e.fader.FadeIn(tok)
		}
		e.enter(stateIdle, dev)
		return &ApplyError{Op: "apply display mode", Device: dev.Name, Mode: target.String(), Err: applyErr}
	}
	target.Promote(applied)
	dev.CurrentMode = target
	e.enter(stateModeApplied, dev)

	if restore {
		e.drv.Release(dev.Primary)
		if dev.Primary {
			e.restoreChrome()
		}
	} else if dev.Primary {
		e.suppressChrome()
	}

	e.enter(stateFadeIn, dev)
	if haveFade {
		e.fader.FadeIn(tok)
	}
	e.enter(stateIdle, dev)
	return nil
}

// applyCandidates tries each candidate descriptor in order until one
// applies. Candidates are alternates for the same logical mode, not retries
// of one operation.
func (e *Engine) applyCandidates(dev *display.Device, target *mode.Mode) (*mode.NativeHandle, error) {
	var lastErr error
	for _, h := range target.Candidates() {
		if err := e.drv.ApplyMode(dev.ID, h.ID()); err != nil {
			e.log.Debug("candidate descriptor rejected",
				"device", dev.Name, "mode", target.String(), "error", err)
			lastErr = err
			continue
		}
		return h, nil
	}
	if lastErr == nil {
		lastErr = errors.New("mode has no candidate descriptors")
	}
	return nil, lastErr
}

// RestoreDesktop returns the device to its desktop mode via the full switch
// protocol.
func (e *Engine) RestoreDesktop(dev *display.Device) error {
	return e.Switch(dev, dev.DesktopMode)
}

// Shutdown restores every device whose current mode differs from its
// desktop mode, releases all owned handle collections, and restores chrome
// globally regardless of per-device restore outcomes.
func (e *Engine) Shutdown(devs []*display.Device) {
	for _, dev := range devs {
		if dev.CurrentMode != nil && !dev.CurrentMode.Equal(dev.DesktopMode) {
			if err := e.RestoreDesktop(dev); err != nil {
				e.log.Warn("desktop restore failed", "device", dev.Name, "error", err)
			}
		}
	}
	display.ReleaseDevices(devs)
	e.chrome.Restore()
	e.chromeSuppressed = false
}

func (e *Engine) suppressChrome() {
	if e.chromeSuppressed {
		return
	}
	e.chromeSuppressed = true
	e.chrome.Suppress()
}

func (e *Engine) restoreChrome() {
	if !e.chromeSuppressed {
		return
	}
	e.chromeSuppressed = false
	e.chrome.Restore()
}
