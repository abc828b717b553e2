package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/modectl/internal/config"
	"github.com/1broseidon/modectl/internal/display"
	"github.com/1broseidon/modectl/internal/mode"
	"github.com/1broseidon/modectl/internal/switcher"
	"github.com/1broseidon/modectl/internal/x11"
)

// app wires the X11 driver, device registry, and switch engine together for
// the lifetime of one command.
type app struct {
	conn    *x11.Connection
	engine  *switcher.Engine
	devices []*display.Device
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}

	drv := x11.NewDriver(conn, logger)
	store := display.NewMemoryStore()
	registry := display.NewRegistry(drv, store, logger)

	devices, err := registry.Discover()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if len(devices) == 0 {
		conn.Close()
		return nil, fmt.Errorf("no usable video outputs found")
	}

	var fader switcher.Fader = switcher.NopFader{}
	if cfg.Fade.Enabled {
		duration := time.Duration(cfg.Fade.DurationMS) * time.Millisecond
		fader = x11.NewGammaFader(drv, cfg.Fade.Steps, duration, logger)
	}
	chrome := x11.NewDockChrome(conn, logger)

	return &app{
		conn:    conn,
		engine:  switcher.New(drv, chrome, fader, logger),
		devices: devices,
	}, nil
}

// Devices implements mcp.Service.
func (a *app) Devices() []*display.Device {
	return a.devices
}

// Switch implements mcp.Service.
func (a *app) Switch(dev *display.Device, m *mode.Mode) error {
	return a.engine.Switch(dev, m)
}

// RestoreDesktop implements mcp.Service.
func (a *app) RestoreDesktop(dev *display.Device) error {
	return a.engine.RestoreDesktop(dev)
}

func (a *app) findDevice(name string) (*display.Device, error) {
	names := make([]string, 0, len(a.devices))
	for _, dev := range a.devices {
		if dev.Name == name {
			return dev, nil
		}
		names = append(names, dev.Name)
	}
	return nil, fmt.Errorf("unknown output %q; available: %v", name, names)
}

// close tears the app down. With restoreDesktop, every device is restored to
// its desktop mode through the full shutdown protocol; otherwise the applied
// modes are left in place and only the owned handle collections are
// released.
func (a *app) close(restoreDesktop bool) {
	if restoreDesktop {
		a.engine.Shutdown(a.devices)
	} else {
		display.ReleaseDevices(a.devices)
	}
	a.conn.Close()
}

// resolveModeSpec decides which mode a `set` invocation asks for: the
// explicit argument wins, then the configured preferred mode for the
// output.
func resolveModeSpec(cfg *config.Config, output, arg string) (width, height, refresh int, err error) {
	if arg != "" {
		return mode.ParseSpec(arg)
	}
	if width, height, refresh, ok := cfg.PreferredMode(output); ok {
		return width, height, refresh, nil
	}
	return 0, 0, 0, fmt.Errorf("no mode given and no preferred mode configured for output %q", output)
}
