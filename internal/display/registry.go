package display

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/modectl/internal/driver"
)

// Registry discovers video output devices and populates the storage
// collaborator with them and their supported modes.
type Registry struct {
	drv   driver.Driver
	store Store
	log   *slog.Logger
}

func NewRegistry(drv driver.Driver, store Store, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{drv: drv, store: store, log: log}
}

// Discover enumerates online outputs and returns the registered devices,
// primary device first. Outputs mirroring another output are skipped: they
// are not independently addressable and would register the same display
// twice. A per-output failure to build the desktop mode skips that output
// only; a failed enumeration aborts discovery as a whole.
func (r *Registry) Discover() ([]*Device, error) {
	outs, err := r.drv.Outputs()
	if err != nil {
		return nil, fmt.Errorf("enumerate outputs: %w", err)
	}

	// Two passes: the primary output first, then the rest.
	ordered := make([]driver.OutputInfo, 0, len(outs))
	for _, out := range outs {
		if out.Primary {
			ordered = append(ordered, out)
		}
	}
	for _, out := range outs {
		if !out.Primary {
			ordered = append(ordered, out)
		}
	}

	var devices []*Device
	for _, out := range ordered {
		if out.Mirror {
			r.log.Debug("skipping mirrored output", "output", out.Name)
			continue
		}

		desktop, modes, err := DiscoverModes(r.drv, out)
		if err != nil {
			// Without a known-good fallback mode the device cannot
			// be switched safely, so it is not registered.
			r.log.Warn("skipping output", "output", out.Name, "error", err)
			continue
		}

		dev := &Device{
			ID:          out.ID,
			Name:        out.Name,
			Primary:     out.Primary,
			Bounds:      out.Bounds,
			DesktopMode: desktop,
			CurrentMode: desktop,
		}
		r.store.AddDevice(dev)
		for _, m := range modes {
			if r.store.AddMode(dev, m) == ModeDuplicate {
				// The store refuses ownership of a rejected
				// duplicate; the handles are ours to release.
				m.ReleaseCandidates()
			}
		}
		r.log.Info("registered output",
			"output", dev.Name,
			"primary", dev.Primary,
			"desktop", dev.DesktopMode.String(),
			"modes", len(dev.Modes))
		devices = append(devices, dev)
	}

	return devices, nil
}
