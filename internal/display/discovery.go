package display

import (
	"fmt"

	"github.com/1broseidon/modectl/internal/driver"
	"github.com/1broseidon/modectl/internal/mode"
)

// usable applies the validity filter to a mode descriptor: flagged-away
// descriptors are rejected, and both the valid and safe bits must be set.
func usable(info driver.ModeInfo) bool {
	if info.Flags&(driver.ModeNeverShow|driver.ModeNotGraphicsQuality) != 0 {
		return false
	}
	return info.Flags&driver.ModeValid != 0 && info.Flags&driver.ModeSafe != 0
}

// buildMode converts one native descriptor into a logical mode, acquiring a
// handle on the descriptor. isCurrent skips the validity filter: a mode the
// output is already in must never be rejected, or discovery could fail to
// produce a desktop mode at all. Unsupported pixel encodings drop the
// descriptor silently in either case.
func buildMode(drv driver.Driver, info driver.ModeInfo, isCurrent bool) (*mode.Mode, bool) {
	if !isCurrent && !usable(info) {
		return nil, false
	}
	format, ok := mode.FormatForDepth(info.Depth)
	if !ok {
		return nil, false
	}
	refresh := mode.ResolveRefreshRate(info.RefreshRate, info.Timing())

	h := mode.AcquireHandle(drv, info)
	m, err := mode.New(info.Width, info.Height, refresh, format, h)
	if err != nil {
		h.Release()
		return nil, false
	}
	return m, true
}

// DiscoverModes produces the output's desktop mode and its de-duplicated
// supported-mode list. Descriptors mapping to the same logical mode merge
// their handles into one entry; the desktop mode is guaranteed to appear in
// the list even when the bulk enumeration omits the active descriptor, as
// platforms are known to do for custom modes.
func DiscoverModes(drv driver.Driver, out driver.OutputInfo) (desktop *mode.Mode, modes []*mode.Mode, err error) {
	current, err := drv.CurrentMode(out.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("query current mode of %q: %w", out.Name, err)
	}

	desktop, ok := buildMode(drv, current, true)
	if !ok {
		return nil, nil, fmt.Errorf("output %q has no usable desktop mode", out.Name)
	}

	infos, err := drv.Modes(out.ID)
	if err != nil {
		desktop.ReleaseCandidates()
		return nil, nil, fmt.Errorf("enumerate modes of %q: %w", out.Name, err)
	}

	for _, info := range infos {
		cand, ok := buildMode(drv, info, info.ID == current.ID)
		if !ok {
			continue
		}
		if existing := findEqual(modes, cand); existing != nil {
			existing.Adopt(cand)
			continue
		}
		modes = append(modes, cand)
	}

	if findEqual(modes, desktop) == nil {
		if entry, ok := buildMode(drv, current, true); ok {
			modes = append(modes, entry)
		}
	}

	return desktop, modes, nil
}

func findEqual(modes []*mode.Mode, m *mode.Mode) *mode.Mode {
	for _, existing := range modes {
		if existing.Equal(m) {
			return existing
		}
	}
	return nil
}
