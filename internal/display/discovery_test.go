package display

import (
	"testing"

	"github.com/1broseidon/modectl/internal/driver"
	"github.com/1broseidon/modectl/internal/driver/drivertest"
	"github.com/1broseidon/modectl/internal/mode"
)

const out1 driver.OutputID = 1

func goodMode(id driver.ModeID, w, h int, hz float64) driver.ModeInfo {
	return driver.ModeInfo{
		ID:          id,
		Width:       w,
		Height:      h,
		RefreshRate: hz,
		Depth:       32,
		Flags:       driver.ModeValid | driver.ModeSafe,
	}
}

func outputFixture() driver.OutputInfo {
	return driver.OutputInfo{
		ID:     out1,
		Name:   "HDMI-1",
		Bounds: driver.Rect{Width: 1920, Height: 1080},
	}
}

func TestDiscoverModes_MergesLogicallyEqualDescriptors(t *testing.T) {
	current := goodMode(10, 1920, 1080, 60)
	fake := &drivertest.Fake{
		Current: map[driver.OutputID]driver.ModeInfo{out1: current},
		ModeList: map[driver.OutputID][]driver.ModeInfo{out1: {
			current,
			goodMode(11, 1920, 1080, 60), // same logical mode, separate descriptor
			goodMode(12, 1280, 720, 60),
		}},
	}

	_, modes, err := DiscoverModes(fake, outputFixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(modes) != 2 {
		t.Fatalf("expected 2 logical modes, got %d", len(modes))
	}

	merged := modes[0]
	if merged.Width != 1920 || merged.Height != 1080 || merged.RefreshHz != 60 {
		t.Fatalf("unexpected first mode %s", merged)
	}
	if got := len(merged.Candidates()); got != 2 {
		t.Fatalf("expected 2 candidate handles after merge, got %d", got)
	}
}

func TestDiscoverModes_NoTwoEntriesLogicallyEqual(t *testing.T) {
	current := goodMode(10, 1920, 1080, 60)
	fake := &drivertest.Fake{
		Current: map[driver.OutputID]driver.ModeInfo{out1: current},
		ModeList: map[driver.OutputID][]driver.ModeInfo{out1: {
			current,
			goodMode(11, 1920, 1080, 60),
			goodMode(12, 1920, 1080, 75),
			goodMode(13, 1920, 1080, 75),
			goodMode(14, 1280, 720, 60),
		}},
	}

	_, modes, err := DiscoverModes(fake, outputFixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range modes {
		for j := i + 1; j < len(modes); j++ {
			if modes[i].Equal(modes[j]) {
				t.Fatalf("entries %d and %d are logically equal: %s", i, j, modes[i])
			}
		}
	}
}

func TestDiscoverModes_ValidityFilter(t *testing.T) {
	current := goodMode(10, 1920, 1080, 60)
	flagged := func(id driver.ModeID, flags driver.ModeFlags) driver.ModeInfo {
		info := goodMode(id, 1600, 900, 60)
		info.Flags = flags
		return info
	}
	fake := &drivertest.Fake{
		Current: map[driver.OutputID]driver.ModeInfo{out1: current},
		ModeList: map[driver.OutputID][]driver.ModeInfo{out1: {
			current,
			flagged(11, driver.ModeValid|driver.ModeSafe|driver.ModeNeverShow),
			flagged(12, driver.ModeValid|driver.ModeSafe|driver.ModeNotGraphicsQuality),
			flagged(13, driver.ModeValid), // missing safe
			flagged(14, driver.ModeSafe),  // missing valid
		}},
	}

	_, modes, err := DiscoverModes(fake, outputFixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(modes) != 1 {
		t.Fatalf("expected only the current mode to survive the filter, got %d modes", len(modes))
	}
}

func TestDiscoverModes_CurrentModeBypassesFilter(t *testing.T) {
	// A mode already in use must never be rejected, or the output would
	// have no desktop mode at all.
	current := goodMode(10, 1920, 1080, 60)
	current.Flags = 0 // fails every filter check

	fake := &drivertest.Fake{
		Current: map[driver.OutputID]driver.ModeInfo{out1: current},
		ModeList: map[driver.OutputID][]driver.ModeInfo{out1: {
			current,
			goodMode(11, 1280, 720, 60),
		}},
	}

	desktop, modes, err := DiscoverModes(fake, outputFixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if desktop == nil || desktop.Width != 1920 {
		t.Fatalf("expected desktop mode 1920x1080, got %s", desktop)
	}
	if findEqual(modes, desktop) == nil {
		t.Fatalf("desktop mode missing from discovered list")
	}
}

func TestDiscoverModes_DesktopIncludedWhenBulkEnumerationOmitsIt(t *testing.T) {
	// Platforms are known to omit the active custom mode from bulk
	// queries.
	current := goodMode(10, 2560, 1440, 60)
	fake := &drivertest.Fake{
		Current: map[driver.OutputID]driver.ModeInfo{out1: current},
		ModeList: map[driver.OutputID][]driver.ModeInfo{out1: {
			goodMode(11, 1920, 1080, 60),
		}},
	}

	desktop, modes, err := DiscoverModes(fake, outputFixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if findEqual(modes, desktop) == nil {
		t.Fatalf("desktop mode %s missing from discovered list", desktop)
	}
}

func TestDiscoverModes_UnsupportedEncodingDroppedSilently(t *testing.T) {
	current := goodMode(10, 1920, 1080, 60)
	odd := goodMode(11, 1280, 720, 60)
	odd.Depth = 8

	fake := &drivertest.Fake{
		Current:  map[driver.OutputID]driver.ModeInfo{out1: current},
		ModeList: map[driver.OutputID][]driver.ModeInfo{out1: {current, odd}},
	}

	_, modes, err := DiscoverModes(fake, outputFixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, m := range modes {
		if m.Width == 1280 {
			t.Fatalf("descriptor with unsupported encoding was not dropped")
		}
	}
	// The dropped descriptor must not leak a reference either.
	if n := fake.Refs[11]; n != 0 {
		t.Fatalf("dropped descriptor holds %d references", n)
	}
}

func TestDiscoverModes_RefreshDerivedFromTiming(t *testing.T) {
	// 148.5 MHz dot clock over 2200x1125 total timing is 60 Hz.
	current := driver.ModeInfo{
		ID:       10,
		Width:    1920,
		Height:   1080,
		Depth:    32,
		Flags:    driver.ModeValid | driver.ModeSafe,
		DotClock: 148500000,
		HTotal:   2200,
		VTotal:   1125,
	}
	fake := &drivertest.Fake{
		Current:  map[driver.OutputID]driver.ModeInfo{out1: current},
		ModeList: map[driver.OutputID][]driver.ModeInfo{out1: {current}},
	}

	desktop, _, err := DiscoverModes(fake, outputFixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if desktop.RefreshHz != 60 {
		t.Fatalf("expected 60 Hz from timing, got %d", desktop.RefreshHz)
	}
}

func TestDiscoverModes_UsableDesktopModeRequired(t *testing.T) {
	bad := goodMode(10, 1920, 1080, 60)
	bad.Depth = 8 // unsupported encoding, so no desktop mode can be built

	fake := &drivertest.Fake{
		Current:  map[driver.OutputID]driver.ModeInfo{out1: bad},
		ModeList: map[driver.OutputID][]driver.ModeInfo{out1: {bad}},
	}

	if _, _, err := DiscoverModes(fake, outputFixture()); err == nil {
		t.Fatalf("expected error when desktop mode cannot be built")
	}
}

func TestDiscoverModes_ScenarioTwoDescriptorsOneEntry(t *testing.T) {
	// Two separate native entries for 1920x1080@60 format ARGB8888 must
	// yield one logical mode carrying both handles.
	a := goodMode(20, 1920, 1080, 60)
	b := goodMode(21, 1920, 1080, 60)
	fake := &drivertest.Fake{
		Current:  map[driver.OutputID]driver.ModeInfo{out1: a},
		ModeList: map[driver.OutputID][]driver.ModeInfo{out1: {a, b}},
	}

	_, modes, err := DiscoverModes(fake, outputFixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var matches []*mode.Mode
	for _, m := range modes {
		if m.Width == 1920 && m.Height == 1080 && m.RefreshHz == 60 && m.Format == mode.FormatARGB8888 {
			matches = append(matches, m)
		}
	}
	if len(matches) != 1 {
		t.Fatalf("expected exactly one 1920x1080@60 entry, got %d", len(matches))
	}
	if got := len(matches[0].Candidates()); got != 2 {
		t.Fatalf("expected 2 candidate handles, got %d", got)
	}
}
