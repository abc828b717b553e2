package display

import (
	"errors"
	"testing"

	"github.com/1broseidon/modectl/internal/driver"
	"github.com/1broseidon/modectl/internal/driver/drivertest"
	"github.com/1broseidon/modectl/internal/mode"
)

func twoOutputFake() *drivertest.Fake {
	primary := goodMode(10, 1920, 1080, 60)
	secondary := goodMode(20, 1280, 1024, 75)
	return &drivertest.Fake{
		OutputList: []driver.OutputInfo{
			{ID: 2, Name: "DP-1", Bounds: driver.Rect{X: 1920, Width: 1280, Height: 1024}},
			{ID: 1, Name: "HDMI-1", Primary: true, Bounds: driver.Rect{Width: 1920, Height: 1080}},
		},
		Current: map[driver.OutputID]driver.ModeInfo{
			1: primary,
			2: secondary,
		},
		ModeList: map[driver.OutputID][]driver.ModeInfo{
			1: {primary, goodMode(11, 1280, 720, 60)},
			2: {secondary},
		},
	}
}

func TestRegistryDiscover_PrimaryFirst(t *testing.T) {
	fake := twoOutputFake()
	reg := NewRegistry(fake, NewMemoryStore(), nil)

	devices, err := reg.Discover()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(devices))
	}
	if !devices[0].Primary || devices[0].Name != "HDMI-1" {
		t.Fatalf("expected primary device first, got %q", devices[0].Name)
	}
}

func TestRegistryDiscover_CurrentEqualsDesktopInitially(t *testing.T) {
	fake := twoOutputFake()
	reg := NewRegistry(fake, NewMemoryStore(), nil)

	devices, err := reg.Discover()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, dev := range devices {
		if dev.DesktopMode == nil {
			t.Fatalf("device %q has no desktop mode", dev.Name)
		}
		if dev.CurrentMode != dev.DesktopMode {
			t.Fatalf("device %q: current mode does not equal desktop mode", dev.Name)
		}
		if len(dev.Modes) == 0 {
			t.Fatalf("device %q has no supported modes", dev.Name)
		}
	}
}

func TestRegistryDiscover_SkipsMirroredOutputs(t *testing.T) {
	fake := twoOutputFake()
	fake.OutputList = append(fake.OutputList, driver.OutputInfo{
		ID: 3, Name: "HDMI-2", Mirror: true,
		Bounds: driver.Rect{Width: 1920, Height: 1080},
	})

	reg := NewRegistry(fake, NewMemoryStore(), nil)
	devices, err := reg.Discover()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, dev := range devices {
		if dev.Name == "HDMI-2" {
			t.Fatalf("mirrored output was registered")
		}
	}
}

func TestRegistryDiscover_PerDeviceFailureSkipsDeviceOnly(t *testing.T) {
	fake := twoOutputFake()
	fake.CurrentErr = map[driver.OutputID]error{2: errors.New("output vanished")}

	reg := NewRegistry(fake, NewMemoryStore(), nil)
	devices, err := reg.Discover()
	if err != nil {
		t.Fatalf("expected per-device failure to be non-fatal, got %v", err)
	}
	if len(devices) != 1 || devices[0].Name != "HDMI-1" {
		t.Fatalf("expected only HDMI-1 to survive, got %d devices", len(devices))
	}
}

func TestRegistryDiscover_EnumerationFailureIsFatal(t *testing.T) {
	fake := twoOutputFake()
	fake.OutputsErr = errors.New("connection lost")

	reg := NewRegistry(fake, NewMemoryStore(), nil)
	if _, err := reg.Discover(); err == nil {
		t.Fatalf("expected error when output enumeration fails")
	}
}

// rejectingStore rejects every mode insert as a duplicate.
type rejectingStore struct {
	MemoryStore
}

func (s *rejectingStore) AddMode(d *Device, m *mode.Mode) AddResult {
	return ModeDuplicate
}

func TestRegistryDiscover_ReleasesModesRejectedByStore(t *testing.T) {
	fake := twoOutputFake()
	reg := NewRegistry(fake, &rejectingStore{}, nil)

	devices, err := reg.Discover()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The store refused every list entry, so only the desktop modes may
	// still hold references.
	held := make(map[driver.ModeID]int)
	for id, n := range fake.Refs {
		if n != 0 {
			held[id] = n
		}
	}
	for _, dev := range devices {
		for _, h := range dev.DesktopMode.Candidates() {
			delete(held, h.ID())
		}
	}
	if len(held) != 0 {
		t.Fatalf("rejected duplicates still hold references: %v", held)
	}
}
