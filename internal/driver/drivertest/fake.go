// Package drivertest provides a configurable in-memory Driver for testing
// discovery and switching without a display server.
package drivertest

import (
	"errors"
	"fmt"

	"github.com/1broseidon/modectl/internal/driver"
)

// Fake implements driver.Driver against fixture data. The zero value is
// usable; populate the exported fields before handing it to code under test.
type Fake struct {
	OutputList []driver.OutputInfo
	Current    map[driver.OutputID]driver.ModeInfo
	ModeList   map[driver.OutputID][]driver.ModeInfo

	// Failure injection.
	OutputsErr error
	CurrentErr map[driver.OutputID]error
	ApplyErr   map[driver.ModeID]error
	CaptureErr error

	// Recorded behavior.
	Refs          map[driver.ModeID]int
	ApplyAttempts []driver.ModeID
	Captured      bool
	CaptureCalls  int
	ReleaseCalls  int
	CaptureAll    []bool
}

var _ driver.Driver = (*Fake)(nil)

func (f *Fake) Outputs() ([]driver.OutputInfo, error) {
	if f.OutputsErr != nil {
		return nil, f.OutputsErr
	}
	return f.OutputList, nil
}

func (f *Fake) CurrentMode(out driver.OutputID) (driver.ModeInfo, error) {
	if err := f.CurrentErr[out]; err != nil {
		return driver.ModeInfo{}, err
	}
	info, ok := f.Current[out]
	if !ok {
		return driver.ModeInfo{}, fmt.Errorf("no current mode for output %d", out)
	}
	return info, nil
}

func (f *Fake) Modes(out driver.OutputID) ([]driver.ModeInfo, error) {
	return f.ModeList[out], nil
}

func (f *Fake) RetainMode(id driver.ModeID) {
	if f.Refs == nil {
		f.Refs = make(map[driver.ModeID]int)
	}
	f.Refs[id]++
}

func (f *Fake) ReleaseMode(id driver.ModeID) {
	if f.Refs == nil {
		f.Refs = make(map[driver.ModeID]int)
	}
	f.Refs[id]--
}

func (f *Fake) ApplyMode(out driver.OutputID, id driver.ModeID) error {
	f.ApplyAttempts = append(f.ApplyAttempts, id)
	if err := f.ApplyErr[id]; err != nil {
		return err
	}
	for _, info := range f.ModeList[out] {
		if info.ID == id {
			if f.Current == nil {
				f.Current = make(map[driver.OutputID]driver.ModeInfo)
			}
			f.Current[out] = info
			break
		}
	}
	return nil
}

func (f *Fake) Capture(all bool) error {
	f.CaptureCalls++
	f.CaptureAll = append(f.CaptureAll, all)
	if f.CaptureErr != nil {
		return f.CaptureErr
	}
	if f.Captured {
		return errors.New("already captured")
	}
	f.Captured = true
	return nil
}

func (f *Fake) Release(all bool) {
	f.ReleaseCalls++
	f.Captured = false
}

// LeakedRefs returns the descriptor IDs whose reference count is not zero.
func (f *Fake) LeakedRefs() []driver.ModeID {
	var leaked []driver.ModeID
	for id, n := range f.Refs {
		if n != 0 {
			leaked = append(leaked, id)
		}
	}
	return leaked
}
