package display

import "github.com/1broseidon/modectl/internal/mode"

// AddResult is the storage collaborator's verdict on an inserted mode.
type AddResult int

const (
	ModeAccepted AddResult = iota
	ModeDuplicate
)

// Store is the device/mode storage collaborator. AddMode de-duplicates on
// insert; on ModeDuplicate the store takes no ownership of the rejected
// mode and the caller must release its handle collection itself.
type Store interface {
	AddDevice(d *Device)
	AddMode(d *Device, m *mode.Mode) AddResult
}

// MemoryStore is the default in-process Store. It appends devices in the
// order they are added and rejects logically-equal duplicate modes.
type MemoryStore struct {
	devices []*Device
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) AddDevice(d *Device) {
	s.devices = append(s.devices, d)
}

func (s *MemoryStore) AddMode(d *Device, m *mode.Mode) AddResult {
	for _, existing := range d.Modes {
		if existing.Equal(m) {
			return ModeDuplicate
		}
	}
	d.Modes = append(d.Modes, m)
	return ModeAccepted
}

// Devices returns the devices in registration order.
func (s *MemoryStore) Devices() []*Device {
	return s.devices
}
