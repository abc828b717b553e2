// Package mode models hardware-independent display modes and their native
// descriptor candidates. A logical mode is the (width, height, refresh,
// format) tuple applications reason about; the platform may expose several
// native descriptors for the same tuple, and not all of them apply cleanly,
// so each Mode keeps an ordered candidate list with the most recently
// successful descriptor in front.
package mode

import (
	"errors"
	"fmt"

	"github.com/1broseidon/modectl/internal/driver"
)

// Mode is one hardware-independent display mode together with the native
// descriptors that realize it.
type Mode struct {
	Width  int
	Height int

	// RefreshHz is the rounded refresh rate. 0 means unknown.
	RefreshHz int

	Format PixelFormat

	handles  []*NativeHandle
	released bool
}

// New builds a logical mode owning h as its first candidate. The handle is
// not released on error; that stays with the caller.
func New(width, height, refresh int, format PixelFormat, h *NativeHandle) (*Mode, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("degenerate mode dimensions %dx%d", width, height)
	}
	if refresh < 0 {
		return nil, fmt.Errorf("negative refresh rate %d", refresh)
	}
	if format == FormatUnknown {
		return nil, errors.New("unsupported pixel format")
	}
	if h == nil {
		return nil, errors.New("mode requires a native descriptor handle")
	}
	return &Mode{
		Width:     width,
		Height:    height,
		RefreshHz: refresh,
		Format:    format,
		handles:   []*NativeHandle{h},
	}, nil
}

// Equal reports whether two logical modes describe the same tuple. Candidate
// handles do not participate in equality.
func (m *Mode) Equal(o *Mode) bool {
	if m == nil || o == nil {
		return m == o
	}
	return m.Width == o.Width &&
		m.Height == o.Height &&
		m.RefreshHz == o.RefreshHz &&
		m.Format == o.Format
}

// Candidates returns the ordered candidate handles. The slice is owned by
// the mode; callers must not retain it across mutations.
func (m *Mode) Candidates() []*NativeHandle {
	return m.handles
}

// AddCandidate appends a handle to the candidate list.
func (m *Mode) AddCandidate(h *NativeHandle) {
	if h == nil {
		return
	}
	m.handles = append(m.handles, h)
}

// Adopt moves o's candidate handles onto m, in order, leaving o empty. Used
// when discovery finds a descriptor whose logical mode duplicates an entry
// already produced: the duplicate's handles merge instead of forming a
// second entry.
func (m *Mode) Adopt(o *Mode) {
	if o == nil || o == m {
		return
	}
	m.handles = append(m.handles, o.handles...)
	o.handles = nil
	o.released = true
}

// Promote moves h to the front of the candidate list so the next switch to
// this mode tries the known-good descriptor first.
func (m *Mode) Promote(h *NativeHandle) {
	for i, cand := range m.handles {
		if cand == h {
			copy(m.handles[1:i+1], m.handles[:i])
			m.handles[0] = h
			return
		}
	}
}

// ReleaseCandidates releases every owned handle. Safe to call more than
// once; only the first call releases.
func (m *Mode) ReleaseCandidates() {
	if m == nil || m.released {
		return
	}
	m.released = true
	for _, h := range m.handles {
		h.Release()
	}
	m.handles = nil
}

func (m *Mode) String() string {
	if m == nil {
		return "<nil>"
	}
	if m.RefreshHz == 0 {
		return fmt.Sprintf("%dx%d %s", m.Width, m.Height, m.Format)
	}
	return fmt.Sprintf("%dx%d@%d %s", m.Width, m.Height, m.RefreshHz, m.Format)
}

// ResolveRefreshRate derives an integer refresh rate from the descriptor's
// reported value, falling back to the timing source when the platform did
// not report one. Returns 0 when neither source can provide a rate; the
// mode stays usable with an unreported rate.
func ResolveRefreshRate(reported float64, ts driver.TimingSource) int {
	if reported > 0 {
		return int(reported + 0.5)
	}
	if ts == nil {
		return 0
	}
	period, timescale, ok := ts.NominalPeriod()
	if !ok || period == 0 {
		return 0
	}
	return int((float64(timescale) / float64(period)) + 0.5)
}
