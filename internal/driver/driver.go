// Package driver defines the platform contract between the display-mode
// engine and a concrete windowing-system backend. The engine only ever sees
// opaque output and mode identifiers plus the descriptor data declared here,
// which keeps discovery and switching testable without a display server.
package driver

// OutputID identifies one video output on the platform.
type OutputID uint32

// ModeID identifies one native mode descriptor on the platform.
type ModeID uint32

// ModeFlags carries the platform's opinion of a mode descriptor.
type ModeFlags uint32

const (
	// ModeValid marks a descriptor the platform considers well-formed.
	ModeValid ModeFlags = 1 << iota
	// ModeSafe marks a descriptor known to produce a usable picture.
	ModeSafe
	// ModeNeverShow marks a descriptor the platform wants hidden from users.
	ModeNeverShow
	// ModeNotGraphicsQuality marks a descriptor unfit for desktop graphics
	// (interlaced timings and similar).
	ModeNotGraphicsQuality
)

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// ModeInfo is the raw platform description of one mode descriptor.
type ModeInfo struct {
	ID     ModeID
	Width  int
	Height int

	// RefreshRate is the rate reported by the platform in Hz.
	// 0 means the platform did not report one.
	RefreshRate float64

	// Depth is the pixel encoding in bits per pixel.
	Depth int

	Flags ModeFlags

	// Raw output timing. Used to derive a refresh rate when RefreshRate
	// is unreported. All zero when the descriptor carries no timing.
	DotClock uint64
	HTotal   int
	VTotal   int
}

// OutputInfo describes one online video output.
type OutputInfo struct {
	ID      OutputID
	Name    string
	Primary bool

	// Mirror marks an output that replays another output's content and is
	// therefore not independently addressable.
	Mirror bool

	Bounds Rect
}

// TimingSource provides nominal output timing for refresh-rate derivation.
type TimingSource interface {
	// NominalPeriod returns the duration of one output frame expressed as
	// period ticks of a clock running at timescale ticks per second.
	// ok is false when the source cannot provide timing.
	NominalPeriod() (period, timescale uint64, ok bool)
}

// Timing returns the descriptor's own timing source, or nil when the
// descriptor carries no usable timing.
func (m ModeInfo) Timing() TimingSource {
	if m.DotClock == 0 || m.HTotal <= 0 || m.VTotal <= 0 {
		return nil
	}
	return rawTiming{m}
}

type rawTiming struct {
	m ModeInfo
}

// NominalPeriod expresses one frame in pixel-clock ticks: the frame period is
// HTotal*VTotal ticks of a clock running at DotClock ticks per second.
func (t rawTiming) NominalPeriod() (period, timescale uint64, ok bool) {
	return uint64(t.m.HTotal) * uint64(t.m.VTotal), t.m.DotClock, true
}

// Retainer manages reference counts of native mode descriptors.
type Retainer interface {
	RetainMode(id ModeID)
	ReleaseMode(id ModeID)
}

// Driver abstracts the platform display subsystem.
//
// Capture is a process-wide exclusive resource: while held, no second
// Capture call is expected to succeed. Release tolerates being called when
// nothing is captured.
type Driver interface {
	Retainer

	// Outputs enumerates all online outputs.
	Outputs() ([]OutputInfo, error)

	// CurrentMode returns the descriptor the output is presently in.
	CurrentMode(out OutputID) (ModeInfo, error)

	// Modes enumerates every mode descriptor the output supports. The
	// list may omit the active descriptor; callers must not rely on its
	// presence.
	Modes(out OutputID) ([]ModeInfo, error)

	// ApplyMode sets the output to the given descriptor.
	ApplyMode(out OutputID, id ModeID) error

	// Capture acquires exclusive use of the display. all requests capture
	// of every output rather than a single one.
	Capture(all bool) error

	// Release gives up a capture acquired with the same scope.
	Release(all bool)
}
