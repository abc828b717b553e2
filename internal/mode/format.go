package mode

// PixelFormat is one of the closed set of pixel encodings the engine
// supports. Descriptors reporting anything else are excluded during
// discovery.
type PixelFormat int

const (
	FormatUnknown PixelFormat = iota
	FormatARGB8888
	FormatARGB1555
	FormatARGB2101010
)

func (f PixelFormat) String() string {
	switch f {
	case FormatARGB8888:
		return "ARGB8888"
	case FormatARGB1555:
		return "ARGB1555"
	case FormatARGB2101010:
		return "ARGB2101010"
	}
	return "unknown"
}

// FormatForDepth maps a descriptor's bits-per-pixel encoding to a supported
// pixel format. ok is false for encodings outside the supported set.
func FormatForDepth(depth int) (PixelFormat, bool) {
	switch depth {
	case 32:
		return FormatARGB8888, true
	case 16:
		return FormatARGB1555, true
	case 30:
		return FormatARGB2101010, true
	}
	return FormatUnknown, false
}
