package switcher

import "fmt"

// CaptureError reports that exclusive capture of a device could not be
// acquired. The switch was aborted before any device state changed.
type CaptureError struct {
	Op     string // the capture operation that failed
	Device string
	Err    error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Device, e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

// ApplyError reports that every candidate descriptor of the requested mode
// failed to apply. Any capture acquired for the switch has been released.
type ApplyError struct {
	Op     string // the apply operation that failed
	Device string
	Mode   string
	Err    error // the last candidate's failure
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("%s %s on %q: %v", e.Op, e.Mode, e.Device, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}
