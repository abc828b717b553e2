package mode

import "github.com/1broseidon/modectl/internal/driver"

// NativeHandle owns one reference to a native mode descriptor. The reference
// is taken on construction and must be given back with Release exactly once;
// Release is guarded so a second call is a no-op.
//
// Handles are owned by the Mode holding them and are never copied.
type NativeHandle struct {
	info     driver.ModeInfo
	retainer driver.Retainer
	released bool
}

// AcquireHandle takes a reference on the descriptor and wraps it.
func AcquireHandle(r driver.Retainer, info driver.ModeInfo) *NativeHandle {
	r.RetainMode(info.ID)
	return &NativeHandle{info: info, retainer: r}
}

// ID returns the native descriptor identifier.
func (h *NativeHandle) ID() driver.ModeID {
	return h.info.ID
}

// Info returns the descriptor data the handle was acquired with.
func (h *NativeHandle) Info() driver.ModeInfo {
	return h.info
}

// Release gives the descriptor reference back to the platform.
func (h *NativeHandle) Release() {
	if h.released {
		return
	}
	h.released = true
	h.retainer.ReleaseMode(h.info.ID)
}
