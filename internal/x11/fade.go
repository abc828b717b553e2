package x11

import (
	"log/slog"
	"time"

	"github.com/BurntSushi/xgb/randr"

	"github.com/1broseidon/modectl/internal/switcher"
)

// GammaFader masks mode switches with a gamma-ramp fade across all active
// CRTCs. The reservation token carries the saved ramps; fade-in restores
// them asynchronously.
type GammaFader struct {
	drv      *Driver
	steps    int
	interval time.Duration
	log      *slog.Logger
}

var _ switcher.Fader = (*GammaFader)(nil)

// NewGammaFader creates a fader that fades over duration in the given
// number of steps.
func NewGammaFader(drv *Driver, steps int, duration time.Duration, log *slog.Logger) *GammaFader {
	if steps < 1 {
		steps = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &GammaFader{
		drv:      drv,
		steps:    steps,
		interval: duration / time.Duration(steps),
		log:      log,
	}
}

type savedGamma struct {
	crtc  randr.Crtc
	size  uint16
	red   []uint16
	green []uint16
	blue  []uint16
}

type gammaReservation struct {
	ramps []savedGamma
}

// Reserve saves the current gamma ramps of every active CRTC. Reservation
// fails (disabling the fade, nothing more) when no CRTC exposes a gamma
// ramp.
func (f *GammaFader) Reserve() (switcher.FadeToken, bool) {
	conn := f.drv.conn.XUtil.Conn()

	var ramps []savedGamma
	for _, crtc := range f.drv.claimedCrtcs() {
		sizeReply, err := randr.GetCrtcGammaSize(conn, crtc).Reply()
		if err != nil || sizeReply.Size == 0 {
			continue
		}
		gamma, err := randr.GetCrtcGamma(conn, crtc).Reply()
		if err != nil {
			continue
		}
		ramps = append(ramps, savedGamma{
			crtc:  crtc,
			size:  gamma.Size,
			red:   gamma.Red,
			green: gamma.Green,
			blue:  gamma.Blue,
		})
	}
	if len(ramps) == 0 {
		return nil, false
	}
	return &gammaReservation{ramps: ramps}, true
}

// FadeOut ramps the screen to black synchronously.
func (f *GammaFader) FadeOut(tok switcher.FadeToken) {
	res, ok := tok.(*gammaReservation)
	if !ok {
		return
	}
	for step := f.steps - 1; step >= 0; step-- {
		f.setScaled(res, float64(step)/float64(f.steps))
		time.Sleep(f.interval)
	}
}

// FadeIn ramps back to the saved gamma and releases the reservation. Runs
// fire-and-forget; the caller does not await completion.
func (f *GammaFader) FadeIn(tok switcher.FadeToken) {
	res, ok := tok.(*gammaReservation)
	if !ok {
		return
	}
	go func() {
		for step := 1; step <= f.steps; step++ {
			f.setScaled(res, float64(step)/float64(f.steps))
			time.Sleep(f.interval)
		}
		// Land exactly on the saved ramps.
		f.setScaled(res, 1)
	}()
}

func (f *GammaFader) setScaled(res *gammaReservation, factor float64) {
	conn := f.drv.conn.XUtil.Conn()
	for _, g := range res.ramps {
		red := scaleRamp(g.red, factor)
		green := scaleRamp(g.green, factor)
		blue := scaleRamp(g.blue, factor)
		randr.SetCrtcGamma(conn, g.crtc, g.size, red, green, blue)
	}
}

func scaleRamp(ramp []uint16, factor float64) []uint16 {
	if factor >= 1 {
		return ramp
	}
	scaled := make([]uint16, len(ramp))
	for i, v := range ramp {
		scaled[i] = uint16(float64(v) * factor)
	}
	return scaled
}
