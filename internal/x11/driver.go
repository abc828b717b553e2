// Package x11 implements the platform driver on top of the X11 RandR
// extension: outputs map to RandR outputs, native mode descriptors to RandR
// modes, mode application to CRTC reconfiguration, and capture to the X
// server grab.
package x11

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/modectl/internal/driver"
)

// Driver implements driver.Driver against a RandR-capable X server.
type Driver struct {
	conn *Connection
	log  *slog.Logger

	res         *randr.GetScreenResourcesReply
	modeByID    map[driver.ModeID]randr.ModeInfo
	crtcOfOut   map[driver.OutputID]randr.Crtc
	crtcInfo    map[randr.Crtc]*randr.GetCrtcInfoReply
	outputModes map[driver.OutputID][]randr.Mode

	refs    map[driver.ModeID]int
	grabbed bool
	depth   int
}

var _ driver.Driver = (*Driver)(nil)

func NewDriver(conn *Connection, log *slog.Logger) *Driver {
	if log == nil {
		log = slog.Default()
	}
	return &Driver{
		conn:        conn,
		log:         log,
		modeByID:    make(map[driver.ModeID]randr.ModeInfo),
		crtcOfOut:   make(map[driver.OutputID]randr.Crtc),
		crtcInfo:    make(map[randr.Crtc]*randr.GetCrtcInfoReply),
		outputModes: make(map[driver.OutputID][]randr.Mode),
		refs:        make(map[driver.ModeID]int),
		depth:       encodingDepth(conn.XUtil.Screen().RootDepth),
	}
}

// encodingDepth maps the X root depth to a bits-per-pixel encoding. 24-bit
// visuals are padded to 32 bits per pixel on the wire.
func encodingDepth(rootDepth byte) int {
	switch rootDepth {
	case 24, 32:
		return 32
	case 15, 16:
		return 16
	case 30:
		return 30
	}
	return int(rootDepth)
}

func (d *Driver) refreshResources() error {
	res, err := randr.GetScreenResources(d.conn.XUtil.Conn(), d.conn.Root).Reply()
	if err != nil {
		return fmt.Errorf("get screen resources: %w", err)
	}
	d.res = res
	for _, mi := range res.Modes {
		d.modeByID[driver.ModeID(mi.Id)] = mi
	}
	return nil
}

// Outputs enumerates connected, active RandR outputs. An output whose CRTC
// was already claimed by an earlier output is reported as a mirror.
func (d *Driver) Outputs() ([]driver.OutputInfo, error) {
	if err := d.refreshResources(); err != nil {
		return nil, err
	}
	conn := d.conn.XUtil.Conn()

	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(conn, d.conn.Root).Reply(); err == nil {
		primary = reply.Output
	}

	claimed := make(map[randr.Crtc]bool)
	var outs []driver.OutputInfo
	for _, out := range d.res.Outputs {
		oi, err := randr.GetOutputInfo(conn, out, d.res.ConfigTimestamp).Reply()
		if err != nil {
			d.log.Debug("output info query failed", "output", uint32(out), "error", err)
			continue
		}
		if oi.Connection != randr.ConnectionConnected || oi.Crtc == 0 {
			continue
		}
		ci, err := randr.GetCrtcInfo(conn, oi.Crtc, d.res.ConfigTimestamp).Reply()
		if err != nil || ci.Width == 0 || ci.Height == 0 {
			continue
		}

		id := driver.OutputID(out)
		d.crtcOfOut[id] = oi.Crtc
		d.crtcInfo[oi.Crtc] = ci
		d.outputModes[id] = oi.Modes

		outs = append(outs, driver.OutputInfo{
			ID:      id,
			Name:    string(oi.Name),
			Primary: out == primary,
			Mirror:  claimed[oi.Crtc],
			Bounds: driver.Rect{
				X:      int(ci.X),
				Y:      int(ci.Y),
				Width:  int(ci.Width),
				Height: int(ci.Height),
			},
		})
		claimed[oi.Crtc] = true
	}
	return outs, nil
}

func (d *Driver) CurrentMode(out driver.OutputID) (driver.ModeInfo, error) {
	crtc, ok := d.crtcOfOut[out]
	if !ok {
		return driver.ModeInfo{}, fmt.Errorf("unknown output %d", out)
	}
	ci := d.crtcInfo[crtc]
	mi, ok := d.modeByID[driver.ModeID(ci.Mode)]
	if !ok {
		return driver.ModeInfo{}, fmt.Errorf("crtc %d reports unknown mode %d", crtc, ci.Mode)
	}
	return d.convertMode(mi), nil
}

func (d *Driver) Modes(out driver.OutputID) ([]driver.ModeInfo, error) {
	ids, ok := d.outputModes[out]
	if !ok {
		return nil, fmt.Errorf("unknown output %d", out)
	}
	infos := make([]driver.ModeInfo, 0, len(ids))
	for _, id := range ids {
		mi, ok := d.modeByID[driver.ModeID(id)]
		if !ok {
			continue
		}
		infos = append(infos, d.convertMode(mi))
	}
	return infos, nil
}

// convertMode translates a RandR mode to the backend-neutral descriptor.
// RandR modes carry raw timing rather than a refresh rate, so RefreshRate is
// left unreported for the resolver to derive. Interlaced timings are not
// desktop graphics quality; double-scan modes exist for compatibility and
// should never be offered.
func (d *Driver) convertMode(mi randr.ModeInfo) driver.ModeInfo {
	flags := driver.ModeValid | driver.ModeSafe
	if mi.ModeFlags&randr.ModeFlagInterlace != 0 {
		flags |= driver.ModeNotGraphicsQuality
	}
	if mi.ModeFlags&randr.ModeFlagDoubleScan != 0 {
		flags |= driver.ModeNeverShow
	}
	return driver.ModeInfo{
		ID:          driver.ModeID(mi.Id),
		Width:       int(mi.Width),
		Height:      int(mi.Height),
		RefreshRate: 0,
		Depth:       d.depth,
		Flags:       flags,
		DotClock:    uint64(mi.DotClock),
		HTotal:      int(mi.Htotal),
		VTotal:      int(mi.Vtotal),
	}
}

// RetainMode and ReleaseMode track descriptor references. The X server owns
// the mode resources themselves; the counts exist so teardown bugs surface
// in logs instead of silently.
func (d *Driver) RetainMode(id driver.ModeID) {
	d.refs[id]++
}

func (d *Driver) ReleaseMode(id driver.ModeID) {
	d.refs[id]--
	if d.refs[id] < 0 {
		d.log.Warn("mode descriptor over-released", "mode", uint32(id))
	}
}

func (d *Driver) ApplyMode(out driver.OutputID, id driver.ModeID) error {
	crtc, ok := d.crtcOfOut[out]
	if !ok {
		return fmt.Errorf("unknown output %d", out)
	}
	ci := d.crtcInfo[crtc]

	reply, err := randr.SetCrtcConfig(
		d.conn.XUtil.Conn(),
		crtc,
		ci.Timestamp,
		d.res.ConfigTimestamp,
		ci.X,
		ci.Y,
		randr.Mode(id),
		ci.Rotation,
		ci.Outputs,
	).Reply()
	if err != nil {
		return fmt.Errorf("set crtc config: %w", err)
	}
	if reply.Status != randr.SetConfigSuccess {
		return fmt.Errorf("set crtc config: %s", setConfigStatusName(reply.Status))
	}

	ci.Timestamp = reply.Timestamp
	if mi, ok := d.modeByID[id]; ok {
		ci.Mode = randr.Mode(id)
		ci.Width = mi.Width
		ci.Height = mi.Height
	}
	return nil
}

func setConfigStatusName(status byte) string {
	switch status {
	case randr.SetConfigInvalidConfigTime:
		return "invalid config time"
	case randr.SetConfigInvalidTime:
		return "invalid time"
	case randr.SetConfigFailed:
		return "set config failed"
	}
	return fmt.Sprintf("status %d", status)
}

// Capture grabs the X server. The grab is process-wide and exclusive; RandR
// has no per-output grab, so both scopes take the server grab.
func (d *Driver) Capture(all bool) error {
	if d.grabbed {
		return fmt.Errorf("display already captured")
	}
	if err := xproto.GrabServerChecked(d.conn.XUtil.Conn()).Check(); err != nil {
		return fmt.Errorf("grab server: %w", err)
	}
	d.grabbed = true
	return nil
}

func (d *Driver) Release(all bool) {
	if !d.grabbed {
		return
	}
	xproto.UngrabServer(d.conn.XUtil.Conn())
	d.grabbed = false
}

// claimedCrtcs returns the CRTCs seen during the last enumeration, for the
// gamma fader.
func (d *Driver) claimedCrtcs() []randr.Crtc {
	crtcs := make([]randr.Crtc, 0, len(d.crtcInfo))
	for crtc := range d.crtcInfo {
		crtcs = append(crtcs, crtc)
	}
	return crtcs
}
