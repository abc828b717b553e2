package x11

import (
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/modectl/internal/switcher"
)

// DockChrome hides window-manager dock and panel windows while a mode
// switch is in flight, best-effort. Docks are identified by
// _NET_WM_WINDOW_TYPE_DOCK.
type DockChrome struct {
	xu  *xgbutil.XUtil
	log *slog.Logger

	hidden []xproto.Window
}

var _ switcher.Chrome = (*DockChrome)(nil)

func NewDockChrome(conn *Connection, log *slog.Logger) *DockChrome {
	if log == nil {
		log = slog.Default()
	}
	return &DockChrome{xu: conn.XUtil, log: log}
}

func (c *DockChrome) Suppress() {
	clients, err := ewmh.ClientListGet(c.xu)
	if err != nil {
		return
	}

	for _, windowID := range clients {
		types, err := ewmh.WmWindowTypeGet(c.xu, windowID)
		if err != nil {
			continue
		}
		for _, t := range types {
			if t == "_NET_WM_WINDOW_TYPE_DOCK" {
				xproto.UnmapWindow(c.xu.Conn(), windowID)
				c.hidden = append(c.hidden, windowID)
				break
			}
		}
	}
	if len(c.hidden) > 0 {
		c.log.Debug("suppressed dock windows", "count", len(c.hidden))
	}
}

func (c *DockChrome) Restore() {
	for _, windowID := range c.hidden {
		xproto.MapWindow(c.xu.Conn(), windowID)
	}
	c.hidden = nil
}
