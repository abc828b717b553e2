package mode

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSpec parses a mode specification of the form "1920x1080@60" or
// "1920x1080". The refresh rate is 0 when omitted.
func ParseSpec(s string) (width, height, refresh int, err error) {
	spec := strings.TrimSpace(s)
	if spec == "" {
		return 0, 0, 0, fmt.Errorf("empty mode spec")
	}

	dims := spec
	if at := strings.IndexByte(spec, '@'); at >= 0 {
		dims = spec[:at]
		refresh, err = strconv.Atoi(spec[at+1:])
		if err != nil || refresh <= 0 {
			return 0, 0, 0, fmt.Errorf("invalid refresh rate in mode spec %q", s)
		}
	}

	w, h, ok := strings.Cut(dims, "x")
	if !ok {
		return 0, 0, 0, fmt.Errorf("invalid mode spec %q (want WxH or WxH@Hz)", s)
	}
	width, err = strconv.Atoi(w)
	if err != nil || width <= 0 {
		return 0, 0, 0, fmt.Errorf("invalid width in mode spec %q", s)
	}
	height, err = strconv.Atoi(h)
	if err != nil || height <= 0 {
		return 0, 0, 0, fmt.Errorf("invalid height in mode spec %q", s)
	}
	return width, height, refresh, nil
}
