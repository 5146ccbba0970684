package bulb

import (
	"fmt"
	"strconv"

	"github.com/denwilliams/go-yeelight-mqtt/internal/yeelight"
	"github.com/essentialkaos/ek/v13/color"
)

// parseColor reads "#rrggbb" (or any form the ek parser accepts) into
// channels ready for set_rgb.
func parseColor(s string) (r, g, b int8, err error) {
	hex, err := color.Parse(s)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("parse color %q: %w", s, err)
	}
	rgb := hex.ToRGB()
	return int8(rgb.R), int8(rgb.G), int8(rgb.B), nil
}

// statusValue converts a raw get_prop value into what is published for it.
func statusValue(p yeelight.Property, raw string) interface{} {
	switch p {
	case yeelight.PropPower, yeelight.PropName, yeelight.PropFlowParams:
		return raw
	case yeelight.PropFlowing, yeelight.PropMusicOn:
		return raw == "1"
	case yeelight.PropColorMode:
		return parseColorMode(raw).String()
	case yeelight.PropRGB:
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return raw
		}
		return fmt.Sprintf("#%06x", n&0xFFFFFF)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return raw
	}
	return n
}
