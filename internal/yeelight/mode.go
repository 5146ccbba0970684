package yeelight

import (
	"fmt"
	"strings"
)

// PowerOnMode selects what the bulb shows when set_power switches it on.
type PowerOnMode int32

const (
	ModeNormal PowerOnMode = iota
	ModeCT
	ModeRGB
	ModeHSV
	ModeFlow
	ModeNight
)

var modeNames = [...]string{"normal", "ct", "rgb", "hsv", "flow", "night"}

func (m PowerOnMode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("PowerOnMode(%d)", int32(m))
	}
	return modeNames[m]
}

// ParsePowerOnMode maps a case-insensitive mode name to its PowerOnMode.
func ParsePowerOnMode(name string) (PowerOnMode, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range modeNames {
		if s == n {
			return PowerOnMode(i), nil
		}
	}
	return ModeNormal, fmt.Errorf("unknown power on mode %q", name)
}

// modeParam encodes an optional mode. No mode and ModeNormal are the same
// value on the wire: both are sent as 0. Whether any firmware treats a
// missing field differently from 0 is unknown, so the field is always sent.
func modeParam(mode *PowerOnMode) Param {
	if mode == nil {
		return IntParam(ModeNormal)
	}
	return IntParam(*mode)
}
