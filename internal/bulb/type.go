package bulb

import "strconv"

// ColorMode is what the bulb reports in its color_mode property.
type ColorMode int

const (
	ColorModeUnknown ColorMode = 0
	ColorModeRGB     ColorMode = 1
	ColorModeCT      ColorMode = 2
	ColorModeHSV     ColorMode = 3
)

func (m ColorMode) String() string {
	switch m {
	case ColorModeRGB:
		return "rgb"
	case ColorModeCT:
		return "ct"
	case ColorModeHSV:
		return "hsv"
	}
	return "unknown"
}

func parseColorMode(v string) ColorMode {
	n, err := strconv.Atoi(v)
	if err != nil || n < int(ColorModeRGB) || n > int(ColorModeHSV) {
		return ColorModeUnknown
	}
	return ColorMode(n)
}
