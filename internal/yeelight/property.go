package yeelight

import "fmt"

// Property identifies a readable bulb property for get_prop.
type Property int

const (
	PropPower Property = iota
	PropBrightness
	PropColorTemp
	PropRGB
	PropHue
	PropSat
	PropColorMode
	PropFlowing
	PropDelayOff
	PropFlowParams
	PropMusicOn
	PropName
)

// Names as the bulb spells them. Order matches the constants above.
var propertyNames = [...]string{
	"power",
	"bright",
	"ct",
	"rgb",
	"hue",
	"sat",
	"color_mode",
	"flowing",
	"delayoff",
	"flow_params",
	"music_on",
	"name",
}

// Properties lists every property the bulb reports.
func Properties() []Property {
	props := make([]Property, len(propertyNames))
	for i := range props {
		props[i] = Property(i)
	}
	return props
}

func (p Property) String() string {
	if p < 0 || int(p) >= len(propertyNames) {
		return fmt.Sprintf("Property(%d)", int(p))
	}
	return propertyNames[p]
}

// ParseProperty looks up a property by its exact, case-sensitive wire name.
func ParseProperty(name string) (Property, error) {
	for i, s := range propertyNames {
		if s == name {
			return Property(i), nil
		}
	}
	return 0, fmt.Errorf("unknown property %q", name)
}
