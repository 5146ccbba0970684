package bulb

import (
	"fmt"
	"math"
	"strings"

	"github.com/denwilliams/go-yeelight-mqtt/internal/mqtt"
	"github.com/denwilliams/go-yeelight-mqtt/internal/yeelight"
	"github.com/icza/gox/gox"
)

// Commands maps an MQTT payload onto the bulb commands it implies, in the
// order they must be sent, plus the properties it asks to read back.
//
// A brightness of 0 means off. Any set operation without an explicit power
// field first switches the bulb on, since bulbs reject changes while off.
// Commands are built with id 0; the client assigns ids when sending.
func Commands(c *mqtt.Command) ([]*yeelight.Command, []yeelight.Property, error) {
	if c == nil {
		return nil, nil, nil
	}

	if err := checkRanges(c); err != nil {
		return nil, nil, err
	}

	effect := yeelight.Sudden
	if c.Duration > 0 {
		effect = yeelight.Smooth(int32(c.Duration))
	}

	var mode *yeelight.PowerOnMode
	if c.Mode != "" {
		m, err := yeelight.ParsePowerOnMode(c.Mode)
		if err != nil {
			return nil, nil, err
		}
		mode = &m
	}

	props := make([]yeelight.Property, 0, len(c.Get))
	for _, name := range c.Get {
		p, err := yeelight.ParseProperty(name)
		if err != nil {
			return nil, nil, err
		}
		props = append(props, p)
	}

	var sets []*yeelight.Command
	if c.Temperature > 0 {
		sets = append(sets, yeelight.NewSetColorTemp(0, int32(c.Temperature), effect))
	}
	if c.Color != "" {
		r, g, b, err := parseColor(c.Color)
		if err != nil {
			return nil, nil, err
		}
		sets = append(sets, yeelight.NewSetRGB(0, r, g, b, effect))
	}
	if c.Hue != nil || c.Saturation != nil {
		if c.Hue == nil || c.Saturation == nil {
			return nil, nil, fmt.Errorf("hue and sat must be given together")
		}
		sets = append(sets, yeelight.NewSetHSV(0, int16(*c.Hue), int8(*c.Saturation), effect))
	}
	off := c.Brightness != nil && *c.Brightness == 0
	if c.Brightness != nil && !off {
		sets = append(sets, yeelight.NewSetBrightness(0, int8(*c.Brightness), effect))
	}

	var cmds []*yeelight.Command
	switch power := strings.ToLower(c.Power); {
	case power == "toggle":
		cmds = append(cmds, yeelight.NewToggle(0))
	case power == "off" || off:
		cmds = append(cmds, yeelight.NewSetPower(0, false, mode, effect))
		sets = nil
	case power == "on" || (power == "" && len(sets) > 0):
		cmds = append(cmds, yeelight.NewSetPower(0, true, mode, effect))
	case power != "":
		return nil, nil, fmt.Errorf("unknown power state %q", c.Power)
	}
	cmds = append(cmds, sets...)

	if len(props) > 0 {
		cmds = append(cmds, yeelight.NewGetProp(0, props...))
	}
	return cmds, props, nil
}

// checkRanges rejects values that would wrap when narrowed to the types the
// command constructors take. Values that fit are passed on unchecked; the
// bulb decides what it accepts.
func checkRanges(c *mqtt.Command) error {
	if c.Duration > math.MaxInt32 {
		return fmt.Errorf("duration %d out of range", c.Duration)
	}
	if int64(c.Temperature) > math.MaxInt32 || int64(c.Temperature) < math.MinInt32 {
		return fmt.Errorf("temp %d out of range", c.Temperature)
	}
	if v := c.Brightness; v != nil && (*v < math.MinInt8 || *v > math.MaxInt8) {
		return fmt.Errorf("brightness %d out of range", *v)
	}
	if v := c.Hue; v != nil && (*v < math.MinInt16 || *v > math.MaxInt16) {
		return fmt.Errorf("hue %d out of range", *v)
	}
	if v := c.Saturation; v != nil && (*v < math.MinInt8 || *v > math.MaxInt8) {
		return fmt.Errorf("sat %d out of range", *v)
	}
	return nil
}

func describe(cmd *yeelight.Command) string {
	params := cmd.Params()
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprint(p)
	}
	return fmt.Sprintf("%s(%s)", cmd.Method(), strings.Join(parts, ","))
}

func onOrOff(state bool) string {
	return gox.If(state).String("on", "off")
}
