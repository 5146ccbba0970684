package yeelight

import (
	"github.com/icza/gox/gox"
)

// Method is the name of a bulb operation.
type Method string

const (
	MethodToggle        Method = "toggle"
	MethodGetProp       Method = "get_prop"
	MethodSetColorTemp  Method = "set_ct_abx"
	MethodSetRGB        Method = "set_rgb"
	MethodSetHSV        Method = "set_hsv"
	MethodSetBrightness Method = "set_bright"
	MethodSetPower      Method = "set_power"
	MethodSetName       Method = "set_name"
)

// Command is one request to the bulb. The parameter list is fixed by the
// constructor; only the correlation id can change afterwards.
type Command struct {
	id     int32
	method Method
	params []Param
}

type wireCommand struct {
	ID     int32   `json:"id"`
	Method Method  `json:"method"`
	Params []Param `json:"params"`
}

func newCommand(id int32, method Method, params ...Param) *Command {
	if params == nil {
		params = []Param{}
	}
	return &Command{id: id, method: method, params: params}
}

// withEffect builds a parameter list of the leading values followed by the
// effect expansion.
func withEffect(effect TransitionEffect, leading ...Param) []Param {
	params := make([]Param, 0, len(leading)+2)
	params = append(params, leading...)
	return append(params, effect.params()...)
}

func (c *Command) ID() int32 {
	return c.id
}

// SetID reassigns the correlation id so a built command can be sent again.
func (c *Command) SetID(id int32) {
	c.id = id
}

func (c *Command) Method() Method {
	return c.method
}

// Params returns a copy of the positional parameters.
func (c *Command) Params() []Param {
	return append([]Param(nil), c.params...)
}

// MarshalJSON writes the compact {"id","method","params"} object in that
// key order.
func (c *Command) MarshalJSON() ([]byte, error) {
	return marshalJSON(wireCommand{ID: c.id, Method: c.method, Params: c.params})
}

// NewToggle flips the power state.
func NewToggle(id int32) *Command {
	return newCommand(id, MethodToggle)
}

// NewGetProp queries the listed properties. The reply carries one value per
// property in the same order.
func NewGetProp(id int32, props ...Property) *Command {
	params := make([]Param, len(props))
	for i, p := range props {
		params[i] = StringParam(p.String())
	}
	return newCommand(id, MethodGetProp, params...)
}

// NewSetColorTemp sets the white color temperature in Kelvin (1700-6500).
func NewSetColorTemp(id int32, colorTemp int32, effect TransitionEffect) *Command {
	return newCommand(id, MethodSetColorTemp, withEffect(effect, IntParam(colorTemp))...)
}

// NewSetRGB sets the color. Channels are read as their unsigned byte value,
// so int8(-1) means 255.
func NewSetRGB(id int32, r, g, b int8, effect TransitionEffect) *Command {
	return newCommand(id, MethodSetRGB, withEffect(effect, IntParam(PackRGB(uint8(r), uint8(g), uint8(b))))...)
}

// PackRGB packs three channels into the 0xRRGGBB integer the bulb expects.
func PackRGB(r, g, b uint8) int32 {
	return int32(r)<<16 | int32(g)<<8 | int32(b)
}

// NewSetHSV sets hue (0-359) and saturation (0-100).
func NewSetHSV(id int32, hue int16, sat int8, effect TransitionEffect) *Command {
	return newCommand(id, MethodSetHSV, withEffect(effect, IntParam(hue), IntParam(sat))...)
}

// NewSetBrightness sets brightness in percent (1-100).
func NewSetBrightness(id int32, brightness int8, effect TransitionEffect) *Command {
	return newCommand(id, MethodSetBrightness, withEffect(effect, IntParam(brightness))...)
}

// NewSetPower switches the bulb on or off. A nil mode is sent as ModeNormal.
func NewSetPower(id int32, on bool, mode *PowerOnMode, effect TransitionEffect) *Command {
	params := withEffect(effect, StringParam(gox.If(on).String("on", "off")))
	return newCommand(id, MethodSetPower, append(params, modeParam(mode))...)
}

// NewSetName stores a name on the bulb. Only ASCII names can be sent.
func NewSetName(id int32, name string) *Command {
	return newCommand(id, MethodSetName, StringParam(name))
}
