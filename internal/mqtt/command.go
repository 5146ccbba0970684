package mqtt

import (
	"fmt"
	"strings"
)

// Command is the JSON payload accepted on <prefix>/set/<bulb>. Every field
// is optional; see bulb.Commands for how they combine.
type Command struct {
	Power       string   `json:"power"`
	Brightness  *int     `json:"brightness"`
	Color       string   `json:"color"`
	Temperature int      `json:"temp"`
	Hue         *int     `json:"hue"`
	Saturation  *int     `json:"sat"`
	Duration    uint32   `json:"duration"`
	Mode        string   `json:"mode"`
	Get         []string `json:"get"`
}

func (c *Command) String() string {
	parts := []string{}
	if c.Power != "" {
		parts = append(parts, "power:"+c.Power)
	}
	if c.Brightness != nil {
		parts = append(parts, fmt.Sprintf("brightness:%d", *c.Brightness))
	}
	if c.Color != "" {
		parts = append(parts, "color:"+c.Color)
	}
	if c.Temperature != 0 {
		parts = append(parts, fmt.Sprintf("temperature:%d", c.Temperature))
	}
	if c.Hue != nil || c.Saturation != nil {
		parts = append(parts, fmt.Sprintf("hsv:%v/%v", deref(c.Hue), deref(c.Saturation)))
	}
	if c.Duration != 0 {
		parts = append(parts, fmt.Sprintf("duration:%d", c.Duration))
	}
	if len(c.Get) > 0 {
		parts = append(parts, "get:"+strings.Join(c.Get, ","))
	}
	return strings.Join(parts, " ")
}

func deref(v *int) interface{} {
	if v == nil {
		return "-"
	}
	return *v
}

type CommandHandler interface {
	HandleCommand(id string, command *Command) error
}
