package yeelight

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshal(t *testing.T, cmd *Command) string {
	t.Helper()
	b, err := json.Marshal(cmd)
	require.NoError(t, err)
	return string(b)
}

func TestToggle(t *testing.T) {
	assert.Equal(t, `{"id":5,"method":"toggle","params":[]}`, marshal(t, NewToggle(5)))
}

func TestSetRGB(t *testing.T) {
	cmd := NewSetRGB(7, 50, 20, 10, Sudden)
	assert.Equal(t, `{"id":7,"method":"set_rgb","params":[3281930,"sudden",0]}`, marshal(t, cmd))
}

func TestSetRGBPacksUnsignedChannels(t *testing.T) {
	for r := 0; r < 256; r += 15 {
		for g := 0; g < 256; g += 17 {
			for _, b := range []int{0, 1, 127, 128, 200, 255} {
				cmd := NewSetRGB(1, int8(uint8(r)), int8(uint8(g)), int8(uint8(b)), Sudden)
				params := cmd.Params()
				require.Len(t, params, 3)
				assert.Equal(t, IntParam(r*65536+g*256+b), params[0], "r=%d g=%d b=%d", r, g, b)
			}
		}
	}

	cmd := NewSetRGB(1, -1, -1, -1, Sudden)
	assert.Equal(t, IntParam(0xFFFFFF), cmd.Params()[0])
}

func TestEffectExpansion(t *testing.T) {
	assert.Equal(t, []Param{StringParam("sudden"), IntParam(0)}, Sudden.params())
	assert.Equal(t, []Param{StringParam("smooth"), IntParam(500)}, Smooth(500).params())

	cases := []struct {
		cmd  *Command
		want string
	}{
		{NewSetColorTemp(1, 4000, Smooth(300)), `{"id":1,"method":"set_ct_abx","params":[4000,"smooth",300]}`},
		{NewSetHSV(2, 255, 45, Smooth(30)), `{"id":2,"method":"set_hsv","params":[255,45,"smooth",30]}`},
		{NewSetBrightness(3, 100, Sudden), `{"id":3,"method":"set_bright","params":[100,"sudden",0]}`},
		{NewSetPower(4, false, nil, Smooth(1000)), `{"id":4,"method":"set_power","params":["off","smooth",1000,0]}`},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, marshal(t, c.cmd))
	}
}

func TestSetPowerMode(t *testing.T) {
	assert.Equal(t, `{"id":1,"method":"set_power","params":["on","sudden",0,0]}`,
		marshal(t, NewSetPower(1, true, nil, Sudden)))

	normal := ModeNormal
	assert.Equal(t, marshal(t, NewSetPower(1, true, nil, Sudden)), marshal(t, NewSetPower(1, true, &normal, Sudden)))

	night := ModeNight
	assert.Equal(t, `{"id":1,"method":"set_power","params":["on","sudden",0,5]}`,
		marshal(t, NewSetPower(1, true, &night, Sudden)))
}

func TestGetProp(t *testing.T) {
	cmd := NewGetProp(9, PropPower, PropBrightness, PropColorTemp, PropFlowParams)
	assert.Equal(t, `{"id":9,"method":"get_prop","params":["power","bright","ct","flow_params"]}`, marshal(t, cmd))

	assert.Equal(t, `{"id":9,"method":"get_prop","params":[]}`, marshal(t, NewGetProp(9)))
}

func TestPropertyNames(t *testing.T) {
	want := []string{"power", "bright", "ct", "rgb", "hue", "sat", "color_mode", "flowing", "delayoff", "flow_params", "music_on", "name"}
	props := Properties()
	require.Len(t, props, len(want))
	for i, p := range props {
		assert.Equal(t, want[i], p.String())
		parsed, err := ParseProperty(want[i])
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}

	_, err := ParseProperty("Bright")
	assert.Error(t, err)
}

func TestParsePowerOnMode(t *testing.T) {
	m, err := ParsePowerOnMode("HSV")
	require.NoError(t, err)
	assert.Equal(t, ModeHSV, m)
	assert.Equal(t, "flow", ModeFlow.String())

	_, err = ParsePowerOnMode("disco")
	assert.Error(t, err)
}

func TestSetID(t *testing.T) {
	cmd := NewSetBrightness(1, 50, Sudden)
	cmd.SetID(42)
	assert.Equal(t, int32(42), cmd.ID())
	assert.Equal(t, `{"id":42,"method":"set_bright","params":[50,"sudden",0]}`, marshal(t, cmd))
}

func TestParamsReturnsCopy(t *testing.T) {
	cmd := NewSetBrightness(1, 50, Sudden)
	params := cmd.Params()
	params[0] = IntParam(1)
	assert.Equal(t, IntParam(50), cmd.Params()[0])
}

func TestSetName(t *testing.T) {
	assert.Equal(t, `{"id":3,"method":"set_name","params":["kitchen"]}`, marshal(t, NewSetName(3, "kitchen")))
}
