package yeelight

const (
	effectSudden = "sudden"
	effectSmooth = "smooth"
)

// TransitionEffect describes how the bulb animates a change.
type TransitionEffect struct {
	smooth   bool
	duration int32
}

// Sudden applies the change immediately.
var Sudden = TransitionEffect{}

// Smooth fades to the new state over duration milliseconds. The bulb
// rejects durations below its own minimum (30ms on current firmware).
func Smooth(duration int32) TransitionEffect {
	return TransitionEffect{smooth: true, duration: duration}
}

// IsSmooth reports whether the effect is a timed transition.
func (e TransitionEffect) IsSmooth() bool {
	return e.smooth
}

// Duration is the transition time in milliseconds, always 0 for Sudden.
func (e TransitionEffect) Duration() int32 {
	if !e.smooth {
		return 0
	}
	return e.duration
}

func (e TransitionEffect) String() string {
	if e.smooth {
		return effectSmooth
	}
	return effectSudden
}

// params expands the effect into the two trailing arguments every
// animated method takes.
func (e TransitionEffect) params() []Param {
	if e.smooth {
		return []Param{StringParam(effectSmooth), IntParam(e.duration)}
	}
	return []Param{StringParam(effectSudden), IntParam(0)}
}
