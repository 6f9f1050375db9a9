package editor

import (
	"fmt"
	"math"
)

type Marker struct {
	Time  float64 `json:"time"`
	Label string  `json:"label"`
}

// Markers returns ruler ticks across [0, duration], at least one second
// apart and about ten in total.
func Markers(duration float64) []Marker {
	if !(duration > 0) || math.IsInf(duration, 0) {
		return nil
	}
	step := math.Max(1, math.Floor(duration/10))
	var out []Marker
	for t := 0.0; t <= duration; t += step {
		out = append(out, Marker{Time: t, Label: FormatClock(t)})
	}
	return out
}

// FormatClock renders seconds as m:ss.
func FormatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	s := int(seconds)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
