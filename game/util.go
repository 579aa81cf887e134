package game

import "github.com/pthm-cable/sensefield/sense"

// headingOf returns the compass heading in degrees of a direction.
func headingOf(d sense.Direction) float32 {
	if d == sense.None {
		return 0
	}
	return float32(d-sense.N) * 45
}

func wrapDegrees(a float32) float32 {
	for a >= 360 {
		a -= 360
	}
	for a < 0 {
		a += 360
	}
	return a
}
