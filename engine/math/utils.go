package math

import "golang.org/x/exp/constraints"

// Clamp limits f to [low, high]. Vec2.ClampTo uses it per component to keep
// positions on screen.
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}
