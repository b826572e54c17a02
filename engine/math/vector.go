package math

import stdmath "math"

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Color is an RGBA colour with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

func (v Vec2) Length() float32 {
	return float32(stdmath.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// Normalized returns a unit length copy, or the zero vector.
func (v Vec2) Normalized() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// ClampTo keeps the vector inside the rectangle [min, max].
func (v Vec2) ClampTo(min, max Vec2) Vec2 {
	return Vec2{X: Clamp(v.X, min.X, max.X), Y: Clamp(v.Y, min.Y, max.Y)}
}

// Hue returns a fully saturated colour for a hue in [0, 1), wrapping
// values outside that range.
func Hue(h float32) Color {
	h = h - float32(stdmath.Floor(float64(h)))
	x := h * 6
	switch {
	case x < 1:
		return Color{1, x, 0, 1}
	case x < 2:
		return Color{2 - x, 1, 0, 1}
	case x < 3:
		return Color{0, 1, x - 2, 1}
	case x < 4:
		return Color{0, 4 - x, 1, 1}
	case x < 5:
		return Color{x - 4, 0, 1, 1}
	default:
		return Color{1, 0, 6 - x, 1}
	}
}
