package geom

import "math"

// Vec2 is a 2D vector with float64 components.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vec2) LengthSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns the unit vector. The zero vector normalizes to itself.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

func (v Vec2) DistanceTo(o Vec2) float64 {
	return v.Sub(o).Length()
}

// DistanceSqTo avoids the square root for range rejection tests.
func (v Vec2) DistanceSqTo(o Vec2) float64 {
	return v.Sub(o).LengthSq()
}

// Perpendicular returns v rotated 90 degrees counterclockwise.
func (v Vec2) Perpendicular() Vec2 {
	return Vec2{-v.Y, v.X}
}

// Lerp returns the linear interpolation between v and o at parameter t.
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}
