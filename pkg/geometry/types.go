// Package geometry provides basic geometric types used throughout the application.
package geometry

import "image"

// PointInt represents a 2D point with integer coordinates.
type PointInt struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the sum of two points.
func (p PointInt) Add(other PointInt) PointInt {
	return PointInt{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p PointInt) Sub(other PointInt) PointInt {
	return PointInt{X: p.X - other.X, Y: p.Y - other.Y}
}

// Scale multiplies both coordinates by k.
func (p PointInt) Scale(k int) PointInt {
	return PointInt{X: p.X * k, Y: p.Y * k}
}

// Neg returns the point mirrored through the origin.
func (p PointInt) Neg() PointInt {
	return PointInt{X: -p.X, Y: -p.Y}
}

// Clamp limits both coordinates to [0, limit] of the given size.
func (p PointInt) Clamp(limit SizeInt) PointInt {
	return PointInt{X: ClampInt(p.X, 0, limit.Width), Y: ClampInt(p.Y, 0, limit.Height)}
}

// SizeInt represents integer width and height.
type SizeInt struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty reports whether either dimension is non-positive.
func (s SizeInt) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Fits reports whether s fits inside other.
func (s SizeInt) Fits(other SizeInt) bool {
	return s.Width <= other.Width && s.Height <= other.Height
}

// RectInt represents a rectangle with integer coordinates.
type RectInt struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewRectInt creates a rectangle from a top-left point and a size.
func NewRectInt(origin PointInt, size SizeInt) RectInt {
	return RectInt{X: origin.X, Y: origin.Y, Width: size.Width, Height: size.Height}
}

// Empty reports whether the rectangle has no area.
func (r RectInt) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// ContainsRect returns true if other lies entirely inside r.
func (r RectInt) ContainsRect(other RectInt) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.X+other.Width <= r.X+r.Width &&
		other.Y+other.Height <= r.Y+r.Height
}

// ToImage converts to an image.Rectangle.
func (r RectInt) ToImage() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// ClampInt limits v to [lo, hi]. If hi < lo the result is lo.
func ClampInt(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
