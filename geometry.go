package morph

import (
	"image"
	"image/color"
	"math"
)

// Point is a position or offset in world coordinates. The coordinate system
// has its origin at the top-left, with Y increasing downward.
type Point struct {
	X, Y float64
}

// Add returns the component-wise sum of p and other.
func (p Point) Add(other Point) Point {
	return Point{p.X + other.X, p.Y + other.Y}
}

// Sub returns the component-wise difference of p and other.
func (p Point) Sub(other Point) Point {
	return Point{p.X - other.X, p.Y - other.Y}
}

// DistanceTo returns the Euclidean distance between p and other.
func (p Point) DistanceTo(other Point) float64 {
	dx := other.X - p.X
	dy := other.Y - p.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// RectAround returns the rectangle spanning the two corner points.
func RectAround(a, b Point) Rect {
	x := math.Min(a.X, b.X)
	y := math.Min(a.Y, b.Y)
	return Rect{x, y, math.Max(a.X, b.X) - x, math.Max(a.Y, b.Y) - y}
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// The origin edges are inclusive, the corner edges exclusive, so adjacent
// rectangles never both claim a shared edge.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width &&
		y >= r.Y && y < r.Y+r.Height
}

// ContainsPoint reports whether p lies inside the rectangle.
func (r Rect) ContainsPoint(p Point) bool {
	return r.Contains(p.X, p.Y)
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Intersect returns the overlapping region of r and other.
// The result is empty if the rectangles do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	x := math.Max(r.X, other.X)
	y := math.Max(r.Y, other.Y)
	x2 := math.Min(r.X+r.Width, other.X+other.Width)
	y2 := math.Min(r.Y+r.Height, other.Y+other.Height)
	if x2 < x || y2 < y {
		return Rect{}
	}
	return Rect{x, y, x2 - x, y2 - y}
}

// Union returns the smallest rectangle enclosing both r and other.
// An empty rectangle contributes nothing to the union.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	x := math.Min(r.X, other.X)
	y := math.Min(r.Y, other.Y)
	x2 := math.Max(r.X+r.Width, other.X+other.Width)
	y2 := math.Max(r.Y+r.Height, other.Y+other.Height)
	return Rect{x, y, x2 - x, y2 - y}
}

// Translate returns r shifted by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{r.X + dx, r.Y + dy, r.Width, r.Height}
}

// Origin returns the rectangle's top-left corner.
func (r Rect) Origin() Point {
	return Point{r.X, r.Y}
}

// Corner returns the rectangle's bottom-right corner.
func (r Rect) Corner() Point {
	return Point{r.X + r.Width, r.Y + r.Height}
}

// Center returns the rectangle's center point.
func (r Rect) Center() Point {
	return Point{r.X + r.Width/2, r.Y + r.Height/2}
}

// Extent returns the rectangle's width and height as a Point.
func (r Rect) Extent() Point {
	return Point{r.Width, r.Height}
}

// Spread returns r expanded outward to integral pixel boundaries. Damage
// regions are spread before accumulation so that sub-pixel coordinates never
// leave seams between redrawn areas.
func (r Rect) Spread() Rect {
	x := math.Floor(r.X)
	y := math.Floor(r.Y)
	return Rect{x, y, math.Ceil(r.X+r.Width) - x, math.Ceil(r.Y+r.Height) - y}
}

// toImageRect converts r to an image.Rectangle, rounding outward.
func (r Rect) toImageRect() image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.Width)), int(math.Ceil(r.Y+r.Height)),
	)
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

var (
	// ColorWhite is opaque white.
	ColorWhite = Color{1, 1, 1, 1}
	// ColorBlack is opaque black.
	ColorBlack = Color{0, 0, 0, 1}
	// ColorTransparent is fully transparent.
	ColorTransparent = Color{}
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// toRGBA converts the color to a premultiplied 8-bit color.RGBA.
func (c Color) toRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R) * a * 255),
		G: uint8(clamp01(c.G) * a * 255),
		B: uint8(clamp01(c.B) * a * 255),
		A: uint8(a * 255),
	}
}

// Lighter returns the color mixed toward white by the given fraction in [0, 1].
func (c Color) Lighter(fraction float64) Color {
	return c.Mixed(fraction, ColorWhite)
}

// Darker returns the color mixed toward black by the given fraction in [0, 1].
func (c Color) Darker(fraction float64) Color {
	return c.Mixed(fraction, Color{0, 0, 0, c.A})
}

// Mixed returns the linear interpolation from c toward other by proportion
// in [0, 1]. Alpha is interpolated along with the channels.
func (c Color) Mixed(proportion float64, other Color) Color {
	t := clamp01(proportion)
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}
