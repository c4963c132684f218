package flowstack

import "math"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at draw time.
type Color struct {
	R, G, B, A float64
}

// ColorBlack is the scrim base color.
var ColorBlack = Color{0, 0, 0, 1}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// WithAlpha returns c with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= a
	return c
}

// toRGBA converts a Color to a premultiplied colorRGBA.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// colorRGBA implements the color.Color interface for image.Fill.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for positions, offsets, sizes, and translations
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v*s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// RectFromCenter builds a rectangle of the given size centered on c.
func RectFromCenter(c Vec2, w, h float64) Rect {
	return Rect{X: c.X - w/2, Y: c.Y - h/2, Width: w, Height: h}
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// Size returns the rectangle's width and height as a Vec2.
func (r Rect) Size() Vec2 {
	return Vec2{r.Width, r.Height}
}

// Inset shrinks the rectangle by dx on the left and right and dy on the top
// and bottom. Insets larger than half the size collapse it to its center.
func (r Rect) Inset(dx, dy float64) Rect {
	out := Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width - 2*dx, Height: r.Height - 2*dy}
	if out.Width < 0 {
		out.X = r.X + r.Width/2
		out.Width = 0
	}
	if out.Height < 0 {
		out.Y = r.Y + r.Height/2
		out.Height = 0
	}
	return out
}

// Offset returns the rectangle translated by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// CornerStyle selects the curve used for rounded corners.
type CornerStyle uint8

const (
	CornerCircular   CornerStyle = iota // quarter-circle arcs
	CornerContinuous                    // superellipse arcs with a smooth curvature ramp
)

// ZoomStyle controls how destination content is laid out while a transition
// is in flight.
type ZoomStyle uint8

const (
	// ZoomScaleHorizontally keeps the content laid out at the full container
	// width and scales it visually, so multi-line text does not re-wrap.
	ZoomScaleHorizontally ZoomStyle = iota
	// ZoomResize lays the content out at the interpolated frame size.
	ZoomResize
)

// SizeClass is the horizontal size class of the container.
type SizeClass uint8

const (
	SizeClassAuto    SizeClass = iota // derived from container width
	SizeClassCompact                  // phones, narrow windows
	SizeClassRegular                  // tablets, wide windows
)

// regularWidthBreakpoint is the container width at which SizeClassAuto
// resolves to SizeClassRegular.
const regularWidthBreakpoint = 744

// resolve returns a concrete size class for the given container width.
func (c SizeClass) resolve(width float64) SizeClass {
	if c != SizeClassAuto {
		return c
	}
	if width >= regularWidthBreakpoint {
		return SizeClassRegular
	}
	return SizeClassCompact
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
