package flowstack

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Rounded rectangle tessellation.
const (
	cornerSegments = 10
	// continuousExponent is the superellipse exponent of continuous corners.
	continuousExponent = 5.0
	// continuousExtent stretches continuous corners so their curvature ramp
	// matches a circular corner of the nominal radius visually.
	continuousExtent = 1.28
	// shadowSteps is the number of rings that approximate a shadow blur.
	shadowSteps = 4
)

// --- White pixel singleton (single-threaded) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized white image used as the
// source of untextured triangles. It is a 1x1 sub-image of a 3x3 image so
// linear filtering never samples transparent texels.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whitePixelImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whitePixelImage
}

// --- Texture pool ---

// texturePool manages reusable offscreen ebiten.Images keyed by
// power-of-two dimensions. After warmup, Acquire/Release are zero-alloc.
type texturePool struct {
	buckets map[uint64][]*ebiten.Image
}

// poolKey packs power-of-two width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire returns a cleared offscreen image with at least (w, h) pixels.
// Dimensions are rounded up to the next power of two.
func (p *texturePool) Acquire(w, h int) *ebiten.Image {
	pw := nextPowerOfTwo(w)
	ph := nextPowerOfTwo(h)
	key := poolKey(pw, ph)

	if p.buckets != nil {
		if stack := p.buckets[key]; len(stack) > 0 {
			img := stack[len(stack)-1]
			p.buckets[key] = stack[:len(stack)-1]
			img.Clear()
			return img
		}
	}

	return ebiten.NewImageWithOptions(
		image.Rect(0, 0, pw, ph),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
}

// Release returns an image to the pool for reuse. The image is cleared on
// next Acquire, not here.
func (p *texturePool) Release(img *ebiten.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	key := poolKey(b.Dx(), b.Dy())

	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	p.buckets[key] = append(p.buckets[key], img)
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}

// --- Geometry ---

// roundedRectPoints appends the outline of r with rounded corners to buf,
// clockwise from the top edge. A radius of zero yields the four corners.
func roundedRectPoints(buf []Vec2, r Rect, radius float64, style CornerStyle) []Vec2 {
	if r.IsEmpty() {
		return buf
	}
	maxR := math.Min(r.Width, r.Height) / 2
	extent := radius
	if style == CornerContinuous {
		extent *= continuousExtent
	}
	extent = math.Min(math.Max(extent, 0), maxR)
	if extent <= 0 {
		return append(buf,
			Vec2{r.X, r.Y},
			Vec2{r.X + r.Width, r.Y},
			Vec2{r.X + r.Width, r.Y + r.Height},
			Vec2{r.X, r.Y + r.Height},
		)
	}

	// Corner centers, clockwise starting top-right, with the angle each arc
	// starts at.
	corners := [4]struct {
		cx, cy, start float64
	}{
		{r.X + r.Width - extent, r.Y + extent, -math.Pi / 2},
		{r.X + r.Width - extent, r.Y + r.Height - extent, 0},
		{r.X + extent, r.Y + r.Height - extent, math.Pi / 2},
		{r.X + extent, r.Y + extent, math.Pi},
	}
	for _, c := range corners {
		for i := 0; i <= cornerSegments; i++ {
			a := c.start + float64(i)/cornerSegments*math.Pi/2
			dx, dy := cornerOffset(a, style)
			buf = append(buf, Vec2{c.cx + dx*extent, c.cy + dy*extent})
		}
	}
	return buf
}

// cornerOffset returns the unit offset from a corner center at angle a.
func cornerOffset(a float64, style CornerStyle) (float64, float64) {
	cos, sin := math.Cos(a), math.Sin(a)
	if style != CornerContinuous {
		return cos, sin
	}
	e := 2 / continuousExponent
	return math.Copysign(math.Pow(math.Abs(cos), e), cos),
		math.Copysign(math.Pow(math.Abs(sin), e), sin)
}

// fanTriangles builds a triangle fan around the centroid of a convex
// outline. src maps a destination point to source texel coordinates.
func fanTriangles(verts []ebiten.Vertex, inds []uint16, pts []Vec2, center Vec2,
	src func(Vec2) (float32, float32), cr, cg, cb, ca float32) ([]ebiten.Vertex, []uint16) {
	verts = verts[:0]
	inds = inds[:0]
	if len(pts) < 3 {
		return verts, inds
	}
	vertex := func(p Vec2) ebiten.Vertex {
		sx, sy := src(p)
		return ebiten.Vertex{
			DstX: float32(p.X), DstY: float32(p.Y),
			SrcX: sx, SrcY: sy,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
		}
	}
	verts = append(verts, vertex(center))
	for _, p := range pts {
		verts = append(verts, vertex(p))
	}
	n := uint16(len(pts))
	for i := uint16(0); i < n; i++ {
		inds = append(inds, 0, 1+i, 1+(i+1)%n)
	}
	return verts, inds
}

// --- Drawing ---

// drawScrim dims the container behind the topmost element.
func (s *Stack) drawScrim(dst *ebiten.Image, progress float64) {
	a := s.cfg.Scrim.Opacity * clamp01(progress)
	if a <= 0 {
		return
	}
	fillRect(dst, s.bounds, ColorBlack.WithAlpha(a))
}

// fillRect fills r with a solid color.
func fillRect(dst *ebiten.Image, r Rect, c Color) {
	if r.IsEmpty() || c.A <= 0 {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(r.Width, r.Height)
	op.GeoM.Translate(r.X, r.Y)
	op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
	dst.DrawImage(ensureWhitePixel(), &op)
}

// drawShadow approximates a blurred drop shadow with concentric
// translucent rounded rectangles.
func (s *Stack) drawShadow(dst *ebiten.Image, f Frame) {
	sh := f.Shadow
	alpha := sh.Color.A * f.Opacity
	if alpha <= 0 {
		return
	}
	base := f.Rect.Offset(sh.Offset.X, sh.Offset.Y)
	step := alpha / shadowSteps
	white := ensureWhitePixel()
	wb := white.Bounds()
	sx, sy := float32(wb.Min.X)+0.5, float32(wb.Min.Y)+0.5
	src := func(Vec2) (float32, float32) { return sx, sy }

	for i := shadowSteps; i >= 1; i-- {
		grow := sh.Radius * float64(i) / shadowSteps
		r := Rect{X: base.X - grow, Y: base.Y - grow, Width: base.Width + 2*grow, Height: base.Height + 2*grow}
		s.outline = roundedRectPoints(s.outline[:0], r, f.CornerRadius+grow, f.CornerStyle)
		ca := float32(step)
		s.verts, s.inds = fanTriangles(s.verts, s.inds, s.outline, r.Center(), src,
			float32(sh.Color.R)*ca, float32(sh.Color.G)*ca, float32(sh.Color.B)*ca, ca)
		dst.DrawTriangles(s.verts, s.inds, white, nil)
	}
}

// drawLayer renders one element: shadow, then its content laid out at the
// frame's layout size, cross-faded with the snapshot and clipped to the
// frame's rounded rectangle.
func (s *Stack) drawLayer(dst *ebiten.Image, l *layer) {
	f := l.frame
	if f.Opacity <= 0 || f.Rect.IsEmpty() || f.LayoutSize.X <= 0 || f.LayoutSize.Y <= 0 {
		return
	}
	w := int(math.Ceil(f.LayoutSize.X))
	h := int(math.Ceil(f.LayoutSize.Y))
	canvas := s.texPool.Acquire(w, h)
	defer s.texPool.Release(canvas)
	sub := canvas.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image)

	if l.content != nil {
		l.content.Draw(sub)
	}
	if snap := l.transition.ctx.Snapshot; snap != nil && f.SnapshotOpacity > 0 {
		sb := snap.Bounds()
		if sb.Dx() > 0 && sb.Dy() > 0 {
			var op ebiten.DrawImageOptions
			op.GeoM.Translate(-float64(sb.Min.X), -float64(sb.Min.Y))
			op.GeoM.Scale(f.LayoutSize.X/float64(sb.Dx()), f.LayoutSize.Y/float64(sb.Dy()))
			op.ColorScale.ScaleAlpha(float32(f.SnapshotOpacity))
			op.Filter = ebiten.FilterLinear
			sub.DrawImage(snap, &op)
		}
	}

	if f.HasShadow {
		s.drawShadow(dst, f)
	}

	kx := f.LayoutSize.X / f.Rect.Width
	ky := f.LayoutSize.Y / f.Rect.Height
	src := func(p Vec2) (float32, float32) {
		return float32((p.X - f.Rect.X) * kx), float32((p.Y - f.Rect.Y) * ky)
	}
	o := float32(f.Opacity)
	s.outline = roundedRectPoints(s.outline[:0], f.Rect, f.ClipRadius, f.CornerStyle)
	s.verts, s.inds = fanTriangles(s.verts, s.inds, s.outline, f.Rect.Center(), src, o, o, o, o)
	dst.DrawTriangles(s.verts, s.inds, sub, &ebiten.DrawTrianglesOptions{Filter: ebiten.FilterLinear})
}
