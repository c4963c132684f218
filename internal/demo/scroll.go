package demo

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/flowstack"
)

const rowHeight = 44.0

var rowAlt = color.RGBA{R: 248, G: 248, B: 250, A: 255}

// ScrollList is a vertically scrolling list of text rows. Dragging inside
// it scrolls; it rests at offset 0.
type ScrollList struct {
	rows   []string
	frame  flowstack.Rect
	offset float64

	dragging bool
	dragID   int
	lastY    float64
}

// NewScrollList creates a list of rows.
func NewScrollList(rows []string) *ScrollList {
	return &ScrollList{rows: rows}
}

// SetFrame positions the list in its parent's layout coordinates.
func (s *ScrollList) SetFrame(r flowstack.Rect) {
	s.frame = r
	s.offset = s.clamp(s.offset)
}

// ScrollOffset implements flowstack.ScrollRegion.
func (s *ScrollList) ScrollOffset() float64 { return s.offset }

// TopInset implements flowstack.ScrollRegion.
func (s *ScrollList) TopInset() float64 { return 0 }

// ScrollToTop implements flowstack.ScrollToTopper.
func (s *ScrollList) ScrollToTop() { s.offset = 0 }

// ScrollBy moves the content by dy, clamped to the scrollable range.
func (s *ScrollList) ScrollBy(dy float64) { s.offset = s.clamp(s.offset + dy) }

func (s *ScrollList) maxOffset() float64 {
	return math.Max(0, float64(len(s.rows))*rowHeight-s.frame.Height)
}

func (s *ScrollList) clamp(v float64) float64 {
	return math.Min(math.Max(v, 0), s.maxOffset())
}

// HandlePointer implements flowstack.PointerHandler. Dragging up reveals
// later rows.
func (s *ScrollList) HandlePointer(ev flowstack.PointerEvent) bool {
	switch ev.Phase {
	case flowstack.PointerDown:
		if !s.frame.Contains(ev.X, ev.Y) {
			return false
		}
		s.dragging = true
		s.dragID = ev.PointerID
		s.lastY = ev.Y
		return true
	case flowstack.PointerMove:
		if !s.dragging || ev.PointerID != s.dragID {
			return false
		}
		s.ScrollBy(s.lastY - ev.Y)
		s.lastY = ev.Y
		return true
	case flowstack.PointerUp, flowstack.PointerCancel:
		if !s.dragging || ev.PointerID != s.dragID {
			return false
		}
		s.dragging = false
		return true
	}
	return false
}

// Draw implements flowstack.Content.
func (s *ScrollList) Draw(dst *ebiten.Image) {
	if s.frame.IsEmpty() {
		return
	}
	o := dst.Bounds().Min
	x0 := o.X + int(s.frame.X)
	y0 := o.Y + int(s.frame.Y)
	clip, ok := dst.SubImage(image.Rect(x0, y0, x0+int(s.frame.Width), y0+int(s.frame.Height))).(*ebiten.Image)
	if !ok {
		return
	}
	first := int(s.offset / rowHeight)
	for i := first; i < len(s.rows); i++ {
		y := float64(i)*rowHeight - s.offset
		if y > s.frame.Height {
			break
		}
		ry := y0 + int(y)
		if i%2 == 1 {
			row := clip.SubImage(image.Rect(x0, ry, x0+int(s.frame.Width), ry+int(rowHeight))).(*ebiten.Image)
			row.Fill(rowAlt)
		}
		drawText(clip, s.rows[i], false, float64(x0)+gridPad, float64(ry)+12, textColor)
	}
}
