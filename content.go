package flowstack

import "github.com/hajimehoshi/ebiten/v2"

// Content is anything a Stack draws: the root view, destinations, link
// labels, and the overlay. Draw renders into dst, whose bounds are the
// layout size with the origin at dst.Bounds().Min.
type Content interface {
	Draw(dst *ebiten.Image)
}

// ContentFunc adapts a plain function to Content.
type ContentFunc func(dst *ebiten.Image)

// Draw calls f(dst).
func (f ContentFunc) Draw(dst *ebiten.Image) { f(dst) }

// Updater is implemented by content that advances state once per tick.
type Updater interface {
	Update(dt float64) error
}

// PointerPhase identifies the stage of a pointer interaction.
type PointerPhase uint8

const (
	PointerDown   PointerPhase = iota // pointer pressed
	PointerMove                       // pointer moved while pressed
	PointerUp                         // pointer released
	PointerCancel                     // interaction taken over (e.g. by a dismiss gesture)
)

// PointerEvent carries one pointer sample in the receiver's local space.
type PointerEvent struct {
	Phase     PointerPhase
	PointerID int
	X, Y      float64
}

// PointerHandler is implemented by content that reacts to pointer input.
// HandlePointer reports whether the event was consumed.
type PointerHandler interface {
	HandlePointer(ev PointerEvent) bool
}

// ScrollRegion is implemented by scrollable content. The dismiss gesture
// only starts over a scroll region that rests at its top.
type ScrollRegion interface {
	// ScrollOffset is the current vertical content offset.
	ScrollOffset() float64
	// TopInset is the offset at which the content rests at its top.
	TopInset() float64
}

// ScrollToTopper is implemented by scroll regions that can be reset to the
// top when their layer is dismissed.
type ScrollToTopper interface {
	ScrollToTop()
}

// Parent is implemented by composite content so the dismiss coordinator can
// find a nested ScrollRegion.
type Parent interface {
	Children() []Content
}

// findScrollRegion returns the nearest ScrollRegion in c, searching c itself
// and then its descendants breadth-first.
func findScrollRegion(c Content) ScrollRegion {
	queue := []Content{c}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == nil {
			continue
		}
		if sr, ok := cur.(ScrollRegion); ok {
			return sr
		}
		if p, ok := cur.(Parent); ok {
			queue = append(queue, p.Children()...)
		}
	}
	return nil
}
