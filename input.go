package flowstack

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	maxPointers = 10 // pointer 0 = mouse, 1-9 = touch
)

// pointerTarget identifies who receives a pointer for the length of a press.
type pointerTarget uint8

const (
	targetNone pointerTarget = iota
	targetRoot
	targetOverlay
	targetLayer
	targetScrim
)

// --- Per-pointer state ---

type pointerState struct {
	down     bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	dragging bool

	target pointerTarget
	layer  *layer
	// stolen is set once the dismiss gesture took the pointer from the
	// layer's content.
	stolen bool
	// injected marks a press started by synthetic input. The real mouse
	// does not release it.
	injected bool
}

// --- Input processing ---

// processInput is called from Stack.Update to handle all mouse and touch
// input. Injected events take precedence over real mouse input.
func (s *Stack) processInput() {
	if !s.processInjectedInput() {
		s.processMousePointer()
	}
	s.processTouchPointers()
}

// processMousePointer handles mouse input (pointer 0).
func (s *Stack) processMousePointer() {
	if s.pointers[0].injected {
		return
	}
	mx, my := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	s.processPointer(0, float64(mx), float64(my), pressed)
}

// processTouchPointers handles touch input (pointers 1-9).
func (s *Stack) processTouchPointers() {
	touchIDs := ebiten.AppendTouchIDs(s.prevTouchIDs[:0])
	s.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := s.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true

		tx, ty := ebiten.TouchPosition(tid)
		s.processPointer(slot, float64(tx), float64(ty), true)
	}

	// Release any touch slots that are no longer active.
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && !activeSlots[i] {
			ps := &s.pointers[i]
			if ps.down {
				s.processPointer(i, ps.lastX, ps.lastY, false)
			}
			s.touchUsed[i] = false
			s.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (s *Stack) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && s.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !s.touchUsed[i] {
			s.touchUsed[i] = true
			s.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// processPointer runs the pointer state machine for a single pointer.
// Coordinates are global.
func (s *Stack) processPointer(pointerID int, x, y float64, pressed bool) {
	ps := &s.pointers[pointerID]

	switch {
	case pressed && !ps.down:
		*ps = pointerState{down: true, startX: x, startY: y, lastX: x, lastY: y}
		s.pointerDown(ps, pointerID, x, y)
	case pressed && ps.down:
		if x == ps.lastX && y == ps.lastY {
			return
		}
		if !ps.dragging && math.Hypot(x-ps.startX, y-ps.startY) > s.cfg.Dismiss.DragDeadZone {
			ps.dragging = true
		}
		s.pointerMove(ps, pointerID, x, y)
		ps.lastX = x
		ps.lastY = y
	case !pressed && ps.down:
		s.pointerUp(ps, pointerID, x, y)
		*ps = pointerState{lastX: x, lastY: y}
	}
}

// pointerDown picks the receiver of a new press: the overlay if it
// consumes the press, otherwise the topmost live layer, the scrim around
// it, or the root when nothing is presented.
func (s *Stack) pointerDown(ps *pointerState, id int, x, y float64) {
	ev := PointerEvent{Phase: PointerDown, PointerID: id, X: x - s.bounds.X, Y: y - s.bounds.Y}
	if sendPointer(s.overlay, ev) {
		ps.target = targetOverlay
		return
	}

	top := s.topLive()
	if top == nil {
		ps.target = targetRoot
		sendPointer(s.root, ev)
		return
	}
	if !top.frame.Rect.Contains(x, y) {
		if top.transition.ctx.ShowsScrim {
			ps.target = targetScrim
		}
		return
	}
	ps.target = targetLayer
	ps.layer = top
	top.dismiss.PointerDown(id, x, y)
	sendPointer(top.content, layerEvent(top, PointerDown, id, x, y))
}

func (s *Stack) pointerMove(ps *pointerState, id int, x, y float64) {
	switch ps.target {
	case targetOverlay:
		sendPointer(s.overlay, PointerEvent{Phase: PointerMove, PointerID: id, X: x - s.bounds.X, Y: y - s.bounds.Y})
	case targetRoot:
		sendPointer(s.root, PointerEvent{Phase: PointerMove, PointerID: id, X: x - s.bounds.X, Y: y - s.bounds.Y})
	case targetLayer:
		l := ps.layer
		if l.dismiss.PointerMove(id, x, y) {
			s.steal(ps, id, x, y)
			return
		}
		if ps.stolen {
			return
		}
		if l.departing {
			s.steal(ps, id, x, y)
			return
		}
		sendPointer(l.content, layerEvent(l, PointerMove, id, x, y))
	}
}

// steal cancels the press for the layer's content once.
func (s *Stack) steal(ps *pointerState, id int, x, y float64) {
	if ps.stolen {
		return
	}
	ps.stolen = true
	sendPointer(ps.layer.content, layerEvent(ps.layer, PointerCancel, id, x, y))
}

func (s *Stack) pointerUp(ps *pointerState, id int, x, y float64) {
	switch ps.target {
	case targetOverlay:
		sendPointer(s.overlay, PointerEvent{Phase: PointerUp, PointerID: id, X: x - s.bounds.X, Y: y - s.bounds.Y})
	case targetRoot:
		sendPointer(s.root, PointerEvent{Phase: PointerUp, PointerID: id, X: x - s.bounds.X, Y: y - s.bounds.Y})
	case targetLayer:
		l := ps.layer
		// The layer may depart while the content handles the release, so
		// route to the content first.
		if !ps.stolen && !l.dismiss.Tracking() {
			sendPointer(l.content, layerEvent(l, PointerUp, id, x, y))
		}
		if l.dismiss.PointerUp(id, x, y) {
			s.steal(ps, id, x, y)
		}
	case targetScrim:
		top := s.topLive()
		if !ps.dragging && top != nil && !top.frame.Rect.Contains(x, y) {
			s.Dismiss()
		}
	}
}

// layerEvent converts a global point to the layer content's layout
// coordinates.
func layerEvent(l *layer, phase PointerPhase, id int, x, y float64) PointerEvent {
	lx, ly := l.frame.ToLocal(x, y)
	return PointerEvent{Phase: phase, PointerID: id, X: lx, Y: ly}
}

func sendPointer(c Content, ev PointerEvent) bool {
	if h, ok := c.(PointerHandler); ok {
		return h.HandlePointer(ev)
	}
	return false
}
