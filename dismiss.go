package flowstack

import (
	"log/slog"
	"math"
)

// DismissState is the state of a DismissCoordinator.
type DismissState uint8

const (
	DismissIdle       DismissState = iota // no gesture
	DismissTracking                       // a pan is driving the pan offset
	DismissCommitting                     // released past threshold, dismissal under way
	DismissCancelling                     // released short of threshold, springing back
)

func (s DismissState) String() string {
	switch s {
	case DismissIdle:
		return "idle"
	case DismissTracking:
		return "tracking"
	case DismissCommitting:
		return "committing"
	case DismissCancelling:
		return "cancelling"
	}
	return "unknown"
}

// DismissCoordinator arbitrates the drag-to-dismiss gesture for one
// presented layer. Two recognizers compete for every press: an edge pan,
// which starts within EdgeWidth of the layer's leading edge and moves right,
// and a free pan anywhere on the layer. The edge pan has priority; the free
// pan only begins once the edge pan has failed.
//
// Over a scroll region the free pan only begins on a downward drag while the
// region rests at its top, so ordinary scrolling wins. The condition is
// re-evaluated on every move: while it fails, the translation origin follows
// the pointer, so a drag that scrolls to the top and keeps pulling starts
// dismissing from that point.
//
// Coordinates are global. Callbacks run synchronously from the pointer
// methods.
type DismissCoordinator struct {
	cfg      DismissConfig
	bounds   Rect
	swipeUp  bool
	scroll   ScrollRegion
	feedback Feedback
	disabled bool

	state    DismissState
	edge     bool
	past     bool
	impacted bool

	// Per-press pointer state. Only one pointer is followed at a time.
	down          bool
	pointerID     int
	originX       float64
	originY       float64
	edgeCandidate bool
	translation   Vec2

	// OnPan receives the translation of a tracking gesture.
	OnPan func(translation Vec2)
	// OnDismiss is called when a gesture commits.
	OnDismiss func()
	// OnEnded reports how a tracking gesture ended.
	OnEnded func(committed bool)
}

// NewDismissCoordinator creates an idle coordinator.
func NewDismissCoordinator(cfg DismissConfig) *DismissCoordinator {
	return &DismissCoordinator{cfg: cfg}
}

// State returns the current state.
func (d *DismissCoordinator) State() DismissState { return d.state }

// Tracking reports whether a gesture currently owns the pointer.
func (d *DismissCoordinator) Tracking() bool { return d.state == DismissTracking }

// IsEdgeGesture reports whether the current or last gesture is an edge pan.
func (d *DismissCoordinator) IsEdgeGesture() bool { return d.edge }

// PastThreshold reports whether releasing now would commit.
func (d *DismissCoordinator) PastThreshold() bool { return d.past }

// Translation returns the current gesture translation.
func (d *DismissCoordinator) Translation() Vec2 { return d.translation }

// SetBounds sets the on-screen region gestures may start in.
func (d *DismissCoordinator) SetBounds(r Rect) { d.bounds = r }

// SetSwipeUpToDismiss also commits on an upward drag past the threshold.
func (d *DismissCoordinator) SetSwipeUpToDismiss(on bool) { d.swipeUp = on }

// SetFeedback sets the signal emitted on crossing the threshold.
func (d *DismissCoordinator) SetFeedback(f Feedback) { d.feedback = f }

// Attach locates the nearest scroll region in the layer's content.
func (d *DismissCoordinator) Attach(c Content) {
	d.scroll = findScrollRegion(c)
}

// ScrollRegion returns the attached scroll region, if any.
func (d *DismissCoordinator) ScrollRegion() ScrollRegion { return d.scroll }

// Disabled reports whether recognition is suspended.
func (d *DismissCoordinator) Disabled() bool { return d.disabled }

// SetDisabled suspends or resumes recognition. Disabling cancels a tracking
// gesture; a committing gesture is never interrupted.
func (d *DismissCoordinator) SetDisabled(disabled bool) {
	d.disabled = disabled
	if disabled {
		d.Cancel()
	}
}

// Cancel ends a tracking gesture as if it was released short of the
// threshold.
func (d *DismissCoordinator) Cancel() {
	if d.state == DismissTracking {
		d.end(false)
	}
}

// Settle returns a cancelling coordinator to idle. Call it once the pan
// offset has sprung back.
func (d *DismissCoordinator) Settle() {
	if d.state == DismissCancelling {
		d.state = DismissIdle
	}
}

// Reset returns the coordinator to idle from any state.
func (d *DismissCoordinator) Reset() {
	d.state = DismissIdle
	d.down = false
	d.past = false
	d.edge = false
	d.translation = Vec2{}
}

func (d *DismissCoordinator) canBegin() bool {
	return !d.disabled && (d.state == DismissIdle || d.state == DismissCancelling)
}

// PointerDown starts following a press.
func (d *DismissCoordinator) PointerDown(id int, x, y float64) {
	if d.down || !d.canBegin() || !d.bounds.Contains(x, y) {
		return
	}
	d.down = true
	d.pointerID = id
	d.originX = x
	d.originY = y
	d.edgeCandidate = x-d.bounds.X <= d.cfg.EdgeWidth
	d.translation = Vec2{}
}

// PointerMove feeds a move of a held pointer. It reports whether the
// coordinator owns the pointer, in which case the content must not see the
// event.
func (d *DismissCoordinator) PointerMove(id int, x, y float64) bool {
	if !d.down || id != d.pointerID {
		return false
	}
	if d.state == DismissTracking {
		d.track(x, y)
		return true
	}
	if !d.canBegin() {
		return false
	}

	dx, dy := x-d.originX, y-d.originY
	if math.Hypot(dx, dy) <= d.cfg.DragDeadZone {
		return false
	}

	if d.edgeCandidate {
		if dx > 0 && math.Abs(dx) >= math.Abs(dy) {
			d.begin(true, x, y)
			return true
		}
		d.edgeCandidate = false
	}

	if d.scroll != nil && !d.scrollAllowsBegin(dy) {
		// Scrolling wins for now. Rebase so a later pull starts from here.
		d.originX = x
		d.originY = y
		return false
	}
	d.begin(false, x, y)
	return true
}

func (d *DismissCoordinator) scrollAllowsBegin(dy float64) bool {
	if dy <= 0 {
		return false
	}
	return d.scroll.ScrollOffset() <= d.scroll.TopInset()+d.cfg.ScrollEpsilon
}

func (d *DismissCoordinator) begin(edge bool, x, y float64) {
	d.state = DismissTracking
	d.edge = edge
	d.past = false
	d.impacted = false
	Logger().Debug("flowstack: dismiss gesture began", slog.Bool("edge", edge))
	d.track(x, y)
}

func (d *DismissCoordinator) track(x, y float64) {
	d.translation = Vec2{x - d.originX, y - d.originY}
	if d.OnPan != nil {
		d.OnPan(d.translation)
	}
	past := d.pastThreshold(d.translation)
	if past && !d.past && !d.impacted {
		d.impacted = true
		if d.feedback != nil {
			d.feedback.Impact()
		}
	}
	d.past = past
}

func (d *DismissCoordinator) pastThreshold(t Vec2) bool {
	th := d.cfg.Threshold
	return t.Y > th || (t.X > th && d.edge) || (d.swipeUp && t.Y < -th)
}

// PointerUp ends a press. It reports whether the coordinator owned the
// pointer.
func (d *DismissCoordinator) PointerUp(id int, x, y float64) bool {
	if !d.down || id != d.pointerID {
		return false
	}
	d.down = false
	if d.state != DismissTracking {
		return false
	}
	d.track(x, y)
	d.end(d.past)
	return true
}

// PointerCancel abandons a press. A tracking gesture ends as if released
// short of the threshold.
func (d *DismissCoordinator) PointerCancel(id int) {
	if !d.down || id != d.pointerID {
		return
	}
	d.down = false
	if d.state == DismissTracking {
		d.end(false)
	}
}

func (d *DismissCoordinator) end(commit bool) {
	d.down = false
	if commit {
		d.state = DismissCommitting
		Logger().Debug("flowstack: dismiss committed")
		if d.OnDismiss != nil {
			d.OnDismiss()
		}
		if d.OnEnded != nil {
			d.OnEnded(true)
		}
		if st, ok := d.scroll.(ScrollToTopper); ok {
			st.ScrollToTop()
		}
		return
	}
	d.state = DismissCancelling
	d.past = false
	Logger().Debug("flowstack: dismiss cancelled")
	if d.OnEnded != nil {
		d.OnEnded(false)
	}
}
