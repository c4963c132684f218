package flowstack

import (
	"image"
	"log/slog"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// LinkState is the lifecycle state of a Link.
type LinkState uint8

const (
	LinkIdle      LinkState = iota // value not presented
	LinkCapturing                  // activated, snapshot capture pending
	LinkPresented                  // value presented at the link's depth
)

// pressedScale is the label scale while a press is held on a link.
const pressedScale = 0.97

// LinkConfig configures how a Link presents its value.
type LinkConfig struct {
	// AnimateFromAnchor zooms the destination out of the link's bounds.
	// When false the destination fades in full screen.
	AnimateFromAnchor bool
	// TransitionFromSnapshot freezes the label into an image that is
	// cross-faded over the destination at the start of the transition.
	TransitionFromSnapshot bool
	// AsyncSnapshot captures the snapshot on the next update instead of
	// during activation.
	AsyncSnapshot bool

	CornerRadius float64
	CornerStyle  CornerStyle
	ShadowRadius float64
	ShadowColor  *Color
	ShadowOffset Vec2

	ZoomStyle  ZoomStyle
	ShowsScrim bool

	SwipeUpToDismiss      bool
	TransitionWithOpacity bool
}

// DefaultLinkConfig returns a config that zooms from the anchor with a
// snapshot cross-fade and a scrim.
func DefaultLinkConfig() LinkConfig {
	return LinkConfig{
		AnimateFromAnchor:      true,
		TransitionFromSnapshot: true,
		ZoomStyle:              ZoomScaleHorizontally,
		ShowsScrim:             true,
	}
}

// Link is a tappable label that presents a value on its stack. Parent
// content positions it with SetBounds, forwards pointer events to
// HandlePointer, and draws it with Draw.
type Link struct {
	env   *Env
	value Value
	label Content
	cfg   LinkConfig

	frame  Rect
	anchor *Rect

	ctx *PathContext

	pressed   bool
	pressID   int
	pressOver bool
	scratch   *ebiten.Image
}

// NewLink creates a link that presents v from env's depth.
func NewLink(env *Env, v Value, label Content, cfg LinkConfig) *Link {
	l := &Link{env: env, value: v, label: label, cfg: cfg}
	debugCheckLink(l, "NewLink")
	return l
}

// Value returns the value the link presents.
func (l *Link) Value() Value { return l.value }

// Bounds returns the link's bounds in its parent's layout coordinates.
func (l *Link) Bounds() Rect { return l.frame }

// SetBounds positions the link in its parent's layout coordinates.
func (l *Link) SetBounds(r Rect) { l.frame = r }

// SetAnimationAnchor restricts the zoom source to a sub-region of the
// label, in label coordinates. The snapshot is cropped to the same region.
func (l *Link) SetAnimationAnchor(r Rect) {
	l.anchor = &r
}

// ClearAnimationAnchor zooms from the whole label again.
func (l *Link) ClearAnimationAnchor() { l.anchor = nil }

// State returns the link's lifecycle state.
func (l *Link) State() LinkState {
	if l.ctx != nil && l.ctx.capturing {
		return LinkCapturing
	}
	if l.IsPresented() {
		return LinkPresented
	}
	return LinkIdle
}

// IsPresented reports whether the link's value is presented at the link's
// depth. Links in the overlay match any depth.
func (l *Link) IsPresented() bool {
	p := l.env.path()
	if p == nil {
		return false
	}
	depth := l.env.Depth()
	if depth < 0 {
		return p.Contains(l.value, nil)
	}
	return p.ContainsAt(l.value, depth)
}

// Activate presents the link's value. It does nothing and returns false
// when the link is detached from a stack or when another link at the same
// depth already presented something.
func (l *Link) Activate() bool {
	debugCheckLink(l, "Activate")
	p := l.env.path()
	if p == nil || l.value == nil {
		return false
	}
	depth := l.env.Depth()
	if p.HasLinkDepth(depth) {
		Logger().Debug("flowstack: link suppressed, depth already presenting", slog.Int("depth", depth))
		return false
	}

	ctx := &PathContext{
		LinkDepth:             depth,
		CornerRadius:          l.cfg.CornerRadius,
		CornerStyle:           l.cfg.CornerStyle,
		ShadowRadius:          l.cfg.ShadowRadius,
		ShadowColor:           l.cfg.ShadowColor,
		ShadowOffset:          l.cfg.ShadowOffset,
		ShowsScrim:            l.cfg.ShowsScrim,
		ScaleHorizontally:     l.cfg.ZoomStyle == ZoomScaleHorizontally,
		SwipeUpToDismiss:      l.cfg.SwipeUpToDismiss,
		TransitionWithOpacity: l.cfg.TransitionWithOpacity,
	}
	if l.cfg.AnimateFromAnchor {
		g := l.env.toGlobal(l.frame)
		ctx.Anchor = &g
		if l.anchor != nil {
			o := l.env.toGlobal(l.anchor.Offset(l.frame.X, l.frame.Y))
			ctx.OverrideAnchor = &o
		}
		if l.cfg.TransitionFromSnapshot {
			if s := l.env.Stack(); l.cfg.AsyncSnapshot && s != nil {
				ctx.capturing = true
				s.deferJob(func() {
					l.capture(ctx)
					ctx.capturing = false
				})
			} else {
				l.capture(ctx)
			}
		}
	}
	l.ctx = ctx
	p.AppendWithContext(l.value, ctx)
	return true
}

// capture fills ctx.Snapshot. Failures leave the snapshot empty and the
// transition runs without a cross-fade.
func (l *Link) capture(ctx *PathContext) {
	var r Rasterizer = ImageRasterizer{}
	if s := l.env.Stack(); s != nil && s.rasterizer != nil {
		r = s.rasterizer
	}
	img, err := r.Rasterize(l.label, l.frame.Size(), l.anchor)
	if err != nil {
		Logger().Warn("flowstack: snapshot failed", slog.Any("err", err))
		return
	}
	ctx.Snapshot = img
}

// HandlePointer implements PointerHandler with touch-up-inside semantics.
// Event coordinates are in the parent's layout coordinates.
func (l *Link) HandlePointer(ev PointerEvent) bool {
	inside := l.frame.Contains(ev.X, ev.Y)
	switch ev.Phase {
	case PointerDown:
		if !inside || l.pressed {
			return false
		}
		l.pressed = true
		l.pressID = ev.PointerID
		l.pressOver = true
		return true
	case PointerMove:
		if !l.pressed || ev.PointerID != l.pressID {
			return false
		}
		l.pressOver = inside
		return true
	case PointerUp:
		if !l.pressed || ev.PointerID != l.pressID {
			return false
		}
		l.pressed = false
		l.pressOver = false
		if inside {
			l.Activate()
		}
		return true
	case PointerCancel:
		if !l.pressed || ev.PointerID != l.pressID {
			return false
		}
		l.pressed = false
		l.pressOver = false
		return true
	}
	return false
}

// Pressed reports whether a press is held over the link.
func (l *Link) Pressed() bool { return l.pressed && l.pressOver }

// Draw renders the label into its bounds on dst. While the destination it
// zoomed out of is on screen, including its way back, the link leaves its
// bounds empty so the destination appears to have lifted out of it.
func (l *Link) Draw(dst *ebiten.Image) {
	if l.label == nil || l.frame.IsEmpty() {
		return
	}
	if l.cfg.AnimateFromAnchor && (l.IsPresented() || l.env.Stack().onScreen(l.ctx)) {
		return
	}
	origin := dst.Bounds().Min
	x := float64(origin.X) + l.frame.X
	y := float64(origin.Y) + l.frame.Y

	if !l.Pressed() {
		r := image.Rect(int(math.Floor(x)), int(math.Floor(y)),
			int(math.Ceil(x+l.frame.Width)), int(math.Ceil(y+l.frame.Height)))
		sub, ok := dst.SubImage(r).(*ebiten.Image)
		if ok {
			l.label.Draw(sub)
		}
		return
	}

	w := int(math.Ceil(l.frame.Width))
	h := int(math.Ceil(l.frame.Height))
	if l.scratch == nil || l.scratch.Bounds().Dx() != w || l.scratch.Bounds().Dy() != h {
		if l.scratch != nil {
			l.scratch.Deallocate()
		}
		l.scratch = ebiten.NewImage(w, h)
	}
	l.scratch.Clear()
	l.label.Draw(l.scratch)

	var op ebiten.DrawImageOptions
	op.GeoM.Translate(-l.frame.Width/2, -l.frame.Height/2)
	op.GeoM.Scale(pressedScale, pressedScale)
	op.GeoM.Translate(x+l.frame.Width/2, y+l.frame.Height/2)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(l.scratch, &op)
}
