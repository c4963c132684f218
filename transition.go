package flowstack

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Animation is the curve used for push and pop transitions.
type Animation struct {
	// Duration in seconds.
	Duration float32
	Ease     ease.TweenFunc
}

// DefaultAnimation returns the default push/pop curve: a short ease-out
// with a slight overshoot.
func DefaultAnimation() Animation {
	return Animation{Duration: DefaultDuration, Ease: ease.OutBack}
}

// Transition constants.
const (
	// detachedInsetX and detachedInsetY shrink the container to get the
	// source rectangle of elements that have no anchor.
	detachedInsetX = 50.0
	detachedInsetY = 100.0
	// snapshotFadeEnd is the progress at which the snapshot is fully faded.
	snapshotFadeEnd = 0.2
	// maxPullFactor is the largest size reduction a downward drag causes.
	maxPullFactor = 0.1
	// pullDistance is the drag distance at which the pull factor saturates.
	pullDistance = 200.0
	// panForeshortening divides the drag translation applied to the frame.
	panForeshortening = 3.0
	// continuousStyleProgress is the progress past which corners switch to
	// the continuous style.
	continuousStyleProgress = 0.5
	// panResetDuration is the time the pan offset takes to spring back.
	panResetDuration = 0.24
)

// Geometry is the layout state a Frame is computed against.
type Geometry struct {
	// Container is the stack's bounds in global coordinates.
	Container Rect
	SizeClass SizeClass
	Sheet     SheetConfig
	// DisplayCornerRadius is the radius a fully presented element
	// approaches.
	DisplayCornerRadius float64
}

// Shadow describes the drop shadow drawn under a transitioning element.
type Shadow struct {
	Radius float64
	Color  Color
	Offset Vec2
}

// Frame is the visual state of a transitioning element for one value of
// progress.
type Frame struct {
	Progress float64

	// Rect is the on-screen rectangle in global coordinates.
	Rect Rect
	// LayoutSize is the size the content is laid out at before ScaleRatio
	// is applied. LayoutSize scaled by ScaleRatio equals Rect's size.
	LayoutSize Vec2
	ScaleRatio float64

	// CornerRadius is the interpolated radius in screen space.
	CornerRadius float64
	// ClipRadius is the radius actually used to clip: zero once a
	// fullscreen element has fully arrived and has not been dragged.
	ClipRadius  float64
	CornerStyle CornerStyle

	// SnapshotOpacity is the opacity of the link snapshot drawn over the
	// live content. Zero when there is no snapshot.
	SnapshotOpacity float64
	// Opacity of the whole element.
	Opacity float64

	Shadow    Shadow
	HasShadow bool
}

// ToLocal converts a global point to the content's layout coordinates.
func (f Frame) ToLocal(x, y float64) (float64, float64) {
	s := f.ScaleRatio
	if s <= 0 {
		s = 1
	}
	return (x - f.Rect.X) / s, (y - f.Rect.Y) / s
}

// PresentationSize returns the size a fully presented element occupies in a
// container of the given size. In the regular size class, when the
// container is wide enough, the element becomes a centered sheet bounded by
// the sheet's maximum size; otherwise it fills the container.
func PresentationSize(container Vec2, class SizeClass, sheet SheetConfig) Vec2 {
	if isSheet(container, class, sheet) {
		h := math.Min(sheet.MaxHeight, container.Y-2*sheet.MinMargin)
		return Vec2{sheet.MaxWidth, math.Max(0, h)}
	}
	return container
}

func isSheet(container Vec2, class SizeClass, sheet SheetConfig) bool {
	return class.resolve(container.X) == SizeClassRegular &&
		container.X-2*sheet.MinMargin >= sheet.MaxWidth
}

// PullFactor returns how much a drag of the given translation damps size
// growth, in [0, 0.1]. It grows with the downward drag distance and
// saturates at 200 pixels.
func PullFactor(pan Vec2) float64 {
	return maxPullFactor * clamp01(pan.Y/pullDistance)
}

// SnapshotOpacity returns the opacity of the link snapshot at progress p:
// 1 at p=0, falling linearly to 0 at p=0.2 and staying 0 beyond.
func SnapshotOpacity(p float64) float64 {
	return math.Max(0, 1-p/snapshotFadeEnd)
}

// InterpolateCornerRadius moves from the link's corner radius at p=0 to the
// display's corner radius at p=1.
func InterpolateCornerRadius(from, display, p float64) float64 {
	return from + (display-from)*p
}

// ZoomRect returns the element's on-screen rectangle at progress p. source
// is the anchor in global coordinates (nil for detached elements), target is
// the presentation size, and pan is the interactive drag translation.
//
// The center moves linearly from the source center to the container center
// and follows a third of the drag. The size grows from the source size to
// target, damped by PullFactor while dragging.
func ZoomRect(container Rect, source *Rect, target Vec2, p float64, pan Vec2) Rect {
	var src Rect
	if source != nil {
		src = *source
	} else {
		src = container.Inset(detachedInsetX, detachedInsetY)
	}
	sc := src.Center()
	cc := container.Center()
	center := Vec2{
		X: lerp(sc.X, cc.X, p) + pan.X/panForeshortening,
		Y: lerp(sc.Y, cc.Y, p) + pan.Y/panForeshortening,
	}
	grow := math.Max(0, p) * (1 - PullFactor(pan))
	w := src.Width + (target.X-src.Width)*grow
	h := src.Height + (target.Y-src.Height)*grow
	return RectFromCenter(center, w, h)
}

// Transition animates one element between its anchor (progress 0) and its
// full presentation (progress 1), and tracks the interactive drag offset.
// Call Update each tick; Frame computes the geometry for the current state.
type Transition struct {
	ctx  *PathContext
	anim Animation

	progress float64
	target   float64
	tween    *gween.Tween

	pan      Vec2
	panTween *panAnim

	snapCornerZero bool
}

// panAnim springs the pan offset back to zero.
type panAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// NewTransition creates a transition collapsed at its anchor (progress 0).
func NewTransition(ctx *PathContext, anim Animation) *Transition {
	if ctx == nil {
		ctx = &PathContext{}
	}
	if anim.Ease == nil {
		anim.Ease = ease.Linear
	}
	return &Transition{ctx: ctx, anim: anim, snapCornerZero: true}
}

// Context returns the element's transition context.
func (t *Transition) Context() *PathContext { return t.ctx }

// Progress returns the current progress. Overshooting easings may take it
// slightly outside [0, 1].
func (t *Transition) Progress() float64 { return t.progress }

// Target returns the progress the transition is animating toward.
func (t *Transition) Target() float64 { return t.target }

// Animating reports whether the progress or pan offset is still moving.
func (t *Transition) Animating() bool {
	return t.tween != nil || t.panTween != nil
}

// PanSettled reports whether the pan offset is at rest.
func (t *Transition) PanSettled() bool { return t.panTween == nil }

// AnimateTo animates progress from its current value to target. Calling it
// while a previous animation is in flight retargets that animation from
// wherever it currently is.
func (t *Transition) AnimateTo(target float64) {
	if t.target == target && (t.tween != nil || t.progress == target) {
		return
	}
	t.target = target
	if t.anim.Duration <= 0 {
		t.progress = target
		t.tween = nil
		return
	}
	t.tween = gween.New(float32(t.progress), float32(target), t.anim.Duration, t.anim.Ease)
}

// SetProgress jumps to p and stops any running progress animation.
func (t *Transition) SetProgress(p float64) {
	t.progress = p
	t.target = p
	t.tween = nil
}

// PanOffset returns the current drag translation.
func (t *Transition) PanOffset() Vec2 { return t.pan }

// SetPanOffset applies a live drag translation.
func (t *Transition) SetPanOffset(v Vec2) {
	t.pan = v
	t.panTween = nil
	t.snapCornerZero = false
}

// ResetPanOffset springs the drag translation back to zero.
func (t *Transition) ResetPanOffset() {
	if t.pan == (Vec2{}) {
		t.panTween = nil
		return
	}
	t.panTween = &panAnim{
		tweenX: gween.New(float32(t.pan.X), 0, panResetDuration, ease.OutCubic),
		tweenY: gween.New(float32(t.pan.Y), 0, panResetDuration, ease.OutCubic),
	}
}

// Update advances the progress and pan animations by dt seconds.
func (t *Transition) Update(dt float32) {
	if t.tween != nil {
		val, done := t.tween.Update(dt)
		t.progress = float64(val)
		if done {
			t.progress = t.target
			t.tween = nil
		}
	}
	if a := t.panTween; a != nil {
		if !a.doneX {
			val, done := a.tweenX.Update(dt)
			t.pan.X = float64(val)
			a.doneX = done
		}
		if !a.doneY {
			val, done := a.tweenY.Update(dt)
			t.pan.Y = float64(val)
			a.doneY = done
		}
		if a.doneX && a.doneY {
			t.pan = Vec2{}
			t.panTween = nil
			t.snapCornerZero = true
		}
	}
}

// Frame computes the element's visual state for the current progress and
// drag offset.
func (t *Transition) Frame(g Geometry) Frame {
	return computeFrame(t.ctx, g, t.progress, t.pan, t.snapCornerZero)
}

func computeFrame(ctx *PathContext, g Geometry, p float64, pan Vec2, snapCornerZero bool) Frame {
	container := g.Container
	csize := container.Size()
	target := PresentationSize(csize, g.SizeClass, g.Sheet)
	rect := ZoomRect(container, ctx.SourceAnchor(), target, p, pan)

	f := Frame{
		Progress:   p,
		Rect:       rect,
		ScaleRatio: 1,
		LayoutSize: rect.Size(),
		Opacity:    1,
	}

	if ctx.ScaleHorizontally && csize.X > 0 && rect.Width > 0 {
		f.ScaleRatio = rect.Width / csize.X
		f.LayoutSize = Vec2{csize.X, rect.Height / f.ScaleRatio}
	}

	f.CornerRadius = InterpolateCornerRadius(ctx.CornerRadius, g.DisplayCornerRadius, p)
	f.ClipRadius = f.CornerRadius
	if snapCornerZero && p >= 1 && !isSheet(csize, g.SizeClass, g.Sheet) {
		f.ClipRadius = 0
	}
	f.CornerStyle = ctx.CornerStyle
	if p > continuousStyleProgress {
		f.CornerStyle = CornerContinuous
	}

	if ctx.Snapshot != nil && p < 1 {
		f.SnapshotOpacity = SnapshotOpacity(p)
	}

	if ctx.IsDetached() || ctx.TransitionWithOpacity {
		f.Opacity = clamp01(p)
	}

	if ctx.ShadowRadius > 0 || ctx.ShadowColor != nil {
		f.HasShadow = ctx.ShadowColor != nil
		f.Shadow = Shadow{Radius: ctx.ShadowRadius, Offset: ctx.ShadowOffset}
		if ctx.ShadowColor != nil {
			f.Shadow.Color = *ctx.ShadowColor
		}
	}
	return f
}
