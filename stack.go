package flowstack

import (
	"image"
	"log/slog"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// Stack presents the values of a Path over a root content. Each element
// gets a layer that zooms out of the link that presented it and can be
// dragged away. Call Update and Draw from an ebiten.Game, or use Run.
type Stack struct {
	cfg  Config
	anim Animation

	root       Content
	rootEnv    *Env
	overlay    Content
	overlayEnv *Env

	registry   *Registry
	path       *Path
	pathHandle CallbackHandle

	metrics    DeviceMetrics
	feedback   Feedback
	rasterizer Rasterizer

	bounds    Rect
	sizeClass SizeClass

	// layers is ordered bottom to top.
	layers []*layer
	jobs   []func()
	// hooks holds present and dismiss callbacks collected while layers are
	// being rebuilt. They run once the layer list is consistent.
	hooks []func()

	// Input state
	pointers     [maxPointers]pointerState
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID
	injectQueue  []syntheticPointerEvent

	// Render buffers
	texPool texturePool
	outline []Vec2
	verts   []ebiten.Vertex
	inds    []uint16

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir   string
	screenshotQueue []string
	testRunner      *TestRunner

	debug     bool
	lastStats debugStats
}

// layer is the on-screen state of one path element. Departing layers
// stay in the stack until their transition returns to progress 0.
type layer struct {
	elem       Element
	key        ElementKey
	env        *Env
	content    Content
	transition *Transition
	dismiss    *DismissCoordinator
	frame      Frame

	departing bool
	presented bool
	onPresent []func()
	onDismiss []func()
}

// NewStack creates a stack with an empty path. An invalid config is
// replaced by DefaultConfig.
func NewStack(cfg Config) *Stack {
	if err := cfg.Validate(); err != nil {
		Logger().Warn("flowstack: using default config", slog.Any("err", err))
		cfg = DefaultConfig()
	}
	s := &Stack{
		cfg:           cfg,
		anim:          cfg.animation(),
		registry:      NewRegistry(),
		sizeClass:     cfg.sizeClass(),
		feedback:      VibrateFeedback{},
		rasterizer:    ImageRasterizer{},
		ScreenshotDir: "screenshots",
	}
	s.rootEnv = &Env{stack: s, depth: 0}
	s.overlayEnv = &Env{stack: s, depth: -1}
	s.SetPath(NewPath())
	return s
}

// Config returns the stack's configuration.
func (s *Stack) Config() Config { return s.cfg }

// Registry returns the destination registry.
func (s *Stack) Registry() *Registry { return s.registry }

// Path returns the path the stack presents.
func (s *Stack) Path() *Path { return s.path }

// SetPath makes the stack present an externally owned path. Layers of the
// previous path are dropped without animation.
func (s *Stack) SetPath(p *Path) {
	if p == nil {
		p = NewPath()
	}
	s.pathHandle.Remove()
	for _, l := range s.layers {
		l.dismiss.Cancel()
	}
	s.layers = nil
	s.path = p
	s.pathHandle = p.OnChange(func(PathChange) { s.sync() })
	s.sync()
	for _, l := range s.layers {
		l.transition.SetProgress(1)
		l.frame = l.transition.Frame(s.geometry())
	}
}

// RootEnv returns the env for root content (depth 0).
func (s *Stack) RootEnv() *Env { return s.rootEnv }

// SetRoot sets the content drawn beneath all layers.
func (s *Stack) SetRoot(c Content) { s.root = c }

// OverlayEnv returns the env for overlay content (depth -1).
func (s *Stack) OverlayEnv() *Env { return s.overlayEnv }

// SetOverlay sets content drawn above all layers. Overlay content receives
// pointer events first.
func (s *Stack) SetOverlay(c Content) { s.overlay = c }

// SetMetrics sets the device metrics provider.
func (s *Stack) SetMetrics(m DeviceMetrics) { s.metrics = m }

// SetFeedback sets the signal emitted when a dismiss gesture crosses its
// threshold. Nil disables it.
func (s *Stack) SetFeedback(f Feedback) {
	s.feedback = f
	for _, l := range s.layers {
		l.dismiss.SetFeedback(f)
	}
}

// SetRasterizer sets the rasterizer used for link snapshots.
func (s *Stack) SetRasterizer(r Rasterizer) { s.rasterizer = r }

// Bounds returns the container bounds.
func (s *Stack) Bounds() Rect { return s.bounds }

// SetBounds sets the container bounds in global coordinates.
func (s *Stack) SetBounds(r Rect) {
	s.bounds = r
	s.refreshFrames()
}

// SetSizeClass overrides the size class from the config.
func (s *Stack) SetSizeClass(c SizeClass) {
	s.sizeClass = c
	s.refreshFrames()
}

// Append presents v full screen with a fade.
func (s *Stack) Append(v Value) { s.path.Append(v) }

// Dismiss removes the topmost element.
func (s *Stack) Dismiss() { s.path.RemoveLast(1) }

// Depth returns the depth of the topmost element, 0 when only the root is
// shown.
func (s *Stack) Depth() int { return s.path.Depth() }

// IsHidden reports whether content at depth is covered by a presented
// element and should be hidden from accessibility.
func (s *Stack) IsHidden(depth int) bool {
	return depth >= 0 && depth < s.Depth()
}

// Env returns the env of the element at depth, or nil when nothing live is
// presented there.
func (s *Stack) Env(depth int) *Env {
	switch {
	case depth == 0:
		return s.rootEnv
	case depth < 0:
		return s.overlayEnv
	}
	for _, l := range s.layers {
		if !l.departing && l.env.depth == depth {
			return l.env
		}
	}
	return nil
}

// Progress returns the transition progress of the element at depth, or 0
// when nothing is presented there.
func (s *Stack) Progress(depth int) float64 {
	if e := s.Env(depth); e != nil {
		return e.Progress()
	}
	return 0
}

// Animating reports whether any layer is still transitioning.
func (s *Stack) Animating() bool {
	for _, l := range s.layers {
		if l.transition.Animating() || l.departing {
			return true
		}
	}
	return false
}

func (s *Stack) geometry() Geometry {
	return Geometry{
		Container:           s.bounds,
		SizeClass:           s.sizeClass,
		Sheet:               s.cfg.Sheet,
		DisplayCornerRadius: resolveCornerRadius(s.cfg.Display.CornerRadius, s.metrics),
	}
}

func (s *Stack) refreshFrames() {
	g := s.geometry()
	for _, l := range s.layers {
		l.frame = l.transition.Frame(g)
		l.dismiss.SetBounds(l.frame.Rect)
	}
}

// deferJob runs fn at the start of the next Update.
func (s *Stack) deferJob(fn func()) {
	s.jobs = append(s.jobs, fn)
}

// onScreen reports whether a layer built from ctx is still drawn.
func (s *Stack) onScreen(ctx *PathContext) bool {
	if s == nil || ctx == nil {
		return false
	}
	for _, l := range s.layers {
		if l.elem.Context == ctx {
			return true
		}
	}
	return false
}

// topLive returns the topmost layer that is not departing.
func (s *Stack) topLive() *layer {
	for i := len(s.layers) - 1; i >= 0; i-- {
		if !s.layers[i].departing {
			return s.layers[i]
		}
	}
	return nil
}

// sync diffs the layers against the path. New elements get a layer that
// animates in, missing elements start departing, and an element that comes
// back while its layer is departing revives that layer.
func (s *Stack) sync() {
	existing := make(map[ElementKey]*layer, len(s.layers))
	for _, l := range s.layers {
		existing[l.key] = l
	}
	next := make([]*layer, 0, len(s.layers)+1)
	for _, e := range s.path.Elements() {
		k := e.Key()
		l := existing[k]
		switch {
		case l == nil:
			l = s.newLayer(e)
		case l.departing:
			s.revive(l, e)
		default:
			l.elem = e
		}
		delete(existing, k)
		next = append(next, l)
	}
	for _, l := range s.layers {
		if existing[l.key] != l {
			continue
		}
		if !l.departing {
			s.depart(l)
		}
		next = append(next, l)
	}
	// Same index: the departing layer sits below the one replacing it.
	slices.SortStableFunc(next, func(a, b *layer) int {
		if a.elem.Index != b.elem.Index {
			return a.elem.Index - b.elem.Index
		}
		switch {
		case a.departing && !b.departing:
			return -1
		case !a.departing && b.departing:
			return 1
		}
		return 0
	})
	s.layers = next
	s.runHooks()
}

func (s *Stack) runHooks() {
	for len(s.hooks) > 0 {
		hooks := s.hooks
		s.hooks = nil
		for _, fn := range hooks {
			fn()
		}
	}
}

func (s *Stack) newLayer(e Element) *layer {
	l := &layer{elem: e, key: e.Key()}
	l.env = &Env{stack: s, depth: e.Index + 1, layer: l}
	l.transition = NewTransition(e.Context, s.anim)
	l.dismiss = NewDismissCoordinator(s.cfg.Dismiss)
	l.dismiss.SetFeedback(s.feedback)
	l.dismiss.SetSwipeUpToDismiss(e.Context != nil && e.Context.SwipeUpToDismiss)
	l.dismiss.OnPan = l.transition.SetPanOffset
	l.dismiss.OnDismiss = l.env.Dismiss
	l.dismiss.OnEnded = func(bool) { l.transition.ResetPanOffset() }

	l.content = s.registry.resolveOrDiscard(l.env, e.Value)
	l.dismiss.Attach(l.content)
	l.transition.AnimateTo(1)
	l.frame = l.transition.Frame(s.geometry())
	l.dismiss.SetBounds(l.frame.Rect)

	Logger().Debug("flowstack: layer added",
		slog.String("type", l.key.TypeKey),
		slog.Int("depth", l.env.depth))
	return l
}

func (s *Stack) depart(l *layer) {
	l.departing = true
	l.dismiss.Cancel()
	l.transition.AnimateTo(0)
	Logger().Debug("flowstack: layer departing",
		slog.String("type", l.key.TypeKey),
		slog.Int("depth", l.env.depth))
	s.hooks = append(s.hooks, l.onDismiss...)
}

func (s *Stack) revive(l *layer, e Element) {
	if !sameValue(l.elem.Value, e.Value) {
		l.onPresent = nil
		l.onDismiss = nil
		l.content = s.registry.resolveOrDiscard(l.env, e.Value)
		l.dismiss.Attach(l.content)
	}
	if e.Context != nil {
		l.transition.ctx = e.Context
	}
	l.dismiss.SetSwipeUpToDismiss(l.transition.ctx.SwipeUpToDismiss)
	l.elem = e
	l.departing = false
	l.presented = false
	l.dismiss.Reset()
	l.transition.AnimateTo(1)
	Logger().Debug("flowstack: layer revived",
		slog.String("type", l.key.TypeKey),
		slog.Int("depth", l.env.depth))
}

// Update advances the stack by one tick. It is intended to be called from
// ebiten.Game.Update.
func (s *Stack) Update() error {
	return s.update(float32(1.0 / float64(ebiten.TPS())))
}

func (s *Stack) update(dt float32) error {
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.runJobs()
	s.processInput()
	s.advance(dt)

	if err := updateContent(s.root, dt); err != nil {
		return err
	}
	for _, l := range s.layers {
		if err := updateContent(l.content, dt); err != nil {
			return err
		}
	}
	if err := updateContent(s.overlay, dt); err != nil {
		return err
	}

	if s.debug {
		var stats debugStats
		for _, l := range s.layers {
			if l.departing {
				stats.departing++
			} else {
				stats.live++
			}
			stats.tracking = stats.tracking || l.dismiss.Tracking()
		}
		s.debugLog(stats)
	}
	return nil
}

func updateContent(c Content, dt float32) error {
	if u, ok := c.(Updater); ok {
		return u.Update(float64(dt))
	}
	return nil
}

// runJobs runs the jobs deferred before this tick. Jobs deferred while they
// run wait for the next tick.
func (s *Stack) runJobs() {
	if len(s.jobs) == 0 {
		return
	}
	jobs := s.jobs
	s.jobs = nil
	for _, fn := range jobs {
		fn()
	}
}

// advance steps every transition, fires present hooks, settles cancelled
// gestures and drops layers that finished departing.
func (s *Stack) advance(dt float32) {
	g := s.geometry()
	kept := s.layers[:0]
	for _, l := range s.layers {
		ctx := l.transition.ctx
		if !ctx.capturing {
			l.transition.Update(dt)
		}
		l.frame = l.transition.Frame(g)
		l.dismiss.SetBounds(l.frame.Rect)

		if l.dismiss.State() == DismissCancelling && l.transition.PanSettled() {
			l.dismiss.Settle()
		}
		if !l.departing && !l.presented && !l.transition.Animating() && l.transition.Progress() >= 1 {
			l.presented = true
			s.hooks = append(s.hooks, l.onPresent...)
		}
		if l.departing && !l.transition.Animating() && l.transition.Progress() <= 0 {
			Logger().Debug("flowstack: layer removed",
				slog.String("type", l.key.TypeKey),
				slog.Int("depth", l.env.depth))
			continue
		}
		kept = append(kept, l)
	}
	for i := len(kept); i < len(s.layers); i++ {
		s.layers[i] = nil
	}
	s.layers = kept
	s.runHooks()
}

// Draw renders the root, every layer and the overlay onto screen. It is
// intended to be called from ebiten.Game.Draw.
func (s *Stack) Draw(screen *ebiten.Image) {
	if s.bounds.IsEmpty() {
		b := screen.Bounds()
		s.SetBounds(Rect{X: float64(b.Min.X), Y: float64(b.Min.Y), Width: float64(b.Dx()), Height: float64(b.Dy())})
	}
	drawInBounds(screen, s.root, s.bounds)

	top := s.topLive()
	aboveTop := false
	for _, l := range s.layers {
		if l == top {
			aboveTop = true
		}
		ctx := l.transition.ctx
		if ctx.ShowsScrim && (l == top || (aboveTop && l.departing)) {
			s.drawScrim(screen, l.transition.Progress())
		}
		s.drawLayer(screen, l)
	}

	drawInBounds(screen, s.overlay, s.bounds)
	s.flushScreenshots(screen)
}

// drawInBounds draws c into the part of dst covered by r.
func drawInBounds(dst *ebiten.Image, c Content, r Rect) {
	if c == nil {
		return
	}
	sub, ok := dst.SubImage(image.Rect(
		int(r.X), int(r.Y),
		int(r.X+r.Width), int(r.Y+r.Height),
	)).(*ebiten.Image)
	if !ok {
		return
	}
	c.Draw(sub)
}
