package flowstack

import (
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Helpers ---

const tick = float32(1.0 / 60)

// page is the value type presented in stack tests.
type page struct {
	Name string
}

// recorder is content that records pointer events.
type recorder struct {
	name    string
	events  []PointerEvent
	consume bool
	updates int
}

func (r *recorder) Draw(*ebiten.Image) {}

func (r *recorder) HandlePointer(ev PointerEvent) bool {
	r.events = append(r.events, ev)
	return r.consume
}

func (r *recorder) Update(float64) error {
	r.updates++
	return nil
}

func (r *recorder) phases() []PointerPhase {
	out := make([]PointerPhase, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Phase
	}
	return out
}

type testStack struct {
	*Stack
	pages map[string]*recorder
	envs  map[string]*Env
}

// newTestStack returns a compact 390x844 stack whose page destination
// records every resolved page by name.
func newTestStack(t *testing.T) *testStack {
	t.Helper()
	ts := &testStack{
		Stack: NewStack(DefaultConfig()),
		pages: map[string]*recorder{},
		envs:  map[string]*Env{},
	}
	ts.SetFeedback(nil)
	ts.SetBounds(Rect{Width: 390, Height: 844})
	RegisterDestination(ts.Registry(), func(env *Env, p page) Content {
		r := &recorder{name: p.Name}
		ts.pages[p.Name] = r
		ts.envs[p.Name] = env
		return r
	})
	return ts
}

// settle runs updates until no layer is animating.
func settle(t *testing.T, s *Stack) {
	t.Helper()
	for i := 0; i < 600; i++ {
		if err := s.update(tick); err != nil {
			t.Fatalf("update: %v", err)
		}
		if !s.Animating() && len(s.injectQueue) == 0 {
			return
		}
	}
	t.Fatal("stack did not settle")
}

// drain runs updates until the injected input is consumed.
func drain(t *testing.T, s *Stack) {
	t.Helper()
	for i := 0; i < 600 && len(s.injectQueue) > 0; i++ {
		if err := s.update(tick); err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	if len(s.injectQueue) > 0 {
		t.Fatal("inject queue not drained")
	}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func rectApprox(a, b Rect) bool {
	return approxEqual(a.X, b.X) && approxEqual(a.Y, b.Y) &&
		approxEqual(a.Width, b.Width) && approxEqual(a.Height, b.Height)
}

// --- Layer lifecycle ---

func TestStackAppendCreatesLayer(t *testing.T) {
	s := newTestStack(t)
	s.Append(ValueOf(page{"a"}))

	if len(s.layers) != 1 {
		t.Fatalf("layers = %d, want 1", len(s.layers))
	}
	l := s.layers[0]
	if l.env.Depth() != 1 {
		t.Errorf("depth = %d, want 1", l.env.Depth())
	}
	if s.pages["a"] == nil || l.content != Content(s.pages["a"]) {
		t.Error("layer content not resolved from registry")
	}
	want := Rect{X: 50, Y: 100, Width: 290, Height: 644}
	if !rectApprox(l.frame.Rect, want) {
		t.Errorf("initial frame = %v, want %v", l.frame.Rect, want)
	}
	if l.frame.Opacity != 0 {
		t.Errorf("initial opacity = %v, want 0", l.frame.Opacity)
	}
}

func TestStackAppendSettlesFullscreen(t *testing.T) {
	s := newTestStack(t)
	s.Append(ValueOf(page{"a"}))
	settle(t, s.Stack)

	l := s.layers[0]
	if l.transition.Progress() != 1 {
		t.Fatalf("progress = %v, want 1", l.transition.Progress())
	}
	if !rectApprox(l.frame.Rect, Rect{Width: 390, Height: 844}) {
		t.Errorf("frame = %v, want container", l.frame.Rect)
	}
	if l.frame.Opacity != 1 {
		t.Errorf("opacity = %v, want 1", l.frame.Opacity)
	}
	if l.frame.ClipRadius != 0 {
		t.Errorf("clip radius = %v, want 0 once fullscreen", l.frame.ClipRadius)
	}
	if s.Progress(1) != 1 {
		t.Errorf("Progress(1) = %v, want 1", s.Progress(1))
	}
}

func TestStackDismissDepartsThenRemoves(t *testing.T) {
	s := newTestStack(t)
	s.Append(ValueOf(page{"a"}))
	settle(t, s.Stack)

	s.Dismiss()
	if s.Depth() != 0 {
		t.Fatalf("depth = %d, want 0", s.Depth())
	}
	if len(s.layers) != 1 || !s.layers[0].departing {
		t.Fatal("layer should stay while departing")
	}
	if s.Env(1) != nil {
		t.Error("departing layer should not be returned by Env")
	}
	settle(t, s.Stack)
	if len(s.layers) != 0 {
		t.Errorf("layers = %d after departure, want 0", len(s.layers))
	}
}

func TestStackReviveDepartingLayer(t *testing.T) {
	s := newTestStack(t)
	s.Append(ValueOf(page{"a"}))
	settle(t, s.Stack)
	first := s.layers[0]

	s.Dismiss()
	s.update(tick)
	s.Append(ValueOf(page{"a"}))

	if len(s.layers) != 1 {
		t.Fatalf("layers = %d, want 1", len(s.layers))
	}
	if s.layers[0] != first {
		t.Error("re-appended element should revive the departing layer")
	}
	if first.departing {
		t.Error("revived layer still departing")
	}
	if first.transition.Target() != 1 {
		t.Errorf("target = %v, want 1", first.transition.Target())
	}
}

func TestStackReviveWithDifferentValueResolvesAgain(t *testing.T) {
	s := newTestStack(t)
	s.Append(ValueOf(page{"a"}))
	settle(t, s.Stack)
	s.Dismiss()
	s.update(tick)

	s.Append(ValueOf(page{"b"}))
	if len(s.layers) != 1 {
		t.Fatalf("layers = %d, want 1", len(s.layers))
	}
	if s.layers[0].content != Content(s.pages["b"]) {
		t.Error("revived layer should show the new value's content")
	}
}

func TestStackDepartingLayerBelowReplacement(t *testing.T) {
	s := newTestStack(t)
	s.Append(ValueOf(page{"a"}))
	settle(t, s.Stack)
	s.Dismiss()
	s.Append(ValueOf(7))

	if len(s.layers) != 2 {
		t.Fatalf("layers = %d, want 2", len(s.layers))
	}
	if !s.layers[0].departing || s.layers[1].departing {
		t.Error("departing layer should sit below the live layer at the same index")
	}
}

func TestStackIsHidden(t *testing.T) {
	s := newTestStack(t)
	s.Append(ValueOf(page{"a"}))
	s.Append(ValueOf(page{"b"}))

	tests := []struct {
		depth int
		want  bool
	}{
		{-1, false},
		{0, true},
		{1, true},
		{2, false},
		{3, false},
	}
	for _, tt := range tests {
		if got := s.IsHidden(tt.depth); got != tt.want {
			t.Errorf("IsHidden(%d) = %v, want %v", tt.depth, got, tt.want)
		}
	}
}

func TestStackHooks(t *testing.T) {
	s := NewStack(DefaultConfig())
	s.SetBounds(Rect{Width: 390, Height: 844})
	var presented, dismissed int
	RegisterDestination(s.Registry(), func(env *Env, p page) Content {
		env.OnPresent(func() { presented++ })
		env.OnDismiss(func() { dismissed++ })
		return &recorder{}
	})

	s.Append(ValueOf(page{"a"}))
	if presented != 0 {
		t.Fatal("OnPresent fired before the transition finished")
	}
	settle(t, s)
	if presented != 1 {
		t.Fatalf("presented = %d, want 1", presented)
	}
	s.update(tick)
	if presented != 1 {
		t.Errorf("OnPresent fired again: %d", presented)
	}

	s.Dismiss()
	if dismissed != 1 {
		t.Errorf("dismissed = %d, want 1 as soon as the layer departs", dismissed)
	}
}

func TestStackHookMayMutatePath(t *testing.T) {
	s := NewStack(DefaultConfig())
	s.SetBounds(Rect{Width: 390, Height: 844})
	RegisterDestination(s.Registry(), func(env *Env, p page) Content {
		if p.Name == "a" {
			env.OnPresent(func() { s.Append(ValueOf(page{"b"})) })
		}
		return &recorder{}
	})
	s.Append(ValueOf(page{"a"}))
	settle(t, s)
	if s.Depth() != 2 {
		t.Errorf("depth = %d, want 2", s.Depth())
	}
}

func TestStackUpdatesContent(t *testing.T) {
	s := newTestStack(t)
	root := &recorder{}
	s.SetRoot(root)
	s.Append(ValueOf(page{"a"}))
	s.update(tick)
	if root.updates != 1 || s.pages["a"].updates != 1 {
		t.Errorf("updates = root %d, page %d, want 1 each", root.updates, s.pages["a"].updates)
	}
}

func TestStackUnresolvedValueRendersNothing(t *testing.T) {
	s := newTestStack(t)
	s.Append(ValueOf(42))
	if len(s.layers) != 1 {
		t.Fatalf("layers = %d, want 1", len(s.layers))
	}
	if s.layers[0].content != nil {
		t.Error("unresolved value should have nil content")
	}
}

func TestStackSetBoundsRefreshesFrames(t *testing.T) {
	s := newTestStack(t)
	s.Append(ValueOf(page{"a"}))
	settle(t, s.Stack)

	s.SetBounds(Rect{Width: 500, Height: 900})
	if !rectApprox(s.layers[0].frame.Rect, Rect{Width: 500, Height: 900}) {
		t.Errorf("frame = %v after SetBounds", s.layers[0].frame.Rect)
	}
}

func TestStackSheetInRegularSizeClass(t *testing.T) {
	s := newTestStack(t)
	s.SetBounds(Rect{Width: 1024, Height: 1366})
	s.Append(ValueOf(page{"a"}))
	settle(t, s.Stack)

	want := Rect{X: 159, Y: 184, Width: 706, Height: 998}
	f := s.layers[0].frame
	if !rectApprox(f.Rect, want) {
		t.Errorf("sheet frame = %v, want %v", f.Rect, want)
	}
	if f.ClipRadius == 0 {
		t.Error("sheet should keep its corner radius")
	}
}

func TestStackSetPath(t *testing.T) {
	s := newTestStack(t)
	p := NewPath()
	p.Append(ValueOf(page{"a"}))
	p.Append(ValueOf(page{"b"}))

	s.SetPath(p)
	if s.Path() != p {
		t.Fatal("Path() should return the new path")
	}
	if len(s.layers) != 2 {
		t.Fatalf("layers = %d, want 2", len(s.layers))
	}
	for _, l := range s.layers {
		if l.transition.Progress() != 1 || l.transition.Animating() {
			t.Errorf("layer %v should be presented without animation", l.key)
		}
	}

	p.RemoveLast(1)
	if !s.layers[1].departing {
		t.Error("stack should follow mutations of the new path")
	}
}

func TestStackInvalidConfigFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dismiss.Threshold = -1
	s := NewStack(cfg)
	if s.Config().Dismiss.Threshold != DefaultThreshold {
		t.Errorf("threshold = %v, want default", s.Config().Dismiss.Threshold)
	}
}

// --- Env ---

func TestEnvDismissRemovesFromDepth(t *testing.T) {
	tests := []struct {
		name    string
		depth   int
		wantLen int
	}{
		{"root", 0, 3},
		{"overlay", -1, 2},
		{"first", 1, 0},
		{"middle", 2, 1},
		{"top", 3, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStack(t)
			s.Append(ValueOf(page{"a"}))
			s.Append(ValueOf(page{"b"}))
			s.Append(ValueOf(page{"c"}))
			s.Env(tt.depth).Dismiss()
			if s.path.Len() != tt.wantLen {
				t.Errorf("len = %d, want %d", s.path.Len(), tt.wantLen)
			}
		})
	}
}

func TestEnvDismissWhileDepartingIsNoOp(t *testing.T) {
	s := newTestStack(t)
	s.Append(ValueOf(page{"a"}))
	env := s.envs["a"]
	s.Dismiss()
	s.Append(ValueOf(7))

	env.Dismiss()
	if s.path.Len() != 1 {
		t.Errorf("len = %d, want 1", s.path.Len())
	}
}

func TestEnvProgressAndPresented(t *testing.T) {
	s := newTestStack(t)
	if s.RootEnv().Progress() != 1 || s.OverlayEnv().Progress() != 1 {
		t.Error("root and overlay are always fully presented")
	}
	s.Append(ValueOf(page{"a"}))
	env := s.envs["a"]
	if env.Progress() != 0 {
		t.Errorf("progress = %v, want 0 before update", env.Progress())
	}
	if !env.IsPresented() {
		t.Error("live layer should be presented")
	}
	s.Dismiss()
	if env.IsPresented() {
		t.Error("departing layer should not be presented")
	}
}

func TestEnvToGlobal(t *testing.T) {
	s := newTestStack(t)
	s.SetBounds(Rect{X: 10, Y: 20, Width: 390, Height: 844})
	r := Rect{X: 5, Y: 5, Width: 10, Height: 10}

	got := s.RootEnv().toGlobal(r)
	if got != (Rect{X: 15, Y: 25, Width: 10, Height: 10}) {
		t.Errorf("root toGlobal = %v", got)
	}

	s.Append(ValueOf(page{"a"}))
	l := s.layers[0]
	l.frame = Frame{Rect: Rect{X: 100, Y: 200, Width: 195, Height: 422}, ScaleRatio: 0.5}
	got = l.env.toGlobal(r)
	want := Rect{X: 102.5, Y: 202.5, Width: 5, Height: 5}
	if got != want {
		t.Errorf("layer toGlobal = %v, want %v", got, want)
	}
}

// --- Input routing ---

func TestInputRoutesToRootWhenEmpty(t *testing.T) {
	s := newTestStack(t)
	s.SetBounds(Rect{X: 10, Y: 20, Width: 390, Height: 844})
	root := &recorder{}
	s.SetRoot(root)

	s.InjectClick(15, 30)
	drain(t, s.Stack)

	if len(root.events) != 2 {
		t.Fatalf("root events = %v, want down and up", root.phases())
	}
	ev := root.events[0]
	if ev.Phase != PointerDown || ev.X != 5 || ev.Y != 10 {
		t.Errorf("down = %+v, want local (5, 10)", ev)
	}
	if root.events[1].Phase != PointerUp {
		t.Errorf("second event = %v, want up", root.events[1].Phase)
	}
}

func TestInputOverlayConsumesFirst(t *testing.T) {
	s := newTestStack(t)
	root := &recorder{}
	overlay := &recorder{consume: true}
	s.SetRoot(root)
	s.SetOverlay(overlay)

	s.InjectClick(100, 100)
	drain(t, s.Stack)
	if len(overlay.events) != 2 {
		t.Errorf("overlay events = %v", overlay.phases())
	}
	if len(root.events) != 0 {
		t.Errorf("root should not see consumed events, got %v", root.phases())
	}
}

func TestInputRoutesToTopLayer(t *testing.T) {
	s := newTestStack(t)
	root := &recorder{}
	s.SetRoot(root)
	s.Append(ValueOf(page{"a"}))
	settle(t, s.Stack)

	s.InjectClick(100, 200)
	drain(t, s.Stack)

	content := s.pages["a"]
	if len(content.events) != 2 {
		t.Fatalf("layer events = %v, want down and up", content.phases())
	}
	if content.events[0].X != 100 || content.events[0].Y != 200 {
		t.Errorf("local point = (%v, %v), want (100, 200)", content.events[0].X, content.events[0].Y)
	}
	if len(root.events) != 0 {
		t.Error("covered root should not receive input")
	}
}

func TestDragDownDismissesTopLayer(t *testing.T) {
	s := newTestStack(t)
	impacts := 0
	s.SetFeedback(FeedbackFunc(func() { impacts++ }))
	s.Append(ValueOf(page{"a"}))
	settle(t, s.Stack)

	s.InjectDrag(200, 300, 200, 500, 10)
	drain(t, s.Stack)

	if s.Depth() != 0 {
		t.Fatalf("depth = %d, want 0 after committed drag", s.Depth())
	}
	if impacts != 1 {
		t.Errorf("impacts = %d, want 1", impacts)
	}
	got := s.pages["a"].phases()
	want := []PointerPhase{PointerDown, PointerCancel}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("content phases = %v, want %v", got, want)
	}
}

func TestShortDragSpringsBack(t *testing.T) {
	s := newTestStack(t)
	s.Append(ValueOf(page{"a"}))
	settle(t, s.Stack)

	s.InjectDrag(200, 300, 200, 340, 5)
	drain(t, s.Stack)
	l := s.layers[0]
	if s.Depth() != 1 {
		t.Fatal("short drag should not dismiss")
	}
	if l.dismiss.State() != DismissCancelling {
		t.Errorf("state = %v, want cancelling", l.dismiss.State())
	}
	settle(t, s.Stack)
	if l.dismiss.State() != DismissIdle {
		t.Errorf("state = %v after spring back, want idle", l.dismiss.State())
	}
	if l.transition.PanOffset() != (Vec2{}) {
		t.Errorf("pan = %v, want zero", l.transition.PanOffset())
	}
}

func TestEdgeDragDismisses(t *testing.T) {
	s := newTestStack(t)
	s.Append(ValueOf(page{"a"}))
	settle(t, s.Stack)

	s.InjectDrag(10, 400, 200, 400, 8)
	drain(t, s.Stack)
	if s.Depth() != 0 {
		t.Error("edge drag past the threshold should dismiss")
	}
}

func TestHorizontalDragAwayFromEdgeDoesNotDismiss(t *testing.T) {
	s := newTestStack(t)
	s.Append(ValueOf(page{"a"}))
	settle(t, s.Stack)

	s.InjectDrag(150, 400, 380, 400, 8)
	drain(t, s.Stack)
	if s.Depth() != 1 {
		t.Error("horizontal free pan should not dismiss")
	}
}

func TestDismissDisabledPassesDragToContent(t *testing.T) {
	s := newTestStack(t)
	s.Append(ValueOf(page{"a"}))
	settle(t, s.Stack)
	s.envs["a"].SetInteractiveDismissDisabled(true)

	s.InjectDrag(200, 300, 200, 500, 6)
	drain(t, s.Stack)
	if s.Depth() != 1 {
		t.Fatal("disabled layer should not be dismissed")
	}
	got := s.pages["a"].phases()
	if got[0] != PointerDown || got[len(got)-1] != PointerUp {
		t.Errorf("content phases = %v, want down ... up", got)
	}
	for _, p := range got {
		if p == PointerCancel {
			t.Error("content should not be cancelled")
		}
	}
}

func TestScrimTapDismissesSheet(t *testing.T) {
	s := newTestStack(t)
	s.SetBounds(Rect{Width: 1024, Height: 1366})
	s.path.AppendWithContext(ValueOf(page{"a"}), &PathContext{ShowsScrim: true})
	settle(t, s.Stack)

	s.InjectClick(500, 600)
	drain(t, s.Stack)
	if s.Depth() != 1 {
		t.Fatal("tap on the sheet should not dismiss")
	}

	s.InjectClick(50, 50)
	drain(t, s.Stack)
	if s.Depth() != 0 {
		t.Error("tap on the scrim should dismiss")
	}
}

func TestTapOutsideWithoutScrimIgnored(t *testing.T) {
	s := newTestStack(t)
	s.SetBounds(Rect{Width: 1024, Height: 1366})
	s.Append(ValueOf(page{"a"}))
	settle(t, s.Stack)

	s.InjectClick(50, 50)
	drain(t, s.Stack)
	if s.Depth() != 1 {
		t.Error("tap outside a layer without scrim should not dismiss")
	}
}

func TestInjectedPressNotReleasedByMouse(t *testing.T) {
	s := newTestStack(t)
	root := &recorder{}
	s.SetRoot(root)

	s.InjectPress(50, 50)
	s.processInput()
	s.processInput()
	if !s.pointers[0].down {
		t.Fatal("injected press released without an injected release")
	}
	s.InjectRelease(50, 50)
	s.processInput()
	if s.pointers[0].down {
		t.Error("pointer still down after injected release")
	}
}
