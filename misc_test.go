package flowstack

import (
	"context"
	"errors"
	"log/slog"
	"testing"
)

// --- Geometry primitives ---

func TestRectContains(t *testing.T) {
	r := Rect{10, 20, 100, 50}
	tests := []struct {
		name   string
		x, y   float64
		expect bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"outside left", 9, 40, false},
		{"outside right", 111, 40, false},
		{"outside above", 50, 19, false},
		{"outside below", 50, 71, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.expect {
				t.Errorf("Rect%v.Contains(%v, %v) = %v, want %v", r, tt.x, tt.y, got, tt.expect)
			}
		})
	}
}

func TestRectInset(t *testing.T) {
	r := Rect{Width: 390, Height: 844}
	if got := r.Inset(50, 100); got != (Rect{50, 100, 290, 644}) {
		t.Errorf("Inset = %v", got)
	}
	if got := (Rect{Width: 60, Height: 100}).Inset(50, 10); got.Width != 0 || got.X != 30 {
		t.Errorf("over-inset = %v, want collapsed to the center", got)
	}
}

func TestRectHelpers(t *testing.T) {
	r := RectFromCenter(Vec2{100, 200}, 40, 60)
	if r != (Rect{80, 170, 40, 60}) {
		t.Errorf("RectFromCenter = %v", r)
	}
	if r.Center() != (Vec2{100, 200}) || r.Size() != (Vec2{40, 60}) {
		t.Errorf("center %v size %v", r.Center(), r.Size())
	}
	if r.Offset(5, -5) != (Rect{85, 165, 40, 60}) {
		t.Errorf("Offset = %v", r.Offset(5, -5))
	}
	if r.IsEmpty() || !(Rect{Width: 10}).IsEmpty() {
		t.Error("IsEmpty")
	}
}

func TestVec2(t *testing.T) {
	a := Vec2{3, 4}
	if a.Len() != 5 {
		t.Errorf("Len = %v", a.Len())
	}
	if a.Add(Vec2{1, 1}) != (Vec2{4, 5}) || a.Sub(Vec2{1, 1}) != (Vec2{2, 3}) || a.Scale(2) != (Vec2{6, 8}) {
		t.Error("arithmetic")
	}
}

func TestColor(t *testing.T) {
	c := ColorBlack.WithAlpha(0.5)
	if c.A != 0.5 {
		t.Errorf("alpha = %v", c.A)
	}
	rgba := Color{1, 0.5, 0, 0.5}.toRGBA()
	if rgba.A != 127 || rgba.R != 127 || rgba.G != 63 {
		t.Errorf("premultiplied = %+v", rgba)
	}
}

func TestClamp01(t *testing.T) {
	for _, tt := range []struct{ in, want float64 }{{-1, 0}, {0.3, 0.3}, {2, 1}} {
		if got := clamp01(tt.in); got != tt.want {
			t.Errorf("clamp01(%v) = %v", tt.in, got)
		}
	}
}

// --- Device metrics ---

func TestResolveCornerRadius(t *testing.T) {
	tests := []struct {
		name       string
		configured float64
		m          DeviceMetrics
		want       float64
	}{
		{"configured wins", 20, StaticMetrics{CornerRadius: 39}, 20},
		{"metrics", 0, StaticMetrics{CornerRadius: 39}, 39},
		{"unknown metrics", 0, StaticMetrics{}, FallbackCornerRadius},
		{"no metrics", 0, nil, FallbackCornerRadius},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveCornerRadius(tt.configured, tt.m); got != tt.want {
				t.Errorf("resolveCornerRadius = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStackUsesMetrics(t *testing.T) {
	s := NewStack(DefaultConfig())
	s.SetMetrics(StaticMetrics{CornerRadius: 47})
	if g := s.geometry(); g.DisplayCornerRadius != 47 {
		t.Errorf("display radius = %v, want 47", g.DisplayCornerRadius)
	}
}

// --- Snapshots ---

func TestImageRasterizerEmpty(t *testing.T) {
	var r ImageRasterizer
	if _, err := r.Rasterize(nil, Vec2{10, 10}, nil); !errors.Is(err, ErrEmptySnapshot) {
		t.Errorf("nil content: err = %v", err)
	}
	if _, err := r.Rasterize(&recorder{}, Vec2{0, 10}, nil); !errors.Is(err, ErrEmptySnapshot) {
		t.Errorf("zero size: err = %v", err)
	}
}

// --- Debug ---

func TestDebugCheckLinkPanics(t *testing.T) {
	s := NewStack(DefaultConfig())
	s.SetDebugMode(true)
	t.Cleanup(func() { s.SetDebugMode(false) })

	defer func() {
		if recover() == nil {
			t.Error("expected panic for a link without a stack")
		}
	}()
	NewLink(nil, ValueOf(1), &recorder{}, DefaultLinkConfig())
}

func TestDebugUnresolvedDestinationPanics(t *testing.T) {
	s := newTestStack(t)
	s.SetDebugMode(true)
	t.Cleanup(func() { s.SetDebugMode(false) })

	defer func() {
		if recover() == nil {
			t.Error("expected panic for an unregistered value")
		}
	}()
	s.Append(ValueOf(3.5))
}

func TestDebugStatsTracked(t *testing.T) {
	s := newTestStack(t)
	s.SetDebugMode(true)
	t.Cleanup(func() { s.SetDebugMode(false) })

	s.Append(ValueOf(page{"a"}))
	s.Append(ValueOf(page{"b"}))
	s.update(tick)
	s.Dismiss()
	s.update(tick)
	want := debugStats{live: 1, departing: 1}
	if s.lastStats != want {
		t.Errorf("stats = %+v, want %+v", s.lastStats, want)
	}
}

// --- Logger ---

func TestSetLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })
	l := slog.New(slog.DiscardHandler)
	SetLogger(l)
	if Logger() != l {
		t.Error("Logger should return the configured logger")
	}
	SetLogger(nil)
	if Logger() == nil || Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("nil should restore the silent default")
	}
}
