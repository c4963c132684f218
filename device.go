package flowstack

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// FallbackCornerRadius is the display corner radius used when no metrics
// are available.
const FallbackCornerRadius = 12.0

// DeviceMetrics reports physical properties of the display.
type DeviceMetrics interface {
	// DisplayCornerRadius returns the radius of the screen's rounded
	// corners, or false when it is unknown.
	DisplayCornerRadius() (float64, bool)
}

// StaticMetrics is a DeviceMetrics with fixed values.
type StaticMetrics struct {
	CornerRadius float64
}

// DisplayCornerRadius returns m.CornerRadius, or false when it is not
// positive.
func (m StaticMetrics) DisplayCornerRadius() (float64, bool) {
	return m.CornerRadius, m.CornerRadius > 0
}

// resolveCornerRadius picks the configured radius, then the metrics, then
// FallbackCornerRadius.
func resolveCornerRadius(configured float64, m DeviceMetrics) float64 {
	if configured > 0 {
		return configured
	}
	if m != nil {
		if r, ok := m.DisplayCornerRadius(); ok && r > 0 {
			return r
		}
	}
	return FallbackCornerRadius
}

// Feedback emits a tactile signal when a dismiss gesture crosses its
// threshold.
type Feedback interface {
	Impact()
}

// FeedbackFunc adapts a plain function to Feedback.
type FeedbackFunc func()

// Impact calls f.
func (f FeedbackFunc) Impact() { f() }

// VibrateFeedback vibrates the device through ebiten. It has no effect on
// platforms without a vibration motor.
type VibrateFeedback struct {
	// Duration of the pulse. Zero means 20ms.
	Duration time.Duration
	// Magnitude in [0, 1]. Zero means 0.5 (a medium impact).
	Magnitude float64
}

// Impact vibrates the device once.
func (v VibrateFeedback) Impact() {
	d := v.Duration
	if d <= 0 {
		d = 20 * time.Millisecond
	}
	m := v.Magnitude
	if m <= 0 {
		m = 0.5
	}
	ebiten.Vibrate(&ebiten.VibrateOptions{Duration: d, Magnitude: m})
}
