package flowstack

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tanema/gween/ease"
)

// Config holds the tunables of a Stack. The zero value is not usable; start
// from DefaultConfig or LoadConfig, which fills unset fields with defaults.
//
// A TOML file looks like:
//
//	size_class = "auto"
//
//	[animation]
//	duration = 0.24
//	easing = "out-back"
//
//	[dismiss]
//	threshold = 80
//	edge_width = 24
//
//	[sheet]
//	max_width = 706
//	max_height = 998
//	min_margin = 44
type Config struct {
	Animation AnimationConfig `toml:"animation"`
	Dismiss   DismissConfig   `toml:"dismiss"`
	Sheet     SheetConfig     `toml:"sheet"`
	Scrim     ScrimConfig     `toml:"scrim"`
	Display   DisplayConfig   `toml:"display"`

	// SizeClass is "auto", "compact" or "regular".
	SizeClass string `toml:"size_class"`
}

// AnimationConfig controls the push/pop transition curve.
type AnimationConfig struct {
	// Duration of a push or pop in seconds.
	Duration float64 `toml:"duration"`
	// Easing is the name of a gween easing function, see EasingNames.
	Easing string `toml:"easing"`
}

// DismissConfig controls the interactive dismiss gesture.
type DismissConfig struct {
	// Threshold is the drag distance past which releasing commits.
	Threshold float64 `toml:"threshold"`
	// EdgeWidth is the width of the leading-edge strip that starts an edge pan.
	EdgeWidth float64 `toml:"edge_width"`
	// DragDeadZone is the movement in pixels before a drag is recognized.
	DragDeadZone float64 `toml:"drag_dead_zone"`
	// ScrollEpsilon is the slack allowed above a scroll region's rest offset.
	ScrollEpsilon float64 `toml:"scroll_epsilon"`
}

// SheetConfig bounds the presentation size in regular size classes.
type SheetConfig struct {
	MaxWidth  float64 `toml:"max_width"`
	MaxHeight float64 `toml:"max_height"`
	MinMargin float64 `toml:"min_margin"`
}

// ScrimConfig controls the dimming layer behind the topmost element.
type ScrimConfig struct {
	Opacity float64 `toml:"opacity"`
}

// DisplayConfig overrides device metrics.
type DisplayConfig struct {
	// CornerRadius of the display. Zero means ask the DeviceMetrics provider.
	CornerRadius float64 `toml:"corner_radius"`
}

// Default tunables.
const (
	DefaultDuration      = 0.24
	DefaultEasing        = "out-back"
	DefaultThreshold     = 80.0
	DefaultEdgeWidth     = 24.0
	DefaultDragDeadZone  = 4.0
	DefaultScrollEpsilon = 5.0
	DefaultSheetWidth    = 706.0
	DefaultSheetHeight   = 998.0
	DefaultSheetMargin   = 44.0
	DefaultScrimOpacity  = 0.7
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Animation: AnimationConfig{Duration: DefaultDuration, Easing: DefaultEasing},
		Dismiss: DismissConfig{
			Threshold:     DefaultThreshold,
			EdgeWidth:     DefaultEdgeWidth,
			DragDeadZone:  DefaultDragDeadZone,
			ScrollEpsilon: DefaultScrollEpsilon,
		},
		Sheet: SheetConfig{
			MaxWidth:  DefaultSheetWidth,
			MaxHeight: DefaultSheetHeight,
			MinMargin: DefaultSheetMargin,
		},
		Scrim:     ScrimConfig{Opacity: DefaultScrimOpacity},
		SizeClass: "auto",
	}
}

// LoadConfig parses TOML data on top of DefaultConfig and validates it.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads and parses a TOML config file.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return LoadConfig(data)
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Animation.Duration <= 0:
		return fmt.Errorf("%w: animation.duration must be positive", ErrInvalidConfig)
	case c.Dismiss.Threshold <= 0:
		return fmt.Errorf("%w: dismiss.threshold must be positive", ErrInvalidConfig)
	case c.Dismiss.EdgeWidth < 0 || c.Dismiss.DragDeadZone < 0 || c.Dismiss.ScrollEpsilon < 0:
		return fmt.Errorf("%w: dismiss distances must not be negative", ErrInvalidConfig)
	case c.Sheet.MaxWidth <= 0 || c.Sheet.MaxHeight <= 0 || c.Sheet.MinMargin < 0:
		return fmt.Errorf("%w: sheet size must be positive", ErrInvalidConfig)
	case c.Scrim.Opacity < 0 || c.Scrim.Opacity > 1:
		return fmt.Errorf("%w: scrim.opacity must be in [0, 1]", ErrInvalidConfig)
	case c.Display.CornerRadius < 0:
		return fmt.Errorf("%w: display.corner_radius must not be negative", ErrInvalidConfig)
	}
	if _, ok := easings[c.Animation.Easing]; !ok {
		return fmt.Errorf("%w: unknown easing %q", ErrInvalidConfig, c.Animation.Easing)
	}
	if _, err := parseSizeClass(c.SizeClass); err != nil {
		return err
	}
	return nil
}

// animation returns the transition animation described by the config.
func (c Config) animation() Animation {
	fn, ok := easings[c.Animation.Easing]
	if !ok {
		fn = easings[DefaultEasing]
	}
	return Animation{Duration: float32(c.Animation.Duration), Ease: fn}
}

func (c Config) sizeClass() SizeClass {
	sc, _ := parseSizeClass(c.SizeClass)
	return sc
}

func parseSizeClass(s string) (SizeClass, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return SizeClassAuto, nil
	case "compact":
		return SizeClassCompact, nil
	case "regular":
		return SizeClassRegular, nil
	}
	return SizeClassAuto, fmt.Errorf("%w: unknown size class %q", ErrInvalidConfig, s)
}

var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"out-quad":     ease.OutQuad,
	"in-out-quad":  ease.InOutQuad,
	"out-cubic":    ease.OutCubic,
	"in-out-cubic": ease.InOutCubic,
	"out-quint":    ease.OutQuint,
	"out-expo":     ease.OutExpo,
	"in-out-sine":  ease.InOutSine,
	"out-back":     ease.OutBack,
}

// EasingNames returns the easing names accepted by AnimationConfig.Easing,
// sorted.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
