package flowstack

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// Background fills the screen before the stack draws.
	Background Color
	// Resizable lets the user resize the window. The stack relayouts to
	// the new size.
	Resizable bool
	// ShowFPS prints the current FPS and TPS in the top-left corner.
	ShowFPS bool
}

// Run opens a window and drives the stack until the window is closed. For
// full control, implement ebiten.Game yourself and call Stack.Update,
// Stack.Draw and Stack.SetBounds directly.
func Run(s *Stack, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 390, 844
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	return ebiten.RunGame(&gameShell{stack: s, cfg: cfg})
}

// gameShell adapts a Stack to ebiten.Game.
type gameShell struct {
	stack *Stack
	cfg   RunConfig
}

func (g *gameShell) Update() error {
	return g.stack.Update()
}

func (g *gameShell) Draw(screen *ebiten.Image) {
	if g.cfg.Background.A > 0 {
		screen.Fill(g.cfg.Background.toRGBA())
	}
	g.stack.Draw(screen)
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

func (g *gameShell) Layout(w, h int) (int, int) {
	b := g.stack.Bounds()
	if b.Width != float64(w) || b.Height != float64(h) {
		g.stack.SetBounds(Rect{Width: float64(w), Height: float64(h)})
	}
	return w, h
}
