package main

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/flowstack"
)

// errScriptDone ends the game loop once a test script has finished.
var errScriptDone = errors.New("script done")

// scriptedGame runs the stack and quits when its test script is done.
type scriptedGame struct {
	stack  *flowstack.Stack
	runner *flowstack.TestRunner
	// finishing is set on the tick the script finished.
	finishing bool
}

func (g *scriptedGame) run(cfg flowstack.RunConfig) error {
	if g.runner == nil {
		return flowstack.Run(g.stack, cfg)
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	err := ebiten.RunGame(g)
	if errors.Is(err, errScriptDone) {
		return nil
	}
	return err
}

func (g *scriptedGame) Update() error {
	if g.finishing {
		return errScriptDone
	}
	if err := g.stack.Update(); err != nil {
		return err
	}
	// One extra tick lets the last screenshot flush in Draw.
	g.finishing = g.runner.Done() && g.stack.PendingInput() == 0
	return nil
}

func (g *scriptedGame) Draw(screen *ebiten.Image) {
	g.stack.Draw(screen)
}

func (g *scriptedGame) Layout(w, h int) (int, int) {
	g.stack.SetBounds(flowstack.Rect{Width: float64(w), Height: float64(h)})
	return w, h
}
