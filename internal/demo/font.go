package demo

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Font sizes used by the demo.
const (
	titleSize = 22.0
	bodySize  = 15.0
)

var textColor = color.RGBA{R: 28, G: 28, B: 30, A: 255}

type faces struct {
	title *text.GoTextFace
	body  *text.GoTextFace
}

var loadFaces = sync.OnceValues(func() (faces, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return faces{}, fmt.Errorf("demo: parse font: %w", err)
	}
	return faces{
		title: &text.GoTextFace{Source: src, Size: titleSize},
		body:  &text.GoTextFace{Source: src, Size: bodySize},
	}, nil
})

// drawText draws s with its top-left corner at (x, y). A font that fails
// to load leaves the text out.
func drawText(dst *ebiten.Image, s string, title bool, x, y float64, c color.Color) {
	f, err := loadFaces()
	if err != nil {
		return
	}
	face := f.body
	if title {
		face = f.title
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, face, op)
}
