// Package demo holds the content shared by the example programs: a grid of
// colored cards on the root, a detail page per card with a scrollable body,
// and links between related cards.
package demo

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/flowstack"
)

// Card is the value presented by the demo.
type Card struct {
	ID    int
	Title string
	Color color.RGBA
}

// Layout constants for the grid.
const (
	gridColumns = 2
	gridPad     = 16.0
	cardAspect  = 1.25 // height / width
	headerH     = 56.0
)

// Background is the root background color.
var Background = color.RGBA{R: 242, G: 242, B: 247, A: 255}

// DefaultCards returns the catalog shown by the demo.
func DefaultCards() []Card {
	return []Card{
		{1, "Fire", color.RGBA{R: 255, G: 79, B: 40, A: 255}},
		{2, "Water", color.RGBA{R: 40, G: 120, B: 255, A: 255}},
		{3, "Earth", color.RGBA{R: 99, G: 181, B: 61, A: 255}},
		{4, "Wind", color.RGBA{R: 220, G: 220, B: 79, A: 255}},
		{5, "Light", color.RGBA{R: 255, G: 200, B: 120, A: 255}},
		{6, "Shadow", color.RGBA{R: 61, G: 40, B: 99, A: 255}},
		{7, "Star", color.RGBA{R: 199, G: 160, B: 255, A: 255}},
		{8, "Moon", color.RGBA{R: 120, G: 140, B: 180, A: 255}},
	}
}

// Install registers the card destination on the stack and sets the grid
// as its root.
func Install(s *flowstack.Stack, cards []Card, cfg flowstack.LinkConfig) *Grid {
	byID := make(map[int]Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}
	flowstack.RegisterDestination(s.Registry(), func(env *flowstack.Env, c Card) flowstack.Content {
		return NewDetail(env, c, related(cards, c), cfg)
	})
	g := NewGrid(s.RootEnv(), cards, cfg)
	s.SetRoot(g)
	return g
}

// related returns the two cards after c, wrapping around.
func related(cards []Card, c Card) []Card {
	var out []Card
	for i, cc := range cards {
		if cc.ID != c.ID {
			continue
		}
		for j := 1; j <= 2 && j < len(cards); j++ {
			out = append(out, cards[(i+j)%len(cards)])
		}
	}
	return out
}

// CardLabel draws a card tile: a colored block with its title.
type CardLabel struct {
	Card Card
}

// Draw implements flowstack.Content.
func (l CardLabel) Draw(dst *ebiten.Image) {
	dst.Fill(l.Card.Color)
	b := dst.Bounds()
	drawText(dst, l.Card.Title, false, float64(b.Min.X)+10, float64(b.Max.Y)-26, color.White)
}

// Grid is the root content: cards laid out in two columns, each one a
// link to its detail page.
type Grid struct {
	env   *flowstack.Env
	cards []Card
	links []*flowstack.Link
	width float64
}

// NewGrid creates the card grid.
func NewGrid(env *flowstack.Env, cards []Card, cfg flowstack.LinkConfig) *Grid {
	g := &Grid{env: env, cards: cards}
	for _, c := range cards {
		g.links = append(g.links, flowstack.NewLink(env, flowstack.ValueOf(c), CardLabel{Card: c}, cfg))
	}
	return g
}

// Links returns the grid's links in card order.
func (g *Grid) Links() []*flowstack.Link { return g.links }

// Layout positions the cards for a container of the given width.
func (g *Grid) Layout(width float64) {
	if width == g.width {
		return
	}
	g.width = width
	w := (width - gridPad*(gridColumns+1)) / gridColumns
	h := w * cardAspect
	for i, l := range g.links {
		col := i % gridColumns
		row := i / gridColumns
		l.SetBounds(flowstack.Rect{
			X:      gridPad + float64(col)*(w+gridPad),
			Y:      headerH + gridPad + float64(row)*(h+gridPad),
			Width:  w,
			Height: h,
		})
	}
}

// Draw implements flowstack.Content.
func (g *Grid) Draw(dst *ebiten.Image) {
	b := dst.Bounds()
	g.Layout(float64(b.Dx()))
	dst.Fill(Background)
	drawText(dst, "Cards", true, float64(b.Min.X)+gridPad, float64(b.Min.Y)+16, textColor)
	for _, l := range g.links {
		l.Draw(dst)
	}
}

// HandlePointer implements flowstack.PointerHandler.
func (g *Grid) HandlePointer(ev flowstack.PointerEvent) bool {
	handled := false
	for _, l := range g.links {
		if l.HandlePointer(ev) {
			handled = true
		}
	}
	return handled
}

// Detail is the destination for a Card: a colored header, a scrollable
// body and links to related cards.
type Detail struct {
	env    *flowstack.Env
	card   Card
	body   *ScrollList
	links  []*flowstack.Link
	width  float64
	height float64
}

// NewDetail creates the detail page for c.
func NewDetail(env *flowstack.Env, c Card, rel []Card, cfg flowstack.LinkConfig) *Detail {
	d := &Detail{env: env, card: c}
	rows := make([]string, 40)
	for i := range rows {
		rows[i] = fmt.Sprintf("%s note %d", c.Title, i+1)
	}
	d.body = NewScrollList(rows)
	for _, r := range rel {
		d.links = append(d.links, flowstack.NewLink(env, flowstack.ValueOf(r), CardLabel{Card: r}, cfg))
	}
	env.OnPresent(func() {
		flowstack.Logger().Info("demo: presented", slog.String("card", c.Title), slog.Int("depth", env.Depth()))
	})
	env.OnDismiss(func() {
		flowstack.Logger().Info("demo: dismissed", slog.String("card", c.Title), slog.Int("depth", env.Depth()))
	})
	return d
}

// Card returns the card shown.
func (d *Detail) Card() Card { return d.card }

// Body returns the scrollable body.
func (d *Detail) Body() *ScrollList { return d.body }

func (d *Detail) headerHeight() float64 { return math.Round(d.width * 0.5) }

// layout positions the related links and the body.
func (d *Detail) layout(w, h float64) {
	if w == d.width && h == d.height {
		return
	}
	d.width, d.height = w, h
	top := d.headerHeight() + gridPad
	lw := (w - gridPad*3) / 2
	for i, l := range d.links {
		l.SetBounds(flowstack.Rect{X: gridPad + float64(i)*(lw+gridPad), Y: top, Width: lw, Height: 60})
	}
	bodyY := top + 60 + gridPad
	d.body.SetFrame(flowstack.Rect{X: 0, Y: bodyY, Width: w, Height: math.Max(0, h-bodyY)})
}

// Draw implements flowstack.Content.
func (d *Detail) Draw(dst *ebiten.Image) {
	b := dst.Bounds()
	d.layout(float64(b.Dx()), float64(b.Dy()))
	dst.Fill(color.White)

	hh := int(d.headerHeight())
	header := dst.SubImage(image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+hh)).(*ebiten.Image)
	header.Fill(d.card.Color)
	ox, oy := float64(b.Min.X), float64(b.Min.Y)
	drawText(dst, d.card.Title, true, ox+gridPad, oy+float64(hh)-36, color.White)
	drawText(dst, fmt.Sprintf("depth %d  progress %.2f", d.env.Depth(), d.env.Progress()),
		false, ox+gridPad, oy+gridPad, color.White)

	for _, l := range d.links {
		l.Draw(dst)
	}
	d.body.Draw(dst)
}

// HandlePointer implements flowstack.PointerHandler.
func (d *Detail) HandlePointer(ev flowstack.PointerEvent) bool {
	for _, l := range d.links {
		if l.HandlePointer(ev) {
			return true
		}
	}
	return d.body.HandlePointer(ev)
}

// Children implements flowstack.Parent so the dismiss gesture finds the
// scrollable body.
func (d *Detail) Children() []flowstack.Content {
	return []flowstack.Content{d.body}
}
