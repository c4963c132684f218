package flowstack

import (
	"fmt"
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Rasterizer freezes content into an image for the snapshot cross-fade.
type Rasterizer interface {
	// Rasterize draws c at the given layout size and returns the result,
	// cropped to crop when it is non-nil. crop is in c's layout
	// coordinates.
	Rasterize(c Content, size Vec2, crop *Rect) (*ebiten.Image, error)
}

// ImageRasterizer renders content into a new offscreen image. The caller
// owns the returned image.
type ImageRasterizer struct{}

// Rasterize implements Rasterizer.
func (ImageRasterizer) Rasterize(c Content, size Vec2, crop *Rect) (*ebiten.Image, error) {
	if c == nil {
		return nil, fmt.Errorf("rasterize nil content: %w", ErrEmptySnapshot)
	}
	w := int(math.Ceil(size.X))
	h := int(math.Ceil(size.Y))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("rasterize %dx%d: %w", w, h, ErrEmptySnapshot)
	}
	img := ebiten.NewImage(w, h)
	c.Draw(img)
	if crop == nil {
		return img, nil
	}
	r := image.Rect(
		int(math.Floor(crop.X)), int(math.Floor(crop.Y)),
		int(math.Ceil(crop.X+crop.Width)), int(math.Ceil(crop.Y+crop.Height)),
	).Intersect(img.Bounds())
	if r.Empty() {
		img.Deallocate()
		return nil, fmt.Errorf("rasterize crop %v: %w", *crop, ErrEmptySnapshot)
	}
	return img.SubImage(r).(*ebiten.Image), nil
}
