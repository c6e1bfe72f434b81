// Package partition decides how a source image is fitted to a resolved
// layout and computes the crop rectangle of every monitor.
//
// Two paths exist. When no alignment is requested, or the source is
// smaller than the canvas on either axis, the source is resized to exactly
// the canvas size and crops are taken at the layout coordinates. Otherwise
// the source is used as is and the canvas is placed inside it according to
// the alignment.
package partition

import (
	"image"

	"github.com/matzehuels/rwpspread/pkg/errors"
	"github.com/matzehuels/rwpspread/pkg/layout"
)

// Crop is one monitor's slice of the (possibly resized) source.
type Crop struct {
	Name string
	Rect image.Rectangle

	// NativeWidth and NativeHeight are the monitor's real resolution. When
	// they differ from Rect's size the crop must be resized before export.
	NativeWidth  int
	NativeHeight int
}

// NeedsResize reports whether the cropped pixels must be rescaled to the
// monitor's native resolution.
func (c Crop) NeedsResize() bool {
	return c.Rect.Dx() != c.NativeWidth || c.Rect.Dy() != c.NativeHeight
}

// Plan is the partition decision for one run.
type Plan struct {
	// Canvas is the layout's bounding size.
	Canvas image.Point

	// Resize is set on the scale path: the source must be filled to Canvas
	// before cropping.
	Resize bool

	// Offset is the canvas origin inside the unscaled source on the align path.
	Offset image.Point

	// Crops are ordered like the layout monitors.
	Crops []Crop
}

// Target returns the size of the image the crops index into.
func (p Plan) Target(src image.Point) image.Point {
	if p.Resize {
		return p.Canvas
	}
	return src
}

// Compute builds the plan for a source of size src.
func Compute(src image.Point, l layout.Layout, align Alignment) (Plan, error) {
	if src.X <= 0 || src.Y <= 0 {
		return Plan{}, errors.New(errors.ErrCodeInvalidInput, "source image has no pixels (%dx%d)", src.X, src.Y)
	}
	if len(l.Monitors) == 0 {
		return Plan{}, errors.New(errors.ErrCodeInvalidMonitor, "layout has no monitors")
	}

	w, h := l.Canvas()
	p := Plan{Canvas: image.Pt(w, h)}

	if align == AlignNone || src.X < w || src.Y < h {
		p.Resize = true
	} else {
		p.Offset = align.Offset(src, p.Canvas)
	}

	p.Crops = make([]Crop, len(l.Monitors))
	for i, m := range l.Monitors {
		p.Crops[i] = Crop{
			Name:         m.Name,
			Rect:         image.Rect(m.X1, m.Y1, m.X2, m.Y2).Add(p.Offset),
			NativeWidth:  m.InitialWidth,
			NativeHeight: m.InitialHeight,
		}
	}

	if err := p.Validate(src); err != nil {
		return Plan{}, err
	}
	return p, nil
}

// Validate checks that every crop lies inside the image it is cut from.
func (p Plan) Validate(src image.Point) error {
	bounds := image.Rectangle{Max: p.Target(src)}
	for _, c := range p.Crops {
		if c.Rect.Empty() || !c.Rect.In(bounds) {
			return errors.New(errors.ErrCodeOutOfBounds,
				"crop for monitor %s %v exceeds image bounds %v", c.Name, c.Rect, bounds)
		}
	}
	return nil
}
