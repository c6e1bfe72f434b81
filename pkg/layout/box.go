package layout

import (
	"math"

	"github.com/matzehuels/rwpspread/pkg/monitor"
)

// Box is the working bounding box of one monitor.
//
// X2 == X1+Width and Y2 == Y1+Height hold for every Box produced by this
// package. InitialWidth and InitialHeight are the native size before PPI
// scaling.
type Box struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`

	Width         int `json:"width"`
	Height        int `json:"height"`
	InitialWidth  int `json:"initial_width"`
	InitialHeight int `json:"initial_height"`
}

// FromMonitor builds the canonical box for m.
func FromMonitor(m monitor.Monitor) Box {
	x1, x2 := minmax(m.X, m.X+m.Width)
	y1, y2 := minmax(m.Y, m.Y+m.Height)
	iw, ih := m.InitialWidth, m.InitialHeight
	if iw == 0 {
		iw = m.Width
	}
	if ih == 0 {
		ih = m.Height
	}
	return Box{
		X1:            x1,
		Y1:            y1,
		X2:            x2,
		Y2:            y2,
		Width:         x2 - x1,
		Height:        y2 - y1,
		InitialWidth:  iw,
		InitialHeight: ih,
	}
}

// Translate returns b moved by (dx, dy).
func (b Box) Translate(dx, dy int) Box {
	b.X1 += dx
	b.X2 += dx
	b.Y1 += dy
	b.Y2 += dy
	return b
}

// Scaled reports whether PPI compensation changed the working size.
func (b Box) Scaled() bool {
	return b.Width != b.InitialWidth || b.Height != b.InitialHeight
}

// Overlaps reports whether b and o intersect on both axes. With
// inclusive set, boxes that share an edge count as overlapping.
func (b Box) Overlaps(o Box, inclusive bool) bool {
	if inclusive {
		return b.X2 >= o.X1 && b.X1 <= o.X2 && b.Y2 >= o.Y1 && b.Y1 <= o.Y2
	}
	return b.X2 > o.X1 && b.X1 < o.X2 && b.Y2 > o.Y1 && b.Y1 < o.Y2
}

// OverlapDepth returns how far b and o intrude into each other per axis.
// Either value is 0 when the boxes are disjoint on that axis.
func (b Box) OverlapDepth(o Box) (x, y int) {
	x = max(min(b.X2, o.X2)-max(b.X1, o.X1), 0)
	y = max(min(b.Y2, o.Y2)-max(b.Y1, o.Y1), 0)
	return x, y
}

// OverlapArea is the area of the intersection of b and o.
func (b Box) OverlapArea(o Box) int {
	x, y := b.OverlapDepth(o)
	return x * y
}

// scale resizes the box by factor, rounding each dimension to the nearest
// even integer, and recenters it on its previous center.
func (b Box) scale(factor float64) Box {
	w := roundEven(float64(b.Width) * factor)
	h := roundEven(float64(b.Height) * factor)

	shiftX := abs(b.Width-w) / 2
	shiftY := abs(b.Height-h) / 2

	if w > b.Width {
		b.X1 -= shiftX
	} else {
		b.X1 += shiftX
	}
	if h > b.Height {
		b.Y1 -= shiftY
	} else {
		b.Y1 += shiftY
	}

	b.Width, b.Height = w, h
	b.X2 = b.X1 + w
	b.Y2 = b.Y1 + h
	return b
}

// roundEven rounds v to the nearest even integer, never below 2.
func roundEven(v float64) int {
	return max(int(math.Round(v/2))*2, 2)
}

func minmax(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
