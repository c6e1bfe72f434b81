package layout

import (
	"github.com/matzehuels/rwpspread/pkg/monitor"
)

// Options controls the optional compensation steps of [Resolve].
type Options struct {
	// Diagonals maps monitor names to their diagonal in inches. When
	// non-empty, PPI compensation runs for the named monitors.
	Diagonals map[string]float64

	// Bezel is the padding in pixels inserted between neighboring monitors.
	Bezel int

	// MaxIterations bounds the relaxation. Zero means DefaultMaxIterations.
	MaxIterations int
}

// Resolved is one monitor's place in a resolved layout.
type Resolved struct {
	Name string `json:"name"`
	Box
}

// Layout is the solver output: one resolved box per monitor, ordered by name.
type Layout struct {
	Monitors []Resolved `json:"monitors"`

	// Converged is false when relaxation stopped at the iteration cap with
	// overlaps remaining.
	Converged bool `json:"-"`
}

// Resolve turns a monitor snapshot into a normalized, non-overlapping layout.
//
// The only failure besides malformed monitors is a diagonal for a monitor
// that is not in the set.
func Resolve(monitors []monitor.Monitor, opts Options) (Layout, error) {
	if err := monitor.Validate(monitors); err != nil {
		return Layout{}, err
	}
	sorted := monitor.Sorted(monitors)

	names := make([]string, len(sorted))
	boxes := make([]Box, len(sorted))
	for i, m := range sorted {
		names[i] = m.Name
		boxes[i] = FromMonitor(m)
	}

	if len(opts.Diagonals) > 0 {
		var err error
		boxes, err = compensatePPI(names, boxes, opts.Diagonals)
		if err != nil {
			return Layout{}, err
		}
	}

	relaxed := Relax(boxes, max(opts.Bezel, 0), opts.MaxIterations)
	boxes = Normalize(relaxed.Boxes)

	out := Layout{
		Monitors:  make([]Resolved, len(boxes)),
		Converged: relaxed.Converged,
	}
	for i := range boxes {
		out.Monitors[i] = Resolved{Name: names[i], Box: boxes[i]}
	}
	return out, nil
}

// Normalize translates boxes so the smallest x1 and y1 become 0.
func Normalize(boxes []Box) []Box {
	out := make([]Box, len(boxes))
	copy(out, boxes)
	if len(out) == 0 {
		return out
	}

	minX, minY := out[0].X1, out[0].Y1
	for _, b := range out[1:] {
		minX = min(minX, b.X1)
		minY = min(minY, b.Y1)
	}
	for i := range out {
		out[i] = out[i].Translate(-minX, -minY)
	}
	return out
}

// Canvas returns the smallest image size covering every resolved box.
func (l Layout) Canvas() (width, height int) {
	for _, m := range l.Monitors {
		width = max(width, m.X2)
		height = max(height, m.Y2)
	}
	return width, height
}

// Get returns the resolved monitor with the given name.
func (l Layout) Get(name string) (Resolved, bool) {
	for _, m := range l.Monitors {
		if m.Name == name {
			return m, true
		}
	}
	return Resolved{}, false
}

// Names returns the monitor names in layout order.
func (l Layout) Names() []string {
	names := make([]string, len(l.Monitors))
	for i, m := range l.Monitors {
		names[i] = m.Name
	}
	return names
}

// Boxes returns the boxes in layout order.
func (l Layout) Boxes() []Box {
	boxes := make([]Box, len(l.Monitors))
	for i, m := range l.Monitors {
		boxes[i] = m.Box
	}
	return boxes
}
