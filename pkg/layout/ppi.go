package layout

import (
	"math"
	"sort"

	"github.com/matzehuels/rwpspread/pkg/errors"
)

// PPI returns the pixel density of a width x height panel with the given
// diagonal in inches. The pixel diagonal is truncated to an integer before
// dividing, and the result is rounded to the nearest integer.
func PPI(width, height int, diagonal float64) int {
	pixels := math.Floor(math.Sqrt(float64(width*width + height*height)))
	return int(math.Round(pixels / diagonal))
}

// compensatePPI scales every box named in diagonals to the density of the
// least dense configured monitor. names[i] is the monitor of boxes[i].
func compensatePPI(names []string, boxes []Box, diagonals map[string]float64) ([]Box, error) {
	if err := checkDiagonals(names, diagonals); err != nil {
		return nil, err
	}

	ppis := make(map[string]int, len(diagonals))
	reference := 0
	for i, name := range names {
		d, ok := diagonals[name]
		if !ok {
			continue
		}
		p := PPI(boxes[i].InitialWidth, boxes[i].InitialHeight, d)
		if p <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "monitor %s: diagonal of %g inches gives no usable ppi", name, d)
		}
		ppis[name] = p
		if reference == 0 || p < reference {
			reference = p
		}
	}

	out := make([]Box, len(boxes))
	copy(out, boxes)
	for i, name := range names {
		p, ok := ppis[name]
		if !ok || p == reference {
			continue
		}
		out[i] = out[i].scale(float64(reference) / float64(p))
	}
	return out, nil
}

// checkDiagonals rejects non-positive diagonals and diagonals for monitors
// that are not connected.
func checkDiagonals(names []string, diagonals map[string]float64) error {
	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}

	var missing []string
	for name, d := range diagonals {
		if !present[name] {
			missing = append(missing, name)
			continue
		}
		if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "monitor %s: invalid diagonal %g", name, d)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return errors.New(errors.ErrCodeMissingMonitor, "missing monitor definitions: %v not connected", missing)
	}
	return nil
}
