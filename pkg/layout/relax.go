package layout

// DefaultMaxIterations bounds the overlap relaxation.
const DefaultMaxIterations = 100

// RelaxResult is the outcome of [Relax].
type RelaxResult struct {
	Boxes []Box

	// Iterations counts the passes that moved at least one box.
	Iterations int

	// Converged is false when the iteration cap was hit with overlaps left.
	Converged bool
}

// Relax pushes overlapping boxes apart until a pass moves nothing or
// maxIterations passes have run.
//
// With padding > 0 boxes that touch are treated as overlapping and end up
// separated by padding pixels. With padding == 0 only real intersections
// are resolved and touching boxes stay in place.
func Relax(boxes []Box, padding, maxIterations int) RelaxResult {
	cur := make([]Box, len(boxes))
	copy(cur, boxes)

	res := RelaxResult{Boxes: cur}
	if len(cur) < 2 {
		res.Converged = true
		return res
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	for res.Iterations < maxIterations {
		dx, dy, moved := relaxPass(cur, padding)
		if !moved {
			res.Converged = true
			return res
		}
		for i := range cur {
			cur[i] = cur[i].Translate(dx[i], dy[i])
		}
		res.Iterations++
	}

	res.Converged = !anyOverlap(cur, padding)
	return res
}

// relaxPass computes the displacement of every box from a snapshot. Each
// overlapping pair is split along the axis with the smaller overlap by
// overlap+padding, half to each side.
func relaxPass(snap []Box, padding int) (dx, dy []int, moved bool) {
	dx = make([]int, len(snap))
	dy = make([]int, len(snap))

	for i := 0; i < len(snap); i++ {
		for j := i + 1; j < len(snap); j++ {
			a, b := snap[i], snap[j]
			if !a.Overlaps(b, padding > 0) {
				continue
			}

			ox, oy := a.OverlapDepth(b)
			if ox < oy {
				lo, hi := split(ox + padding)
				if a.X1 < b.X1 {
					dx[i] -= lo
					dx[j] += hi
				} else {
					dx[i] += lo
					dx[j] -= hi
				}
			} else {
				lo, hi := split(oy + padding)
				if a.Y1 < b.Y1 {
					dy[i] -= lo
					dy[j] += hi
				} else {
					dy[i] += lo
					dy[j] -= hi
				}
			}
			moved = true
		}
	}
	return dx, dy, moved
}

// split divides n into two parts that differ by at most one.
func split(n int) (lo, hi int) {
	lo = n / 2
	return lo, n - lo
}

func anyOverlap(boxes []Box, padding int) bool {
	for i := 0; i < len(boxes); i++ {
		for j := i + 1; j < len(boxes); j++ {
			if boxes[i].Overlaps(boxes[j], padding > 0) {
				return true
			}
		}
	}
	return false
}

// TotalOverlap sums the pairwise intersection area of boxes.
func TotalOverlap(boxes []Box) int {
	total := 0
	for i := 0; i < len(boxes); i++ {
		for j := i + 1; j < len(boxes); j++ {
			total += boxes[i].OverlapArea(boxes[j])
		}
	}
	return total
}
