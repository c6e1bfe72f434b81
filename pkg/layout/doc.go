// Package layout resolves raw monitor geometry into a collision-free,
// non-negative coordinate space that a source image can be cut against.
//
// # Pipeline
//
// [Resolve] runs four steps over a snapshot of the connected monitors:
//
//  1. Box construction: each monitor becomes a well-formed [Box].
//  2. PPI compensation (optional): monitors named in a diagonal map are
//     scaled so that every configured monitor matches the pixel density of
//     the least dense one. Sizes are rounded to even integers and each box
//     is recentered on its original center.
//  3. Overlap relaxation: a bounded fixed-point iteration pushes overlapping
//     boxes apart along their shallower overlap axis. A positive bezel
//     padding also separates boxes that merely touch, leaving a gap of
//     exactly the padding between neighbors.
//  4. Normalization: all boxes are translated so the smallest x1 and y1 are 0.
//
// The canvas is the bounding size of the result, see [Layout.Canvas].
//
// # Relaxation
//
// Each relaxation pass computes displacements from a snapshot of the boxes
// taken at the start of the pass and applies them together afterwards, so
// the result does not depend on pair processing order.
//
// Total overlap area never grows from one pass to the next, and the
// relaxation converges, when every overlapping box overlaps exactly one
// other box and no third box lies within reach of the pair's push.
// Wider topologies are best effort: pushing one pair apart can drive a box
// into a third monitor, and overlaps can still be present when the
// iteration cap is reached.
// Callers tolerate that residual overlap; it is not an error.
package layout
