package partition

import (
	"image"
	"strings"

	"github.com/matzehuels/rwpspread/pkg/errors"
)

// Alignment anchors the canvas inside a source image that is large enough
// to be cropped without resizing.
type Alignment string

const (
	AlignNone         Alignment = ""
	AlignTopLeft      Alignment = "tl"
	AlignTopRight     Alignment = "tr"
	AlignTopCenter    Alignment = "tc"
	AlignBottomLeft   Alignment = "bl"
	AlignBottomRight  Alignment = "br"
	AlignBottomCenter Alignment = "bc"
	AlignRightCenter  Alignment = "rc"
	AlignLeftCenter   Alignment = "lc"
	AlignCenter       Alignment = "ct"
)

// Alignments lists every alignment accepted on the command line.
var Alignments = []Alignment{
	AlignTopLeft, AlignTopRight, AlignTopCenter,
	AlignBottomLeft, AlignBottomRight, AlignBottomCenter,
	AlignRightCenter, AlignLeftCenter, AlignCenter,
}

var alignmentAliases = map[string]Alignment{
	"top-left":      AlignTopLeft,
	"top-right":     AlignTopRight,
	"top-center":    AlignTopCenter,
	"bottom-left":   AlignBottomLeft,
	"bottom-right":  AlignBottomRight,
	"bottom-center": AlignBottomCenter,
	"right-center":  AlignRightCenter,
	"left-center":   AlignLeftCenter,
	"center":        AlignCenter,
}

// ParseAlignment accepts the two-letter codes and their long names.
// An empty string yields AlignNone.
func ParseAlignment(s string) (Alignment, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return AlignNone, nil
	}
	for _, a := range Alignments {
		if string(a) == s {
			return a, nil
		}
	}
	if a, ok := alignmentAliases[s]; ok {
		return a, nil
	}
	return AlignNone, errors.New(errors.ErrCodeInvalidInput, "invalid alignment %q (want one of %s)", s, alignmentList())
}

func alignmentList() string {
	parts := make([]string, len(Alignments))
	for i, a := range Alignments {
		parts[i] = string(a)
	}
	return strings.Join(parts, ", ")
}

// Offset returns where the top-left corner of canvas lands inside src.
// Both sizes must satisfy src >= canvas on each axis.
func (a Alignment) Offset(src, canvas image.Point) image.Point {
	dx := src.X - canvas.X
	dy := src.Y - canvas.Y
	switch a {
	case AlignTopRight:
		return image.Pt(dx, 0)
	case AlignTopCenter:
		return image.Pt(dx/2, 0)
	case AlignBottomLeft:
		return image.Pt(0, dy)
	case AlignBottomRight:
		return image.Pt(dx, dy)
	case AlignBottomCenter:
		return image.Pt(dx/2, dy)
	case AlignRightCenter:
		return image.Pt(dx, dy/2)
	case AlignLeftCenter:
		return image.Pt(0, dy/2)
	case AlignCenter:
		return image.Pt(dx/2, dy/2)
	default:
		return image.Point{}
	}
}
