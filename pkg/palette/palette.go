// Package palette derives a 16 color terminal palette from a wallpaper and
// writes it as a JSON sidecar.
//
// Colors are picked by relative luminance: the luminance range is cut into
// 16 equal bands and each band gets the most frequent source color that
// falls into it. Bands without a matching color get the previous color,
// brightened until it enters the band.
package palette

import (
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/rwpspread/pkg/cache"
	"github.com/matzehuels/rwpspread/pkg/errors"
	"github.com/matzehuels/rwpspread/pkg/raster"
)

// Size is the number of palette entries.
const Size = 16

// sampleSize bounds the longest side of the image that is sampled.
const sampleSize = 750

// Palette is the sidecar document.
type Palette struct {
	Wallpaper  string            `json:"wallpaper"`
	Foreground string            `json:"foreground"`
	Background string            `json:"background"`
	Colors     map[string]string `json:"colors"`
}

type rgb [3]uint8

type bucket struct {
	c     rgb
	count int
}

// Generate computes the palette of img. wallpaper is recorded verbatim.
func Generate(img image.Image, wallpaper string) Palette {
	ranked := rank(raster.Thumbnail(img, sampleSize))

	colors := make([]rgb, Size)
	last := rgb{}
	for i := 0; i < Size; i++ {
		lo, hi := float64(i)/Size, float64(i+1)/Size
		chosen, ok := pick(ranked, lo, hi)
		if !ok {
			chosen = brighten(last, lo, hi)
		}
		colors[i] = chosen
		last = chosen
	}

	p := Palette{
		Wallpaper:  wallpaper,
		Background: hex(colors[0]),
		Foreground: hex(colors[Size-1]),
		Colors:     make(map[string]string, Size),
	}
	for i, c := range colors {
		p.Colors["color"+strconv.Itoa(i)] = hex(c)
	}
	return p
}

// Write stores p as the palette sidecar in dir and returns the path.
func (p Palette) Write(dir string) (string, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode palette")
	}
	path := filepath.Join(dir, cache.PaletteName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "write palette")
	}
	return path, nil
}

// rank counts the opaque colors of img, most frequent first. Ties are
// broken by color value so the order is stable.
func rank(img image.Image) []bucket {
	counts := make(map[rgb]int)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			counts[rgb{c.R, c.G, c.B}]++
		}
	}

	ranked := make([]bucket, 0, len(counts))
	for c, n := range counts {
		ranked = append(ranked, bucket{c, n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		a, b := ranked[i].c, ranked[j].c
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		if a[1] != b[1] {
			return a[1] < b[1]
		}
		return a[2] < b[2]
	})
	return ranked
}

func pick(ranked []bucket, lo, hi float64) (rgb, bool) {
	for _, b := range ranked {
		if l := luminance(b.c); l > lo && l < hi {
			return b.c, true
		}
	}
	return rgb{}, false
}

// brighten raises every channel of c in lockstep until its luminance lies
// strictly inside (lo, hi) or the color saturates.
func brighten(c rgb, lo, hi float64) rgb {
	for step := 1; step <= 255; step++ {
		n := rgb{addSat(c[0], step), addSat(c[1], step), addSat(c[2], step)}
		if l := luminance(n); l > lo && l < hi {
			return n
		}
		if n == (rgb{255, 255, 255}) {
			return n
		}
	}
	return c
}

func addSat(v uint8, d int) uint8 {
	return uint8(min(int(v)+d, 255))
}

// luminance is the relative luminance of c in [0, 1].
func luminance(c rgb) float64 {
	r, g, b := toColorful(c).LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

func toColorful(c rgb) colorful.Color {
	return colorful.Color{R: float64(c[0]) / 255, G: float64(c[1]) / 255, B: float64(c[2]) / 255}
}

func hex(c rgb) string {
	return strings.ToUpper(toColorful(c).Hex())
}
