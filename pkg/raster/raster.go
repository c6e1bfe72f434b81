// Package raster adapts the image codec used for decoding sources and
// exporting per-monitor crops.
package raster

import (
	"bytes"
	"image"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/rwpspread/pkg/errors"
)

// Source is a decoded input image together with the bytes it came from.
// The bytes feed the cache key.
type Source struct {
	Path  string
	Bytes []byte
	Image image.Image
}

// Size returns the pixel dimensions of the decoded image.
func (s *Source) Size() image.Point {
	return s.Image.Bounds().Size()
}

// Load reads and decodes the image at path. PNG, JPEG, GIF, BMP, TIFF and
// WebP are understood.
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "image %s does not exist", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read image %s", path)
	}
	img, err := Decode(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode image %s", path)
	}
	return &Source{Path: path, Bytes: data, Image: img}, nil
}

// Decode decodes an encoded image, applying EXIF orientation.
func Decode(data []byte) (image.Image, error) {
	return imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
}

// Fill scales img to cover width x height and crops the overflow around
// the center, so the result is exactly the requested size.
func Fill(img image.Image, width, height int) *image.NRGBA {
	return imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)
}

// Crop cuts rect out of img.
func Crop(img image.Image, rect image.Rectangle) *image.NRGBA {
	return imaging.Crop(img, rect)
}

// Thumbnail shrinks img to fit inside size x size, keeping its aspect ratio.
func Thumbnail(img image.Image, size int) *image.NRGBA {
	return imaging.Fit(img, size, size, imaging.Box)
}

// SavePNG encodes img as PNG at path.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	if err := imaging.Encode(f, img, imaging.PNG); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeIO, err, "encode %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}
