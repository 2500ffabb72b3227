package detector

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultMaxImagePixels caps width*height of an accepted image
const DefaultMaxImagePixels = 1 << 26

// DecodeImage decodes raw upload bytes into an NRGBA pixel buffer anchored at
// the origin. EXIF orientation is applied; alpha is carried but ignored by
// the networks. Images whose header declares more than maxPixels pixels are
// rejected before any pixel data is decoded; maxPixels <= 0 selects
// DefaultMaxImagePixels.
func DecodeImage(data []byte, maxPixels int) (*image.NRGBA, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxImagePixels
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: zero-sized image", ErrInvalidImage)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidImage, cfg.Width, cfg.Height, maxPixels)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: zero-sized image", ErrInvalidImage)
	}

	return imaging.Clone(img), nil
}

// BlobParams describes how an image is turned into a network input, using
// OpenCV blobFromImage conventions: pixels are read in BGR order, SwapRB
// flips them to RGB, and Mean is subtracted per output channel with no
// scaling.
type BlobParams struct {
	Width  int
	Height int
	Mean   [3]float64
	SwapRB bool
}

// NewBlob resizes img to the configured spatial size and lays it out as a
// mean-subtracted NCHW tensor.
func NewBlob(img image.Image, p BlobParams) *Blob {
	resized := imaging.Resize(img, p.Width, p.Height, imaging.Linear)

	plane := p.Width * p.Height
	data := make([]float32, 3*plane)
	mean := [3]float32{float32(p.Mean[0]), float32(p.Mean[1]), float32(p.Mean[2])}

	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			i := resized.PixOffset(x, y)
			r, g, b := resized.Pix[i], resized.Pix[i+1], resized.Pix[i+2]

			first, last := b, r
			if p.SwapRB {
				first, last = r, b
			}

			idx := y*p.Width + x
			data[idx] = float32(first) - mean[0]
			data[plane+idx] = float32(g) - mean[1]
			data[2*plane+idx] = float32(last) - mean[2]
		}
	}

	return &Blob{
		Channels: 3,
		Height:   p.Height,
		Width:    p.Width,
		Data:     data,
	}
}
