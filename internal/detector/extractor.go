package detector

import (
	"image"

	"github.com/disintegration/imaging"
)

// DefaultPadding is the margin added around a detected face before cropping
const DefaultPadding = 20

// ExpandBox pads box on every side and clamps it to the image. The lower
// bounds are floored at 0 while the upper bounds are capped at dimension-1,
// so the last row and column are never part of a crop. Only those two
// directions are clamped; a box lying outside the image can therefore come
// back empty.
func ExpandBox(box BoundingBox, padding, width, height int) BoundingBox {
	return BoundingBox{
		X1: max(0, box.X1-padding),
		Y1: max(0, box.Y1-padding),
		X2: min(box.X2+padding, width-1),
		Y2: min(box.Y2+padding, height-1),
	}
}

// ExtractFace crops the padded face region of candidate out of img. It
// returns the crop together with the clamped box, or ErrEmptyRegion when
// the clamped box encloses no pixels.
func ExtractFace(img *image.NRGBA, candidate FaceCandidate, padding int) (*image.NRGBA, BoundingBox, error) {
	bounds := img.Bounds()
	region := ExpandBox(candidate.Box, padding, bounds.Dx(), bounds.Dy())

	if region.Empty() {
		return nil, region, ErrEmptyRegion
	}

	return imaging.Crop(img, region.Rect().Add(bounds.Min)), region, nil
}
