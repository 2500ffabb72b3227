package detector

import (
	"fmt"
	"image"
)

const (
	// DefaultConfidenceThreshold is the minimum detector score for a face
	DefaultConfidenceThreshold = 0.7

	faceInputSize = 300
	// detection rows are [image_id, label, confidence, x1, y1, x2, y2]
	detectionRowSize = 7
)

var faceBlobParams = BlobParams{
	Width:  faceInputSize,
	Height: faceInputSize,
	Mean:   [3]float64{104, 117, 123},
	SwapRB: true,
}

// FaceLocator runs the single-shot face detector over a full image
type FaceLocator struct {
	net Network
}

// NewFaceLocator creates a locator over the given detection network. A nil
// network yields ErrModelUnavailable on every call.
func NewFaceLocator(net Network) *FaceLocator {
	return &FaceLocator{net: net}
}

// DetectFaces returns every detection whose confidence is strictly above
// threshold, in the order the network emitted them. Coordinates are scaled
// to pixels but not clamped; an empty slice means no face was found.
func (l *FaceLocator) DetectFaces(img *image.NRGBA, threshold float64) ([]FaceCandidate, error) {
	if l == nil || l.net == nil {
		return nil, ErrModelUnavailable
	}

	width := img.Bounds().Dx()
	height := img.Bounds().Dy()

	out, err := l.net.Forward(NewBlob(img, faceBlobParams))
	if err != nil {
		return nil, fmt.Errorf("%w: face detector forward pass: %v", ErrModelUnavailable, err)
	}
	if out == nil || len(out.Data)%detectionRowSize != 0 {
		return nil, fmt.Errorf("%w: unexpected face detector output shape %v", ErrModelUnavailable, shapeOf(out))
	}

	fw := float32(width)
	fh := float32(height)

	var candidates []FaceCandidate
	for i := 0; i+detectionRowSize <= len(out.Data); i += detectionRowSize {
		row := out.Data[i : i+detectionRowSize]

		confidence := row[2]
		if float64(confidence) <= threshold {
			continue
		}

		candidates = append(candidates, FaceCandidate{
			Box: BoundingBox{
				X1: int(row[3] * fw),
				Y1: int(row[4] * fh),
				X2: int(row[5] * fw),
				Y2: int(row[6] * fh),
			},
			Confidence: float64(confidence),
		})
	}

	return candidates, nil
}

func shapeOf(t *Tensor) []int {
	if t == nil {
		return nil
	}
	return t.Shape
}
