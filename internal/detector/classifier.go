package detector

import (
	"fmt"
	"image"
)

const genderInputSize = 227

var genderBlobParams = BlobParams{
	Width:  genderInputSize,
	Height: genderInputSize,
	Mean:   [3]float64{78.4263377603, 87.7689143744, 114.895847746},
	SwapRB: false,
}

// GenderClassifier labels a cropped face as male or female
type GenderClassifier struct {
	net Network
}

// NewGenderClassifier creates a classifier over the given network. A nil
// network yields ErrModelUnavailable on every call.
func NewGenderClassifier(net Network) *GenderClassifier {
	return &GenderClassifier{net: net}
}

// Classify returns the label with the highest score and that raw score.
// The network's output layer is already a probability so no softmax is
// applied here.
func (c *GenderClassifier) Classify(face image.Image) (Gender, float64, error) {
	if c == nil || c.net == nil {
		return "", 0, ErrModelUnavailable
	}

	out, err := c.net.Forward(NewBlob(face, genderBlobParams))
	if err != nil {
		return "", 0, fmt.Errorf("%w: gender classifier forward pass: %v", ErrModelUnavailable, err)
	}
	if out == nil || len(out.Data) < len(genderLabels) {
		return "", 0, fmt.Errorf("%w: unexpected gender classifier output shape %v", ErrModelUnavailable, shapeOf(out))
	}

	scores := out.Data[:len(genderLabels)]
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}

	return genderLabels[best], float64(scores[best]), nil
}
