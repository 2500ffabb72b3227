package detector

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFaceLocator_DetectFaces(t *testing.T) {
	var seen *Blob
	net := &fakeNetwork{forward: func(b *Blob) (*Tensor, error) {
		seen = b
		return detectionOutput(
			faceRow(0.9, 0.1, 0.2, 0.5, 0.6),
			faceRow(0.5, 0.0, 0.0, 1.0, 1.0),
			faceRow(0.75, 0.25, 0.5, 1.25, 1.5),
		), nil
	}}

	img := solidImage(200, 100, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	faces, err := NewFaceLocator(net).DetectFaces(img, DefaultConfidenceThreshold)
	require.NoError(t, err)

	require.NotNil(t, seen)
	assert.Equal(t, []int{1, 3, faceInputSize, faceInputSize}, seen.Shape())

	require.Len(t, faces, 2)
	assert.Equal(t, BoundingBox{X1: 20, Y1: 20, X2: 100, Y2: 60}, faces[0].Box)
	assert.InDelta(t, 0.9, faces[0].Confidence, 1e-6)

	// coordinates outside the unit square are scaled but not clamped
	assert.Equal(t, BoundingBox{X1: 50, Y1: 50, X2: 250, Y2: 150}, faces[1].Box)
}

func TestFaceLocator_ThresholdIsStrict(t *testing.T) {
	net := staticNetwork(detectionOutput(faceRow(0.75, 0.1, 0.1, 0.2, 0.2)))
	img := solidImage(10, 10, color.NRGBA{A: 255})

	faces, err := NewFaceLocator(net).DetectFaces(img, 0.75)
	require.NoError(t, err)
	assert.Empty(t, faces)

	faces, err = NewFaceLocator(net).DetectFaces(img, 0.5)
	require.NoError(t, err)
	assert.Len(t, faces, 1)
}

func TestFaceLocator_PreservesEmissionOrder(t *testing.T) {
	net := staticNetwork(detectionOutput(
		faceRow(0.8, 0.0, 0.0, 0.1, 0.1),
		faceRow(0.99, 0.5, 0.5, 0.6, 0.6),
	))
	img := solidImage(100, 100, color.NRGBA{A: 255})

	faces, err := NewFaceLocator(net).DetectFaces(img, DefaultConfidenceThreshold)
	require.NoError(t, err)
	require.Len(t, faces, 2)
	assert.InDelta(t, 0.8, faces[0].Confidence, 1e-6)
	assert.InDelta(t, 0.99, faces[1].Confidence, 1e-6)
}

func TestFaceLocator_Errors(t *testing.T) {
	img := solidImage(10, 10, color.NRGBA{A: 255})

	t.Run("nil network", func(t *testing.T) {
		_, err := NewFaceLocator(nil).DetectFaces(img, DefaultConfidenceThreshold)
		assert.ErrorIs(t, err, ErrModelUnavailable)
	})

	t.Run("forward failure", func(t *testing.T) {
		net := &fakeNetwork{forward: func(*Blob) (*Tensor, error) {
			return nil, errors.New("backend crashed")
		}}
		_, err := NewFaceLocator(net).DetectFaces(img, DefaultConfidenceThreshold)
		assert.ErrorIs(t, err, ErrModelUnavailable)
		assert.Contains(t, err.Error(), "backend crashed")
	})

	t.Run("malformed output", func(t *testing.T) {
		net := staticNetwork(&Tensor{Shape: []int{1, 6}, Data: make([]float32, 6)})
		_, err := NewFaceLocator(net).DetectFaces(img, DefaultConfidenceThreshold)
		assert.ErrorIs(t, err, ErrModelUnavailable)
	})

	t.Run("empty output", func(t *testing.T) {
		faces, err := NewFaceLocator(staticNetwork(&Tensor{})).DetectFaces(img, DefaultConfidenceThreshold)
		require.NoError(t, err)
		assert.Empty(t, faces)
	})
}
