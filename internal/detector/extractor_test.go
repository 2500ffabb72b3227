package detector

import (
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandBox(t *testing.T) {
	tests := []struct {
		name     string
		box      BoundingBox
		padding  int
		expected BoundingBox
	}{
		{
			name:     "interior",
			box:      BoundingBox{X1: 30, Y1: 40, X2: 60, Y2: 70},
			padding:  20,
			expected: BoundingBox{X1: 10, Y1: 20, X2: 80, Y2: 90},
		},
		{
			name:     "clamped at origin",
			box:      BoundingBox{X1: 5, Y1: 10, X2: 50, Y2: 50},
			padding:  20,
			expected: BoundingBox{X1: 0, Y1: 0, X2: 70, Y2: 70},
		},
		{
			name:     "upper bound is dimension minus one",
			box:      BoundingBox{X1: 0, Y1: 0, X2: 100, Y2: 100},
			padding:  20,
			expected: BoundingBox{X1: 0, Y1: 0, X2: 99, Y2: 99},
		},
		{
			name:     "negative coordinates",
			box:      BoundingBox{X1: -30, Y1: -5, X2: 10, Y2: 10},
			padding:  0,
			expected: BoundingBox{X1: 0, Y1: 0, X2: 10, Y2: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandBox(tt.box, tt.padding, 100, 100))
		})
	}
}

func TestExtractFace(t *testing.T) {
	img := solidImage(100, 80, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	crop, region, err := ExtractFace(img, FaceCandidate{Box: BoundingBox{X1: 30, Y1: 30, X2: 60, Y2: 50}}, DefaultPadding)
	require.NoError(t, err)

	assert.Equal(t, BoundingBox{X1: 10, Y1: 10, X2: 80, Y2: 70}, region)
	assert.Equal(t, 70, crop.Bounds().Dx())
	assert.Equal(t, 60, crop.Bounds().Dy())
}

func TestExtractFace_EmptyRegion(t *testing.T) {
	img := solidImage(100, 100, color.NRGBA{A: 255})

	tests := []BoundingBox{
		{X1: 300, Y1: 10, X2: 380, Y2: 50},
		{X1: 10, Y1: 200, X2: 50, Y2: 260},
		{X1: 50, Y1: 50, X2: 10, Y2: 10},
	}

	for _, box := range tests {
		crop, _, err := ExtractFace(img, FaceCandidate{Box: box}, DefaultPadding)
		assert.Nil(t, crop)
		assert.ErrorIs(t, err, ErrEmptyRegion)
	}
}

func TestExtractFace_RegionStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const w, h = 64, 48
	img := solidImage(w, h, color.NRGBA{A: 255})

	for i := 0; i < 500; i++ {
		x1 := rng.Intn(3*w) - w
		y1 := rng.Intn(3*h) - h
		box := BoundingBox{X1: x1, Y1: y1, X2: x1 + rng.Intn(w), Y2: y1 + rng.Intn(h)}

		crop, region, err := ExtractFace(img, FaceCandidate{Box: box}, rng.Intn(40))
		if err != nil {
			require.ErrorIs(t, err, ErrEmptyRegion)
			continue
		}

		assert.GreaterOrEqual(t, region.X1, 0)
		assert.GreaterOrEqual(t, region.Y1, 0)
		assert.Less(t, region.X2, w)
		assert.Less(t, region.Y2, h)
		assert.Less(t, region.X1, region.X2)
		assert.Less(t, region.Y1, region.Y2)
		assert.Equal(t, region.X2-region.X1, crop.Bounds().Dx())
		assert.Equal(t, region.Y2-region.Y1, crop.Bounds().Dy())
	}
}
