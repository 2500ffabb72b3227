package detector

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devyanshnandeshwar/ghostly-app/internal/logger"
)

type fakeNetwork struct {
	forward func(blob *Blob) (*Tensor, error)
	calls   atomic.Int32
	closed  atomic.Bool
}

func (f *fakeNetwork) Forward(blob *Blob) (*Tensor, error) {
	f.calls.Add(1)
	if f.forward == nil {
		return &Tensor{}, nil
	}
	return f.forward(blob)
}

func (f *fakeNetwork) Close() error {
	f.closed.Store(true)
	return nil
}

// detectionOutput builds a [1,1,N,7] detector tensor
func detectionOutput(rows ...[7]float32) *Tensor {
	data := make([]float32, 0, len(rows)*detectionRowSize)
	for _, r := range rows {
		data = append(data, r[:]...)
	}
	return &Tensor{Shape: []int{1, 1, len(rows), detectionRowSize}, Data: data}
}

func faceRow(conf, x1, y1, x2, y2 float32) [7]float32 {
	return [7]float32{0, 1, conf, x1, y1, x2, y2}
}

func staticNetwork(out *Tensor) *fakeNetwork {
	return &fakeNetwork{forward: func(*Blob) (*Tensor, error) { return out, nil }}
}

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// modelFiles writes placeholder model files and returns a config pointing at them
func modelFiles(t *testing.T) ModelsConfig {
	t.Helper()
	dir := t.TempDir()

	write := func(name string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("model"), 0o644))
		return path
	}

	return ModelsConfig{
		Face: ModelSpec{
			Name:         FaceModelName,
			Architecture: write("opencv_face_detector.pbtxt"),
			Weights:      write("opencv_face_detector_uint8.pb"),
		},
		Gender: ModelSpec{
			Name:         GenderModelName,
			Architecture: write("gender_deploy.prototxt"),
			Weights:      write("gender_net.caffemodel"),
		},
		Instances: 1,
	}
}

// networkOpener hands out face or gender for the matching model name
func networkOpener(face, gender Network) Opener {
	return OpenerFunc(func(spec ModelSpec) (Network, error) {
		if spec.Name == FaceModelName {
			return face, nil
		}
		return gender, nil
	})
}

func loadedModels(t *testing.T, face, gender Network) *Models {
	t.Helper()
	m := NewModels(modelFiles(t), networkOpener(face, gender), logger.NewNopLogger())
	require.NoError(t, m.Load())
	require.True(t, m.Ready())
	return m
}
