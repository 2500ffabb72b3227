package detector

import "image"

// Gender is the label produced by the gender classifier
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// genderLabels maps classifier output indices to labels. The order is fixed
// by the trained network and must not change.
var genderLabels = [2]Gender{GenderMale, GenderFemale}

// BoundingBox is a face rectangle in pixel coordinates
type BoundingBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect converts the box into an image.Rectangle with exclusive upper bounds
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// Empty reports whether the box encloses no pixels
func (b BoundingBox) Empty() bool {
	return b.X2 <= b.X1 || b.Y2 <= b.Y1
}

// FaceCandidate is one detector row that passed the confidence threshold
type FaceCandidate struct {
	Box        BoundingBox `json:"box"`
	Confidence float64     `json:"confidence"`
}

// Blob is a single-image NCHW float32 network input
type Blob struct {
	Channels int
	Height   int
	Width    int
	Data     []float32
}

// Shape returns the 4-D blob shape
func (b *Blob) Shape() []int {
	return []int{1, b.Channels, b.Height, b.Width}
}

// Tensor is a network output
type Tensor struct {
	Shape []int
	Data  []float32
}

// Network is a loaded neural network. Implementations need not be safe for
// concurrent use; Models hands out instances through a checkout pool.
type Network interface {
	Forward(blob *Blob) (*Tensor, error)
	Close() error
}

// ModelSpec locates the files of one network on disk
type ModelSpec struct {
	Name         string
	Architecture string
	Weights      string
}

// Opener loads a network from its files
type Opener interface {
	Open(spec ModelSpec) (Network, error)
}

// OpenerFunc adapts a function to the Opener interface
type OpenerFunc func(spec ModelSpec) (Network, error)

// Open calls f(spec)
func (f OpenerFunc) Open(spec ModelSpec) (Network, error) {
	return f(spec)
}
