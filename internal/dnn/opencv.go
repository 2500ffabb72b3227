// Package dnn runs detector networks on the OpenCV DNN module
package dnn

import (
	"fmt"
	"runtime"
	"strings"
	"unsafe"

	"gocv.io/x/gocv"

	"github.com/devyanshnandeshwar/ghostly-app/internal/detector"
	"github.com/devyanshnandeshwar/ghostly-app/internal/logger"
)

var backends = map[string]gocv.NetBackendType{
	"default":  gocv.NetBackendDefault,
	"halide":   gocv.NetBackendHalide,
	"openvino": gocv.NetBackendOpenVINO,
	"opencv":   gocv.NetBackendOpenCV,
	"vulkan":   gocv.NetBackendVKCOM,
	"cuda":     gocv.NetBackendCUDA,
}

var targets = map[string]gocv.NetTargetType{
	"cpu":       gocv.NetTargetCPU,
	"fp32":      gocv.NetTargetFP32,
	"fp16":      gocv.NetTargetFP16,
	"vpu":       gocv.NetTargetVPU,
	"vulkan":    gocv.NetTargetVulkan,
	"fpga":      gocv.NetTargetFPGA,
	"cuda":      gocv.NetTargetCUDA,
	"cuda_fp16": gocv.NetTargetCUDAFP16,
}

// Config selects the compute backend and target for every network opened
type Config struct {
	Backend string
	Target  string
}

// Opener loads networks with gocv.ReadNet
type Opener struct {
	backend gocv.NetBackendType
	target  gocv.NetTargetType
	logger  *logger.Logger
}

// NewOpener validates the backend and target names. Empty names select the
// OpenCV backend on the CPU.
func NewOpener(cfg Config, log *logger.Logger) (*Opener, error) {
	backend, err := ParseBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}
	target, err := ParseTarget(cfg.Target)
	if err != nil {
		return nil, err
	}

	return &Opener{
		backend: backend,
		target:  target,
		logger:  log,
	}, nil
}

// ParseBackend maps a backend name to its gocv constant
func ParseBackend(name string) (gocv.NetBackendType, error) {
	if name == "" {
		return gocv.NetBackendOpenCV, nil
	}
	b, ok := backends[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown dnn backend %q", name)
	}
	return b, nil
}

// ParseTarget maps a target name to its gocv constant
func ParseTarget(name string) (gocv.NetTargetType, error) {
	if name == "" {
		return gocv.NetTargetCPU, nil
	}
	t, ok := targets[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown dnn target %q", name)
	}
	return t, nil
}

// Open implements detector.Opener. The framework is inferred by OpenCV from
// the file extensions.
func (o *Opener) Open(spec detector.ModelSpec) (detector.Network, error) {
	net := gocv.ReadNet(spec.Weights, spec.Architecture)
	if net.Empty() {
		_ = net.Close()
		return nil, fmt.Errorf("opencv could not read network from %s and %s", spec.Weights, spec.Architecture)
	}

	net.SetPreferableBackend(o.backend)
	net.SetPreferableTarget(o.target)

	o.logger.Debug("Network opened",
		"model", spec.Name,
		"weights", spec.Weights,
		"architecture", spec.Architecture,
	)

	return &Network{name: spec.Name, net: net}, nil
}

// Network wraps a gocv.Net. It is not safe for concurrent use.
type Network struct {
	name string
	net  gocv.Net
}

// Forward copies blob into a Mat, runs the default output layer and copies
// the result back out of OpenCV memory.
func (n *Network) Forward(blob *detector.Blob) (*detector.Tensor, error) {
	if blob == nil || len(blob.Data) == 0 {
		return nil, fmt.Errorf("%s: empty input blob", n.name)
	}

	raw := unsafe.Slice((*byte)(unsafe.Pointer(&blob.Data[0])), len(blob.Data)*4)
	input, err := gocv.NewMatWithSizesFromBytes(blob.Shape(), gocv.MatTypeCV32F, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: build input mat: %w", n.name, err)
	}
	defer input.Close()

	n.net.SetInput(input, "")
	output := n.net.Forward("")
	defer output.Close()
	runtime.KeepAlive(raw)

	if output.Empty() {
		return nil, fmt.Errorf("%s: forward produced no output", n.name)
	}

	values, err := output.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("%s: read output: %w", n.name, err)
	}

	data := make([]float32, len(values))
	copy(data, values)

	return &detector.Tensor{
		Shape: output.Size(),
		Data:  data,
	}, nil
}

// Close releases the underlying OpenCV network
func (n *Network) Close() error {
	return n.net.Close()
}
