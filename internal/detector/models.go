package detector

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/devyanshnandeshwar/ghostly-app/internal/logger"
)

const (
	FaceModelName   = "face_detector"
	GenderModelName = "gender_classifier"
)

// ModelsConfig locates both networks and sets how many copies of each are
// loaded for concurrent use.
type ModelsConfig struct {
	Face      ModelSpec
	Gender    ModelSpec
	Instances int
}

// Models owns the face detection and gender classification networks. Both
// are loaded once and are read-only afterwards.
type Models struct {
	cfg    ModelsConfig
	opener Opener
	logger *logger.Logger

	once   sync.Once
	mu     sync.RWMutex
	err    error
	ready  atomic.Bool
	closed bool
	face   *networkPool
	gender *networkPool
}

// NewModels creates an unloaded model set. Ready reports false until Load
// succeeds.
func NewModels(cfg ModelsConfig, opener Opener, log *logger.Logger) *Models {
	if cfg.Instances < 1 {
		cfg.Instances = 1
	}
	if cfg.Face.Name == "" {
		cfg.Face.Name = FaceModelName
	}
	if cfg.Gender.Name == "" {
		cfg.Gender.Name = GenderModelName
	}

	return &Models{
		cfg:    cfg,
		opener: opener,
		logger: log,
	}
}

// Load reads both networks from disk. It runs at most once; later calls
// return the outcome of the first. On failure it returns a *LoadError and
// releases any network that did open, so a failed set holds nothing.
func (m *Models) Load() error {
	m.once.Do(func() {
		face, gender, err := m.load()

		m.mu.Lock()
		defer m.mu.Unlock()

		if err == nil && m.closed {
			_ = closePools(face, gender)
			err = fmt.Errorf("%w: models closed during load", ErrModelUnavailable)
		}
		m.err = err
		if err != nil {
			return
		}

		m.face, m.gender = face, gender
		m.ready.Store(true)
		m.logger.Info("Models loaded successfully", "instances", m.cfg.Instances)
	})
	return m.Err()
}

func (m *Models) load() (*networkPool, *networkPool, error) {
	m.logger.Info("Loading models",
		"face_architecture", m.cfg.Face.Architecture,
		"face_weights", m.cfg.Face.Weights,
		"gender_architecture", m.cfg.Gender.Architecture,
		"gender_weights", m.cfg.Gender.Weights,
		"instances", m.cfg.Instances,
	)

	var failures []ModelFailure

	face, err := m.loadPool(m.cfg.Face)
	if err != nil {
		failures = append(failures, asFailure(m.cfg.Face, err))
	}
	gender, err := m.loadPool(m.cfg.Gender)
	if err != nil {
		failures = append(failures, asFailure(m.cfg.Gender, err))
	}

	if len(failures) > 0 {
		_ = closePools(face, gender)
		for _, f := range failures {
			m.logger.Warn("Failed to load model",
				"model", f.Model,
				"path", f.Path,
				"error", f.Err,
			)
		}
		return nil, nil, &LoadError{Failures: failures}
	}

	return face, gender, nil
}

func closePools(pools ...*networkPool) error {
	var errs []error
	for _, p := range pools {
		if p == nil {
			continue
		}
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Models) loadPool(spec ModelSpec) (*networkPool, error) {
	for _, path := range []string{spec.Architecture, spec.Weights} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return nil, ModelFailure{Model: spec.Name, Path: path, Err: err}
		}
	}

	instances := make([]Network, 0, m.cfg.Instances)
	for i := 0; i < m.cfg.Instances; i++ {
		net, err := m.open(spec)
		if err != nil {
			for _, n := range instances {
				_ = n.Close()
			}
			return nil, fmt.Errorf("instance %d: %w", i, err)
		}
		instances = append(instances, net)
	}

	return newNetworkPool(instances), nil
}

// open converts a panicking opener into an error so a broken model file
// never takes the process down.
func (m *Models) open(spec ModelSpec) (net Network, err error) {
	defer func() {
		if r := recover(); r != nil {
			net, err = nil, fmt.Errorf("opener panic: %v", r)
		}
	}()

	if m.opener == nil {
		return nil, errors.New("no network opener configured")
	}

	net, err = m.opener.Open(spec)
	if err == nil && net == nil {
		err = errors.New("opener returned no network")
	}
	return net, err
}

func asFailure(spec ModelSpec, err error) ModelFailure {
	var f ModelFailure
	if errors.As(err, &f) {
		return f
	}
	return ModelFailure{Model: spec.Name, Path: spec.Weights, Err: err}
}

// Ready reports whether both networks loaded successfully
func (m *Models) Ready() bool {
	return m.ready.Load()
}

// Err returns the load failure, or nil if Load has not run or succeeded
func (m *Models) Err() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.err
}

// FaceNetwork returns the face detection network, or nil if not ready
func (m *Models) FaceNetwork() Network {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.Ready() {
		return nil
	}
	return m.face
}

// GenderNetwork returns the gender classification network, or nil if not ready
func (m *Models) GenderNetwork() Network {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.Ready() {
		return nil
	}
	return m.gender
}

// Close releases every loaded network instance. A Load still in progress
// releases its networks instead of publishing them.
func (m *Models) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.ready.Store(false)

	face, gender := m.face, m.gender
	m.face, m.gender = nil, nil
	return closePools(face, gender)
}
