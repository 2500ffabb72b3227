package detector

import (
	"errors"
	"sync"
)

// networkPool serializes access to each loaded network instance. A forward
// pass checks one instance out of the pool and returns it when done, so
// concurrent predictions never share an instance.
type networkPool struct {
	instances []Network
	free      chan Network

	mu     sync.RWMutex
	closed bool
}

func newNetworkPool(instances []Network) *networkPool {
	free := make(chan Network, len(instances))
	for _, n := range instances {
		free <- n
	}
	return &networkPool{
		instances: instances,
		free:      free,
	}
}

// Forward runs blob through the next free instance, blocking until one is
// available.
func (p *networkPool) Forward(blob *Blob) (*Tensor, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, ErrModelUnavailable
	}

	n := <-p.free
	defer func() { p.free <- n }()

	return n.Forward(blob)
}

// Close waits for in-flight forward passes and closes every instance
func (p *networkPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	var errs []error
	for _, n := range p.instances {
		if err := n.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the number of instances in the pool
func (p *networkPool) Size() int {
	return len(p.instances)
}
