package detector

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exclusiveNetwork fails the test run if two goroutines use it at once
type exclusiveNetwork struct {
	inUse      atomic.Int32
	violations *atomic.Int32
	closed     atomic.Bool
}

func (n *exclusiveNetwork) Forward(*Blob) (*Tensor, error) {
	if n.inUse.Add(1) > 1 {
		n.violations.Add(1)
	}
	time.Sleep(time.Millisecond)
	n.inUse.Add(-1)
	return &Tensor{Data: []float32{1, 0}}, nil
}

func (n *exclusiveNetwork) Close() error {
	n.closed.Store(true)
	return nil
}

func TestNetworkPool_ExclusiveCheckout(t *testing.T) {
	var violations atomic.Int32
	instances := make([]Network, 3)
	for i := range instances {
		instances[i] = &exclusiveNetwork{violations: &violations}
	}
	pool := newNetworkPool(instances)
	assert.Equal(t, 3, pool.Size())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := pool.Forward(&Blob{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(0), violations.Load())
}

func TestNetworkPool_Close(t *testing.T) {
	var violations atomic.Int32
	a := &exclusiveNetwork{violations: &violations}
	b := &exclusiveNetwork{violations: &violations}
	pool := newNetworkPool([]Network{a, b})

	require.NoError(t, pool.Close())
	assert.True(t, a.closed.Load())
	assert.True(t, b.closed.Load())

	_, err := pool.Forward(&Blob{})
	assert.ErrorIs(t, err, ErrModelUnavailable)

	assert.NoError(t, pool.Close())
}
