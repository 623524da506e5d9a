// Package validatorpool gives each processing worker its own reusable
// [validator.Validator] instance instead of sharing one behind a mutex
// (spec.md §4.3 step 8: "a shared thread-local validator"). Grounded on the
// sync.Pool idiom in java/pool.go: a plain pool of reusable values with
// explicit Get/Put, generalized from bytes.Buffer to a worker-id-keyed set
// of pools so that a single worker goroutine always gets back the same
// warm validator instance across components.
package validatorpool

import "sync"

// Factory constructs a new validator instance for a pool that doesn't have
// one cached yet.
type Factory[V any] func() V

// Pool hands out worker-scoped instances of V, pooling by worker id.
type Pool[V any] struct {
	factory Factory[V]

	mu    sync.Mutex
	pools map[int]*sync.Pool
}

// New builds a Pool using factory to construct fresh instances.
func New[V any](factory Factory[V]) *Pool[V] {
	return &Pool[V]{factory: factory, pools: make(map[int]*sync.Pool)}
}

func (p *Pool[V]) poolFor(workerID int) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()
	sp, ok := p.pools[workerID]
	if !ok {
		sp = &sync.Pool{New: func() any { return p.factory() }}
		p.pools[workerID] = sp
	}
	return sp
}

// Get returns workerID's cached instance, constructing one if this is the
// worker's first call.
func (p *Pool[V]) Get(workerID int) V {
	return p.poolFor(workerID).Get().(V)
}

// Put returns v to workerID's pool for reuse.
func (p *Pool[V]) Put(workerID int, v V) {
	p.poolFor(workerID).Put(v)
}
