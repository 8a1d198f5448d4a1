package virtual

import "sync"

// DefaultPoolCap bounds how many released objects a pool keeps.
const DefaultPoolCap = 512

// Pool recycles render objects to bound allocation churn.
//
// Released objects are reset and handed out again by a later Acquire.
// Once the pool holds Cap objects further releases are discarded. A Pool is
// guarded by a mutex so the render loop and background workers may share
// it, but it is not lock-free.
type Pool[T any] struct {
	mu    sync.Mutex
	free  []T
	cap   int
	newFn func() T
	reset func(*T)
	stats PoolStats
}

// PoolStats reports pool usage.
type PoolStats struct {
	Hits     int `json:"hits"`     // Acquires served from the pool
	Misses   int `json:"misses"`   // Acquires that allocated
	Discards int `json:"discards"` // Releases dropped because the pool was full
	Size     int `json:"size"`     // Objects currently pooled
	Cap      int `json:"cap"`
}

// NewPool creates a pool holding at most capacity objects. newFn allocates a
// fresh object; reset, if non-nil, clears an object in place on release. A capacity of
// zero or less means DefaultPoolCap.
func NewPool[T any](capacity int, newFn func() T, reset func(*T)) *Pool[T] {
	if capacity <= 0 {
		capacity = DefaultPoolCap
	}
	return &Pool[T]{cap: capacity, newFn: newFn, reset: reset}
}

// Acquire returns a pooled object, or a new one when the pool is empty.
func (p *Pool[T]) Acquire() T {
	p.mu.Lock()
	if n := len(p.free); n > 0 {
		obj := p.free[n-1]
		var zero T
		p.free[n-1] = zero
		p.free = p.free[:n-1]
		p.stats.Hits++
		p.mu.Unlock()
		return obj
	}
	p.stats.Misses++
	p.mu.Unlock()
	return p.newFn()
}

// Release resets obj and keeps it for reuse unless the pool is full.
func (p *Pool[T]) Release(obj T) {
	if p.reset != nil {
		p.reset(&obj)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.free) >= p.cap {
		p.stats.Discards++
		return
	}
	p.free = append(p.free, obj)
}

// Stats returns a snapshot of pool usage.
func (p *Pool[T]) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.stats
	s.Size = len(p.free)
	s.Cap = p.cap
	return s
}
