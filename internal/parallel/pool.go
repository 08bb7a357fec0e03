// Package parallel provides the worker pool behind the CPU rendering
// pipeline. Work is distributed as contiguous row bands; each band is an
// independent unit with no communication between siblings, and ForRows
// doubles as the inter-stage barrier by blocking until every band is done.
package parallel

import (
	"runtime"
	"sync"
)

// bandsPerWorker controls work granularity: more bands than workers helps
// balance load when some rows are hotter than others.
const bandsPerWorker = 4

// Pool is a fixed set of worker goroutines consuming tasks from a shared
// queue.
//
// Thread safety: Pool is safe for concurrent use, but rendering stages must
// not overlap — the caller serializes ForRows calls per frame.
type Pool struct {
	workers int
	tasks   chan func()
	done    chan struct{}
	wg      sync.WaitGroup

	closeOnce sync.Once
}

// NewPool creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		workers: workers,
		tasks:   make(chan func(), workers*bandsPerWorker),
		done:    make(chan struct{}),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int { return p.workers }

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case task := <-p.tasks:
			if task != nil {
				task()
			}
		}
	}
}

// ForRows splits [0, height) into contiguous bands, runs fn(y0, y1) for
// each band on the pool, and blocks until all bands complete. That blocking
// is the stage barrier: when ForRows returns, every write issued by fn has
// happened before any subsequent read by the caller.
func (p *Pool) ForRows(height int, fn func(y0, y1 int)) {
	if height <= 0 {
		return
	}
	bands := p.workers * bandsPerWorker
	if bands > height {
		bands = height
	}

	var wg sync.WaitGroup
	step := (height + bands - 1) / bands
	for y0 := 0; y0 < height; y0 += step {
		y0, y1 := y0, y0+step
		if y1 > height {
			y1 = height
		}
		wg.Add(1)
		p.tasks <- func() {
			defer wg.Done()
			fn(y0, y1)
		}
	}
	wg.Wait()
}

// Close stops the workers. Pending tasks already queued are abandoned;
// callers must not invoke ForRows after Close.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.wg.Wait()
	})
}
