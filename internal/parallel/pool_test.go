package parallel

import (
	"sync/atomic"
	"testing"
)

// TestForRowsCoversAllRows verifies every row index in [0, height) is
// visited exactly once.
func TestForRowsCoversAllRows(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	const height = 137
	visits := make([]int32, height)
	p.ForRows(height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			atomic.AddInt32(&visits[y], 1)
		}
	})

	for y, n := range visits {
		if n != 1 {
			t.Errorf("row %d visited %d times, want 1", y, n)
		}
	}
}

// TestForRowsBarrier verifies ForRows does not return until every band
// callback has completed.
func TestForRowsBarrier(t *testing.T) {
	p := NewPool(8)
	defer p.Close()

	var done int64
	const height = 64
	p.ForRows(height, func(y0, y1 int) {
		atomic.AddInt64(&done, int64(y1-y0))
	})
	if got := atomic.LoadInt64(&done); got != height {
		t.Errorf("rows completed at return = %d, want %d", got, height)
	}
}

// TestForRowsSmallHeights exercises the band split edge cases.
func TestForRowsSmallHeights(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	for _, height := range []int{0, 1, 2, 3, 4, 5} {
		var rows int64
		p.ForRows(height, func(y0, y1 int) {
			atomic.AddInt64(&rows, int64(y1-y0))
		})
		if got := atomic.LoadInt64(&rows); got != int64(height) {
			t.Errorf("height %d: %d rows processed", height, got)
		}
	}
}

// TestPoolReuse verifies a pool survives many sequential dispatches.
func TestPoolReuse(t *testing.T) {
	p := NewPool(2)
	defer p.Close()

	for i := 0; i < 50; i++ {
		var rows int64
		p.ForRows(19, func(y0, y1 int) {
			atomic.AddInt64(&rows, int64(y1-y0))
		})
		if atomic.LoadInt64(&rows) != 19 {
			t.Fatalf("dispatch %d lost rows", i)
		}
	}
}

// TestCloseIdempotent verifies Close can be called more than once.
func TestCloseIdempotent(t *testing.T) {
	p := NewPool(2)
	p.Close()
	p.Close()
}

// TestDefaultWorkerCount verifies non-positive worker counts fall back to
// a usable default.
func TestDefaultWorkerCount(t *testing.T) {
	p := NewPool(0)
	defer p.Close()

	var rows int64
	p.ForRows(10, func(y0, y1 int) {
		atomic.AddInt64(&rows, int64(y1-y0))
	})
	if atomic.LoadInt64(&rows) != 10 {
		t.Error("default pool failed to process rows")
	}
}
