package flame

import (
	"errors"

	"github.com/gogpu/flame/internal/parallel"
)

// Renderer owns the accumulation state for one output resolution: the
// histogram buffer, the output pixmap, and the worker pool that dispatches
// the two per-frame stages.
//
// Renderer is not safe for concurrent use; drive it from one goroutine
// (the internal stages parallelize on their own).
type Renderer struct {
	width  int
	height int
	hist   *Histogram
	pix    *Pixmap
	pool   *parallel.Pool
}

// NewRenderer creates a renderer for the given output resolution.
// Width and height must be positive; NewRenderer returns nil otherwise
// (zero resolutions are the host's responsibility to avoid).
func NewRenderer(width, height int, opts ...Option) *Renderer {
	if width <= 0 || height <= 0 {
		return nil
	}
	o := rendererOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	pix := o.pixmap
	if pix == nil || pix.Width() != width || pix.Height() != height {
		pix = NewPixmap(width, height)
	}

	return &Renderer{
		width:  width,
		height: height,
		hist:   NewHistogram(width, height),
		pix:    pix,
		pool:   parallel.NewPool(o.workers),
	}
}

// Width returns the output width in pixels.
func (r *Renderer) Width() int { return r.width }

// Height returns the output height in pixels.
func (r *Renderer) Height() int { return r.height }

// Histogram exposes the accumulation buffer. Intended for tests and
// diagnostics; mutating it between stages breaks the frame contract.
func (r *Renderer) Histogram() *Histogram { return r.hist }

// RenderFrame runs one complete frame — sampler stage, barrier, resolver
// stage — and returns the resolved pixmap. The returned pixmap is owned by
// the renderer and rewritten by the next call.
//
// If a GPU accelerator is registered it is tried first; ErrFallbackToCPU
// or any other accelerator error silently selects the CPU pipeline, so a
// frame is always produced.
func (r *Renderer) RenderFrame(in FrameInput) *Pixmap {
	if a := Accelerator(); a != nil {
		err := a.RenderFrame(r.pix, r.width, r.height, in)
		if err == nil {
			return r.pix
		}
		if !errors.Is(err, ErrFallbackToCPU) {
			Logger().Warn("flame: accelerator failed, using CPU pipeline",
				"accelerator", a.Name(), "error", err)
		}
	}

	fc := newFrameContext(in, r.width, r.height, r.hist)

	// Sampler stage: every cell runs its full trajectory; histogram cells
	// take atomic adds only. ForRows blocks until all bands finish, which
	// is the required barrier before any resolver read.
	r.pool.ForRows(r.height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < r.width; x++ {
				fc.sampleCell(x, y)
			}
		}
	})

	// Resolver stage: read, tonemap, write, clear. Plain accesses are safe
	// here; the sampler is quiescent.
	r.pool.ForRows(r.height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			base := y * r.width
			for x := 0; x < r.width; x++ {
				fc.resolvePixel(base+x, r.pix)
			}
		}
	})

	return r.pix
}

// Resize reallocates the histogram and pixmap for a new resolution, both
// zero-filled. Accumulated state does not survive a resize.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 || (width == r.width && height == r.height) {
		return
	}
	r.width = width
	r.height = height
	r.hist = NewHistogram(width, height)
	r.pix = NewPixmap(width, height)
}

// Close stops the worker pool. The renderer must not be used after Close.
func (r *Renderer) Close() {
	r.pool.Close()
}
