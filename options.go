package flame

// Option configures a Renderer during creation.
//
// Example:
//
//	// Default: GOMAXPROCS workers, renderer-owned pixmap
//	r := flame.NewRenderer(800, 600)
//
//	// Pin the worker count (e.g. for reproducible benchmarks)
//	r := flame.NewRenderer(800, 600, flame.WithWorkers(4))
type Option func(*rendererOptions)

// rendererOptions holds optional configuration for Renderer creation.
type rendererOptions struct {
	workers int
	pixmap  *Pixmap
}

// WithWorkers sets the number of worker goroutines used by the CPU
// pipeline. Zero or negative means GOMAXPROCS. The worker count never
// affects output bytes, only throughput.
func WithWorkers(n int) Option {
	return func(o *rendererOptions) {
		o.workers = n
	}
}

// WithPixmap sets the output pixmap the renderer resolves into. The pixmap
// dimensions must match the renderer dimensions; a mismatched pixmap is
// ignored and the renderer allocates its own.
func WithPixmap(pm *Pixmap) Option {
	return func(o *rendererOptions) {
		o.pixmap = pm
	}
}
