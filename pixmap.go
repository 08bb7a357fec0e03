package flame

import (
	"image"
	"image/png"
	"os"
)

// Pixmap is the rectangular RGBA8 output target, 4 bytes per pixel in
// row-major order. Alpha is always 255 for resolved frames.
type Pixmap struct {
	width  int
	height int
	data   []uint8
}

// NewPixmap creates a zeroed pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int { return p.width }

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int { return p.height }

// Data returns the raw pixel data (RGBA, 4 bytes per pixel). The slice is
// the live backing store; it is rewritten by every resolved frame.
func (p *Pixmap) Data() []uint8 { return p.data }

// setRGB writes an opaque color at the linear pixel index idx.
func (p *Pixmap) setRGB(idx int, r, g, b uint8) {
	i := idx * 4
	p.data[i+0] = r
	p.data[i+1] = g
	p.data[i+2] = b
	p.data[i+3] = 255
}

// At returns the pixel at (x, y) as an 8-bit RGBA quadruple.
// Out-of-bounds coordinates return zeros.
func (p *Pixmap) At(x, y int) (r, g, b, a uint8) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return 0, 0, 0, 0
	}
	i := (y*p.width + x) * 4
	return p.data[i], p.data[i+1], p.data[i+2], p.data[i+3]
}

// Image copies the pixmap into a standard library image.RGBA.
func (p *Pixmap) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// SavePNG writes the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, p.Image())
}
