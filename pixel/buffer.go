package pixel

import (
	"image"
	"image/color"
)

// Default logical display size.
const (
	DefaultWidth  = 256
	DefaultHeight = 192
)

// Buffer is a fixed-size frame buffer of RGB pixels with (0,0) in the top
// left corner. All access outside the buffer bounds is a silent no-op.
type Buffer struct {
	// Rect is the buffer bounding box.
	Rect image.Rectangle

	// Pix are the pixels in row-major order.
	Pix []RGB
}

// NewBuffer returns a cleared w×h buffer.
func NewBuffer(w, h int) *Buffer {
	return &Buffer{
		Rect: image.Rect(0, 0, w, h),
		Pix:  make([]RGB, w*h),
	}
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Buffer) ColorModel() color.Model {
	return RGBModel
}

// Width is a shorthand for the bounding box width.
func (p *Buffer) Width() int { return p.Rect.Dx() }

// Height is a shorthand for the bounding box height.
func (p *Buffer) Height() int { return p.Rect.Dy() }

func (p *Buffer) At(x, y int) color.Color {
	return p.AtRGB(x, y)
}

// AtRGB returns the pixel at (x, y), or black when out of bounds.
func (p *Buffer) AtRGB(x, y int) RGB {
	if !(image.Point{x, y}).In(p.Rect) {
		return RGB{}
	}
	return p.Pix[y*p.Rect.Dx()+x]
}

func (p *Buffer) Set(x, y int, c color.Color) {
	p.SetRGB(x, y, rgbModel(c).(RGB))
}

// SetRGB sets the pixel at (x, y), ignoring out of bounds coordinates.
func (p *Buffer) SetRGB(x, y int, c RGB) {
	if !(image.Point{x, y}).In(p.Rect) {
		return
	}
	p.Pix[y*p.Rect.Dx()+x] = c
}

// Clear fills the buffer with black.
func (p *Buffer) Clear() {
	for i := range p.Pix {
		p.Pix[i] = RGB{}
	}
}

// Fill fills the buffer with a single color.
func (p *Buffer) Fill(c RGB) {
	for i := range p.Pix {
		p.Pix[i] = c
	}
}

// CopyFrom copies the overlapping region of src into p.
func (p *Buffer) CopyFrom(src *Buffer) {
	if src == nil {
		return
	}
	if p.Rect == src.Rect {
		copy(p.Pix, src.Pix)
		return
	}
	w := min(p.Rect.Dx(), src.Rect.Dx())
	h := min(p.Rect.Dy(), src.Rect.Dy())
	for y := 0; y < h; y++ {
		copy(p.Pix[y*p.Rect.Dx():y*p.Rect.Dx()+w], src.Pix[y*src.Rect.Dx():y*src.Rect.Dx()+w])
	}
}
