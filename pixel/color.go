package pixel

import "image/color"

// RGBModel is the color model for 24-bit opaque RGB colors.
var RGBModel color.Model = color.ModelFunc(rgbModel)

// RGB is a 24-bit opaque RGB color. There is no alpha channel; compositing
// is always an overwrite.
type RGB struct {
	R, G, B uint8
}

// Common colors.
var (
	Black = RGB{}
	White = RGB{0xff, 0xff, 0xff}
)

func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

func rgbModel(c color.Color) color.Color {
	if _, ok := c.(RGB); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return RGB{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}

// Pack converts a color to 16-bit 5-6-5 RGB.
func Pack(c RGB) uint16 {
	r5 := uint16(c.R>>3) & 0x1f
	g6 := uint16(c.G>>2) & 0x3f
	b5 := uint16(c.B>>3) & 0x1f
	return r5<<11 | g6<<5 | b5
}

// Unpack converts a 16-bit 5-6-5 RGB value back to a color. Channels come
// back quantized to their 5- or 6-bit precision.
func Unpack(v uint16) RGB {
	return RGB{
		R: uint8(v>>11) << 3,
		G: uint8(v>>5&0x3f) << 2,
		B: uint8(v&0x1f) << 3,
	}
}

// PutLE writes a packed 5-6-5 value in little-endian byte order, the wire
// format of the framebuffer hardware.
func PutLE(dst []byte, v uint16) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
}
