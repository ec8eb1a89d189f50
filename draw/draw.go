// Package draw implements integer drawing primitives for pixel surfaces.
package draw

import (
	"image"

	"github.com/matrixos/display/pixel"
)

// Surface is the minimal drawing target. *pixel.Buffer implements Surface;
// writes outside the surface bounds are silently dropped by the target.
type Surface interface {
	SetRGB(x, y int, c pixel.RGB)
	Bounds() image.Rectangle
}
