package draw

import (
	"image"
	"math"

	"github.com/matrixos/display/pixel"
)

// Line draws a line between two points using Bresenham's algorithm. Both
// endpoints are included.
func Line(dst Surface, x0, y0, x1, y1 int, c pixel.RGB) {
	var (
		dx = abs(x1 - x0)
		dy = abs(y1 - y0)
		sx = 1
		sy = 1
	)
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	x, y := x0, y0
	for {
		dst.SetRGB(x, y, c)
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// HorizontalLine draws a line between (x,y) and (x+w-1,y).
func HorizontalLine(dst Surface, x, y, w int, c pixel.RGB) {
	for i := 0; i < w; i++ {
		dst.SetRGB(x+i, y, c)
	}
}

// VerticalLine draws a line between (x,y) and (x,y+h-1).
func VerticalLine(dst Surface, x, y, h int, c pixel.RGB) {
	for i := 0; i < h; i++ {
		dst.SetRGB(x, y+i, c)
	}
}

// Rect draws a rectangle outline with its top left corner at (x,y). Zero or
// negative dimensions draw nothing.
func Rect(dst Surface, x, y, w, h int, c pixel.RGB) {
	if w < 1 || h < 1 {
		return
	}
	HorizontalLine(dst, x, y, w, c)
	HorizontalLine(dst, x, y+h-1, w, c)
	VerticalLine(dst, x, y, h, c)
	VerticalLine(dst, x+w-1, y, h, c)
}

// Box draws a filled rectangle. Zero or negative dimensions draw nothing.
func Box(dst Surface, x, y, w, h int, c pixel.RGB) {
	if w < 1 || h < 1 {
		return
	}
	for dy := 0; dy < h; dy++ {
		HorizontalLine(dst, x, y+dy, w, c)
	}
}

// Circle draws a circle outline using the midpoint algorithm, plotting all
// eight octants.
func Circle(dst Surface, cx, cy, r int, c pixel.RGB) {
	var (
		x   = r
		y   = 0
		err = 0
	)
	for x >= y {
		dst.SetRGB(cx+x, cy+y, c)
		dst.SetRGB(cx+y, cy+x, c)
		dst.SetRGB(cx-y, cy+x, c)
		dst.SetRGB(cx-x, cy+y, c)
		dst.SetRGB(cx-x, cy-y, c)
		dst.SetRGB(cx-y, cy-x, c)
		dst.SetRGB(cx+y, cy-x, c)
		dst.SetRGB(cx+x, cy-y, c)

		if err <= 0 {
			y++
			err += 2*y + 1
		}
		if err > 0 {
			x--
			err -= 2*x + 1
		}
	}
}

// Disc draws a filled circle as horizontal spans, one per scanline. The span
// half-width is floor(sqrt(r²−dy²)), which comes up a pixel short of the
// midpoint outline at the cardinal points. Callers depend on this footprint;
// changing it is a behavior change, not a fix.
func Disc(dst Surface, cx, cy, r int, c pixel.RGB) {
	for dy := -r; dy <= r; dy++ {
		dx := int(math.Sqrt(float64(r*r - dy*dy)))
		HorizontalLine(dst, cx-dx, cy+dy, 2*dx+1, c)
	}
}

// Ellipse draws an ellipse outline with horizontal radius rx and vertical
// radius ry, using the two-region midpoint algorithm with four-way
// symmetric plotting. Zero radii degenerate to a line.
func Ellipse(dst Surface, cx, cy, rx, ry int, c pixel.RGB) {
	if rx < 0 || ry < 0 {
		return
	}
	if rx == 0 {
		VerticalLine(dst, cx, cy-ry, 2*ry+1, c)
		return
	}
	if ry == 0 {
		HorizontalLine(dst, cx-rx, cy, 2*rx+1, c)
		return
	}

	var (
		rx2 = rx * rx
		ry2 = ry * ry
		x   = 0
		y   = ry
		px  = 0
		py  = 2 * rx2 * y
	)
	plot := func(x, y int) {
		dst.SetRGB(cx+x, cy+y, c)
		dst.SetRGB(cx-x, cy+y, c)
		dst.SetRGB(cx+x, cy-y, c)
		dst.SetRGB(cx-x, cy-y, c)
	}
	plot(x, y)

	// Region 1: gradient above -1.
	p := float64(ry2) - float64(rx2*ry) + 0.25*float64(rx2)
	for px < py {
		x++
		px += 2 * ry2
		if p < 0 {
			p += float64(ry2 + px)
		} else {
			y--
			py -= 2 * rx2
			p += float64(ry2 + px - py)
		}
		plot(x, y)
	}

	// Region 2: down to the horizontal axis.
	fx, fy := float64(x), float64(y)
	p = float64(ry2)*(fx+0.5)*(fx+0.5) + float64(rx2)*(fy-1)*(fy-1) - float64(rx2*ry2)
	for y > 0 {
		y--
		py -= 2 * rx2
		if p > 0 {
			p += float64(rx2 - py)
		} else {
			x++
			px += 2 * ry2
			p += float64(rx2 - py + px)
		}
		plot(x, y)
	}
}

// FilledEllipse draws a filled ellipse as horizontal spans with half-width
// floor(rx·sqrt(1−(dy/ry)²)) per scanline, matching the Disc footprint at
// rx == ry.
func FilledEllipse(dst Surface, cx, cy, rx, ry int, c pixel.RGB) {
	if rx < 0 || ry < 0 {
		return
	}
	if ry == 0 {
		HorizontalLine(dst, cx-rx, cy, 2*rx+1, c)
		return
	}
	for dy := -ry; dy <= ry; dy++ {
		f := float64(dy) / float64(ry)
		dx := int(float64(rx) * math.Sqrt(1-f*f))
		HorizontalLine(dst, cx-dx, cy+dy, 2*dx+1, c)
	}
}

// Triangle draws a triangle outline.
func Triangle(dst Surface, x0, y0, x1, y1, x2, y2 int, c pixel.RGB) {
	Line(dst, x0, y0, x1, y1, c)
	Line(dst, x1, y1, x2, y2, c)
	Line(dst, x2, y2, x0, y0, c)
}

// FilledTriangle draws a filled triangle with a scanline sweep: vertices
// sorted by y, edge x interpolated per scanline, span endpoints truncated.
func FilledTriangle(dst Surface, x0, y0, x1, y1, x2, y2 int, c pixel.RGB) {
	if y0 > y1 {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}
	if y1 > y2 {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}
	if y0 > y1 {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}

	interp := func(xa, ya, xb, yb, y int) float64 {
		if yb == ya {
			return float64(xa)
		}
		return float64(xa) + float64(xb-xa)*float64(y-ya)/float64(yb-ya)
	}

	for y := y0; y <= y2; y++ {
		var xa, xb float64
		if y < y1 {
			xa = interp(x0, y0, x1, y1, y)
			xb = interp(x0, y0, x2, y2, y)
		} else {
			xa = interp(x1, y1, x2, y2, y)
			xb = interp(x0, y0, x2, y2, y)
		}
		if xa > xb {
			xa, xb = xb, xa
		}
		for x := int(xa); x <= int(xb); x++ {
			dst.SetRGB(x, y, c)
		}
	}
}

// Polygon draws a closed polygon outline through the given points. Fewer
// than three points draw nothing.
func Polygon(dst Surface, points []image.Point, c pixel.RGB) {
	if len(points) < 3 {
		return
	}
	for i := range points {
		a, b := points[i], points[(i+1)%len(points)]
		Line(dst, a.X, a.Y, b.X, b.Y, c)
	}
}

// FilledPolygon fills a polygon as a triangle fan from the first vertex.
// Exact for convex polygons; concave shapes get their convex hull regions
// overdrawn.
func FilledPolygon(dst Surface, points []image.Point, c pixel.RGB) {
	if len(points) < 3 {
		return
	}
	for i := 1; i < len(points)-1; i++ {
		FilledTriangle(dst,
			points[0].X, points[0].Y,
			points[i].X, points[i].Y,
			points[i+1].X, points[i+1].Y, c)
	}
}

// Star draws an n-pointed star outline with the given outer radius. The
// inner vertices sit at 40% of the radius and the first point faces up.
func Star(dst Surface, cx, cy, r, n int, c pixel.RGB) {
	Polygon(dst, starVertices(cx, cy, r, n), c)
}

// FilledStar draws a filled n-pointed star.
func FilledStar(dst Surface, cx, cy, r, n int, c pixel.RGB) {
	FilledPolygon(dst, starVertices(cx, cy, r, n), c)
}

func starVertices(cx, cy, r, n int) []image.Point {
	if n < 3 {
		n = 3
	}
	inner := float64(r) * 0.4
	vertices := make([]image.Point, 0, n*2)
	for i := 0; i < n*2; i++ {
		angle := float64(i)*math.Pi/float64(n) - math.Pi/2
		radius := float64(r)
		if i%2 != 0 {
			radius = inner
		}
		vertices = append(vertices, image.Point{
			X: cx + int(radius*math.Cos(angle)),
			Y: cy + int(radius*math.Sin(angle)),
		})
	}
	return vertices
}

// RoundedRect draws a rectangle outline with the corners rounded to the
// given radius. The radius is clamped to half the smaller dimension.
func RoundedRect(dst Surface, x, y, w, h, r int, c pixel.RGB) {
	if w < 1 || h < 1 {
		return
	}
	r = clampRadius(r, w, h)
	if r < 1 {
		Rect(dst, x, y, w, h, c)
		return
	}
	HorizontalLine(dst, x+r, y, w-2*r, c)
	HorizontalLine(dst, x+r, y+h-1, w-2*r, c)
	VerticalLine(dst, x, y+r, h-2*r, c)
	VerticalLine(dst, x+w-1, y+r, h-2*r, c)
	roundedCorner(dst, x+r, y+r, r, cornerTopLeft, c)
	roundedCorner(dst, x+w-r-1, y+r, r, cornerTopRight, c)
	roundedCorner(dst, x+w-r-1, y+h-r-1, r, cornerBottomRight, c)
	roundedCorner(dst, x+r, y+h-r-1, r, cornerBottomLeft, c)
}

// RoundedBox draws a filled rectangle with rounded corners: a cross of two
// boxes plus a disc per corner.
func RoundedBox(dst Surface, x, y, w, h, r int, c pixel.RGB) {
	if w < 1 || h < 1 {
		return
	}
	r = clampRadius(r, w, h)
	if r < 1 {
		Box(dst, x, y, w, h, c)
		return
	}
	Box(dst, x+r, y, w-2*r, h, c)
	Box(dst, x, y+r, r, h-2*r, c)
	Box(dst, x+w-r, y+r, r, h-2*r, c)
	Disc(dst, x+r, y+r, r, c)
	Disc(dst, x+w-r-1, y+r, r, c)
	Disc(dst, x+r, y+h-r-1, r, c)
	Disc(dst, x+w-r-1, y+h-r-1, r, c)
}

func clampRadius(r, w, h int) int {
	if r > w/2 {
		r = w / 2
	}
	if r > h/2 {
		r = h / 2
	}
	if r < 0 {
		r = 0
	}
	return r
}

// Corner quadrants for roundedCorner.
const (
	cornerTopLeft = 1 << iota
	cornerTopRight
	cornerBottomRight
	cornerBottomLeft
)

// roundedCorner plots a quarter-circle arc of the given radius around
// (x0,y0) in the selected quadrants.
func roundedCorner(dst Surface, x0, y0, r, quadrant int, c pixel.RGB) {
	var (
		f    = 1 - r
		ddFx = 1
		ddFy = -2 * r
		x    = 0
		y    = r
	)
	for x < y {
		if f >= 0 {
			y--
			ddFy += 2
			f += ddFy
		}
		x++
		ddFx += 2
		f += ddFx

		if quadrant&cornerBottomRight != 0 {
			dst.SetRGB(x0+x, y0+y, c)
			dst.SetRGB(x0+y, y0+x, c)
		}
		if quadrant&cornerTopRight != 0 {
			dst.SetRGB(x0+x, y0-y, c)
			dst.SetRGB(x0+y, y0-x, c)
		}
		if quadrant&cornerBottomLeft != 0 {
			dst.SetRGB(x0-y, y0+x, c)
			dst.SetRGB(x0-x, y0+y, c)
		}
		if quadrant&cornerTopLeft != 0 {
			dst.SetRGB(x0-y, y0-x, c)
			dst.SetRGB(x0-x, y0-y, c)
		}
	}
}

// ReadSurface is a Surface whose pixels can be read back.
type ReadSurface interface {
	Surface
	AtRGB(x, y int) pixel.RGB
}

// FloodFill replaces the connected region of the color found at (x,y) with
// c, spreading four ways. A start outside the surface or on a pixel that
// already has the fill color does nothing.
func FloodFill(dst ReadSurface, x, y int, c pixel.RGB) {
	bounds := dst.Bounds()
	if !image.Pt(x, y).In(bounds) {
		return
	}
	target := dst.AtRGB(x, y)
	if target == c {
		return
	}

	// Explicit stack, the region can be the whole surface.
	stack := []image.Point{image.Pt(x, y)}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !p.In(bounds) {
			continue
		}
		if dst.AtRGB(p.X, p.Y) != target {
			continue
		}
		dst.SetRGB(p.X, p.Y, c)
		stack = append(stack,
			image.Pt(p.X+1, p.Y),
			image.Pt(p.X-1, p.Y),
			image.Pt(p.X, p.Y+1),
			image.Pt(p.X, p.Y-1))
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
