// Package pixel implements the color type and frame buffer used by the
// matrix display pipeline.
//
// The types are compatible with Go's native [color.Color] and
// [image.Image] / [draw.Image] interfaces.
package pixel
