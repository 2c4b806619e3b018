// Package canvas is the 2D drawing surface used by the mask editor and the
// calibration overlay. Coordinates are pixels with the origin at the top left.
package canvas

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"
)

// Image is something a Surface can draw, such as a loaded <img>.
type Image interface {
	NaturalSize() (w, h float64)
}

// Surface is a drawable area.
type Surface interface {
	// Size returns the surface's current pixel size.
	Size() (w, h float64)
	// DrawImage draws img scaled into the rectangle at (x,y) of size w×h.
	DrawImage(img Image, x, y, w, h float64)
	// StrokePolygon strokes a closed path through pts.
	StrokePolygon(pts []r2.Vec, stroke color.Color, width float64)
	// Circle fills and then strokes a circle. A nil colour skips that pass.
	Circle(center r2.Vec, radius float64, fill, stroke color.Color)
	// Text draws s with its baseline starting at at.
	Text(at r2.Vec, s string, fill color.Color)
}

// Drawing is a Surface the operator can click on.
type Drawing interface {
	Surface
	// OnPointerDown sets the handler for a pointer press at pixel offset
	// (x,y), replacing any previous one.
	OnPointerDown(fn func(x, y float64))
}

// Scale maps a normalized point to pixel coordinates of a w×h surface.
func Scale(p r2.Vec, w, h float64) r2.Vec {
	return r2.Vec{X: p.X * w, Y: p.Y * h}
}

// Normalize maps a pixel offset on a w×h surface to [0,1] coordinates.
func Normalize(x, y, w, h float64) r2.Vec {
	return r2.Vec{X: x / w, Y: y / h}
}
