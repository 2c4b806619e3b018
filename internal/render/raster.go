// Package render turns calibration results into files the operator can keep:
// a PNG snapshot of the overlay and an HTML scatter report.
package render

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // reference photos are JPEG
	_ "image/png"
	"io"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/blinkenxmas/lightdesk/internal/canvas"
)

// labelSize is the marker label font size in pixels.
const labelSize = 12

// Picture is a decoded image that a Raster can draw.
type Picture struct {
	img image.Image
}

// NewPicture wraps img.
func NewPicture(img image.Image) Picture {
	return Picture{img: img}
}

// DecodePicture decodes a JPEG or PNG image.
func DecodePicture(r io.Reader) (Picture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return Picture{}, fmt.Errorf("decoding picture: %w", err)
	}
	return Picture{img: img}, nil
}

// NaturalSize returns the image's pixel size.
func (p Picture) NaturalSize() (w, h float64) {
	if p.img == nil {
		return 0, 0
	}
	b := p.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// Raster is a canvas.Surface that draws into an in-memory image. One unit is
// one pixel; the origin is the top left, as on the page.
type Raster struct {
	c    *vgimg.Canvas
	w, h float64
	face font.Face
}

// NewRaster returns a w×h pixel raster with a black background.
func NewRaster(w, h int) *Raster {
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(w), vg.Length(h)),
		vgimg.UseDPI(72), // 1pt per pixel
		vgimg.UseBackgroundColor(color.Black),
	)
	return &Raster{
		c:    c,
		w:    float64(w),
		h:    float64(h),
		face: font.DefaultCache.Lookup(plot.DefaultFont, labelSize),
	}
}

func (r *Raster) Size() (w, h float64) { return r.w, r.h }

// point converts page coordinates to the canvas's bottom-left origin.
func (r *Raster) point(p r2.Vec) vg.Point {
	return vg.Point{X: vg.Length(p.X), Y: vg.Length(r.h - p.Y)}
}

// DrawImage draws img if it is a Picture; other images have no pixels to
// draw and are skipped.
func (r *Raster) DrawImage(img canvas.Image, x, y, w, h float64) {
	pic, ok := img.(Picture)
	if !ok || pic.img == nil {
		return
	}
	rect := vg.Rectangle{
		Min: r.point(r2.Vec{X: x, Y: y + h}),
		Max: r.point(r2.Vec{X: x + w, Y: y}),
	}
	r.c.DrawImage(rect, pic.img)
}

func (r *Raster) StrokePolygon(pts []r2.Vec, stroke color.Color, width float64) {
	if len(pts) == 0 {
		return
	}
	var p vg.Path
	p.Move(r.point(pts[0]))
	for _, pt := range pts[1:] {
		p.Line(r.point(pt))
	}
	p.Close()
	r.c.SetColor(stroke)
	r.c.SetLineWidth(vg.Length(width))
	r.c.Stroke(p)
}

func (r *Raster) Circle(center r2.Vec, radius float64, fill, stroke color.Color) {
	c := r.point(center)
	var p vg.Path
	p.Move(vg.Point{X: c.X + vg.Length(radius), Y: c.Y})
	p.Arc(c, vg.Length(radius), 0, 2*math.Pi)
	p.Close()
	if fill != nil {
		r.c.SetColor(fill)
		r.c.Fill(p)
	}
	if stroke != nil {
		r.c.SetColor(stroke)
		r.c.SetLineWidth(1)
		r.c.Stroke(p)
	}
}

func (r *Raster) Text(at r2.Vec, s string, fill color.Color) {
	r.c.SetColor(fill)
	r.c.FillString(r.face, r.point(at), s)
}

// Image returns the pixels drawn so far.
func (r *Raster) Image() image.Image {
	return r.c.Image()
}

// WritePNG encodes the raster as PNG.
func (r *Raster) WritePNG(w io.Writer) error {
	if _, err := (vgimg.PngCanvas{Canvas: r.c}).WriteTo(w); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}
