//go:build js && wasm

package dom

import (
	"image/color"
	"math"
	"syscall/js"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/blinkenxmas/lightdesk/internal/canvas"
)

// Canvas is a canvas.Drawing over a <canvas> element's 2D context.
type Canvas struct {
	el      js.Value
	ctx     js.Value
	pointer func(x, y float64)
}

// NewCanvas wraps el.
func NewCanvas(el js.Value) *Canvas {
	c := &Canvas{el: el, ctx: el.Call("getContext", "2d")}
	listen(el, "pointerdown", func(e js.Value) {
		if c.pointer != nil {
			c.pointer(e.Get("offsetX").Float(), e.Get("offsetY").Float())
		}
	})
	return c
}

func (c *Canvas) Size() (w, h float64) {
	return c.el.Get("width").Float(), c.el.Get("height").Float()
}

func (c *Canvas) OnPointerDown(fn func(x, y float64)) { c.pointer = fn }

// DrawImage draws img when it is a page <img>.
func (c *Canvas) DrawImage(img canvas.Image, x, y, w, h float64) {
	im, ok := img.(*Image)
	if !ok {
		return
	}
	c.ctx.Call("drawImage", im.el, x, y, w, h)
}

func (c *Canvas) StrokePolygon(pts []r2.Vec, stroke color.Color, width float64) {
	if len(pts) == 0 {
		return
	}
	c.ctx.Call("beginPath")
	c.ctx.Call("moveTo", pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		c.ctx.Call("lineTo", p.X, p.Y)
	}
	c.ctx.Call("closePath")
	c.ctx.Set("strokeStyle", cssColor(stroke))
	c.ctx.Set("lineWidth", width)
	c.ctx.Call("stroke")
}

func (c *Canvas) Circle(center r2.Vec, radius float64, fill, stroke color.Color) {
	c.ctx.Call("beginPath")
	c.ctx.Call("arc", center.X, center.Y, radius, 0, 2*math.Pi)
	if fill != nil {
		c.ctx.Set("fillStyle", cssColor(fill))
		c.ctx.Call("fill")
	}
	if stroke != nil {
		c.ctx.Set("strokeStyle", cssColor(stroke))
		c.ctx.Set("lineWidth", 1)
		c.ctx.Call("stroke")
	}
}

func (c *Canvas) Text(at r2.Vec, s string, fill color.Color) {
	c.ctx.Set("fillStyle", cssColor(fill))
	c.ctx.Set("font", "12px sans-serif")
	c.ctx.Call("fillText", s, at.X, at.Y)
}
