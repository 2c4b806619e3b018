package canvas

import (
	"image/color"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"
)

// OpKind identifies a recorded drawing call.
type OpKind string

const (
	OpImage   OpKind = "image"
	OpPolygon OpKind = "polygon"
	OpCircle  OpKind = "circle"
	OpText    OpKind = "text"
)

// Op is one recorded drawing call.
type Op struct {
	Kind   OpKind
	Points []r2.Vec // polygon vertices, or the circle centre / text anchor
	Rect   [4]float64
	Radius float64
	Width  float64
	Fill   color.Color
	Stroke color.Color
	Text   string
	Image  Image
}

// Recorder is a Surface that records every call instead of drawing.
type Recorder struct {
	mu      sync.Mutex
	w, h    float64
	ops     []Op
	pointer func(x, y float64)
}

// NewRecorder returns a Recorder of the given size.
func NewRecorder(w, h float64) *Recorder {
	return &Recorder{w: w, h: h}
}

// Resize changes the reported size, as a CSS resize would.
func (r *Recorder) Resize(w, h float64) {
	r.mu.Lock()
	r.w, r.h = w, h
	r.mu.Unlock()
}

func (r *Recorder) Size() (w, h float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.w, r.h
}

func (r *Recorder) record(op Op) {
	r.mu.Lock()
	r.ops = append(r.ops, op)
	r.mu.Unlock()
}

func (r *Recorder) DrawImage(img Image, x, y, w, h float64) {
	r.record(Op{Kind: OpImage, Image: img, Rect: [4]float64{x, y, w, h}})
}

func (r *Recorder) StrokePolygon(pts []r2.Vec, stroke color.Color, width float64) {
	r.record(Op{Kind: OpPolygon, Points: append([]r2.Vec(nil), pts...), Stroke: stroke, Width: width})
}

func (r *Recorder) Circle(center r2.Vec, radius float64, fill, stroke color.Color) {
	r.record(Op{Kind: OpCircle, Points: []r2.Vec{center}, Radius: radius, Fill: fill, Stroke: stroke})
}

func (r *Recorder) Text(at r2.Vec, s string, fill color.Color) {
	r.record(Op{Kind: OpText, Points: []r2.Vec{at}, Text: s, Fill: fill})
}

// Ops returns every recorded call, oldest first.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Op(nil), r.ops...)
}

// OfKind returns the recorded calls of one kind.
func (r *Recorder) OfKind(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops() {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Reset forgets every recorded call.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.ops = nil
	r.mu.Unlock()
}

func (r *Recorder) OnPointerDown(fn func(x, y float64)) {
	r.mu.Lock()
	r.pointer = fn
	r.mu.Unlock()
}

// PointerDown runs the pointer handler as a press at (x,y) would.
func (r *Recorder) PointerDown(x, y float64) {
	r.mu.Lock()
	fn := r.pointer
	r.mu.Unlock()
	if fn != nil {
		fn(x, y)
	}
}
