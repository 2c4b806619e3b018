// Package mask implements the region-of-interest editor used on the
// calibration page. The operator clicks vertices onto the reference photo;
// the resulting polygon travels with the form in a hidden field.
package mask

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/blinkenxmas/lightdesk/internal/canvas"
	"github.com/blinkenxmas/lightdesk/internal/page"
)

// FieldMask is the hidden form field holding the serialized path.
const FieldMask = "mask"

// ErrBadPath is returned when a serialized path cannot be used.
var ErrBadPath = errors.New("invalid mask path")

// Path is a polygon in coordinates normalized to the displayed image: both
// X and Y lie in [0,1]. It is closed implicitly.
type Path []r2.Vec

// MarshalJSON encodes the path as an array of [x,y] pairs.
func (p Path) MarshalJSON() ([]byte, error) {
	pairs := make([][2]float64, len(p))
	for i, v := range p {
		pairs[i] = [2]float64{v.X, v.Y}
	}
	return json.Marshal(pairs)
}

// UnmarshalJSON decodes an array of [x,y] pairs. null decodes to an empty
// path.
func (p *Path) UnmarshalJSON(data []byte) error {
	var pairs [][]float64
	if err := json.Unmarshal(data, &pairs); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPath, err)
	}
	out := make(Path, 0, len(pairs))
	for i, pair := range pairs {
		if len(pair) != 2 {
			return fmt.Errorf("%w: vertex %d has %d coordinates", ErrBadPath, i, len(pair))
		}
		v := r2.Vec{X: pair[0], Y: pair[1]}
		if !inUnit(v.X) || !inUnit(v.Y) {
			return fmt.Errorf("%w: vertex %d (%g,%g) outside the image", ErrBadPath, i, v.X, v.Y)
		}
		out = append(out, v)
	}
	*p = out
	return nil
}

func inUnit(f float64) bool {
	return !math.IsNaN(f) && f >= 0 && f <= 1
}

// Screen returns the path's vertices in pixel coordinates of a w×h surface.
func (p Path) Screen(w, h float64) []r2.Vec {
	out := make([]r2.Vec, len(p))
	for i, v := range p {
		out[i] = canvas.Scale(v, w, h)
	}
	return out
}

// Style is how a path is drawn.
type Style struct {
	Stroke       color.Color
	Width        float64
	VertexRadius float64
	VertexFill   color.Color
	VertexStroke color.Color
}

// DefaultStyle draws a red outline with white vertex handles.
func DefaultStyle(vertexRadius float64) Style {
	return Style{
		Stroke:       color.RGBA{R: 255, A: 255},
		Width:        2,
		VertexRadius: vertexRadius,
		VertexFill:   color.White,
		VertexStroke: color.RGBA{R: 255, A: 255},
	}
}

// Editor holds the path being drawn and keeps the form's hidden field and the
// drawing surface in step with it.
type Editor struct {
	form  page.Form
	style Style

	mu      sync.Mutex
	path    Path
	surface canvas.Surface
	ref     canvas.Image
}

// NewEditor returns an editor with an empty path.
func NewEditor(form page.Form, style Style) *Editor {
	e := &Editor{form: form, style: style}
	e.form.SetValue(FieldMask, "[]")
	return e
}

// Vertices returns a copy of the path.
func (e *Editor) Vertices() Path {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append(Path{}, e.path...)
}

// AddVertex appends a normalized point.
func (e *Editor) AddVertex(p r2.Vec) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.path = append(e.path, p)
	e.changedLocked()
}

// Undo removes the last vertex. It does nothing on an empty path.
func (e *Editor) Undo() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.path) == 0 {
		return
	}
	e.path = e.path[:len(e.path)-1]
	e.changedLocked()
}

// Clear removes every vertex.
func (e *Editor) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.path = nil
	e.changedLocked()
}

// Load replaces the path with a serialized one. On error the editor is left
// unchanged.
func (e *Editor) Load(data string) error {
	var p Path
	if strings.TrimSpace(data) == "" {
		data = "[]"
	}
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		if errors.Is(err, ErrBadPath) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrBadPath, err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.path = p
	e.changedLocked()
	return nil
}

func (e *Editor) changedLocked() {
	data, _ := e.path.MarshalJSON() // float pairs always encode
	e.form.SetValue(FieldMask, string(data))
	if e.surface != nil {
		e.renderLocked(e.surface, e.ref)
	}
}

// Render draws ref scaled to the whole surface and the path over it, and
// remembers both so later edits redraw them.
func (e *Editor) Render(s canvas.Surface, ref canvas.Image) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.surface, e.ref = s, ref
	e.renderLocked(s, ref)
}

func (e *Editor) renderLocked(s canvas.Surface, ref canvas.Image) {
	w, h := s.Size()
	if ref != nil {
		s.DrawImage(ref, 0, 0, w, h)
	}
	Draw(s, e.path, e.style)
}

// Draw strokes path on s as a closed polygon and marks every vertex.
func Draw(s canvas.Surface, path Path, style Style) {
	if len(path) == 0 {
		return
	}
	w, h := s.Size()
	pts := path.Screen(w, h)
	s.StrokePolygon(pts, style.Stroke, style.Width)
	for _, pt := range pts {
		s.Circle(pt, style.VertexRadius, style.VertexFill, style.VertexStroke)
	}
}

// PointerDown adds the vertex under a click at pixel offset (x,y) of s. The
// offset is normalized by the surface's current size, not the image's.
func (e *Editor) PointerDown(s canvas.Surface, x, y float64) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	p := canvas.Normalize(x, y, w, h)
	p.X = math.Min(1, math.Max(0, p.X))
	p.Y = math.Min(1, math.Max(0, p.Y))

	e.mu.Lock()
	defer e.mu.Unlock()
	e.surface = s
	e.path = append(e.path, p)
	e.changedLocked()
}
