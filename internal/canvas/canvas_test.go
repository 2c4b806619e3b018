package canvas

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestScaleAndNormalize(t *testing.T) {
	p := Normalize(320, 120, 640, 480)
	if diff := cmp.Diff(r2.Vec{X: 0.5, Y: 0.25}, p); diff != "" {
		t.Errorf("Normalize mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(r2.Vec{X: 50, Y: 25}, Scale(p, 100, 100)); diff != "" {
		t.Errorf("Scale mismatch (-want +got):\n%s", diff)
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(100, 50)
	r.DrawImage(nil, 0, 0, 100, 50)
	r.StrokePolygon([]r2.Vec{{X: 1, Y: 2}}, color.Black, 2)
	r.Circle(r2.Vec{X: 3, Y: 4}, 5, color.White, nil)
	r.Text(r2.Vec{X: 6, Y: 7}, "12", color.Black)

	ops := r.Ops()
	if len(ops) != 4 {
		t.Fatalf("got %d ops, want 4", len(ops))
	}
	if got := r.OfKind(OpCircle); len(got) != 1 || got[0].Radius != 5 {
		t.Errorf("unexpected circles: %+v", got)
	}
	if got := r.OfKind(OpText); got[0].Text != "12" {
		t.Errorf("text = %q", got[0].Text)
	}

	r.Resize(200, 100)
	if w, h := r.Size(); w != 200 || h != 100 {
		t.Errorf("Size() = %v,%v after resize", w, h)
	}
	r.Reset()
	if len(r.Ops()) != 0 {
		t.Error("Reset should clear ops")
	}
}

func TestRecorder_PointerDown(t *testing.T) {
	var d Drawing = NewRecorder(10, 10)
	var got []float64
	d.OnPointerDown(func(x, y float64) { got = append(got, x, y) })

	d.(*Recorder).PointerDown(3, 4)
	if len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Errorf("handler got %v", got)
	}
}
