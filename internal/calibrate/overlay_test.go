package calibrate

import (
	"encoding/json"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/blinkenxmas/lightdesk/internal/canvas"
	"github.com/blinkenxmas/lightdesk/internal/mask"
	"github.com/blinkenxmas/lightdesk/internal/page"
)

func TestScoreColor(t *testing.T) {
	tests := []struct {
		score float64
		want  color.RGBA
	}{
		{0, color.RGBA{R: 128, G: 0, B: 0, A: 255}},
		{100, color.RGBA{R: 255, G: 150, B: 50, A: 255}},
		{400, color.RGBA{R: 255, G: 255, B: 200, A: 255}},
		{10.9, color.RGBA{R: 149, G: 16, B: 5, A: 255}},
		{-20, color.RGBA{R: 128, G: 0, B: 0, A: 255}},
		{1e9, color.RGBA{R: 255, G: 255, B: 255, A: 255}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ScoreColor(tt.score), "score %v", tt.score)
	}
}

func TestScoreColorIsMonotonic(t *testing.T) {
	prev := ScoreColor(0)
	for s := 1.0; s <= 600; s++ {
		c := ScoreColor(s)
		assert.GreaterOrEqual(t, c.R, prev.R)
		assert.GreaterOrEqual(t, c.G, prev.G)
		assert.GreaterOrEqual(t, c.B, prev.B)
		prev = c
	}
}

func TestStateDecode(t *testing.T) {
	var st State
	require.NoError(t, json.Unmarshal([]byte(
		`{"progress": 0.25, "positions": {"10": [0.5, 0.5], "2": [0.1, 0.9]}, "scores": {"2": 12.5}}`), &st))

	assert.Equal(t, 0.25, st.Progress)
	assert.Equal(t, []int{2, 10}, st.Lights())
	assert.Equal(t, r2.Vec{X: 0.1, Y: 0.9}, st.Position(2))
}

func TestOverlayRender(t *testing.T) {
	st := State{
		Positions: map[int][2]float64{7: {0.5, 0.5}, 3: {0.25, 0.75}},
		Scores:    map[int]float64{7: 100},
	}
	o := Overlay{MarkerRadius: 4, LabelOffset: r2.Vec{X: 6, Y: -6}}
	r := canvas.NewRecorder(400, 200)

	o.Render(r, &page.MemoryImage{}, st)

	ops := r.Ops()
	require.Len(t, ops, 5)
	assert.Equal(t, canvas.OpImage, ops[0].Kind)
	assert.Equal(t, [4]float64{0, 0, 400, 200}, ops[0].Rect)

	// Light 3 first: ascending index order.
	assert.Equal(t, canvas.OpCircle, ops[1].Kind)
	assert.Equal(t, r2.Vec{X: 100, Y: 150}, ops[1].Points[0])
	assert.Equal(t, 4.0, ops[1].Radius)
	assert.Equal(t, ScoreColor(0), ops[1].Fill, "a missing score counts as zero")
	assert.Equal(t, canvas.OpText, ops[2].Kind)
	assert.Equal(t, "3", ops[2].Text)
	assert.Equal(t, r2.Vec{X: 106, Y: 144}, ops[2].Points[0])

	assert.Equal(t, r2.Vec{X: 200, Y: 100}, ops[3].Points[0])
	assert.Equal(t, ScoreColor(100), ops[3].Fill)
	assert.Equal(t, "7", ops[4].Text)
}

func TestOverlayRenderWithMask(t *testing.T) {
	o := Overlay{MarkerRadius: 4, Mask: mask.Path{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}}
	r := canvas.NewRecorder(10, 10)

	o.Render(r, nil, State{})

	assert.Len(t, r.OfKind(canvas.OpPolygon), 1)
	assert.Empty(t, r.OfKind(canvas.OpImage))
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "No lights located yet", Summarize(State{}).String())

	st := State{
		Positions: map[int][2]float64{0: {0, 0}, 1: {0, 0}, 2: {0, 0}},
		Scores:    map[int]float64{0: 10, 1: 20, 2: 60, 9: 1000},
	}
	s := Summarize(st)
	assert.Equal(t, Summary{Count: 3, Mean: 30, Min: 10, Max: 60}, s)
	assert.Equal(t, "3 lights located, score 30.0 avg (10.0-60.0)", s.String())

	one := Summarize(State{Positions: map[int][2]float64{4: {0, 0}}, Scores: map[int]float64{4: 5}})
	assert.Equal(t, "1 light located, score 5.0 avg (5.0-5.0)", one.String())
}
