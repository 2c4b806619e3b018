package calibrate

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/blinkenxmas/lightdesk/internal/canvas"
	"github.com/blinkenxmas/lightdesk/internal/mask"
)

// State is one answer to a scan state poll.
type State struct {
	// Progress runs from 0 to 1; 1 means the scan is complete.
	Progress float64 `json:"progress"`
	// Positions maps a light index to its normalized (x,y) in the image.
	Positions map[int][2]float64 `json:"positions"`
	// Scores maps a light index to a non-negative confidence.
	Scores map[int]float64 `json:"scores"`
}

// Lights returns the indexes of the located lights in ascending order.
func (s State) Lights() []int {
	out := make([]int, 0, len(s.Positions))
	for i := range s.Positions {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Position returns the normalized position of light i.
func (s State) Position(i int) r2.Vec {
	p := s.Positions[i]
	return r2.Vec{X: p[0], Y: p[1]}
}

// ScoreColor maps a confidence score to a marker colour that gets warmer and
// brighter as the score rises. Negative scores count as zero.
func ScoreColor(score float64) color.RGBA {
	if score < 0 || math.IsNaN(score) {
		score = 0
	}
	channel := func(base, scale float64) uint8 {
		return uint8(math.Min(255, base+math.Floor(score*scale)))
	}
	return color.RGBA{
		R: channel(128, 2.0),
		G: channel(0, 1.5),
		B: channel(0, 0.5),
		A: 255,
	}
}

// Overlay draws scan results over the reference photo.
type Overlay struct {
	MarkerRadius float64
	// LabelOffset is added to a marker's centre to place its index label.
	LabelOffset r2.Vec
	// Mask, when set, is outlined under the markers.
	Mask mask.Path
}

var (
	markerStroke = color.Black
	labelColor   = color.White
)

// Render draws ref at the surface's size, then a coloured, labelled marker
// for every located light.
func (o Overlay) Render(s canvas.Surface, ref canvas.Image, st State) {
	w, h := s.Size()
	if ref != nil {
		s.DrawImage(ref, 0, 0, w, h)
	}
	if len(o.Mask) > 0 {
		style := mask.DefaultStyle(2)
		style.Width = 1
		mask.Draw(s, o.Mask, style)
	}
	for _, i := range st.Lights() {
		at := canvas.Scale(st.Position(i), w, h)
		s.Circle(at, o.MarkerRadius, ScoreColor(st.Scores[i]), markerStroke)
		s.Text(r2.Add(at, o.LabelOffset), strconv.Itoa(i), labelColor)
	}
}

// Summary describes the scores of the located lights.
type Summary struct {
	Count          int
	Mean, Min, Max float64
}

// Summarize computes the score summary of st.
func Summarize(st State) Summary {
	lights := st.Lights()
	if len(lights) == 0 {
		return Summary{}
	}
	scores := make([]float64, len(lights))
	for k, i := range lights {
		scores[k] = math.Max(0, st.Scores[i])
	}
	return Summary{
		Count: len(scores),
		Mean:  stat.Mean(scores, nil),
		Min:   floats.Min(scores),
		Max:   floats.Max(scores),
	}
}

func (s Summary) String() string {
	if s.Count == 0 {
		return "No lights located yet"
	}
	noun := "lights"
	if s.Count == 1 {
		noun = "light"
	}
	return fmt.Sprintf("%d %s located, score %.1f avg (%.1f-%.1f)", s.Count, noun, s.Mean, s.Min, s.Max)
}
