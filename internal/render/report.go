package render

import (
	"fmt"
	"image/color"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/blinkenxmas/lightdesk/internal/calibrate"
)

// Report writes a standalone HTML page plotting every located light of one
// angle at its normalized position, coloured by score.
func Report(w io.Writer, angle int, st calibrate.State) error {
	summary := calibrate.Summarize(st)

	points := make([]opts.ScatterData, 0, summary.Count)
	for _, i := range st.Lights() {
		p := st.Position(i)
		points = append(points, opts.ScatterData{
			Name:  strconv.Itoa(i),
			Value: []interface{}{p.X, p.Y, st.Scores[i]},
		})
	}

	// Scores at or above 170 saturate every channel that can still grow.
	maxScore := summary.Max
	if maxScore < 170 {
		maxScore = 170
	}
	ramp := make([]string, 0, 5)
	for _, s := range []float64{0, 40, 80, 120, 170} {
		ramp = append(ramp, hex(calibrate.ScoreColor(s)))
	}

	title := fmt.Sprintf("Angle %03d scan", angle)
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%s, progress %.0f%%", summary, st.Progress*100)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: 1, Name: "x"}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 1, Name: "y", Inverse: opts.Bool(true)}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxScore),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: ramp},
		}),
	)
	scatter.AddSeries("lights", points, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
