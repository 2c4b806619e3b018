package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/blinkenxmas/lightdesk/internal/calibrate"
	"github.com/blinkenxmas/lightdesk/internal/canvas"
	"github.com/blinkenxmas/lightdesk/internal/mask"
	"github.com/blinkenxmas/lightdesk/internal/page"
	"github.com/blinkenxmas/lightdesk/internal/render"
)

// ErrNoResults is returned by an export before the first poll answered.
var ErrNoResults = errors.New("no scan results yet")

// ProgressPage shows a running scan.
type ProgressPage struct {
	Angle     int
	Progress  page.Progress
	Summary   page.Text // optional
	Reference calibrate.Reference
	Surface   canvas.Surface
	// Mask is the serialized mask the scan runs with, outlined under the
	// markers. Optional.
	Mask string

	Export     page.Button // optional
	Report     page.Button // optional
	Downloader page.Downloader
}

// Progress runs the scan progress page.
type Progress struct {
	env    *Env
	page   ProgressPage
	poller *calibrate.Poller
	tasks
}

// InitProgress wires the scan progress page and starts polling. Polling
// stops when ctx is cancelled.
func InitProgress(ctx context.Context, env *Env, p ProgressPage) *Progress {
	ov := env.overlay()
	if p.Mask != "" {
		var path mask.Path
		if err := path.UnmarshalJSON([]byte(p.Mask)); err != nil {
			logf("ignoring mask: %v", err)
		} else {
			ov.Mask = path
		}
	}

	pr := &Progress{
		env:  env,
		page: p,
		poller: &calibrate.Poller{
			Source:    env.Client,
			Angle:     p.Angle,
			Progress:  p.Progress,
			Summary:   p.Summary,
			Reference: p.Reference,
			Surface:   p.Surface,
			Overlay:   ov,
			Navigator: env.Navigator,
			NextURL:   env.Config.GetCalibratedURL(),
			Sink:      env.Sink,
			Clock:     env.Clock,
			Interval:  env.Config.GetPollInterval(),
		},
	}

	p.Reference.OnLoad(pr.poller.Redraw)
	p.Reference.SetSrc(env.Client.BaseImageURL(p.Angle))
	if p.Export != nil {
		p.Export.OnClick(func() {
			pr.goDo(func() { pr.ExportPNG(ctx) })
		})
	}
	if p.Report != nil {
		p.Report.OnClick(func() {
			pr.goDo(func() { pr.ExportReport() })
		})
	}

	pr.goDo(func() { pr.poller.Run(ctx) })
	pr.goDo(func() { PullMessages(ctx, env) })
	return pr
}

// Poller returns the page's poller.
func (pr *Progress) Poller() *calibrate.Poller { return pr.poller }

// ExportPNG downloads the reference photo with the latest results drawn over
// it, at the stream resolution.
func (pr *Progress) ExportPNG(ctx context.Context) error {
	err := pr.exportPNG(ctx)
	if err != nil {
		pr.env.fail(ctx, fmt.Errorf("exporting angle %d: %w", pr.page.Angle, err))
	}
	return err
}

func (pr *Progress) exportPNG(ctx context.Context) error {
	st, ok := pr.poller.Last()
	if !ok {
		return ErrNoResults
	}
	data, err := pr.env.Client.BaseImage(ctx, pr.page.Angle)
	if err != nil {
		return err
	}
	pic, err := render.DecodePicture(bytes.NewReader(data))
	if err != nil {
		return err
	}

	w, h := pr.env.Config.GetStreamSize()
	raster := render.NewRaster(w, h)
	pr.poller.Overlay.Render(raster, pic, st)

	var buf bytes.Buffer
	if err := raster.WritePNG(&buf); err != nil {
		return err
	}
	pr.page.Downloader.Download(fmt.Sprintf("angle%03d.png", pr.page.Angle), "image/png", buf.Bytes())
	return nil
}

// ExportReport downloads an HTML chart of the latest results.
func (pr *Progress) ExportReport() error {
	st, ok := pr.poller.Last()
	if !ok {
		err := fmt.Errorf("reporting angle %d: %w", pr.page.Angle, ErrNoResults)
		pr.env.fail(context.Background(), err)
		return err
	}
	var buf bytes.Buffer
	if err := render.Report(&buf, pr.page.Angle, st); err != nil {
		pr.env.fail(context.Background(), err)
		return err
	}
	pr.page.Downloader.Download(fmt.Sprintf("angle%03d.html", pr.page.Angle), "text/html", buf.Bytes())
	return nil
}
