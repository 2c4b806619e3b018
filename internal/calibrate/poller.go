// Package calibrate drives the scan of one camera angle and shows its
// results.
package calibrate

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/blinkenxmas/lightdesk/internal/canvas"
	"github.com/blinkenxmas/lightdesk/internal/messages"
	"github.com/blinkenxmas/lightdesk/internal/monitoring"
	"github.com/blinkenxmas/lightdesk/internal/page"
	"github.com/blinkenxmas/lightdesk/internal/timeutil"
)

var logf = monitoring.For("calibrate")

// StateSource answers scan state polls.
type StateSource interface {
	AngleState(ctx context.Context, angle int, v interface{}) error
}

// Reference is the reference photo: an <img> that can also be drawn.
type Reference interface {
	page.Image
	canvas.Image
}

// Poller polls the scan state of one angle until the scan completes.
//
// Each poll is issued only after the previous answer has been handled, so
// at most one request is in flight.
type Poller struct {
	Source    StateSource
	Angle     int
	Progress  page.Progress
	Summary   page.Text // optional
	Reference Reference
	Surface   canvas.Surface
	Overlay   Overlay
	Navigator page.Navigator
	// NextURL is navigated to once progress reaches 1.
	NextURL  string
	Sink     messages.Sink
	Clock    timeutil.Clock
	Interval time.Duration

	mu    sync.Mutex
	last  *State
	ticks int
}

// Run polls until the scan completes, a poll fails or ctx is cancelled. A
// failed poll is shown to the operator and ends the run; it is not retried.
// Cancellation ends the run silently.
func (p *Poller) Run(ctx context.Context) error {
	clock := p.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	interval := p.Interval
	if interval <= 0 {
		interval = time.Second
	}

	for {
		var st State
		if err := p.Source.AngleState(ctx, p.Angle, &st); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logf("angle %d: poll failed: %v", p.Angle, err)
			err = fmt.Errorf("polling angle %d: %w", p.Angle, err)
			if p.Sink != nil {
				messages.Error(p.Sink, err)
			}
			return err
		}
		p.handle(st)

		if st.Progress >= 1 {
			logf("angle %d: scan complete", p.Angle)
			p.Navigator.Navigate(p.NextURL)
			return nil
		}

		t := clock.NewTimer(interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C():
		}
	}
}

func (p *Poller) handle(st State) {
	p.mu.Lock()
	p.last = &st
	p.ticks++
	tick := p.ticks
	p.mu.Unlock()

	logf("angle %d: poll %d: %.0f%%, %d lights", p.Angle, tick, st.Progress*100, len(st.Positions))
	p.Progress.SetValue(math.Max(0, math.Min(1, st.Progress)))
	if p.Summary != nil {
		p.Summary.SetText(Summarize(st).String())
	}
	p.Redraw()
}

// Redraw renders the latest state once the reference photo has loaded. It is
// also the reference image's load handler.
func (p *Poller) Redraw() {
	p.mu.Lock()
	last := p.last
	p.mu.Unlock()
	if last == nil || p.Surface == nil || p.Reference == nil || !p.Reference.Loaded() {
		return
	}
	p.Overlay.Render(p.Surface, p.Reference, *last)
}

// Last returns the most recent state, if any.
func (p *Poller) Last() (State, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil {
		return State{}, false
	}
	return *p.last, true
}
