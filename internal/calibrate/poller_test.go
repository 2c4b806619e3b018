package calibrate

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinkenxmas/lightdesk/internal/backend"
	"github.com/blinkenxmas/lightdesk/internal/canvas"
	"github.com/blinkenxmas/lightdesk/internal/httputil"
	"github.com/blinkenxmas/lightdesk/internal/messages"
	"github.com/blinkenxmas/lightdesk/internal/monitoring"
	"github.com/blinkenxmas/lightdesk/internal/page"
	"github.com/blinkenxmas/lightdesk/internal/timeutil"
)

func init() {
	monitoring.SetLogger(nil)
}

type pollerFixture struct {
	mock     *httputil.MockHTTPClient
	progress *page.MemoryProgress
	summary  *page.MemoryText
	ref      *page.MemoryImage
	surface  *canvas.Recorder
	nav      *page.MemoryNavigator
	sink     *messages.Recorder
	clock    *timeutil.MockClock
	poller   *Poller
}

func newPollerFixture() *pollerFixture {
	f := &pollerFixture{
		mock:     httputil.NewMockHTTPClient(),
		progress: &page.MemoryProgress{},
		summary:  &page.MemoryText{},
		ref:      &page.MemoryImage{Width: 1280, Height: 960},
		surface:  canvas.NewRecorder(640, 480),
		nav:      &page.MemoryNavigator{},
		sink:     &messages.Recorder{},
		clock:    timeutil.NewMockClock(time.Date(2024, 12, 1, 18, 0, 0, 0, time.UTC)),
	}
	f.poller = &Poller{
		Source:    backend.NewClient(f.mock, ""),
		Angle:     90,
		Progress:  f.progress,
		Summary:   f.summary,
		Reference: f.ref,
		Surface:   f.surface,
		Overlay:   Overlay{MarkerRadius: 4},
		Navigator: f.nav,
		NextURL:   "/calibrate.html",
		Sink:      f.sink,
		Clock:     f.clock,
		Interval:  time.Second,
	}
	return f
}

func (f *pollerFixture) run() <-chan error {
	done := make(chan error, 1)
	go func() { done <- f.poller.Run(context.Background()) }()
	return done
}

func (f *pollerFixture) waitForSleep(t *testing.T) {
	t.Helper()
	require.True(t, f.clock.WaitForTimer(5*time.Second), "poller never scheduled its next poll")
}

func TestPoller_RunsToCompletion(t *testing.T) {
	f := newPollerFixture()
	f.mock.AddResponse(http.StatusOK, `{"progress": 0.0, "positions": {}, "scores": {}}`)
	f.mock.AddResponse(http.StatusOK, `{"progress": 0.5, "positions": {"0": [0.5, 0.5]}, "scores": {"0": 50}}`)
	f.mock.AddResponse(http.StatusOK, `{"progress": 1.0, "positions": {"0": [0.5, 0.5], "1": [0.1, 0.1]}, "scores": {"0": 80, "1": 20}}`)

	done := f.run()

	f.waitForSleep(t)
	assert.Equal(t, 1, f.mock.RequestCount())
	assert.Empty(t, f.nav.URLs())

	f.clock.Advance(time.Second)
	f.waitForSleep(t)
	assert.Equal(t, 2, f.mock.RequestCount())
	assert.Empty(t, f.nav.URLs(), "no navigation before the scan completes")

	f.clock.Advance(time.Second)
	require.NoError(t, <-done)

	assert.Equal(t, 3, f.mock.RequestCount())
	assert.Equal(t, []string{
		"GET /angle090_state.json",
		"GET /angle090_state.json",
		"GET /angle090_state.json",
	}, f.mock.Paths())
	assert.Equal(t, []float64{0, 0.5, 1}, f.progress.Values())
	assert.Equal(t, []string{"/calibrate.html"}, f.nav.URLs())
	assert.Equal(t, "2 lights located, score 50.0 avg (20.0-80.0)", f.summary.Text())
	assert.Empty(t, f.sink.Messages())
	assert.Equal(t, 0, f.clock.Pending())
}

func TestPoller_WaitsForReferenceImage(t *testing.T) {
	f := newPollerFixture()
	f.mock.AddResponse(http.StatusOK, `{"progress": 0.5, "positions": {"0": [0.5, 0.5]}, "scores": {"0": 50}}`)
	f.mock.AddResponse(http.StatusOK, `{"progress": 1, "positions": {"0": [0.5, 0.5]}, "scores": {"0": 50}}`)
	f.ref.OnLoad(f.poller.Redraw)

	done := f.run()
	f.waitForSleep(t)
	assert.Empty(t, f.surface.Ops(), "nothing drawn before the photo loads")

	f.ref.Load()
	assert.Len(t, f.surface.OfKind(canvas.OpCircle), 1, "loading the photo draws the last state")

	f.clock.Advance(time.Second)
	require.NoError(t, <-done)
	assert.Len(t, f.surface.OfKind(canvas.OpImage), 2)
}

func TestPoller_ErrorStopsChain(t *testing.T) {
	f := newPollerFixture()
	f.mock.AddResponse(http.StatusOK, `{"progress": 0.2}`)
	f.mock.AddResponse(http.StatusInternalServerError, "camera disconnected")

	done := f.run()
	f.waitForSleep(t)
	f.clock.Advance(time.Second)
	err := <-done

	var se *backend.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 2, f.mock.RequestCount())
	assert.Equal(t, []string{"Error: camera disconnected (status 500)"}, f.sink.Messages())
	assert.Empty(t, f.nav.URLs())
	assert.Equal(t, 0, f.clock.Pending(), "no further poll is scheduled")
}

func TestPoller_NetworkError(t *testing.T) {
	f := newPollerFixture()
	f.mock.AddErrorResponse(errors.New("connection refused"))

	err := f.poller.Run(context.Background())

	assert.ErrorContains(t, err, "connection refused")
	require.Len(t, f.sink.Messages(), 1)
	assert.Contains(t, f.sink.Messages()[0], "connection refused")
	assert.Empty(t, f.progress.Values())
}

func TestPoller_CancelIsSilent(t *testing.T) {
	f := newPollerFixture()
	f.mock.AddResponse(http.StatusOK, `{"progress": 0.1}`)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.poller.Run(ctx) }()
	f.waitForSleep(t)
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Empty(t, f.sink.Messages())
	assert.Empty(t, f.nav.URLs())
	assert.Equal(t, 1, f.mock.RequestCount())
}

func TestPoller_ProgressIsClamped(t *testing.T) {
	f := newPollerFixture()
	f.mock.AddResponse(http.StatusOK, `{"progress": 1.7}`)

	require.NoError(t, f.poller.Run(context.Background()))
	assert.Equal(t, []float64{1}, f.progress.Values())

	last, ok := f.poller.Last()
	require.True(t, ok)
	assert.Equal(t, 1.7, last.Progress)
}
