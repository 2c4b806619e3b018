// Package app wires each controller page: it binds the page's elements to
// the components and starts the page's background work.
package app

import (
	"context"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/blinkenxmas/lightdesk/internal/backend"
	"github.com/blinkenxmas/lightdesk/internal/calibrate"
	"github.com/blinkenxmas/lightdesk/internal/catalog"
	"github.com/blinkenxmas/lightdesk/internal/config"
	"github.com/blinkenxmas/lightdesk/internal/httputil"
	"github.com/blinkenxmas/lightdesk/internal/messages"
	"github.com/blinkenxmas/lightdesk/internal/monitoring"
	"github.com/blinkenxmas/lightdesk/internal/page"
	"github.com/blinkenxmas/lightdesk/internal/timeutil"
)

var logf = monitoring.For("app")

// Env is what every page shares.
type Env struct {
	Config    *config.Config
	Client    *backend.Client
	Catalog   *catalog.Catalog
	Sink      messages.Sink
	Navigator page.Navigator
	Clock     timeutil.Clock
}

// NewEnv builds the shared services from cfg. httpClient may be nil.
func NewEnv(cfg *config.Config, httpClient httputil.HTTPClient, sink messages.Sink, nav page.Navigator) *Env {
	if cfg == nil {
		cfg = config.Empty()
	}
	client := backend.NewClient(httpClient, cfg.GetBaseURL())
	client.Timeout = cfg.GetRequestTimeout()
	return &Env{
		Config:    cfg,
		Client:    client,
		Catalog:   catalog.New(client),
		Sink:      sink,
		Navigator: nav,
		Clock:     timeutil.RealClock{},
	}
}

// overlay returns the marker settings for calibration results.
func (e *Env) overlay() calibrate.Overlay {
	x, y := e.Config.GetLabelOffset()
	return calibrate.Overlay{
		MarkerRadius: e.Config.GetMarkerRadius(),
		LabelOffset:  r2.Vec{X: x, Y: y},
	}
}

// fail shows err unless ctx was cancelled, in which case the page is going
// away and nobody would see it.
func (e *Env) fail(ctx context.Context, err error) {
	if ctx.Err() != nil {
		return
	}
	logf("%v", err)
	messages.Error(e.Sink, err)
}

// tasks runs event handlers off the event callback.
type tasks struct {
	wg sync.WaitGroup
}

func (t *tasks) goDo(fn func()) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		fn()
	}()
}

// Wait blocks until every handler started so far has returned.
func (t *tasks) Wait() {
	t.wg.Wait()
}

// PullMessages shows the server's queued messages. Every page does this once
// at load.
func PullMessages(ctx context.Context, env *Env) {
	messages.Pull(ctx, env.Client, env.Sink)
}
