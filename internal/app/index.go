package app

import (
	"context"

	"github.com/blinkenxmas/lightdesk/internal/page"
	"github.com/blinkenxmas/lightdesk/internal/presets"
)

// IndexPage is the preset list.
type IndexPage struct {
	List page.PresetList
}

// InitIndex wires the preset list. A list the server rendered empty is
// filled from /presets.json.
func InitIndex(ctx context.Context, env *Env, p IndexPage) *presets.Manager {
	m := presets.NewManager(ctx, p.List, env.Client, env.Sink)
	m.StopOnError = env.Config.GetStopOnError()

	if len(p.List.Links()) == 0 {
		names, err := env.Catalog.Presets(ctx)
		if err != nil {
			env.fail(ctx, err)
		} else {
			p.List.ShowLinks(names, nil, nil)
		}
	}
	m.Browse()
	PullMessages(ctx, env)
	return m
}
