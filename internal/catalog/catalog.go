package catalog

import (
	"context"

	"github.com/blinkenxmas/lightdesk/internal/animation"
	"github.com/blinkenxmas/lightdesk/internal/backend"
)

// Catalog holds the animation and preset catalogs. Pages never invalidate
// them: a preset stored by another operator appears after a reload.
type Catalog struct {
	animations *Memo[*animation.Catalog]
	presets    *Memo[[]string]
}

// New returns a Catalog backed by client.
func New(client *backend.Client) *Catalog {
	return &Catalog{
		animations: NewMemo(func(ctx context.Context) (*animation.Catalog, error) {
			var cat animation.Catalog
			if err := client.Animations(ctx, &cat); err != nil {
				return nil, err
			}
			return &cat, nil
		}),
		presets: NewMemo(client.Presets),
	}
}

// Animations returns the animation catalog.
func (c *Catalog) Animations(ctx context.Context) (*animation.Catalog, error) {
	return c.animations.Get(ctx)
}

// Presets returns the stored preset names.
func (c *Catalog) Presets(ctx context.Context) ([]string, error) {
	names, err := c.presets.Get(ctx)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), names...), nil
}

// Invalidate forgets both catalogs.
func (c *Catalog) Invalidate() {
	c.animations.Invalidate()
	c.presets.Invalidate()
}
