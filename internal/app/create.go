package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/blinkenxmas/lightdesk/internal/animation"
	"github.com/blinkenxmas/lightdesk/internal/page"
	"github.com/blinkenxmas/lightdesk/internal/preview"
)

// Button labels of the create page.
const (
	LabelCreate = "Create"
	LabelUpdate = "Update"
	LabelWatch  = "Watch"
)

// CreatePage is the create/edit form.
type CreatePage struct {
	Form        page.Form
	Description page.Text // optional
	Preview     page.Button
	Submit      page.Button
	// Preset names the preset being edited; empty when creating.
	Preset string

	// Live and Watch show the installation's live stream from camera
	// LiveAngle while previewing. Optional.
	Live      page.Image
	Watch     page.Button
	LiveAngle int
}

// Create runs the create/edit page.
type Create struct {
	env   *Env
	page  CreatePage
	synth *animation.Synthesizer
	live  *preview.Toggle
	tasks
}

// InitCreate wires the create/edit page. Handlers use ctx for their
// requests.
func InitCreate(ctx context.Context, env *Env, p CreatePage) *Create {
	c := &Create{
		env:  env,
		page: p,
		synth: animation.NewSynthesizer(animation.Options{
			Form:          p.Form,
			Description:   p.Description,
			Schemas:       env.Catalog,
			Compiler:      env.Client,
			Sink:          env.Sink,
			Clock:         env.Clock,
			AdvisoryDelay: env.Config.GetAdvisoryDelay(),
		}),
	}

	p.Form.OnChange(func(ev page.ChangeEvent) {
		c.synth.HandleChange(ev)
		if ev.Name == animation.FieldAnimation {
			c.goDo(func() { c.Setup(ctx) })
		}
	})
	p.Preview.OnClick(func() {
		c.goDo(func() { c.Preview(ctx) })
	})
	p.Submit.OnClick(func() {
		// Constraint checks run on the event so the browser can focus the
		// offending field.
		if !p.Form.ReportValidity() {
			return
		}
		c.goDo(func() { c.Save(ctx) })
	})

	if p.Live != nil && p.Watch != nil {
		c.live = preview.NewToggle(p.Live, p.Watch,
			env.Client.URL(env.Config.GetPlaceholderImage()),
			env.Client.StreamURL,
			preview.WithLabels(LabelWatch, preview.LabelStop))
		c.live.SetAngle(p.LiveAngle)
	}

	if p.Preset != "" {
		p.Submit.SetLabel(LabelUpdate)
		p.Form.SetValue(animation.FieldName, p.Preset)
		c.goDo(func() { c.Load(ctx, p.Preset) })
	} else {
		p.Submit.SetLabel(LabelCreate)
	}
	if p.Form.Value(animation.FieldAnimation) != "" {
		c.goDo(func() { c.Setup(ctx) })
	}
	c.goDo(func() { PullMessages(ctx, env) })
	return c
}

// Synthesizer returns the page's form synthesizer.
func (c *Create) Synthesizer() *animation.Synthesizer { return c.synth }

// Live returns the live stream toggle, or nil if the page has none.
func (c *Create) Live() *preview.Toggle { return c.live }

// Setup rebuilds the parameter controls for the selected animation. A result
// superseded by a newer selection is dropped silently.
func (c *Create) Setup(ctx context.Context) error {
	err := c.synth.Setup(ctx)
	if err != nil && !errors.Is(err, animation.ErrSelectionChanged) {
		c.env.fail(ctx, err)
	}
	return err
}

// Preview compiles the form and plays the result on the installation.
func (c *Create) Preview(ctx context.Context) error {
	data, err := c.synth.Compile(ctx)
	if err == nil {
		err = c.env.Client.Preview(ctx, data)
	}
	if err != nil {
		c.env.fail(ctx, err)
	}
	return err
}

// Save compiles the form, stores it under the form's name and returns to the
// index page. The form must already have passed its constraint checks.
func (c *Create) Save(ctx context.Context) error {
	name := c.page.Form.Value(animation.FieldName)
	data, err := c.synth.Compile(ctx)
	if err == nil {
		err = c.env.Client.PutPreset(ctx, name, data)
	}
	if err != nil {
		c.env.fail(ctx, fmt.Errorf("saving %s: %w", name, err))
		return err
	}
	logf("saved preset %s", name)
	c.env.Navigator.Navigate("/")
	return nil
}

// Load fills the data field with a stored preset.
func (c *Create) Load(ctx context.Context, name string) error {
	data, err := c.env.Client.Preset(ctx, name)
	if err != nil {
		c.env.fail(ctx, fmt.Errorf("loading %s: %w", name, err))
		return err
	}
	c.page.Form.SetValue(animation.FieldData, data)
	return nil
}
