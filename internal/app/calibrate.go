package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/blinkenxmas/lightdesk/internal/calibrate"
	"github.com/blinkenxmas/lightdesk/internal/canvas"
	"github.com/blinkenxmas/lightdesk/internal/mask"
	"github.com/blinkenxmas/lightdesk/internal/page"
	"github.com/blinkenxmas/lightdesk/internal/preview"
)

// FieldAngle is the calibration form's angle selector.
const FieldAngle = "angle"

// CalibratePage is the camera setup form: a preview of the camera, and the
// reference photo of the selected angle to draw the mask on.
type CalibratePage struct {
	Form          page.Form
	Stream        page.Image
	PreviewButton page.Button
	Reference     calibrate.Reference
	Drawing       canvas.Drawing
	Undo, Clear   page.Button // optional
}

// Calibrate runs the calibration setup page.
type Calibrate struct {
	env    *Env
	page   CalibratePage
	toggle *preview.Toggle
	editor *mask.Editor
}

// InitCalibrate wires the calibration setup page. A mask the server echoed
// into the form is restored.
func InitCalibrate(ctx context.Context, env *Env, p CalibratePage) *Calibrate {
	w, h := env.Config.GetStreamSize()
	echoed := p.Form.Value(mask.FieldMask)

	c := &Calibrate{
		env:  env,
		page: p,
		toggle: preview.NewToggle(p.Stream, p.PreviewButton, env.Client.URL(env.Config.GetPlaceholderImage()), func(angle int) string {
			return env.Client.CalibrationPreviewURL(w, h, angle)
		}),
		editor: mask.NewEditor(p.Form, mask.DefaultStyle(env.Config.GetVertexRadius())),
	}
	if strings.TrimSpace(echoed) != "" {
		if err := c.editor.Load(echoed); err != nil {
			env.fail(ctx, fmt.Errorf("restoring mask: %w", err))
		}
	}

	p.Reference.OnLoad(c.render)
	p.Drawing.OnPointerDown(func(x, y float64) {
		c.editor.PointerDown(p.Drawing, x, y)
	})
	if p.Undo != nil {
		p.Undo.OnClick(c.editor.Undo)
	}
	if p.Clear != nil {
		p.Clear.OnClick(c.editor.Clear)
	}
	p.Form.OnChange(func(ev page.ChangeEvent) {
		if ev.Name == FieldAngle {
			c.SelectAngle()
		}
	})

	c.SelectAngle()
	PullMessages(ctx, env)
	return c
}

// Angle returns the selected camera angle. Anything unparseable is angle 0.
func (c *Calibrate) Angle() int {
	angle, err := strconv.Atoi(strings.TrimSpace(c.page.Form.Value(FieldAngle)))
	if err != nil || angle < 0 {
		return 0
	}
	return angle
}

// SelectAngle points the stream and the reference photo at the selected
// angle.
func (c *Calibrate) SelectAngle() {
	angle := c.Angle()
	c.toggle.SetAngle(angle)

	url := c.env.Client.BaseImageURL(angle)
	if c.page.Reference.Src() != url {
		c.page.Reference.SetSrc(url)
	}
	c.render()
}

// render draws the mask over the reference photo once the photo is loaded.
func (c *Calibrate) render() {
	if !c.page.Reference.Loaded() {
		return
	}
	c.editor.Render(c.page.Drawing, c.page.Reference)
}

// Editor returns the page's mask editor.
func (c *Calibrate) Editor() *mask.Editor { return c.editor }

// Toggle returns the page's preview toggle.
func (c *Calibrate) Toggle() *preview.Toggle { return c.toggle }
