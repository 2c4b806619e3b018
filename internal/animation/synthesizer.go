// Package animation builds the animation editor: it turns the server's
// parameter schemas into form controls and compiles the form into animation
// data, caching the result until the form changes.
package animation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/blinkenxmas/lightdesk/internal/backend"
	"github.com/blinkenxmas/lightdesk/internal/messages"
	"github.com/blinkenxmas/lightdesk/internal/monitoring"
	"github.com/blinkenxmas/lightdesk/internal/page"
	"github.com/blinkenxmas/lightdesk/internal/timeutil"
)

var logf = monitoring.For("animation")

// Fields the synthesizer never owns.
const (
	FieldName      = "name"
	FieldAnimation = "animation"
	FieldData      = "data"
)

// AdvisoryText is shown when a compile is slow.
const AdvisoryText = "Generating animation, please wait..."

var (
	// ErrUnknownAnimation is returned when the selected animation is not in
	// the catalog.
	ErrUnknownAnimation = errors.New("unknown animation")
	// ErrSelectionChanged is returned when the selected animation changed
	// while a request was in flight. The result was discarded.
	ErrSelectionChanged = errors.New("animation selection changed")
)

func reserved(name string) bool {
	return name == FieldName || name == FieldAnimation || name == FieldData
}

// SchemaSource provides the animation catalog.
type SchemaSource interface {
	Animations(ctx context.Context) (*Catalog, error)
}

// Compiler turns parameter values into animation data.
type Compiler interface {
	CompileAnimation(ctx context.Context, id string, fields []backend.Field) (string, error)
}

// Synthesizer owns the schema-derived controls of the create form.
type Synthesizer struct {
	form        page.Form
	description page.Text
	schemas     SchemaSource
	compiler    Compiler
	sink        messages.Sink
	clock       timeutil.Clock
	policy      *bluemonday.Policy

	// AdvisoryDelay is how long a compile may run before AdvisoryText is
	// shown.
	AdvisoryDelay time.Duration

	cache *GenerationCache

	mu     sync.Mutex
	owned  []page.Injected
	primed string
}

// Options configures a Synthesizer. Description may be nil when the page has
// no description panel. Clock defaults to the real clock.
type Options struct {
	Form          page.Form
	Description   page.Text
	Schemas       SchemaSource
	Compiler      Compiler
	Sink          messages.Sink
	Clock         timeutil.Clock
	AdvisoryDelay time.Duration
}

// NewSynthesizer returns a synthesizer for opts.Form.
func NewSynthesizer(opts Options) *Synthesizer {
	clock := opts.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	delay := opts.AdvisoryDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	return &Synthesizer{
		form:          opts.Form,
		description:   opts.Description,
		schemas:       opts.Schemas,
		compiler:      opts.Compiler,
		sink:          opts.Sink,
		clock:         clock,
		policy:        bluemonday.UGCPolicy(),
		AdvisoryDelay: delay,
		cache:         NewGenerationCache(),
	}
}

// Cache returns the synthesizer's generation cache.
func (s *Synthesizer) Cache() *GenerationCache { return s.cache }

// Setup rebuilds the controls for the selected animation. Controls from a
// previous Setup are removed first; nothing else in the form is touched
// except the data field's visibility, the description panel and, while the
// operator has not edited it, the name field.
func (s *Synthesizer) Setup(ctx context.Context) error {
	id := s.form.Value(FieldAnimation)

	var schema *Schema
	if id != "" {
		cat, err := s.schemas.Animations(ctx)
		if err != nil {
			return fmt.Errorf("loading animations: %w", err)
		}
		if s.form.Value(FieldAnimation) != id {
			return ErrSelectionChanged
		}
		var ok bool
		if schema, ok = cat.Lookup(id); !ok {
			s.reset(id)
			return fmt.Errorf("%w: %s", ErrUnknownAnimation, id)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposeLocked()
	s.cache.NewGeneration(id)

	if schema == nil {
		s.form.SetVisible(FieldData, true)
		s.showDescription("")
		logf("manual data entry")
		return nil
	}

	for _, p := range schema.Params {
		s.owned = append(s.owned, s.form.Insert(p.Control()))
	}
	s.form.SetVisible(FieldData, false)
	s.showDescription(schema.Description)

	if cur := s.form.Value(FieldName); cur == "" || cur == s.primed {
		s.form.SetValue(FieldName, schema.Name)
		s.primed = schema.Name
	}
	logf("set up %s with %d parameters", id, len(schema.Params))
	return nil
}

// reset removes every owned control and returns to manual entry.
func (s *Synthesizer) reset(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposeLocked()
	s.cache.NewGeneration(id)
	s.form.SetVisible(FieldData, true)
	s.showDescription("")
}

func (s *Synthesizer) disposeLocked() {
	for _, c := range s.owned {
		c.Remove()
	}
	s.owned = nil
}

func (s *Synthesizer) showDescription(html string) {
	if s.description == nil {
		return
	}
	if html == "" {
		s.description.SetHTML("")
		s.description.SetVisible(false)
		return
	}
	s.description.SetHTML(s.policy.Sanitize(html))
	s.description.SetVisible(true)
}

// Controls returns the field names of the controls Setup injected.
func (s *Synthesizer) Controls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.owned))
	for i, c := range s.owned {
		out[i] = c.Name()
	}
	return out
}

// HandleChange marks the cache dirty for any change except to the data field
// or a button.
func (s *Synthesizer) HandleChange(ev page.ChangeEvent) {
	if ev.Button || ev.Name == FieldData {
		return
	}
	s.cache.MarkDirty()
}

// snapshot reads the selection, the owned controls' values and a cache
// ticket in one step, so a concurrent Setup cannot interleave with it.
func (s *Synthesizer) snapshot() (id string, fields []backend.Field, data string, t Ticket, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id = s.form.Value(FieldAnimation)
	fields = make([]backend.Field, 0, len(s.owned))
	for _, c := range s.owned {
		if v, ok := c.Value(); ok {
			fields = append(fields, backend.Field{Name: c.Name(), Value: v})
		}
	}
	data, t, ok = s.cache.Get()
	return id, fields, data, t, ok
}

// Compile returns the animation data for the form. With no animation
// selected it is the data field as typed. Otherwise the cached data is
// returned while the form is unchanged, and the server recompiles it when
// the form has changed. A form edited during a compile is compiled again;
// data is only returned once it matches the form.
func (s *Synthesizer) Compile(ctx context.Context) (string, error) {
	var advisory timeutil.Timer
	defer func() {
		if advisory != nil {
			advisory.Stop()
		}
	}()
	start := s.clock.Now()

	for {
		id, fields, data, ticket, ok := s.snapshot()
		if id == "" {
			return s.form.Value(FieldData), nil
		}
		if ticket.Animation != id {
			// Setup for the new selection has not run yet.
			return "", ErrSelectionChanged
		}
		if ok {
			return data, nil
		}

		if advisory == nil {
			advisory = s.clock.AfterFunc(s.AdvisoryDelay, func() {
				if s.sink != nil {
					s.sink.Show(AdvisoryText)
				}
			})
		}
		data, err := s.compiler.CompileAnimation(ctx, id, fields)
		if err != nil {
			return "", fmt.Errorf("compiling %s: %w", id, err)
		}

		stored, clean := s.cache.Store(ticket, data)
		if !stored {
			logf("discarding %s result from a previous selection", id)
			return "", ErrSelectionChanged
		}
		if !clean {
			logf("%s changed while compiling, compiling again", id)
			continue
		}
		s.form.SetValue(FieldData, data)
		logf("compiled %s in %v (%d bytes)", id, s.clock.Now().Sub(start), len(data))
		return data, nil
	}
}
