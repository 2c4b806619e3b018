package animation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/blinkenxmas/lightdesk/internal/ident"
	"github.com/blinkenxmas/lightdesk/internal/page"
)

// Param describes one input of an animation. It is one of Text, Number,
// Checkbox or Select.
type Param interface {
	// Field returns the stable form field name.
	Field() string
	// Control returns the widget the parameter is edited with.
	Control() page.Control
}

// ParamBase holds what every parameter kind has.
type ParamBase struct {
	Name  string
	Label string
}

func (b ParamBase) Field() string { return b.Name }

func (b ParamBase) control(kind page.Kind) page.Control {
	return page.Control{Kind: kind, Name: b.Name, ID: ident.Escape(b.Name), Label: b.Label}
}

// Text is a free text parameter. Input is an HTML input type hint such as
// "color"; empty means "text".
type Text struct {
	ParamBase
	Default string
	Input   string
}

func (p Text) Control() page.Control {
	c := p.control(page.KindText)
	c.Default = p.Default
	c.InputType = p.Input
	if c.InputType == "" {
		c.InputType = "text"
	}
	return c
}

// Number is a numeric parameter with optional bounds.
type Number struct {
	ParamBase
	Default  *float64
	Min, Max *float64
}

func (p Number) Control() page.Control {
	c := p.control(page.KindNumber)
	c.InputType = "number"
	c.Default = formatFloat(p.Default)
	c.Min = formatFloat(p.Min)
	c.Max = formatFloat(p.Max)
	return c
}

// Checkbox is a boolean parameter.
type Checkbox struct {
	ParamBase
	Default bool
}

func (p Checkbox) Control() page.Control {
	c := p.control(page.KindCheckbox)
	c.InputType = "checkbox"
	c.Checked = p.Default
	return c
}

// Select picks one of an ordered list of choices.
type Select struct {
	ParamBase
	Default string
	Choices []page.Choice
}

func (p Select) Control() page.Control {
	c := p.control(page.KindSelect)
	c.Default = p.Default
	c.Choices = append([]page.Choice(nil), p.Choices...)
	return c
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Schema is the server's description of one animation.
type Schema struct {
	ID          string
	Name        string
	Description string // HTML, may be empty
	Params      []Param
}

// Catalog is every animation the server offers, in server order.
type Catalog struct {
	ids     []string
	schemas map[string]*Schema
}

// IDs returns the animation ids in server order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.ids...)
}

// Lookup returns the schema of animation id.
func (c *Catalog) Lookup(id string) (*Schema, bool) {
	s, ok := c.schemas[id]
	return s, ok
}

// Len returns the number of animations.
func (c *Catalog) Len() int { return len(c.ids) }

type wireSchema struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Params      []wireParam `json:"params"`
}

type wireParam struct {
	Name    string          `json:"name"`
	Label   string          `json:"label"`
	Kind    string          `json:"kind"`
	Default json.RawMessage `json:"default"`
	Min     *float64        `json:"min"`
	Max     *float64        `json:"max"`
	Input   string          `json:"input"`
	Choices []struct {
		Value string `json:"value"`
		Label string `json:"label"`
	} `json:"choices"`
}

func (w wireParam) param() (Param, error) {
	if w.Name == "" {
		return nil, errors.New("parameter without a name")
	}
	base := ParamBase{Name: w.Name, Label: w.Label}
	if base.Label == "" {
		base.Label = w.Name
	}
	hasDefault := len(w.Default) > 0 && !bytes.Equal(w.Default, []byte("null"))

	switch w.Kind {
	case "text", "":
		p := Text{ParamBase: base, Input: w.Input}
		if hasDefault {
			if err := json.Unmarshal(w.Default, &p.Default); err != nil {
				return nil, fmt.Errorf("parameter %s: text default: %w", w.Name, err)
			}
		}
		return p, nil
	case "number":
		p := Number{ParamBase: base, Min: w.Min, Max: w.Max}
		if hasDefault {
			var v float64
			if err := json.Unmarshal(w.Default, &v); err != nil {
				return nil, fmt.Errorf("parameter %s: number default: %w", w.Name, err)
			}
			p.Default = &v
		}
		if p.Min != nil && p.Max != nil && *p.Min > *p.Max {
			return nil, fmt.Errorf("parameter %s: min %v above max %v", w.Name, *p.Min, *p.Max)
		}
		return p, nil
	case "checkbox":
		p := Checkbox{ParamBase: base}
		if hasDefault {
			if err := json.Unmarshal(w.Default, &p.Default); err != nil {
				return nil, fmt.Errorf("parameter %s: checkbox default: %w", w.Name, err)
			}
		}
		return p, nil
	case "select":
		if len(w.Choices) == 0 {
			return nil, fmt.Errorf("parameter %s: select without choices", w.Name)
		}
		p := Select{ParamBase: base}
		for _, ch := range w.Choices {
			label := ch.Label
			if label == "" {
				label = ch.Value
			}
			p.Choices = append(p.Choices, page.Choice{Value: ch.Value, Label: label})
		}
		if hasDefault {
			if err := json.Unmarshal(w.Default, &p.Default); err != nil {
				return nil, fmt.Errorf("parameter %s: select default: %w", w.Name, err)
			}
		}
		return p, nil
	}
	return nil, fmt.Errorf("parameter %s: unknown kind %q", w.Name, w.Kind)
}

// UnmarshalJSON decodes the catalog object, keeping its keys in document
// order.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("animation catalog: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("animation catalog: expected object, got %v", tok)
	}

	cat := Catalog{schemas: make(map[string]*Schema)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("animation catalog: %w", err)
		}
		id := tok.(string) // object keys are always strings

		var ws wireSchema
		if err := dec.Decode(&ws); err != nil {
			return fmt.Errorf("animation %s: %w", id, err)
		}
		s := &Schema{ID: id, Name: ws.Name, Description: ws.Description}
		if s.Name == "" {
			s.Name = id
		}
		seen := make(map[string]bool, len(ws.Params))
		for _, wp := range ws.Params {
			p, err := wp.param()
			if err != nil {
				return fmt.Errorf("animation %s: %w", id, err)
			}
			if seen[p.Field()] || reserved(p.Field()) {
				return fmt.Errorf("animation %s: parameter name %q clashes with another field", id, p.Field())
			}
			seen[p.Field()] = true
			s.Params = append(s.Params, p)
		}
		if _, dup := cat.schemas[id]; !dup {
			cat.ids = append(cat.ids, id)
		}
		cat.schemas[id] = s
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("animation catalog: %w", err)
	}
	*c = cat
	return nil
}
