//go:build js && wasm

package dom

import (
	"syscall/js"

	"github.com/blinkenxmas/lightdesk/internal/page"
)

// Form is a page.Form over a <form> element.
type Form struct {
	el js.Value
}

// NewForm wraps el. With an undefined el the page's first form is used.
func NewForm(el js.Value) *Form {
	if missing(el) {
		el = jsDocument.Get("forms").Index(0)
	}
	return &Form{el: el}
}

func (f *Form) field(name string) js.Value {
	return f.el.Get("elements").Get(name)
}

func (f *Form) Value(name string) string {
	el := f.field(name)
	if missing(el) {
		return ""
	}
	return fieldValue(el)
}

func fieldValue(el js.Value) string {
	if el.Get("type").String() == "checkbox" {
		if el.Get("checked").Bool() {
			return el.Get("value").String()
		}
		return ""
	}
	return el.Get("value").String()
}

func (f *Form) SetValue(name, value string) {
	el := f.field(name)
	if missing(el) {
		return
	}
	if el.Get("type").String() == "checkbox" {
		el.Set("checked", value != "")
		return
	}
	el.Set("value", value)
}

func (f *Form) SetVisible(name string, visible bool) {
	el := f.field(name)
	if missing(el) {
		return
	}
	setDisplay(el, visible)
	labels := el.Get("labels")
	if missing(labels) {
		return
	}
	for i := 0; i < labels.Length(); i++ {
		setDisplay(labels.Index(i), visible)
	}
}

func (f *Form) Insert(c page.Control) page.Injected {
	var input js.Value
	switch c.Kind {
	case page.KindSelect:
		input = jsDocument.Call("createElement", "select")
		for _, ch := range c.Choices {
			opt := jsDocument.Call("createElement", "option")
			opt.Set("value", ch.Value)
			opt.Set("textContent", ch.Label)
			if ch.Value == c.Default {
				opt.Set("selected", true)
			}
			input.Call("appendChild", opt)
		}
	case page.KindCheckbox:
		input = jsDocument.Call("createElement", "input")
		input.Set("type", "checkbox")
		input.Set("defaultChecked", c.Checked)
		input.Set("checked", c.Checked)
	case page.KindNumber:
		input = jsDocument.Call("createElement", "input")
		input.Set("type", "number")
		input.Set("step", "any")
		input.Set("defaultValue", c.Default)
		if c.Min != "" {
			input.Set("min", c.Min)
		}
		if c.Max != "" {
			input.Set("max", c.Max)
		}
	default:
		input = jsDocument.Call("createElement", "input")
		typ := c.InputType
		if typ == "" {
			typ = "text"
		}
		input.Set("type", typ)
		input.Set("defaultValue", c.Default)
	}
	input.Set("name", c.Name)
	input.Set("id", c.ID)

	label := jsDocument.Call("createElement", "label")
	label.Set("htmlFor", c.ID)
	label.Set("textContent", c.Label)

	buttons := f.el.Call("querySelector", ".buttons")
	if buttons.IsNull() {
		f.el.Call("appendChild", label)
		f.el.Call("appendChild", input)
	} else {
		f.el.Call("insertBefore", label, buttons)
		f.el.Call("insertBefore", input, buttons)
	}
	return &control{name: c.Name, input: input, label: label}
}

func (f *Form) ReportValidity() bool {
	return f.el.Call("reportValidity").Bool()
}

func (f *Form) OnChange(fn func(page.ChangeEvent)) {
	listen(f.el, "change", func(e js.Value) {
		target := e.Get("target")
		ev := page.ChangeEvent{Name: target.Get("name").String()}
		if target.Get("nodeName").String() == "BUTTON" || target.Get("type").String() == "button" {
			ev.Button = true
		}
		fn(ev)
	})
}

// control is an injected label+widget pair.
type control struct {
	name         string
	input, label js.Value
}

func (c *control) Name() string { return c.name }

func (c *control) Value() (string, bool) {
	if c.input.Get("type").String() == "checkbox" && !c.input.Get("checked").Bool() {
		return "", false
	}
	return c.input.Get("value").String(), true
}

func (c *control) Remove() {
	c.label.Call("remove")
	c.input.Call("remove")
}
