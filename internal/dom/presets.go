//go:build js && wasm

package dom

import (
	"syscall/js"
)

// PresetList is a page.PresetList over "ul#presets" and the form's
// ".buttons" container.
type PresetList struct {
	ul      js.Value
	buttons js.Value
}

// NewPresetList wraps the index page's list.
func NewPresetList(form js.Value) *PresetList {
	if missing(form) {
		form = jsDocument.Get("forms").Index(0)
	}
	return &PresetList{
		ul:      form.Call("querySelector", "ul#presets"),
		buttons: form.Call("querySelector", ".buttons"),
	}
}

func (l *PresetList) items() []js.Value {
	if missing(l.ul) {
		return nil
	}
	nodes := l.ul.Call("querySelectorAll", "li")
	out := make([]js.Value, nodes.Length())
	for i := range out {
		out[i] = nodes.Index(i)
	}
	return out
}

func (l *PresetList) Links() []string {
	var out []string
	for _, li := range l.items() {
		a := li.Call("querySelector", "a")
		if a.IsNull() {
			continue
		}
		out = append(out, a.Get("dataset").Get("preset").String())
	}
	return out
}

func (l *PresetList) ShowLinks(names []string, onShow, onPreview func(name string)) {
	if missing(l.ul) {
		return
	}
	l.ul.Set("innerHTML", "")
	for _, name := range names {
		name := name
		a := jsDocument.Call("createElement", "a")
		a.Set("href", "#")
		a.Get("dataset").Set("preset", name)
		a.Set("textContent", name)
		listen(a, "click", func(e js.Value) {
			e.Call("preventDefault")
			if onShow != nil {
				onShow(name)
			}
		})
		li := jsDocument.Call("createElement", "li")
		li.Call("appendChild", a)
		if onPreview != nil {
			b := l.button("Preview", func() { onPreview(name) })
			b.Get("classList").Call("add", "preview")
			li.Call("appendChild", b)
		}
		l.ul.Call("appendChild", li)
	}
}

func (l *PresetList) ShowCheckboxes(ids, names []string) {
	if missing(l.ul) {
		return
	}
	l.ul.Set("innerHTML", "")
	for i, id := range ids {
		check := jsDocument.Call("createElement", "input")
		check.Set("type", "checkbox")
		check.Set("name", "name")
		check.Set("id", id)
		label := jsDocument.Call("createElement", "label")
		label.Set("htmlFor", id)
		label.Set("textContent", names[i])
		li := jsDocument.Call("createElement", "li")
		li.Call("append", check, label)
		l.ul.Call("appendChild", li)
	}
}

func (l *PresetList) checkboxes(checkedOnly bool) []string {
	var out []string
	for _, li := range l.items() {
		check := li.Call("querySelector", "input[type=checkbox]")
		if check.IsNull() {
			continue
		}
		if checkedOnly && !check.Get("checked").Bool() {
			continue
		}
		out = append(out, check.Get("id").String())
	}
	return out
}

func (l *PresetList) Checkboxes() []string { return l.checkboxes(false) }

func (l *PresetList) Checked() []string { return l.checkboxes(true) }

func (l *PresetList) RemoveItem(id string) {
	for _, li := range l.items() {
		check := li.Call("querySelector", "input[type=checkbox]")
		if !check.IsNull() && check.Get("id").String() == id {
			li.Call("remove")
			return
		}
	}
}

func (l *PresetList) button(label string, fn func()) js.Value {
	b := jsDocument.Call("createElement", "input")
	b.Set("type", "button")
	b.Set("value", label)
	listen(b, "click", func(js.Value) { fn() })
	return b
}

func (l *PresetList) BrowseButtons(onManage func()) {
	if missing(l.buttons) {
		return
	}
	create := jsDocument.Call("createElement", "a")
	create.Set("href", "create.html")
	create.Get("classList").Call("add", "button")
	create.Set("textContent", "Create")
	manage := l.button("Manage", onManage)
	manage.Set("id", "manage")
	l.buttons.Call("replaceChildren", create, manage)
}

func (l *PresetList) ManageButtons(onRemove, onCancel func()) {
	if missing(l.buttons) {
		return
	}
	remove := l.button("Remove", onRemove)
	remove.Set("id", "remove")
	cancel := l.button("Cancel", onCancel)
	cancel.Set("id", "cancel")
	l.buttons.Call("replaceChildren", remove, cancel)
}
