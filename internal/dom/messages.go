//go:build js && wasm

package dom

import (
	"syscall/js"
)

// MessageArea is a page.MessageArea over the "#messages" element. Messages
// are appended to the body when the page has none.
type MessageArea struct {
	el js.Value
}

// NewMessageArea wraps el, creating a container if el is missing.
func NewMessageArea(el js.Value) *MessageArea {
	if missing(el) {
		el = jsDocument.Call("createElement", "div")
		el.Set("id", "messages")
		jsDocument.Get("body").Call("prepend", el)
	}
	return &MessageArea{el: el}
}

func (a *MessageArea) Append(id, text string, onDismiss func()) {
	div := jsDocument.Call("createElement", "div")
	div.Set("id", id)
	div.Get("classList").Call("add", "message")

	span := jsDocument.Call("createElement", "span")
	span.Set("textContent", text)
	dismiss := jsDocument.Call("createElement", "a")
	dismiss.Set("href", "#")
	dismiss.Set("textContent", "×")
	dismiss.Get("classList").Call("add", "dismiss")
	listen(dismiss, "click", func(e js.Value) {
		e.Call("preventDefault")
		onDismiss()
	})

	div.Call("append", span, dismiss)
	a.el.Call("appendChild", div)
}

func (a *MessageArea) Remove(id string) {
	el := a.el.Call("querySelector", "#"+jsGlobal.Get("CSS").Call("escape", id).String())
	if !el.IsNull() {
		el.Call("remove")
	}
}
