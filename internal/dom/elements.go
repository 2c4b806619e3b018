//go:build js && wasm

package dom

import (
	"syscall/js"
)

// Text is a page.Text over any element.
type Text struct {
	el js.Value
}

// NewText wraps el. A missing element makes every call a no-op.
func NewText(el js.Value) *Text { return &Text{el: el} }

func (t *Text) SetText(s string) {
	if !missing(t.el) {
		t.el.Set("textContent", s)
	}
}

func (t *Text) SetHTML(s string) {
	if !missing(t.el) {
		t.el.Set("innerHTML", s)
	}
}

func (t *Text) SetVisible(visible bool) { setDisplay(t.el, visible) }

// Image is a page.Image and canvas.Image over an <img> element.
type Image struct {
	el js.Value
}

// NewImage wraps el.
func NewImage(el js.Value) *Image { return &Image{el: el} }

func (i *Image) SetSrc(url string) { i.el.Set("src", url) }

func (i *Image) Src() string { return i.el.Get("src").String() }

func (i *Image) Loaded() bool {
	return i.el.Get("complete").Bool() && i.el.Get("naturalWidth").Int() > 0
}

func (i *Image) OnLoad(fn func()) {
	listen(i.el, "load", func(js.Value) { fn() })
}

func (i *Image) NaturalSize() (w, h float64) {
	return i.el.Get("naturalWidth").Float(), i.el.Get("naturalHeight").Float()
}

// Button is a page.Button over an <input type="button"> or <button>.
type Button struct {
	el      js.Value
	handler func()
}

// NewButton wraps el.
func NewButton(el js.Value) *Button {
	b := &Button{el: el}
	listen(el, "click", func(e js.Value) {
		e.Call("preventDefault")
		if b.handler != nil {
			b.handler()
		}
	})
	return b
}

func (b *Button) SetLabel(s string) {
	if b.el.Get("nodeName").String() == "INPUT" {
		b.el.Set("value", s)
		return
	}
	b.el.Set("textContent", s)
}

func (b *Button) OnClick(fn func()) { b.handler = fn }

// Progress is a page.Progress over a <progress> element.
type Progress struct {
	el js.Value
}

// NewProgress wraps el.
func NewProgress(el js.Value) *Progress { return &Progress{el: el} }

func (p *Progress) SetValue(v float64) { p.el.Set("value", v) }

// Navigator moves the window to another page.
type Navigator struct{}

func (Navigator) Navigate(url string) {
	jsWindow.Get("location").Call("assign", url)
}

// Downloader saves generated files through a temporary object URL.
type Downloader struct{}

func (Downloader) Download(filename, mediaType string, data []byte) {
	arr := jsGlobal.Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(arr, data)
	opts := jsGlobal.Get("Object").New()
	opts.Set("type", mediaType)
	blob := jsGlobal.Get("Blob").New([]interface{}{arr}, opts)

	urlAPI := jsGlobal.Get("URL")
	href := urlAPI.Call("createObjectURL", blob)
	a := jsDocument.Call("createElement", "a")
	a.Set("href", href)
	a.Set("download", filename)
	jsDocument.Get("body").Call("appendChild", a)
	a.Call("click")
	a.Call("remove")
	urlAPI.Call("revokeObjectURL", href)
}
