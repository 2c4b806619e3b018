//go:build js && wasm

package dom

import (
	"fmt"
	"image/color"
	"net/url"
	"syscall/js"

	"github.com/blinkenxmas/lightdesk/internal/config"
	"github.com/blinkenxmas/lightdesk/internal/monitoring"
)

var logf = monitoring.For("dom")

var (
	jsGlobal   js.Value
	jsDocument js.Value
	jsWindow   js.Value
)

func init() {
	jsGlobal = js.Global()
	jsWindow = jsGlobal.Get("window")
	jsDocument = jsGlobal.Get("document")
}

// missing reports whether v is undefined or null.
func missing(v js.Value) bool {
	return v.IsUndefined() || v.IsNull()
}

// ByID returns the element with id, or an undefined value.
func ByID(id string) js.Value {
	el := jsDocument.Call("getElementById", id)
	if el.IsNull() {
		return js.Undefined()
	}
	return el
}

// Query returns the first element matching selector, or an undefined value.
func Query(selector string) js.Value {
	el := jsDocument.Call("querySelector", selector)
	if el.IsNull() {
		return js.Undefined()
	}
	return el
}

// listen adds an event listener. The callback is kept for the page's
// lifetime.
func listen(target js.Value, event string, fn func(e js.Value)) {
	target.Call("addEventListener", event, js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		fn(args[0])
		return nil
	}))
}

// setDisplay shows or hides el, leaving the stylesheet's display when
// shown.
func setDisplay(el js.Value, visible bool) {
	if missing(el) {
		return
	}
	if visible {
		el.Get("style").Set("display", "")
	} else {
		el.Get("style").Set("display", "none")
	}
}

// cssColor renders c as a CSS rgba() colour.
func cssColor(c color.Color) string {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return "transparent"
	}
	// RGBA is alpha-premultiplied.
	return fmt.Sprintf("rgba(%d,%d,%d,%.3f)", r*255/a, g*255/a, b*255/a, float64(a)/0xffff)
}

// PageName returns the page's data-page attribute.
func PageName() string {
	v := jsDocument.Get("body").Get("dataset").Get("page")
	if missing(v) {
		return ""
	}
	return v.String()
}

// QueryParam returns a parameter of the page's query string.
func QueryParam(key string) string {
	q, err := url.ParseQuery(trimQuestion(jsWindow.Get("location").Get("search").String()))
	if err != nil {
		logf("bad query string: %v", err)
		return ""
	}
	return q.Get(key)
}

func trimQuestion(s string) string {
	if len(s) > 0 && s[0] == '?' {
		return s[1:]
	}
	return s
}

// LoadConfig reads the configuration embedded in the page. A page without
// one runs on defaults.
func LoadConfig() (*config.Config, error) {
	el := ByID(config.ElementID)
	if missing(el) {
		return config.Empty(), nil
	}
	mediaType := el.Call("getAttribute", "type")
	mt := "application/json"
	if !missing(mediaType) {
		mt = mediaType.String()
	}
	return config.Parse([]byte(el.Get("textContent").String()), mt)
}
