// Package dom binds the page and canvas interfaces to the browser DOM. It
// builds only for js/wasm.
//
// The pages follow one layout: a single top-level form whose buttons sit in
// a ".buttons" container, a "#messages" area, and on the index page a
// "ul#presets" list of links carrying data-preset attributes. <body
// data-page="..."> names the page.
package dom
