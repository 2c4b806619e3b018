//go:build js && wasm

// Command lightdesk is the installation controller's page script. It is
// built with GOOS=js GOARCH=wasm and loaded by every controller page.
package main

import (
	"context"
	"log"
	"strconv"
	"syscall/js"

	"github.com/blinkenxmas/lightdesk/internal/app"
	"github.com/blinkenxmas/lightdesk/internal/dom"
	"github.com/blinkenxmas/lightdesk/internal/messages"
	"github.com/blinkenxmas/lightdesk/internal/page"
	"github.com/blinkenxmas/lightdesk/internal/version"
)

func main() {
	log.Printf("lightdesk %s (%s, built %s)", version.Version, version.GitSHA, version.BuildTime)

	board := messages.NewBoard(dom.NewMessageArea(dom.ByID("messages")))
	cfg, err := dom.LoadConfig()
	if err != nil {
		log.Printf("config: %v", err)
		messages.Error(board, err)
		select {}
	}

	env := app.NewEnv(cfg, nil, board, dom.Navigator{})
	// The page lives until the browser navigates away.
	ctx := context.Background()

	switch name := dom.PageName(); name {
	case "index":
		app.InitIndex(ctx, env, app.IndexPage{List: dom.NewPresetList(js.Undefined())})
	case "create":
		form := dom.NewForm(js.Undefined())
		live := dom.ByID("live-image")
		liveAngle, _ := strconv.Atoi(dataset(live, "angle"))
		app.InitCreate(ctx, env, app.CreatePage{
			Form:        form,
			Description: dom.NewText(dom.ByID("description")),
			Preview:     dom.NewButton(dom.ByID("preview")),
			Submit:      dom.NewButton(dom.ByID("create")),
			Preset:      dom.QueryParam("preset"),
			Live:        optImage(live),
			Watch:       optButton("watch"),
			LiveAngle:   liveAngle,
		})
	case "calibrate":
		app.InitCalibrate(ctx, env, app.CalibratePage{
			Form:          dom.NewForm(js.Undefined()),
			Stream:        dom.NewImage(dom.ByID("preview-image")),
			PreviewButton: dom.NewButton(dom.ByID("preview")),
			Reference:     dom.NewImage(dom.ByID("reference")),
			Drawing:       dom.NewCanvas(dom.ByID("mask-canvas")),
			Undo:          optButton("undo"),
			Clear:         optButton("clear"),
		})
	case "progress":
		angle, err := strconv.Atoi(dom.QueryParam("angle"))
		if err != nil {
			log.Printf("progress page without an angle: %v", err)
		}
		overlay := dom.ByID("overlay")
		app.InitProgress(ctx, env, app.ProgressPage{
			Angle:      angle,
			Progress:   dom.NewProgress(dom.ByID("progress")),
			Summary:    dom.NewText(dom.ByID("summary")),
			Reference:  dom.NewImage(dom.ByID("reference")),
			Surface:    dom.NewCanvas(overlay),
			Mask:       dataset(overlay, "mask"),
			Export:     optButton("export"),
			Report:     optButton("report"),
			Downloader: dom.Downloader{},
		})
	default:
		log.Printf("page %q has no controller", name)
		app.PullMessages(ctx, env)
	}

	select {}
}

// optButton wraps the element with id, or returns nil if the page has none.
func optButton(id string) page.Button {
	el := dom.ByID(id)
	if el.IsUndefined() {
		return nil
	}
	return dom.NewButton(el)
}

// optImage wraps el, or returns nil if the page has no such element.
func optImage(el js.Value) page.Image {
	if el.IsUndefined() {
		return nil
	}
	return dom.NewImage(el)
}

func dataset(el js.Value, key string) string {
	if el.IsUndefined() {
		return ""
	}
	v := el.Get("dataset").Get(key)
	if v.IsUndefined() {
		return ""
	}
	return v.String()
}
