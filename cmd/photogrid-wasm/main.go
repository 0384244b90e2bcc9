//go:build js && wasm

// Command photogrid-wasm is the browser half of photogrid. Loaded next to
// wasm_exec.js on a gallery page, it lays the grid out on load and on every
// window resize, re-binds the lightbox after each pass, and keeps the page
// theme in step with the selector, localStorage and the server.
package main

import (
	"context"
	"encoding/json"
	"os"
	"syscall/js"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/photogrid/pkg/dom/jsdom"
	"github.com/matzehuels/photogrid/pkg/overlay"
	"github.com/matzehuels/photogrid/pkg/scheduler"
	"github.com/matzehuels/photogrid/pkg/themes"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "photogrid"})
	ctx := context.Background()

	theme := jsdom.LoadTheme()
	selectTheme(theme)
	watchSelector(logger)
	watchServerTheme(logger)

	sched := scheduler.New(scheduler.Options{
		Document:      jsdom.NewDocument(),
		Frames:        jsdom.AnimationFrames{},
		Overlay:       &jsdom.GLightbox{},
		OverlayConfig: lightboxConfig(logger),
		Logger:        logger,
	})
	go func() {
		if err := sched.Run(ctx); err != nil {
			logger.Error("scheduler stopped", "error", err)
		}
	}()

	jsdom.OnReady(sched.Mount)
	jsdom.OnResize(sched.Resize)
	js.Global().Set("photogridRelayout", js.FuncOf(func(js.Value, []js.Value) any {
		sched.Invalidate()
		return nil
	}))

	select {}
}

// lightboxConfig reads the overlay settings the page embeds as
// window.photogridLightbox.
func lightboxConfig(logger *log.Logger) overlay.Config {
	v := js.Global().Get("photogridLightbox")
	if !v.Truthy() {
		return overlay.Default
	}
	raw := js.Global().Get("JSON").Call("stringify", v).String()
	cfg := overlay.Default
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		logger.Warn("ignoring lightbox settings", "error", err)
		return overlay.Default
	}
	return cfg
}

func themeSelector() js.Value {
	return js.Global().Get("document").Call("getElementById", "theme-selector")
}

func selectTheme(theme string) {
	if sel := themeSelector(); sel.Truthy() {
		sel.Set("value", theme)
	}
}

// watchSelector saves the chosen theme locally and, when the page is
// served, on the server so other open pages follow.
func watchSelector(logger *log.Logger) {
	sel := themeSelector()
	if !sel.Truthy() {
		return
	}
	sel.Call("addEventListener", "change", js.FuncOf(func(this js.Value, _ []js.Value) any {
		theme := this.Get("value").String()
		if !knownTheme(theme) {
			logger.Warn("unknown theme", "theme", theme)
			return nil
		}
		jsdom.SaveTheme(theme)
		if served() {
			body, _ := json.Marshal(map[string]string{"theme": theme})
			js.Global().Call("fetch", "/api/theme", map[string]any{
				"method":  "PUT",
				"headers": map[string]any{"Content-Type": "application/json"},
				"body":    string(body),
			})
		}
		return nil
	}))
}

// themeEvent mirrors the server's websocket message.
type themeEvent struct {
	Type  string `json:"type"`
	Theme string `json:"theme"`
}

// watchServerTheme applies theme changes pushed over /ws.
func watchServerTheme(logger *log.Logger) {
	if !served() {
		return
	}
	loc := js.Global().Get("location")
	scheme := "ws://"
	if loc.Get("protocol").String() == "https:" {
		scheme = "wss://"
	}
	ws := js.Global().Get("WebSocket").New(scheme + loc.Get("host").String() + "/ws")
	ws.Set("onmessage", js.FuncOf(func(_ js.Value, args []js.Value) any {
		var ev themeEvent
		if err := json.Unmarshal([]byte(args[0].Get("data").String()), &ev); err != nil {
			logger.Debug("bad theme event", "error", err)
			return nil
		}
		if ev.Type == "theme" && knownTheme(ev.Theme) {
			jsdom.SaveTheme(ev.Theme)
			selectTheme(ev.Theme)
		}
		return nil
	}))
}

// served reports whether the page came from an HTTP server rather than a
// file on disk.
func served() bool {
	p := js.Global().Get("location").Get("protocol").String()
	return p == "http:" || p == "https:"
}

func knownTheme(id string) bool {
	_, ok := themes.Lookup(id)
	return ok
}
