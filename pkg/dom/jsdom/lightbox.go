//go:build js && wasm

package jsdom

import (
	"syscall/js"

	"github.com/matzehuels/photogrid/pkg/overlay"
)

// GLightbox re-initialises the page's GLightbox library after each layout.
// The previous instance is destroyed first so links are never bound twice.
// If the library is not loaded, activation does nothing.
type GLightbox struct {
	instance js.Value
}

// Activate implements [overlay.Activator].
func (g *GLightbox) Activate(cfg overlay.Config) {
	ctor := js.Global().Get("GLightbox")
	if ctor.Type() != js.TypeFunction {
		return
	}
	if !g.instance.IsUndefined() && !g.instance.IsNull() {
		if destroy := g.instance.Get("destroy"); destroy.Type() == js.TypeFunction {
			g.instance.Call("destroy")
		}
	}
	g.instance = ctor.Invoke(map[string]any{
		"selector":    cfg.Selector,
		"openEffect":  cfg.OpenEffect,
		"closeEffect": cfg.CloseEffect,
		"width":       cfg.Width,
		"height":      cfg.Height,
	})
}

var _ overlay.Activator = (*GLightbox)(nil)
