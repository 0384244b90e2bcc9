//go:build js && wasm

package jsdom

import (
	"syscall/js"

	"github.com/matzehuels/photogrid/pkg/themes"
)

// LoadTheme reads the stored theme from localStorage, falling back to
// themes.Default, and applies it to the root element.
func LoadTheme() string {
	theme := themes.Default
	if storage := js.Global().Get("localStorage"); storage.Truthy() {
		if v := storage.Call("getItem", themes.Key); v.Type() == js.TypeString && v.String() != "" {
			theme = v.String()
		}
	}
	ApplyTheme(theme)
	return theme
}

// SaveTheme stores and applies theme.
func SaveTheme(theme string) {
	if storage := js.Global().Get("localStorage"); storage.Truthy() {
		storage.Call("setItem", themes.Key, theme)
	}
	ApplyTheme(theme)
}

// ApplyTheme sets data-theme on the document element.
func ApplyTheme(theme string) {
	js.Global().Get("document").Get("documentElement").Call("setAttribute", "data-theme", theme)
}
