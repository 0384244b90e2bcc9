//go:build js && wasm

// Package jsdom implements pkg/dom on top of the browser DOM via syscall/js.
//
// It is only built for GOOS=js GOARCH=wasm. The wasm entry point in
// cmd/photogrid-wasm wires a [Document], [AnimationFrames], and [GLightbox]
// into a scheduler.
package jsdom

import (
	"sync"
	"syscall/js"

	"github.com/matzehuels/photogrid/pkg/dom"
)

// Document wraps the page's document object.
type Document struct {
	v js.Value
}

// NewDocument returns the global document.
func NewDocument() *Document {
	return &Document{v: js.Global().Get("document")}
}

// ContainerByID implements [dom.Document].
func (d *Document) ContainerByID(id string) (dom.Container, bool) {
	el := d.v.Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return nil, false
	}
	return &Container{Element: Element{v: el}}, true
}

// Element wraps an HTMLElement.
type Element struct {
	v js.Value
}

// SetStyle implements [dom.Element].
func (e Element) SetStyle(property, value string) {
	e.v.Get("style").Call("setProperty", property, value)
}

// Container wraps the gallery root.
type Container struct {
	Element
}

// ClientWidth implements [dom.Container].
func (c *Container) ClientWidth() float64 {
	return c.v.Get("clientWidth").Float()
}

// Items implements [dom.Container].
func (c *Container) Items() []dom.Element {
	nodes := c.v.Call("querySelectorAll", "."+dom.ItemClass)
	out := make([]dom.Element, nodes.Length())
	for i := range out {
		out[i] = Element{v: nodes.Index(i)}
	}
	return out
}

// Images implements [dom.Container]. Each call attaches fresh load
// listeners to images that have not completed yet.
func (c *Container) Images() []dom.Image {
	nodes := c.v.Call("querySelectorAll", "img")
	out := make([]dom.Image, nodes.Length())
	for i := range out {
		out[i] = watchImage(nodes.Index(i))
	}
	return out
}

// Image wraps an HTMLImageElement.
type Image struct {
	v    js.Value
	done chan struct{}
}

// watchImage closes the image's Done channel on its first load or error
// event, or immediately if it has already completed.
func watchImage(v js.Value) *Image {
	img := &Image{v: v, done: make(chan struct{})}
	if v.Get("complete").Bool() {
		close(img.done)
		return img
	}

	var (
		once          sync.Once
		onLoad, onErr js.Func
	)
	settle := func(js.Value, []js.Value) any {
		once.Do(func() {
			v.Call("removeEventListener", "load", onLoad)
			v.Call("removeEventListener", "error", onErr)
			close(img.done)
			onLoad.Release()
			onErr.Release()
		})
		return nil
	}
	onLoad = js.FuncOf(settle)
	onErr = js.FuncOf(settle)
	v.Call("addEventListener", "load", onLoad)
	v.Call("addEventListener", "error", onErr)
	return img
}

// Done implements [dom.Image].
func (img *Image) Done() <-chan struct{} { return img.done }

// NaturalSize implements [dom.Image].
func (img *Image) NaturalSize() (float64, float64) {
	return img.v.Get("naturalWidth").Float(), img.v.Get("naturalHeight").Float()
}

// RenderedSize implements [dom.Image].
func (img *Image) RenderedSize() (float64, float64) {
	return img.v.Get("width").Float(), img.v.Get("height").Float()
}

var (
	_ dom.Document  = (*Document)(nil)
	_ dom.Container = (*Container)(nil)
	_ dom.Image     = (*Image)(nil)
)
