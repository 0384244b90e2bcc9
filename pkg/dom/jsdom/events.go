//go:build js && wasm

package jsdom

import "syscall/js"

// AnimationFrames schedules callbacks with requestAnimationFrame.
type AnimationFrames struct{}

// RequestFrame implements scheduler.FrameSource.
func (AnimationFrames) RequestFrame(fn func()) {
	var cb js.Func
	cb = js.FuncOf(func(js.Value, []js.Value) any {
		cb.Release()
		fn()
		return nil
	})
	js.Global().Call("requestAnimationFrame", cb)
}

// OnReady calls fn once the document has been parsed. If it already has,
// fn runs on the next task.
func OnReady(fn func()) {
	doc := js.Global().Get("document")
	if doc.Get("readyState").String() != "loading" {
		go fn()
		return
	}
	var cb js.Func
	cb = js.FuncOf(func(js.Value, []js.Value) any {
		cb.Release()
		fn()
		return nil
	})
	doc.Call("addEventListener", "DOMContentLoaded", cb)
}

// OnResize calls fn on every window resize and returns a function that
// removes the listener.
func OnResize(fn func()) (stop func()) {
	cb := js.FuncOf(func(js.Value, []js.Value) any {
		fn()
		return nil
	})
	win := js.Global().Get("window")
	win.Call("addEventListener", "resize", cb)
	return func() {
		win.Call("removeEventListener", "resize", cb)
		cb.Release()
	}
}
