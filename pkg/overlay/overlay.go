// Package overlay describes the lightbox the gallery re-arms after every
// layout pass.
//
// The engine does not implement the overlay. It only calls an [Activator]
// once geometry is painted, so click targets always match the visible boxes.
package overlay

import (
	"sync"

	"github.com/matzehuels/photogrid/pkg/dom"
)

// Config is passed to the lightbox library.
type Config struct {
	Selector    string `json:"selector"`
	OpenEffect  string `json:"openEffect"`
	CloseEffect string `json:"closeEffect"`
	Width       string `json:"width"`
	Height      string `json:"height"`
}

// Default zooms in, fades out, and sizes slides to their content.
var Default = Config{
	Selector:    "." + dom.LightboxClass,
	OpenEffect:  "zoom",
	CloseEffect: "fade",
	Width:       "auto",
	Height:      "auto",
}

// Activator (re)binds the overlay to the current DOM.
type Activator interface {
	Activate(cfg Config)
}

// Func adapts a function to [Activator].
type Func func(cfg Config)

// Activate calls f.
func (f Func) Activate(cfg Config) { f(cfg) }

// Noop ignores activation.
type Noop struct{}

// Activate does nothing.
func (Noop) Activate(Config) {}

// Recorder counts activations. It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	calls []Config
}

// Activate records cfg.
func (r *Recorder) Activate(cfg Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, cfg)
}

// Count returns the number of activations.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// Last returns the most recent configuration, if any.
func (r *Recorder) Last() (Config, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return Config{}, false
	}
	return r.calls[len(r.calls)-1], true
}
