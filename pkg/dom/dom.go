// Package dom defines the slice of a document object model the gallery
// engine reads and writes.
//
// The engine never talks to a browser directly. It asks a [Document] for the
// gallery [Container], reads its rendered width, waits on each [Image], and
// writes inline styles through [Element.SetStyle]. Implementations live in
// subpackages: memdom (in-memory, used by tests and the terminal preview)
// and jsdom (syscall/js, used by the WebAssembly build).
package dom

import (
	"math"
	"strconv"
)

// Conventions shared between the page markup and the engine.
const (
	// ContainerID is the id of the gallery container element.
	ContainerID = "photo-grid"

	// ItemClass marks each positioned gallery item.
	ItemClass = "photo-item"

	// LightboxClass marks links the overlay binds to.
	LightboxClass = "glightbox"
)

// Element is anything the engine can style.
type Element interface {
	// SetStyle sets one inline CSS property.
	SetStyle(property, value string)
}

// Image is an <img> whose loading the engine waits for.
type Image interface {
	// Done returns a channel that is closed once the image has either
	// loaded or failed. It is never closed twice.
	Done() <-chan struct{}

	// NaturalSize returns the intrinsic pixel size, or zeros if unknown.
	NaturalSize() (width, height float64)

	// RenderedSize returns the laid-out size, or zeros if unknown.
	RenderedSize() (width, height float64)
}

// Container is the gallery root element.
type Container interface {
	Element

	// ClientWidth returns the current rendered inner width in pixels.
	ClientWidth() float64

	// Items returns the elements marked with ItemClass, in document order.
	Items() []Element

	// Images returns every image inside the container, in document order.
	Images() []Image
}

// Document locates containers by id.
type Document interface {
	// ContainerByID returns the container with the given id, if present.
	ContainerByID(id string) (Container, bool)
}

// Px formats v as a whole-pixel CSS length.
func Px(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return strconv.FormatFloat(math.Round(v), 'f', -1, 64) + "px"
}
