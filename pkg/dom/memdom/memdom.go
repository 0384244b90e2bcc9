// Package memdom is an in-memory [dom.Document] for tests and non-browser
// hosts such as the terminal preview.
//
// All types are safe for concurrent use. Images start pending and settle once
// through [Image.Load] or [Image.Fail]; later calls are ignored.
package memdom

import (
	"maps"
	"sync"

	"github.com/matzehuels/photogrid/pkg/dom"
)

// Document is a set of containers keyed by id.
type Document struct {
	mu         sync.RWMutex
	containers map[string]*Container
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{containers: make(map[string]*Container)}
}

// Add registers c under its id, replacing any previous container.
func (d *Document) Add(c *Container) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.containers[c.id] = c
}

// Remove drops the container with the given id.
func (d *Document) Remove(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.containers, id)
}

// ContainerByID implements [dom.Document].
func (d *Document) ContainerByID(id string) (dom.Container, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.containers[id]
	if !ok {
		return nil, false
	}
	return c, true
}

// Styles records inline style writes.
type Styles struct {
	mu     sync.Mutex
	props  map[string]string
	writes int
}

// SetStyle implements [dom.Element].
func (s *Styles) SetStyle(property, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.props == nil {
		s.props = make(map[string]string)
	}
	s.props[property] = value
	s.writes++
}

// Style returns the current value of property, or "".
func (s *Styles) Style(property string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.props[property]
}

// StyleMap returns a copy of all properties set so far.
func (s *Styles) StyleMap() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.props)
}

// Writes returns how many SetStyle calls were made.
func (s *Styles) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Container is an in-memory gallery container.
type Container struct {
	Styles

	id    string
	mu    sync.RWMutex
	width float64
	items []*Item
}

// NewContainer returns a container with the given id and client width.
func NewContainer(id string, width float64) *Container {
	return &Container{id: id, width: width}
}

// ID returns the container id.
func (c *Container) ID() string { return c.id }

// SetWidth changes the client width, as a window resize would.
func (c *Container) SetWidth(w float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width = w
}

// Append adds items in document order.
func (c *Container) Append(items ...*Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, items...)
}

// ClientWidth implements [dom.Container].
func (c *Container) ClientWidth() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.width
}

// Items implements [dom.Container].
func (c *Container) Items() []dom.Element {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]dom.Element, len(c.items))
	for i, it := range c.items {
		out[i] = it
	}
	return out
}

// Images implements [dom.Container]. Items without an image are skipped.
func (c *Container) Images() []dom.Image {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]dom.Image, 0, len(c.items))
	for _, it := range c.items {
		if it.Image != nil {
			out = append(out, it.Image)
		}
	}
	return out
}

// Item returns the i-th item.
func (c *Container) Item(i int) *Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items[i]
}

// Item is a styled element wrapping one image.
type Item struct {
	Styles
	Image *Image
}

// NewItem returns an item wrapping img.
func NewItem(img *Image) *Item {
	return &Item{Image: img}
}

// Image is an in-memory <img>.
type Image struct {
	Src string

	mu        sync.RWMutex
	naturalW  float64
	naturalH  float64
	renderedW float64
	renderedH float64
	done      chan struct{}
	once      sync.Once
	failed    bool
}

// NewImage returns a pending image.
func NewImage(src string) *Image {
	return &Image{Src: src, done: make(chan struct{})}
}

// LoadedImage returns an image that has already loaded with the given size.
func LoadedImage(src string, width, height float64) *Image {
	img := NewImage(src)
	img.Load(width, height)
	return img
}

// Load settles the image with its natural size.
func (img *Image) Load(width, height float64) {
	img.once.Do(func() {
		img.mu.Lock()
		img.naturalW, img.naturalH = width, height
		img.mu.Unlock()
		close(img.done)
	})
}

// Fail settles the image as errored. Its natural size stays zero.
func (img *Image) Fail() {
	img.once.Do(func() {
		img.mu.Lock()
		img.failed = true
		img.mu.Unlock()
		close(img.done)
	})
}

// SetRendered sets the laid-out size reported by RenderedSize.
func (img *Image) SetRendered(width, height float64) {
	img.mu.Lock()
	defer img.mu.Unlock()
	img.renderedW, img.renderedH = width, height
}

// Failed reports whether the image settled through Fail.
func (img *Image) Failed() bool {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.failed
}

// Done implements [dom.Image].
func (img *Image) Done() <-chan struct{} { return img.done }

// NaturalSize implements [dom.Image].
func (img *Image) NaturalSize() (float64, float64) {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.naturalW, img.naturalH
}

// RenderedSize implements [dom.Image].
func (img *Image) RenderedSize() (float64, float64) {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.renderedW, img.renderedH
}

// Gallery builds a container of loaded images, one per size pair.
func Gallery(id string, width float64, sizes ...[2]float64) *Container {
	c := NewContainer(id, width)
	for _, s := range sizes {
		c.Append(NewItem(LoadedImage("", s[0], s[1])))
	}
	return c
}

var (
	_ dom.Document  = (*Document)(nil)
	_ dom.Container = (*Container)(nil)
	_ dom.Element   = (*Item)(nil)
	_ dom.Image     = (*Image)(nil)
)
