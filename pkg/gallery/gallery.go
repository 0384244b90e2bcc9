// Package gallery loads gallery content: named collections and the images
// that belong to them.
//
// Content is loaded once, as-is. Image paths are not checked against the
// filesystem here; the prober and HTTP server do that when they need to.
package gallery

import (
	"context"
	"time"
)

// Gallery is the full content document.
type Gallery struct {
	Collections []Collection `yaml:"collections" json:"collections" bson:"collections"`
	Images      []Image      `yaml:"images" json:"images" bson:"images"`
}

// Collection is a named group of images.
type Collection struct {
	ID   string `yaml:"id" json:"id" bson:"id"`
	Name string `yaml:"name" json:"name" bson:"name"`
}

// Image is one gallery entry.
type Image struct {
	Path string `yaml:"path" json:"path" bson:"path"`
	Meta Meta   `yaml:"meta" json:"meta" bson:"meta"`
	Exif *Exif  `yaml:"exif,omitempty" json:"exif,omitempty" bson:"exif,omitempty"`
}

// Meta is the human-written description of an image.
type Meta struct {
	Title       string   `yaml:"title" json:"title" bson:"title"`
	Description string   `yaml:"description" json:"description" bson:"description"`
	Collections []string `yaml:"collections" json:"collections" bson:"collections"`
}

// Exif holds optional camera settings. Every field may be absent.
type Exif struct {
	FocalLength  *float64   `yaml:"focalLength,omitempty" json:"focalLength,omitempty" bson:"focalLength,omitempty"`
	ISO          *int       `yaml:"iso,omitempty" json:"iso,omitempty" bson:"iso,omitempty"`
	FNumber      *float64   `yaml:"fNumber,omitempty" json:"fNumber,omitempty" bson:"fNumber,omitempty"`
	ShutterSpeed *float64   `yaml:"shutterSpeed,omitempty" json:"shutterSpeed,omitempty" bson:"shutterSpeed,omitempty"`
	CaptureDate  *time.Time `yaml:"captureDate,omitempty" json:"captureDate,omitempty" bson:"captureDate,omitempty"`
	Model        string     `yaml:"model,omitempty" json:"model,omitempty" bson:"model,omitempty"`
	LensModel    string     `yaml:"lensModel,omitempty" json:"lensModel,omitempty" bson:"lensModel,omitempty"`
}

// Source loads a gallery.
type Source interface {
	Load(ctx context.Context) (*Gallery, error)
}

// InCollection returns the images that belong to the collection with the
// given id, in document order. An empty id returns every image.
func (g *Gallery) InCollection(id string) []Image {
	if id == "" {
		return g.Images
	}
	var out []Image
	for _, img := range g.Images {
		for _, c := range img.Meta.Collections {
			if c == id {
				out = append(out, img)
				break
			}
		}
	}
	return out
}

// Collection returns the collection with the given id.
func (g *Gallery) Collection(id string) (Collection, bool) {
	for _, c := range g.Collections {
		if c.ID == id {
			return c, true
		}
	}
	return Collection{}, false
}

// Paths returns the image paths in document order.
func Paths(images []Image) []string {
	out := make([]string, len(images))
	for i, img := range images {
		out[i] = img.Path
	}
	return out
}
