// Package pipeline runs the server-side gallery pipeline for photogrid.
//
// The browser lays a gallery out from live image elements. The pipeline
// does the same work ahead of time, for a known width, so the CLI can write
// static pages and the HTTP server can send a pre-laid page.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: read gallery content from a [gallery.Source]
//  2. Probe: read each image's dimensions from its file header
//  3. Layout: pack the images with [justified.Compute]
//  4. Render: write the layout as JSON, HTML or SVG
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(gallery.FileSource{Path: "gallery.yaml"}, prober, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Width:   1200,
//	    Formats: []string{"html"},
//	})
//	page := result.Artifacts["html"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	perrors "github.com/matzehuels/photogrid/pkg/errors"
	"github.com/matzehuels/photogrid/pkg/gallery"
	"github.com/matzehuels/photogrid/pkg/justified"
	"github.com/matzehuels/photogrid/pkg/metrics"
	"github.com/matzehuels/photogrid/pkg/overlay"
	"github.com/matzehuels/photogrid/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// DefaultWidth is the container width pages are pre-laid at when the
// caller does not know the viewport.
const DefaultWidth = 1200.0

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = render.FormatHTML

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Content options
	Collection string `json:"collection,omitempty"`

	// Layout options
	Width  float64          `json:"width,omitempty"`
	Layout justified.Config `json:"layout,omitempty"` // ContainerWidth is replaced by Width

	// Render options
	Formats   []string       `json:"formats,omitempty"`
	Theme     string         `json:"theme,omitempty"`
	Title     string         `json:"title,omitempty"`
	ImageBase string         `json:"image_base,omitempty"`
	Lightbox  overlay.Config `json:"lightbox,omitempty"`
	Labels    bool           `json:"labels,omitempty"` // label SVG boxes
	Scripts   []string       `json:"-"`
	Styles    []string       `json:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Gallery is the loaded content.
	Gallery *gallery.Gallery

	// Images are the images laid out, after collection filtering.
	Images []gallery.Image

	// Probes are index-aligned with Images.
	Probes []metrics.Probe

	// Layout is the computed layout.
	Layout render.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Images     int
	Rows       int
	Widows     int
	Fallbacks  int
	LoadTime   time.Duration
	ProbeTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full
// pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Layout == (justified.Config{}) {
		o.Layout = justified.DefaultConfig(0)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := perrors.ValidateWidth(o.Width); err != nil {
		return err
	}
	if o.Collection != "" {
		if err := perrors.ValidateIdentifier("collection", o.Collection); err != nil {
			return err
		}
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Lightbox == (overlay.Config{}) {
		o.Lightbox = overlay.Default
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	for _, f := range o.Formats {
		if err := perrors.ValidateFormat(f, render.Formats...); err != nil {
			return err
		}
	}
	if o.Theme != "" {
		if err := perrors.ValidateThemeID(o.Theme); err != nil {
			return err
		}
	}
	return nil
}

// LayoutConfig returns the packing configuration for Width.
func (o *Options) LayoutConfig() justified.Config {
	cfg := o.Layout
	if cfg == (justified.Config{}) {
		cfg = justified.DefaultConfig(0)
	}
	cfg.ContainerWidth = o.Width
	return cfg
}

// RenderOptions returns the renderer options for this run.
func (o *Options) RenderOptions() render.Options {
	var html []render.HTMLOption
	if o.Title != "" {
		html = append(html, render.WithTitle(o.Title))
	}
	if o.Theme != "" {
		html = append(html, render.WithTheme(o.Theme))
	}
	if o.ImageBase != "" {
		html = append(html, render.WithImageBase(o.ImageBase))
	}
	html = append(html, render.WithLightbox(o.Lightbox))
	for _, s := range o.Styles {
		html = append(html, render.WithStylesheet(s))
	}
	for _, s := range o.Scripts {
		html = append(html, render.WithScript(s))
	}

	var svg []render.SVGOption
	if o.Labels {
		svg = append(svg, render.WithLabels())
	}
	return render.Options{HTML: html, SVG: svg}
}

func (o *Options) String() string {
	return fmt.Sprintf("width=%v collection=%q formats=%v", o.Width, o.Collection, o.Formats)
}
