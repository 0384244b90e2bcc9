package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	perrors "github.com/matzehuels/photogrid/pkg/errors"
	"github.com/matzehuels/photogrid/pkg/gallery"
	"github.com/matzehuels/photogrid/pkg/justified"
	"github.com/matzehuels/photogrid/pkg/metrics"
	"github.com/matzehuels/photogrid/pkg/observability"
	"github.com/matzehuels/photogrid/pkg/render"
)

// Runner encapsulates pipeline execution.
// Both CLI and server use it to avoid duplicating stage wiring.
//
// The Runner is stateless except for its source, prober and logger. It
// does not store results, so multiple goroutines can share one Runner with
// different options.
type Runner struct {
	Source gallery.Source
	Prober *metrics.Prober
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger uses log.Default.
func NewRunner(src gallery.Source, prober *metrics.Prober, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Source: src, Prober: prober, Logger: logger}
}

// Execute runs the complete load → probe → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	g, err := r.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Gallery = g
	result.Stats.LoadTime = time.Since(loadStart)

	images, err := SelectImages(g, opts.Collection)
	if err != nil {
		return nil, err
	}
	result.Images = images
	result.Stats.Images = len(images)

	r.Logger.Info("loaded gallery",
		"images", len(images),
		"collection", opts.Collection,
		"duration", result.Stats.LoadTime)

	// Stage 2: Probe
	probeStart := time.Now()
	probes, err := r.Probe(ctx, images)
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}
	result.Probes = probes
	result.Stats.ProbeTime = time.Since(probeStart)
	result.Stats.Fallbacks = metrics.Fallbacks(probes)

	r.Logger.Info("probed images",
		"images", len(probes),
		"fallbacks", result.Stats.Fallbacks,
		"duration", result.Stats.ProbeTime)

	// Stage 3: Layout
	layoutStart := time.Now()
	result.Layout = r.Layout(ctx, images, probes, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Rows = len(result.Layout.Result.Rows())
	result.Stats.Widows = result.Layout.Result.WidowCount

	r.Logger.Info("computed layout",
		"width", opts.Width,
		"rows", result.Stats.Rows,
		"widows", result.Stats.Widows,
		"duration", result.Stats.LayoutTime)

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, err := r.Render(ctx, result.Layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the gallery from the runner's source.
func (r *Runner) Load(ctx context.Context) (*gallery.Gallery, error) {
	if r.Source == nil {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "no gallery source configured")
	}
	name := sourceName(r.Source)
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, name)

	start := time.Now()
	g, err := r.Source.Load(ctx)
	n := 0
	if g != nil {
		n = len(g.Images)
	}
	hooks.OnLoadComplete(ctx, name, n, time.Since(start), err)
	return g, err
}

// SelectImages returns the images in collection, or all images when
// collection is empty. An unknown collection is an error.
func SelectImages(g *gallery.Gallery, collection string) ([]gallery.Image, error) {
	if collection != "" {
		if _, ok := g.Collection(collection); !ok {
			return nil, perrors.New(perrors.ErrCodeNotFound, "collection %q not found", collection)
		}
	}
	return g.InCollection(collection), nil
}

// Probe measures every image. Without a prober every image gets the
// fallback size.
func (r *Runner) Probe(ctx context.Context, images []gallery.Image) ([]metrics.Probe, error) {
	hooks := observability.Pipeline()
	hooks.OnProbeStart(ctx, len(images))
	start := time.Now()

	paths := gallery.Paths(images)
	var (
		probes []metrics.Probe
		err    error
	)
	if r.Prober != nil {
		probes, err = r.Prober.ProbeAll(ctx, paths)
	} else {
		probes = make([]metrics.Probe, len(paths))
		for i, p := range paths {
			probes[i] = metrics.Probe{Path: p, Size: justified.FallbackSize, Fallback: true}
		}
	}

	hooks.OnProbeComplete(ctx, len(images), metrics.Fallbacks(probes), time.Since(start), err)
	return probes, err
}

// Layout packs probed images at opts.Width.
func (r *Runner) Layout(ctx context.Context, images []gallery.Image, probes []metrics.Probe, opts Options) render.Layout {
	opts.SetLayoutDefaults()
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Width, len(probes))
	start := time.Now()

	res := justified.Compute(metrics.Sizes(probes), opts.LayoutConfig())

	hooks.OnLayoutComplete(ctx, opts.Width, time.Since(start))
	r.Logger.Debug("packed rows", "rows", len(res.Rows()), "height", res.ContainerHeight)
	return render.Layout{Width: opts.Width, Result: res, Images: images}
}

// Render writes l in every requested format.
func (r *Runner) Render(ctx context.Context, l render.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	ropts := opts.RenderOptions()

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		hooks.OnRenderStart(ctx, format)
		start := time.Now()
		data, err := render.Render(format, l, ropts)
		hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// Close releases resources held by the runner (primarily the probe cache).
func (r *Runner) Close() error {
	if r.Prober != nil && r.Prober.Cache != nil {
		return r.Prober.Cache.Close()
	}
	return nil
}

func sourceName(src gallery.Source) string {
	if s, ok := src.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", src)
}
