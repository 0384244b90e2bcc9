// Package metrics measures image files on the server. A [Prober] reads
// image headers from a filesystem, caching the results, so galleries can be
// laid out before any browser sees them. Unreadable files fall back to
// [justified.FallbackSize] rather than failing the whole probe.
package metrics

import (
	"context"
	"encoding/json"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"io/fs"
	"time"

	"github.com/charmbracelet/log"
	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/photogrid/pkg/cache"
	"github.com/matzehuels/photogrid/pkg/justified"
	"github.com/matzehuels/photogrid/pkg/observability"
)

// DefaultConcurrency bounds how many files ProbeAll opens at once.
const DefaultConcurrency = 8

// Probe is the measured size of one image file.
type Probe struct {
	Path     string              `json:"path"`
	Size     justified.ImageSize `json:"size"`
	Format   string              `json:"format,omitempty"`
	Fallback bool                `json:"fallback,omitempty"`
}

// Prober reads image dimensions from file headers without decoding pixels.
type Prober struct {
	// FS is the image root. Paths passed to Probe are relative to it.
	FS fs.FS

	Cache       cache.Cache // defaults to cache.NullCache
	Keyer       cache.Keyer // defaults to cache.DefaultKeyer
	TTL         time.Duration
	Concurrency int
	Logger      *log.Logger
}

// NewProber returns a prober over fsys with no cache.
func NewProber(fsys fs.FS) *Prober {
	return &Prober{FS: fsys}
}

func (p *Prober) cache() cache.Cache {
	if p.Cache == nil {
		return cache.NewNullCache()
	}
	return p.Cache
}

func (p *Prober) keyer() cache.Keyer {
	if p.Keyer == nil {
		return cache.NewDefaultKeyer()
	}
	return p.Keyer
}

func (p *Prober) logger() *log.Logger {
	if p.Logger == nil {
		return log.New(io.Discard)
	}
	return p.Logger
}

// Probe measures one file. Unreadable or undecodable files get
// [justified.FallbackSize] with Fallback set; only ctx errors are returned.
func (p *Prober) Probe(ctx context.Context, path string) (Probe, error) {
	if err := ctx.Err(); err != nil {
		return Probe{}, err
	}

	info, err := fs.Stat(p.FS, path)
	if err != nil {
		p.logger().Warn("image unavailable, using fallback size", "path", path, "error", err)
		return fallback(path), nil
	}

	key := p.keyer().MetricsKey(path, cache.MetricsKeyOpts{Size: info.Size(), ModTime: info.ModTime()})
	if data, ok, err := p.cache().Get(ctx, key); err == nil && ok {
		var cached Probe
		if json.Unmarshal(data, &cached) == nil {
			observability.Cache().OnCacheHit(ctx, key)
			return cached, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, key)

	res, ok := p.decode(path)
	if !ok {
		return res, nil
	}
	if data, err := json.Marshal(res); err == nil {
		ttl := p.TTL
		if ttl == 0 {
			ttl = cache.TTLMetrics
		}
		if err := p.cache().Set(ctx, key, data, ttl); err != nil {
			p.logger().Debug("metrics cache write failed", "path", path, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, key, len(data))
		}
	}
	return res, nil
}

// decode reads the image header. Failures are not cached.
func (p *Prober) decode(path string) (Probe, bool) {
	f, err := p.FS.Open(path)
	if err != nil {
		p.logger().Warn("image unavailable, using fallback size", "path", path, "error", err)
		return fallback(path), false
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		p.logger().Warn("image header unreadable, using fallback size", "path", path, "error", err)
		return fallback(path), false
	}
	size := justified.ImageSize{Width: float64(cfg.Width), Height: float64(cfg.Height)}
	if !size.Valid() {
		return Probe{Path: path, Size: justified.FallbackSize, Format: format, Fallback: true}, false
	}
	return Probe{Path: path, Size: size, Format: format}, true
}

func fallback(path string) Probe {
	return Probe{Path: path, Size: justified.FallbackSize, Fallback: true}
}

// ProbeAll measures paths concurrently and returns results in input order.
func (p *Prober) ProbeAll(ctx context.Context, paths []string) ([]Probe, error) {
	out := make([]Probe, len(paths))
	limit := p.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		g.Go(func() error {
			res, err := p.Probe(ctx, path)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Sizes extracts the sizes from probes, in order.
func Sizes(probes []Probe) []justified.ImageSize {
	out := make([]justified.ImageSize, len(probes))
	for i, pr := range probes {
		out[i] = pr.Size
	}
	return out
}

// Fallbacks counts probes that used the fallback size.
func Fallbacks(probes []Probe) int {
	n := 0
	for _, pr := range probes {
		if pr.Fallback {
			n++
		}
	}
	return n
}
