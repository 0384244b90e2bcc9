package metrics

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/matzehuels/photogrid/pkg/justified"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// mapCache is an in-memory cache.Cache that counts hits.
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if ok {
		c.hits++
	}
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *mapCache) Close() error { return nil }

func testFS(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"wide.png":   {Data: pngBytes(t, 30, 20)},
		"square.png": {Data: pngBytes(t, 10, 10)},
		"broken.jpg": {Data: []byte("not an image")},
	}
}

func TestProbeReadsHeader(t *testing.T) {
	p := NewProber(testFS(t))
	got, err := p.Probe(context.Background(), "wide.png")
	if err != nil {
		t.Fatal(err)
	}
	want := Probe{Path: "wide.png", Size: justified.ImageSize{Width: 30, Height: 20}, Format: "png"}
	if got != want {
		t.Errorf("Probe() = %+v, want %+v", got, want)
	}
}

func TestProbeFallsBack(t *testing.T) {
	p := NewProber(testFS(t))
	for _, path := range []string{"broken.jpg", "missing.png"} {
		got, err := p.Probe(context.Background(), path)
		if err != nil {
			t.Fatalf("Probe(%q) error = %v", path, err)
		}
		if !got.Fallback || got.Size != justified.FallbackSize {
			t.Errorf("Probe(%q) = %+v, want fallback", path, got)
		}
	}
}

func TestProbeUsesCache(t *testing.T) {
	c := newMapCache()
	p := &Prober{FS: testFS(t), Cache: c}
	ctx := context.Background()

	first, _ := p.Probe(ctx, "square.png")
	second, _ := p.Probe(ctx, "square.png")
	if first != second {
		t.Errorf("cached probe = %+v, want %+v", second, first)
	}
	if c.hits != 1 {
		t.Errorf("cache hits = %d, want 1", c.hits)
	}

	p.Probe(ctx, "broken.jpg")
	if len(c.data) != 1 {
		t.Errorf("cached entries = %d, want 1 (failures are not cached)", len(c.data))
	}
}

func TestProbeAllKeepsOrder(t *testing.T) {
	p := &Prober{FS: testFS(t), Concurrency: 2}
	paths := []string{"square.png", "broken.jpg", "wide.png", "square.png"}
	got, err := p.ProbeAll(context.Background(), paths)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(paths) {
		t.Fatalf("len = %d, want %d", len(got), len(paths))
	}
	for i, pr := range got {
		if pr.Path != paths[i] {
			t.Errorf("probe %d path = %q, want %q", i, pr.Path, paths[i])
		}
	}
	if n := Fallbacks(got); n != 1 {
		t.Errorf("Fallbacks() = %d, want 1", n)
	}
	sizes := Sizes(got)
	if sizes[2] != (justified.ImageSize{Width: 30, Height: 20}) {
		t.Errorf("sizes[2] = %+v", sizes[2])
	}
}

func TestProbeAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewProber(testFS(t))
	if _, err := p.ProbeAll(ctx, []string{"wide.png"}); err == nil {
		t.Error("ProbeAll() with cancelled context should fail")
	}
}
