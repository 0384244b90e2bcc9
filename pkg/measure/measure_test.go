package measure

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matzehuels/photogrid/pkg/dom"
	"github.com/matzehuels/photogrid/pkg/dom/memdom"
	"github.com/matzehuels/photogrid/pkg/justified"
)

func TestSize(t *testing.T) {
	tests := []struct {
		name         string
		natural      [2]float64
		rendered     [2]float64
		want         justified.ImageSize
		wantFallback bool
	}{
		{"natural", [2]float64{1500, 1000}, [2]float64{300, 200}, justified.ImageSize{Width: 1500, Height: 1000}, false},
		{"rendered", [2]float64{0, 0}, [2]float64{640, 480}, justified.ImageSize{Width: 640, Height: 480}, false},
		{"fallback", [2]float64{0, 0}, [2]float64{0, 0}, justified.ImageSize{Width: 300, Height: 200}, true},
		{"mixed", [2]float64{800, 0}, [2]float64{0, 0}, justified.ImageSize{Width: 800, Height: 200}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := memdom.LoadedImage("x", tt.natural[0], tt.natural[1])
			img.SetRendered(tt.rendered[0], tt.rendered[1])
			got, fb := Size(img)
			if got != tt.want {
				t.Errorf("Size() = %v, want %v", got, tt.want)
			}
			if fb != tt.wantFallback {
				t.Errorf("fallback = %v, want %v", fb, tt.wantFallback)
			}
		})
	}
}

func TestCollectWaitsForAllImages(t *testing.T) {
	a := memdom.NewImage("a")
	b := memdom.NewImage("b")
	images := []dom.Image{a, b}

	done := make(chan []justified.ImageSize, 1)
	go func() {
		sizes, err := Collect(context.Background(), images)
		if err != nil {
			t.Errorf("Collect() error = %v", err)
		}
		done <- sizes
	}()

	a.Load(1500, 1000)
	select {
	case <-done:
		t.Fatal("Collect returned before every image settled")
	case <-time.After(20 * time.Millisecond):
	}

	b.Fail()
	select {
	case sizes := <-done:
		want := []justified.ImageSize{{Width: 1500, Height: 1000}, justified.FallbackSize}
		if len(sizes) != 2 || sizes[0] != want[0] || sizes[1] != want[1] {
			t.Errorf("Collect() = %v, want %v", sizes, want)
		}
	case <-time.After(time.Second):
		t.Fatal("Collect did not return after all images settled")
	}
}

func TestCollectFailedImageUsesFallbackAspect(t *testing.T) {
	img := memdom.NewImage("broken")
	img.Fail()
	sizes, err := Collect(context.Background(), []dom.Image{img})
	if err != nil {
		t.Fatal(err)
	}
	if got := sizes[0].AspectRatio(); got != 1.5 {
		t.Errorf("aspect = %v, want 1.5", got)
	}
}

func TestCollectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Collect(ctx, []dom.Image{memdom.NewImage("never")})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Collect() error = %v, want context.Canceled", err)
	}
}

func TestCollectEmpty(t *testing.T) {
	sizes, err := Collect(context.Background(), nil)
	if err != nil || len(sizes) != 0 {
		t.Errorf("Collect(nil) = %v, %v, want empty", sizes, err)
	}
}

func TestCountFallbacks(t *testing.T) {
	broken := memdom.NewImage("broken")
	broken.Fail()
	images := []dom.Image{memdom.LoadedImage("ok", 10, 10), broken}
	if got := CountFallbacks(images); got != 1 {
		t.Errorf("CountFallbacks() = %d, want 1", got)
	}
}
