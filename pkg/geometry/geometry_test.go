package geometry

import (
	"testing"

	"github.com/matzehuels/photogrid/pkg/dom"
	"github.com/matzehuels/photogrid/pkg/dom/memdom"
	"github.com/matzehuels/photogrid/pkg/justified"
)

func TestApply(t *testing.T) {
	item := memdom.NewItem(nil)
	boxes := []justified.Box{{Left: 16, Top: 16, Width: 385.45, Height: 256.97}}

	if got := Apply([]dom.Element{item}, boxes); got != 1 {
		t.Fatalf("Apply() = %d, want 1", got)
	}

	want := map[string]string{
		"position": "absolute",
		"left":     "16px",
		"top":      "16px",
		"width":    "385px",
		"height":   "257px",
		"display":  "block",
	}
	got := item.StyleMap()
	for k, v := range want {
		if got[k] != v {
			t.Errorf("style %s = %q, want %q", k, got[k], v)
		}
	}
}

func TestApplyMismatchedCounts(t *testing.T) {
	a, b, c := memdom.NewItem(nil), memdom.NewItem(nil), memdom.NewItem(nil)
	boxes := []justified.Box{{Width: 10, Height: 10}, {Width: 20, Height: 20}}

	tests := []struct {
		name  string
		slots []dom.Element
		boxes []justified.Box
		want  int
	}{
		{"extra slot", []dom.Element{a, b, c}, boxes, 2},
		{"missing slot", []dom.Element{a}, boxes, 1},
		{"nil slot", []dom.Element{nil, b}, boxes, 1},
		{"no boxes", []dom.Element{a}, nil, 0},
		{"no slots", nil, boxes, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply(tt.slots, tt.boxes); got != tt.want {
				t.Errorf("Apply() = %d, want %d", got, tt.want)
			}
		})
	}

	if c.Writes() != 0 {
		t.Error("extra slot should be left untouched")
	}
}

func TestApplyContainer(t *testing.T) {
	c := memdom.NewContainer(dom.ContainerID, 900)
	ApplyContainer(c, 272.97)
	if got := c.Style("position"); got != "relative" {
		t.Errorf("position = %q, want relative", got)
	}
	if got := c.Style("height"); got != "273px" {
		t.Errorf("height = %q, want 273px", got)
	}

	ApplyContainer(nil, 10)
}
