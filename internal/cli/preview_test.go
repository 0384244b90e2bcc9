package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/photogrid/pkg/gallery"
	"github.com/matzehuels/photogrid/pkg/justified"
	"github.com/matzehuels/photogrid/pkg/metrics"
)

func TestDrawBoxes(t *testing.T) {
	tests := []struct {
		name  string
		box   justified.Box
		label string
		want  []string
	}{
		{
			name: "two lines has no room for a label",
			box:  justified.Box{Left: 0, Top: 0, Width: 80, Height: 32},
			want: []string{"┌────────┐", "└────────┘"},
		},
		{
			name:  "label on first inner line",
			box:   justified.Box{Left: 0, Top: 0, Width: 80, Height: 48},
			label: "sunset",
			want:  []string{"┌────────┐", "│1 sunset│", "└────────┘"},
		},
		{
			name:  "label truncated to box",
			box:   justified.Box{Left: 0, Top: 0, Width: 48, Height: 48},
			label: "harbour",
			want:  []string{"┌────┐", "│1 ha│", "└────┘"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := drawBoxes([]justified.Box{tt.box}, []string{tt.label}, 12, len(tt.want), pxPerCol, pxPerLine)
			if strings.Join(got, "\n") != strings.Join(tt.want, "\n") {
				t.Errorf("drawBoxes() =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(tt.want, "\n"))
			}
		})
	}
}

func TestDrawBoxesSkipsTinyBoxes(t *testing.T) {
	got := drawBoxes([]justified.Box{{Left: 0, Top: 0, Width: 8, Height: 8}}, nil, 4, 1, pxPerCol, pxPerLine)
	if len(got) != 1 || got[0] != "" {
		t.Errorf("tiny box drew %q", got)
	}
	if drawBoxes(nil, nil, 0, 3, pxPerCol, pxPerLine) != nil {
		t.Error("zero columns should draw nothing")
	}
}

// previewHarness runs a preview model's scheduler and feeds it messages the
// way bubbletea would.
func previewHarness(t *testing.T) previewModel {
	t.Helper()
	images := []gallery.Image{
		{Path: "a.jpg", Meta: gallery.Meta{Title: "A"}},
		{Path: "b.jpg"},
		{Path: "c.jpg"},
	}
	probes := []metrics.Probe{
		{Path: "a.jpg", Size: justified.ImageSize{Width: 1500, Height: 1000}},
		{Path: "b.jpg", Size: justified.ImageSize{Width: 1000, Height: 1000}},
		{Path: "c.jpg", Size: justified.FallbackSize, Fallback: true},
	}
	m := newPreviewModel(images, probes, justified.DefaultConfig(0))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = m.sched.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return m
}

// runCmd runs cmd with a timeout, as the bubbletea runtime would.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- cmd() }()
	select {
	case msg := <-msgs:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("command did not complete")
		return nil
	}
}

func TestPreviewModelFollowsWindowSize(t *testing.T) {
	m := previewHarness(t)
	if got := m.View(); !strings.Contains(got, "Laying out") {
		t.Errorf("view before first pass = %q", got)
	}

	wait := m.Init()
	msg := runCmd(t, wait)
	model, wait := m.Update(msg)
	m = model.(previewModel)
	if !m.ready || m.pass.Width != 800 {
		t.Fatalf("first pass ready=%v width=%v, want 800", m.ready, m.pass.Width)
	}
	if m.pass.Fallbacks != 1 {
		t.Errorf("fallbacks = %d, want 1", m.pass.Fallbacks)
	}
	if labels := m.labels; labels[0] != "A" || labels[1] != "b.jpg" {
		t.Errorf("labels = %v", labels)
	}

	model, _ = m.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	m = model.(previewModel)
	msg = runCmd(t, wait)
	model, _ = m.Update(msg)
	m = model.(previewModel)
	if m.pass.Width != 480 {
		t.Errorf("pass width after resize = %v, want 480", m.pass.Width)
	}
	if m.pass.Trigger != "resize" {
		t.Errorf("trigger = %q, want resize", m.pass.Trigger)
	}

	view := m.View()
	for _, want := range []string{"480px", "┌", "1 A", "1 fallback"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestPreviewModelKeys(t *testing.T) {
	m := previewHarness(t)
	m.lines = 4
	m.ready = true
	m.pass.Result.ContainerHeight = 10 * pxPerLine

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := model.(previewModel).offset; got != 1 {
		t.Errorf("offset after down = %d, want 1", got)
	}
	for i := 0; i < 4; i++ {
		model, _ = model.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	}
	m = model.(previewModel)
	if m.offset != 8 {
		t.Errorf("offset clamps to %d, want 8", m.offset)
	}
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := model.(previewModel).offset; got != 7 {
		t.Errorf("offset after up = %d, want 7", got)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}
