package cli

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/photogrid/pkg/dom"
	"github.com/matzehuels/photogrid/pkg/dom/memdom"
	"github.com/matzehuels/photogrid/pkg/gallery"
	"github.com/matzehuels/photogrid/pkg/justified"
	"github.com/matzehuels/photogrid/pkg/metrics"
	"github.com/matzehuels/photogrid/pkg/pipeline"
	"github.com/matzehuels/photogrid/pkg/scheduler"
)

// One terminal cell stands for this many CSS pixels. Cells are roughly
// twice as tall as they are wide.
const (
	pxPerCol  = 8.0
	pxPerLine = 16.0
)

// Preview styles
var (
	previewHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	previewGridStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	previewFooterStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// previewCommand creates the interactive terminal preview.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		collection string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview the responsive layout in the terminal",
		Long: `Preview the responsive layout in the terminal.

The gallery is laid out by the same scheduler the browser bundle runs, with
the terminal standing in for the window: resizing the terminal re-lays the
grid, one cell per 8 pixels across.

Keys: ↑/↓ scroll, r re-lay at the same width, q quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), collection, noCache)
		},
	}

	cmd.Flags().StringVarP(&collection, "collection", "c", "", "only preview images in this collection")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "probe every image instead of using cached dimensions")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, collection string, noCache bool) error {
	runner, cleanup, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer cleanup()

	spinner := newSpinnerWithContext(ctx, "Loading gallery...")
	spinner.Start()
	images, probes, err := loadProbed(ctx, runner, collection)
	if err != nil {
		spinner.StopWithError("Load failed")
		return err
	}
	spinner.Stop()
	if len(images) == 0 {
		printWarning("Gallery has no images")
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newPreviewModel(images, probes, c.config().Layout)
	go func() {
		if err := m.sched.Run(ctx); err != nil {
			loggerFromContext(ctx).Debug("scheduler stopped", "error", err)
		}
	}()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("preview: %w", err)
	}
	return ctx.Err()
}

func loadProbed(ctx context.Context, runner *pipeline.Runner, collection string) ([]gallery.Image, []metrics.Probe, error) {
	g, err := runner.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	images, err := pipeline.SelectImages(g, collection)
	if err != nil {
		return nil, nil, err
	}
	probes, err := runner.Probe(ctx, images)
	if err != nil {
		return nil, nil, err
	}
	return images, probes, nil
}

// =============================================================================
// previewModel - Terminal window driving the layout scheduler
// =============================================================================

// passMsg delivers a settled layout pass to the model.
type passMsg scheduler.Pass

// previewModel is the bubbletea model for the preview. The terminal window
// plays the browser viewport: size changes set the in-memory container's
// width and signal a resize to the scheduler.
type previewModel struct {
	container *memdom.Container
	sched     *scheduler.Scheduler
	passes    chan scheduler.Pass
	labels    []string

	pass   scheduler.Pass
	ready  bool
	cols   int
	lines  int
	offset int
}

// newPreviewModel builds an in-memory gallery from probed sizes. Images
// that could not be probed fail to load, so the scheduler applies the same
// fallback the browser would.
func newPreviewModel(images []gallery.Image, probes []metrics.Probe, layout justified.Config) previewModel {
	const initialCols = 100

	doc := memdom.NewDocument()
	container := memdom.NewContainer(dom.ContainerID, initialCols*pxPerCol)
	labels := make([]string, len(probes))
	for i, p := range probes {
		img := memdom.NewImage(p.Path)
		if p.Fallback {
			img.Fail()
		} else {
			img.Load(p.Size.Width, p.Size.Height)
		}
		container.Append(memdom.NewItem(img))

		labels[i] = p.Path
		if i < len(images) && images[i].Meta.Title != "" {
			labels[i] = images[i].Meta.Title
		}
	}
	doc.Add(container)

	passes := make(chan scheduler.Pass, 1)
	sched := scheduler.New(scheduler.Options{
		Document: doc,
		Layout:   layout,
		OnSettled: func(p scheduler.Pass) {
			// Only the latest pass matters; drop one the model has not read.
			select {
			case <-passes:
			default:
			}
			passes <- p
		},
	})

	return previewModel{
		container: container,
		sched:     sched,
		passes:    passes,
		labels:    labels,
		cols:      initialCols,
	}
}

func waitForPass(ch <-chan scheduler.Pass) tea.Cmd {
	return func() tea.Msg {
		return passMsg(<-ch)
	}
}

func (m previewModel) Init() tea.Cmd {
	m.sched.Mount()
	return waitForPass(m.passes)
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols, m.lines = msg.Width, msg.Height
		m.container.SetWidth(float64(msg.Width) * pxPerCol)
		m.sched.Resize()
	case passMsg:
		m.pass = scheduler.Pass(msg)
		m.ready = true
		m.offset = m.clampOffset(m.offset)
		return m, waitForPass(m.passes)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.offset = m.clampOffset(m.offset - 1)
		case "down", "j":
			m.offset = m.clampOffset(m.offset + 1)
		case "pgup":
			m.offset = m.clampOffset(m.offset - m.viewLines())
		case "pgdown", " ":
			m.offset = m.clampOffset(m.offset + m.viewLines())
		case "r":
			m.sched.Invalidate()
		}
	}
	return m, nil
}

// viewLines is the number of grid lines that fit between header and footer.
func (m previewModel) viewLines() int {
	if m.lines <= 2 {
		return 1
	}
	return m.lines - 2
}

func (m previewModel) gridLines() int {
	return int(math.Ceil(m.pass.Result.ContainerHeight / pxPerLine))
}

func (m previewModel) clampOffset(off int) int {
	maxOff := m.gridLines() - m.viewLines()
	if off > maxOff {
		off = maxOff
	}
	if off < 0 {
		off = 0
	}
	return off
}

func (m previewModel) View() string {
	if !m.ready {
		return StyleDim.Render("Laying out...")
	}

	var b strings.Builder
	p := m.pass
	b.WriteString(previewHeaderStyle.Render(fmt.Sprintf("photogrid · %.0fpx", p.Width)))
	b.WriteString("\n")

	grid := drawBoxes(p.Result.Boxes, m.labels, m.cols, m.gridLines(), pxPerCol, pxPerLine)
	end := m.offset + m.viewLines()
	if end > len(grid) {
		end = len(grid)
	}
	b.WriteString(previewGridStyle.Render(strings.Join(grid[m.offset:end], "\n")))
	b.WriteString("\n")

	status := fmt.Sprintf("pass %d (%s) · %d rows · %.0fpx tall",
		p.Seq, p.Trigger, len(p.Result.Rows()), p.Result.ContainerHeight)
	if p.Result.WidowCount > 0 {
		status += " · widow"
	}
	if p.Fallbacks > 0 {
		status += fmt.Sprintf(" · %d fallback", p.Fallbacks)
	}
	status += " · ↑/↓ scroll · r relayout · q quit"
	b.WriteString(previewFooterStyle.Render(status))
	return b.String()
}

// drawBoxes rasterises boxes onto a character grid of cols × lines cells,
// scaling pixels by scaleX and scaleY. Each box gets a light border with its
// 1-based index and label on the first inner line.
func drawBoxes(boxes []justified.Box, labels []string, cols, lines int, scaleX, scaleY float64) []string {
	if cols <= 0 || lines <= 0 {
		return nil
	}
	grid := make([][]rune, lines)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", cols))
	}
	set := func(y, x int, r rune) {
		if y >= 0 && y < lines && x >= 0 && x < cols {
			grid[y][x] = r
		}
	}

	for i, b := range boxes {
		x0 := int(math.Round(b.Left / scaleX))
		x1 := int(math.Round(b.Right()/scaleX)) - 1
		y0 := int(math.Round(b.Top / scaleY))
		y1 := int(math.Round(b.Bottom()/scaleY)) - 1
		if x1 <= x0 || y1 <= y0 {
			continue
		}
		for x := x0 + 1; x < x1; x++ {
			set(y0, x, '─')
			set(y1, x, '─')
		}
		for y := y0 + 1; y < y1; y++ {
			set(y, x0, '│')
			set(y, x1, '│')
		}
		set(y0, x0, '┌')
		set(y0, x1, '┐')
		set(y1, x0, '└')
		set(y1, x1, '┘')

		if y0+1 >= y1 {
			continue
		}
		label := fmt.Sprintf("%d", i+1)
		if i < len(labels) && labels[i] != "" {
			label += " " + labels[i]
		}
		room := x1 - x0 - 1
		for j, r := range []rune(label) {
			if j >= room {
				break
			}
			set(y0+1, x0+1+j, r)
		}
	}

	rendered := make([]string, lines)
	for i, row := range grid {
		rendered[i] = strings.TrimRight(string(row), " ")
	}
	return rendered
}
