package scheduler

import (
	"context"
	"errors"
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/photogrid/pkg/dom"
	"github.com/matzehuels/photogrid/pkg/geometry"
	"github.com/matzehuels/photogrid/pkg/justified"
	"github.com/matzehuels/photogrid/pkg/measure"
	"github.com/matzehuels/photogrid/pkg/observability"
	"github.com/matzehuels/photogrid/pkg/overlay"
)

// ErrRunning is returned by Run when the loop is already running.
var ErrRunning = errors.New("scheduler: already running")

// DefaultTransition fades the gallery back in after a pass.
const DefaultTransition = "opacity 0.2s ease"

// eventQueueSize bounds events queued before the loop drains them.
const eventQueueSize = 256

// Trigger reasons reported in [Pass] and to hooks.
const (
	TriggerMount  = "mount"
	TriggerResize = "resize"
	TriggerRerun  = "rerun"
)

// State is the scheduler's position in the pass lifecycle.
type State int32

const (
	Idle      State = iota // no pass has run yet
	Measuring              // waiting for images to settle
	LayingOut              // packing and painting
	Awaiting               // painted; waiting for the next trigger
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Measuring:
		return "measuring"
	case LayingOut:
		return "laying-out"
	case Awaiting:
		return "awaiting"
	default:
		return "unknown"
	}
}

// Options configures a Scheduler. Zero fields take defaults.
type Options struct {
	// Document is searched for the gallery container on every trigger.
	Document dom.Document

	// ContainerID defaults to dom.ContainerID.
	ContainerID string

	// Layout holds the packing policy. ContainerWidth is ignored and
	// replaced by the measured width on every pass. A zero Layout uses
	// justified.DefaultConfig.
	Layout justified.Config

	Frames        FrameSource       // defaults to TimerFrames
	Overlay       overlay.Activator // defaults to overlay.Noop
	OverlayConfig overlay.Config    // defaults to overlay.Default
	Transition    string            // defaults to DefaultTransition

	Logger *log.Logger

	// OnSettled is called on the loop goroutine after each painted pass.
	OnSettled func(Pass)
}

func (o *Options) setDefaults() {
	if o.ContainerID == "" {
		o.ContainerID = dom.ContainerID
	}
	if o.Layout == (justified.Config{}) {
		o.Layout = justified.DefaultConfig(0)
	}
	if o.Frames == nil {
		o.Frames = TimerFrames{}
	}
	if o.Overlay == nil {
		o.Overlay = overlay.Noop{}
	}
	if o.OverlayConfig == (overlay.Config{}) {
		o.OverlayConfig = overlay.Default
	}
	if o.Transition == "" {
		o.Transition = DefaultTransition
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// Pass describes one painted layout pass.
type Pass struct {
	Seq       int
	Trigger   string
	Width     float64
	Result    justified.Result
	Fallbacks int           // images that used a fallback dimension
	Wait      time.Duration // time spent waiting for images
	Duration  time.Duration
}

// Stats counts what happened to triggers. Read it with [Scheduler.Stats].
type Stats struct {
	Passes    int64 // painted passes
	Skipped   int64 // unchanged width
	Abandoned int64 // missing container or no items
	Dropped   int64 // resizes that found the frame slot taken
	Deferred  int64 // triggers that arrived during a pass
}

// Scheduler runs layout passes for one gallery container.
type Scheduler struct {
	id         string
	opts       Options
	logger     *log.Logger
	eventQueue chan func()
	done       chan struct{}
	running    atomic.Bool

	// framePending is claimed by Resize on the caller's goroutine and
	// released by the frame callback on the loop.
	framePending atomic.Bool
	state        atomic.Int32

	passes, skipped, abandoned, dropped, deferred atomic.Int64

	// Loop-owned.
	ctx       context.Context
	lastWidth float64
	hasWidth  bool
	inFlight  bool
	rerun     bool
	seq       int
}

// New returns a scheduler. Call Run to start its loop.
func New(opts Options) *Scheduler {
	opts.setDefaults()
	id := uuid.NewString()
	return &Scheduler{
		id:         id,
		opts:       opts,
		logger:     opts.Logger.With("gallery", id[:8]),
		eventQueue: make(chan func(), eventQueueSize),
		done:       make(chan struct{}),
	}
}

// ID returns the scheduler's unique identifier, used in logs and hooks.
func (s *Scheduler) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Scheduler) State() State { return State(s.state.Load()) }

// Stats returns a snapshot of the trigger counters.
func (s *Scheduler) Stats() Stats {
	return Stats{
		Passes:    s.passes.Load(),
		Skipped:   s.skipped.Load(),
		Abandoned: s.abandoned.Load(),
		Dropped:   s.dropped.Load(),
		Deferred:  s.deferred.Load(),
	}
}

// Run drains the event queue until ctx is done. A pass waiting on images
// when ctx ends is discarded without painting.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer close(s.done)
	s.ctx = ctx

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-s.eventQueue:
			fn()
		}
	}
}

// Mount signals that the gallery markup is ready. It runs a pass right away
// rather than waiting for a frame.
func (s *Scheduler) Mount() {
	s.post(func() { s.trigger(TriggerMount) })
}

// Resize signals that the window may have changed size. At most one frame is
// pending at a time; a resize that finds one pending is dropped.
func (s *Scheduler) Resize() {
	s.requestFrame(TriggerResize)
}

// Invalidate forgets the last width and requests a frame, forcing a pass at
// the current width. Use it after the container's items change.
func (s *Scheduler) Invalidate() {
	s.post(func() {
		s.hasWidth = false
		s.requestFrame(TriggerResize)
	})
}

// post enqueues fn on the loop. It returns false once the loop has exited.
func (s *Scheduler) post(fn func()) bool {
	select {
	case s.eventQueue <- fn:
		return true
	case <-s.done:
		return false
	}
}

func (s *Scheduler) requestFrame(reason string) {
	if !s.framePending.CompareAndSwap(false, true) {
		s.dropped.Add(1)
		observability.Scheduler().OnResizeDropped(context.Background(), s.id)
		return
	}
	s.opts.Frames.RequestFrame(func() {
		s.post(func() {
			s.framePending.Store(false)
			s.trigger(reason)
		})
	})
}

// trigger starts a pass if one is warranted. Loop only.
func (s *Scheduler) trigger(reason string) {
	if s.inFlight {
		s.rerun = true
		s.deferred.Add(1)
		return
	}

	c, ok := s.opts.Document.ContainerByID(s.opts.ContainerID)
	if !ok {
		s.abandon(reason, "no-container")
		return
	}

	width := c.ClientWidth()
	if s.hasWidth && math.Float64bits(width) == math.Float64bits(s.lastWidth) {
		s.skipped.Add(1)
		observability.Scheduler().OnPassSkipped(s.ctx, s.id, "unchanged-width")
		return
	}

	items := c.Items()
	if len(items) == 0 {
		s.abandon(reason, "no-items")
		return
	}

	s.lastWidth, s.hasWidth = width, true
	s.inFlight = true
	s.seq++
	s.state.Store(int32(Measuring))
	c.SetStyle("opacity", "0")

	p := &pending{
		seq:       s.seq,
		trigger:   reason,
		width:     width,
		container: c,
		items:     items,
		images:    c.Images(),
		start:     time.Now(),
	}
	s.logger.Debug("layout pass", "seq", p.seq, "trigger", reason, "width", width, "items", len(items))
	observability.Scheduler().OnPassStart(s.ctx, s.id, width, len(items))

	ctx := s.ctx
	go func() {
		sizes, err := measure.Collect(ctx, p.images)
		fallbacks := measure.CountFallbacks(p.images)
		s.post(func() { s.paint(p, sizes, fallbacks, err) })
	}()
}

func (s *Scheduler) abandon(reason, why string) {
	s.abandoned.Add(1)
	s.logger.Debug("layout pass abandoned", "trigger", reason, "reason", why)
	observability.Scheduler().OnPassSkipped(s.ctx, s.id, why)
}

// pending carries one in-flight pass from trigger to paint.
type pending struct {
	seq       int
	trigger   string
	width     float64
	container dom.Container
	items     []dom.Element
	images    []dom.Image
	start     time.Time
}

// paint packs and applies a pass once its images have settled. Loop only.
func (s *Scheduler) paint(p *pending, sizes []justified.ImageSize, fallbacks int, err error) {
	s.inFlight = false
	if err != nil {
		s.state.Store(int32(Awaiting))
		return
	}
	waited := time.Since(p.start)

	s.state.Store(int32(LayingOut))
	cfg := s.opts.Layout
	cfg.ContainerWidth = p.width
	res := justified.Compute(sizes, cfg)

	geometry.Apply(p.items, res.Boxes)
	geometry.ApplyContainer(p.container, res.ContainerHeight)
	p.container.SetStyle("transition", s.opts.Transition)
	p.container.SetStyle("opacity", "1")
	s.opts.Overlay.Activate(s.opts.OverlayConfig)
	s.state.Store(int32(Awaiting))

	pass := Pass{
		Seq:       p.seq,
		Trigger:   p.trigger,
		Width:     p.width,
		Result:    res,
		Fallbacks: fallbacks,
		Wait:      waited,
		Duration:  time.Since(p.start),
	}
	s.passes.Add(1)
	rows := len(res.Rows())
	s.logger.Debug("layout painted", "seq", pass.Seq, "rows", rows, "widows", res.WidowCount,
		"height", math.Round(res.ContainerHeight), "fallbacks", fallbacks, "took", pass.Duration)
	observability.Scheduler().OnPassComplete(s.ctx, s.id, observability.PassStats{
		Trigger:   pass.Trigger,
		Width:     pass.Width,
		Items:     len(p.items),
		Rows:      rows,
		Widows:    res.WidowCount,
		Fallbacks: fallbacks,
		Height:    res.ContainerHeight,
		WaitTime:  pass.Wait,
		TotalTime: pass.Duration,
	})
	if s.opts.OnSettled != nil {
		s.opts.OnSettled(pass)
	}

	if s.rerun {
		s.rerun = false
		s.requestFrame(TriggerRerun)
	}
}
