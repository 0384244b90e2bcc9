// Package scheduler decides when a gallery is laid out.
//
// A [Scheduler] owns one gallery container. It runs a layout pass when the
// page mounts and again whenever the container's width changes, and paints
// the result through pkg/geometry.
//
// # Event Loop
//
// All scheduler state lives on a single goroutine started by [Scheduler.Run].
// [Scheduler.Mount] and [Scheduler.Resize] may be called from any goroutine;
// they only enqueue work. Waiting for images happens on a helper goroutine
// that posts its result back to the loop, so the loop never blocks.
//
// # Pass Lifecycle
//
//	Idle ──Mount──▶ Measuring ──images settled──▶ LayingOut ──painted──▶ Awaiting
//	                    ▲                                                   │
//	                    └──────────── Resize (width changed) ◀──────────────┘
//
// A pass is skipped when the container is missing, has no items, or has the
// same width (bit for bit) as the last pass. While a pass is in flight,
// further triggers only set a flag; once it paints, one frame is requested
// to re-check the width.
//
// # Resize Coalescing
//
// Resize claims a single pending-frame slot. While the slot is taken, further
// resizes are dropped. The frame callback reads the width when it fires, so
// the pass always uses the latest width. In a browser the [FrameSource] is
// requestAnimationFrame; elsewhere [TimerFrames] approximates it.
package scheduler
