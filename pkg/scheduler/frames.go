package scheduler

import "time"

// FrameSource schedules a callback before the next repaint.
type FrameSource interface {
	// RequestFrame arranges for fn to be called once. It must not call fn
	// synchronously.
	RequestFrame(fn func())
}

// FrameFunc adapts a function to [FrameSource].
type FrameFunc func(fn func())

// RequestFrame calls f.
func (f FrameFunc) RequestFrame(fn func()) { f(fn) }

// DefaultFrameInterval approximates a 60 Hz display.
const DefaultFrameInterval = 16 * time.Millisecond

// TimerFrames fires callbacks after a fixed interval.
type TimerFrames struct {
	Interval time.Duration
}

// RequestFrame implements [FrameSource].
func (t TimerFrames) RequestFrame(fn func()) {
	d := t.Interval
	if d <= 0 {
		d = DefaultFrameInterval
	}
	time.AfterFunc(d, fn)
}
