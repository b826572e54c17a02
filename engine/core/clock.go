package core

import "time"

// TickSource samples a monotonic clock.
type TickSource func() time.Duration

// MonotonicClock returns a TickSource counting from the moment it was created.
func MonotonicClock() TickSource {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

// FrameTimer measures the time elapsed since the last marked frame.
type FrameTimer struct {
	now     TickSource
	mark    time.Duration
	metrics *FrameMetrics
}

func NewFrameTimer(now TickSource) *FrameTimer {
	if now == nil {
		now = MonotonicClock()
	}
	return &FrameTimer{
		now:     now,
		mark:    now(),
		metrics: NewFrameMetrics(),
	}
}

// MarkFrame starts measuring a new frame. The frame that just ended feeds
// the frame rate average.
func (t *FrameTimer) MarkFrame() {
	current := t.now()
	t.metrics.Update(t.elapsed(current))
	t.mark = current
}

// Reset moves the mark to now without recording a frame, so time spent
// paused or unfocused stays out of the average.
func (t *FrameTimer) Reset() {
	t.mark = t.now()
}

// GetFrameTime returns the time since the last MarkFrame. It never mutates
// the mark.
func (t *FrameTimer) GetFrameTime() time.Duration {
	return t.elapsed(t.now())
}

// FrameRate is the average frame rate over the last completed window.
func (t *FrameTimer) FrameRate() float64 {
	return t.metrics.FPS()
}

func (t *FrameTimer) Metrics() *FrameMetrics {
	return t.metrics
}

func (t *FrameTimer) elapsed(current time.Duration) time.Duration {
	if current < t.mark {
		return 0
	}
	return current - t.mark
}
