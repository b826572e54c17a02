package core

import "time"

const AVG_COUNT uint8 = 30

// FrameMetrics averages frame rate and frame time over AVG_COUNT frames.
type FrameMetrics struct {
	FrameAVGCounter uint8
	MStimes         [AVG_COUNT]float64
	MSavg           float64
	RateTotal       float64
	FPSvalue        float64
	Frames          uint64
}

func NewFrameMetrics() *FrameMetrics {
	return &FrameMetrics{}
}

func (m *FrameMetrics) Update(frameTime time.Duration) {
	frameMS := float64(frameTime) / float64(time.Millisecond)
	// A frame shorter than the clock resolution counts as one millisecond.
	if frameMS <= 0 {
		frameMS = 1
	}

	m.MStimes[m.FrameAVGCounter] = frameMS
	m.RateTotal += 1000.0 / frameMS
	m.FrameAVGCounter++
	m.Frames++

	if m.FrameAVGCounter == AVG_COUNT {
		var total float64
		for i := uint8(0); i < AVG_COUNT; i++ {
			total += m.MStimes[i]
		}
		m.MSavg = total / float64(AVG_COUNT)
		m.FPSvalue = m.RateTotal / float64(AVG_COUNT)

		m.FrameAVGCounter = 0
		m.RateTotal = 0
	}
}

func (m *FrameMetrics) FPS() float64 {
	return m.FPSvalue
}

func (m *FrameMetrics) FrameTime() float64 {
	return m.MSavg
}

// Frame returns the frame rate and the average frame time in milliseconds.
func (m *FrameMetrics) Frame() (float64, float64) {
	return m.FPSvalue, m.MSavg
}
