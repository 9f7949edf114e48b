package app

import (
	"sync/atomic"
	"time"

	"github.com/dshills/chatterm/internal/renderer/layout"
)

// Metrics tracks frame and input timing of the interactive loop.
type Metrics struct {
	frameCount   atomic.Uint64
	frameTotalNs atomic.Int64
	frameMinNs   atomic.Int64
	frameMaxNs   atomic.Int64
	lastFrameNs  atomic.Int64
	frameErrors  atomic.Uint64

	inputCount   atomic.Uint64
	inputTotalNs atomic.Int64

	messages atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{startTime: time.Now()}
	m.frameMinNs.Store(1<<63 - 1)
	return m
}

// RecordFrame records how long one redraw took.
func (m *Metrics) RecordFrame(d time.Duration) {
	ns := d.Nanoseconds()
	m.frameCount.Add(1)
	m.frameTotalNs.Add(ns)
	m.lastFrameNs.Store(ns)

	for {
		old := m.frameMinNs.Load()
		if ns >= old || m.frameMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.frameMaxNs.Load()
		if ns <= old || m.frameMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordFrameError counts a redraw aborted by a layout or canvas error.
func (m *Metrics) RecordFrameError() {
	m.frameErrors.Add(1)
}

// RecordInput records how long handling one terminal event took.
func (m *Metrics) RecordInput(d time.Duration) {
	m.inputCount.Add(1)
	m.inputTotalNs.Add(d.Nanoseconds())
}

// RecordMessage counts a message added to the transcript.
func (m *Metrics) RecordMessage() {
	m.messages.Add(1)
}

// Snapshot returns a point-in-time copy. cache may be nil.
func (m *Metrics) Snapshot(cache *layout.Cache) MetricsSnapshot {
	s := MetricsSnapshot{
		Uptime:         time.Since(m.startTime),
		FrameCount:     m.frameCount.Load(),
		MinFrameTimeNs: m.frameMinNs.Load(),
		MaxFrameTimeNs: m.frameMaxNs.Load(),
		LastFrameNs:    m.lastFrameNs.Load(),
		FrameErrors:    m.frameErrors.Load(),
		InputCount:     m.inputCount.Load(),
		Messages:       m.messages.Load(),
	}
	if s.FrameCount > 0 {
		s.AvgFrameTimeNs = m.frameTotalNs.Load() / int64(s.FrameCount)
	}
	if s.InputCount > 0 {
		s.AvgInputTimeNs = m.inputTotalNs.Load() / int64(s.InputCount)
	}
	if s.MinFrameTimeNs == 1<<63-1 {
		s.MinFrameTimeNs = 0
	}
	if cache != nil {
		s.Layout = cache.Stats()
	}
	return s
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime         time.Duration
	FrameCount     uint64
	AvgFrameTimeNs int64
	MinFrameTimeNs int64
	MaxFrameTimeNs int64
	LastFrameNs    int64
	FrameErrors    uint64
	InputCount     uint64
	AvgInputTimeNs int64
	Messages       uint64
	Layout         layout.CacheStats
}

// AvgFPS returns the average redraw rate.
func (s MetricsSnapshot) AvgFPS() float64 {
	if s.AvgFrameTimeNs == 0 {
		return 0
	}
	return 1e9 / float64(s.AvgFrameTimeNs)
}

// Timer measures elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer starts a timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
