// Package profiler reports frame-rate and heap statistics at a fixed
// interval, for keeping an eye on gather-path allocation churn.
package profiler

import (
	"runtime"
	"time"

	"github.com/strata-gfx/strata-go/engine/core"
)

// Profiler tracks frame rate and memory statistics across the render loop.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	interval       time.Duration
	memStats       runtime.MemStats
	lastTotalAlloc uint64
}

// NewProfiler creates a Profiler that reports once per interval. A zero or
// negative interval defaults to one second.
//
// Parameters:
//   - interval: how often to emit a stats line
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		lastTime: time.Now(),
		interval: interval,
	}
}

// Tick records one frame. When the reporting interval has elapsed it logs
// FPS, live heap, allocation rate and GC count, then resets the window.
//
// Returns:
//   - bool: true if stats were logged this tick
func (p *Profiler) Tick() bool {
	p.frameCount++
	now := time.Now()
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.interval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()
	runtime.ReadMemStats(&p.memStats)
	heapMB := float64(p.memStats.Alloc) / 1024 / 1024
	allocRateMB := float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()

	core.LogInfo("fps %.1f, heap %.1f MB, alloc %.2f MB/s, gc %d",
		fps, heapMB, allocRateMB, p.memStats.NumGC)

	p.frameCount = 0
	p.lastTime = now
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
