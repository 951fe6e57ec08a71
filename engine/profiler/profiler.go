package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/frame"
	"github.com/charmbracelet/log"
)

// Profiler tracks frame rate, frame outcomes and memory statistics.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	logger         *log.Logger
	now            func() time.Time
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	lastStats      frame.Stats
}

// Report is one logged sample.
type Report struct {
	FPS         float64
	HeapMB      float64
	AllocRateMB float64
	SysMB       float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64

	// Frames holds the outcome counts since the previous report.
	Frames frame.Stats
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		logger:         log.Default(),
		now:            time.Now,
		updateInterval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	p.logger = p.logger.WithPrefix("profiler")
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame with the renderer's running totals.
// Logs a Report when the update interval has elapsed.
//
// Parameters:
//   - stats: the frame renderer's cumulative outcome counts
//
// Returns:
//   - Report: the sample that was logged, zero when nothing was logged
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(stats frame.Stats) (Report, bool) {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return Report{}, false
	}

	runtime.ReadMemStats(&p.memStats)
	// Alloc is live heap, TotalAlloc only grows and tracks churn, Sys is the process footprint.
	r := Report{
		FPS:         float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:     p.memStats.NumGC,
		Frames: frame.Stats{
			Submitted: stats.Submitted - p.lastStats.Submitted,
			Skipped:   stats.Skipped - p.lastStats.Skipped,
			Dropped:   stats.Dropped - p.lastStats.Dropped,
		},
	}

	gcCount := p.memStats.NumGC
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses.
		r.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > r.MaxPauseUs {
				r.MaxPauseUs = pause
			}
		}
	}

	p.logger.Info("frame stats",
		"fps", r.FPS,
		"submitted", r.Frames.Submitted,
		"skipped", r.Frames.Skipped,
		"dropped", r.Frames.Dropped,
		"heap_mb", r.HeapMB,
		"alloc_mb_s", r.AllocRateMB,
		"gc", r.GCCount,
		"gc_last_us", r.LastPauseUs,
		"gc_max_us", r.MaxPauseUs,
		"sys_mb", r.SysMB,
	)

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.lastStats = stats
	return r, true
}
