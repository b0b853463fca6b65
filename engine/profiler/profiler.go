package profiler

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-fields/common"
)

// Stats is a snapshot of the work a Profiler has recorded since it was created.
type Stats struct {
	Compiles      int
	CompileTime   time.Duration
	MaxCompile    time.Duration
	Uploads       int
	UploadedBytes uint64
}

// Profiler tracks material compile and component upload statistics for performance monitoring.
// Outputs stats to the log at a configurable interval. It is safe for concurrent use.
type Profiler struct {
	mu             sync.Mutex
	stats          Stats
	lastTime       time.Time
	updateInterval time.Duration
	lastCompiles   int
	lastUploads    int
	memStats       runtime.MemStats
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
}

// SetInterval changes how often Tick logs. Non-positive intervals log on every Tick.
//
// Parameters:
//   - interval: the new update interval
func (p *Profiler) SetInterval(interval time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updateInterval = interval
}

// RecordCompile records one material compile that took d.
//
// Parameters:
//   - d: the compile duration
func (p *Profiler) RecordCompile(d time.Duration) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.Compiles++
	p.stats.CompileTime += d
	if d > p.stats.MaxCompile {
		p.stats.MaxCompile = d
	}
}

// RecordUpload records one component upload of n bytes.
//
// Parameters:
//   - n: the number of bytes uploaded
func (p *Profiler) RecordUpload(n uint64) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.Uploads++
	p.stats.UploadedBytes += n
}

// Stats returns a snapshot of the recorded statistics.
//
// Returns:
//   - Stats: the current statistics
func (p *Profiler) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Tick logs the compile and upload activity since the previous log once the update interval
// has elapsed. Statistics include: compiles and uploads since the last log, mean and max
// compile time, total uploaded bytes, and heap usage.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	var meanCompile time.Duration
	if p.stats.Compiles > 0 {
		meanCompile = p.stats.CompileTime / time.Duration(p.stats.Compiles)
	}

	runtime.ReadMemStats(&p.memStats)
	heapMB := float64(p.memStats.Alloc) / 1024 / 1024

	common.Logger().Info("profiler",
		"compiles", p.stats.Compiles-p.lastCompiles,
		"uploads", p.stats.Uploads-p.lastUploads,
		"mean_compile", meanCompile,
		"max_compile", p.stats.MaxCompile,
		"uploaded_bytes", p.stats.UploadedBytes,
		"heap_mb", heapMB,
	)

	p.lastTime = currentTime
	p.lastCompiles = p.stats.Compiles
	p.lastUploads = p.stats.Uploads
	return true
}
