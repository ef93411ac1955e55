package profiler

import (
	"log"
	"runtime"
	"sync/atomic"
	"time"
)

// Profiler tracks render frame rate, capture upload throughput, and memory
// statistics. Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	uploadBytes    atomic.Uint64
	pickCount      atomic.Uint64
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a new Profiler. Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
}

// RecordUpload accumulates bytes uploaded to the capture texture this
// interval. Safe to call from the render goroutine.
//
// Parameters:
//   - bytes: the size of the uploaded frame in bytes
func (p *Profiler) RecordUpload(bytes int) {
	p.uploadBytes.Add(uint64(bytes))
}

// RecordPick counts a successful cursor-to-pixel mapping.
func (p *Profiler) RecordPick() {
	p.pickCount.Add(1)
}

// Tick should be called once per rendered frame. Logs performance statistics
// when the update interval has elapsed: FPS, capture upload rate, pick count,
// heap usage, allocation rate, GC pauses.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()
	uploadRateMB := float64(p.uploadBytes.Swap(0)) / 1024 / 1024 / elapsed.Seconds()
	picks := p.pickCount.Swap(0)

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses.
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	log.Printf("[Profiler] FPS: %.2f | Upload: %.2f MB/s | Picks: %d | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		fps, uploadRateMB, picks, allocMB, allocRateMB, gcCount, lastPauseUs, maxPauseUs, sysMB)

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
