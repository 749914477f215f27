package monitoring

import (
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultInterval is the progress check interval used when none is configured
const DefaultInterval = time.Second

// Counter reports how far a batch has progressed. *batch.Runner satisfies it.
type Counter interface {
	Played() int64
	Total() int64
}

// ProgressMonitor periodically samples a Counter and logs throughput
type ProgressMonitor struct {
	mu            sync.RWMutex
	counter       Counter
	checkInterval time.Duration
	started       time.Time
	lastCheck     time.Time
	lastPlayed    int64
	metrics       ProgressMetrics
	onTick        func(ProgressMetrics)
	level         zerolog.Level
	stopChan      chan struct{}
	doneChan      chan struct{}
	stopOnce      sync.Once
	logger        zerolog.Logger
}

// ProgressMetrics is a snapshot of batch progress
type ProgressMetrics struct {
	Played      int64         `json:"played"`
	Total       int64         `json:"total"`
	Percent     float64       `json:"percent"`
	GamesPerSec float64       `json:"games_per_sec"` // since the previous check
	PeakRate    float64       `json:"peak_rate"`
	Elapsed     time.Duration `json:"elapsed"`
	Goroutines  int           `json:"goroutines"`
}

// NewProgressMonitor creates a monitor for counter. A non-positive interval
// falls back to DefaultInterval.
func NewProgressMonitor(counter Counter, interval time.Duration) *ProgressMonitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &ProgressMonitor{
		counter:       counter,
		checkInterval: interval,
		stopChan:      make(chan struct{}),
		doneChan:      make(chan struct{}),
		level:         zerolog.InfoLevel,
		logger:        log.With().Str("component", "ProgressMonitor").Logger(),
	}
}

// OnTick registers a callback run after every check. It must be set before Start.
func (pm *ProgressMonitor) OnTick(fn func(ProgressMetrics)) {
	pm.onTick = fn
}

// SetLogLevel sets the level of the periodic progress line. It must be set
// before Start.
func (pm *ProgressMonitor) SetLogLevel(level zerolog.Level) {
	pm.level = level
}

// Start begins monitoring in a new goroutine
func (pm *ProgressMonitor) Start() {
	now := time.Now()
	pm.mu.Lock()
	pm.started = now
	pm.lastCheck = now
	pm.mu.Unlock()

	pm.logger.Debug().
		Int64("total", pm.counter.Total()).
		Dur("interval", pm.checkInterval).
		Msg("Started progress monitoring")
	go pm.monitor()
}

// Stop ends monitoring, takes a final sample and waits for the loop to exit.
// It is safe to call more than once.
func (pm *ProgressMonitor) Stop() {
	pm.stopOnce.Do(func() {
		close(pm.stopChan)
		<-pm.doneChan
		m := pm.check()
		pm.logger.Debug().
			Int64("played", m.Played).
			Float64("peak_rate", m.PeakRate).
			Dur("elapsed", m.Elapsed).
			Msg("Stopped progress monitoring")
	})
}

// monitor is the main monitoring loop
func (pm *ProgressMonitor) monitor() {
	defer close(pm.doneChan)
	defer func() {
		if r := recover(); r != nil {
			pm.logger.Error().
				Interface("panic", r).
				Msg("Progress monitor panicked")
		}
	}()

	ticker := time.NewTicker(pm.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m := pm.check()
			pm.logger.WithLevel(pm.level).
				Int64("played", m.Played).
				Int64("total", m.Total).
				Float64("percent", m.Percent).
				Float64("games_per_sec", m.GamesPerSec).
				Msg("Batch progress")
			if pm.onTick != nil {
				pm.onTick(m)
			}
		case <-pm.stopChan:
			return
		}
	}
}

// check samples the counter and updates the metrics
func (pm *ProgressMonitor) check() ProgressMetrics {
	now := time.Now()
	played := pm.counter.Played()
	total := pm.counter.Total()

	pm.mu.Lock()
	defer pm.mu.Unlock()

	rate := 0.0
	if dt := now.Sub(pm.lastCheck).Seconds(); dt > 0 {
		rate = float64(played-pm.lastPlayed) / dt
	}
	pm.lastCheck = now
	pm.lastPlayed = played

	pm.metrics.Played = played
	pm.metrics.Total = total
	pm.metrics.Percent = 100
	if total > 0 {
		pm.metrics.Percent = 100 * float64(played) / float64(total)
	}
	pm.metrics.GamesPerSec = rate
	if rate > pm.metrics.PeakRate {
		pm.metrics.PeakRate = rate
	}
	pm.metrics.Elapsed = now.Sub(pm.started)
	pm.metrics.Goroutines = runtime.NumGoroutine()
	return pm.metrics
}
