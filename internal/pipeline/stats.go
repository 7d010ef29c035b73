package pipeline

import (
	"slices"
	"sync"
	"time"
)

// Latency summarizes conversion durations in milliseconds.
type Latency struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// ModeStats is the activity of one conversion mode.
type ModeStats struct {
	Completed int     `json:"completed"`
	Failed    int     `json:"failed"`
	Latency   Latency `json:"latency"`
}

// StatsSnapshot aggregates the conversions of the rolling window, over all
// modes and per mode.
type StatsSnapshot struct {
	Latency
	Failed int                `json:"failed"`
	Modes  map[Mode]ModeStats `json:"modes"`
}

type conversion struct {
	at     time.Time
	ms     int64
	mode   Mode
	failed bool
}

// Stats keeps the conversions finished within a rolling window.
type Stats struct {
	mu     sync.Mutex
	window time.Duration
	recent []conversion // Oldest first
}

func NewStats(window time.Duration) *Stats {
	if window <= 0 {
		window = time.Hour
	}
	return &Stats{window: window}
}

// Record adds one conversion of mode that took d.
func (s *Stats) Record(mode Mode, d time.Duration, err error) {
	c := conversion{at: time.Now(), ms: max(d.Milliseconds(), 0), mode: mode, failed: err != nil}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked(c.at)
	s.recent = append(s.recent, c)
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	s.expireLocked(time.Now())
	recent := slices.Clone(s.recent)
	s.mu.Unlock()

	snap := StatsSnapshot{Modes: make(map[Mode]ModeStats)}
	all := make([]int64, 0, len(recent))
	byMode := make(map[Mode][]int64)
	for _, c := range recent {
		all = append(all, c.ms)
		byMode[c.mode] = append(byMode[c.mode], c.ms)
		ms := snap.Modes[c.mode]
		if c.failed {
			ms.Failed++
			snap.Failed++
		} else {
			ms.Completed++
		}
		snap.Modes[c.mode] = ms
	}
	snap.Latency = summarize(all)
	for mode, values := range byMode {
		ms := snap.Modes[mode]
		ms.Latency = summarize(values)
		snap.Modes[mode] = ms
	}
	return snap
}

func (s *Stats) expireLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	n := 0
	for n < len(s.recent) && s.recent[n].at.Before(cutoff) {
		n++
	}
	if n > 0 {
		s.recent = append(s.recent[:0], s.recent[n:]...)
	}
}

func summarize(values []int64) Latency {
	if len(values) == 0 {
		return Latency{}
	}
	slices.Sort(values)
	var sum int64
	for _, v := range values {
		sum += v
	}
	return Latency{
		Count: len(values),
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: float64(sum) / float64(len(values)),
		P50Ms: percentile(values, 50),
		P95Ms: percentile(values, 95),
		P99Ms: percentile(values, 99),
	}
}

// percentile interpolates linearly between the two closest ranks.
func percentile(sorted []int64, pct float64) float64 {
	pos := float64(len(sorted)-1) * pct / 100
	lo := int(pos)
	if lo+1 >= len(sorted) {
		return float64(sorted[len(sorted)-1])
	}
	weight := pos - float64(lo)
	return float64(sorted[lo]) + float64(sorted[lo+1]-sorted[lo])*weight
}
