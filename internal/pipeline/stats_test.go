package pipeline

import (
	"errors"
	"testing"
	"time"
)

func TestStatsSnapshotPercentiles(t *testing.T) {
	stats := NewStats(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400, 500} {
		stats.Record(ModeBooklet, time.Duration(ms)*time.Millisecond, nil)
	}

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 {
		t.Fatalf("expected min=100, got %d", snap.MinMs)
	}
	if snap.MaxMs != 500 {
		t.Fatalf("expected max=500, got %d", snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
}

func TestStatsCountsPerMode(t *testing.T) {
	stats := NewStats(time.Hour)
	stats.Record(ModeBooklet, time.Millisecond, nil)
	stats.Record(ModeBooklet, time.Millisecond, errors.New("missing columns"))
	stats.Record(ModeSpread, time.Millisecond, nil)

	snap := stats.Snapshot()
	if got := snap.Modes[ModeBooklet]; got.Completed != 1 || got.Failed != 1 {
		t.Fatalf("expected booklet 1/1, got %+v", got)
	}
	if got := snap.Modes[ModeSpread]; got.Completed != 1 || got.Failed != 0 {
		t.Fatalf("expected spread 1/0, got %+v", got)
	}
	if snap.Failed != 1 {
		t.Errorf("expected 1 failure overall, got %d", snap.Failed)
	}
}

func TestStatsLatencyPerMode(t *testing.T) {
	stats := NewStats(time.Hour)
	stats.Record(ModeBooklet, 100*time.Millisecond, nil)
	stats.Record(ModeBooklet, 300*time.Millisecond, nil)
	stats.Record(ModeSpread, 10*time.Millisecond, nil)

	snap := stats.Snapshot()
	booklet := snap.Modes[ModeBooklet].Latency
	if booklet.Count != 2 || booklet.AvgMs != 200 || booklet.P50Ms != 200 {
		t.Fatalf("expected booklet count=2 avg=p50=200, got %+v", booklet)
	}
	spread := snap.Modes[ModeSpread].Latency
	if spread.Count != 1 || spread.MaxMs != 10 {
		t.Fatalf("expected spread count=1 max=10, got %+v", spread)
	}
	if snap.Count != 3 || snap.MaxMs != 300 {
		t.Fatalf("expected overall count=3 max=300, got %+v", snap.Latency)
	}
	if _, ok := snap.Modes[ModeTibetan]; ok {
		t.Error("expected no entry for a mode without conversions")
	}
}

func TestStatsPrunesExpiredSamples(t *testing.T) {
	stats := NewStats(10 * time.Millisecond)
	stats.Record(ModeBooklet, 100*time.Millisecond, nil)
	time.Sleep(25 * time.Millisecond)

	snap := stats.Snapshot()
	if snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	stats.Record(ModeBooklet, 200*time.Millisecond, nil)
	snap = stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh sample, got %d", snap.Count)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestStatsRecordClampsNegativeDuration(t *testing.T) {
	stats := NewStats(time.Hour)
	stats.Record(ModeTibetan, -10*time.Millisecond, nil)
	snap := stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}
