package oracle

import (
	"sort"
	"sync"
	"time"
)

type sample struct {
	timestamp  time.Time
	durationMs int64
}

// TierSnapshot is a point-in-time aggregate of call latencies for one tier.
type TierSnapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
}

// StatsSnapshot aggregates both invocation tiers.
type StatsSnapshot struct {
	Text   TierSnapshot `json:"text"`
	Vision TierSnapshot `json:"vision"`
}

// Stats tracks recent oracle call latencies per tier within a rolling window.
type Stats struct {
	mu      sync.Mutex
	samples map[Tier][]sample
	maxAge  time.Duration
}

func NewStats(maxAge time.Duration) *Stats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Stats{
		samples: make(map[Tier][]sample),
		maxAge:  maxAge,
	}
}

func (s *Stats) Record(tier Tier, durationMs int64) {
	if durationMs < 0 {
		durationMs = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples[tier] = append(s.samples[tier], sample{
		timestamp:  now,
		durationMs: durationMs,
	})
}

func (s *Stats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	return StatsSnapshot{
		Text:   tierSnapshotLocked(s.samples[TierText]),
		Vision: tierSnapshotLocked(s.samples[TierVision]),
	}
}

func (s *Stats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	for tier, samples := range s.samples {
		writeIdx := 0
		for _, sm := range samples {
			if !sm.timestamp.Before(cutoff) {
				samples[writeIdx] = sm
				writeIdx++
			}
		}
		s.samples[tier] = samples[:writeIdx]
	}
}

func tierSnapshotLocked(samples []sample) TierSnapshot {
	if len(samples) == 0 {
		return TierSnapshot{}
	}

	values := make([]int64, 0, len(samples))
	var sum int64
	for _, sm := range samples {
		values = append(values, sm.durationMs)
		sum += sm.durationMs
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	return TierSnapshot{
		Count: len(values),
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: float64(sum) / float64(len(values)),
		P50Ms: percentile(values, 50),
		P95Ms: percentile(values, 95),
	}
}

func percentile(sortedValues []int64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
