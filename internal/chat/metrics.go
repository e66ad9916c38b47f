package chat

import (
	"sync/atomic"
	"time"
)

// Metrics counts chat requests and model calls.
type Metrics struct {
	requests     int64
	fallbacks    int64
	modelCalls   int64
	modelErrors  int64
	modelLatency int64 // total, nanoseconds
	rateLimited  int64
}

// Stats is a point-in-time copy of Metrics.
type Stats struct {
	Requests       int64   `json:"requests"`
	Fallbacks      int64   `json:"fallbacks"`
	ModelCalls     int64   `json:"modelCalls"`
	ModelErrors    int64   `json:"modelErrors"`
	RateLimited    int64   `json:"rateLimited"`
	AvgLatencyMs   float64 `json:"avgLatencyMs"`
	ErrorRatePct   float64 `json:"errorRatePct"`
	modelLatencyNs int64
}

func (m *Metrics) Snapshot() Stats {
	s := Stats{
		Requests:       atomic.LoadInt64(&m.requests),
		Fallbacks:      atomic.LoadInt64(&m.fallbacks),
		ModelCalls:     atomic.LoadInt64(&m.modelCalls),
		ModelErrors:    atomic.LoadInt64(&m.modelErrors),
		RateLimited:    atomic.LoadInt64(&m.rateLimited),
		modelLatencyNs: atomic.LoadInt64(&m.modelLatency),
	}
	s.AvgLatencyMs = s.averageLatency()
	s.ErrorRatePct = s.errorRate()
	return s
}

func (m *Metrics) recordRequest()     { atomic.AddInt64(&m.requests, 1) }
func (m *Metrics) recordFallback()    { atomic.AddInt64(&m.fallbacks, 1) }
func (m *Metrics) recordRateLimited() { atomic.AddInt64(&m.rateLimited, 1) }

func (m *Metrics) recordModelCall(d time.Duration, err error) {
	atomic.AddInt64(&m.modelCalls, 1)
	atomic.AddInt64(&m.modelLatency, d.Nanoseconds())
	if err != nil {
		atomic.AddInt64(&m.modelErrors, 1)
	}
}

func (s Stats) averageLatency() float64 {
	if s.ModelCalls == 0 {
		return 0
	}
	return float64(s.modelLatencyNs) / float64(s.ModelCalls) / 1e6
}

func (s Stats) errorRate() float64 {
	if s.ModelCalls == 0 {
		return 0
	}
	return float64(s.ModelErrors) / float64(s.ModelCalls) * 100
}
