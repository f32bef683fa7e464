package service

import (
	"sync/atomic"
	"time"

	"github.com/Jamolkhon5/portfolio/internal/ai/llm"
)

// Metrics - счетчики ассистента, безопасны для конкурентного доступа
type Metrics struct {
	requests          int64
	modelCalls        int64
	modelLatency      int64 // суммарно, в наносекундах
	fallbacks         int64
	unavailable       int64
	schemaInvalid     int64
	transport         int64
	rejectedEmpty     int64
	unresolvedDropped int64
}

// Stats - снимок метрик для отдачи наружу
type Stats struct {
	Requests            int64            `json:"requests"`
	ModelCalls          int64            `json:"modelCalls"`
	Fallbacks           int64            `json:"fallbacks"`
	FallbacksByKind     map[string]int64 `json:"fallbacksByKind"`
	RejectedEmpty       int64            `json:"rejectedEmpty"`
	UnresolvedDropped   int64            `json:"unresolvedDropped"`
	AverageModelLatency float64          `json:"averageModelLatencyMs"`
	FallbackRate        float64          `json:"fallbackRate"`
}

func (m *Metrics) recordRequest() {
	atomic.AddInt64(&m.requests, 1)
}

func (m *Metrics) recordRejected() {
	atomic.AddInt64(&m.rejectedEmpty, 1)
}

func (m *Metrics) recordModelCall(duration time.Duration) {
	atomic.AddInt64(&m.modelCalls, 1)
	atomic.AddInt64(&m.modelLatency, duration.Nanoseconds())
}

func (m *Metrics) recordUnresolved(n int) {
	atomic.AddInt64(&m.unresolvedDropped, int64(n))
}

func (m *Metrics) recordFallback(kind llm.ErrorKind) {
	atomic.AddInt64(&m.fallbacks, 1)
	switch kind {
	case llm.KindSchemaInvalid:
		atomic.AddInt64(&m.schemaInvalid, 1)
	case llm.KindTransport:
		atomic.AddInt64(&m.transport, 1)
	default:
		atomic.AddInt64(&m.unavailable, 1)
	}
}

// Snapshot возвращает текущие значения
func (m *Metrics) Snapshot() Stats {
	s := Stats{
		Requests:          atomic.LoadInt64(&m.requests),
		ModelCalls:        atomic.LoadInt64(&m.modelCalls),
		Fallbacks:         atomic.LoadInt64(&m.fallbacks),
		RejectedEmpty:     atomic.LoadInt64(&m.rejectedEmpty),
		UnresolvedDropped: atomic.LoadInt64(&m.unresolvedDropped),
		FallbacksByKind: map[string]int64{
			string(llm.KindUnavailable):   atomic.LoadInt64(&m.unavailable),
			string(llm.KindSchemaInvalid): atomic.LoadInt64(&m.schemaInvalid),
			string(llm.KindTransport):     atomic.LoadInt64(&m.transport),
		},
	}

	if s.ModelCalls > 0 {
		avgNs := float64(atomic.LoadInt64(&m.modelLatency)) / float64(s.ModelCalls)
		s.AverageModelLatency = avgNs / 1e6
	}
	if s.Requests > 0 {
		s.FallbackRate = float64(s.Fallbacks) / float64(s.Requests) * 100
	}
	return s
}
