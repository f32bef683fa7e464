package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Local - ограничитель в памяти процесса на случай, когда Redis не настроен.
// Токен-бакет: limit попыток сразу, далее по одной каждые window/limit.
// Бакет, простоявший окно целиком, снова полон, поэтому такие бакеты удаляются.
type Local struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	every     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewLocal(limit int, window time.Duration) *Local {
	return &Local{
		buckets:   make(map[string]*bucket),
		every:     rate.Every(window / time.Duration(limit)),
		burst:     limit,
		idle:      window,
		lastSweep: time.Now(),
	}
}

func (l *Local) Allow(ctx context.Context, key string) error {
	now := time.Now()

	l.mu.Lock()
	if now.Sub(l.lastSweep) >= l.idle {
		l.sweep(now)
	}
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.every, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	l.mu.Unlock()

	r := b.limiter.ReserveN(now, 1)
	if r.OK() && r.DelayFrom(now) == 0 {
		return nil
	}
	delay := r.DelayFrom(now)
	r.CancelAt(now)
	return &LimitError{RetryAfter: delay}
}

// sweep вызывается под l.mu
func (l *Local) sweep(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) >= l.idle {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

func (l *Local) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
