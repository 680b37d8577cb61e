package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Memory is a fixed-window limiter kept in process memory. Counts are not
// shared between replicas.
type Memory struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int
	clients map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	count     int
	windowEnd time.Time
}

func NewMemory(limit int, window time.Duration) *Memory {
	return &Memory{
		limit:   limit,
		window:  window,
		clients: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (m *Memory) Allow(_ context.Context, key string) (Result, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.clients[key]
	if !ok || now.After(b.windowEnd) {
		b = &bucket{count: 1, windowEnd: now.Add(m.window)}
		m.clients[key] = b
		m.sweep(now)
		return Result{Allowed: true, Remaining: m.limit - 1, ResetAt: b.windowEnd}, nil
	}

	if b.count >= m.limit {
		return Result{Allowed: false, ResetAt: b.windowEnd}, nil
	}

	b.count++
	return Result{Allowed: true, Remaining: m.limit - b.count, ResetAt: b.windowEnd}, nil
}

// sweep drops expired buckets once the map grows. Caller holds mu.
func (m *Memory) sweep(now time.Time) {
	if len(m.clients) < 1024 {
		return
	}
	for k, b := range m.clients {
		if now.After(b.windowEnd) {
			delete(m.clients, k)
		}
	}
}
