package ratelimit

import (
	"context"
	"sync"

	"github.com/RussellLuo/slidingwindow"
)

// BackendMemory labels decisions made by the in-process limiter.
const BackendMemory = "memory"

// MemoryLimiter keeps one sliding window per (action, key) in process memory.
// Under multiple server instances it under-counts; use RedisLimiter there.
type MemoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*slidingwindow.Limiter
}

// NewMemoryLimiter creates an empty in-process limiter.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{limiters: make(map[string]*slidingwindow.Limiter)}
}

func (m *MemoryLimiter) Check(ctx context.Context, rule Rule, key string) (Decision, error) {
	m.mu.Lock()
	k := rule.Action + ":" + key
	lim, ok := m.limiters[k]
	if !ok {
		lim, _ = slidingwindow.NewLimiter(rule.Window, rule.Limit, func() (slidingwindow.Window, slidingwindow.StopFunc) {
			return slidingwindow.NewLocalWindow()
		})
		m.limiters[k] = lim
	}
	m.mu.Unlock()

	if lim.Allow() {
		return Decision{Allowed: true, Backend: BackendMemory}, nil
	}
	// The sliding window does not expose its reset instant; a full window is
	// the upper bound on the wait.
	return Decision{Allowed: false, RetryAfter: rule.Window, Backend: BackendMemory}, nil
}
