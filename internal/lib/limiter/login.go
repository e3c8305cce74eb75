// Package limiter throttles repeated admin login failures per client IP.
package limiter

import (
	"sync"
	"time"
)

type LoginLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	now      func() time.Time
	stop     chan struct{}
	once     sync.Once
}

// NewLoginLimiter allows max attempts per IP within window. Call
// Stop to end the background sweep.
func NewLoginLimiter(max int, window time.Duration) *LoginLimiter {
	l := &LoginLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go l.sweep()
	return l
}

func (l *LoginLimiter) sweep() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			for ip := range l.attempts {
				l.pruneLocked(ip)
			}
			l.mu.Unlock()
		}
	}
}

func (l *LoginLimiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

// Allow takes one attempt slot for ip and reports whether it was granted.
// The count and the append happen under one lock, so concurrent callers
// cannot all slip past the limit. Successful logins hand the slot back with
// Reset.
func (l *LoginLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pruneLocked(ip) >= l.max {
		return false
	}
	l.attempts[ip] = append(l.attempts[ip], l.now())
	return true
}

// Reset forgets ip, used after a successful login.
func (l *LoginLimiter) Reset(ip string) {
	l.mu.Lock()
	delete(l.attempts, ip)
	l.mu.Unlock()
}

func (l *LoginLimiter) pruneLocked(ip string) int {
	cutoff := l.now().Add(-l.window)

	hits := l.attempts[ip]
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) == 0 {
		delete(l.attempts, ip)
		return 0
	}
	l.attempts[ip] = kept
	return len(kept)
}
