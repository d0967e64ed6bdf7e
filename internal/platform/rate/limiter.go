package rate

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter keeps one token bucket per key and forgets keys that have been
// idle for longer than expiry.
type Limiter struct {
	expiry  time.Duration
	burst   int
	limit   rate.Limit
	clients map[string]*clientLimiter
	mu      sync.Mutex
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewLimiter allows burst events per key, refilled once every interval.
func NewLimiter(ctx context.Context, burst int, interval, expiry time.Duration) *Limiter {
	lm := &Limiter{
		expiry:  expiry,
		burst:   burst,
		limit:   rate.Every(interval),
		clients: make(map[string]*clientLimiter),
	}
	go lm.refresh(ctx)
	return lm
}

func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cl, ok := l.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = cl
	}
	cl.lastAccess = time.Now()

	return cl.limiter.Allow()
}

func (l *Limiter) refresh(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.evict(time.Now())
		}
	}
}

func (l *Limiter) evict(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, cl := range l.clients {
		if now.Sub(cl.lastAccess) > l.expiry {
			delete(l.clients, key)
		}
	}
}
