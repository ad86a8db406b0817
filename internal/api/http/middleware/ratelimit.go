package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/dtroode/library-server/internal/api/http/response"
	"github.com/dtroode/library-server/internal/logger"
)

const (
	clientTTL     = 3 * time.Minute
	sweepInterval = time.Minute
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit applies a token bucket per client IP.
type RateLimit struct {
	rps     rate.Limit
	burst   int
	logger  *logger.Logger
	now     func() time.Time
	mu      sync.Mutex
	clients map[string]*client
}

// NewRateLimit creates a per-IP limiter allowing rps requests per second
// with the given burst.
func NewRateLimit(rps float64, burst int, logger *logger.Logger) *RateLimit {
	return &RateLimit{
		rps:     rate.Limit(rps),
		burst:   burst,
		logger:  logger,
		now:     time.Now,
		clients: make(map[string]*client),
	}
}

// Run evicts idle clients until ctx is done.
func (m *RateLimit) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *RateLimit) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-clientTTL)
	for ip, c := range m.clients {
		if c.lastSeen.Before(cutoff) {
			delete(m.clients, ip)
		}
	}
}

func (m *RateLimit) allow(ip string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(m.rps, m.burst)}
		m.clients[ip] = c
	}
	c.lastSeen = m.now()
	return c.limiter.Allow()
}

// Handle wraps next with rate limiting.
func (m *RateLimit) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !m.allow(ip) {
			m.logger.Debug("RateLimit middleware: request rejected", "ip", ip)
			response.Error(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
