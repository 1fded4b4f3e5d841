package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const requestIDHeader = "X-Request-Id"

type ctxKey int

const ctxKeyRequestID ctxKey = iota

func requestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID).(string)
	return v
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

const (
	limiterIdleTTL     = 3 * time.Minute
	limiterSweepPeriod = time.Minute
)

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// clientLimiter hands out one token bucket per client IP.
type clientLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	r         rate.Limit
	burst     int
	lastSweep time.Time
}

func newClientLimiter(r rate.Limit, burst int) *clientLimiter {
	return &clientLimiter{
		clients:   make(map[string]*client),
		r:         r,
		burst:     burst,
		lastSweep: time.Now(),
	}
}

func (cl *clientLimiter) allow(ip string, now time.Time) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if now.Sub(cl.lastSweep) > limiterSweepPeriod {
		for key, c := range cl.clients {
			if now.Sub(c.seen) > limiterIdleTTL {
				delete(cl.clients, key)
			}
		}
		cl.lastSweep = now
	}

	c, ok := cl.clients[ip]
	if !ok {
		c = &client{lim: rate.NewLimiter(cl.r, cl.burst)}
		cl.clients[ip] = c
	}
	c.seen = now
	return c.lim.AllowN(now, 1)
}

func (a *API) rateLimit(next http.Handler) http.Handler {
	if a.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.limiter.allow(clientIP(r), time.Now()) {
			a.Response(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// panicLogger adapts zap to handlers.RecoveryHandlerLogger.
type panicLogger struct {
	log *zap.Logger
}

func (p panicLogger) Println(v ...any) {
	p.log.Error("panic recovered", zap.String("panic", fmt.Sprint(v...)))
}
