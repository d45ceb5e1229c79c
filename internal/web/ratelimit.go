package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"
)

var efRateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ef_rate_limited_total",
	Help: "Requests rejected by the per-IP rate limiter, by route.",
}, []string{"path"})

// RateLimitConfig tunes a per-IP token-bucket limiter. Zero values fall
// back to defaults sized for the read API; outbound dispatch gets its
// own, stricter limiter since every send costs a provider call.
type RateLimitConfig struct {
	RPS   int
	Burst int
	// SweepInterval is how often idle client entries are purged;
	// IdleTTL is how long an entry survives without traffic.
	SweepInterval time.Duration
	IdleTTL       time.Duration
}

func (c RateLimitConfig) withDefaults() RateLimitConfig {
	if c.RPS <= 0 {
		c.RPS = 20
	}
	if c.Burst <= 0 {
		c.Burst = c.RPS * 2
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = 5 * time.Minute
	}
	if c.IdleTTL <= 0 {
		c.IdleTTL = 10 * time.Minute
	}
	return c
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter returns a Gin middleware enforcing cfg per client IP.
// Rejections answer 429 with a Retry-After hint and are counted in the
// ef_rate_limited_total metric under the route template.
func RateLimiter(cfg RateLimitConfig) gin.HandlerFunc {
	cfg = cfg.withDefaults()

	var mu sync.Mutex
	limiters := make(map[string]*ipLimiter)

	go func() {
		for {
			time.Sleep(cfg.SweepInterval)
			mu.Lock()
			for ip, l := range limiters {
				if time.Since(l.lastSeen) > cfg.IdleTTL {
					delete(limiters, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		l, ok := limiters[ip]
		if !ok {
			l = &ipLimiter{limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)}
			limiters[ip] = l
		}
		l.lastSeen = time.Now()
		mu.Unlock()

		if !l.limiter.Allow() {
			path := c.FullPath()
			if path == "" {
				path = c.Request.URL.Path
			}
			efRateLimitedTotal.WithLabelValues(path).Inc()
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
