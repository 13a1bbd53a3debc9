package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterSweepEvery = 5 * time.Minute
	limiterIdleFor    = 10 * time.Minute
)

// clientLimiters tracks one token bucket per client IP and forgets clients
// that have gone idle.
type clientLimiters struct {
	rps     rate.Limit
	burst   int
	clients sync.Map // ip → *clientBucket
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func (cl *clientLimiters) allow(ip string) bool {
	v, _ := cl.clients.LoadOrStore(ip, &clientBucket{limiter: rate.NewLimiter(cl.rps, cl.burst)})
	b := v.(*clientBucket)
	b.lastSeen = time.Now()
	return b.limiter.Allow()
}

func (cl *clientLimiters) sweep() {
	ticker := time.NewTicker(limiterSweepEvery)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-limiterIdleFor)
		cl.clients.Range(func(k, v interface{}) bool {
			if v.(*clientBucket).lastSeen.Before(cutoff) {
				cl.clients.Delete(k)
			}
			return true
		})
	}
}

// RateLimit provides per-IP token-bucket rate limiting. Search and icon
// requests are cheap reads, so one shared budget covers the whole API.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	cl := &clientLimiters{rps: rate.Limit(rps), burst: burst}
	go cl.sweep()

	return func(c *gin.Context) {
		if !cl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
