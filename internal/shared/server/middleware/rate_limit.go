package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Rate limit groups. Rules follow the advertised API limits: general traffic,
// uploads, and processing are throttled independently per principal.
const (
	GroupDefault = "DEFAULT"
	GroupUpload  = "UPLOAD"
	GroupProcess = "PROCESS"
)

// RateLimitRule describes a token bucket: Rate tokens per second with the
// given Burst capacity.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

// HourlyRule builds a rule that admits n requests per hour with burst n.
func HourlyRule(n int) RateLimitRule {
	return RateLimitRule{Rate: float64(n) / 3600.0, Burst: n}
}

// DefaultRules mirrors the published limits: 100/h general, 10/h upload,
// 20/h processing.
func DefaultRules() map[string]RateLimitRule {
	return map[string]RateLimitRule{
		GroupDefault: HourlyRule(100),
		GroupUpload:  HourlyRule(10),
		GroupProcess: HourlyRule(20),
	}
}

// RateLimitConfig wires rules to a limiter and a group classifier.
type RateLimitConfig struct {
	Rules        map[string]RateLimitRule
	DefaultGroup string
	GroupFor     func(*gin.Context) string
	Limiter      *RateLimiter
}

// RateLimiter tracks token buckets keyed by principal and group.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
	now     func() time.Time
}

type rateBucket struct {
	tokens float64
	last   time.Time
}

// NewRateLimiter constructs a limiter. now may be nil for wall-clock time.
func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		buckets: make(map[string]*rateBucket),
		now:     now,
	}
}

// GroupForPath classifies requests into rate limit groups by route shape.
func GroupForPath(c *gin.Context) string {
	path := c.Request.URL.Path
	switch {
	case strings.HasSuffix(path, "/documents/upload"):
		return GroupUpload
	case strings.HasSuffix(path, "/process"):
		return GroupProcess
	default:
		return GroupDefault
	}
}

// RateLimit enforces per-group token buckets and sets X-RateLimit-* headers.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = GroupDefault
	}
	return func(c *gin.Context) {
		group := cfg.DefaultGroup
		if cfg.GroupFor != nil {
			if g := strings.TrimSpace(cfg.GroupFor(c)); g != "" {
				group = g
			}
		}
		rule, ok := cfg.Rules[group]
		if !ok {
			c.Next()
			return
		}
		principal := strings.TrimSpace(UserIDFromContext(c))
		if principal == "" {
			principal = strings.TrimSpace(c.ClientIP())
		}
		key := principal + "|" + group

		allowed, remaining, retryAfter := cfg.Limiter.Allow(key, rule)

		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(rule.Burst))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(retryAfter).Unix(), 10))

		if allowed {
			c.Next()
			return
		}

		retryAfterSeconds := int(math.Ceil(retryAfter.Seconds()))
		if retryAfterSeconds <= 0 {
			retryAfterSeconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":     "rate_limited",
			"message":   "Rate limit exceeded. Please retry later.",
			"timestamp": time.Now().UTC(),
		})
	}
}

// Allow consumes one token for key under rule. It reports whether the request
// is admitted, how many tokens remain, and how long until the next token.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, int, time.Duration) {
	if l == nil || rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0, 0
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = &rateBucket{
			tokens: float64(rule.Burst),
			last:   now,
		}
		l.buckets[key] = bucket
	}
	elapsed := now.Sub(bucket.last).Seconds()
	if elapsed > 0 {
		bucket.tokens = math.Min(float64(rule.Burst), bucket.tokens+elapsed*rule.Rate)
		bucket.last = now
	}
	if bucket.tokens >= 1 {
		bucket.tokens -= 1
		return true, int(bucket.tokens), 0
	}
	needed := 1 - bucket.tokens
	waitSec := needed / rule.Rate
	if waitSec < 0 {
		waitSec = 0
	}
	retryAfter := time.Duration(math.Ceil(waitSec*1000.0)) * time.Millisecond
	return false, 0, retryAfter
}
