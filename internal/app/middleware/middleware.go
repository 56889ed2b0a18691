package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/FACorreiaa/go-concierge/internal/app/observability/metrics"
)

type contextKey string

// SessionIDKey is where Session stores the visitor's session id.
const SessionIDKey contextKey = "sessionID"

const DefaultSessionCookie = "simon_session"

// CORSMiddleware allows the given origins, or any origin when empty.
func CORSMiddleware(origins ...string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Cache-Control"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// SecurityMiddleware adds security headers
func SecurityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Writer.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data: https:")
		c.Next()
	}
}

// OTELGinMiddleware returns the OpenTelemetry middleware for Gin
func OTELGinMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// MetricsMiddleware counts requests and records their latency by route
// template, so ids in paths do not explode cardinality.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m := metrics.Get()
		ctx := c.Request.Context()
		m.HTTPRequestsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("path", route),
			attribute.String("status", strconv.Itoa(c.Writer.Status())),
		))
		m.HTTPRequestDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("path", route),
		))
	}
}

// RateLimiter hands out one token bucket per client IP. Buckets idle for
// ten minutes are dropped.
type RateLimiter struct {
	mu       sync.Mutex
	limiters *gocache.Cache
	limit    rate.Limit
	burst    int
	logger   *zap.Logger
}

func NewRateLimiter(perMinute, burst int, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if perMinute <= 0 {
		perMinute = 120
	}
	if burst <= 0 {
		burst = 20
	}
	return &RateLimiter{
		limiters: gocache.New(10*time.Minute, 5*time.Minute),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		logger:   logger,
	}
}

func (r *RateLimiter) limiter(ip string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.limiters.Get(ip); ok {
		l := v.(*rate.Limiter)
		r.limiters.SetDefault(ip, l)
		return l
	}
	l := rate.NewLimiter(r.limit, r.burst)
	r.limiters.SetDefault(ip, l)
	return l
}

// Middleware rejects requests over the limit with 429.
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !r.limiter(ip).Allow() {
			r.logger.Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}

// SessionMiddleware reads the session cookie, issuing a fresh id when it is
// missing or malformed, and stores the id under SessionIDKey.
func SessionMiddleware(cookie string, lifetime time.Duration) gin.HandlerFunc {
	if cookie == "" {
		cookie = DefaultSessionCookie
	}
	maxAge := int(lifetime.Seconds())
	return func(c *gin.Context) {
		id, err := c.Cookie(cookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookie, id, maxAge, "/", "", false, true)
		c.Set(string(SessionIDKey), id)
		c.Next()
	}
}

// GetSessionID returns the id set by SessionMiddleware, or "" outside it.
func GetSessionID(c *gin.Context) string {
	return c.GetString(string(SessionIDKey))
}
