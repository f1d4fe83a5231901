package controller

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RequestID tags every request so log lines can be correlated. An incoming
// X-Request-ID is trusted, otherwise one is generated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// RequestLogger logs one line per request with latency and status.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("Request handled",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", clientIP(c)),
		)
	}
}

// clientIP resolves the caller address behind proxies.
func clientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 && strings.TrimSpace(parts[0]) != "" {
			return strings.TrimSpace(parts[0])
		}
	}

	if xri := c.GetHeader("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	addr := c.Request.RemoteAddr
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// limiterEntry pairs a limiter with its last use so stale entries can be
// dropped.
type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter hands out one token-bucket limiter per client address. The map
// is swept on each lookup: entries idle for a full window are removed, which
// keeps it bounded without a background goroutine. State is in-memory only,
// a restart resets it; this is abuse mitigation, not a correctness mechanism.
type ipLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	every   rate.Limit
	burst   int
	window  time.Duration
}

func newIPLimiter(perWindow int, window time.Duration) *ipLimiter {
	return &ipLimiter{
		entries: make(map[string]*limiterEntry),
		every:   rate.Every(window / time.Duration(perWindow)),
		burst:   perWindow,
		window:  window,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-l.window)
	for key, entry := range l.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(l.entries, key)
		}
	}

	entry, exists := l.entries[ip]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.every, l.burst)}
		l.entries[ip] = entry
	}
	entry.lastSeen = time.Now()

	return entry.limiter.Allow()
}

// RateLimit throttles an endpoint per client address.
func RateLimit(perWindow int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	limiter := newIPLimiter(perWindow, window)

	return func(c *gin.Context) {
		ip := clientIP(c)
		if !limiter.allow(ip) {
			logger.Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success":    false,
				"message":    "Trop de requêtes. Veuillez réessayer plus tard.",
				"retryAfter": int(window.Seconds()),
			})
			return
		}
		c.Next()
	}
}

// AdminAuth verifies the bearer token with the shared HMAC secret. There is
// no user store behind it: any validly signed token is an admin.
func AdminAuth(secret string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Token d'accès requis",
			})
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Format d'autorisation invalide",
			})
			return
		}

		_, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(secret), nil
		}, jwt.WithLeeway(5*time.Second))

		if err != nil {
			logger.Warn("Rejected admin token", zap.Error(err), zap.String("ip", clientIP(c)))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Token invalide",
			})
			return
		}

		c.Next()
	}
}
