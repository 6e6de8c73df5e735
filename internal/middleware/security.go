package middleware

import (
	"log"
	"net"
	"net/http"
	"strings"
	"sync"

	"dirscan/internal/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ClaimsKey is the gin context key holding validated token claims
const ClaimsKey = "scan_claims"

// Package-level security logger instance
var GlobalSecurityLogger = NewSecurityLogger()

// RateLimiter implements token bucket rate limiting per IP
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
	mu       sync.Mutex
}

// NewRateLimiter creates a rate limiter allowing limit requests per second
// per IP with the given burst
func NewRateLimiter(limit float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(limit),
		burst:    burst,
	}
}

// GetLimiter gets or creates a limiter for an IP address
func (rl *RateLimiter) GetLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, exists := rl.limiters[ip]; exists {
		return limiter
	}

	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.limiters[ip] = limiter
	return limiter
}

// RateLimitMiddleware enforces rate limiting per IP. Scans walk whole
// trees, so the limit applies to every API route.
func RateLimitMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.GetLimiter(ip).Allow() {
			GlobalSecurityLogger.LogRateLimited(ip, c.FullPath())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": 1,
			})
			return
		}
		c.Next()
	}
}

// SecurityHeadersMiddleware adds security headers to all responses
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Content-Security-Policy", "default-src 'none'")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}

// IPAllowList restricts access to a fixed set of client IPs. It is not
// modified after construction.
type IPAllowList struct {
	ips map[string]bool
}

// NewIPAllowList creates an allow list. An empty list allows everyone.
func NewIPAllowList(ips []string) *IPAllowList {
	al := &IPAllowList{
		ips: make(map[string]bool),
	}
	for _, ip := range ips {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			al.ips[ip] = true
		}
	}
	return al
}

// IsAllowed checks if an IP may use the API
func (al *IPAllowList) IsAllowed(ip string) bool {
	// Loopback is always allowed
	if ip == "127.0.0.1" || ip == "::1" || ip == "localhost" {
		return true
	}

	if len(al.ips) == 0 {
		return true
	}

	ipOnly, _, err := net.SplitHostPort(ip)
	if err != nil {
		ipOnly = ip
	}

	return al.ips[ipOnly]
}

// IPAllowListMiddleware rejects clients outside the allow list
func IPAllowListMiddleware(allowList *IPAllowList) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !allowList.IsAllowed(ip) {
			GlobalSecurityLogger.LogAccessDenied(ip)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.Next()
	}
}

// ExtractToken reads a bearer token from the Authorization header, falling
// back to the token query parameter used by WebSocket clients
func ExtractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return c.Query("token")
}

// TokenAuthMiddleware requires a valid scan token when enabled
func TokenAuthMiddleware(enabled bool) gin.HandlerFunc {
	validator := NewInputValidator()

	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}

		token := ExtractToken(c)
		if token == "" {
			GlobalSecurityLogger.LogFailedAuth(c.ClientIP(), "missing token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		if !validator.ValidateToken(token) {
			GlobalSecurityLogger.LogFailedAuth(c.ClientIP(), "malformed token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, err := services.ValidateToken(token)
		if err != nil {
			GlobalSecurityLogger.LogFailedAuth(c.ClientIP(), "invalid token: "+err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// SecurityLogger logs security events
type SecurityLogger struct {
	mu sync.Mutex
}

// NewSecurityLogger creates a new security logger
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{}
}

// LogFailedAuth logs failed authentication attempts
func (sl *SecurityLogger) LogFailedAuth(ip string, reason string) {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	log.Printf("[SECURITY-WARNING] Failed authentication from IP %s: %s", ip, reason)
}

// LogRateLimited logs requests rejected by the rate limiter
func (sl *SecurityLogger) LogRateLimited(ip string, route string) {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	log.Printf("[SECURITY] Rate limit exceeded for IP %s on %s", ip, route)
}

// LogAccessDenied logs requests from IPs outside the allow list
func (sl *SecurityLogger) LogAccessDenied(ip string) {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	log.Printf("[SECURITY] Access denied for IP %s", ip)
}

// LogWebSocketConnected logs successful WebSocket connections
func (sl *SecurityLogger) LogWebSocketConnected(ip string, subject string) {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	log.Printf("[SECURITY] WebSocket connected for %s from IP %s", subject, ip)
}

// InputValidator validates user supplied values before they reach services
type InputValidator struct{}

// NewInputValidator creates a new input validator
func NewInputValidator() *InputValidator {
	return &InputValidator{}
}

// ValidateToken checks that a token has the header.payload.signature shape
func (iv *InputValidator) ValidateToken(token string) bool {
	if len(token) < 20 || len(token) > 4096 {
		return false
	}
	return strings.Count(token, ".") == 2
}

// ValidateSubject checks that a token subject is a safe identifier
func (iv *InputValidator) ValidateSubject(name string) bool {
	if len(name) < 1 || len(name) > 255 {
		return false
	}

	for _, c := range name {
		if !((c >= 'a' && c <= 'z') ||
			(c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') ||
			c == '-' || c == '_' || c == '.' || c == '@') {
			return false
		}
	}

	return true
}
