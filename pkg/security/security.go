package security

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// CORS 仅允许白名单中的 Origin；白名单含 "*" 时放行所有来源（本地看板调试用）
func CORS(allowedOrigins []string) gin.HandlerFunc {
	originSet := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originSet[strings.TrimRight(o, "/")] = true
	}
	allowAll := originSet["*"]

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (allowAll || originSet[origin]) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, Cache-Control, X-Requested-With")
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Max-Age", "600")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPLimiter 按客户端 IP 的令牌桶，window 内最多 maxRequests 次，突发上限同为 maxRequests
type IPLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	every    rate.Limit
	burst    int
	expiry   time.Duration
	skip     map[string]bool
}

// NewIPLimiter maxRequests <= 0 时不限流
func NewIPLimiter(maxRequests int, window time.Duration, skipPaths ...string) *IPLimiter {
	if window <= 0 {
		window = time.Minute
	}
	l := &IPLimiter{
		visitors: make(map[string]*visitor),
		burst:    maxRequests,
		expiry:   window * 3,
		skip:     make(map[string]bool, len(skipPaths)),
	}
	if l.expiry < time.Minute {
		l.expiry = time.Minute
	}
	if maxRequests > 0 {
		l.every = rate.Every(window / time.Duration(maxRequests))
	}
	for _, p := range skipPaths {
		l.skip[p] = true
	}
	return l
}

func (l *IPLimiter) get(key string, now time.Time) *visitor {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.every, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v
}

// Sweep 清理长时间未出现的 IP，返回剩余条目数
func (l *IPLimiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.expiry {
			delete(l.visitors, ip)
		}
	}
	return len(l.visitors)
}

// StartSweeper 每分钟清理一次，ctx 结束后退出
func (l *IPLimiter) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				l.Sweep(now)
			}
		}
	}()
}

func (l *IPLimiter) Middleware() gin.HandlerFunc {
	if l.burst <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if l.skip[c.Request.URL.Path] {
			c.Next()
			return
		}
		now := time.Now()
		v := l.get(c.ClientIP(), now)
		r := v.limiter.ReserveN(now, 1)
		if delay := r.DelayFrom(now); delay > 0 {
			r.CancelAt(now)
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"code": http.StatusTooManyRequests, "message": "请求过于频繁，请稍后重试"})
			return
		}
		c.Next()
	}
}

// RateLimiter 便捷构造，清理协程随进程存活
func RateLimiter(maxRequests int, window time.Duration, skipPaths ...string) gin.HandlerFunc {
	l := NewIPLimiter(maxRequests, window, skipPaths...)
	l.StartSweeper(context.Background())
	return l.Middleware()
}
