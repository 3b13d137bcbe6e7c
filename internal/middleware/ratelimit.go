package middleware

import (
	"sync"
	"time"

	"jobportal_backend/internal/logger"
	"jobportal_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// Limiter - фиксированное окно: не больше limit запросов на ключ за window
type Limiter interface {
	Allow(key string, limit int, window time.Duration) bool
}

// RateLimiter - in-memory реализация для одного процесса
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
	now     func() time.Time
}

type rateBucket struct {
	count     int
	windowEnd time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*rateBucket),
		now:     time.Now,
	}
}

func (r *RateLimiter) Allow(key string, limit int, window time.Duration) bool {
	if limit <= 0 || window <= 0 {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	bucket, ok := r.buckets[key]
	if !ok || !now.Before(bucket.windowEnd) {
		r.sweep(now)
		r.buckets[key] = &rateBucket{count: 1, windowEnd: now.Add(window)}
		return true
	}
	if bucket.count >= limit {
		return false
	}
	bucket.count++
	return true
}

// sweep удаляет истекшие окна, чтобы карта не росла от уникальных IP
func (r *RateLimiter) sweep(now time.Time) {
	if len(r.buckets) < 1024 {
		return
	}
	for key, b := range r.buckets {
		if !now.Before(b.windowEnd) {
			delete(r.buckets, key)
		}
	}
}

// KeyFunc выбирает ключ лимита; пустой ключ - без ограничения
type KeyFunc func(c *gin.Context) string

func ByClientIP(scope string) KeyFunc {
	return func(c *gin.Context) string {
		return "rl:" + scope + ":ip:" + c.ClientIP()
	}
}

// BySubject - по личности запроса (после Authenticate/TrustedIdentity)
func BySubject(scope string) KeyFunc {
	return func(c *gin.Context) string {
		userID := GetUserID(c)
		if userID == "" {
			return ""
		}
		return "rl:" + scope + ":user:" + userID
	}
}

func RateLimit(limiter Limiter, keyFn KeyFunc, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		key := keyFn(c)
		if key == "" {
			c.Next()
			return
		}
		if !limiter.Allow(key, limit, window) {
			logger.CtxWarn(c.Request.Context(), "Rate limit exceeded", "key", key)
			apperrors.HandleError(c, apperrors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
