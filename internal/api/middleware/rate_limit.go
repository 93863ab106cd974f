package middleware

import (
	"net/http"
	"strconv"
	"sync"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
)

const msgRateLimited = "слишком много запросов, попробуйте позже"

// RateLimiter ограничение частоты запросов на пользователя (X-User-ID), без пользователя по адресу клиента
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (l *RateLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.rps, l.burst)
		l.limiters[key] = limiter
	}
	return limiter
}

// Middleware отвечает 429, если лимит исчерпан
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.RemoteAddr
		if userID, ok := GetUserID(r.Context()); ok {
			key = "user:" + strconv.FormatInt(userID, 10)
		}

		if !l.limiter(key).Allow() {
			handlers.RespondTooManyRequests(w, msgRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}
