package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
)

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Recover перехватывает панику обработчика и отвечает 500
func Recover(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					logger.Error("Recover: panic in %s %s, request_id=%s: %v\n%s",
						r.Method, r.URL.Path, GetRequestID(r.Context()), p, debug.Stack())
					handlers.RespondInternalError(w)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
