package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
)

// HeaderUserID заголовок с ID пользователя, проставляется шлюзом после аутентификации
const HeaderUserID = "X-User-ID"

const msgMissingUserID = "отсутствует или некорректен заголовок X-User-ID"

type contextKey string

const (
	userIDKey    contextKey = "user_id"
	requestIDKey contextKey = "request_id"
)

// Auth кладет ID пользователя из X-User-ID в контекст запроса
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get(HeaderUserID), 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID ID пользователя, положенный Auth
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// WithUserID для тестов обработчиков без Auth
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
