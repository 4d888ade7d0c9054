package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-BayScheduler/internal/api/handlers"
)

const (
	HeaderUserID = "X-User-ID"
	HeaderStaff  = "X-Staff"
)

type ctxKey int

const (
	ctxKeyUserID ctxKey = iota
	ctxKeyStaff
	ctxKeyRequestID
)

// Auth требует заголовок X-User-ID (положительное число)
// X-Staff: true помечает сотрудника точки обслуживания
// Заголовки выставляет API gateway после проверки токена
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get(HeaderUserID), 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUserID, userID)
		ctx = context.WithValue(ctx, ctxKeyStaff, parseStaff(r.Header.Get(HeaderStaff)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID возвращает ID пользователя, установленный Auth
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(ctxKeyUserID).(int64)
	return userID, ok
}

// IsStaff возвращает true, если запрос пришел от сотрудника точки
func IsStaff(ctx context.Context) bool {
	staff, _ := ctx.Value(ctxKeyStaff).(bool)
	return staff
}

// WithUser кладет пользователя в контекст (для тестов handlers)
func WithUser(ctx context.Context, userID int64, staff bool) context.Context {
	ctx = context.WithValue(ctx, ctxKeyUserID, userID)
	return context.WithValue(ctx, ctxKeyStaff, staff)
}

func parseStaff(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
