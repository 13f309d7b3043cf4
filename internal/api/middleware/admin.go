package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-InkBookingService/internal/api/handlers"
)

const (
	adminClaimsKey contextKey = "adminClaims"
	roleAdmin                 = "admin"

	msgAdminAuthDisabled = "административный доступ отключен"
	msgMissingToken      = "отсутствует токен авторизации"
	msgInvalidToken      = "некорректный токен"
	msgNotAdmin          = "требуются права администратора"
)

// AdminClaims утверждения токена администратора
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ActorID ID администратора из subject, если он числовой
func (c AdminClaims) ActorID() *int64 {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

// AdminJWT пропускает только запросы с HS256 токеном с ролью admin
func AdminJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				handlers.RespondUnauthorized(w, msgAdminAuthDisabled)
				return
			}

			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}
			tokenString := strings.TrimPrefix(auth, "Bearer ")

			claims := AdminClaims{}
			token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			if claims.Role != roleAdmin {
				handlers.RespondForbidden(w, msgNotAdmin)
				return
			}

			ctx := context.WithValue(r.Context(), adminClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminClaimsFromContext возвращает утверждения администратора, если они есть
func AdminClaimsFromContext(ctx context.Context) (AdminClaims, bool) {
	claims, ok := ctx.Value(adminClaimsKey).(AdminClaims)
	return claims, ok
}

// WithAdminClaims кладет утверждения администратора в контекст (для тестов хендлеров)
func WithAdminClaims(ctx context.Context, claims AdminClaims) context.Context {
	return context.WithValue(ctx, adminClaimsKey, claims)
}
