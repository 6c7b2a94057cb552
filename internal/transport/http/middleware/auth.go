package middleware

import (
	"context"
	"net/http"
	"strings"

	"staffdesk/internal/domain/auth"
)

type ctxKey string

const ctxKeyUser ctxKey = "user"

// SessionStore answers whether a token's session is still live.
type SessionStore interface {
	SessionActive(ctx context.Context, userID, tokenHash string) (bool, error)
}

// Auth parses a bearer token when present, checks its session has not been
// revoked, and attaches the user context. Requests without a live token pass
// through anonymous; route-level permission checks reject them.
func Auth(secret string, sessions SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			if sessions != nil {
				active, err := sessions.SessionActive(r.Context(), claims.UserID, auth.HashToken(parts[1]))
				if err != nil || !active {
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, auth.UserContext{
				UserID:   claims.UserID,
				RoleID:   claims.RoleID,
				RoleName: claims.RoleName,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUser(ctx context.Context) (auth.UserContext, bool) {
	user, ok := ctx.Value(ctxKeyUser).(auth.UserContext)
	return user, ok
}
