package middleware

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/golang-jwt/jwt/v5"

	"github.com/andela-ekupara/dcman/internal/access"
	"github.com/andela-ekupara/dcman/internal/apperr"
	"github.com/andela-ekupara/dcman/internal/web"
	"github.com/andela-ekupara/dcman/pkg/logger"
)

type contextKey string

const requesterKey contextKey = "requester"

// RequesterFrom returns the authenticated requester stored by AuthMiddleware.
func RequesterFrom(ctx context.Context) (access.Requester, bool) {
	r, ok := ctx.Value(requesterKey).(access.Requester)
	return r, ok
}

// AuthMiddleware validates the x-access-token header and stores the
// requester's id and role in the request context. WebSocket clients cannot
// set custom headers, so a "token" query parameter is accepted as a fallback.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.Header.Get("x-access-token")
		if tokenString == "" {
			tokenString = r.URL.Query().Get("token")
		}

		if tokenString == "" {
			web.Error(w, apperr.ErrUnauthenticated)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			jwtSecret := os.Getenv("JWT_SECRET")
			if jwtSecret == "" {
				logger.Sugar.Error("JWT_SECRET environment variable not set")
				return nil, fmt.Errorf("server is not configured to validate tokens")
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			logger.Sugar.Infof("Invalid token: %v", err)
			web.Error(w, apperr.ErrUnauthenticated)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			web.Error(w, apperr.ErrUnauthenticated)
			return
		}
		userID, ok := claims["sub"].(string)
		if !ok {
			web.Error(w, apperr.ErrUnauthenticated)
			return
		}
		role, _ := claims["role"].(string)

		requester := access.Requester{ID: userID, Role: access.Role(role)}
		ctx := context.WithValue(r.Context(), requesterKey, requester)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
