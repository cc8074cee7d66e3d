package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/paimonworks/harem-service/internal/service"
)

type contextKey string

const (
	BotIDKey contextKey = "botID"
)

func Auth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Printf("ERROR [middleware.Auth] missing authorization header")
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Printf("ERROR [middleware.Auth] invalid authorization header format")
				http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
				return
			}

			claims, err := authService.ValidateToken(parts[1])
			if err != nil {
				log.Printf("ERROR [middleware.Auth] token validation failed: %v", err)
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			botIDStr, ok := (*claims)["sub"].(string)
			if !ok {
				log.Printf("ERROR [middleware.Auth] missing 'sub' claim in token")
				http.Error(w, "Invalid token claims", http.StatusUnauthorized)
				return
			}

			botID, err := uuid.Parse(botIDStr)
			if err != nil {
				log.Printf("ERROR [middleware.Auth] failed to parse bot ID: %v", err)
				http.Error(w, "Invalid bot ID", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), BotIDKey, botID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetBotID(ctx context.Context) (uuid.UUID, bool) {
	botID, ok := ctx.Value(BotIDKey).(uuid.UUID)
	return botID, ok
}
