package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"scenario-server/internal/models"
)

// UserIDContextKey is the echo context key the verified user id is stored
// under.
const UserIDContextKey = "user_id"

// TokenVerifier checks a token string and returns its claims.
// Errors may be models.ErrTokenInvalid, models.ErrTokenExpired,
// models.ErrTokenMalformed and so on.
type TokenVerifier func(ctx context.Context, tokenString string) (*models.Claims, error)

// EchoAuthMiddleware creates an Echo middleware that verifies the bearer JWT
// and places the user id into the request context.
func EchoAuthMiddleware(verifier TokenVerifier, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.With(zap.String("path", c.Request().URL.Path))

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				log.Warn("Authorization header missing")
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized: Missing token"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("Malformed Authorization header")
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized: Malformed token header"})
			}
			tokenString := parts[1]

			claims, err := verifier(c.Request().Context(), tokenString)
			if err != nil {
				status := http.StatusUnauthorized
				msg := "Unauthorized: Invalid token"
				if errors.Is(err, models.ErrTokenExpired) {
					msg = "Unauthorized: Token expired"
				} else if !errors.Is(err, models.ErrTokenMalformed) && !errors.Is(err, models.ErrTokenInvalid) {
					log.Error("Unexpected token verification error", zap.Error(err))
					status = http.StatusInternalServerError
					msg = "Internal server error during token verification"
				}
				log.Warn("Token verification failed", zap.Error(err))
				return c.JSON(status, map[string]string{"message": msg})
			}

			c.Set(UserIDContextKey, claims.UserID)
			return next(c)
		}
	}
}
