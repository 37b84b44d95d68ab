package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/account-service/internal/api/metrics"
	"github.com/99minutos/account-service/internal/core/domain"
	"github.com/99minutos/account-service/internal/core/ports"
)

// IdentityKey is the echo context key holding the resolved domain.Identity.
const IdentityKey = "identity"

// Auth validates the bearer token and injects the resolved identity into the
// context. Handlers behind it read the identity, never the raw header.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}
			token := strings.TrimSpace(parts[1])

			subject, err := tokens.ExtractSubject(token)
			if err != nil || !tokens.Validate(token, subject) {
				metrics.TokenValidationsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			metrics.TokenValidationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
			c.Set(IdentityKey, domain.Identity{Username: subject})

			return next(c)
		}
	}
}
