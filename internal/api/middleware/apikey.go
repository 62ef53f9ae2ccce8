package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/encore-live/backstage-api/internal/api/metrics"
)

// HeaderAPIKey is the header carrying the pre-shared API key.
const HeaderAPIKey = "X-API-Key"

// APIKey gates every request behind the configured shared key. The comparison
// is constant-time; a mismatch or missing header is a 403.
func APIKey(key string) echo.MiddlewareFunc {
	expected := []byte(key)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			supplied := []byte(c.Request().Header.Get(HeaderAPIKey))
			if subtle.ConstantTimeCompare(supplied, expected) != 1 {
				metrics.GateDenialsTotal.WithLabelValues("api_key").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "could not validate credentials")
			}
			return next(c)
		}
	}
}
