package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/encore-live/backstage-api/internal/api/metrics"
	"github.com/encore-live/backstage-api/internal/core/domain"
	"github.com/encore-live/backstage-api/internal/core/ports"
	"github.com/encore-live/backstage-api/internal/core/service"
)

// accountKey is the Echo context key under which the bearer gate stores the
// resolved account.
const accountKey = "auth_account"

// AccessVerifier is the slice of TokenService the bearer gate needs.
type AccessVerifier interface {
	VerifyAccessToken(raw string) (*service.Claims, error)
}

// Auth is the bearer-token gate: it extracts the Authorization header,
// verifies the credential as an access token, resolves the subject account
// through the directory, and stores it in the request context.
//
// A missing or malformed header is a 401; a failed verification surfaces the
// token sentinel error (also a 401); an unresolved subject is a 404. Token
// validity is independent of later suspension — the active-account gate is a
// separate check.
func Auth(verifier AccessVerifier, directory ports.UserDirectory) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.GateDenialsTotal.WithLabelValues("bearer").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.GateDenialsTotal.WithLabelValues("bearer").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := verifier.VerifyAccessToken(parts[1])
			if err != nil {
				metrics.GateDenialsTotal.WithLabelValues("bearer").Inc()
				return err
			}

			acct, err := directory.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				metrics.GateDenialsTotal.WithLabelValues("bearer").Inc()
				return err
			}

			c.Set(accountKey, acct)
			return next(c)
		}
	}
}

// ActiveAccount is the active-account gate: it rejects a resolved account
// whose suspended flag is set. It must run after Auth.
func ActiveAccount() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acct, ok := AccountFromContext(c)
			if !ok {
				metrics.GateDenialsTotal.WithLabelValues("active").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if acct.Suspended {
				metrics.GateDenialsTotal.WithLabelValues("active").Inc()
				return domain.ErrAccountSuspended
			}
			return next(c)
		}
	}
}

// RequireAdmin is the role gate: it rejects any resolved account that is not
// an Admin. It must run after Auth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acct, ok := AccountFromContext(c)
			if !ok {
				metrics.GateDenialsTotal.WithLabelValues("admin").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if acct.Role != domain.RoleAdmin {
				metrics.GateDenialsTotal.WithLabelValues("admin").Inc()
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// AccountFromContext returns the account stored by the bearer gate.
func AccountFromContext(c echo.Context) (*domain.Account, bool) {
	acct, ok := c.Get(accountKey).(*domain.Account)
	return acct, ok
}
