package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/eventzone/eventzone-api/internal/core/domain"
	"github.com/eventzone/eventzone-api/internal/pkg/metrics"
	"github.com/eventzone/eventzone-api/internal/security/policy"
)

// Authorize enforces the access policy using the principal attached by
// Authenticate, which must run first. A denied request never reaches the
// handler: with no principal it is a 401, otherwise a 403.
func Authorize(p *policy.Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			var principal *domain.Principal
			if pr, ok := PrincipalFrom(c); ok {
				principal = &pr
			}

			d := p.Authorize(req.URL.Path, req.Method, principal)
			if d.Allowed {
				metrics.PolicyDecisionsTotal.WithLabelValues("allow", d.Reason).Inc()
				return next(c)
			}

			metrics.PolicyDecisionsTotal.WithLabelValues("deny", d.Reason).Inc()
			if principal == nil {
				return fmt.Errorf("%w: %s", domain.ErrTokenMissing, d.Reason)
			}
			return fmt.Errorf("%w: %s", domain.ErrForbidden, d.Reason)
		}
	}
}
