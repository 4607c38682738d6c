package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/eventzone/eventzone-api/internal/core/domain"
)

const principalKey = "auth.principal"

// SetPrincipal attaches p to the request being processed.
func SetPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the principal attached by Authenticate. It is absent
// on public paths.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok
}
