package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventzone/eventzone-api/internal/api/middleware"
	"github.com/eventzone/eventzone-api/internal/core/domain"
)

// PrincipalHandler serves endpoints that only read the authenticated caller.
// The access policy has already admitted the request by the time these run.
type PrincipalHandler struct{}

func NewPrincipalHandler() *PrincipalHandler {
	return &PrincipalHandler{}
}

type principalResponse struct {
	Subject string   `json:"subject"`
	Roles   []string `json:"roles"`
}

type areaResponse struct {
	Area    string `json:"area"`
	Message string `json:"message"`
	Subject string `json:"subject"`
}

// principal fails fast if the auth middleware did not run.
func principal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return domain.Principal{}, domain.ErrTokenMissing
	}
	return p, nil
}

// Me returns the caller's identity as carried by the token.
//
// @Summary      Current principal
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  principalResponse
// @Failure      401  {object}  map[string]string
// @Router       /users/me [get]
func (h *PrincipalHandler) Me(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	roles := p.Roles
	if roles == nil {
		roles = []string{}
	}
	return c.JSON(http.StatusOK, principalResponse{Subject: p.Subject, Roles: roles})
}

// AdminPanel is the landing endpoint for administrators.
//
// @Summary      Admin panel
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  areaResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin/panel [get]
func (h *PrincipalHandler) AdminPanel(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, areaResponse{Area: "admin", Message: "welcome to the admin panel", Subject: p.Subject})
}

// UserDashboard is the landing endpoint for regular users.
//
// @Summary      User dashboard
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  areaResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /user/dashboard [get]
func (h *PrincipalHandler) UserDashboard(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, areaResponse{Area: "user", Message: "welcome to your dashboard", Subject: p.Subject})
}
