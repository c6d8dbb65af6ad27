package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hoardly/dashboard/internal/api/respond"
	"github.com/hoardly/dashboard/internal/core/domain"
)

// loadingResponse is served while the session is still resolving.
type loadingResponse struct {
	Status string `json:"status"`
}

// Guard enforces the route guard for roles; with no roles any authenticated
// user passes. Must run after Session.
func Guard(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ws, ok := WorkspaceFrom(c)
			if !ok {
				return respond.Redirect(c, http.StatusUnauthorized, "unauthenticated", "session required", domain.LoginRoute)
			}

			switch access := ws.Session.Authorize(roles...); access {
			case domain.AccessAllow:
				return next(c)
			case domain.AccessLoading:
				return c.JSON(http.StatusAccepted, loadingResponse{Status: "loading"})
			case domain.AccessRedirectLogin:
				return respond.Redirect(c, http.StatusUnauthorized, "unauthenticated", "login required", access.Redirect())
			default:
				return respond.Redirect(c, http.StatusForbidden, "forbidden", "access forbidden", access.Redirect())
			}
		}
	}
}
