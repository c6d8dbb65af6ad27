package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hoardly/dashboard/internal/api/middleware"
	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/service"
)

// workspace extracts the workspace injected by the Session middleware.
func workspace(c echo.Context) (*service.Workspace, error) {
	ws, ok := middleware.WorkspaceFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return ws, nil
}

// authenticated returns the workspace and the role of its logged-in user.
// Guarded routes only reach it with a user installed, but the session may
// have logged out between the guard and the handler.
func authenticated(c echo.Context) (*service.Workspace, domain.Role, error) {
	ws, err := workspace(c)
	if err != nil {
		return nil, "", err
	}
	snap := ws.Session.Snapshot()
	if !snap.IsAuthenticated {
		return nil, "", domain.ErrUnauthenticated
	}
	return ws, snap.Role(), nil
}

// bindValid binds the request into v and runs the registered validator.
func bindValid(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(v)
}

func bindQuery(c echo.Context, v any) error {
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	return nil
}
