package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hoardly/dashboard/internal/api/respond"
	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
)

const maxAvatarSize = 5 << 20

// SessionHandler exposes the session of the calling browser.
type SessionHandler struct{}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// Get returns the session, resolving the persisted credential on first use.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	ws, err := workspace(c)
	if err != nil {
		return err
	}
	return writeSession(c, http.StatusOK, ws.Session.Snapshot(), "")
}

// Login exchanges credentials for a session.
//
// @Summary      Login
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /api/session/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	ws, err := workspace(c)
	if err != nil {
		return err
	}
	var req loginRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	snap, err := ws.Session.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return writeSession(c, http.StatusOK, snap, domain.HomeRoute(snap.Role()))
}

// Register creates an account from a multipart form with an optional avatar
// file and logs into it.
//
// @Summary      Register
// @Tags         session
// @Accept       multipart/form-data
// @Produce      json
// @Param        name         formData  string  true   "Full name"
// @Param        email        formData  string  true   "Email"
// @Param        password     formData  string  true   "Password"
// @Param        role         formData  string  true   "owner, photographer or client"
// @Param        avatar       formData  file    false  "Profile image"
// @Success      201  {object}  sessionResponse
// @Failure      400  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /api/session/register [post]
func (h *SessionHandler) Register(c echo.Context) error {
	ws, err := workspace(c)
	if err != nil {
		return err
	}
	var in ports.RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	avatar, err := readAvatar(c)
	if err != nil {
		return err
	}
	in.Avatar = avatar

	snap, err := ws.Session.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return writeSession(c, http.StatusCreated, snap, domain.HomeRoute(snap.Role()))
}

// Logout ends the session.
//
// @Summary      Logout
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	ws, err := workspace(c)
	if err != nil {
		return err
	}
	ws.Session.Logout(c.Request().Context())
	return writeSession(c, http.StatusOK, ws.Session.Snapshot(), domain.LoginRoute)
}

// UpdateUser edits the in-memory user record without contacting the backend.
//
// @Summary      Update the session user
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      profileRequest  true  "Profile fields"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/session/user [put]
func (h *SessionHandler) UpdateUser(c echo.Context) error {
	ws, _, err := authenticated(c)
	if err != nil {
		return err
	}
	var req profileRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	current := ws.Session.Snapshot().User
	if current == nil {
		return domain.ErrUnauthenticated
	}
	snap, err := ws.Session.UpdateUser(req.apply(*current))
	if err != nil {
		return err
	}
	return writeSession(c, http.StatusOK, snap, "")
}

// UpdateProfile saves the profile on the backend, then installs the record
// the backend returned.
//
// @Summary      Save profile
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      profileRequest  true  "Profile fields"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /api/profile [put]
func (h *SessionHandler) UpdateProfile(c echo.Context) error {
	ws, _, err := authenticated(c)
	if err != nil {
		return err
	}
	var req profileRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	snap := ws.Session.Snapshot()
	if snap.User == nil {
		return domain.ErrUnauthenticated
	}
	saved, err := ws.Resources.Users.UpdateProfile(c.Request().Context(), req.apply(*snap.User))
	if err != nil {
		return err
	}
	next, err := ws.Session.UpdateUser(*saved)
	if err != nil {
		return err
	}
	return writeSession(c, http.StatusOK, next, "")
}

// Navigation returns the side navigation of the user's role.
//
// @Summary      Navigation
// @Tags         session
// @Produce      json
// @Success      200  {object}  respond.Envelope
// @Router       /api/session/navigation [get]
func (h *SessionHandler) Navigation(c echo.Context) error {
	_, role, err := authenticated(c)
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, domain.NavigationFor(role))
}

// Notifications drains the toasts queued for this session.
//
// @Summary      Pending notifications
// @Tags         session
// @Produce      json
// @Success      200  {object}  respond.Envelope
// @Router       /api/session/notifications [get]
func (h *SessionHandler) Notifications(c echo.Context) error {
	ws, err := workspace(c)
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, ws.Notifications.Drain())
}

func writeSession(c echo.Context, status int, snap domain.Session, redirect string) error {
	return c.JSON(status, sessionResponse{
		Success:    true,
		Data:       snap,
		Provenance: snap.Provenance,
		Redirect:   redirect,
	})
}

// readAvatar returns the uploaded avatar, or nil when none was attached.
func readAvatar(c echo.Context) (*ports.Avatar, error) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid avatar upload")
	}
	if fh.Size > maxAvatarSize {
		return nil, echo.NewHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("avatar must be at most %d MB", maxAvatarSize>>20))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid avatar upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxAvatarSize))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid avatar upload")
	}
	return &ports.Avatar{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Data:        data,
	}, nil
}
