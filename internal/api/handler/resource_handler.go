package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hoardly/dashboard/internal/api/respond"
	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
	"github.com/hoardly/dashboard/internal/core/service"
)

// Resource handlers proxy the backend modules of the calling session. Each
// constructor takes a selector for the module and a method expression of its
// port, e.g. List(Hoardings, ports.HoardingAPI.List).

func Hoardings(r service.Resources) ports.HoardingAPI     { return r.Hoardings }
func Contracts(r service.Resources) ports.ContractAPI     { return r.Contracts }
func Billings(r service.Resources) ports.BillingAPI       { return r.Billings }
func Photos(r service.Resources) ports.PhotoAPI           { return r.Photos }
func Assignments(r service.Resources) ports.AssignmentAPI { return r.Assignments }
func Clients(r service.Resources) ports.ClientAPI         { return r.Clients }
func Users(r service.Resources) ports.UserAPI             { return r.Users }

// List serves a filtered list. The filter is bound from the query string.
func List[A, F, T any](pick func(service.Resources) A, fetch func(A, context.Context, F) (domain.Result[T], error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		ws, _, err := authenticated(c)
		if err != nil {
			return err
		}
		var f F
		if err := bindQuery(c, &f); err != nil {
			return err
		}
		res, err := fetch(pick(ws.Resources), c.Request().Context(), f)
		if err != nil {
			return err
		}
		return respond.Result(c, res)
	}
}

// Own serves a list scoped to the logged-in user by the backend.
func Own[A, T any](pick func(service.Resources) A, fetch func(A, context.Context) (domain.Result[T], error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		ws, _, err := authenticated(c)
		if err != nil {
			return err
		}
		res, err := fetch(pick(ws.Resources), c.Request().Context())
		if err != nil {
			return err
		}
		return respond.Result(c, res)
	}
}

// Get serves one record by the :id path parameter.
func Get[A, T any](pick func(service.Resources) A, fetch func(A, context.Context, string) (domain.Result[T], error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		ws, _, err := authenticated(c)
		if err != nil {
			return err
		}
		res, err := fetch(pick(ws.Resources), c.Request().Context(), c.Param("id"))
		if err != nil {
			return err
		}
		return respond.Result(c, res)
	}
}

// Create validates the JSON body and creates a record.
func Create[A, I, T any](pick func(service.Resources) A, create func(A, context.Context, I) (*T, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		ws, _, err := authenticated(c)
		if err != nil {
			return err
		}
		var in I
		if err := bindValid(c, &in); err != nil {
			return err
		}
		out, err := create(pick(ws.Resources), c.Request().Context(), in)
		if err != nil {
			return err
		}
		return respond.OK(c, http.StatusCreated, out)
	}
}

// Update validates the JSON body and replaces the record at :id.
func Update[A, I, T any](pick func(service.Resources) A, update func(A, context.Context, string, I) (*T, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		ws, _, err := authenticated(c)
		if err != nil {
			return err
		}
		var in I
		if err := bindValid(c, &in); err != nil {
			return err
		}
		out, err := update(pick(ws.Resources), c.Request().Context(), c.Param("id"), in)
		if err != nil {
			return err
		}
		return respond.OK(c, http.StatusOK, out)
	}
}

// SetStatus moves the record at :id to the status in the body.
func SetStatus[A any, S ~string, T any](pick func(service.Resources) A, set func(A, context.Context, string, S) (*T, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		ws, _, err := authenticated(c)
		if err != nil {
			return err
		}
		var req statusRequest
		if err := bindValid(c, &req); err != nil {
			return err
		}
		out, err := set(pick(ws.Resources), c.Request().Context(), c.Param("id"), S(req.Status))
		if err != nil {
			return err
		}
		return respond.OK(c, http.StatusOK, out)
	}
}

// Delete removes the record at :id.
func Delete[A any](pick func(service.Resources) A, del func(A, context.Context, string) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		ws, _, err := authenticated(c)
		if err != nil {
			return err
		}
		if err := del(pick(ws.Resources), c.Request().Context(), c.Param("id")); err != nil {
			return err
		}
		return respond.OK(c, http.StatusOK, nil)
	}
}

// Photographers lists the accounts an owner can assign work to.
//
// @Summary      Photographers
// @Tags         users
// @Produce      json
// @Success      200  {object}  respond.Envelope
// @Router       /api/photographers [get]
func Photographers(c echo.Context) error {
	ws, _, err := authenticated(c)
	if err != nil {
		return err
	}
	res, err := ws.Resources.Users.List(c.Request().Context(), domain.RolePhotographer)
	if err != nil {
		return err
	}
	return respond.Result(c, res)
}
