package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hoardly/dashboard/internal/api/respond"
	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
)

// SearchHandler drives the header's live-search panel and the full results
// view.
type SearchHandler struct{}

func NewSearchHandler() *SearchHandler {
	return &SearchHandler{}
}

// Live feeds the query box's current value to the panel. The response is the
// panel after this input settled or was superseded by a newer one.
//
// @Summary      Live search input
// @Tags         search
// @Accept       json
// @Produce      json
// @Param        body  body      searchInputRequest  true  "Current query"
// @Success      200   {object}  respond.Envelope
// @Router       /api/search/live [post]
func (h *SearchHandler) Live(c echo.Context) error {
	ws, _, err := authenticated(c)
	if err != nil {
		return err
	}
	var req searchInputRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	panel := ws.Search.Input(c.Request().Context(), req.Query)
	return writePanel(c, panel)
}

// Dismiss closes the panel.
//
// @Summary      Dismiss search panel
// @Tags         search
// @Produce      json
// @Success      200  {object}  respond.Envelope
// @Router       /api/search/dismiss [post]
func (h *SearchHandler) Dismiss(c echo.Context) error {
	ws, _, err := authenticated(c)
	if err != nil {
		return err
	}
	ws.Search.Dismiss()
	return writePanel(c, ws.Search.Panel())
}

// Select returns where the chosen result's detail page lives for the user's
// role and closes the panel.
//
// @Summary      Select a search result
// @Tags         search
// @Accept       json
// @Produce      json
// @Param        body  body      searchSelectRequest  true  "Chosen result"
// @Success      200   {object}  routeResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/search/select [post]
func (h *SearchHandler) Select(c echo.Context) error {
	ws, role, err := authenticated(c)
	if err != nil {
		return err
	}
	var req searchSelectRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	route := ws.Search.Select(role, domain.SearchCategory(req.Category), req.ID)
	return respond.OK(c, http.StatusOK, routeResponse{Route: route})
}

// Submit returns the full results route for the current query and closes
// the panel.
//
// @Summary      Submit search
// @Tags         search
// @Produce      json
// @Success      200  {object}  routeResponse
// @Router       /api/search/submit [post]
func (h *SearchHandler) Submit(c echo.Context) error {
	ws, _, err := authenticated(c)
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, routeResponse{Route: ws.Search.Submit()})
}

// Results serves the full results view.
//
// @Summary      Search results
// @Tags         search
// @Produce      json
// @Param        query   query     string  true   "Search text"
// @Param        type    query     string  false  "Restrict to one category"
// @Param        status  query     string  false  "Status filter"
// @Param        from    query     string  false  "Start date"
// @Param        to      query     string  false  "End date"
// @Param        limit   query     int     false  "Per-category limit"
// @Success      200     {object}  respond.Envelope
// @Failure      400     {object}  errorResponse
// @Router       /api/search [get]
func (h *SearchHandler) Results(c echo.Context) error {
	ws, _, err := authenticated(c)
	if err != nil {
		return err
	}
	var q searchQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	res, err := ws.Resources.Search.Search(c.Request().Context(), ports.SearchParams{
		Query:  q.Query,
		Type:   q.Type,
		Status: q.Status,
		From:   q.From,
		To:     q.To,
		Limit:  q.Limit,
	})
	if err != nil {
		return err
	}
	return respond.Result(c, res)
}

func writePanel(c echo.Context, p domain.SearchPanel) error {
	return c.JSON(http.StatusOK, respond.Envelope{Success: true, Data: p, Provenance: p.Provenance})
}
