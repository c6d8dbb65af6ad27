// Package respond renders the BFF's JSON envelope.
package respond

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hoardly/dashboard/internal/core/domain"
)

// Envelope is the shape of every BFF response, mirroring the backend's own
// {success, code, message, data} plus where the data came from.
type Envelope struct {
	Success    bool              `json:"success"`
	Code       string            `json:"code,omitempty"`
	Message    string            `json:"message,omitempty"`
	Data       any               `json:"data,omitempty"`
	Provenance domain.Provenance `json:"provenance,omitempty"`
	Redirect   string            `json:"redirect,omitempty"`
}

// OK writes data as a successful live response.
func OK(c echo.Context, status int, data any) error {
	return c.JSON(status, Envelope{Success: true, Data: data, Provenance: domain.ProvenanceLive})
}

// Result writes a read-path result with its provenance. Fallback results keep
// their explanatory message.
func Result[T any](c echo.Context, res domain.Result[T]) error {
	return c.JSON(http.StatusOK, Envelope{
		Success:    true,
		Message:    res.Message,
		Data:       res.Data,
		Provenance: res.Provenance,
	})
}

// Fail writes an error envelope.
func Fail(c echo.Context, status int, code, message string) error {
	return c.JSON(status, Envelope{Code: code, Message: message})
}

// Redirect writes an error envelope that tells the UI where to navigate.
func Redirect(c echo.Context, status int, code, message, to string) error {
	return c.JSON(status, Envelope{Code: code, Message: message, Redirect: to})
}
