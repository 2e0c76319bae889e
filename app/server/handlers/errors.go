package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type errorMessage struct {
	Error string `json:"error"`
}

func (a *App) er(c echo.Context, statusCode int) error {
	return a.erMsg(c, statusCode, http.StatusText(statusCode))
}

// erMsg is the single exit for error responses; service failures never leak
// internals past this point.
func (a *App) erMsg(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, &errorMessage{Error: message})
}
