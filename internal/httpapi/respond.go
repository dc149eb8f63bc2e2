package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(c echo.Context, code int, message string) error {
	return c.JSON(code, errorResponse{Error: message})
}

func badRequest(c echo.Context, message string) error {
	return respondError(c, http.StatusBadRequest, message)
}

func internalError(c echo.Context, message string) error {
	return respondError(c, http.StatusInternalServerError, message)
}
