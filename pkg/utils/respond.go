package utils

import (
	"errors"
	"net/http"

	"ride-hail-backend/internal/models"

	"github.com/labstack/echo/v4"
)

// RespondWithJSON writes a JSON payload with the given status code.
func RespondWithJSON(c echo.Context, status int, payload interface{}) error {
	return c.JSON(status, payload)
}

// RespondWithError writes the standard error envelope.
func RespondWithError(c echo.Context, status int, message string) error {
	return c.JSON(status, models.ErrorResponse{Message: message})
}

// HandleServiceError maps service-layer sentinel errors onto HTTP statuses.
// Anything unrecognized is logged and reported as a 500.
func HandleServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return RespondWithError(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, models.ErrDriverNotFound):
		return RespondWithError(c, http.StatusNotFound, "Driver not found")
	case errors.Is(err, models.ErrInvalidCoordinates):
		return RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrInvalidStatusTransition):
		return RespondWithError(c, http.StatusConflict, err.Error())
	default:
		c.Logger().Error("service error: ", err)
		return RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
