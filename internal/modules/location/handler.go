package location

import (
	"net/http"
	"strconv"

	"ride-hail-backend/internal/models"
	"ride-hail-backend/pkg/utils"

	"github.com/labstack/echo/v4"
)

// defaultRadiusKm is used when a nearby query omits radiusKm.
const defaultRadiusKm = 10

// Handler exposes the registry operations over plain request/response HTTP,
// for clients that cannot hold a streaming connection.
type Handler struct {
	svc ServiceInterface
}

// NewHandler creates a new location handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

// UpdateLocation handles POST /api/location/update.
func (h *Handler) UpdateLocation(c echo.Context) error {
	var req models.LocationUpdateRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	loc, err := h.svc.Update(c.Request().Context(), req.DriverID, req.Lat, req.Lng, req.Timestamp)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{
		"message":  "Location updated successfully",
		"location": loc,
	})
}

// GetOnlineDrivers handles GET /api/location/drivers.
func (h *Handler) GetOnlineDrivers(c echo.Context) error {
	drivers := h.svc.ListOnline()
	if drivers == nil {
		drivers = []models.DriverLocation{}
	}
	return utils.RespondWithJSON(c, http.StatusOK, drivers)
}

// GetDriverLocation handles GET /api/location/driver/:driverId. A stale entry
// is still returned, reported offline.
func (h *Handler) GetDriverLocation(c echo.Context) error {
	driverID, err := strconv.Atoi(c.Param("driverId"))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid driver ID")
	}

	loc, err := h.svc.Get(driverID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, loc)
}

// GetNearbyDrivers handles GET /api/location/nearby?lat=&lng=&radiusKm=.
func (h *Handler) GetNearbyDrivers(c echo.Context) error {
	lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid lat")
	}
	lng, err := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid lng")
	}
	radiusKm := float64(defaultRadiusKm)
	if raw := c.QueryParam("radiusKm"); raw != "" {
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil || radiusKm <= 0 {
			return utils.RespondWithError(c, http.StatusBadRequest, "Invalid radiusKm")
		}
	}

	drivers, err := h.svc.Nearby(lat, lng, radiusKm)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	if drivers == nil {
		drivers = []models.DriverLocation{}
	}
	return utils.RespondWithJSON(c, http.StatusOK, drivers)
}

// RemoveDriverLocation handles DELETE /api/location/driver/:driverId.
func (h *Handler) RemoveDriverLocation(c echo.Context) error {
	driverID, err := strconv.Atoi(c.Param("driverId"))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid driver ID")
	}

	if err := h.svc.Remove(driverID); err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{
		"message":  "Driver location removed",
		"driverId": driverID,
	})
}
