package drivers

import (
	"net/http"
	"strconv"

	"ride-hail-backend/pkg/utils"

	"github.com/labstack/echo/v4"
)

// Handler exposes the driver directory over HTTP.
type Handler struct {
	repo RepositoryInterface
}

func NewHandler(repo RepositoryInterface) *Handler {
	return &Handler{repo: repo}
}

// ListApprovedDrivers returns the roster of drivers cleared to take orders.
func (h *Handler) ListApprovedDrivers(c echo.Context) error {
	list, err := h.repo.ListApproved(c.Request().Context())
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, list)
}

// GetDriver returns the directory record for one driver.
func (h *Handler) GetDriver(c echo.Context) error {
	driverID, err := strconv.Atoi(c.Param("driverId"))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "invalid driver id")
	}

	d, err := h.repo.FindByID(c.Request().Context(), driverID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, d)
}
