package orders

import (
	"net/http"
	"strconv"

	"ride-hail-backend/internal/models"
	"ride-hail-backend/pkg/utils"

	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for orders.
type Handler struct {
	svc ServiceInterface
}

// NewHandler creates a new order handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

// CreateOrder handles POST /api/orders.
func (h *Handler) CreateOrder(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	var req models.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	order, err := h.svc.Create(c.Request().Context(), userID, req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusCreated, order)
}

// ListOrders handles GET /api/orders. Admins see everything, everyone else
// sees their own orders.
func (h *Handler) ListOrders(c echo.Context) error {
	userID, role, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	page, limit := utils.GetPageLimit(c)

	var (
		orders []*models.Order
		total  int
	)
	if role == "admin" {
		orders, total, err = h.svc.ListAll(c.Request().Context(), page, limit)
	} else {
		orders, total, err = h.svc.ListForUser(c.Request().Context(), userID, page, limit)
	}
	if err != nil {
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve orders")
	}
	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{"orders": orders, "total": total})
}

// GetOrder handles GET /api/orders/:orderId.
func (h *Handler) GetOrder(c echo.Context) error {
	orderID, err := strconv.Atoi(c.Param("orderId"))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID")
	}

	order, err := h.svc.Get(c.Request().Context(), orderID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, order)
}

// setStatus factors the four status-transition endpoints.
func (h *Handler) setStatus(c echo.Context, target string) error {
	orderID, err := strconv.Atoi(c.Param("orderId"))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID")
	}

	if err := h.svc.SetStatus(c.Request().Context(), orderID, target); err != nil {
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{
		"orderId": orderID,
		"status":  target,
	})
}

// ApproveOrder handles POST /api/orders/:orderId/approve.
func (h *Handler) ApproveOrder(c echo.Context) error {
	return h.setStatus(c, models.OrderStatusApproved)
}

// ArriveOrder handles POST /api/orders/:orderId/arrived.
func (h *Handler) ArriveOrder(c echo.Context) error {
	return h.setStatus(c, models.OrderStatusArrived)
}

// CompleteOrder handles POST /api/orders/:orderId/complete.
func (h *Handler) CompleteOrder(c echo.Context) error {
	return h.setStatus(c, models.OrderStatusComplete)
}

// CancelOrder handles POST /api/orders/:orderId/cancel.
func (h *Handler) CancelOrder(c echo.Context) error {
	return h.setStatus(c, models.OrderStatusCancelled)
}

// AssignDriver handles PUT /api/orders/driver.
func (h *Handler) AssignDriver(c echo.Context) error {
	var req models.AssignDriverRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	if err := h.svc.AssignDriver(c.Request().Context(), req.OrderID, req.DriverID); err != nil {
		return utils.HandleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteOrder handles DELETE /api/orders/:orderId.
func (h *Handler) DeleteOrder(c echo.Context) error {
	orderID, err := strconv.Atoi(c.Param("orderId"))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID")
	}

	if err := h.svc.Delete(c.Request().Context(), orderID); err != nil {
		return utils.HandleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
