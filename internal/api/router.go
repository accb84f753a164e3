package api

import (
	"net/http"

	"ride-hail-backend/internal/api/middleware"
	"ride-hail-backend/internal/modules/drivers"
	"ride-hail-backend/internal/modules/location"
	"ride-hail-backend/internal/modules/orders"
	"ride-hail-backend/internal/modules/stream"

	"github.com/labstack/echo/v4"
)

// SetupRoutes sets up all the API endpoints for the application.
func SetupRoutes(
	e *echo.Echo,
	jwtSecret string,
	locationHandler *location.Handler,
	driverHandler *drivers.Handler,
	orderHandler *orders.Handler,
	gateway *stream.Gateway,
) {
	authMiddleware := middleware.JWTAuth(jwtSecret)
	adminRequired := middleware.AdminRequired()

	// --- Public Routes ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Welcome to the ride-hail API!"})
	})

	// --- Live Location Routes ---
	// The request/response facade over the same registry the streaming
	// gateway writes into.
	locationGroup := e.Group("/api/location", authMiddleware)
	{
		locationGroup.POST("/update", locationHandler.UpdateLocation)
		locationGroup.GET("/drivers", locationHandler.GetOnlineDrivers)
		locationGroup.GET("/driver/:driverId", locationHandler.GetDriverLocation)
		locationGroup.GET("/nearby", locationHandler.GetNearbyDrivers)
		locationGroup.DELETE("/driver/:driverId", locationHandler.RemoveDriverLocation, adminRequired)
	}

	// --- Driver Directory Routes ---
	driverGroup := e.Group("/api/drivers", authMiddleware)
	{
		driverGroup.GET("", driverHandler.ListApprovedDrivers)
		driverGroup.GET("/:driverId", driverHandler.GetDriver)
	}

	// --- Streaming Endpoint ---
	// Everything after the upgrade speaks the JSON command protocol.
	e.GET("/ws/location", gateway.HandleWS, authMiddleware)

	// --- Order Routes ---
	orderGroup := e.Group("/api/orders", authMiddleware)
	{
		orderGroup.POST("", orderHandler.CreateOrder)
		orderGroup.GET("", orderHandler.ListOrders)
		orderGroup.GET("/:orderId", orderHandler.GetOrder)
		orderGroup.POST("/:orderId/approve", orderHandler.ApproveOrder)
		orderGroup.POST("/:orderId/arrived", orderHandler.ArriveOrder)
		orderGroup.POST("/:orderId/complete", orderHandler.CompleteOrder)
		orderGroup.POST("/:orderId/cancel", orderHandler.CancelOrder)
		orderGroup.PUT("/driver", orderHandler.AssignDriver)
		orderGroup.DELETE("/:orderId", orderHandler.DeleteOrder, adminRequired)
	}
}
