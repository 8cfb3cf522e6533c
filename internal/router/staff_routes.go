package router

import (
	"github.com/labstack/echo/v4"

	"github.com/fedeguidottii/easyfood/internal/handler"
	"github.com/fedeguidottii/easyfood/internal/middleware"
	"github.com/fedeguidottii/easyfood/internal/model"
)

// RegisterStaff registers the order board endpoints for waiters, the
// kitchen, and owners checking on service.
func RegisterStaff(e *echo.Echo, h *handler.StaffHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOwner, model.RoleWaiter, model.RoleKitchen),
	)

	g.GET("/staff/orders", h.ListOrders)
	g.PATCH("/order-items/:id/status", h.UpdateItemStatus)
	g.PATCH("/orders/:id/status", h.UpdateOrderStatus)
}
