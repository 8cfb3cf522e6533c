package router

import (
	"github.com/labstack/echo/v4"

	"github.com/fedeguidottii/easyfood/internal/handler"
	"github.com/fedeguidottii/easyfood/internal/middleware"
	"github.com/fedeguidottii/easyfood/internal/repository"
)

// RegisterCustomer registers the table-guest endpoints under
// /v1/sessions/:id. No account is needed; every request authenticates
// with the session PIN handed out when the QR code was scanned.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, sessions *repository.SessionRepo) {
	g := e.Group("/v1/sessions/:id", middleware.SessionPIN(sessions))

	// shared cart
	g.GET("/cart", h.GetCart)
	g.POST("/cart/items", h.AddCartItem)
	g.PATCH("/cart/items/:itemID", h.UpdateCartItem)
	g.DELETE("/cart/items/:itemID", h.RemoveCartItem)

	// orders
	g.POST("/orders", h.SubmitOrder)
	g.GET("/orders", h.ListOrders)
	g.DELETE("/orders/:orderID", h.CancelOrder)

	// live view over SSE
	g.GET("/stream", h.Stream)
}
