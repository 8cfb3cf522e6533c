package router

import (
	"github.com/labstack/echo/v4"

	"github.com/fedeguidottii/easyfood/internal/handler"
	"github.com/fedeguidottii/easyfood/internal/middleware"
	"github.com/fedeguidottii/easyfood/internal/model"
)

// RegisterAdmin registers the platform operator endpoints.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	g.GET("/restaurants", h.ListRestaurants)
	g.GET("/users", h.ListUsers)
	g.DELETE("/restaurants/:rid", h.DeleteRestaurant)
}
