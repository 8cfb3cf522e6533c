package router

import (
	"github.com/labstack/echo/v4"

	"github.com/fedeguidottii/easyfood/internal/handler"
)

// RegisterPublic registers the unauthenticated QR entry points. The
// cache middleware (built from Redis config in main) wraps the menu
// reads only; joining a session is a write and must never be cached.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	// menu for the scanned table, served from cache when warm
	e.GET("/v1/t/:token/menu", p.Menu, cache)
	// cross-restaurant dish search
	e.GET("/v1/search/dishes", p.SearchDishes, cache)
	// the table's running session, if any
	e.GET("/v1/t/:token/session", p.CurrentSession)
	// find or open the table's session; returns the session PIN
	e.POST("/v1/t/:token/session", p.JoinSession)
}
