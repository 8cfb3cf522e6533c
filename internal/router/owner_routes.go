package router

import (
	"github.com/labstack/echo/v4"

	"github.com/fedeguidottii/easyfood/internal/handler"
	"github.com/fedeguidottii/easyfood/internal/middleware"
	"github.com/fedeguidottii/easyfood/internal/model"
)

// RegisterOwner registers OWNER-scoped endpoints under /v1.
// All routes require a valid JWT and the OWNER role; every nested
// route re-checks that :rid belongs to the caller.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOwner),
	)

	// ---- Restaurants ----
	g.POST("/restaurants", o.CreateRestaurant)
	g.GET("/restaurants", o.ListRestaurants)
	g.GET("/restaurants/:rid", o.GetRestaurant)
	g.PUT("/restaurants/:rid", o.UpdateRestaurant)
	g.PATCH("/restaurants/:rid", o.UpdateRestaurant)
	g.DELETE("/restaurants/:rid", o.DeleteRestaurant)
	g.POST("/restaurants/:rid/logo", o.UploadLogo)

	// ---- Weekly price schedule ----
	g.GET("/restaurants/:rid/schedule", o.GetSchedule)
	g.PUT("/restaurants/:rid/schedule", o.PutSchedule)

	// ---- Tables ----
	g.POST("/restaurants/:rid/tables", o.CreateTable)
	g.POST("/restaurants/:rid/tables/bulk", o.CreateTablesBulk)
	g.GET("/restaurants/:rid/tables", o.ListTables)
	g.PUT("/restaurants/:rid/tables/:tid", o.UpdateTable)
	g.PATCH("/restaurants/:rid/tables/:tid", o.UpdateTable)
	g.POST("/restaurants/:rid/tables/:tid/rotate-qr", o.RotateTableQR)
	g.DELETE("/restaurants/:rid/tables/:tid", o.DeleteTable)

	// ---- Menu ----
	g.POST("/restaurants/:rid/categories", o.CreateCategory)
	g.GET("/restaurants/:rid/categories", o.ListCategories)
	g.PUT("/restaurants/:rid/categories/:cid", o.UpdateCategory)
	g.DELETE("/restaurants/:rid/categories/:cid", o.DeleteCategory)
	g.POST("/restaurants/:rid/dishes", o.CreateDish)
	g.GET("/restaurants/:rid/dishes", o.ListDishes)
	g.PUT("/restaurants/:rid/dishes/:did", o.UpdateDish)
	g.PATCH("/restaurants/:rid/dishes/:did", o.UpdateDish)
	g.DELETE("/restaurants/:rid/dishes/:did", o.DeleteDish)

	// ---- Staff ----
	g.POST("/restaurants/:rid/staff", o.CreateStaff)
	g.GET("/restaurants/:rid/staff", o.ListStaff)
	g.PATCH("/restaurants/:rid/staff/:uid", o.SetStaffActive)

	// ---- Bookings ----
	g.POST("/restaurants/:rid/bookings", o.CreateBooking)
	g.GET("/restaurants/:rid/bookings", o.ListBookings)
	g.DELETE("/restaurants/:rid/bookings/:bid", o.DeleteBooking)

	// ---- Table sessions ----
	g.POST("/restaurants/:rid/tables/:tid/session", o.OpenSession)
	g.GET("/restaurants/:rid/sessions", o.ListOpenSessions)
	g.DELETE("/restaurants/:rid/sessions/:sid", o.CloseSession)
}
