package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fedeguidottii/easyfood/internal/config"
	"github.com/fedeguidottii/easyfood/internal/repository"
)

// OwnerHandler bundles repositories for restaurant owners to manage
// their restaurants, tables, menus, staff and bookings.
type OwnerHandler struct {
	Cfg             config.Config
	RestaurantRepo  *repository.RestaurantRepo
	TableRepo       *repository.TableRepo
	MenuRepo        *repository.MenuRepo
	ScheduleRepo    *repository.ScheduleRepo
	SessionRepo     *repository.SessionRepo
	BookingRepo     *repository.BookingRepo
	UserRepo        *repository.UserRepo
}

// NewOwnerHandler constructs a new OwnerHandler and panics if any dependency is nil.
func NewOwnerHandler(cfg config.Config, restaurants *repository.RestaurantRepo, tables *repository.TableRepo,
	menu *repository.MenuRepo, schedules *repository.ScheduleRepo, sessions *repository.SessionRepo,
	bookings *repository.BookingRepo, users *repository.UserRepo) *OwnerHandler {
	if restaurants == nil || tables == nil || menu == nil || schedules == nil || sessions == nil || bookings == nil || users == nil {
		panic("nil repository passed to NewOwnerHandler")
	}
	return &OwnerHandler{
		Cfg:            cfg,
		RestaurantRepo: restaurants,
		TableRepo:      tables,
		MenuRepo:       menu,
		ScheduleRepo:   schedules,
		SessionRepo:    sessions,
		BookingRepo:    bookings,
		UserRepo:       users,
	}
}

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// requireOwnedRestaurant verifies that the restaurant in the path
// belongs to the authenticated owner, returning its ID. Ownership
// misses surface as repository.ErrRestaurantNotFound so callers can
// answer 404 without leaking which restaurants exist.
func (h *OwnerHandler) requireOwnedRestaurant(ctx context.Context, c echo.Context) (uint64, error) {
	ownerID, err := getUserID(c)
	if err != nil {
		return 0, err
	}
	rid, err := pathID(c, "rid")
	if err != nil {
		return 0, repository.ErrRestaurantNotFound
	}
	if _, err := h.RestaurantRepo.GetByIDAndOwner(ctx, rid, ownerID); err != nil {
		return 0, err
	}
	return rid, nil
}
