package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fedeguidottii/easyfood/internal/model"
	"github.com/fedeguidottii/easyfood/internal/repository"
)

// AdminHandler exposes the platform operator's endpoints: a global
// view over restaurants and accounts, and full restaurant removal.
type AdminHandler struct {
	RestaurantRepo *repository.RestaurantRepo
	UserRepo       *repository.UserRepo
}

func NewAdminHandler(restaurants *repository.RestaurantRepo, users *repository.UserRepo) *AdminHandler {
	if restaurants == nil || users == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{RestaurantRepo: restaurants, UserRepo: users}
}

// ListRestaurants returns every restaurant on the platform.
func (h *AdminHandler) ListRestaurants(c echo.Context) error {
	list, err := h.RestaurantRepo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]map[string]any, 0, len(list))
	for _, r := range list {
		out = append(out, r.JSON())
	}
	return c.JSON(http.StatusOK, echo.Map{"restaurants": out})
}

// ListUsers returns every account, newest first.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.UserRepo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	type userRow struct {
		ID           uint64  `json:"id"`
		Email        string  `json:"email"`
		Role         string  `json:"role"`
		RestaurantID *uint64 `json:"restaurant_id,omitempty"`
		IsActive     bool    `json:"is_active"`
	}
	out := make([]userRow, 0, len(users))
	for _, u := range users {
		out = append(out, userRow{ID: u.ID, Email: u.Email, Role: u.Role, RestaurantID: u.RestaurantID, IsActive: u.IsActive})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

// DeleteRestaurant removes a restaurant and everything under it:
// order items, orders, carts, sessions, bookings, schedules, dishes,
// categories and tables go in one transaction, leaf tables first.
// Deactivating the owner's staff accounts afterwards is best effort;
// a failure there leaves orphan logins that can no longer reach any
// data, so it is logged and the delete still reports success.
func (h *AdminHandler) DeleteRestaurant(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := pathID(c, "rid")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	if _, err := h.RestaurantRepo.GetByID(ctx, rid); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	// snapshot the staff list first; the cascade nulls their
	// restaurant_id reference
	staff, staffErr := h.UserRepo.ListByRestaurant(ctx, rid)

	tx, err := h.RestaurantRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.RestaurantRepo.DeleteCascadeTx(ctx, tx, rid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	committed = true

	// best effort: disable the staff accounts that pointed here
	if staffErr != nil {
		log.Printf("admin: list staff of deleted restaurant %d failed: %v", rid, staffErr)
		return c.NoContent(http.StatusNoContent)
	}
	for _, u := range staff {
		if u.Role == model.RoleOwner || u.Role == model.RoleAdmin {
			continue
		}
		if err := h.UserRepo.SetActive(ctx, u.ID, false); err != nil {
			log.Printf("admin: deactivate staff %d after restaurant delete failed: %v", u.ID, err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}
