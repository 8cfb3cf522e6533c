package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fedeguidottii/easyfood/internal/model"
	"github.com/fedeguidottii/easyfood/internal/repository"
)

type staffReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // WAITER | KITCHEN
}

// CreateStaff adds a waiter or kitchen account scoped to the
// restaurant. Staff log in through the normal /auth/login endpoint.
func (h *OwnerHandler) CreateStaff(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}
	var req staffReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	if role != model.RoleWaiter && role != model.RoleKitchen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be WAITER or KITCHEN"})
	}

	uid, err := h.UserRepo.Create(ctx, req.Email, req.Password, role, &rid, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create staff failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":    uid,
		"email": req.Email,
		"role":  role,
	})
}

// ListStaff returns the restaurant's waiter and kitchen accounts.
func (h *OwnerHandler) ListStaff(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}
	users, err := h.UserRepo.ListByRestaurant(ctx, rid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	type staffPart struct {
		ID       uint64 `json:"id"`
		Email    string `json:"email"`
		Role     string `json:"role"`
		IsActive bool   `json:"is_active"`
	}
	out := make([]staffPart, 0, len(users))
	for _, u := range users {
		out = append(out, staffPart{ID: u.ID, Email: u.Email, Role: u.Role, IsActive: u.IsActive})
	}
	return c.JSON(http.StatusOK, echo.Map{"staff": out})
}

// SetStaffActive enables or disables a staff account. Disabled
// accounts cannot log in; existing access tokens age out on their own.
func (h *OwnerHandler) SetStaffActive(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}
	uid, err := pathID(c, "uid")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil || req.IsActive == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_active required"})
	}

	u, err := h.UserRepo.GetByID(ctx, uid)
	if err != nil || u.RestaurantID == nil || *u.RestaurantID != rid {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "staff not found"})
	}
	if err := h.UserRepo.SetActive(ctx, uid, *req.IsActive); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
