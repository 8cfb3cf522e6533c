package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fedeguidottii/easyfood/internal/model"
	"github.com/fedeguidottii/easyfood/internal/repository"
)

// ----- categories -----

type categoryReq struct {
	Name      string `json:"name"`
	SortOrder uint32 `json:"sort_order"`
}

func (h *OwnerHandler) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	cat := &model.Category{RestaurantID: rid, Name: req.Name, SortOrder: req.SortOrder}
	if err := h.MenuRepo.CreateCategory(ctx, cat); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create category failed"})
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *OwnerHandler) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}
	cats, err := h.MenuRepo.ListCategories(ctx, rid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": cats})
}

func (h *OwnerHandler) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}
	cid, err := pathID(c, "cid")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if err := h.MenuRepo.UpdateCategory(ctx, cid, rid, req.Name, req.SortOrder); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *OwnerHandler) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}
	cid, err := pathID(c, "cid")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}
	if err := h.MenuRepo.DeleteCategory(ctx, cid, rid); err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "category still has dishes"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- dishes -----

type dishReq struct {
	CategoryID  uint64  `json:"category_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	PriceCents  uint32  `json:"price_cents"`
	IsActive    *bool   `json:"is_active"`
}

func (h *OwnerHandler) CreateDish(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}
	var req dishReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.CategoryID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and category_id required"})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	d := &model.Dish{
		RestaurantID: rid,
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		IsActive:     active,
	}
	if err := h.MenuRepo.CreateDish(ctx, d); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create dish failed"})
	}
	return c.JSON(http.StatusCreated, d.JSON())
}

func (h *OwnerHandler) ListDishes(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}
	dishes, err := h.MenuRepo.ListDishes(ctx, rid, false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]map[string]any, 0, len(dishes))
	for _, d := range dishes {
		out = append(out, d.JSON())
	}
	return c.JSON(http.StatusOK, echo.Map{"dishes": out})
}

func (h *OwnerHandler) UpdateDish(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}
	did, err := pathID(c, "did")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid dish id"})
	}
	d, err := h.MenuRepo.GetDishByID(ctx, did)
	if err != nil || d.RestaurantID != rid {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "dish not found"})
	}

	var raw map[string]any
	if err := c.Bind(&raw); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	raw = model.Canonical(raw)

	if v, ok := raw["name"].(string); ok && strings.TrimSpace(v) != "" {
		d.Name = strings.TrimSpace(v)
	}
	if v, ok := raw["description"].(string); ok {
		d.Description = &v
	}
	if v, ok := raw["price_cents"].(float64); ok && v >= 0 {
		d.PriceCents = uint32(v)
	}
	if v, ok := raw["category_id"].(float64); ok && v > 0 {
		d.CategoryID = uint64(v)
	}
	if v, ok := raw["is_active"].(bool); ok {
		d.IsActive = v
	}

	if err := h.MenuRepo.UpdateDish(ctx, d); err != nil {
		if errors.Is(err, repository.ErrDishNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "dish not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, d.JSON())
}

func (h *OwnerHandler) DeleteDish(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}
	did, err := pathID(c, "did")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid dish id"})
	}
	if err := h.MenuRepo.DeleteDish(ctx, did, rid); err != nil {
		switch {
		case errors.Is(err, repository.ErrDishNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "dish not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "dish appears in orders; deactivate it instead"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
