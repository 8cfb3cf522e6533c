package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fedeguidottii/easyfood/internal/model"
	"github.com/fedeguidottii/easyfood/internal/repository"
)

type tableReq struct {
	Number   string `json:"table_number"`
	Seats    uint32 `json:"seats"`
	IsActive *bool  `json:"is_active"`
}

// CreateTable adds one table to a restaurant. A QR token is minted on
// creation and returned so the owner can print the code immediately.
func (h *OwnerHandler) CreateTable(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}
	var req tableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Number = strings.TrimSpace(req.Number)
	if req.Number == "" || req.Seats == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_number and seats required"})
	}

	t := &model.Table{
		RestaurantID: rid,
		Number:       req.Number,
		Seats:        req.Seats,
		IsActive:     true,
	}
	if err := h.TableRepo.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "table number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create table failed"})
	}
	return c.JSON(http.StatusCreated, t.JSON())
}

// CreateTablesBulk creates `count` numbered tables in one shot,
// continuing from the highest existing number.
func (h *OwnerHandler) CreateTablesBulk(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}
	var req struct {
		Count int    `json:"count"`
		Seats uint32 `json:"seats"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Count <= 0 || req.Count > 200 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "count must be between 1 and 200"})
	}
	if req.Seats == 0 {
		req.Seats = 4
	}
	tables, err := h.TableRepo.CreateBulk(ctx, rid, req.Count, req.Seats)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create tables failed"})
	}
	out := make([]map[string]any, 0, len(tables))
	for _, t := range tables {
		out = append(out, t.JSON())
	}
	return c.JSON(http.StatusCreated, echo.Map{"tables": out})
}

// ListTables returns all tables of a restaurant.
func (h *OwnerHandler) ListTables(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}
	tables, err := h.TableRepo.ListByRestaurant(ctx, rid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]map[string]any, 0, len(tables))
	for _, t := range tables {
		out = append(out, t.JSON())
	}
	return c.JSON(http.StatusOK, echo.Map{"tables": out})
}

// UpdateTable changes number, seats or the active flag.
func (h *OwnerHandler) UpdateTable(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}
	t, err := h.ownedTable(ctx, c, rid)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
	}

	var raw map[string]any
	if err := c.Bind(&raw); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	raw = model.Canonical(raw)

	number := t.Number
	if v, ok := raw["table_number"].(string); ok && strings.TrimSpace(v) != "" {
		number = strings.TrimSpace(v)
	}
	seats := t.Seats
	if v, ok := raw["seats"].(float64); ok && v > 0 {
		seats = uint32(v)
	}
	active := t.IsActive
	if v, ok := raw["is_active"].(bool); ok {
		active = v
	}

	if err := h.TableRepo.Update(ctx, t.ID, number, seats, active); err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	t, err = h.TableRepo.GetByID(ctx, t.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, t.JSON())
}

// RotateTableQR invalidates a table's printed QR code by minting a
// fresh token. Old codes stop resolving immediately.
func (h *OwnerHandler) RotateTableQR(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}
	t, err := h.ownedTable(ctx, c, rid)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
	}
	token, err := h.TableRepo.RotateQRToken(ctx, t.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "rotate failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"qr_token": token})
}

// DeleteTable removes a table that has no session history.
func (h *OwnerHandler) DeleteTable(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}
	t, err := h.ownedTable(ctx, c, rid)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
	}
	if err := h.TableRepo.Delete(ctx, t.ID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "table has session history; deactivate it instead"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ownedTable loads the table in the path and checks it belongs to rid.
func (h *OwnerHandler) ownedTable(ctx context.Context, c echo.Context, rid uint64) (*model.Table, error) {
	tid, err := pathID(c, "tid")
	if err != nil {
		return nil, repository.ErrTableNotFound
	}
	t, err := h.TableRepo.GetByID(ctx, tid)
	if err != nil {
		return nil, err
	}
	if t.RestaurantID != rid {
		return nil, repository.ErrTableNotFound
	}
	return t, nil
}
