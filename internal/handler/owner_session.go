package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fedeguidottii/easyfood/internal/repository"
)

// OpenSession seats guests at a table. If the table already has an
// OPEN session the existing one is returned (200) instead of creating
// a duplicate (201): there is never more than one open session per
// table. Cover charge and AYCE pricing are frozen onto the session at
// open time so later menu edits don't change a running bill.
func (h *OwnerHandler) OpenSession(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}
	t, err := h.ownedTable(ctx, c, rid)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
	}
	var req struct {
		CustomerCount uint32 `json:"customer_count"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CustomerCount == 0 {
		req.CustomerCount = 1
	}

	rest, err := h.RestaurantRepo.GetByID(ctx, rid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	ayce := h.sessionPriceFor(ctx, rest, time.Now())

	s, created, err := h.SessionRepo.Open(ctx, t.ID, req.CustomerCount, rest.CoverChargeCents, ayce)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "open session failed"})
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, s.JSON(true))
}

// ListOpenSessions returns every running session of the restaurant.
func (h *OwnerHandler) ListOpenSessions(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}
	sessions, err := h.SessionRepo.ListOpenByRestaurant(ctx, rid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"sessions": sessions})
}

// CloseSession ends a running session when the table pays and leaves.
// The draft cart is discarded; submitted orders stay for history.
func (h *OwnerHandler) CloseSession(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}
	sid, err := pathID(c, "sid")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	owner, err := h.SessionRepo.RestaurantIDForSession(ctx, sid)
	if err != nil || owner != rid {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	if err := h.SessionRepo.Close(ctx, sid); err != nil {
		if errors.Is(err, repository.ErrNoOpenSession) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "session already closed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "close failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
