package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fedeguidottii/easyfood/internal/model"
	"github.com/fedeguidottii/easyfood/internal/repository"
)

type bookingReq struct {
	TableID   *uint64 `json:"table_id"`
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Guests    uint32  `json:"guests"`
	BookedFor string  `json:"booked_for"` // RFC3339
	Note      *string `json:"note"`
}

// CreateBooking records an advance reservation, optionally pinned to
// a specific table.
func (h *OwnerHandler) CreateBooking(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Guests == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and guests required"})
	}
	bookedFor, err := time.Parse(time.RFC3339, req.BookedFor)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booked_for must be RFC3339"})
	}
	if req.TableID != nil {
		t, err := h.TableRepo.GetByID(ctx, *req.TableID)
		if err != nil || t.RestaurantID != rid {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
	}

	b := &model.Booking{
		RestaurantID: rid,
		TableID:      req.TableID,
		Name:         req.Name,
		Phone:        strings.TrimSpace(req.Phone),
		Guests:       req.Guests,
		BookedFor:    bookedFor.UTC(),
		Note:         req.Note,
	}
	if err := h.BookingRepo.Create(ctx, b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}
	return c.JSON(http.StatusCreated, b)
}

// ListBookings returns upcoming and past bookings, soonest first.
func (h *OwnerHandler) ListBookings(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}
	bookings, err := h.BookingRepo.ListByRestaurant(ctx, rid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// DeleteBooking removes a booking.
func (h *OwnerHandler) DeleteBooking(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}
	bid, err := pathID(c, "bid")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if err := h.BookingRepo.Delete(ctx, bid, rid); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
