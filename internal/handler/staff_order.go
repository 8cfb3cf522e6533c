package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fedeguidottii/easyfood/internal/model"
	"github.com/fedeguidottii/easyfood/internal/queue"
	"github.com/fedeguidottii/easyfood/internal/repository"
	queue_publisher "github.com/fedeguidottii/easyfood/internal/service"
)

// StaffHandler serves the waiter and kitchen order board: the open
// orders of the restaurant and the per-item fulfillment lifecycle.
type StaffHandler struct {
	UserRepo       *repository.UserRepo
	OrderRepo      *repository.OrderRepo
	RestaurantRepo *repository.RestaurantRepo
}

func NewStaffHandler(users *repository.UserRepo, orders *repository.OrderRepo, restaurants *repository.RestaurantRepo) *StaffHandler {
	if users == nil || orders == nil || restaurants == nil {
		panic("nil repository passed to NewStaffHandler")
	}
	return &StaffHandler{UserRepo: users, OrderRepo: orders, RestaurantRepo: restaurants}
}

// restaurantForCaller resolves which restaurant the caller works.
// Waiter and kitchen accounts carry it on their user row; owners name
// one of theirs with the restaurant_id query parameter.
func (h *StaffHandler) restaurantForCaller(ctx context.Context, c echo.Context) (uint64, error) {
	uid, err := getUserID(c)
	if err != nil {
		return 0, err
	}
	u, err := h.UserRepo.GetByID(ctx, uid)
	if err != nil {
		return 0, err
	}
	if u.RestaurantID != nil {
		return *u.RestaurantID, nil
	}
	if u.Role == model.RoleOwner {
		rid, err := strconv.ParseUint(c.QueryParam("restaurant_id"), 10, 64)
		if err != nil {
			return 0, repository.ErrRestaurantNotFound
		}
		if _, err := h.RestaurantRepo.GetByIDAndOwner(ctx, rid, uid); err != nil {
			return 0, err
		}
		return rid, nil
	}
	return 0, repository.ErrForbidden
}

// ListOrders shows the restaurant's orders for the board, optionally
// filtered by status (default OPEN).
func (h *StaffHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.restaurantForCaller(ctx, c)
	if err != nil {
		return staffScopeError(c, err)
	}
	status := strings.TrimSpace(c.QueryParam("status"))
	if status == "" {
		status = model.OrderOpen
	}
	if strings.EqualFold(status, "all") {
		status = ""
	}
	orders, err := h.OrderRepo.ListByRestaurant(ctx, rid, status)
	if err != nil {
		if errors.Is(err, model.ErrUnknownStatus) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

// UpdateItemStatus advances one dish through PENDING, IN_PREPARATION,
// READY, SERVED, or cancels it. Steps only move forward; a SERVED or
// CANCELLED item is final.
func (h *StaffHandler) UpdateItemStatus(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.restaurantForCaller(ctx, c)
	if err != nil {
		return staffScopeError(c, err)
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Status) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status required"})
	}

	if err := h.OrderRepo.UpdateItemStatus(ctx, itemID, rid, req.Status); err != nil {
		switch {
		case errors.Is(err, model.ErrUnknownStatus):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		case errors.Is(err, repository.ErrOrderNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order item not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "invalid status transition"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	if err := queue_publisher.PublishTableEvent(ctx, queue.TableEvent{Kind: queue.KindOrderItems}); err != nil {
		log.Printf("staff: publish order_items event failed: %v", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateOrderStatus settles an order: OPEN orders can be marked PAID
// or CANCELLED, nothing else moves.
func (h *StaffHandler) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.restaurantForCaller(ctx, c)
	if err != nil {
		return staffScopeError(c, err)
	}
	orderID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Status) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status required"})
	}

	if err := h.OrderRepo.UpdateOrderStatus(ctx, orderID, rid, req.Status); err != nil {
		switch {
		case errors.Is(err, model.ErrUnknownStatus):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		case errors.Is(err, repository.ErrOrderNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "invalid status transition"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	if err := queue_publisher.PublishTableEvent(ctx, queue.TableEvent{Kind: queue.KindOrderItems}); err != nil {
		log.Printf("staff: publish order_items event failed: %v", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func staffScopeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrRestaurantNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
	}
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}
