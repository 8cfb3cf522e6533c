package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fedeguidottii/easyfood/internal/model"
	"github.com/fedeguidottii/easyfood/internal/queue"
	"github.com/fedeguidottii/easyfood/internal/realtime"
	"github.com/fedeguidottii/easyfood/internal/repository"
	queue_publisher "github.com/fedeguidottii/easyfood/internal/service"
)

// SubmitOrder turns the session's cart into an order. Everything
// happens in one transaction: the cart lines are locked and read, the
// order and its items are written, and the cart is cleared. Either
// the customer gets an order and an empty cart, or neither — a
// failure at any point leaves the cart untouched.
func (h *CustomerHandler) SubmitOrder(c echo.Context) error {
	s, ok := sessionFromCtx(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()

	rid, err := h.SessionRepo.RestaurantIDForSession(ctx, s.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	tx, err := h.OrderRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "submit failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := repository.RequireOpenSessionTx(ctx, tx, s.ID); err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "session is closed"})
	}
	lines, err := h.CartRepo.ListBySessionTx(ctx, tx, s.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "submit failed"})
	}
	if len(lines) == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cart is empty"})
	}

	dishIDs := make([]uint64, 0, len(lines))
	for _, l := range lines {
		dishIDs = append(dishIDs, l.DishID)
	}
	prices, err := h.MenuRepo.PricesByDishIDs(ctx, rid, dishIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "submit failed"})
	}
	total, ok := model.OrderTotalCents(lines, prices)
	if !ok {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cart contains unavailable dishes"})
	}

	rec := repository.OrderRecord{SessionID: s.ID, Status: model.OrderOpen, TotalAmountCents: total}
	if err := h.OrderRepo.CreateTx(ctx, tx, &rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "submit failed"})
	}
	items := make([]repository.OrderItemRecord, 0, len(lines))
	for _, l := range lines {
		items = append(items, repository.OrderItemRecord{
			OrderID:  rec.ID,
			DishID:   l.DishID,
			Quantity: l.Quantity,
			Note:     l.Notes,
			Status:   model.ItemPending,
		})
	}
	if err := h.OrderRepo.CreateItemsBulkTx(ctx, tx, items); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "submit failed"})
	}
	if err := h.CartRepo.ClearTx(ctx, tx, s.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "submit failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "submit failed"})
	}
	committed = true

	h.publishSubmitted(c, rid, &rec, len(items))
	h.notifyCart(ctx, s.ID)
	if err := queue_publisher.PublishTableEvent(ctx, queue.TableEvent{
		Kind:      queue.KindOrders,
		SessionID: s.ID,
	}); err != nil {
		log.Printf("orders: publish event for session %d failed: %v", s.ID, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id":          rec.ID,
		"session_id":  rec.SessionID,
		"status":      rec.Status,
		"total_cents": rec.TotalAmountCents,
		"item_count":  len(items),
		"created_at":  rec.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// publishSubmitted emits the durable order.submitted event consumed
// by the background logger. Best effort.
func (h *CustomerHandler) publishSubmitted(c echo.Context, rid uint64, rec *repository.OrderRecord, itemCount int) {
	ctx := c.Request().Context()
	ev := queue.OrderSubmittedEvent{
		OrderID:          rec.ID,
		SessionID:        rec.SessionID,
		RestaurantID:     rid,
		ItemCount:        itemCount,
		TotalAmountCents: rec.TotalAmountCents,
		SubmittedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if rest, err := h.RestaurantRepo.GetByID(ctx, rid); err == nil {
		ev.RestaurantName = rest.Name
	}
	if s, err := h.SessionRepo.GetByID(ctx, rec.SessionID); err == nil {
		if t, err := h.TableRepo.GetByID(ctx, s.TableID); err == nil {
			ev.TableNumber = t.Number
		}
	}
	if err := queue_publisher.PublishOrderSubmitted(ctx, ev); err != nil {
		log.Printf("orders: publish order.submitted for order %d failed: %v", rec.ID, err)
	}
}

// ListOrders returns the session's submitted orders, newest first.
func (h *CustomerHandler) ListOrders(c echo.Context) error {
	s, ok := sessionFromCtx(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orders, err := h.OrderRepo.ListBySession(c.Request().Context(), s.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

// CancelOrder lets the table withdraw an order the kitchen has not
// started yet. Once any item moved past PENDING the cancel is refused.
func (h *CustomerHandler) CancelOrder(c echo.Context) error {
	s, ok := sessionFromCtx(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID, err := pathID(c, "orderID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	ctx := c.Request().Context()
	if err := h.OrderRepo.CancelForSession(ctx, orderID, s.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "order is already being prepared"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	if err := queue_publisher.PublishTableEvent(ctx, queue.TableEvent{
		Kind:      queue.KindOrders,
		SessionID: s.ID,
	}); err != nil {
		log.Printf("orders: publish event for session %d failed: %v", s.ID, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Stream pushes live cart and order snapshots over Server-Sent
// Events. The subscription and its broker queue are bound to the
// request context, so a closed tab tears everything down.
func (h *CustomerHandler) Stream(c echo.Context) error {
	s, ok := sessionFromCtx(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()

	events, err := queue.SubscribeSession(ctx, s.ID)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "live updates unavailable"})
	}

	sync := realtime.NewSynchronizer(s.ID,
		func(fctx context.Context) (any, error) { return h.CartRepo.ListBySession(fctx, s.ID) },
		func(fctx context.Context) (any, error) { return h.OrderRepo.ListBySession(fctx, s.ID) },
	)
	snaps := sync.Run(ctx, events)

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	for snap := range snaps {
		payload, err := json.Marshal(snap.Payload)
		if err != nil {
			log.Printf("stream: marshal %s snapshot for session %d failed: %v", snap.Kind, s.ID, err)
			continue
		}
		if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", snap.Kind, payload); err != nil {
			return nil
		}
		res.Flush()
	}
	return nil
}
