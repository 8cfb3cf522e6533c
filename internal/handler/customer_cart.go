package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fedeguidottii/easyfood/internal/model"
	"github.com/fedeguidottii/easyfood/internal/queue"
	"github.com/fedeguidottii/easyfood/internal/repository"
	queue_publisher "github.com/fedeguidottii/easyfood/internal/service"
)

// CustomerHandler serves the PIN-authenticated endpoints a table's
// guests use: the shared cart, order submission and the live stream.
type CustomerHandler struct {
	SessionRepo    *repository.SessionRepo
	CartRepo       *repository.CartRepo
	MenuRepo       *repository.MenuRepo
	OrderRepo      *repository.OrderRepo
	RestaurantRepo *repository.RestaurantRepo
	TableRepo      *repository.TableRepo
}

func NewCustomerHandler(sessions *repository.SessionRepo, cart *repository.CartRepo,
	menu *repository.MenuRepo, orders *repository.OrderRepo,
	restaurants *repository.RestaurantRepo, tables *repository.TableRepo) *CustomerHandler {
	if sessions == nil || cart == nil || menu == nil || orders == nil || restaurants == nil || tables == nil {
		panic("nil repository passed to NewCustomerHandler")
	}
	return &CustomerHandler{
		SessionRepo:    sessions,
		CartRepo:       cart,
		MenuRepo:       menu,
		OrderRepo:      orders,
		RestaurantRepo: restaurants,
		TableRepo:      tables,
	}
}

// sessionFromCtx returns the session loaded by the SessionPIN middleware.
func sessionFromCtx(c echo.Context) (*model.TableSession, bool) {
	s, ok := c.Get("session").(*model.TableSession)
	return s, ok
}

// notifyCart fans out a cart-changed hint; delivery is best effort.
func (h *CustomerHandler) notifyCart(ctx context.Context, sessionID uint64) {
	if err := queue_publisher.PublishTableEvent(ctx, queue.TableEvent{
		Kind:      queue.KindCart,
		SessionID: sessionID,
	}); err != nil {
		log.Printf("cart: publish event for session %d failed: %v", sessionID, err)
	}
}

// GetCart returns the session's shared draft lines. Every guest at
// the table sees the same cart.
func (h *CustomerHandler) GetCart(c echo.Context) error {
	s, ok := sessionFromCtx(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	lines, err := h.CartRepo.ListBySession(c.Request().Context(), s.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	var total uint32
	for _, l := range lines {
		total += l.PriceCents * l.Quantity
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":       lines,
		"total_cents": total,
	})
}

// AddCartItem adds a dish to the cart. A line with the same dish and
// the same notes merges by quantity instead of duplicating.
func (h *CustomerHandler) AddCartItem(c echo.Context) error {
	s, ok := sessionFromCtx(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		DishID   uint64 `json:"dish_id"`
		Quantity uint32 `json:"quantity"`
		Notes    string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.DishID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dish_id required"})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	ctx := c.Request().Context()
	rid, err := h.SessionRepo.RestaurantIDForSession(ctx, s.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	dish, err := h.MenuRepo.GetDishByID(ctx, req.DishID)
	if err != nil || dish.RestaurantID != rid || !dish.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "dish not found"})
	}

	item, err := h.CartRepo.AddItem(ctx, s.ID, req.DishID, req.Quantity, strings.TrimSpace(req.Notes))
	if err != nil {
		if errors.Is(err, repository.ErrNoOpenSession) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "session is closed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add item failed"})
	}
	h.notifyCart(ctx, s.ID)
	return c.JSON(http.StatusCreated, item)
}

// UpdateCartItem changes a line's quantity. Quantity zero or below
// removes the line.
func (h *CustomerHandler) UpdateCartItem(c echo.Context) error {
	s, ok := sessionFromCtx(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	itemID, err := pathID(c, "itemID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}
	var req struct {
		Quantity int32 `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	if err := h.CartRepo.UpdateQuantity(ctx, s.ID, itemID, req.Quantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.notifyCart(ctx, s.ID)
	return c.NoContent(http.StatusNoContent)
}

// RemoveCartItem deletes a line. Removing a line someone else already
// deleted succeeds quietly; the cart is shared and races are normal.
func (h *CustomerHandler) RemoveCartItem(c echo.Context) error {
	s, ok := sessionFromCtx(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	itemID, err := pathID(c, "itemID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}
	ctx := c.Request().Context()
	if err := h.CartRepo.Remove(ctx, s.ID, itemID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove failed"})
	}
	h.notifyCart(ctx, s.ID)
	return c.NoContent(http.StatusNoContent)
}
