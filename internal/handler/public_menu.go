package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fedeguidottii/easyfood/internal/model"
	"github.com/fedeguidottii/easyfood/internal/repository"
)

// PublicHandler serves the QR-code entry points that need no login:
// the table's menu and joining the table's session.
type PublicHandler struct {
	RestaurantRepo *repository.RestaurantRepo
	TableRepo      *repository.TableRepo
	MenuRepo       *repository.MenuRepo
	ScheduleRepo   *repository.ScheduleRepo
	SessionRepo    *repository.SessionRepo
}

func NewPublicHandler(restaurants *repository.RestaurantRepo, tables *repository.TableRepo,
	menu *repository.MenuRepo, schedules *repository.ScheduleRepo, sessions *repository.SessionRepo) *PublicHandler {
	if restaurants == nil || tables == nil || menu == nil || schedules == nil || sessions == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{
		RestaurantRepo: restaurants,
		TableRepo:      tables,
		MenuRepo:       menu,
		ScheduleRepo:   schedules,
		SessionRepo:    sessions,
	}
}

// resolveTable maps the QR token in the path to an active table and
// its restaurant. Unknown or rotated tokens answer 404.
func (h *PublicHandler) resolveTable(ctx context.Context, c echo.Context) (*model.Table, *model.Restaurant, error) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		return nil, nil, repository.ErrTableNotFound
	}
	t, err := h.TableRepo.GetByQRToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	rest, err := h.RestaurantRepo.GetByID(ctx, t.RestaurantID)
	if err != nil {
		return nil, nil, err
	}
	if !rest.IsActive {
		return nil, nil, repository.ErrTableNotFound
	}
	return t, rest, nil
}

// Menu returns the restaurant's menu for the scanned table: profile,
// categories in display order, and the active dishes of each. This
// endpoint sits behind the response cache, so repeated scans at a
// busy table don't hammer the database.
func (h *PublicHandler) Menu(c echo.Context) error {
	ctx := c.Request().Context()
	t, rest, err := h.resolveTable(ctx, c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
	}

	cats, err := h.MenuRepo.ListCategories(ctx, rest.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	dishes, err := h.MenuRepo.ListDishes(ctx, rest.ID, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	byCategory := make(map[uint64][]map[string]any, len(cats))
	for _, d := range dishes {
		byCategory[d.CategoryID] = append(byCategory[d.CategoryID], d.JSON())
	}
	menu := make([]map[string]any, 0, len(cats))
	for _, cat := range cats {
		entry := map[string]any{
			"id":         cat.ID,
			"name":       cat.Name,
			"sort_order": cat.SortOrder,
			"dishes":     byCategory[cat.ID],
		}
		if entry["dishes"] == nil {
			entry["dishes"] = []map[string]any{}
		}
		menu = append(menu, entry)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"restaurant": rest.JSON(),
		"table":      t.JSON(),
		"menu":       menu,
	})
}

// CurrentSession returns the table's running session, or 404 when
// the table is free. Late arrivals use it to pick up the PIN their
// party is already ordering with.
func (h *PublicHandler) CurrentSession(c echo.Context) error {
	ctx := c.Request().Context()
	t, _, err := h.resolveTable(ctx, c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
	}
	s, err := h.SessionRepo.FindOpenByTable(ctx, t.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNoOpenSession) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no open session"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, s.JSON(true))
}

// JoinSession finds or opens the table's session for arriving guests.
// Physical possession of the QR code is the credential: the response
// includes the session PIN, which the customer endpoints then require
// on every call. Re-scans at an occupied table return the running
// session unchanged.
func (h *PublicHandler) JoinSession(c echo.Context) error {
	ctx := c.Request().Context()
	t, rest, err := h.resolveTable(ctx, c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
	}
	var req struct {
		CustomerCount uint32 `json:"customer_count"`
	}
	// an empty body is fine (Bind skips it); a malformed one is not
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CustomerCount == 0 {
		req.CustomerCount = 1
	}

	ayce := uint32(0)
	if rest.AllYouCanEat {
		entries, err := h.ScheduleRepo.ListByRestaurant(ctx, rest.ID)
		if err == nil {
			now := time.Now()
			if price, ok := model.ScheduleLookup(entries, now.Weekday(), model.MealSlotAt(now)); ok {
				ayce = price
			}
		}
	}

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

// SearchDishes is the public cross-restaurant dish search with
// name/restaurant/category filters, a price ceiling and pagination.
func (h *PublicHandler) SearchDishes(c echo.Context) error {
	q := repository.DishSearchQuery{
		Name:       strings.TrimSpace(c.QueryParam("name")),
		Restaurant: strings.TrimSpace(c.QueryParam("restaurant")),
		Category:   strings.TrimSpace(c.QueryParam("category")),
	}
	if v := c.QueryParam("max_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			q.MaxCents = uint32(f * 100)
		}
	}
	if v := c.QueryParam("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Page = n
		}
	}
	if v := c.QueryParam("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.PageSize = n
		}
	}

	rows, total, err := h.MenuRepo.SearchDishes(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"dishes": rows,
		"total":  total,
	})
}
