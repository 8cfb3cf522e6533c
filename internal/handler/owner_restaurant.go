package handler

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fedeguidottii/easyfood/internal/model"
	"github.com/fedeguidottii/easyfood/internal/repository"
	"github.com/fedeguidottii/easyfood/internal/utils"
)

type restaurantReq struct {
	Name             string `json:"name"`
	CoverChargeCents uint32 `json:"cover_charge"`
	AllYouCanEat     bool   `json:"all_you_can_eat"`
	IsActive         *bool  `json:"is_active"`
}

// CreateRestaurant registers a new restaurant under the calling owner.
func (h *OwnerHandler) CreateRestaurant(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req restaurantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	rest := &model.Restaurant{
		OwnerID:          ownerID,
		Name:             req.Name,
		CoverChargeCents: req.CoverChargeCents,
		AllYouCanEat:     req.AllYouCanEat,
		IsActive:         true,
	}
	if err := h.RestaurantRepo.Create(c.Request().Context(), rest); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create restaurant failed"})
	}
	return c.JSON(http.StatusCreated, rest.JSON())
}

// ListRestaurants returns the owner's restaurants.
func (h *OwnerHandler) ListRestaurants(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.RestaurantRepo.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]map[string]any, 0, len(list))
	for _, r := range list {
		out = append(out, r.JSON())
	}
	return c.JSON(http.StatusOK, echo.Map{"restaurants": out})
}

// GetRestaurant returns one owned restaurant.
func (h *OwnerHandler) GetRestaurant(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}
	rest, err := h.RestaurantRepo.GetByID(ctx, rid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, rest.JSON())
}

// DeleteRestaurant removes one owned restaurant and everything under
// it in a single transaction, then deactivates its staff accounts
// best effort, same as the platform-level delete.
func (h *OwnerHandler) DeleteRestaurant(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
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

	if staffErr != nil {
		log.Printf("owner: list staff of deleted restaurant %d failed: %v", rid, staffErr)
		return c.NoContent(http.StatusNoContent)
	}
	for _, u := range staff {
		if u.Role == model.RoleOwner || u.Role == model.RoleAdmin {
			continue
		}
		if err := h.UserRepo.SetActive(ctx, u.ID, false); err != nil {
			log.Printf("owner: deactivate staff %d after restaurant delete failed: %v", u.ID, err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateRestaurant updates profile fields. Clients may send either
// snake_case or camelCase spellings of the toggled fields; the body is
// canonicalized before binding semantics apply.
func (h *OwnerHandler) UpdateRestaurant(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}

	var raw map[string]any
	if err := c.Bind(&raw); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	raw = model.Canonical(raw)

	rest, err := h.RestaurantRepo.GetByID(ctx, rid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	name := rest.Name
	if v, ok := raw["name"].(string); ok && strings.TrimSpace(v) != "" {
		name = strings.TrimSpace(v)
	}
	cover := rest.CoverChargeCents
	if v, ok := raw["cover_charge"].(float64); ok && v >= 0 {
		cover = uint32(v)
	}
	ayce := rest.AllYouCanEat
	if v, ok := raw["all_you_can_eat"].(bool); ok {
		ayce = v
	}
	active := rest.IsActive
	if v, ok := raw["is_active"].(bool); ok {
		active = v
	}

	ownerID, _ := getUserID(c)
	if err := h.RestaurantRepo.UpdateProfile(ctx, rid, ownerID, name, cover, ayce, active); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	rest, err = h.RestaurantRepo.GetByID(ctx, rid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, rest.JSON())
}

// UploadLogo stores a logo image under the upload directory and
// records its path on the restaurant. The stored name is random so
// uploads never collide or traverse paths.
func (h *OwnerHandler) UploadLogo(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}

	fh, err := c.FormFile("logo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "logo file required"})
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp":
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported image type"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read upload failed"})
	}
	defer src.Close()

	if err := os.MkdirAll(h.Cfg.UploadDir, 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store upload failed"})
	}
	name, err := utils.RandomHex(16)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store upload failed"})
	}
	rel := filepath.Join(h.Cfg.UploadDir, name+ext)
	dst, err := os.Create(rel)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store upload failed"})
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store upload failed"})
	}

	ownerID, _ := getUserID(c)
	if err := h.RestaurantRepo.SetLogoPath(ctx, rid, ownerID, rel); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save logo failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"logo_path": rel})
}

type scheduleEntryReq struct {
	Weekday    uint8  `json:"weekday"`
	Meal       string `json:"meal"`
	PriceCents uint32 `json:"price_cents"`
	Enabled    bool   `json:"enabled"`
}

// PutSchedule replaces the weekly price grid of a restaurant. Each
// entry prices one (weekday, meal) cell; disabled cells fall back to
// the restaurant's base pricing when a session opens.
func (h *OwnerHandler) PutSchedule(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}

	var req struct {
		Entries []scheduleEntryReq `json:"entries"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	entries := make([]model.PriceSchedule, 0, len(req.Entries))
	for _, e := range req.Entries {
		if e.Weekday > 6 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "weekday out of range"})
		}
		meal := strings.ToUpper(strings.TrimSpace(e.Meal))
		if meal != model.MealLunch && meal != model.MealDinner {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "meal must be LUNCH or DINNER"})
		}
		entries = append(entries, model.PriceSchedule{
			RestaurantID: rid,
			Weekday:      e.Weekday,
			Meal:         meal,
			PriceCents:   e.PriceCents,
			Enabled:      e.Enabled,
		})
	}
	if err := h.ScheduleRepo.Replace(ctx, rid, entries); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save schedule failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": entries})
}

// GetSchedule returns the weekly price grid.
func (h *OwnerHandler) GetSchedule(c echo.Context) error {
	ctx := c.Request().Context()
	rid, err := h.requireOwnedRestaurant(ctx, c)
	if err != nil {
		return ownedRestaurantError(c, err)
	}
	entries, err := h.ScheduleRepo.ListByRestaurant(ctx, rid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": entries})
}

// ownedRestaurantError maps requireOwnedRestaurant failures onto
// consistent HTTP responses.
func ownedRestaurantError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrRestaurantNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
	}
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}

// sessionPriceFor resolves the AYCE per-head price to freeze onto a
// session opened now: the enabled schedule cell for the current
// weekday and meal slot wins, otherwise zero (base menu pricing).
func (h *OwnerHandler) sessionPriceFor(ctx context.Context, rest *model.Restaurant, now time.Time) uint32 {
	if !rest.AllYouCanEat {
		return 0
	}
	entries, err := h.ScheduleRepo.ListByRestaurant(ctx, rest.ID)
	if err != nil {
		return 0
	}
	if price, ok := model.ScheduleLookup(entries, now.Weekday(), model.MealSlotAt(now)); ok {
		return price
	}
	return 0
}
