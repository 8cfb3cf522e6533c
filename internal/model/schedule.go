package model

import "time"

// Meal slot names used by the weekly price schedule.
const (
	MealLunch  = "LUNCH"
	MealDinner = "DINNER"
)

// PriceSchedule is one cell of a restaurant's weekly AYCE price
// grid: for a given weekday and meal slot it fixes the per-person
// price and whether the AYCE mode is offered at all.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – owning restaurant.
//  Weekday      – 0=Sunday … 6=Saturday (matches time.Weekday).
//  Meal         – LUNCH or DINNER.
//  PriceCents   – per-person AYCE price for the slot.
//  Enabled      – whether AYCE is offered in this slot.
type PriceSchedule struct {
	ID           uint64 // price_schedules.id
	RestaurantID uint64 // price_schedules.restaurant_id
	Weekday      uint8  // price_schedules.weekday
	Meal         string // price_schedules.meal
	PriceCents   uint32 // price_schedules.price_cents
	Enabled      bool   // price_schedules.enabled
}

// MealSlotAt returns the meal slot for a point in time: LUNCH before
// 17:00 local server time, DINNER from 17:00 on.
func MealSlotAt(t time.Time) string {
	if t.Hour() < 17 {
		return MealLunch
	}
	return MealDinner
}

// ScheduleLookup finds the schedule entry for the given weekday and
// meal.  It returns the per-person price and true when the slot
// exists and is enabled; otherwise 0 and false.
func ScheduleLookup(entries []PriceSchedule, weekday time.Weekday, meal string) (uint32, bool) {
	for _, e := range entries {
		if e.Weekday == uint8(weekday) && e.Meal == meal {
			if !e.Enabled {
				return 0, false
			}
			return e.PriceCents, true
		}
	}
	return 0, false
}
