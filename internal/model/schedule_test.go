package model

import (
	"testing"
	"time"
)

func TestMealSlotAt(t *testing.T) {
	tests := []struct {
		name string
		hour int
		want string
	}{
		{name: "midday", hour: 12, want: MealLunch},
		{name: "just before cutoff", hour: 16, want: MealLunch},
		{name: "at cutoff", hour: 17, want: MealDinner},
		{name: "late evening", hour: 22, want: MealDinner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at := time.Date(2025, 6, 2, tt.hour, 30, 0, 0, time.UTC)
			if got := MealSlotAt(at); got != tt.want {
				t.Fatalf("MealSlotAt(hour=%d) = %q, want %q", tt.hour, got, tt.want)
			}
		})
	}
}

func TestScheduleLookup(t *testing.T) {
	entries := []PriceSchedule{
		{Weekday: 1, Meal: MealLunch, PriceCents: 1590, Enabled: true},
		{Weekday: 1, Meal: MealDinner, PriceCents: 2490, Enabled: true},
		{Weekday: 2, Meal: MealLunch, PriceCents: 1590, Enabled: false},
	}
	tests := []struct {
		name    string
		weekday time.Weekday
		meal    string
		want    uint32
		ok      bool
	}{
		{name: "monday lunch", weekday: time.Monday, meal: MealLunch, want: 1590, ok: true},
		{name: "monday dinner", weekday: time.Monday, meal: MealDinner, want: 2490, ok: true},
		{name: "disabled slot", weekday: time.Tuesday, meal: MealLunch, want: 0, ok: false},
		{name: "missing slot", weekday: time.Sunday, meal: MealDinner, want: 0, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ScheduleLookup(entries, tt.weekday, tt.meal)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("ScheduleLookup(%v, %s) = (%d, %v), want (%d, %v)",
					tt.weekday, tt.meal, got, ok, tt.want, tt.ok)
			}
		})
	}
}
