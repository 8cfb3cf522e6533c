package model

import (
	"errors"
	"testing"
)

func TestNormalizeOrderStatus(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "canonical open", raw: "OPEN", want: OrderOpen},
		{name: "legacy lowercase open", raw: "open", want: OrderOpen},
		{name: "legacy lowercase paid", raw: "paid", want: OrderPaid},
		{name: "legacy lowercase cancelled", raw: "cancelled", want: OrderCancelled},
		{name: "mixed case", raw: "Paid", want: OrderPaid},
		{name: "surrounding whitespace", raw: "  open \n", want: OrderOpen},
		{name: "unknown value", raw: "archived", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeOrderStatus(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownStatus) {
					t.Fatalf("NormalizeOrderStatus(%q) err = %v, want ErrUnknownStatus", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeOrderStatus(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Fatalf("NormalizeOrderStatus(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeItemStatus(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "canonical pending", raw: "PENDING", want: ItemPending},
		{name: "legacy lowercase in_preparation", raw: "in_preparation", want: ItemInPreparation},
		{name: "legacy lowercase ready", raw: "ready", want: ItemReady},
		{name: "legacy lowercase served", raw: "served", want: ItemServed},
		{name: "unknown value", raw: "plated", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeItemStatus(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownStatus) {
					t.Fatalf("NormalizeItemStatus(%q) err = %v, want ErrUnknownStatus", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeItemStatus(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Fatalf("NormalizeItemStatus(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCanTransitionOrder(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{name: "open to paid", from: OrderOpen, to: OrderPaid, want: true},
		{name: "open to cancelled", from: OrderOpen, to: OrderCancelled, want: true},
		{name: "open to open", from: OrderOpen, to: OrderOpen, want: false},
		{name: "paid is terminal", from: OrderPaid, to: OrderCancelled, want: false},
		{name: "cancelled is terminal", from: OrderCancelled, to: OrderOpen, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransitionOrder(tt.from, tt.to); got != tt.want {
				t.Fatalf("CanTransitionOrder(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestCanTransitionItem(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{name: "pending forward", from: ItemPending, to: ItemInPreparation, want: true},
		{name: "in_preparation forward", from: ItemInPreparation, to: ItemReady, want: true},
		{name: "ready forward", from: ItemReady, to: ItemServed, want: true},
		{name: "no skipping", from: ItemPending, to: ItemReady, want: false},
		{name: "no going back", from: ItemReady, to: ItemInPreparation, want: false},
		{name: "cancel pending", from: ItemPending, to: ItemCancelled, want: true},
		{name: "cancel ready", from: ItemReady, to: ItemCancelled, want: true},
		{name: "served is terminal", from: ItemServed, to: ItemCancelled, want: false},
		{name: "cancelled is terminal", from: ItemCancelled, to: ItemPending, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransitionItem(tt.from, tt.to); got != tt.want {
				t.Fatalf("CanTransitionItem(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
