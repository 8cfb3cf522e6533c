package model

import "testing"

func TestOrderTotalCents(t *testing.T) {
	prices := map[uint64]uint32{
		1: 800,  // bruschetta
		2: 1200, // carbonara
		3: 500,  // tiramisu
	}
	tests := []struct {
		name  string
		lines []CartItem
		want  uint32
		ok    bool
	}{
		{
			name: "mixed quantities",
			lines: []CartItem{
				{DishID: 1, Quantity: 2}, // 1600
				{DishID: 2, Quantity: 1}, // 1200
				{DishID: 3, Quantity: 1}, // 500
			},
			want: 3300,
			ok:   true,
		},
		{
			name:  "empty cart totals zero",
			lines: nil,
			want:  0,
			ok:    true,
		},
		{
			name: "missing price fails the sum",
			lines: []CartItem{
				{DishID: 1, Quantity: 1},
				{DishID: 99, Quantity: 1},
			},
			want: 0,
			ok:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := OrderTotalCents(tt.lines, prices)
			if ok != tt.ok {
				t.Fatalf("OrderTotalCents ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Fatalf("OrderTotalCents = %d, want %d", got, tt.want)
			}
		})
	}
}
