package queue

import "testing"

func TestTableEventRoutingKey(t *testing.T) {
	tests := []struct {
		name  string
		event TableEvent
		want  string
	}{
		{name: "cart is session scoped", event: TableEvent{Kind: KindCart, SessionID: 7}, want: "session.7.cart"},
		{name: "orders is session scoped", event: TableEvent{Kind: KindOrders, SessionID: 7}, want: "session.7.orders"},
		{name: "item updates are unscoped", event: TableEvent{Kind: KindOrderItems, SessionID: 7}, want: "order_items"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.RoutingKey(); got != tt.want {
				t.Fatalf("RoutingKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSessionBindings(t *testing.T) {
	got := SessionBindings(42)
	want := []string{"session.42.cart", "session.42.orders", "order_items"}
	if len(got) != len(want) {
		t.Fatalf("SessionBindings(42) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SessionBindings(42)[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
