package model

import "testing"

func TestWithMirrors(t *testing.T) {
	m := WithMirrors(map[string]any{
		"is_active":    true,
		"cover_charge": uint32(250),
		"name":         "Trattoria",
	})

	if v, ok := m["isActive"]; !ok || v != true {
		t.Fatalf("isActive mirror = %v (ok=%v), want true", v, ok)
	}
	if v, ok := m["coverCharge"]; !ok || v != uint32(250) {
		t.Fatalf("coverCharge mirror = %v (ok=%v), want 250", v, ok)
	}
	// snake originals stay in place
	if v := m["is_active"]; v != true {
		t.Fatalf("is_active = %v, want true", v)
	}
	// unmapped keys gain no alias
	if _, ok := m["Name"]; ok {
		t.Fatal("unexpected alias for unmapped key")
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		key  string
		want any
	}{
		{
			name: "alias only is adopted",
			in:   map[string]any{"allYouCanEat": true},
			key:  "all_you_can_eat",
			want: true,
		},
		{
			name: "snake wins over alias",
			in:   map[string]any{"customer_count": 4, "customerCount": 9},
			key:  "customer_count",
			want: 4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Canonical(tt.in)
			if v := got[tt.key]; v != tt.want {
				t.Fatalf("Canonical()[%q] = %v, want %v", tt.key, v, tt.want)
			}
			for snake, camel := range mirrors {
				if _, ok := got[camel]; ok {
					t.Fatalf("alias %q (for %q) survived Canonical", camel, snake)
				}
			}
		})
	}
}

func TestMirrorRoundTrip(t *testing.T) {
	in := map[string]any{"table_number": "12", "is_active": false}
	out := Canonical(WithMirrors(map[string]any{"table_number": "12", "is_active": false}))
	if len(out) != len(in) {
		t.Fatalf("round trip changed key count: %v", out)
	}
	for k, v := range in {
		if out[k] != v {
			t.Fatalf("round trip changed %q: got %v, want %v", k, out[k], v)
		}
	}
}
