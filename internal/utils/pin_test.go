package utils

import "testing"

func TestGeneratePIN(t *testing.T) {
	for i := 0; i < 50; i++ {
		pin, err := GeneratePIN()
		if err != nil {
			t.Fatalf("GeneratePIN: %v", err)
		}
		if len(pin) != 4 {
			t.Fatalf("GeneratePIN returned %q, want four digits", pin)
		}
		for _, r := range pin {
			if r < '0' || r > '9' {
				t.Fatalf("GeneratePIN returned non-digit %q", pin)
			}
		}
	}
}

func TestPINsMatch(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		supplied string
		want     bool
	}{
		{name: "exact match", stored: "0042", supplied: "0042", want: true},
		{name: "supplied has whitespace", stored: "0042", supplied: "  0042\n", want: true},
		{name: "stored has whitespace", stored: " 0042 ", supplied: "0042", want: true},
		{name: "wrong pin", stored: "0042", supplied: "0043", want: false},
		{name: "inner whitespace is not ignored", stored: "0042", supplied: "00 42", want: false},
		{name: "empty supplied", stored: "0042", supplied: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PINsMatch(tt.stored, tt.supplied); got != tt.want {
				t.Fatalf("PINsMatch(%q, %q) = %v, want %v", tt.stored, tt.supplied, got, tt.want)
			}
		})
	}
}
