package types

import "testing"

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{1940, "1940.00"},
		{1234.5, "1234.50"},
		{0.005, "0.01"},
		{999.994, "999.99"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.in); got != tc.want {
			t.Fatalf("FormatAmount(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRoundAmount(t *testing.T) {
	t.Parallel()

	if got := RoundAmount(1234.567); got != 1234.57 {
		t.Fatalf("expected 1234.57, got %v", got)
	}
	if got := RoundAmount(1940); got != 1940 {
		t.Fatalf("expected 1940, got %v", got)
	}
}
