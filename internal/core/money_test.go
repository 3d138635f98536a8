package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestFormatUSD(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{38000, "$380.00"},
		{50000, "$500.00"},
		{12000, "$120.00"},
		{-5000, "-$50.00"},
	}
	for _, tc := range cases {
		if got := FormatUSD(tc.cents); got != tc.want {
			t.Errorf("FormatUSD(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestAbsCents(t *testing.T) {
	if AbsCents(-5000) != 5000 || AbsCents(5000) != 5000 {
		t.Fatal("AbsCents should drop the sign")
	}
}
