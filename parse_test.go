package cashbook

import "testing"

func TestParseDecimalOrZero(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"12.5", 12.5},
		{"12.5kg", 12.5},
		{" 7 ", 7},
		{"-3", -3},
		{"+4", 4},
		{".5", 0.5},
		{"12.", 12},
		{"1e3", 1000},
		{"1,5", 1},
		{"abc", 0},
		{"", 0},
		{"-", 0},
		{"$12", 0},
	}
	for _, test := range tests {
		got := ParseDecimalOrZero(test.in)
		if !got.Equal(D(test.want)) {
			t.Errorf("ParseDecimalOrZero(%q) = %v, want %v", test.in, got, test.want)
		}
	}
}

func TestParseIntOrZero(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"42", 42},
		{"3.7", 3},
		{"42abc", 42},
		{"-2", -2},
		{" 8", 8},
		{"x", 0},
		{"", 0},
	}
	for _, test := range tests {
		if got := ParseIntOrZero(test.in); got != test.want {
			t.Errorf("ParseIntOrZero(%q) = %d, want %d", test.in, got, test.want)
		}
	}
}
