package interpret

import "testing"

func TestCoerceNumber(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want int
	}{
		{"Integer", "2000", 2000},
		{"Decimal rounds up", "1999.7", 2000},
		{"Decimal rounds down", "499.4", 499},
		{"Half rounds away from zero", "499.5", 500},
		{"Negative half rounds away from zero", "-2.5", -3},
		{"Negative passes through unclamped", "-100", -100},
		{"Surrounding whitespace", "  42  ", 42},
		{"Empty", "", 0},
		{"Whitespace only", "   ", 0},
		{"Not a number", "plenty", 0},
		{"Trailing garbage", "120 kcal", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CoerceNumber(tc.in); got != tc.want {
				t.Errorf("CoerceNumber(%q) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}
