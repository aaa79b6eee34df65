package hours

import "testing"

func TestParseHours(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"8", 8},
		{"8.5", 8.5},
		{"8,5", 8.5},
		{"10(", 10},
		{"", 0},
		{"-", 0},
		{"DOF", 0},
		{"ALP", 0},
		{"  7  ", 7},
	}

	for _, c := range cases {
		got := ParseHours(c.in)
		if got != c.want {
			t.Errorf("ParseHours(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
