package month

import "testing"

func TestNumber_CaseInsensitive(t *testing.T) {
	cases := map[string]int{
		"march":     3,
		"March":     3,
		"MARCH":     3,
		"december":  12,
		"  January": 1,
	}
	for in, want := range cases {
		got, ok := Number(in)
		if !ok {
			t.Fatalf("Number(%q): expected ok, got not found", in)
		}
		if got != want {
			t.Errorf("Number(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestNumber_Unrecognized(t *testing.T) {
	if _, ok := Number("not-a-month"); ok {
		t.Fatalf("expected not-found for garbage input")
	}
}

func TestName_RoundTrip(t *testing.T) {
	for n := 1; n <= 12; n++ {
		name, ok := Name(n)
		if !ok {
			t.Fatalf("Name(%d): expected ok", n)
		}
		back, ok := Number(name)
		if !ok || back != n {
			t.Errorf("round trip failed for month %d: name=%q back=%d", n, name, back)
		}
	}
}

func TestName_OutOfRange(t *testing.T) {
	if _, ok := Name(0); ok {
		t.Fatalf("expected not-ok for month 0")
	}
	if _, ok := Name(13); ok {
		t.Fatalf("expected not-ok for month 13")
	}
}
