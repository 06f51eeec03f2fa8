package clock

import (
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"00:00:00", 0},
		{"0:00:10", 10 * time.Second},
		{"12:00:10", 12*time.Hour + 10*time.Second},
		{"1:2:3", 1*time.Hour + 2*time.Minute + 3*time.Second},
		{"23:59:59", day - time.Second},
	}
	for _, tc := range cases {
		got, err := ParseTimeOfDay(tc.in)
		if err != nil {
			t.Fatalf("ParseTimeOfDay(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseTimeOfDay(%q)=%s want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseTimeOfDay_Rejects(t *testing.T) {
	for _, in := range []string{"", "12:00", "24:00:00", "12:60:00", "12:00:60", "123:00:00", "ab:00:00", "1 day, 0:00:05", "-1:00:00"} {
		if _, err := ParseTimeOfDay(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00:00"},
		{10 * time.Second, "0:00:10"},
		{10*time.Hour + 5*time.Minute, "10:05:00"},
		{-10 * time.Second, "-1 day, 23:59:50"},
		{day + 5*time.Second, "1 day, 0:00:05"},
		{2*day + time.Hour, "2 days, 1:00:00"},
		{-day - time.Second, "-2 days, 23:59:59"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.in); got != tc.want {
			t.Fatalf("FormatDuration(%s)=%q want %q", tc.in, got, tc.want)
		}
	}
}

func TestDifference(t *testing.T) {
	got, err := Difference("12:00:00", "12:00:10")
	if err != nil {
		t.Fatalf("Difference() error: %v", err)
	}
	if got != "0:00:10" {
		t.Fatalf("got=%q want %q", got, "0:00:10")
	}

	got, err = Difference("23:59:50", "00:00:05")
	if err != nil {
		t.Fatalf("Difference() error: %v", err)
	}
	if got != "-1 day, 0:00:15" {
		t.Fatalf("got=%q want %q", got, "-1 day, 0:00:15")
	}
}

func TestSum(t *testing.T) {
	got, err := Sum("0:00:00", "0:00:10")
	if err != nil {
		t.Fatalf("Sum() error: %v", err)
	}
	if got != "0:00:10" {
		t.Fatalf("got=%q want %q", got, "0:00:10")
	}

	got, err = Sum("23:00:00", "1:00:05")
	if err != nil {
		t.Fatalf("Sum() error: %v", err)
	}
	if got != "1 day, 0:00:05" {
		t.Fatalf("got=%q want %q", got, "1 day, 0:00:05")
	}
	if _, err := Sum(got, "0:00:01"); err == nil {
		t.Fatalf("expected error summing onto a day-long total")
	}
}

func TestSeconds(t *testing.T) {
	cases := map[string]int{
		"0:00:00":  0,
		"0:00:10":  10,
		"1:02:03":  3723,
		"10:20:30": 37230,
	}
	for in, want := range cases {
		got, err := Seconds(in)
		if err != nil {
			t.Fatalf("Seconds(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("Seconds(%q)=%d want %d", in, got, want)
		}
	}

	for _, in := range []string{"-1 day, 23:59:50", "0:00", "0:00:1.5"} {
		if _, err := Seconds(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestSeconds_AdditiveOverSum(t *testing.T) {
	pairs := [][2]string{
		{"0:00:00", "0:00:10"},
		{"1:30:00", "2:45:15"},
		{"11:59:59", "11:59:59"},
		{"0:00:59", "0:00:01"},
	}
	for _, p := range pairs {
		s, err := Sum(p[0], p[1])
		if err != nil {
			t.Fatalf("Sum(%q,%q) error: %v", p[0], p[1], err)
		}
		got, err := Seconds(s)
		if err != nil {
			t.Fatalf("Seconds(%q) error: %v", s, err)
		}
		a, _ := Seconds(p[0])
		b, _ := Seconds(p[1])
		if got != a+b {
			t.Fatalf("Seconds(Sum(%q,%q))=%d want %d", p[0], p[1], got, a+b)
		}
	}
}

func TestPad(t *testing.T) {
	cases := map[string]string{
		"1:2:3":    "01:02:03",
		"10:20:30": "10:20:30",
		"0:00:00":  "00:00:00",
	}
	for in, want := range cases {
		if got := Pad(in); got != want {
			t.Fatalf("Pad(%q)=%q want %q", in, got, want)
		}
		if got := Pad(Pad(in)); got != want {
			t.Fatalf("Pad not idempotent for %q: %q", in, got)
		}
	}
}
