package tariff

import (
	"fmt"
	"testing"
	"time"
)

func TestFee_Charges_Nothing_During_Grace_Period(t *testing.T) {
	for m := 0; m <= GraceMinutes; m++ {
		t.Run(fmt.Sprintf("minutes: %d", m), func(t *testing.T) {
			if fee := Fee(m); fee != 0 {
				t.Fatalf("grace period not applied! want: 0 got: %v", fee)
			}
		})
	}
}

func TestFee_Tiers(t *testing.T) {
	cases := []struct {
		minutes int
		want    int
	}{
		{minutes: 0, want: 0},
		{minutes: 10, want: 0},
		{minutes: 11, want: 7},
		{minutes: 30, want: 7},
		{minutes: 31, want: 10},
		{minutes: 59, want: 10},
		{minutes: 60, want: 10},
		{minutes: 61, want: 17},
		{minutes: 90, want: 17},
		{minutes: 91, want: 20},
		{minutes: 120, want: 20},
		{minutes: 150, want: 27},
		{minutes: 180, want: 30},
		{minutes: 241, want: 47},
		{minutes: 271, want: 50},
		{minutes: 300, want: 50},
		{minutes: 301, want: 50},
		{minutes: 900, want: 50},
		{minutes: 1439, want: 50},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("minutes: %d", tc.minutes), func(t *testing.T) {
			if fee := Fee(tc.minutes); fee != tc.want {
				t.Fatalf("incorrect fee! want: %v got: %v", tc.want, fee)
			}
		})
	}
}

func TestFee_Properties(t *testing.T) {
	for h := 0; h <= 30; h++ {
		if h >= 1 {
			if got, want := Fee(h*60), min(h*10, DailyCap); got != want {
				t.Fatalf("whole hours %d: want: %v got: %v", h, want, got)
			}
		}

		for r := 1; r <= 59; r++ {
			want := min(h*10+10, DailyCap)
			if r <= 30 {
				want = min(h*10+7, DailyCap)
			}

			if h == 0 && r <= GraceMinutes {
				want = 0
			}

			if got := Fee(h*60 + r); got != want {
				t.Fatalf("%dh%dm: want: %v got: %v", h, r, want, got)
			}
		}
	}
}

func TestFee_Is_Monotonic_And_Capped(t *testing.T) {
	prev := 0

	for m := 0; m <= 3*24*60; m++ {
		fee := Fee(m)

		if fee < prev {
			t.Fatalf("fee decreased at %d minutes: %v < %v", m, fee, prev)
		}

		if fee > DailyCap {
			t.Fatalf("fee above cap at %d minutes: %v", m, fee)
		}

		prev = fee
	}
}

func TestFee_Panics_On_Negative_Minutes(t *testing.T) {
	for _, m := range []int{-1, -60, -61} {
		t.Run(fmt.Sprintf("minutes: %d", m), func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic for %d minutes", m)
				}
			}()

			Fee(m)
		})
	}
}

func TestFeeBetween(t *testing.T) {
	cases := []struct {
		from string
		to   string
		want int
	}{
		{"09:00:00", "09:00:00", 0},
		{"09:00:00", "09:10:59", 0},
		{"09:00:00", "09:11:59", 7},
		{"09:00:00", "09:30:59", 7},
		{"09:00:00", "09:31:59", 10},
		{"09:00:00", "09:59:59", 10},
		{"09:00:00", "10:00:59", 10},
		{"09:00:00", "11:00:59", 20},
		{"09:00:00", "12:00:59", 30},
		{"09:00:00", "13:00:59", 40},
		{"09:00:00", "14:00:59", 50},
		{"09:00:00", "10:01:59", 17},
		{"09:00:00", "10:30:59", 17},
		{"09:00:00", "11:01:59", 27},
		{"09:00:00", "12:30:59", 37},
		{"09:00:00", "13:30:59", 47},
		{"09:00:00", "10:31:59", 20},
		{"09:00:00", "11:59:59", 30},
		{"09:00:00", "12:31:59", 40},
		{"09:00:00", "13:31:59", 50},
		{"09:00:00", "14:01:59", 50},
		{"00:00:00", "23:59:59", 50},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s-%s", tc.from, tc.to), func(t *testing.T) {
			if fee := FeeBetween(getTime(tc.from), getTime(tc.to)); fee != tc.want {
				t.Fatalf("incorrect fee! want: %v got: %v", tc.want, fee)
			}
		})
	}
}

func TestElapsedMinutes_Uses_Wall_Clock(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("no tzdata: %v", err)
	}

	cases := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{
			name: "spring forward",
			from: time.Date(2020, 3, 8, 0, 0, 0, 0, loc),
			to:   time.Date(2020, 3, 8, 4, 0, 0, 0, loc),
			want: 240,
		},
		{
			name: "fall back",
			from: time.Date(2020, 11, 1, 0, 0, 0, 0, loc),
			to:   time.Date(2020, 11, 1, 23, 59, 59, 0, loc),
			want: 1439,
		},
		{
			name: "partial minute",
			from: time.Date(2020, 3, 8, 9, 0, 0, 0, loc),
			to:   time.Date(2020, 3, 8, 9, 10, 59, 0, loc),
			want: 10,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ElapsedMinutes(tc.from, tc.to); got != tc.want {
				t.Fatalf("incorrect minutes! want: %v got: %v", tc.want, got)
			}
		})
	}
}

func getTime(t string) time.Time {
	time, _ := time.Parse(time.RFC3339, fmt.Sprintf("2006-01-02T%sZ", t))
	return time
}
