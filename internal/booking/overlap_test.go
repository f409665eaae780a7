package booking

import (
	"math"
	"testing"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad date literal %q: %v", s, err)
	}
	return d
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     string
		want                           bool
	}{
		{"touching endpoints do not overlap", "2024-03-01", "2024-03-05", "2024-03-05", "2024-03-09", false},
		{"partial overlap", "2024-03-01", "2024-03-05", "2024-03-03", "2024-03-07", true},
		{"contained interval", "2024-03-01", "2024-03-10", "2024-03-04", "2024-03-05", true},
		{"identical interval", "2024-03-01", "2024-03-05", "2024-03-01", "2024-03-05", true},
		{"disjoint", "2024-03-01", "2024-03-03", "2024-03-10", "2024-03-12", false},
		{"one night shared", "2024-03-01", "2024-03-04", "2024-03-03", "2024-03-05", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a1, a2 := date(t, tc.aStart), date(t, tc.aEnd)
			b1, b2 := date(t, tc.bStart), date(t, tc.bEnd)
			if got := Overlaps(a1, a2, b1, b2); got != tc.want {
				t.Fatalf("Overlaps(%s,%s,%s,%s) = %v, want %v", tc.aStart, tc.aEnd, tc.bStart, tc.bEnd, got, tc.want)
			}
			// Symmetry must hold for every pair of valid intervals.
			if Overlaps(a1, a2, b1, b2) != Overlaps(b1, b2, a1, a2) {
				t.Fatalf("Overlaps not symmetric for (%s,%s) vs (%s,%s)", tc.aStart, tc.aEnd, tc.bStart, tc.bEnd)
			}
		})
	}
}

func TestOverlapsSymmetryExhaustive(t *testing.T) {
	// Walk every pair of small intervals over a two-week window and
	// check symmetry; cheap and covers all boundary alignments.
	base := date(t, "2024-03-01")
	day := 24 * time.Hour
	for s1 := 0; s1 < 14; s1++ {
		for e1 := s1 + 1; e1 <= 14; e1++ {
			for s2 := 0; s2 < 14; s2++ {
				for e2 := s2 + 1; e2 <= 14; e2++ {
					a1, a2 := base.Add(time.Duration(s1)*day), base.Add(time.Duration(e1)*day)
					b1, b2 := base.Add(time.Duration(s2)*day), base.Add(time.Duration(e2)*day)
					if Overlaps(a1, a2, b1, b2) != Overlaps(b1, b2, a1, a2) {
						t.Fatalf("asymmetric at [%d,%d) vs [%d,%d)", s1, e1, s2, e2)
					}
				}
			}
		}
	}
}

func TestBlocking(t *testing.T) {
	blocking := []string{model.BookingStatusPending, model.BookingStatusConfirmed}
	for _, s := range blocking {
		if !Blocking(s) {
			t.Errorf("Blocking(%q) = false, want true", s)
		}
	}
	nonBlocking := []string{model.BookingStatusCancelled, model.BookingStatusCompleted, model.BookingStatusFailed, ""}
	for _, s := range nonBlocking {
		if Blocking(s) {
			t.Errorf("Blocking(%q) = true, want false", s)
		}
	}
}

func TestConflicts(t *testing.T) {
	existing := []BookedRange{
		{Checkin: date(t, "2024-03-01"), Checkout: date(t, "2024-03-04"), Status: model.BookingStatusConfirmed},
		{Checkin: date(t, "2024-03-04"), Checkout: date(t, "2024-03-08"), Status: model.BookingStatusCancelled},
	}
	if !Conflicts(existing, date(t, "2024-03-03"), date(t, "2024-03-05")) {
		t.Fatalf("expected conflict with confirmed booking over 03-03")
	}
	// The cancelled booking covers this range but must not block.
	if Conflicts(existing, date(t, "2024-03-05"), date(t, "2024-03-07")) {
		t.Fatalf("cancelled booking must not block")
	}
	// Checkout day equals existing checkin day: allowed.
	if Conflicts(existing, date(t, "2024-02-27"), date(t, "2024-03-01")) {
		t.Fatalf("touching endpoint must not conflict")
	}
}

func TestNightsAndPrice(t *testing.T) {
	ci, co := date(t, "2024-03-01"), date(t, "2024-03-04")
	if n := Nights(ci, co); n != 3 {
		t.Fatalf("Nights = %d, want 3", n)
	}
	if got := TotalPriceCents(10000, 3); got != 30000 {
		t.Fatalf("TotalPriceCents = %d, want 30000", got)
	}
	// A single night is the minimum for any valid range.
	if n := Nights(date(t, "2024-03-01"), date(t, "2024-03-02")); n != 1 {
		t.Fatalf("Nights = %d, want 1", n)
	}
	// Partial days round up.
	if n := Nights(ci, co.Add(6*time.Hour)); n != 4 {
		t.Fatalf("Nights with partial day = %d, want 4", n)
	}
}

func TestTotalPriceDoesNotWrap(t *testing.T) {
	// 10000 cents over 500k nights exceeds uint32; the total must
	// saturate at the ceiling, never wrap into a cheap stay.
	if got := TotalPriceCents(10000, 500000); got != math.MaxUint32 {
		t.Fatalf("TotalPriceCents = %d, want saturation at %d", got, uint32(math.MaxUint32))
	}
	if got := TotalPriceCents(math.MaxUint32, 2); got != math.MaxUint32 {
		t.Fatalf("TotalPriceCents = %d, want saturation at %d", got, uint32(math.MaxUint32))
	}
	if got := TotalPriceCents(10000, 0); got != 0 {
		t.Fatalf("TotalPriceCents with zero nights = %d, want 0", got)
	}
}
