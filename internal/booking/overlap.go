package booking

import (
	"math"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share at least one day. Touching endpoints do not
// overlap: a checkout on the day of another checkin is allowed. The
// test is the negation of "a ends before b starts or b ends before a
// starts".
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Blocking reports whether a booking status counts toward the overlap
// check. Only PENDING and CONFIRMED block; CANCELLED, COMPLETED and
// FAILED never do.
func Blocking(status string) bool {
	return status == model.BookingStatusPending || status == model.BookingStatusConfirmed
}

// BookedRange pairs a booking's interval with its status for use with
// Conflicts.
type BookedRange struct {
	Checkin  time.Time
	Checkout time.Time
	Status   string
}

// Conflicts reports whether the candidate range intersects any
// blocking booking in existing. It is the pure-function twin of the
// SQL predicate the engine evaluates under the room lock
// (BookingRepo.CountOverlappingTx); keep the two in sync.
func Conflicts(existing []BookedRange, checkin, checkout time.Time) bool {
	for _, e := range existing {
		if !Blocking(e.Status) {
			continue
		}
		if Overlaps(e.Checkin, e.Checkout, checkin, checkout) {
			return true
		}
	}
	return false
}

// Nights returns the number of nights covered by [checkin, checkout),
// rounding partial days up. For a valid range it is always >= 1.
func Nights(checkin, checkout time.Time) int {
	d := checkout.Sub(checkin)
	n := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		n++
	}
	return n
}

// TotalPriceCents prices a stay: nightly base price times nights.
// The product is computed in 64 bits and saturated at the uint32
// ceiling, so an absurdly long range can never wrap into a cheap
// total.
func TotalPriceCents(basePriceCents uint32, nights int) uint32 {
	if nights <= 0 {
		return 0
	}
	total := uint64(basePriceCents) * uint64(nights)
	if total > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(total)
}
