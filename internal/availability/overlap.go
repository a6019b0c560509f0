package availability

import "time"

// Stay is the minimal projection of a reservation the detector needs: the
// unit it occupies and its check-in/check-out dates (midnight values).
type Stay struct {
	ReservationID string
	UnitID        string
	Status        string
	CheckIn       time.Time
	CheckOut      time.Time
}

// Overlap details a double-booked relation that callers can present to hosts.
// Overlaps are warnings, not rejections: the calendar engine renders
// overlapping stays stacked, and intake decides how strict to be.
type Overlap struct {
	WithReservationID string
	UnitID            string
	CheckIn           time.Time
	CheckOut          time.Time
}

// statuses that do not occupy nights and therefore never collide.
func occupies(status string) bool {
	return status != "available"
}

// DetectOverlaps identifies existing stays of the same unit whose nights
// intersect the candidate's. Nights-stayed semantics apply: the checkout date
// is free for the next check-in, so back-to-back stays do not overlap.
func DetectOverlaps(existing []Stay, candidate Stay) []Overlap {
	if candidate.CheckIn.IsZero() || candidate.CheckOut.IsZero() || !occupies(candidate.Status) {
		return nil
	}

	overlaps := make([]Overlap, 0)
	for _, stay := range existing {
		if stay.UnitID != candidate.UnitID {
			continue
		}
		if stay.ReservationID != "" && stay.ReservationID == candidate.ReservationID {
			continue
		}
		if !occupies(stay.Status) {
			continue
		}
		if stay.CheckIn.IsZero() || stay.CheckOut.IsZero() {
			continue
		}
		if candidate.CheckIn.Before(stay.CheckOut) && stay.CheckIn.Before(candidate.CheckOut) {
			overlaps = append(overlaps, Overlap{
				WithReservationID: stay.ReservationID,
				UnitID:            stay.UnitID,
				CheckIn:           stay.CheckIn,
				CheckOut:          stay.CheckOut,
			})
		}
	}

	if len(overlaps) == 0 {
		return nil
	}
	return overlaps
}
