package matching

import (
	"strings"
	"time"

	"github.com/asterhomes/preference-matching/internal/domain"
)

// Predicate is the mandatory, AND-only filter a listing must satisfy to be
// eligible at all. It is an abstract value handed to a ListingSource, which
// may push scalar clauses into its query layer; Matches is the authoritative
// evaluation and the source must guarantee every returned listing passes it.
type Predicate struct {
	BriefType string

	State string
	LGAs  []string
	Areas []string

	MinPrice float64
	MaxPrice float64

	MinBedrooms  int
	MinBathrooms int

	PropertyType string
	BuildingType string
	Condition    string

	// Joint-venture clauses.
	MinLandSize       float64
	MaxLandSize       float64
	RequiredDocuments []string

	// Shortlet clauses, nil otherwise.
	Shortlet *ShortletCriteria
}

// BuildPredicate converts canonical criteria into the mandatory predicate.
// Each clause is present only if the corresponding criterion is constrained.
// Normalize rejects unknown modes before this runs; if one slips through
// anyway, the resulting empty brief family makes Matches reject everything.
func BuildPredicate(c Criteria) Predicate {
	brief, _ := domain.BriefTypeForMode(c.Mode)
	return Predicate{
		BriefType:         brief,
		State:             c.State,
		LGAs:              c.LGAs,
		Areas:             c.Areas,
		MinPrice:          c.Budget.Min,
		MaxPrice:          c.Budget.Max,
		MinBedrooms:       c.MinBedrooms,
		MinBathrooms:      c.MinBathrooms,
		PropertyType:      c.PropertyType,
		BuildingType:      c.BuildingType,
		Condition:         c.Condition,
		MinLandSize:       c.MinLandSize,
		MaxLandSize:       c.MaxLandSize,
		RequiredDocuments: c.RequiredDocuments,
		Shortlet:          c.Shortlet,
	}
}

// Matches evaluates the full conjunction against one listing. It is total:
// missing listing fields simply fail the clauses that need them.
func (p Predicate) Matches(l domain.Listing) bool {
	if !l.Active() {
		return false
	}
	// An empty brief family means the predicate was built for an unknown mode;
	// it matches nothing rather than every brief.
	if p.BriefType == "" || l.BriefType != p.BriefType {
		return false
	}
	if p.State != "" && !strings.EqualFold(l.Location.State, p.State) {
		return false
	}
	if len(p.LGAs) > 0 && !containsFold(p.LGAs, l.Location.LGA) {
		return false
	}
	if len(p.Areas) > 0 && !containsFold(p.Areas, l.Location.Area) {
		return false
	}
	if p.MinPrice > 0 && l.Price < p.MinPrice {
		return false
	}
	if p.MaxPrice > 0 && l.Price > p.MaxPrice {
		return false
	}
	if p.MinBedrooms > 0 && l.Bedrooms < p.MinBedrooms {
		return false
	}
	if p.MinBathrooms > 0 && l.Bathrooms < p.MinBathrooms {
		return false
	}
	if p.PropertyType != "" && !strings.EqualFold(l.PropertyType, p.PropertyType) {
		return false
	}
	if p.BuildingType != "" && !strings.EqualFold(l.BuildingType, p.BuildingType) {
		return false
	}
	if p.Condition != "" && !strings.EqualFold(l.Condition, p.Condition) {
		return false
	}
	if p.MinLandSize > 0 && l.LandSize < p.MinLandSize {
		return false
	}
	if p.MaxLandSize > 0 && l.LandSize > p.MaxLandSize {
		return false
	}
	// Every required title document must be among the provided ones.
	for _, doc := range p.RequiredDocuments {
		if !containsFold(l.Documents, doc) {
			return false
		}
	}
	if s := p.Shortlet; s != nil {
		if s.Guests > 0 && l.MaxGuests < s.Guests {
			return false
		}
		if hasBookingConflict(l.Bookings, s.CheckIn, s.CheckOut) {
			return false
		}
		if s.RequiresPets && !l.HouseRules.PetsAllowed {
			return false
		}
		if s.RequiresSmoking && !l.HouseRules.SmokingAllowed {
			return false
		}
		if s.RequiresParties && !l.HouseRules.PartiesAllowed {
			return false
		}
	}
	return true
}

// hasBookingConflict reports whether the requested window collides with any
// existing reservation. A window overlaps a booking when it neither starts
// after the booking ends nor ends before it starts.
func hasBookingConflict(bookings []domain.BookedPeriod, checkIn, checkOut time.Time) bool {
	if checkIn.IsZero() || checkOut.IsZero() {
		return false
	}
	for _, b := range bookings {
		if !checkIn.After(b.End) && !checkOut.Before(b.Start) {
			return true
		}
	}
	return false
}

func containsFold(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(needle)) {
			return true
		}
	}
	return false
}
