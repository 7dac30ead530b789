package matching

import (
	"strings"
	"time"

	"github.com/asterhomes/preference-matching/internal/domain"
)

// Criteria is the canonical, mode-agnostic form of a preference. Filtering
// and scoring read only this struct, never the raw preference. A zero field
// means the criterion is unconstrained: it restricts nothing and earns full
// bonus credit.
type Criteria struct {
	Mode domain.PreferenceMode

	PropertyType string
	BuildingType string
	Condition    string
	MinBedrooms  int
	MinBathrooms int

	State string
	// LGAs are the LGA names the buyer accepts; empty means any LGA.
	LGAs []string
	// Areas is the flattened union of every selected LGA's areas; empty means
	// any area within an accepted LGA.
	Areas []string

	Budget   domain.BudgetRange
	Features []string

	// Joint-venture extension.
	MinLandSize       float64
	MaxLandSize       float64
	RequiredDocuments []string

	// Shortlet extension, nil for other modes.
	Shortlet *ShortletCriteria
}

// ShortletCriteria carries the booking window and stay requirements of a
// shortlet preference.
type ShortletCriteria struct {
	Guests          int
	CheckIn         time.Time
	CheckOut        time.Time
	RequiresPets    bool
	RequiresSmoking bool
	RequiresParties bool
}

// RequiredRules returns the house rules the guest explicitly requires.
func (s *ShortletCriteria) RequiredRules() int {
	n := 0
	if s.RequiresPets {
		n++
	}
	if s.RequiresSmoking {
		n++
	}
	if s.RequiresParties {
		n++
	}
	return n
}

// Normalize resolves a preference's mode-specific detail bag into canonical
// criteria. The switch over modes is exhaustive: an unknown mode, a missing
// bag, or a bag that disagrees with the mode is a ValidationError.
func Normalize(p domain.Preference) (Criteria, error) {
	c := Criteria{
		Mode:     p.Mode,
		State:    strings.TrimSpace(p.Location.State),
		Budget:   p.Budget,
		Features: mergeFeatures(p.Features),
	}
	for _, sel := range p.Location.LGAs {
		name := strings.TrimSpace(sel.Name)
		if name == "" {
			continue
		}
		c.LGAs = append(c.LGAs, name)
		for _, a := range sel.Areas {
			if a = strings.TrimSpace(a); a != "" {
				c.Areas = append(c.Areas, a)
			}
		}
	}

	switch p.Mode {
	case domain.ModeBuy, domain.ModeRent:
		if p.Property == nil {
			return Criteria{}, &domain.ValidationError{Field: "property_details", Reason: "required for mode " + string(p.Mode)}
		}
		if p.Development != nil || p.Booking != nil {
			return Criteria{}, &domain.ValidationError{Field: "mode", Reason: "detail bag does not match mode " + string(p.Mode)}
		}
		c.PropertyType = p.Property.PropertyType
		c.BuildingType = p.Property.BuildingType
		c.Condition = p.Property.Condition
		c.MinBedrooms = p.Property.MinBedrooms
		c.MinBathrooms = p.Property.MinBathrooms

	case domain.ModeJointVenture:
		if p.Development == nil {
			return Criteria{}, &domain.ValidationError{Field: "development_details", Reason: "required for mode joint-venture"}
		}
		if p.Property != nil || p.Booking != nil {
			return Criteria{}, &domain.ValidationError{Field: "mode", Reason: "detail bag does not match mode joint-venture"}
		}
		c.MinLandSize = p.Development.MinLandSize
		c.MaxLandSize = p.Development.MaxLandSize
		for _, d := range p.Development.MinimumTitleRequirements {
			if d = strings.TrimSpace(d); d != "" {
				c.RequiredDocuments = append(c.RequiredDocuments, d)
			}
		}

	case domain.ModeShortlet:
		if p.Booking == nil {
			return Criteria{}, &domain.ValidationError{Field: "booking_details", Reason: "required for mode shortlet"}
		}
		if p.Property != nil || p.Development != nil {
			return Criteria{}, &domain.ValidationError{Field: "mode", Reason: "detail bag does not match mode shortlet"}
		}
		if !p.Booking.CheckIn.IsZero() && !p.Booking.CheckOut.IsZero() && !p.Booking.CheckOut.After(p.Booking.CheckIn) {
			return Criteria{}, &domain.ValidationError{Field: "booking_details", Reason: "check_out must be after check_in"}
		}
		c.Shortlet = &ShortletCriteria{
			Guests:          p.Booking.Guests,
			CheckIn:         p.Booking.CheckIn,
			CheckOut:        p.Booking.CheckOut,
			RequiresPets:    p.Booking.RequiresPets,
			RequiresSmoking: p.Booking.RequiresSmoking,
			RequiresParties: p.Booking.RequiresParties,
		}

	default:
		return Criteria{}, &domain.ValidationError{Field: "mode", Reason: "unknown preference mode " + string(p.Mode)}
	}

	return c, nil
}

// mergeFeatures combines base and premium feature requests into one
// deduplicated list, preserving first-seen order.
func mergeFeatures(f domain.FeatureLists) []string {
	seen := make(map[string]struct{}, len(f.Base)+len(f.Premium))
	var out []string
	for _, list := range [][]string{f.Base, f.Premium} {
		for _, feat := range list {
			feat = strings.TrimSpace(feat)
			if feat == "" {
				continue
			}
			key := strings.ToLower(feat)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, feat)
		}
	}
	return out
}
