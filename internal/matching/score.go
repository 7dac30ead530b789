package matching

import (
	"math"
	"strings"

	"github.com/asterhomes/preference-matching/internal/domain"
)

// Breakdown records each criterion's bonus contribution for one listing.
// Base + capped bonus total equals the final score; keeping the parts visible
// makes a ranking explainable in tests and review tooling.
type Breakdown struct {
	Location     int `json:"location"`
	Price        int `json:"price"`
	Bedrooms     int `json:"bedrooms"`
	Bathrooms    int `json:"bathrooms"`
	PropertyType int `json:"property_type"`
	Condition    int `json:"condition"`
	BuildingType int `json:"building_type"`
	Features     int `json:"features"`
	ModeBonus    int `json:"mode_bonus"`
}

// BonusTotal is the uncapped sum of all bonus contributions.
func (b Breakdown) BonusTotal() int {
	return b.Location + b.Price + b.Bedrooms + b.Bathrooms +
		b.PropertyType + b.Condition + b.BuildingType + b.Features + b.ModeBonus
}

// Score computes the match score for a listing that already cleared the hard
// filters. Pure and total: it reads only its arguments, and a listing field
// that is missing or zero contributes nothing rather than failing. The result
// is always within [BaseScore, BaseScore+MaxBonus].
func Score(l domain.Listing, c Criteria) (int, Breakdown) {
	b := Breakdown{
		Location:     locationBonus(l, c),
		Price:        meetOrUnset(pricePoints, c.Budget.Min > 0 || c.Budget.Max > 0, c.Budget.Contains(l.Price)),
		Bedrooms:     meetOrUnset(bedroomPoints, c.MinBedrooms > 0, l.Bedrooms >= c.MinBedrooms),
		Bathrooms:    meetOrUnset(bathroomPoints, c.MinBathrooms > 0, l.Bathrooms >= c.MinBathrooms),
		PropertyType: meetOrUnset(propertyTypePoints, c.PropertyType != "", strings.EqualFold(l.PropertyType, c.PropertyType)),
		Condition:    meetOrUnset(conditionPoints, c.Condition != "", strings.EqualFold(l.Condition, c.Condition)),
		BuildingType: meetOrUnset(buildingTypePoints, c.BuildingType != "", strings.EqualFold(l.BuildingType, c.BuildingType)),
		Features:     featureBonus(l.Features, c.Features),
		ModeBonus:    modeBonus(l, c),
	}

	bonus := b.BonusTotal()
	if bonus > MaxBonus {
		bonus = MaxBonus
	}
	return BaseScore + bonus, b
}

// meetOrUnset awards full points when the criterion is unconstrained or the
// listing meets it, zero otherwise.
func meetOrUnset(points int, constrained, met bool) int {
	if !constrained || met {
		return points
	}
	return 0
}

// locationBonus awards up to 15 points across the three location levels.
// With no LGA constraint the LGA and area points come for free; with one, the
// listing must land inside the accepted LGAs before area points are in play.
func locationBonus(l domain.Listing, c Criteria) int {
	pts := meetOrUnset(locationStatePoints, c.State != "", strings.EqualFold(l.Location.State, c.State))

	if len(c.LGAs) == 0 {
		return pts + locationLGAPoints + locationAreaPoints
	}
	if !containsFold(c.LGAs, l.Location.LGA) {
		// Outside every accepted LGA: location credit stays capped at the
		// state component.
		return pts
	}
	pts += locationLGAPoints
	if len(c.Areas) == 0 || containsFold(c.Areas, l.Location.Area) {
		pts += locationAreaPoints
	}
	return pts
}

// featureBonus scores requested-feature coverage. Full credit when nothing
// was requested; otherwise proportional to the matched share, awarded only
// when at least half of the requested features are present.
func featureBonus(listed, requested []string) int {
	if len(requested) == 0 {
		return featurePoints
	}
	have := make(map[string]struct{}, len(listed))
	for _, f := range listed {
		have[strings.ToLower(strings.TrimSpace(f))] = struct{}{}
	}
	matched := 0
	for _, f := range requested {
		if _, ok := have[strings.ToLower(strings.TrimSpace(f))]; ok {
			matched++
		}
	}
	ratio := float64(matched) / float64(len(requested))
	if ratio < featureMatchFloor {
		return 0
	}
	return int(math.Round(ratio * featurePoints))
}

// modeBonus awards up to 5 points for mode-specific fit.
func modeBonus(l domain.Listing, c Criteria) int {
	switch c.Mode {
	case domain.ModeShortlet:
		if c.Shortlet == nil {
			return modeBonusPoints
		}
		return shortletBonus(l, c.Shortlet)
	case domain.ModeJointVenture:
		return jointVentureBonus(l, c)
	default:
		// Buy and rent carry no mode-specific constraints, so the bonus is
		// unconstrained and fully credited.
		return modeBonusPoints
	}
}

func shortletBonus(l domain.Listing, s *ShortletCriteria) int {
	pts := meetOrUnset(modeFitPoints, s.Guests > 0, l.MaxGuests >= s.Guests)

	required := s.RequiredRules()
	if required == 0 {
		return pts + modeProportionPoints
	}
	satisfied := 0
	if s.RequiresPets && l.HouseRules.PetsAllowed {
		satisfied++
	}
	if s.RequiresSmoking && l.HouseRules.SmokingAllowed {
		satisfied++
	}
	if s.RequiresParties && l.HouseRules.PartiesAllowed {
		satisfied++
	}
	return pts + int(math.Round(float64(satisfied)/float64(required)*modeProportionPoints))
}

func jointVentureBonus(l domain.Listing, c Criteria) int {
	constrained := c.MinLandSize > 0 || c.MaxLandSize > 0
	inRange := (c.MinLandSize <= 0 || l.LandSize >= c.MinLandSize) &&
		(c.MaxLandSize <= 0 || l.LandSize <= c.MaxLandSize)
	pts := meetOrUnset(modeFitPoints, constrained, inRange)

	if len(c.RequiredDocuments) == 0 {
		return pts + modeProportionPoints
	}
	provided := 0
	for _, doc := range c.RequiredDocuments {
		if containsFold(l.Documents, doc) {
			provided++
		}
	}
	ratio := float64(provided) / float64(len(c.RequiredDocuments))
	if ratio < documentMatchFloor {
		return pts
	}
	return pts + int(math.Round(ratio*modeProportionPoints))
}
