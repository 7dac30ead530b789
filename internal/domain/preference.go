package domain

import "time"

// PreferenceMode is the buyer-intent category. It determines which detail bag
// applies and which mode-specific matching rules run.
type PreferenceMode string

const (
	ModeBuy          PreferenceMode = "buy"
	ModeRent         PreferenceMode = "rent"
	ModeShortlet     PreferenceMode = "shortlet"
	ModeJointVenture PreferenceMode = "joint-venture"
)

// Modes lists every supported preference mode.
func Modes() []PreferenceMode {
	return []PreferenceMode{ModeBuy, ModeRent, ModeShortlet, ModeJointVenture}
}

// BriefTypeForMode maps a preference mode to the listing brief family it can
// match against. The mapping is fixed.
func BriefTypeForMode(m PreferenceMode) (string, bool) {
	switch m {
	case ModeBuy:
		return BriefOutrightSales, true
	case ModeRent:
		return BriefRent, true
	case ModeShortlet:
		return BriefShortlet, true
	case ModeJointVenture:
		return BriefJointVenture, true
	default:
		return "", false
	}
}

// Preference is a submitted buyer/tenant/developer preference. Exactly one
// detail bag must be populated, and it must agree with Mode. Read-only input
// to matching; the engine never mutates it.
type Preference struct {
	ID       string           `json:"id"`
	Mode     PreferenceMode   `json:"mode"`
	Location LocationCriteria `json:"location"`
	Budget   BudgetRange      `json:"budget"`
	Features FeatureLists     `json:"features"`
	Contact  ContactInfo      `json:"contact"`

	Property    *PropertyDetails    `json:"property_details,omitempty"`
	Development *DevelopmentDetails `json:"development_details,omitempty"`
	Booking     *BookingDetails     `json:"booking_details,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// LocationCriteria narrows candidates by state, then by LGA, then by area.
// Each level is optional; an empty level restricts nothing.
type LocationCriteria struct {
	State string         `json:"state"`
	LGAs  []LGASelection `json:"lgas,omitempty"`
}

// LGASelection is one local-government area plus the areas selected inside it.
// An empty Areas list means the whole LGA.
type LGASelection struct {
	Name  string   `json:"name"`
	Areas []string `json:"areas,omitempty"`
}

// BudgetRange bounds the acceptable price. Zero means the bound is open.
type BudgetRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether price falls within the range, inclusive.
func (b BudgetRange) Contains(price float64) bool {
	if b.Min > 0 && price < b.Min {
		return false
	}
	if b.Max > 0 && price > b.Max {
		return false
	}
	return true
}

type FeatureLists struct {
	Base    []string `json:"base,omitempty"`
	Premium []string `json:"premium,omitempty"`
}

type ContactInfo struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// PropertyDetails is the detail bag for buy and rent preferences.
type PropertyDetails struct {
	PropertyType string `json:"property_type"`
	BuildingType string `json:"building_type"`
	MinBedrooms  int    `json:"min_bedrooms"`
	MinBathrooms int    `json:"min_bathrooms"`
	Condition    string `json:"condition"`
}

// DevelopmentDetails is the detail bag for joint-venture preferences.
type DevelopmentDetails struct {
	MinLandSize float64 `json:"min_land_size"`
	MaxLandSize float64 `json:"max_land_size"`
	// MinimumTitleRequirements are document names the listing owner must have
	// provided for the brief to be eligible.
	MinimumTitleRequirements []string `json:"minimum_title_requirements,omitempty"`
}

// BookingDetails is the detail bag for shortlet preferences.
type BookingDetails struct {
	Guests   int       `json:"guests"`
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
	// A true flag means the guest explicitly requires the house rule to allow
	// it; false means no constraint.
	RequiresPets    bool `json:"requires_pets"`
	RequiresSmoking bool `json:"requires_smoking"`
	RequiresParties bool `json:"requires_parties"`
}
