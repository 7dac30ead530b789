package domain

import "time"

// Brief types as they appear on published listings. The marketplace stores
// listings under a commercial brief label rather than the preference mode.
const (
	BriefOutrightSales = "Outright Sales"
	BriefJointVenture  = "Joint Venture"
	BriefRent          = "Rent"
	BriefShortlet      = "Shortlet"
)

// Listing is a published property brief. Read-only input to matching.
type Listing struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	BriefType    string          `json:"brief_type"`
	PropertyType string          `json:"property_type"`
	BuildingType string          `json:"building_type"`
	Condition    string          `json:"condition"`
	Location     ListingLocation `json:"location"`
	Price        float64         `json:"price"`
	Bedrooms     int             `json:"bedrooms"`
	Bathrooms    int             `json:"bathrooms"`
	LandSize     float64         `json:"land_size"`
	Features     []string        `json:"features"`
	// Documents lists title documents the owner has provided for the brief.
	Documents []string `json:"documents"`
	Pictures  []string `json:"pictures"`

	// Shortlet-only fields.
	MaxGuests  int            `json:"max_guests"`
	HouseRules HouseRules     `json:"house_rules"`
	Bookings   []BookedPeriod `json:"bookings"`

	// Lifecycle. A listing is eligible for matching only when approved and
	// neither rejected nor soft-deleted.
	IsApproved bool `json:"is_approved"`
	IsRejected bool `json:"is_rejected"`
	IsDeleted  bool `json:"is_deleted"`

	CreatedAt time.Time `json:"created_at"`
}

type ListingLocation struct {
	State string `json:"state"`
	LGA   string `json:"lga"`
	Area  string `json:"area"`
}

type HouseRules struct {
	PetsAllowed    bool `json:"pets_allowed"`
	SmokingAllowed bool `json:"smoking_allowed"`
	PartiesAllowed bool `json:"parties_allowed"`
}

// BookedPeriod is an existing reservation on a shortlet listing, inclusive of
// both endpoints at day granularity.
type BookedPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Active reports whether the listing is live on the marketplace.
func (l Listing) Active() bool {
	return l.IsApproved && !l.IsRejected && !l.IsDeleted
}

// ListingSummary is the listing shape exposed in match responses.
type ListingSummary struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Location     ListingLocation `json:"location"`
	Price        float64         `json:"price"`
	PropertyType string          `json:"property_type"`
	Bedrooms     int             `json:"bedrooms"`
	Bathrooms    int             `json:"bathrooms"`
	Pictures     []string        `json:"pictures"`
}

// Summary projects the listing onto its response shape.
func (l Listing) Summary() ListingSummary {
	return ListingSummary{
		ID:           l.ID,
		Title:        l.Title,
		Location:     l.Location,
		Price:        l.Price,
		PropertyType: l.PropertyType,
		Bedrooms:     l.Bedrooms,
		Bathrooms:    l.Bathrooms,
		Pictures:     l.Pictures,
	}
}
