package httpapi

import (
	"time"

	"github.com/asterhomes/preference-matching/internal/domain"
)

// dateFormat is the wire format for booking and check-in/out dates.
const dateFormat = "2006-01-02"

type createPreferenceRequest struct {
	Mode     string          `json:"mode" validate:"required,oneof=buy rent shortlet joint-venture"`
	Location locationRequest `json:"location"`
	Budget   budgetRequest   `json:"budget"`
	Features featuresRequest `json:"features"`
	Contact  contactRequest  `json:"contact" validate:"required"`

	PropertyDetails    *propertyDetailsRequest    `json:"property_details,omitempty"`
	DevelopmentDetails *developmentDetailsRequest `json:"development_details,omitempty"`
	BookingDetails     *bookingDetailsRequest     `json:"booking_details,omitempty"`
}

type locationRequest struct {
	State string             `json:"state"`
	LGAs  []lgaSelectRequest `json:"lgas,omitempty" validate:"dive"`
}

type lgaSelectRequest struct {
	Name  string   `json:"name" validate:"required"`
	Areas []string `json:"areas,omitempty"`
}

type budgetRequest struct {
	Min float64 `json:"min" validate:"gte=0"`
	Max float64 `json:"max" validate:"gte=0"`
}

type featuresRequest struct {
	Base    []string `json:"base,omitempty"`
	Premium []string `json:"premium,omitempty"`
}

type contactRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
}

type propertyDetailsRequest struct {
	PropertyType string `json:"property_type"`
	BuildingType string `json:"building_type"`
	MinBedrooms  int    `json:"min_bedrooms" validate:"gte=0"`
	MinBathrooms int    `json:"min_bathrooms" validate:"gte=0"`
	Condition    string `json:"condition"`
}

type developmentDetailsRequest struct {
	MinLandSize              float64  `json:"min_land_size" validate:"gte=0"`
	MaxLandSize              float64  `json:"max_land_size" validate:"gte=0"`
	MinimumTitleRequirements []string `json:"minimum_title_requirements,omitempty"`
}

type bookingDetailsRequest struct {
	Guests          int    `json:"guests" validate:"gte=0"`
	CheckIn         string `json:"check_in" validate:"required"`
	CheckOut        string `json:"check_out" validate:"required"`
	RequiresPets    bool   `json:"requires_pets"`
	RequiresSmoking bool   `json:"requires_smoking"`
	RequiresParties bool   `json:"requires_parties"`
}

// toDomain converts the request into a domain preference. Date parse failures
// surface as domain validation errors so the caller sees which field broke.
func (r createPreferenceRequest) toDomain(id string) (domain.Preference, error) {
	p := domain.Preference{
		ID:   id,
		Mode: domain.PreferenceMode(r.Mode),
		Location: domain.LocationCriteria{
			State: r.Location.State,
		},
		Budget: domain.BudgetRange{Min: r.Budget.Min, Max: r.Budget.Max},
		Features: domain.FeatureLists{
			Base:    r.Features.Base,
			Premium: r.Features.Premium,
		},
		Contact: domain.ContactInfo{
			FullName: r.Contact.FullName,
			Email:    r.Contact.Email,
			Phone:    r.Contact.Phone,
		},
		CreatedAt: time.Now().UTC(),
	}
	for _, lga := range r.Location.LGAs {
		p.Location.LGAs = append(p.Location.LGAs, domain.LGASelection{Name: lga.Name, Areas: lga.Areas})
	}

	if r.PropertyDetails != nil {
		p.Property = &domain.PropertyDetails{
			PropertyType: r.PropertyDetails.PropertyType,
			BuildingType: r.PropertyDetails.BuildingType,
			MinBedrooms:  r.PropertyDetails.MinBedrooms,
			MinBathrooms: r.PropertyDetails.MinBathrooms,
			Condition:    r.PropertyDetails.Condition,
		}
	}
	if r.DevelopmentDetails != nil {
		p.Development = &domain.DevelopmentDetails{
			MinLandSize:              r.DevelopmentDetails.MinLandSize,
			MaxLandSize:              r.DevelopmentDetails.MaxLandSize,
			MinimumTitleRequirements: r.DevelopmentDetails.MinimumTitleRequirements,
		}
	}
	if r.BookingDetails != nil {
		checkIn, err := time.Parse(dateFormat, r.BookingDetails.CheckIn)
		if err != nil {
			return domain.Preference{}, &domain.ValidationError{Field: "booking_details.check_in", Reason: "must be a YYYY-MM-DD date"}
		}
		checkOut, err := time.Parse(dateFormat, r.BookingDetails.CheckOut)
		if err != nil {
			return domain.Preference{}, &domain.ValidationError{Field: "booking_details.check_out", Reason: "must be a YYYY-MM-DD date"}
		}
		p.Booking = &domain.BookingDetails{
			Guests:          r.BookingDetails.Guests,
			CheckIn:         checkIn,
			CheckOut:        checkOut,
			RequiresPets:    r.BookingDetails.RequiresPets,
			RequiresSmoking: r.BookingDetails.RequiresSmoking,
			RequiresParties: r.BookingDetails.RequiresParties,
		}
	}
	return p, nil
}

type createListingRequest struct {
	Title        string   `json:"title" validate:"required"`
	BriefType    string   `json:"brief_type" validate:"required,oneof='Outright Sales' 'Joint Venture' 'Rent' 'Shortlet'"`
	PropertyType string   `json:"property_type"`
	BuildingType string   `json:"building_type"`
	Condition    string   `json:"condition"`
	State        string   `json:"state" validate:"required"`
	LGA          string   `json:"lga"`
	Area         string   `json:"area"`
	Price        float64  `json:"price" validate:"gt=0"`
	Bedrooms     int      `json:"bedrooms" validate:"gte=0"`
	Bathrooms    int      `json:"bathrooms" validate:"gte=0"`
	LandSize     float64  `json:"land_size" validate:"gte=0"`
	MaxGuests    int      `json:"max_guests" validate:"gte=0"`
	Features     []string `json:"features,omitempty"`
	Documents    []string `json:"documents,omitempty"`
	Pictures     []string `json:"pictures,omitempty"`

	HouseRules *houseRulesRequest  `json:"house_rules,omitempty"`
	Bookings   []bookedSpanRequest `json:"bookings,omitempty" validate:"dive"`

	// Approved defaults to true so seeded/admin-created briefs go live
	// immediately; curation flows may create unapproved ones.
	Approved *bool `json:"approved,omitempty"`
}

type houseRulesRequest struct {
	PetsAllowed    bool `json:"pets_allowed"`
	SmokingAllowed bool `json:"smoking_allowed"`
	PartiesAllowed bool `json:"parties_allowed"`
}

type bookedSpanRequest struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

func (r createListingRequest) toDomain(id string) (domain.Listing, error) {
	l := domain.Listing{
		ID:           id,
		Title:        r.Title,
		BriefType:    r.BriefType,
		PropertyType: r.PropertyType,
		BuildingType: r.BuildingType,
		Condition:    r.Condition,
		Location:     domain.ListingLocation{State: r.State, LGA: r.LGA, Area: r.Area},
		Price:        r.Price,
		Bedrooms:     r.Bedrooms,
		Bathrooms:    r.Bathrooms,
		LandSize:     r.LandSize,
		MaxGuests:    r.MaxGuests,
		Features:     r.Features,
		Documents:    r.Documents,
		Pictures:     r.Pictures,
		IsApproved:   true,
		CreatedAt:    time.Now().UTC(),
	}
	if r.Approved != nil {
		l.IsApproved = *r.Approved
	}
	if r.HouseRules != nil {
		l.HouseRules = domain.HouseRules{
			PetsAllowed:    r.HouseRules.PetsAllowed,
			SmokingAllowed: r.HouseRules.SmokingAllowed,
			PartiesAllowed: r.HouseRules.PartiesAllowed,
		}
	}
	for _, span := range r.Bookings {
		start, err := time.Parse(dateFormat, span.Start)
		if err != nil {
			return domain.Listing{}, &domain.ValidationError{Field: "bookings.start", Reason: "must be a YYYY-MM-DD date"}
		}
		end, err := time.Parse(dateFormat, span.End)
		if err != nil {
			return domain.Listing{}, &domain.ValidationError{Field: "bookings.end", Reason: "must be a YYYY-MM-DD date"}
		}
		if end.Before(start) {
			return domain.Listing{}, &domain.ValidationError{Field: "bookings", Reason: "end before start"}
		}
		l.Bookings = append(l.Bookings, domain.BookedPeriod{Start: start, End: end})
	}
	return l, nil
}

type listingsListResponse struct {
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
	Total  int              `json:"total"`
	Items  []domain.Listing `json:"items"`
}
