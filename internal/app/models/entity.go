package models

import "time"

// EntityKind identifies which card family an entity belongs to.
type EntityKind string

const (
	KindRestaurant EntityKind = "restaurant"
	KindAttraction EntityKind = "attraction"
	KindAmenity    EntityKind = "amenity"
)

// Entity is a recommendable place or service. Restaurants carry Cuisine,
// attractions carry Type and hotel amenities carry Category, matching the
// field names the completion endpoints emit.
type Entity struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Kind                EntityKind `json:"kind,omitempty"`
	Cuisine             string     `json:"cuisine,omitempty"`
	Type                string     `json:"type,omitempty"`
	Category            string     `json:"category,omitempty"`
	Rating              float64    `json:"rating"`
	PriceLevel          string     `json:"priceLevel,omitempty"`
	Description         string     `json:"description"`
	DetailedDescription string     `json:"detailedDescription,omitempty"`
	Setting             string     `json:"setting,omitempty"`
	MustTry             string     `json:"mustTry,omitempty"`
	Experience          string     `json:"experience,omitempty"`
	ImageURL            string     `json:"imageUrl,omitempty"`
	Address             string     `json:"address,omitempty"`
	Phone               string     `json:"phone,omitempty"`
	Website             string     `json:"website,omitempty"`
	Distance            string     `json:"distance,omitempty"`
	Hours               string     `json:"hours,omitempty"`
	Bookable            bool       `json:"bookable,omitempty"`
	Icon                string     `json:"icon,omitempty"`
}

// Classification returns whichever of cuisine, type or category is set.
func (e Entity) Classification() string {
	switch {
	case e.Cuisine != "":
		return e.Cuisine
	case e.Type != "":
		return e.Type
	default:
		return e.Category
	}
}

// CachedQueryResult is what the session store remembers for one query
// fingerprint.
type CachedQueryResult struct {
	DisplayText string    `json:"displayText"`
	Entities    []Entity  `json:"entities"`
	CachedAt    time.Time `json:"cachedAt"`
}

// Fresh reports whether the result is still inside its TTL at now.
func (r CachedQueryResult) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(r.CachedAt) < ttl
}

// Domain selects a structured recommendation family.
type Domain string

const (
	DomainDining      Domain = "dining"
	DomainAttractions Domain = "attractions"
)

// ParseDomain maps route and CLI spellings onto a Domain.
func ParseDomain(s string) (Domain, error) {
	switch s {
	case "dining", "local-dining", "restaurants":
		return DomainDining, nil
	case "attractions", "nearby-attractions":
		return DomainAttractions, nil
	}
	return "", ErrUnknownDomain
}

// Kind is the entity kind produced for the domain.
func (d Domain) Kind() EntityKind {
	if d == DomainAttractions {
		return KindAttraction
	}
	return KindRestaurant
}

// StructuredResponse is the JSON document streamed by the structured
// endpoints. Exactly one of Restaurants or Attractions is populated.
type StructuredResponse struct {
	TextResponse string   `json:"textResponse"`
	Restaurants  []Entity `json:"restaurants,omitempty"`
	Attractions  []Entity `json:"attractions,omitempty"`
}

// Entities returns the populated entity array.
func (r StructuredResponse) Entities() []Entity {
	if len(r.Restaurants) > 0 {
		return r.Restaurants
	}
	return r.Attractions
}
