package widgets

import (
	"slices"
	"sort"

	"github.com/FACorreiaa/go-concierge/internal/app/models"
	"github.com/FACorreiaa/go-concierge/internal/pkg/keywords"
)

// Relevance groups used to reorder the contextual card sets.
const (
	cueRomantic = iota
	cueUpscale
	cueItalian
	cueMexican
)

const (
	cueBeach = iota
	cueArt
	cueWine
)

var (
	restaurantCues = keywords.New([][]string{
		{"romantic", "romance", "couples", "date night"},
		{"upscale", "fine", "luxury", "elegant"},
		{"italian", "pasta"},
		{"mexican", "tacos", "taco"},
	}, keywords.Options{WholeWords: true})

	attractionCues = keywords.New([][]string{
		{"beach", "beaches", "ocean", "sunset"},
		{"art", "arts", "museum", "museums", "gallery"},
		{"wine", "wines", "vineyard", "vineyards", "tasting"},
	}, keywords.Options{WholeWords: true})

	// Checked in order; the first hit narrows the amenity list.
	amenityCues = keywords.New([][]string{
		{"spa", "massage", "massages"},
		{"gym", "fitness", "workout"},
		{"pool", "swim", "swimming"},
		{"restaurant", "dining", "breakfast"},
	}, keywords.Options{WholeWords: true})

	amenityFocus = []struct{ id, category string }{
		{"spa", "wellness"},
		{"gym", "fitness"},
		{"pool", "recreation"},
		{"restaurant", "dining"},
	}
)

type highlighted struct {
	entity models.Entity
	when   func(cues []int) bool
}

func cue(wanted ...int) func([]int) bool {
	return func(cues []int) bool {
		for _, w := range wanted {
			if slices.Contains(cues, w) {
				return true
			}
		}
		return false
	}
}

var contextRestaurants = []highlighted{
	{
		entity: models.Entity{
			ID: "nobu-santa-monica", Name: "Nobu Santa Monica", Kind: models.KindRestaurant,
			Cuisine: "Japanese", Rating: 4.6, PriceLevel: "$$$", Distance: "8 miles",
			Description: "Upscale Japanese with ocean views",
			ImageURL:    "https://images.unsplash.com/photo-1554118811-1e0d58224f24?w=300",
		},
		when: cue(cueRomantic, cueUpscale),
	},
	{
		entity: models.Entity{
			ID: "gracias-madre", Name: "Gracias Madre", Kind: models.KindRestaurant,
			Cuisine: "Mexican", Rating: 4.4, PriceLevel: "$$", Distance: "12 miles",
			Description: "Plant-based Mexican in West Hollywood",
			ImageURL:    "https://images.unsplash.com/photo-1565299624946-b28f40a0ca4b?w=300",
		},
		when: cue(cueMexican),
	},
	{
		entity: models.Entity{
			ID: "the-ivy", Name: "The Ivy", Kind: models.KindRestaurant,
			Cuisine: "American", Rating: 4.3, PriceLevel: "$$$", Distance: "15 miles",
			Description: "Classic California cuisine",
			ImageURL:    "https://images.unsplash.com/photo-1517248135467-4c7edcad34c4?w=300",
		},
		when: cue(cueUpscale),
	},
}

var contextAttractions = []highlighted{
	{
		entity: models.Entity{
			ID: "el-matador-beach", Name: "El Matador Beach", Kind: models.KindAttraction,
			Type: "Beach", Rating: 4.7, Distance: "12 miles", Hours: "Sunrise to sunset",
			Description: "Dramatic rock formations and sunset views",
			ImageURL:    "https://images.unsplash.com/photo-1507525428034-b723cf961d3e?w=300",
		},
		when: cue(cueBeach),
	},
	{
		entity: models.Entity{
			ID: "getty-villa", Name: "Getty Villa", Kind: models.KindAttraction,
			Type: "Museum", Rating: 4.6, Distance: "10 miles", Hours: "10am-5pm (Thu-Mon)",
			Description: "Ancient art in stunning architecture",
			ImageURL:    "https://images.unsplash.com/photo-1578662996442-48f60103fc96?w=300",
		},
		when: cue(cueArt),
	},
	{
		entity: models.Entity{
			ID: "santa-monica-wine-safaris", Name: "Santa Monica Wine Safaris", Kind: models.KindAttraction,
			Type: "Winery", Rating: 4.5, Distance: "15 miles", Hours: "11am-6pm",
			Description: "Wine tasting with exotic animals",
			ImageURL:    "https://images.unsplash.com/photo-1510812431401-41d2bd2722f3?w=300",
		},
		when: cue(cueWine),
	},
}

// HotelAmenities is the property's own amenity list.
var HotelAmenities = []models.Entity{
	{
		ID: "spa", Name: "Anza Spa", Kind: models.KindAmenity, Category: "wellness",
		Description: "Full-service spa with couples treatments", Hours: "9:00 AM - 8:00 PM",
		Bookable: true, Icon: "🧘‍♀️",
	},
	{
		ID: "pool", Name: "Rooftop Pool", Kind: models.KindAmenity, Category: "recreation",
		Description: "Adults-only pool with mountain views", Hours: "6:00 AM - 10:00 PM",
		Icon: "🏊‍♀️",
	},
	{
		ID: "gym", Name: "Fitness Center", Kind: models.KindAmenity, Category: "fitness",
		Description: "24/7 state-of-the-art fitness facility", Hours: "24 hours",
		Bookable: true, Icon: "🏋️‍♀️",
	},
	{
		ID: "restaurant", Name: "Terrace Restaurant", Kind: models.KindAmenity, Category: "dining",
		Description: "California cuisine with organic ingredients", Hours: "6:30 AM - 10:30 PM",
		Bookable: true, Icon: "🍽️",
	},
	{
		ID: "concierge", Name: "Concierge Services", Kind: models.KindAmenity, Category: "service",
		Description: "Personal assistance for reservations and planning", Hours: "24 hours",
		Icon: "🔔",
	},
}

const maxAmenities = 3

// ContextRestaurants returns the static restaurant set with the entries
// relevant to text moved to the front. Relative order is otherwise kept.
func ContextRestaurants(text string) []models.Entity {
	return rank(contextRestaurants, restaurantCues.Groups(text))
}

// ContextAttractions is ContextRestaurants for attractions.
func ContextAttractions(text string) []models.Entity {
	return rank(contextAttractions, attractionCues.Groups(text))
}

// ContextAmenities narrows the hotel amenities to the first category text
// asks about and returns at most three.
func ContextAmenities(text string) []models.Entity {
	relevant := HotelAmenities
	if g, ok := amenityCues.First(text); ok {
		focus := amenityFocus[g]
		relevant = nil
		for _, a := range HotelAmenities {
			if a.ID == focus.id || a.Category == focus.category {
				relevant = append(relevant, a)
			}
		}
	}
	if len(relevant) > maxAmenities {
		relevant = relevant[:maxAmenities]
	}
	return slices.Clone(relevant)
}

func rank(set []highlighted, cues []int) []models.Entity {
	ordered := slices.Clone(set)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].when(cues) && !ordered[j].when(cues)
	})

	out := make([]models.Entity, len(ordered))
	for i, h := range ordered {
		out[i] = h.entity
	}
	return out
}
