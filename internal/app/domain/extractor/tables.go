package extractor

import (
	"github.com/FACorreiaa/go-concierge/internal/pkg/keywords"
)

const (
	defaultRestaurantPhoto = "https://images.unsplash.com/photo-1517248135467-4c7edcad34c4?w=300"
	defaultAttractionPhoto = "https://images.unsplash.com/photo-1507525428034-b723cf961d3e?w=300"
)

// rule maps a keyword group to the value it assigns.
type rule struct {
	keywords []string
	value    string
}

// table is an ordered list of rules; the earliest matching rule wins.
type table struct {
	matcher  *keywords.Matcher
	values   []string
	fallback string
}

func newTable(rules []rule, fallback string, wholeWords bool) *table {
	groups := make([][]string, len(rules))
	values := make([]string, len(rules))
	for i, r := range rules {
		groups[i] = r.keywords
		values[i] = r.value
	}
	return &table{
		matcher:  keywords.New(groups, keywords.Options{WholeWords: wholeWords}),
		values:   values,
		fallback: fallback,
	}
}

func (t *table) lookup(text string) string {
	if g, ok := t.matcher.First(text); ok {
		return t.values[g]
	}
	return t.fallback
}

var (
	cuisines = newTable([]rule{
		{[]string{"japanese"}, "Japanese"},
		{[]string{"sushi"}, "Japanese"},
		{[]string{"italian"}, "Italian"},
		{[]string{"mexican"}, "Mexican"},
		{[]string{"american"}, "American"},
		{[]string{"steak"}, "Steakhouse"},
		{[]string{"seafood"}, "Seafood"},
		{[]string{"game"}, "American"},
		{[]string{"comfort"}, "American"},
		{[]string{"french"}, "French"},
		{[]string{"thai"}, "Thai"},
		{[]string{"mediterranean"}, "Mediterranean"},
	}, "American", false)

	attractionTypes = newTable([]rule{
		{[]string{"beach", "beaches", "ocean", "surf", "coast"}, "Beach"},
		{[]string{"museum", "museums", "art", "gallery", "galleries"}, "Museum"},
		{[]string{"wine", "wines", "vineyard", "vineyards", "winery", "tasting"}, "Winery"},
		{[]string{"hike", "hiking", "trail", "trails", "canyon"}, "Hiking"},
		{[]string{"pier", "observatory", "landmark"}, "Landmark"},
		{[]string{"park", "parks", "garden", "gardens"}, "Park"},
		{[]string{"shopping", "shops", "market", "boutiques"}, "Shopping"},
	}, "Attraction", true)

	amenityCategories = newTable([]rule{
		{[]string{"spa", "massage", "treatment", "treatments"}, "wellness"},
		{[]string{"gym", "fitness", "workout"}, "fitness"},
		{[]string{"pool", "swim", "swimming"}, "recreation"},
		{[]string{"restaurant", "dining", "breakfast", "dinner", "bar"}, "dining"},
	}, "service", true)

	premiumPrice = keywords.New([][]string{
		{"premium", "world-famous", "upscale"},
	}, keywords.Options{})

	restaurantPhotos = newTable([]rule{
		{[]string{"nobu"}, "https://images.unsplash.com/photo-1554118811-1e0d58224f24?w=300"},
		{[]string{"saddle", "lodge"}, "https://images.unsplash.com/photo-1517248135467-4c7edcad34c4?w=300"},
		{[]string{"sugarfish", "sushi"}, "https://images.unsplash.com/photo-1579584425555-c3ce17fd4351?w=300"},
		{[]string{"mastro", "steak"}, "https://images.unsplash.com/photo-1546833999-b9f581a1996d?w=300"},
		{[]string{"king", "fish"}, "https://images.unsplash.com/photo-1567620905732-2d1ec7ab7445?w=300"},
	}, defaultRestaurantPhoto, false)

	attractionPhotos = map[string]string{
		"Beach":  "https://images.unsplash.com/photo-1507525428034-b723cf961d3e?w=300",
		"Museum": "https://images.unsplash.com/photo-1578662996442-48f60103fc96?w=300",
		"Winery": "https://images.unsplash.com/photo-1510812431401-41d2bd2722f3?w=300",
	}

	amenityIcons = map[string]string{
		"wellness":   "🧘‍♀️",
		"recreation": "🏊‍♀️",
		"fitness":    "🏋️‍♀️",
		"dining":     "🍽️",
		"service":    "🔔",
	}

	distances = []string{"5 miles", "8 miles", "12 miles", "15 miles", "18 miles"}
)
