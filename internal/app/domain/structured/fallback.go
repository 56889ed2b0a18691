package structured

import (
	"slices"

	"github.com/FACorreiaa/go-concierge/internal/app/models"
	"github.com/FACorreiaa/go-concierge/internal/pkg/keywords"
)

// familyCues select the casual set. Substring matches, so "families" and
// "casually" count too.
var familyCues = keywords.New([][]string{{"family", "families", "casual", "low-key", "kids"}}, keywords.Options{})

// IsFamilyQuery reports whether query asks for the casual, family-friendly
// fallback set.
func IsFamilyQuery(query string) bool {
	return familyCues.Any(query)
}

// Fallback returns the curated answer for domain, chosen by query.
// The returned slices are copies.
func Fallback(d models.Domain, query string) models.StructuredResponse {
	family := IsFamilyQuery(query)

	var src models.StructuredResponse
	switch {
	case d == models.DomainAttractions && family:
		src = familyAttractions
	case d == models.DomainAttractions:
		src = defaultAttractions
	case family:
		src = familyDining
	default:
		src = defaultDining
	}

	return models.StructuredResponse{
		TextResponse: src.TextResponse,
		Restaurants:  slices.Clone(src.Restaurants),
		Attractions:  slices.Clone(src.Attractions),
	}
}

var defaultDining = models.StructuredResponse{
	TextResponse: "I'm happy to help! Here are some excellent dining options near the hotel.",
	Restaurants: []models.Entity{
		{
			ID:                  "nobu-malibu",
			Name:                "Nobu Malibu",
			Kind:                models.KindRestaurant,
			Cuisine:             "Japanese-Peruvian Fusion",
			Rating:              4.9,
			PriceLevel:          "$$$$",
			Description:         "Incredible Japanese fusion with breathtaking oceanfront views.",
			DetailedDescription: "Celebrity haven perched above Carbon Beach with oceanfront views.",
			Setting:             "Expansive ocean terrace with private dining cabanas and Pacific sunset views.",
			MustTry:             "The legendary Black Cod Miso and Rock Shrimp Tempura.",
			Experience:          "Where celebrities dine on world-class Japanese cuisine while watching the waves.",
			ImageURL:            "/images/nobu-oceanview.jpg",
			Address:             "22706 Pacific Coast Hwy, Malibu, CA 90265",
			Phone:               "(310) 317-9140",
			Website:             "https://www.noburestaurants.com/malibu",
		},
		{
			ID:                  "republique",
			Name:                "Republique",
			Kind:                models.KindRestaurant,
			Cuisine:             "Modern French",
			Rating:              4.7,
			PriceLevel:          "$$$$",
			Description:         "French cooking in a stunning historic building with a romantic atmosphere.",
			DetailedDescription: "Housed in a 1928 Gothic-style building, a busy cafe by day and an elegant French dining room by night.",
			Setting:             "Soaring cathedral ceilings with exposed brick and dramatic archways.",
			MustTry:             "The French-California pastries and the Duck Confit.",
			Experience:          "An LA institution where French technique meets California sensibility.",
			ImageURL:            "https://picsum.photos/seed/republique/800/600",
			Address:             "624 S La Brea Ave, Los Angeles, CA 90036",
			Phone:               "(310) 362-6115",
			Website:             "https://republiquela.com",
		},
		{
			ID:                  "bestia",
			Name:                "Bestia",
			Kind:                models.KindRestaurant,
			Cuisine:             "Italian",
			Rating:              4.7,
			PriceLevel:          "$$$$",
			Description:         "Industrial-chic Italian known for house-made charcuterie and wood-fired dishes.",
			DetailedDescription: "An Arts District favourite famous for its charcuterie and handmade pasta.",
			Setting:             "Raw warehouse space with exposed brick and steel beams.",
			MustTry:             "Roasted bone marrow, the charcuterie board and wood-fired pizza.",
			Experience:          "LA dining at its most exciting, with serious Italian cooking and Arts District edge.",
			ImageURL:            "https://picsum.photos/seed/bestia/800/600",
			Address:             "2121 E 7th Pl, Los Angeles, CA 90021",
			Phone:               "(213) 514-5724",
			Website:             "https://bestiala.com",
		},
		{
			ID:                  "providence",
			Name:                "Providence",
			Kind:                models.KindRestaurant,
			Cuisine:             "Seafood",
			Rating:              4.8,
			PriceLevel:          "$$$$",
			Description:         "Michelin-starred seafood with impeccable service and stunning tasting menus.",
			DetailedDescription: "A celebrated seafood tasting-menu restaurant on Melrose.",
			Setting:             "Elegant dining room with warm wood tones and refined table settings.",
			MustTry:             "The seasonal tasting menu featuring Santa Barbara uni.",
			Experience:          "The pinnacle of fine dining in LA where every detail is considered.",
			ImageURL:            "https://picsum.photos/seed/providence/800/600",
			Address:             "5955 Melrose Ave, Los Angeles, CA 90038",
			Phone:               "(323) 460-4170",
			Website:             "https://providencela.com",
		},
	},
}

var familyDining = models.StructuredResponse{
	TextResponse: "Got it! Here are some fantastic low-key, family-friendly spots with amazing food.",
	Restaurants: []models.Entity{
		{
			ID:                  "in-n-out-burger",
			Name:                "In-N-Out Burger",
			Kind:                models.KindRestaurant,
			Cuisine:             "American",
			Rating:              4.4,
			PriceLevel:          "$",
			Description:         "California's beloved burger chain with fresh ingredients and a secret menu.",
			DetailedDescription: "Fresh, never-frozen burgers cooked to order.",
			Setting:             "Bright retro fast-casual dining room with red-and-white tiles.",
			MustTry:             "Double-Double, Animal Style fries and a chocolate shake.",
			Experience:          "A true California experience that works for the whole family.",
			ImageURL:            "https://picsum.photos/seed/innout/800/600",
			Address:             "9149 S Sepulveda Blvd, Los Angeles, CA 90045",
			Phone:               "(800) 786-1000",
			Website:             "https://in-n-out.com",
		},
		{
			ID:                  "langers-delicatessen",
			Name:                "Langers Delicatessen",
			Kind:                models.KindRestaurant,
			Cuisine:             "Jewish Deli",
			Rating:              4.5,
			PriceLevel:          "$$",
			Description:         "Legendary family deli serving huge pastrami sandwiches since 1947.",
			DetailedDescription: "Widely considered the best pastrami in LA.",
			Setting:             "Classic deli with vintage booths and black-and-white photos.",
			MustTry:             "The #19 hot pastrami sandwich and matzo ball soup.",
			Experience:          "An LA institution run by the same family for generations.",
			ImageURL:            "https://picsum.photos/seed/langers/800/600",
			Address:             "704 S Alvarado St, Los Angeles, CA 90057",
			Phone:               "(213) 483-8050",
			Website:             "https://langersdeli.com",
		},
		{
			ID:                  "guelaguetza",
			Name:                "Guelaguetza",
			Kind:                models.KindRestaurant,
			Cuisine:             "Mexican",
			Rating:              4.6,
			PriceLevel:          "$$",
			Description:         "Family-run Oaxacan restaurant with authentic moles and a warm atmosphere.",
			DetailedDescription: "A beloved family-owned restaurant bringing Oaxacan cooking to Los Angeles.",
			Setting:             "Colourful dining room with traditional decor and live music on weekends.",
			MustTry:             "The mole sampler and house horchata.",
			Experience:          "A cultural experience shared by a family across generations.",
			ImageURL:            "https://picsum.photos/seed/guelaguetza/800/600",
			Address:             "3014 W Olympic Blvd, Los Angeles, CA 90006",
			Phone:               "(213) 427-0601",
			Website:             "https://www.guelaguetza.com",
		},
		{
			ID:                  "homeroom",
			Name:                "HomeRoom",
			Kind:                models.KindRestaurant,
			Cuisine:             "Comfort Food",
			Rating:              4.3,
			PriceLevel:          "$$",
			Description:         "Mac and cheese specialists with creative combinations kids love.",
			DetailedDescription: "A cozy spot built around elevated mac and cheese.",
			Setting:             "Homey room with communal tables.",
			MustTry:             "The classic mac and the grilled cheese sandwich.",
			Experience:          "Pure comfort food for the whole table.",
			ImageURL:            "https://picsum.photos/seed/homeroom/800/600",
			Address:             "1720 Telegraph Ave, Oakland, CA 94612",
			Phone:               "(510) 251-0000",
			Website:             "https://homeroom510.com",
		},
	},
}

var defaultAttractions = models.StructuredResponse{
	TextResponse: "Here are some great attractions around Los Angeles!",
	Attractions: []models.Entity{
		{
			ID:                  "santa-monica-pier",
			Name:                "Santa Monica Pier",
			Kind:                models.KindAttraction,
			Type:                "Amusement Park",
			Rating:              4.4,
			PriceLevel:          "$$",
			Description:         "Iconic oceanfront amusement park with rides and games.",
			DetailedDescription: "Historic pier with classic amusement park fun and Pacific views.",
			Setting:             "Oceanfront pier with a carnival atmosphere.",
			MustTry:             "The Pacific Wheel, the 1922 carousel and the arcade.",
			Experience:          "A quintessential LA outing, best at sunset.",
			ImageURL:            "https://picsum.photos/seed/santamonica/800/600",
			Address:             "200 Santa Monica Pier, Santa Monica, CA 90401",
			Phone:               "(310) 458-8900",
			Website:             "https://santamonicapier.org",
		},
		{
			ID:                  "griffith-observatory",
			Name:                "Griffith Observatory",
			Kind:                models.KindAttraction,
			Type:                "Science Museum",
			Rating:              4.6,
			PriceLevel:          "Free",
			Description:         "Hilltop observatory with free telescopes and sweeping city views.",
			DetailedDescription: "An Art Deco landmark with exhibits, a planetarium and public telescopes.",
			Setting:             "Perched on Mount Hollywood overlooking the basin and the Hollywood Sign.",
			MustTry:             "A planetarium show and the view from the roof terrace at dusk.",
			Experience:          "Science, architecture and the best skyline view in town.",
			ImageURL:            "https://picsum.photos/seed/griffith/800/600",
			Address:             "2800 E Observatory Rd, Los Angeles, CA 90027",
			Phone:               "(213) 473-0800",
			Website:             "https://griffithobservatory.org",
		},
		{
			ID:                  "getty-center",
			Name:                "Getty Center",
			Kind:                models.KindAttraction,
			Type:                "Art Museum",
			Rating:              4.8,
			PriceLevel:          "Free",
			Description:         "World-class art and hilltop gardens with free admission.",
			DetailedDescription: "An architectural landmark housing European art with panoramic views.",
			Setting:             "White travertine campus above the Santa Monica Mountains.",
			MustTry:             "The Central Garden and the sunset from the terraces.",
			Experience:          "Art, architecture and views in one visit.",
			ImageURL:            "https://picsum.photos/seed/getty/800/600",
			Address:             "1200 Getty Center Dr, Los Angeles, CA 90049",
			Phone:               "(310) 440-7300",
			Website:             "https://getty.edu",
		},
		{
			ID:                  "venice-beach",
			Name:                "Venice Beach",
			Kind:                models.KindAttraction,
			Type:                "Beach",
			Rating:              4.3,
			PriceLevel:          "Free",
			Description:         "Bohemian boardwalk with street performers, art and Muscle Beach.",
			DetailedDescription: "Where creativity meets the California beach lifestyle.",
			Setting:             "Eclectic beachfront boardwalk lined with shops and cafes.",
			MustTry:             "Muscle Beach, the skate park and a bike ride along the beach path.",
			Experience:          "An authentic slice of California counterculture.",
			ImageURL:            "https://picsum.photos/seed/venice/800/600",
			Address:             "Venice Beach, CA 90291",
			Phone:               "(310) 305-9545",
			Website:             "https://venicebeach.com",
		},
	},
}

var familyAttractions = models.StructuredResponse{
	TextResponse: "Here are some relaxed, family-friendly things to do around Los Angeles!",
	Attractions: []models.Entity{
		{
			ID:                  "santa-monica-pier",
			Name:                "Santa Monica Pier",
			Kind:                models.KindAttraction,
			Type:                "Amusement Park",
			Rating:              4.4,
			PriceLevel:          "$$",
			Description:         "Rides, games and ocean views that keep every age busy.",
			DetailedDescription: "Historic pier with classic amusement park fun and Pacific views.",
			Setting:             "Oceanfront pier with a carnival atmosphere.",
			MustTry:             "The carousel, the Pacific Wheel and the aquarium under the pier.",
			Experience:          "Easy, walkable fun with the beach right next door.",
			ImageURL:            "https://picsum.photos/seed/santamonica/800/600",
			Address:             "200 Santa Monica Pier, Santa Monica, CA 90401",
			Phone:               "(310) 458-8900",
			Website:             "https://santamonicapier.org",
		},
		{
			ID:                  "california-science-center",
			Name:                "California Science Center",
			Kind:                models.KindAttraction,
			Type:                "Science Museum",
			Rating:              4.7,
			PriceLevel:          "Free",
			Description:         "Hands-on science exhibits and the Space Shuttle Endeavour.",
			DetailedDescription: "Interactive galleries on ecosystems, space and engineering in Exposition Park.",
			Setting:             "Bright, kid-friendly galleries next to the Rose Garden.",
			MustTry:             "Endeavour and the Ecosystems kelp tank.",
			Experience:          "Curious kids and adults can spend hours here.",
			ImageURL:            "https://picsum.photos/seed/sciencecenter/800/600",
			Address:             "700 Exposition Park Dr, Los Angeles, CA 90037",
			Phone:               "(323) 724-3623",
			Website:             "https://californiasciencecenter.org",
		},
		{
			ID:                  "aquarium-of-the-pacific",
			Name:                "Aquarium of the Pacific",
			Kind:                models.KindAttraction,
			Type:                "Aquarium",
			Rating:              4.6,
			PriceLevel:          "$$$",
			Description:         "Sea otters, sharks and touch pools on the Long Beach waterfront.",
			DetailedDescription: "Thousands of animals from the Pacific in themed galleries.",
			Setting:             "Waterfront building in Rainbow Harbor.",
			MustTry:             "The shark lagoon touch pool and the sea otter habitat.",
			Experience:          "A calm, engaging day out for all ages.",
			ImageURL:            "https://picsum.photos/seed/aquarium/800/600",
			Address:             "100 Aquarium Way, Long Beach, CA 90802",
			Phone:               "(562) 590-3100",
			Website:             "https://www.aquariumofpacific.org",
		},
		{
			ID:                  "griffith-observatory",
			Name:                "Griffith Observatory",
			Kind:                models.KindAttraction,
			Type:                "Science Museum",
			Rating:              4.6,
			PriceLevel:          "Free",
			Description:         "Free telescopes, a planetarium and big views of the city.",
			DetailedDescription: "An Art Deco landmark with exhibits, a planetarium and public telescopes.",
			Setting:             "Perched on Mount Hollywood overlooking the basin and the Hollywood Sign.",
			MustTry:             "A planetarium show and the public telescopes after dark.",
			Experience:          "Space exhibits that kids love and a view everyone remembers.",
			ImageURL:            "https://picsum.photos/seed/griffith/800/600",
			Address:             "2800 E Observatory Rd, Los Angeles, CA 90027",
			Phone:               "(213) 473-0800",
			Website:             "https://griffithobservatory.org",
		},
	},
}
