// Package extractor turns numbered prose recommendations such as
//
//	1. Nobu Malibu - World-famous Japanese with ocean views
//
// into entities. It never calls out to anything; the only impurity, the
// decorative rating and distance, comes from an injected random source.
package extractor

import (
	"math"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/FACorreiaa/go-concierge/internal/app/models"
	"github.com/FACorreiaa/go-concierge/internal/pkg/keywords"
	"github.com/FACorreiaa/go-concierge/internal/pkg/textutil"
)

const DefaultMaxNameLength = 50

// DefaultFillerWords mark a "name" that is really part of a sentence.
var DefaultFillerWords = []string{"would", "could", "can", "should", "might", "will", "recommend", "suggest"}

// RandomSource is satisfied by *rand.Rand from math/rand/v2.
type RandomSource interface {
	Float64() float64
	IntN(n int) int
}

var (
	itemLine  = regexp.MustCompile(`^\s*\d+\.\s*(.+?)\s+[-–—]\s+(.+?)\s*$`)
	emphasis  = strings.NewReplacer("**", "", "__", "", "*", "")
	markerTag = regexp.MustCompile(`\[[A-Z_]+_WIDGET\]`)
)

type Option func(*Extractor)

// WithMaxNameLength overrides the name length guard.
func WithMaxNameLength(n int) Option {
	return func(e *Extractor) { e.maxNameLen = n }
}

// WithFillerWords overrides the sentence-fragment guard.
func WithFillerWords(words ...string) Option {
	return func(e *Extractor) {
		e.filler = keywords.New([][]string{words}, keywords.Options{WholeWords: true})
	}
}

type Extractor struct {
	mu         sync.Mutex
	rng        RandomSource
	maxNameLen int
	filler     *keywords.Matcher
}

// New builds an extractor drawing decorative values from rng.
func New(rng RandomSource, opts ...Option) *Extractor {
	e := &Extractor{
		rng:        rng,
		maxNameLen: DefaultMaxNameLength,
		filler:     keywords.New([][]string{DefaultFillerWords}, keywords.Options{WholeWords: true}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewSeeded is New with a PCG source, for reproducible output.
func NewSeeded(seed uint64, opts ...Option) *Extractor {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), opts...)
}

// Candidate is a numbered line split into name and description.
type Candidate struct {
	Name        string
	Description string
}

// Candidates lists the numbered "<n>. Name - description" lines of text
// that pass the precision guard, in order.
func (e *Extractor) Candidates(text string) []Candidate {
	var out []Candidate
	for _, line := range strings.Split(text, "\n") {
		m := itemLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := cleanName(m[1])
		desc := strings.TrimSpace(markerTag.ReplaceAllString(emphasis.Replace(m[2]), ""))
		if name == "" || desc == "" || !e.plausibleName(name) {
			continue
		}
		out = append(out, Candidate{Name: name, Description: desc})
	}
	return out
}

// Extract returns one entity per accepted candidate with fields derived for
// kind. Output order follows the text.
func (e *Extractor) Extract(text string, kind models.EntityKind) []models.Entity {
	cands := e.Candidates(text)
	if len(cands) == 0 {
		return nil
	}

	entities := make([]models.Entity, 0, len(cands))
	for _, c := range cands {
		entities = append(entities, e.build(c, kind))
	}
	return entities
}

func (e *Extractor) plausibleName(name string) bool {
	if utf8.RuneCountInString(name) > e.maxNameLen {
		return false
	}
	return !e.filler.Any(name)
}

func (e *Extractor) build(c Candidate, kind models.EntityKind) models.Entity {
	ent := models.Entity{
		ID:          textutil.Slug(c.Name),
		Name:        c.Name,
		Kind:        kind,
		Description: c.Description,
	}

	switch kind {
	case models.KindAttraction:
		ent.Type = attractionTypes.lookup(c.Description + " " + c.Name)
		ent.ImageURL = attractionPhotos[ent.Type]
		if ent.ImageURL == "" {
			ent.ImageURL = defaultAttractionPhoto
		}
		ent.Rating, ent.Distance = e.decorate()
	case models.KindAmenity:
		ent.Category = amenityCategories.lookup(c.Name + " " + c.Description)
		ent.Icon = amenityIcons[ent.Category]
		ent.Distance = "On property"
		ent.Rating, _ = e.decorate()
	default:
		ent.Kind = models.KindRestaurant
		ent.Cuisine = cuisines.lookup(c.Description)
		ent.PriceLevel = priceTier(c.Description)
		ent.ImageURL = restaurantPhotos.lookup(c.Name)
		ent.Rating, ent.Distance = e.decorate()
	}
	return ent
}

// decorate draws a rating in [4.0, 5.0] at one decimal and a distance.
func (e *Extractor) decorate() (float64, string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	rating := math.Round((e.rng.Float64()+4)*10) / 10
	return rating, distances[e.rng.IntN(len(distances))]
}

func priceTier(description string) string {
	if premiumPrice.Any(description) {
		return "$$$"
	}
	return "$$"
}

func cleanName(raw string) string {
	name := strings.TrimSpace(emphasis.Replace(raw))
	return strings.TrimSpace(strings.TrimRight(name, ":"))
}
