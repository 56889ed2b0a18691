// Package widgets finds widget trigger markers in assistant replies and
// resolves them into card payloads.
package widgets

import (
	"slices"
	"strings"
	"sync"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-concierge/internal/app/domain/extractor"
	"github.com/FACorreiaa/go-concierge/internal/app/models"
)

const (
	RestaurantMarker = "[RESTAURANT_WIDGET]"
	AttractionMarker = "[ATTRACTION_WIDGET]"
	HotelMarker      = "[HOTEL_WIDGET]"
)

var markerTypes = []models.WidgetType{
	models.WidgetRestaurant,
	models.WidgetAttraction,
	models.WidgetHotel,
}

// markerScanner finds the exact, case-sensitive marker tokens.
var markerScanner = struct {
	sync.Mutex
	ac ahocorasick.AhoCorasick
}{
	ac: buildMarkerAutomaton(),
}

func buildMarkerAutomaton() ahocorasick.AhoCorasick {
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		MatchKind: ahocorasick.LeftMostFirstMatch,
		DFA:       true,
	})
	return builder.Build([]string{RestaurantMarker, AttractionMarker, HotelMarker})
}

type markerHit struct {
	kind       models.WidgetType
	start, end int
}

func scan(content string) []markerHit {
	markerScanner.Lock()
	matches := markerScanner.ac.FindAll(content)
	markerScanner.Unlock()

	hits := make([]markerHit, len(matches))
	for i, m := range matches {
		hits[i] = markerHit{kind: markerTypes[m.Pattern()], start: m.Start(), end: m.End()}
	}
	return hits
}

// Markers lists the distinct marker kinds in order of first occurrence.
func Markers(content string) []models.WidgetType {
	var kinds []models.WidgetType
	for _, h := range scan(content) {
		if !slices.Contains(kinds, h.kind) {
			kinds = append(kinds, h.kind)
		}
	}
	return kinds
}

// Strip removes every marker occurrence and trims the result.
func Strip(content string) string {
	return strip(content, scan(content))
}

func strip(content string, hits []markerHit) string {
	if len(hits) == 0 {
		return strings.TrimSpace(content)
	}
	var b strings.Builder
	b.Grow(len(content))
	prev := 0
	for _, h := range hits {
		b.WriteString(content[prev:h.start])
		prev = h.end
	}
	b.WriteString(content[prev:])
	return strings.TrimSpace(b.String())
}

// Result is a reply ready for rendering.
type Result struct {
	CleanContent string
	Widgets      []models.Widget
}

type Detector struct {
	extractor *extractor.Extractor
	logger    *zap.Logger
}

func NewDetector(ex *extractor.Extractor, logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{extractor: ex, logger: logger}
}

// Detect strips the markers from content and attaches one widget per
// distinct marker, in order of first appearance. Restaurant widgets are
// filled from the numbered list in the reply when there is one. Everything
// else uses the contextual set ranked against query and reply.
func (d *Detector) Detect(content, query string) Result {
	hits := scan(content)
	res := Result{CleanContent: strip(content, hits)}
	if len(hits) == 0 {
		return res
	}

	relevance := strings.TrimSpace(query + "\n" + content)
	var seen []models.WidgetType
	for _, h := range hits {
		if slices.Contains(seen, h.kind) {
			continue
		}
		seen = append(seen, h.kind)

		items, source := d.resolve(h.kind, res.CleanContent, relevance)
		payload, err := models.NewWidgetPayload(h.kind, items)
		if err != nil {
			d.logger.Warn("Skipping widget", zap.String("type", string(h.kind)), zap.Error(err))
			continue
		}
		d.logger.Debug("Widget resolved",
			zap.String("type", string(h.kind)),
			zap.String("source", source),
			zap.Int("items", len(items)))
		res.Widgets = append(res.Widgets, models.Widget{Payload: payload})
	}
	return res
}

func (d *Detector) resolve(kind models.WidgetType, text, relevance string) ([]models.Entity, string) {
	if kind == models.WidgetRestaurant && d.extractor != nil {
		if items := d.extractor.Extract(text, models.KindRestaurant); len(items) > 0 {
			return items, "extracted"
		}
	}

	switch kind {
	case models.WidgetAttraction:
		return ContextAttractions(relevance), "context"
	case models.WidgetHotel:
		return ContextAmenities(relevance), "context"
	default:
		return ContextRestaurants(relevance), "context"
	}
}
