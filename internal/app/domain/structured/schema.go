package structured

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/FACorreiaa/go-concierge/internal/app/models"
	"github.com/FACorreiaa/go-concierge/internal/pkg/textutil"
)

const entitySchema = `{
  "type": "object",
  "required": ["name", "rating", "description"],
  "properties": {
    "id": {"type": "string"},
    "name": {"type": "string", "minLength": 1},
    "cuisine": {"type": "string"},
    "type": {"type": "string"},
    "rating": {"type": "number", "minimum": 0, "maximum": 5},
    "priceLevel": {"type": "string"},
    "description": {"type": "string"},
    "detailedDescription": {"type": "string"},
    "setting": {"type": "string"},
    "mustTry": {"type": "string"},
    "experience": {"type": "string"},
    "imageUrl": {"type": "string"},
    "address": {"type": "string"},
    "phone": {"type": "string"},
    "website": {"type": "string"}
  }
}`

func documentSchema(arrayKey string) string {
	return fmt.Sprintf(`{
  "type": "object",
  "required": ["textResponse", %q],
  "properties": {
    "textResponse": {"type": "string"},
    %q: {"type": "array", "minItems": 1, "items": %s}
  }
}`, arrayKey, arrayKey, entitySchema)
}

var schemas = map[models.Domain]*gojsonschema.Schema{
	models.DomainDining:      mustSchema(documentSchema("restaurants")),
	models.DomainAttractions: mustSchema(documentSchema("attractions")),
}

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("structured: invalid schema: %v", err))
	}
	return schema
}

// Parse turns a reassembled provider answer into a response for domain.
// Code fences and chatter around the object are tolerated; anything that
// fails the domain schema is models.ErrInvalidDocument.
func Parse(d models.Domain, raw string) (models.StructuredResponse, error) {
	schema, ok := schemas[d]
	if !ok {
		return models.StructuredResponse{}, models.ErrUnknownDomain
	}

	doc := cleanJSONResponse(raw)
	result, err := schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return models.StructuredResponse{}, fmt.Errorf("%w: %v", models.ErrInvalidDocument, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return models.StructuredResponse{}, fmt.Errorf("%w: %s", models.ErrInvalidDocument, strings.Join(msgs, "; "))
	}

	var resp models.StructuredResponse
	if err := json.Unmarshal([]byte(doc), &resp); err != nil {
		return models.StructuredResponse{}, fmt.Errorf("%w: %v", models.ErrInvalidDocument, err)
	}

	// Only the domain's array is kept.
	if d == models.DomainAttractions {
		resp.Restaurants = nil
		normalize(resp.Attractions, models.KindAttraction)
	} else {
		resp.Attractions = nil
		normalize(resp.Restaurants, models.KindRestaurant)
	}
	return resp, nil
}

func normalize(entities []models.Entity, kind models.EntityKind) {
	for i := range entities {
		entities[i].Kind = kind
		if entities[i].ID == "" {
			entities[i].ID = textutil.Slug(entities[i].Name)
		}
	}
}

// cleanJSONResponse strips markdown fences and returns the first balanced
// JSON object in response.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	firstBrace := strings.Index(response, "{")
	if firstBrace == -1 {
		return response
	}

	// Braces inside string literals must not count.
	depth, end := 0, -1
	inString, escaped := false, false
scan:
	for i := firstBrace; i < len(response); i++ {
		ch := response[i]
		switch {
		case escaped:
			escaped = false
		case inString && ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				end = i
				break scan
			}
		}
	}

	if end == -1 {
		lastBrace := strings.LastIndex(response, "}")
		if lastBrace <= firstBrace {
			return response
		}
		end = lastBrace
	}
	return strings.TrimSpace(response[firstBrace : end+1])
}
