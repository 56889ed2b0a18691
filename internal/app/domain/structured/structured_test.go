package structured

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-concierge/internal/app/llm"
	"github.com/FACorreiaa/go-concierge/internal/app/models"
	"github.com/FACorreiaa/go-concierge/internal/app/streaming"
)

type cannedProvider struct {
	answer string
	err    error
	got    llm.Request
}

func (p *cannedProvider) Name() string { return "canned" }

func (p *cannedProvider) Stream(_ context.Context, req llm.Request) iter.Seq2[string, error] {
	p.got = req
	return func(yield func(string, error) bool) {
		if p.err != nil {
			yield("", p.err)
			return
		}
		for _, chunk := range streaming.Rechunk(p.answer, 7) {
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

const validDining = "```json\n" + `{
  "textResponse": "Here you go {enjoy}!",
  "restaurants": [
    {"name": "Sushi Gen", "cuisine": "Japanese", "rating": 4.7, "priceLevel": "$$$", "description": "Classic sushi bar."},
    {"id": "bavel", "name": "Bavel", "cuisine": "Middle Eastern", "rating": 4.8, "description": "Wood-fired plates."}
  ]
}` + "\n```"

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding chatter", `Sure! {"a":{"b":2}} Hope that helps.`, `{"a":{"b":2}}`},
		{"braces inside strings", `{"a":"}{"} trailing }`, `{"a":"}{"}`},
		{"escaped quotes", `{"a":"say \"}\""}`, `{"a":"say \"}\""}`},
		{"no object", "sorry, no", "sorry, no"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSONResponse(tt.in))
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("should accept a fenced dining document", func(t *testing.T) {
		resp, err := Parse(models.DomainDining, validDining)
		require.NoError(t, err)
		assert.Equal(t, "Here you go {enjoy}!", resp.TextResponse)
		require.Len(t, resp.Restaurants, 2)
		assert.Equal(t, "sushi-gen", resp.Restaurants[0].ID)
		assert.Equal(t, "bavel", resp.Restaurants[1].ID)
		assert.Equal(t, models.KindRestaurant, resp.Restaurants[0].Kind)
		assert.Empty(t, resp.Attractions)
	})

	t.Run("should reject unusable documents", func(t *testing.T) {
		tests := []struct {
			name string
			d    models.Domain
			raw  string
		}{
			{"not json", models.DomainDining, "I'm sorry, I can't help with that."},
			{"truncated", models.DomainDining, `{"textResponse":"hi","restaurants":[{"name":"A"`},
			{"empty list", models.DomainDining, `{"textResponse":"hi","restaurants":[]}`},
			{"wrong array for domain", models.DomainAttractions, validDining},
			{"rating out of range", models.DomainDining, `{"textResponse":"hi","restaurants":[{"name":"A","rating":7,"description":"x"}]}`},
			{"missing text", models.DomainDining, `{"restaurants":[{"name":"A","rating":4.5,"description":"x"}]}`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := Parse(tt.d, tt.raw)
				assert.ErrorIs(t, err, models.ErrInvalidDocument)
			})
		}
	})

	t.Run("should reject unknown domains", func(t *testing.T) {
		_, err := Parse(models.Domain("spa"), validDining)
		assert.ErrorIs(t, err, models.ErrUnknownDomain)
	})
}

func TestFallback(t *testing.T) {
	t.Run("should select the family set on family keywords", func(t *testing.T) {
		for _, q := range []string{
			"somewhere good for the family",
			"Something CASUAL please",
			"a low-key dinner",
			"we have kids with us",
		} {
			got := Fallback(models.DomainDining, q)
			assert.Equal(t, "in-n-out-burger", got.Restaurants[0].ID, q)
		}
	})

	t.Run("should select the upscale set otherwise", func(t *testing.T) {
		got := Fallback(models.DomainDining, "I'd like to know about local dining options")
		require.NotEmpty(t, got.Restaurants)
		assert.Equal(t, "nobu-malibu", got.Restaurants[0].ID)
		assert.Empty(t, got.Attractions)
	})

	t.Run("should cover attractions in both flavours", func(t *testing.T) {
		def := Fallback(models.DomainAttractions, "things to do")
		fam := Fallback(models.DomainAttractions, "family day out")
		require.NotEmpty(t, def.Attractions)
		require.NotEmpty(t, fam.Attractions)
		assert.Empty(t, def.Restaurants)
		assert.Contains(t, fam.Attractions[1].ID, "science-center")
		assert.NotEqual(t, def.TextResponse, fam.TextResponse)
	})

	t.Run("should hand out copies", func(t *testing.T) {
		got := Fallback(models.DomainDining, "")
		got.Restaurants[0].Name = "changed"
		assert.Equal(t, "Nobu Malibu", Fallback(models.DomainDining, "").Restaurants[0].Name)
	})
}

func TestService_Recommend(t *testing.T) {
	ctx := context.Background()

	t.Run("should use a valid provider answer", func(t *testing.T) {
		p := &cannedProvider{answer: validDining}
		res := NewService(p).Recommend(ctx, models.DomainDining, "sushi tonight")

		assert.Equal(t, SourceProvider, res.Source)
		assert.Len(t, res.Response.Restaurants, 2)
		assert.True(t, p.got.JSON)
		assert.Equal(t, diningPrompt, p.got.System)
		assert.Equal(t, defaultMaxTokens, p.got.MaxTokens)
		require.Len(t, p.got.Turns, 1)
		assert.True(t, strings.HasPrefix(p.got.Turns[0].Content, "sushi tonight\n\n"))
	})

	t.Run("should fall back when the provider fails", func(t *testing.T) {
		p := &cannedProvider{err: models.ErrUpstream}
		res := NewService(p, WithMaxTokens(500)).Recommend(ctx, models.DomainAttractions, "family fun")

		assert.Equal(t, SourceFallback, res.Source)
		assert.Equal(t, "provider_error", res.Reason)
		assert.Equal(t, Fallback(models.DomainAttractions, "family fun"), res.Response)
		assert.Equal(t, 500, p.got.MaxTokens)
	})

	t.Run("should fall back on a malformed document", func(t *testing.T) {
		p := &cannedProvider{answer: `{"textResponse": "oops", "restaurants": [`}
		res := NewService(p).Recommend(ctx, models.DomainDining, "dinner")

		assert.Equal(t, SourceFallback, res.Source)
		assert.Equal(t, "invalid_document", res.Reason)
		assert.NotEmpty(t, res.Response.Restaurants)
	})
}

func TestService_StreamRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&cannedProvider{err: errors.New("down")}, WithPacer(streaming.NoPacer{}))

	var body strings.Builder
	res, err := svc.Stream(ctx, models.DomainDining, "family dinner", streaming.NewEventWriter(&body))
	require.NoError(t, err)

	want, err := res.Document()
	require.NoError(t, err)

	got, err := streaming.Reassemble(ctx, strings.NewReader(body.String()))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	var decoded models.StructuredResponse
	require.NoError(t, json.Unmarshal([]byte(got), &decoded))
	assert.Equal(t, res.Response, decoded)
}

func setupRouter(p llm.Provider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandlers(NewService(p, WithPacer(streaming.NoPacer{}), WithChunkSize(10)), nil)
	r := gin.New()
	r.POST("/api/chat/local-dining", h.HandleLocalDining)
	r.POST("/api/chat/nearby-attractions", h.HandleNearbyAttractions)
	return r
}

func TestHandlers(t *testing.T) {
	t.Run("should stream the fallback when the provider is down", func(t *testing.T) {
		r := setupRouter(&cannedProvider{err: models.ErrUpstream})
		req := httptest.NewRequest(http.MethodPost, "/api/chat/local-dining",
			strings.NewReader(`{"query":"I'd like to know about local dining options"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")
		assert.True(t, strings.HasSuffix(w.Body.String(), "data: [DONE]\n\n"))

		doc, err := streaming.Reassemble(context.Background(), w.Body)
		require.NoError(t, err)

		var resp models.StructuredResponse
		require.NoError(t, json.Unmarshal([]byte(doc), &resp))
		assert.NotEmpty(t, resp.Restaurants)
		assert.Equal(t, "nobu-malibu", resp.Restaurants[0].ID)
	})

	t.Run("should stream a provider answer for attractions", func(t *testing.T) {
		answer := `{"textResponse":"Go outside!","attractions":[{"name":"Runyon Canyon","type":"Hiking","rating":4.6,"description":"Dog-friendly trails."}]}`
		r := setupRouter(&cannedProvider{answer: answer})
		req := httptest.NewRequest(http.MethodPost, "/api/chat/nearby-attractions",
			strings.NewReader(`{"query":"hiking"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		doc, err := streaming.Reassemble(context.Background(), w.Body)
		require.NoError(t, err)
		var resp models.StructuredResponse
		require.NoError(t, json.Unmarshal([]byte(doc), &resp))
		require.Len(t, resp.Attractions, 1)
		assert.Equal(t, "runyon-canyon", resp.Attractions[0].ID)
	})

	t.Run("should reject a missing query", func(t *testing.T) {
		r := setupRouter(&cannedProvider{})
		req := httptest.NewRequest(http.MethodPost, "/api/chat/local-dining", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
