package llm

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/FACorreiaa/go-concierge/internal/app/models"
	"github.com/FACorreiaa/go-concierge/internal/pkg/keywords"
)

const mockGreeting = "Hey! I'm Simon, your hotel concierge. "

var (
	mockTopics = keywords.New([][]string{
		{"restaurant", "restaurants", "food", "eat", "dinner", "lunch"},
		{"attraction", "attractions", "do", "see", "visit"},
		{"hotel", "spa", "gym", "pool", "massage"},
	}, keywords.Options{WholeWords: true})

	mockReplies = []string{
		"I know some amazing restaurants around here! For a romantic dinner, I'd recommend Nobu Malibu - the sunset views are incredible. Or if you want something more intimate, there's a fantastic farm-to-table place called SunCafe Organic in Studio City. What kind of cuisine are you in the mood for? [RESTAURANT_WIDGET]",
		"There's so much to explore around here! You could visit the gorgeous El Matador Beach in Malibu - perfect for sunset photos. Or if you're into wine, there are some incredible wineries in the Santa Monica Mountains. What kind of activities interest you? [ATTRACTION_WIDGET]",
		"I'd love to help with our hotel amenities! Our spa offers amazing couples treatments, and the rooftop pool has stunning mountain views. The fitness center is open 24/7 if you want to squeeze in a workout. What can I book for you? [HOTEL_WIDGET]",
	}

	mockDefault = "I know all the best spots around Santa Monica and Malibu. Whether you're looking for amazing restaurants, beautiful attractions, or want to book hotel services, I'm here to help! What sounds interesting to you?"
)

// Mock answers from canned replies, word by word.
type Mock struct {
	delay time.Duration
}

func NewMock(delay time.Duration) *Mock {
	return &Mock{delay: delay}
}

func (m *Mock) Name() string { return "mock" }

// Reply picks the canned answer for the latest guest message.
func (m *Mock) Reply(turns []models.ChatTurn) string {
	var last string
	if len(turns) > 0 {
		last = turns[len(turns)-1].Content
	}
	if g, ok := mockTopics.First(last); ok {
		return mockGreeting + mockReplies[g]
	}
	return mockGreeting + mockDefault
}

func (m *Mock) Stream(ctx context.Context, req Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if req.JSON {
			yield("", fmt.Errorf("mock provider has no structured output: %w", models.ErrUpstream))
			return
		}

		for i, word := range strings.Split(m.Reply(req.Turns), " ") {
			if i > 0 && m.delay > 0 {
				select {
				case <-ctx.Done():
					yield("", ctx.Err())
					return
				case <-time.After(m.delay):
				}
			}
			if !yield(word+" ", nil) {
				return
			}
		}
	}
}
