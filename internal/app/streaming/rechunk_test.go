package streaming

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRechunk(t *testing.T) {
	t.Run("should split into slices of the requested size", func(t *testing.T) {
		chunks := Rechunk("abcdefghijklmnopqrstuvw", 10)
		assert.Equal(t, []string{"abcdefghij", "klmnopqrst", "uvw"}, chunks)
	})

	t.Run("should never split a multibyte rune", func(t *testing.T) {
		s := `{"textResponse":"Café Ñandú — 東京 sushi 🍣 tonight"}`
		chunks := Rechunk(s, 10)
		for _, c := range chunks {
			assert.True(t, utf8.ValidString(c), "chunk %q", c)
			assert.LessOrEqual(t, utf8.RuneCountInString(c), 10)
		}
		assert.Equal(t, s, strings.Join(chunks, ""))
	})

	t.Run("should return nothing for empty input", func(t *testing.T) {
		assert.Empty(t, Rechunk("", 10))
	})

	t.Run("should fall back to the default size", func(t *testing.T) {
		assert.Equal(t, []string{"0123456789", "x"}, Rechunk("0123456789x", 0))
	})
}

func TestEmitChunked_RoundTrip(t *testing.T) {
	payload := `{"textResponse":"Here are Simon's picks","restaurants":[{"id":"nobu-malibu","name":"Nobu Malibu"}]}`

	var buf bytes.Buffer
	ew := NewEventWriter(&buf)
	require.NoError(t, EmitChunked(context.Background(), ew, payload, 10, NoPacer{}))

	wantEvents := len(Rechunk(payload, 10)) + 1
	assert.Equal(t, wantEvents, ew.Events())
	assert.True(t, strings.HasSuffix(buf.String(), "data: [DONE]\n\n"))

	text, err := Reassemble(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, payload, text)
}

func TestFixedPacer(t *testing.T) {
	t.Run("should wait at least the interval", func(t *testing.T) {
		start := time.Now()
		require.NoError(t, FixedPacer{Interval: 5 * time.Millisecond}.Wait(context.Background()))
		assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
	})

	t.Run("should abort when the context ends", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := FixedPacer{Interval: time.Hour}.Wait(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
