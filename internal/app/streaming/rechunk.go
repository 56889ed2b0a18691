package streaming

import (
	"context"
	"time"
	"unicode/utf8"
)

const (
	DefaultChunkSize  = 10
	DefaultChunkDelay = 20 * time.Millisecond
)

// Pacer decides how long to wait between re-chunked events.
type Pacer interface {
	Wait(ctx context.Context) error
}

// FixedPacer sleeps for Interval between chunks.
type FixedPacer struct {
	Interval time.Duration
}

func (p FixedPacer) Wait(ctx context.Context) error {
	if p.Interval <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.Interval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NoPacer emits chunks back to back.
type NoPacer struct{}

func (NoPacer) Wait(ctx context.Context) error { return ctx.Err() }

// Rechunk cuts s into consecutive slices of at most size runes. Slicing on
// rune boundaries keeps every slice valid UTF-8 so each one survives JSON
// encoding unchanged.
func Rechunk(s string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if s == "" {
		return nil
	}

	chunks := make([]string, 0, utf8.RuneCountInString(s)/size+1)
	start, runes := 0, 0
	for i := range s {
		if runes == size {
			chunks = append(chunks, s[start:i])
			start, runes = i, 0
		}
		runes++
	}
	return append(chunks, s[start:])
}

// EmitChunked streams payload as re-chunked delta events followed by the
// terminal sentinel.
func EmitChunked(ctx context.Context, ew *EventWriter, payload string, size int, pacer Pacer) error {
	if pacer == nil {
		pacer = NoPacer{}
	}
	for i, chunk := range Rechunk(payload, size) {
		if i > 0 {
			if err := pacer.Wait(ctx); err != nil {
				return err
			}
		}
		if err := ew.WriteDelta(chunk); err != nil {
			return err
		}
	}
	return ew.WriteDone()
}
