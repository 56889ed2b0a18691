package streaming

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-concierge/internal/app/models"
)

const (
	dataField    = "data:"
	DoneSentinel = "[DONE]"
)

// Delta is the payload of a single data event.
type Delta struct {
	Content string `json:"content"`
}

// Stats describes what a reassembly pass saw.
type Stats struct {
	Events  int
	Dropped int
	Done    bool
}

type readerConfig struct {
	logger *zap.Logger
	onText func(string)
	stats  *Stats
}

type Option func(*readerConfig)

func WithLogger(l *zap.Logger) Option {
	return func(c *readerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDeltaHook calls fn with every content delta as it arrives.
func WithDeltaHook(fn func(string)) Option {
	return func(c *readerConfig) { c.onText = fn }
}

// WithStats records counters into s.
func WithStats(s *Stats) Option {
	return func(c *readerConfig) { c.stats = s }
}

// Deltas yields the content deltas of an SSE body in arrival order. Reads go
// through a line reader, so events split across network reads or packed into
// one read are framed the same way. Undecodable payloads are skipped. The
// sequence ends cleanly on [DONE]; EOF before [DONE] yields
// models.ErrIncompleteStream.
func Deltas(ctx context.Context, r io.Reader, opts ...Option) iter.Seq2[string, error] {
	cfg := readerConfig{logger: zap.NewNop(), stats: &Stats{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(yield func(string, error) bool) {
		br := bufio.NewReader(r)
		for {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}

			line, readErr := br.ReadString('\n')
			if readErr != nil && !errors.Is(readErr, io.EOF) {
				yield("", fmt.Errorf("reading event stream: %w", readErr))
				return
			}

			payload, ok := dataPayload(line)
			if ok {
				if payload == DoneSentinel {
					cfg.stats.Done = true
					return
				}

				cfg.stats.Events++
				var d Delta
				if err := json.Unmarshal([]byte(payload), &d); err != nil {
					cfg.stats.Dropped++
					cfg.logger.Debug("Dropping malformed stream event",
						zap.String("payload", payload),
						zap.Error(err))
				} else if d.Content != "" {
					if cfg.onText != nil {
						cfg.onText(d.Content)
					}
					if !yield(d.Content, nil) {
						return
					}
				}
			}

			if errors.Is(readErr, io.EOF) {
				yield("", models.ErrIncompleteStream)
				return
			}
		}
	}
}

// Reassemble concatenates every delta of the stream.
func Reassemble(ctx context.Context, r io.Reader, opts ...Option) (string, error) {
	var sb strings.Builder
	for text, err := range Deltas(ctx, r, opts...) {
		if err != nil {
			return sb.String(), err
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

// dataPayload returns the value of a data line. Comments, blank lines and
// other fields are reported as not-data.
func dataPayload(line string) (string, bool) {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, dataField) {
		return "", false
	}
	payload := strings.TrimPrefix(line, dataField)
	payload = strings.TrimPrefix(payload, " ")
	return payload, true
}
