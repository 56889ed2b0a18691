package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-concierge/internal/app/models"
)

const (
	DefaultAnthropicURL   = "https://api.anthropic.com"
	DefaultAnthropicModel = "claude-3-5-sonnet-latest"
	anthropicVersion      = "2023-06-01"
	defaultMaxTokens      = 1024
)

// Anthropic streams completions from the Messages API.
type Anthropic struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	logger  *zap.Logger
}

type messagesRequest struct {
	Model     string            `json:"model"`
	Messages  []messagesMessage `json:"messages"`
	MaxTokens int               `json:"max_tokens"`
	System    string            `json:"system,omitempty"`
	Stream    bool              `json:"stream"`
}

type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// streamEvent covers the event kinds the concierge cares about.
type streamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewAnthropic(apiKey, model string, timeout time.Duration, logger *zap.Logger) (*Anthropic, error) {
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY is not set")
	}
	if model == "" {
		model = DefaultAnthropicModel
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Anthropic{
		client:  &http.Client{Timeout: timeout},
		baseURL: DefaultAnthropicURL,
		apiKey:  apiKey,
		model:   model,
		logger:  logger,
	}, nil
}

// WithBaseURL points the client at another host.
func (a *Anthropic) WithBaseURL(u string) *Anthropic {
	a.baseURL = strings.TrimRight(u, "/")
	return a
}

func (a *Anthropic) Name() string { return "anthropic" }

func (a *Anthropic) Stream(ctx context.Context, req Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		resp, err := a.send(ctx, req)
		if err != nil {
			yield("", err)
			return
		}
		defer resp.Body.Close()

		br := bufio.NewReader(resp.Body)
		for {
			line, readErr := br.ReadString('\n')
			if readErr != nil && !errors.Is(readErr, io.EOF) {
				yield("", fmt.Errorf("reading anthropic stream: %w", readErr))
				return
			}

			if payload, ok := strings.CutPrefix(strings.TrimSpace(line), "data:"); ok {
				var ev streamEvent
				if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &ev); err != nil {
					a.logger.Debug("Skipping undecodable anthropic event", zap.Error(err))
				} else {
					switch ev.Type {
					case "content_block_delta":
						if ev.Delta.Type == "text_delta" && ev.Delta.Text != "" {
							if !yield(ev.Delta.Text, nil) {
								return
							}
						}
					case "message_stop":
						return
					case "error":
						msg := "unknown error"
						if ev.Error != nil {
							msg = ev.Error.Type + ": " + ev.Error.Message
						}
						yield("", fmt.Errorf("anthropic stream error: %s", msg))
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

func (a *Anthropic) send(ctx context.Context, req Request) (*http.Response, error) {
	msgs := make([]messagesMessage, 0, len(req.Turns))
	for _, t := range req.Turns {
		msgs = append(msgs, messagesMessage{Role: string(t.Role), Content: t.Content})
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	body, err := json.Marshal(messagesRequest{
		Model:     a.model,
		Messages:  msgs,
		MaxTokens: maxTokens,
		System:    req.System,
		Stream:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		a.logger.Warn("Anthropic returned an error status",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(snippet)))
		return nil, fmt.Errorf("anthropic status %d: %w", resp.StatusCode, models.ErrUpstream)
	}
	return resp, nil
}
