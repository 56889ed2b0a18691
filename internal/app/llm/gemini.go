package llm

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"iter"

	genaisdk "github.com/FACorreiaa/go-genai-sdk/lib"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Gemini streams completions through the genai SDK.
type Gemini struct {
	client *genaisdk.LLMChatClient
	logger *zap.Logger
}

// NewGemini creates the client. The SDK takes its model name from the
// process flag set, so a non-empty model is applied there first.
func NewGemini(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Gemini, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	if model != "" && flag.Lookup("model") != nil {
		if err := flag.Set("model", model); err != nil {
			return nil, fmt.Errorf("selecting gemini model: %w", err)
		}
	}

	client, err := genaisdk.NewLLMChatClient(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	logger.Info("Gemini provider ready", zap.String("model", client.ModelName))
	return &Gemini{client: client, logger: logger}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Stream(ctx context.Context, req Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		cfg := &genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0.7),
		}
		if req.MaxTokens > 0 {
			cfg.MaxOutputTokens = int32(req.MaxTokens)
		}
		if req.System != "" {
			cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
		}
		if req.JSON {
			cfg.ResponseMIMEType = "application/json"
		}

		stream, err := g.client.GenerateContentStream(ctx, Prompt(req.Turns), cfg)
		if err != nil {
			yield("", fmt.Errorf("starting gemini stream: %w", err))
			return
		}

		for text, err := range textParts(stream) {
			if err != nil {
				g.logger.Error("Gemini stream error", zap.Error(err))
			}
			if !yield(text, err) || err != nil {
				return
			}
		}
	}
}

// textParts flattens candidate parts into text deltas, stopping at the first
// stream error.
func textParts(stream iter.Seq2[*genai.GenerateContentResponse, error]) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for resp, err := range stream {
			if err != nil {
				yield("", err)
				return
			}
			if resp == nil {
				continue
			}
			for _, cand := range resp.Candidates {
				if cand.Content == nil {
					continue
				}
				for _, part := range cand.Content.Parts {
					if part == nil || part.Text == "" {
						continue
					}
					if !yield(part.Text, nil) {
						return
					}
				}
			}
		}
	}
}
