// Package insights wraps a natural-language summarization call over the sales
// ledger. Failures never propagate: the caller always receives display text.
package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/foodvanpos/posd/internal/app/domain/sale"
	"github.com/foodvanpos/posd/internal/app/metrics"
	"github.com/foodvanpos/posd/pkg/logger"
)

// NoInsightsMessage is shown when there is no sales data or the service
// returned an empty result.
const NoInsightsMessage = "No insights available today."

// FallbackMessage replaces any external-call failure.
const FallbackMessage = "Could not connect to AI advisor. Check connection."

// ErrBusy rejects a generation attempt while another is in flight. At most
// one outstanding request exists at a time.
var ErrBusy = errors.New("insights request already in flight")

// Generator is the external text-generation boundary.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Service is the insights adapter. Results are not cached; every call
// re-queries the external service.
type Service struct {
	gen Generator
	log *logger.Logger

	mu   sync.Mutex
	busy bool
}

// New constructs an insights service. gen may be nil, in which case every
// generation yields the fallback message.
func New(gen Generator, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("insights")
	}
	return &Service{gen: gen, log: log}
}

type saleSummary struct {
	Time  string `json:"time"`
	Total int    `json:"total"`
	Items string `json:"items"`
}

// BuildPrompt renders the fixed instruction template over the ledger.
func BuildPrompt(records []sale.Record) string {
	summaries := make([]saleSummary, 0, len(records))
	for _, rec := range records {
		items := make([]string, 0, len(rec.Items))
		for _, line := range rec.Items {
			items = append(items, fmt.Sprintf("%s (x%d)", line.Name, line.Quantity))
		}
		summaries = append(summaries, saleSummary{
			Time:  rec.Timestamp.Format("15:04:05"),
			Total: rec.Total,
			Items: strings.Join(items, ", "),
		})
	}
	data, _ := json.Marshal(summaries)

	return fmt.Sprintf(`Act as a retail business expert for a mobile food van. Analyze today's sales data and provide 3 quick bullet points on:
1. Most popular item trends
2. Revenue performance
3. One suggestion for tomorrow's inventory.

Sales Data: %s`, data)
}

// Generate produces the daily summary text. An empty ledger makes no external
// call. The only possible error is ErrBusy; every other outcome is display
// text (verbatim result, the no-insights placeholder, or the fallback).
func (s *Service) Generate(ctx context.Context, records []sale.Record) (string, error) {
	if len(records) == 0 {
		return NoInsightsMessage, nil
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return "", ErrBusy
	}
	s.busy = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	start := time.Now()
	text, err := s.generate(ctx, records)
	if err != nil {
		metrics.RecordInsights("error", time.Since(start))
		s.log.WithError(err).Warn("insights generation failed")
		return FallbackMessage, nil
	}
	if strings.TrimSpace(text) == "" {
		metrics.RecordInsights("empty", time.Since(start))
		return NoInsightsMessage, nil
	}
	metrics.RecordInsights("ok", time.Since(start))
	return text, nil
}

// Busy reports whether a request is currently in flight.
func (s *Service) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *Service) generate(ctx context.Context, records []sale.Record) (string, error) {
	if s.gen == nil {
		return "", errors.New("no generator configured")
	}
	return s.gen.Generate(ctx, BuildPrompt(records))
}
