// Package classify suggests an expense category from a free-text description.
package classify

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/teamspend/internal/expense"
	"github.com/MrJamesThe3rd/teamspend/internal/metrics"
)

const (
	minDescriptionLength = 3
	batchConcurrency     = 5
)

// Suggestion is a category guess. Confidence is 0-100.
type Suggestion struct {
	Category   expense.Category `json:"category"`
	Confidence int              `json:"confidence"`
	Reasoning  string           `json:"reasoning"`
}

var (
	tooShort    = Suggestion{Category: expense.CategoryOther, Confidence: 0, Reasoning: "Description too short to analyze"}
	unavailable = Suggestion{Category: expense.CategoryOther, Confidence: 0, Reasoning: "AI service temporarily unavailable"}
	noMatch     = Suggestion{Category: expense.CategoryOther, Confidence: 0, Reasoning: "No category matched the description"}
)

// Strategy is one way of classifying a description. ok is false when the
// strategy has no opinion and the next one should be tried.
type Strategy interface {
	Name() string
	Classify(ctx context.Context, description string) (s Suggestion, ok bool, err error)
}

// Classifier runs its strategies in order and returns the first answer.
type Classifier struct {
	strategies []Strategy
}

func New(strategies ...Strategy) *Classifier {
	return &Classifier{strategies: strategies}
}

// Suggest never fails; internal errors degrade to a zero-confidence "other".
func (c *Classifier) Suggest(ctx context.Context, description string) Suggestion {
	description = strings.TrimSpace(description)
	if len(description) < minDescriptionLength {
		metrics.Suggestions.WithLabelValues("too_short").Inc()
		return tooShort
	}

	var failed bool

	for _, st := range c.strategies {
		s, ok, err := st.Classify(ctx, description)
		if err != nil {
			failed = true

			slog.WarnContext(ctx, "category strategy failed", "strategy", st.Name(), "error", err)

			continue
		}

		if ok {
			metrics.Suggestions.WithLabelValues(st.Name()).Inc()
			return s
		}
	}

	if failed {
		metrics.Suggestions.WithLabelValues("unavailable").Inc()
		return unavailable
	}

	metrics.Suggestions.WithLabelValues("none").Inc()

	return noMatch
}

// SuggestBatch classifies descriptions concurrently, preserving order.
func (c *Classifier) SuggestBatch(ctx context.Context, descriptions []string) []Suggestion {
	out := make([]Suggestion, len(descriptions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for i, d := range descriptions {
		g.Go(func() error {
			out[i] = c.Suggest(gctx, d)
			return nil
		})
	}

	_ = g.Wait()

	return out
}
