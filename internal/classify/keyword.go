package classify

import (
	"context"
	"fmt"
	"regexp"

	"github.com/MrJamesThe3rd/teamspend/internal/expense"
)

const (
	keywordConfidence = 90
	ruleConfidence    = 95
)

type keywordGroup struct {
	category expense.Category
	pattern  *regexp.Regexp
}

// Groups are tried in order; the first match wins.
var keywordTable = []keywordGroup{
	{expense.CategoryTravel, regexp.MustCompile(`(?i)(flight|airplane|airline|hotel|airbnb|uber|lyft|taxi|rental car|parking|gas station)`)},
	{expense.CategoryFood, regexp.MustCompile(`(?i)(restaurant|lunch|dinner|breakfast|coffee|cafe|food|meal|catering|pizza|burger)`)},
	{expense.CategoryEquipment, regexp.MustCompile(`(?i)(laptop|computer|monitor|keyboard|mouse|software|hardware|macbook|iphone|ipad)`)},
	{expense.CategorySupplies, regexp.MustCompile(`(?i)(paper|pen|pencil|office supply|notebook|folder|stapler|printer)`)},
	{expense.CategoryMarketing, regexp.MustCompile(`(?i)(advertising|marketing|social media|content creation|branding|seo|ppc)`)},
	{expense.CategorySubscriptions, regexp.MustCompile(`(?i)(streaming service|subscription|membership fee)`)},
	{expense.CategoryServices, regexp.MustCompile(`(?i)(consulting|legal|accounting|professional service)`)},
	{expense.CategoryRentals, regexp.MustCompile(`(?i)(equipment rental|vehicle rental|storage unit|rental equipment|rental vehicle)`)},
	{expense.CategoryUtilities, regexp.MustCompile(`(?i)(electricity|water|internet|phone|gas)`)},
	{expense.CategoryEntertainment, regexp.MustCompile(`(?i)(movie|concert|sport|game|hobby)`)},
}

// RuleFinder returns the best learned rule for a description, or nil.
type RuleFinder interface {
	FindRule(ctx context.Context, description string) (*Rule, error)
}

// KeywordMatcher consults learned rules first, then the built-in keyword table.
type KeywordMatcher struct {
	rules RuleFinder
}

// NewKeywordMatcher returns a matcher. rules may be nil.
func NewKeywordMatcher(rules RuleFinder) *KeywordMatcher {
	return &KeywordMatcher{rules: rules}
}

func (m *KeywordMatcher) Name() string { return "keyword" }

func (m *KeywordMatcher) Classify(ctx context.Context, description string) (Suggestion, bool, error) {
	if m.rules != nil {
		r, err := m.rules.FindRule(ctx, description)
		if err != nil {
			return Suggestion{}, false, fmt.Errorf("finding category rule: %w", err)
		}

		if r != nil {
			return Suggestion{
				Category:   r.Category,
				Confidence: ruleConfidence,
				Reasoning:  fmt.Sprintf("Matched learned rule %q", r.Pattern),
			}, true, nil
		}
	}

	for _, g := range keywordTable {
		if g.pattern.MatchString(description) {
			return Suggestion{
				Category:   g.category,
				Confidence: keywordConfidence,
				Reasoning:  fmt.Sprintf("Matched %s keywords", g.category),
			}, true, nil
		}
	}

	return Suggestion{}, false, nil
}
