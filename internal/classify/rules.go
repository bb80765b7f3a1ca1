package classify

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/teamspend/internal/apperr"
	"github.com/MrJamesThe3rd/teamspend/internal/expense"
)

// Rule maps descriptions containing Pattern (case-insensitive) to Category.
type Rule struct {
	ID        uuid.UUID
	Pattern   string
	Category  expense.Category
	CreatedAt time.Time
}

//go:generate mockgen -source=rules.go -destination=rules_mock.go -package=classify
type RuleRepository interface {
	// FindRule returns the longest matching pattern, newest first on ties, or nil.
	FindRule(ctx context.Context, description string) (*Rule, error)
	CreateRule(ctx context.Context, r *Rule) error
	ListRules(ctx context.Context) ([]*Rule, error)
}

type RuleService struct {
	repo RuleRepository
}

func NewRuleService(repo RuleRepository) *RuleService {
	return &RuleService{repo: repo}
}

// Learn remembers that descriptions containing pattern belong to category.
func (s *RuleService) Learn(ctx context.Context, pattern string, category expense.Category) (*Rule, error) {
	pattern = strings.TrimSpace(pattern)
	if len(pattern) < 2 {
		return nil, apperr.Invalid("pattern", "must be at least 2 characters")
	}

	if !category.Valid() {
		return nil, apperr.Invalid("category", "must be a known category")
	}

	r := &Rule{Pattern: pattern, Category: category}
	if err := s.repo.CreateRule(ctx, r); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "category rule learned", "pattern", pattern, "category", category)

	return r, nil
}

func (s *RuleService) List(ctx context.Context) ([]*Rule, error) {
	return s.repo.ListRules(ctx)
}
