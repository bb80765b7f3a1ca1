package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/MrJamesThe3rd/teamspend/internal/apperr"
	"github.com/MrJamesThe3rd/teamspend/internal/classify"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindRule(ctx context.Context, description string) (*classify.Rule, error) {
	query := `
		SELECT id, pattern, category, created_at
		FROM category_rules
		WHERE $1 ILIKE '%' || pattern || '%'
		ORDER BY LENGTH(pattern) DESC, created_at DESC
		LIMIT 1
	`

	var r classify.Rule

	err := s.db.QueryRowContext(ctx, query, description).Scan(&r.ID, &r.Pattern, &r.Category, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, apperr.Storage("finding category rule", err)
	}

	return &r, nil
}

func (s *Store) CreateRule(ctx context.Context, r *classify.Rule) error {
	query := `
		INSERT INTO category_rules (pattern, category, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, r.Pattern, r.Category).Scan(&r.ID, &r.CreatedAt); err != nil {
		return apperr.Storage("creating category rule", err)
	}

	return nil
}

func (s *Store) ListRules(ctx context.Context) ([]*classify.Rule, error) {
	query := `SELECT id, pattern, category, created_at FROM category_rules ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperr.Storage("listing category rules", err)
	}
	defer rows.Close()

	rules := []*classify.Rule{}

	for rows.Next() {
		var r classify.Rule
		if err := rows.Scan(&r.ID, &r.Pattern, &r.Category, &r.CreatedAt); err != nil {
			return nil, apperr.Storage("scanning category rule", err)
		}

		rules = append(rules, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("iterating category rules", err)
	}

	return rules, nil
}
