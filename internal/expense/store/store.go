package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/teamspend/internal/apperr"
	"github.com/MrJamesThe3rd/teamspend/internal/expense"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectExpenseColumns = `
	e.id, e.team_id, e.amount, e.description, e.category, e.status, e.date, e.created_at,
	t.name, t.budget
`

// scanExpense reads a row in selectExpenseColumns order.
func scanExpense(s scanner) (*expense.Expense, error) {
	var e expense.Expense

	var categoryStr, statusStr string

	var teamName sql.NullString

	var teamBudget sql.NullInt64

	if err := s.Scan(
		&e.ID, &e.TeamID, &e.Amount, &e.Description, &categoryStr, &statusStr, &e.Date, &e.CreatedAt,
		&teamName, &teamBudget,
	); err != nil {
		return nil, err
	}

	e.Category = expense.Category(categoryStr)
	e.Status = expense.Status(statusStr)

	if teamName.Valid {
		e.Team = &expense.TeamRef{
			ID:     e.TeamID,
			Name:   teamName.String,
			Budget: teamBudget.Int64,
		}
	}

	return &e, nil
}

func (s *Store) CreateExpense(ctx context.Context, e *expense.Expense) error {
	query := `
		INSERT INTO expenses (team_id, amount, description, category, status, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		e.TeamID,
		e.Amount,
		e.Description,
		e.Category,
		e.Status,
		e.Date,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return apperr.Storage("creating expense", err)
	}

	return nil
}

func (s *Store) GetExpense(ctx context.Context, id uuid.UUID) (*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + `
		FROM expenses e
		LEFT JOIN teams t ON e.team_id = t.id
		WHERE e.id = $1`

	e, err := scanExpense(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, expense.ErrNotFound
		}

		return nil, apperr.Storage("getting expense", err)
	}

	return e, nil
}

func (s *Store) ListExpenses(ctx context.Context, filter expense.ListFilter) ([]*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + `
		FROM expenses e
		LEFT JOIN teams t ON e.team_id = t.id
		WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.TeamID != nil {
		query += fmt.Sprintf(" AND e.team_id = $%d", argIdx)

		args = append(args, *filter.TeamID)
		argIdx++
	}

	if filter.Category != nil {
		query += fmt.Sprintf(" AND e.category = $%d", argIdx)

		args = append(args, *filter.Category)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND e.status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND e.description ILIKE '%%' || $%d || '%%'", argIdx)

		args = append(args, filter.Search)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND e.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND e.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY e.date DESC, e.created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)

		args = append(args, filter.Limit)
		argIdx++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)

		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Storage("listing expenses", err)
	}
	defer rows.Close()

	expenses := []*expense.Expense{}

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, apperr.Storage("scanning expense", err)
		}

		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("iterating expenses", err)
	}

	return expenses, nil
}

func (s *Store) UpdateExpense(ctx context.Context, e *expense.Expense) error {
	query := `
		UPDATE expenses
		SET amount = $1, description = $2, category = $3, status = $4, date = $5
		WHERE id = $6
	`

	res, err := s.db.ExecContext(ctx, query,
		e.Amount,
		e.Description,
		e.Category,
		e.Status,
		e.Date,
		e.ID,
	)
	if err != nil {
		return apperr.Storage("updating expense", err)
	}

	return requireRow(res, "updating expense")
}

func (s *Store) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return apperr.Storage("deleting expense", err)
	}

	return requireRow(res, "deleting expense")
}

// CountExpenses counts a team's expenses in any status.
func (s *Store) CountExpenses(ctx context.Context, teamID uuid.UUID) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses WHERE team_id = $1`, teamID).Scan(&n); err != nil {
		return 0, apperr.Storage("counting expenses", err)
	}

	return n, nil
}

// ActiveAmounts returns the amounts of a team's pending and approved expenses.
func (s *Store) ActiveAmounts(ctx context.Context, teamID uuid.UUID) ([]int64, error) {
	query := `SELECT amount FROM expenses WHERE team_id = $1 AND status IN ($2, $3)`

	rows, err := s.db.QueryContext(ctx, query, teamID, expense.StatusPending, expense.StatusApproved)
	if err != nil {
		return nil, apperr.Storage("listing active amounts", err)
	}
	defer rows.Close()

	var amounts []int64

	for rows.Next() {
		var a int64
		if err := rows.Scan(&a); err != nil {
			return nil, apperr.Storage("scanning amount", err)
		}

		amounts = append(amounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("iterating amounts", err)
	}

	return amounts, nil
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Storage(op, err)
	}

	if n == 0 {
		return expense.ErrNotFound
	}

	return nil
}
