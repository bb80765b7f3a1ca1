// Package importer turns CSV exports into team expenses. Every row goes
// through the expense service, so the budget ceiling and alerts apply to
// imported rows exactly as to hand-entered ones.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/teamspend/internal/classify"
	"github.com/MrJamesThe3rd/teamspend/internal/encoding"
	"github.com/MrJamesThe3rd/teamspend/internal/expense"
	"github.com/MrJamesThe3rd/teamspend/internal/metrics"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer
type ExpenseWriter interface {
	Create(ctx context.Context, params expense.CreateParams) (*expense.Expense, error)
	List(ctx context.Context, filter expense.ListFilter) ([]*expense.Expense, error)
}

type Suggester interface {
	SuggestBatch(ctx context.Context, descriptions []string) []classify.Suggestion
}

type Service struct {
	expenses  ExpenseWriter
	suggester Suggester
}

func NewService(expenses ExpenseWriter, suggester Suggester) *Service {
	return &Service{expenses: expenses, suggester: suggester}
}

type Result struct {
	Profile    string
	Charset    encoding.Charset
	Created    []*expense.Expense
	Duplicates []Issue
	Failed     []Issue
}

// Import parses r and creates an expense on teamID for every new row. Rows
// matching an existing expense by date, amount and description are reported
// as duplicates. Rows the expense service rejects are reported as failed and
// do not stop the import.
func (s *Service) Import(ctx context.Context, teamID uuid.UUID, r io.Reader) (*Result, error) {
	parsed, err := Parse(r)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Profile: parsed.Profile,
		Charset: parsed.Charset,
		Failed:  parsed.Issues,
	}
	metrics.ImportedRows.WithLabelValues("invalid").Add(float64(len(parsed.Issues)))

	if len(parsed.Rows) == 0 {
		return res, nil
	}

	existing, err := s.existingKeys(ctx, teamID, parsed.Rows)
	if err != nil {
		return nil, err
	}

	categories := s.suggestMissing(ctx, parsed.Rows)

	for i, row := range parsed.Rows {
		if existing[keyOf(row.Date, row.Amount, row.Description)] {
			res.Duplicates = append(res.Duplicates, Issue{Line: row.Line, Reason: "duplicate of an existing expense"})
			metrics.ImportedRows.WithLabelValues("duplicate").Inc()

			continue
		}

		e, err := s.expenses.Create(ctx, expense.CreateParams{
			TeamID:      teamID,
			Amount:      row.Amount,
			Description: row.Description,
			Category:    categories[i],
			Status:      row.Status,
			Date:        row.Date,
		})
		if err != nil {
			res.Failed = append(res.Failed, Issue{Line: row.Line, Reason: err.Error()})
			metrics.ImportedRows.WithLabelValues("failed").Inc()

			continue
		}

		res.Created = append(res.Created, e)
		metrics.ImportedRows.WithLabelValues("created").Inc()
	}

	slog.InfoContext(ctx, "import finished",
		"team_id", teamID,
		"profile", res.Profile,
		"charset", res.Charset,
		"created", len(res.Created),
		"duplicates", len(res.Duplicates),
		"failed", len(res.Failed),
	)

	return res, nil
}

// existingKeys loads the team's expenses over the rows' date range.
func (s *Service) existingKeys(ctx context.Context, teamID uuid.UUID, rows []Row) (map[string]bool, error) {
	minDate, maxDate := dateRange(rows)
	end := maxDate.AddDate(0, 0, 1).Add(-time.Nanosecond)

	list, err := s.expenses.List(ctx, expense.ListFilter{
		TeamID:    &teamID,
		StartDate: &minDate,
		EndDate:   &end,
	})
	if err != nil {
		return nil, fmt.Errorf("listing existing expenses: %w", err)
	}

	keys := make(map[string]bool, len(list))
	for _, e := range list {
		keys[keyOf(e.Date, e.Amount, e.Description)] = true
	}

	return keys, nil
}

// suggestMissing returns the category for each row, asking the classifier
// for rows whose file gave none.
func (s *Service) suggestMissing(ctx context.Context, rows []Row) []expense.Category {
	out := make([]expense.Category, len(rows))

	var (
		idx   []int
		descs []string
	)

	for i, row := range rows {
		if row.Category != "" {
			out[i] = row.Category
			continue
		}

		idx = append(idx, i)
		descs = append(descs, row.Description)
	}

	if len(descs) == 0 || s.suggester == nil {
		return out
	}

	for j, sug := range s.suggester.SuggestBatch(ctx, descs) {
		out[idx[j]] = sug.Category
	}

	return out
}

func keyOf(date time.Time, amount int64, description string) string {
	return fmt.Sprintf("%s|%d|%s", date.Format(time.DateOnly), amount, strings.ToLower(strings.TrimSpace(description)))
}

func dateRange(rows []Row) (time.Time, time.Time) {
	minDate, maxDate := rows[0].Date, rows[0].Date

	for _, r := range rows[1:] {
		if r.Date.Before(minDate) {
			minDate = r.Date
		}

		if r.Date.After(maxDate) {
			maxDate = r.Date
		}
	}

	return minDate, maxDate
}
