package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/MrJamesThe3rd/teamspend/internal/apperr"
	"github.com/MrJamesThe3rd/teamspend/internal/team"
)

type Store struct {
	db    *sql.DB
	types *pgtype.Map
}

func New(db *sql.DB) *Store {
	return &Store{db: db, types: pgtype.NewMap()}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTeamColumns = `
	id, name, budget, members, total_spent, alert_sent_80, alert_sent_100, created_at, updated_at
`

// scanTeam reads a row in selectTeamColumns order.
func (s *Store) scanTeam(sc scanner) (*team.Team, error) {
	var t team.Team

	if err := sc.Scan(
		&t.ID, &t.Name, &t.Budget, s.types.SQLScanner(&t.Members), &t.TotalSpent,
		&t.AlertSent80, &t.AlertSent100, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if t.Members == nil {
		t.Members = []string{}
	}

	return &t, nil
}

func (s *Store) CreateTeam(ctx context.Context, t *team.Team) error {
	query := `
		INSERT INTO teams (name, budget, members, total_spent, alert_sent_80, alert_sent_100, created_at, updated_at)
		VALUES ($1, $2, $3, 0, FALSE, FALSE, NOW(), NOW())
		RETURNING id, total_spent, alert_sent_80, alert_sent_100, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query, t.Name, t.Budget, t.Members).
		Scan(&t.ID, &t.TotalSpent, &t.AlertSent80, &t.AlertSent100, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return apperr.Storage("creating team", err)
	}

	return nil
}

func (s *Store) GetTeam(ctx context.Context, id uuid.UUID) (*team.Team, error) {
	query := `SELECT ` + selectTeamColumns + ` FROM teams WHERE id = $1`

	t, err := s.scanTeam(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, team.ErrNotFound
		}

		return nil, apperr.Storage("getting team", err)
	}

	return t, nil
}

func (s *Store) ListTeams(ctx context.Context) ([]*team.Team, error) {
	query := `SELECT ` + selectTeamColumns + ` FROM teams ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperr.Storage("listing teams", err)
	}
	defer rows.Close()

	teams := []*team.Team{}

	for rows.Next() {
		t, err := s.scanTeam(rows)
		if err != nil {
			return nil, apperr.Storage("scanning team", err)
		}

		teams = append(teams, t)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("iterating teams", err)
	}

	return teams, nil
}

func (s *Store) UpdateTeam(ctx context.Context, t *team.Team) error {
	query := `
		UPDATE teams
		SET name = $1, budget = $2, members = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query, t.Name, t.Budget, t.Members, t.ID).Scan(&t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return team.ErrNotFound
		}

		return apperr.Storage("updating team", err)
	}

	return nil
}

func (s *Store) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return apperr.Storage("deleting team", err)
	}

	return requireRow(res, "deleting team")
}

// SetTotalSpent overwrites the stored spend of a team.
func (s *Store) SetTotalSpent(ctx context.Context, id uuid.UUID, total int64) error {
	query := `UPDATE teams SET total_spent = $1, updated_at = NOW() WHERE id = $2`

	res, err := s.db.ExecContext(ctx, query, total, id)
	if err != nil {
		return apperr.Storage("setting total spent", err)
	}

	return requireRow(res, "setting total spent")
}

// SetAlertSent updates a single alert flag column.
func (s *Store) SetAlertSent(ctx context.Context, id uuid.UUID, flag team.AlertFlag, sent bool) error {
	var column string

	switch flag {
	case team.AlertFlag80:
		column = "alert_sent_80"
	case team.AlertFlag100:
		column = "alert_sent_100"
	default:
		return fmt.Errorf("%w: %q", team.ErrUnknownAlertFlag, flag)
	}

	query := `UPDATE teams SET ` + column + ` = $1, updated_at = NOW() WHERE id = $2`

	res, err := s.db.ExecContext(ctx, query, sent, id)
	if err != nil {
		return apperr.Storage("setting alert flag", err)
	}

	return requireRow(res, "setting alert flag")
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Storage(op, err)
	}

	if n == 0 {
		return team.ErrNotFound
	}

	return nil
}
