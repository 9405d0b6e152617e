package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leaguebase/leaguebase/internal/application/ports"
	"github.com/leaguebase/leaguebase/internal/domain"
	domerrors "github.com/leaguebase/leaguebase/internal/domain/errors"
)

type SeasonRepository struct {
	pool *pgxpool.Pool
}

func NewSeasonRepository(pool *pgxpool.Pool) *SeasonRepository {
	return &SeasonRepository{pool: pool}
}

const (
	createSeasonSQL = `INSERT INTO seasons (id, organization_id, name, start_date, end_date, registration_open, registration_close, is_active, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	getSeasonSQL = `SELECT id, organization_id, name, start_date, end_date, registration_open, registration_close, is_active, is_published, created_at, updated_at
		FROM seasons WHERE id = $1`
	listActiveSeasonsSQL = `SELECT id, organization_id, name, start_date, end_date, registration_open, registration_close, is_active, is_published, created_at, updated_at
		FROM seasons WHERE organization_id = $1 AND is_active ORDER BY created_at`
	// Conditional activation: refuses when a different active season exists
	// for the same organization, in one atomic statement.
	activateSeasonSQL = `UPDATE seasons SET is_active = true, updated_at = now()
		WHERE id = $1
		AND NOT EXISTS (
			SELECT 1 FROM seasons other
			WHERE other.organization_id = seasons.organization_id
			AND other.is_active AND other.id <> seasons.id
		)`
)

func (r *SeasonRepository) Create(ctx context.Context, season *domain.Season) error {
	var regClose *time.Time
	if season.RegistrationClose != nil {
		regClose = season.RegistrationClose
	}
	_, err := r.pool.Exec(ctx, createSeasonSQL,
		season.ID.UUID, season.OrganizationID.UUID, season.Name,
		season.StartDate, season.EndDate, season.RegistrationOpen, regClose,
		season.IsActive, season.IsPublished, season.CreatedAt, season.UpdatedAt)
	return err
}

func (r *SeasonRepository) GetByID(ctx context.Context, seasonID domain.SeasonID) (*domain.Season, error) {
	row := r.pool.QueryRow(ctx, getSeasonSQL, seasonID.UUID)
	season, err := scanSeason(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return season, nil
}

func (r *SeasonRepository) ListActive(ctx context.Context, orgID domain.OrganizationID) ([]*domain.Season, error) {
	rows, err := r.pool.Query(ctx, listActiveSeasonsSQL, orgID.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Season
	for rows.Next() {
		s, err := scanSeason(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SeasonRepository) Activate(ctx context.Context, seasonID domain.SeasonID) error {
	tag, err := r.pool.Exec(ctx, activateSeasonSQL, seasonID.UUID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrActiveSeasonExists
	}
	return nil
}

func scanSeason(row pgx.Row) (*domain.Season, error) {
	var (
		s        domain.Season
		id       uuid.UUID
		orgID    uuid.UUID
		regClose *time.Time
	)
	err := row.Scan(&id, &orgID, &s.Name, &s.StartDate, &s.EndDate,
		&s.RegistrationOpen, &regClose, &s.IsActive, &s.IsPublished,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.ID = domain.NewSeasonID(id)
	s.OrganizationID = domain.NewOrganizationID(orgID)
	s.RegistrationClose = regClose
	return &s, nil
}

var _ ports.SeasonRepository = (*SeasonRepository)(nil)
