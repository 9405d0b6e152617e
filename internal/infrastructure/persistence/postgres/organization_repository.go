package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leaguebase/leaguebase/internal/application/ports"
	"github.com/leaguebase/leaguebase/internal/domain"
)

type OrganizationRepository struct {
	pool *pgxpool.Pool
}

func NewOrganizationRepository(pool *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{pool: pool}
}

const (
	createOrganizationSQL = `INSERT INTO organizations (id, type, parent_id, name, slug, description, membership_open, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	getOrganizationSQL = `SELECT id, type, parent_id, name, slug, description, membership_open, is_active, created_at, updated_at
		FROM organizations WHERE id = $1`
	listOrganizationsSQL = `SELECT id, type, parent_id, name, slug, description, membership_open, is_active, created_at, updated_at
		FROM organizations ORDER BY name LIMIT $1 OFFSET $2`
	listOrganizationsWithActiveSeasonSQL = `SELECT DISTINCT o.id, o.type, o.parent_id, o.name, o.slug, o.description, o.membership_open, o.is_active, o.created_at, o.updated_at
		FROM organizations o
		JOIN seasons s ON s.organization_id = o.id AND s.is_active
		ORDER BY o.name`
)

func (r *OrganizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	var parentID *uuid.UUID
	if org.ParentID != nil {
		parentID = &org.ParentID.UUID
	}
	_, err := r.pool.Exec(ctx, createOrganizationSQL,
		org.ID.UUID, string(org.Type), parentID, org.Name, org.Slug, org.Description,
		org.MembershipOpen, org.IsActive, org.CreatedAt, org.UpdatedAt)
	return err
}

func (r *OrganizationRepository) GetByID(ctx context.Context, orgID domain.OrganizationID) (*domain.Organization, error) {
	row := r.pool.QueryRow(ctx, getOrganizationSQL, orgID.UUID)
	org, err := scanOrganization(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return org, nil
}

func (r *OrganizationRepository) List(ctx context.Context, limit, offset int) ([]*domain.Organization, error) {
	rows, err := r.pool.Query(ctx, listOrganizationsSQL, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrganizations(rows)
}

func (r *OrganizationRepository) ListWithActiveSeason(ctx context.Context) ([]*domain.Organization, error) {
	rows, err := r.pool.Query(ctx, listOrganizationsWithActiveSeasonSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrganizations(rows)
}

func scanOrganization(row pgx.Row) (*domain.Organization, error) {
	var (
		o        domain.Organization
		id       uuid.UUID
		orgType  string
		parentID *uuid.UUID
	)
	err := row.Scan(&id, &orgType, &parentID, &o.Name, &o.Slug, &o.Description,
		&o.MembershipOpen, &o.IsActive, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.ID = domain.NewOrganizationID(id)
	o.Type = domain.OrgType(orgType)
	if parentID != nil {
		pid := domain.NewOrganizationID(*parentID)
		o.ParentID = &pid
	}
	return &o, nil
}

func collectOrganizations(rows pgx.Rows) ([]*domain.Organization, error) {
	var out []*domain.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, org)
	}
	return out, rows.Err()
}

var _ ports.OrganizationRepository = (*OrganizationRepository)(nil)
