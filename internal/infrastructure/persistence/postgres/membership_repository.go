package postgres

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leaguebase/leaguebase/internal/application/ports"
	"github.com/leaguebase/leaguebase/internal/domain"
)

type MembershipRepository struct {
	pool *pgxpool.Pool
}

func NewMembershipRepository(pool *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{pool: pool}
}

const (
	createMembershipSQL = `INSERT INTO memberships (id, user_id, user_email, organization_id, permission_level, status, roles, joined_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	getMembershipSQL = `SELECT id, user_id, user_email, organization_id, permission_level, status, roles, joined_at, modified_at
		FROM memberships WHERE id = $1`
	getMembershipByUserOrgSQL = `SELECT id, user_id, user_email, organization_id, permission_level, status, roles, joined_at, modified_at
		FROM memberships WHERE user_id = $1 AND organization_id = $2`
	listMembershipsForSyncSQL = `SELECT id, user_id, user_email, organization_id, permission_level, status, roles, joined_at, modified_at
		FROM memberships
		WHERE organization_id = $1
		AND NOT (status = ANY($2))
		AND NOT (permission_level = ANY($3))
		ORDER BY joined_at`
	// Atomic conditional write: no read-modify-write race across concurrent
	// reconciliation runs on the same row.
	updateMembershipStatusIfSQL = `UPDATE memberships SET status = $1, modified_at = now()
		WHERE id = $2 AND status = $3`
	setMembershipStatusSQL = `UPDATE memberships SET status = $1, modified_at = now() WHERE id = $2`
	countOwnersSQL         = `SELECT count(*) FROM memberships WHERE organization_id = $1 AND permission_level = 'owner'`
	deleteMembershipSQL    = `DELETE FROM memberships WHERE id = $1`
)

func (r *MembershipRepository) Create(ctx context.Context, m *domain.Membership) error {
	roles, err := json.Marshal(m.Roles)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, createMembershipSQL,
		m.ID.UUID, m.UserID.UUID, strings.ToLower(m.UserEmail), m.OrganizationID.UUID,
		string(m.PermissionLevel), string(m.Status), roles, m.JoinedAt, m.ModifiedAt)
	return err
}

func (r *MembershipRepository) GetByID(ctx context.Context, id domain.MembershipID) (*domain.Membership, error) {
	row := r.pool.QueryRow(ctx, getMembershipSQL, id.UUID)
	m, err := scanMembership(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func (r *MembershipRepository) GetByUserAndOrg(ctx context.Context, userID domain.UserID, orgID domain.OrganizationID) (*domain.Membership, error) {
	row := r.pool.QueryRow(ctx, getMembershipByUserOrgSQL, userID.UUID, orgID.UUID)
	m, err := scanMembership(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func (r *MembershipRepository) ListForSync(ctx context.Context, orgID domain.OrganizationID, excludeStatuses []domain.MembershipStatus, excludePermissions []domain.PermissionLevel) ([]*domain.Membership, error) {
	statuses := make([]string, len(excludeStatuses))
	for i, s := range excludeStatuses {
		statuses[i] = string(s)
	}
	perms := make([]string, len(excludePermissions))
	for i, p := range excludePermissions {
		perms[i] = string(p)
	}
	rows, err := r.pool.Query(ctx, listMembershipsForSyncSQL, orgID.UUID, statuses, perms)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MembershipRepository) UpdateStatusIf(ctx context.Context, id domain.MembershipID, prev, next domain.MembershipStatus) (bool, error) {
	tag, err := r.pool.Exec(ctx, updateMembershipStatusIfSQL, string(next), id.UUID, string(prev))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *MembershipRepository) SetStatus(ctx context.Context, id domain.MembershipID, status domain.MembershipStatus) error {
	_, err := r.pool.Exec(ctx, setMembershipStatusSQL, string(status), id.UUID)
	return err
}

func (r *MembershipRepository) CountOwners(ctx context.Context, orgID domain.OrganizationID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, countOwnersSQL, orgID.UUID).Scan(&n)
	return n, err
}

func (r *MembershipRepository) Delete(ctx context.Context, id domain.MembershipID) error {
	_, err := r.pool.Exec(ctx, deleteMembershipSQL, id.UUID)
	return err
}

func scanMembership(row pgx.Row) (*domain.Membership, error) {
	var (
		m      domain.Membership
		id     uuid.UUID
		userID uuid.UUID
		orgID  uuid.UUID
		level  string
		status string
		roles  []byte
	)
	err := row.Scan(&id, &userID, &m.UserEmail, &orgID, &level, &status, &roles, &m.JoinedAt, &m.ModifiedAt)
	if err != nil {
		return nil, err
	}
	m.ID = domain.NewMembershipID(id)
	m.UserID = domain.NewUserID(userID)
	m.OrganizationID = domain.NewOrganizationID(orgID)
	m.PermissionLevel = domain.PermissionLevel(level)
	m.Status = domain.MembershipStatus(status)
	if len(roles) > 0 {
		if err := json.Unmarshal(roles, &m.Roles); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

var _ ports.MembershipRepository = (*MembershipRepository)(nil)
