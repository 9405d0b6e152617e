package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leaguebase/leaguebase/internal/application/ports"
	"github.com/leaguebase/leaguebase/internal/domain"
)

type SeasonMembershipRepository struct {
	pool *pgxpool.Pool
}

func NewSeasonMembershipRepository(pool *pgxpool.Pool) *SeasonMembershipRepository {
	return &SeasonMembershipRepository{pool: pool}
}

const (
	createSeasonMembershipSQL = `INSERT INTO season_memberships (id, membership_id, season_id, status, fee, fee_paid, registered_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	getSeasonMembershipSQL = `SELECT id, membership_id, season_id, status, fee, fee_paid, registered_at, modified_at
		FROM season_memberships WHERE membership_id = $1 AND season_id = $2`
	hasEngagementSQL = `SELECT EXISTS (
		SELECT 1 FROM season_memberships
		WHERE membership_id = $1 AND season_id = $2 AND status = ANY($3)
	)`
)

func (r *SeasonMembershipRepository) Create(ctx context.Context, sm *domain.SeasonMembership) error {
	_, err := r.pool.Exec(ctx, createSeasonMembershipSQL,
		sm.ID, sm.MembershipID.UUID, sm.SeasonID.UUID, string(sm.Status),
		sm.Fee, sm.FeePaid, sm.RegisteredAt, sm.ModifiedAt)
	return err
}

func (r *SeasonMembershipRepository) Get(ctx context.Context, membershipID domain.MembershipID, seasonID domain.SeasonID) (*domain.SeasonMembership, error) {
	var (
		sm     domain.SeasonMembership
		mid    uuid.UUID
		sid    uuid.UUID
		status string
	)
	err := r.pool.QueryRow(ctx, getSeasonMembershipSQL, membershipID.UUID, seasonID.UUID).
		Scan(&sm.ID, &mid, &sid, &status, &sm.Fee, &sm.FeePaid, &sm.RegisteredAt, &sm.ModifiedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	sm.MembershipID = domain.NewMembershipID(mid)
	sm.SeasonID = domain.NewSeasonID(sid)
	sm.Status = domain.SeasonMembershipStatus(status)
	return &sm, nil
}

func (r *SeasonMembershipRepository) HasEngagement(ctx context.Context, membershipID domain.MembershipID, seasonID domain.SeasonID, statuses []domain.SeasonMembershipStatus) (bool, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	var exists bool
	err := r.pool.QueryRow(ctx, hasEngagementSQL, membershipID.UUID, seasonID.UUID, names).Scan(&exists)
	return exists, err
}

var _ ports.SeasonMembershipRepository = (*SeasonMembershipRepository)(nil)
