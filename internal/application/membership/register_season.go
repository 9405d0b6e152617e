package membership

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/leaguebase/leaguebase/internal/application/ports"
	"github.com/leaguebase/leaguebase/internal/domain"
	domerrors "github.com/leaguebase/leaguebase/internal/domain/errors"
)

type RegisterForSeasonInput struct {
	MembershipID domain.MembershipID
	SeasonID     domain.SeasonID
	Fee          *float64
}

// RegisterForSeason creates a SeasonMembership for an existing membership.
// The registration window must be open at call time.
type RegisterForSeason struct {
	members ports.MembershipRepository
	seasons ports.SeasonRepository
	regs    ports.SeasonMembershipRepository
}

func NewRegisterForSeason(members ports.MembershipRepository, seasons ports.SeasonRepository, regs ports.SeasonMembershipRepository) *RegisterForSeason {
	return &RegisterForSeason{members: members, seasons: seasons, regs: regs}
}

func (uc *RegisterForSeason) Execute(ctx context.Context, input RegisterForSeasonInput) (*domain.SeasonMembership, error) {
	m, err := uc.members.GetByID(ctx, input.MembershipID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domerrors.ErrMembershipNotFound
	}
	season, err := uc.seasons.GetByID(ctx, input.SeasonID)
	if err != nil {
		return nil, err
	}
	if season == nil {
		return nil, domerrors.ErrSeasonNotFound
	}
	if season.OrganizationID != m.OrganizationID {
		return nil, domerrors.ErrSeasonNotFound
	}
	if !season.RegistrationOpenAt(time.Now()) {
		return nil, domerrors.ErrRegistrationClosed
	}
	existing, err := uc.regs.Get(ctx, input.MembershipID, input.SeasonID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domerrors.ErrAlreadyRegistered
	}

	now := time.Now()
	sm := &domain.SeasonMembership{
		ID:           uuid.New(),
		MembershipID: input.MembershipID,
		SeasonID:     input.SeasonID,
		Status:       domain.SeasonRegistered,
		Fee:          input.Fee,
		RegisteredAt: now,
		ModifiedAt:   now,
	}
	if err := uc.regs.Create(ctx, sm); err != nil {
		return nil, err
	}
	return sm, nil
}
