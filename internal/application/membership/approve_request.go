package membership

import (
	"context"

	"github.com/leaguebase/leaguebase/internal/application/ports"
	"github.com/leaguebase/leaguebase/internal/domain"
	domerrors "github.com/leaguebase/leaguebase/internal/domain/errors"
)

// ApproveRequest moves a prospect membership to active (admin action).
type ApproveRequest struct {
	members ports.MembershipRepository
}

func NewApproveRequest(members ports.MembershipRepository) *ApproveRequest {
	return &ApproveRequest{members: members}
}

func (uc *ApproveRequest) Execute(ctx context.Context, id domain.MembershipID) (*domain.Membership, error) {
	m, err := uc.members.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domerrors.ErrMembershipNotFound
	}
	if m.Status != domain.MembershipProspect {
		// Approving a non-prospect is a no-op, not an error.
		return m, nil
	}
	if err := uc.members.SetStatus(ctx, id, domain.MembershipActive); err != nil {
		return nil, err
	}
	m.Status = domain.MembershipActive
	return m, nil
}
