package membership

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/leaguebase/leaguebase/internal/application/ports"
	"github.com/leaguebase/leaguebase/internal/domain"
	domerrors "github.com/leaguebase/leaguebase/internal/domain/errors"
)

type JoinOrganizationInput struct {
	UserID         domain.UserID
	UserEmail      string
	OrganizationID domain.OrganizationID
	Roles          []string
	// Invited is true when the join comes from an accepted invite; the
	// membership then starts active instead of prospect.
	Invited bool
}

type JoinOrganizationResult struct {
	Membership *domain.Membership
}

// JoinOrganization creates a membership for a user. Self-requests start as
// prospect and wait for approval; invite-accepts start active.
type JoinOrganization struct {
	orgs    ports.OrganizationRepository
	members ports.MembershipRepository
}

func NewJoinOrganization(orgs ports.OrganizationRepository, members ports.MembershipRepository) *JoinOrganization {
	return &JoinOrganization{orgs: orgs, members: members}
}

func (uc *JoinOrganization) Execute(ctx context.Context, input JoinOrganizationInput) (*JoinOrganizationResult, error) {
	org, err := uc.orgs.GetByID(ctx, input.OrganizationID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domerrors.ErrOrganizationNotFound
	}
	if !org.MembershipOpen && !input.Invited {
		return nil, domerrors.ErrMembershipClosed
	}
	existing, err := uc.members.GetByUserAndOrg(ctx, input.UserID, input.OrganizationID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domerrors.ErrAlreadyMember
	}

	status := domain.MembershipProspect
	if input.Invited {
		status = domain.MembershipActive
	}
	now := time.Now()
	m := &domain.Membership{
		ID:              domain.NewMembershipID(uuid.New()),
		UserID:          input.UserID,
		UserEmail:       input.UserEmail,
		OrganizationID:  input.OrganizationID,
		PermissionLevel: domain.PermissionMember,
		Status:          status,
		Roles:           input.Roles,
		JoinedAt:        now,
		ModifiedAt:      now,
	}
	if err := uc.members.Create(ctx, m); err != nil {
		return nil, err
	}
	return &JoinOrganizationResult{Membership: m}, nil
}
