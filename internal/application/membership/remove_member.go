package membership

import (
	"context"

	"github.com/leaguebase/leaguebase/internal/application/ports"
	"github.com/leaguebase/leaguebase/internal/domain"
	domerrors "github.com/leaguebase/leaguebase/internal/domain/errors"
)

// RemoveMember deletes a membership (leave or removal), refusing to remove
// the organization's last owner.
type RemoveMember struct {
	members ports.MembershipRepository
}

func NewRemoveMember(members ports.MembershipRepository) *RemoveMember {
	return &RemoveMember{members: members}
}

func (uc *RemoveMember) Execute(ctx context.Context, id domain.MembershipID) error {
	m, err := uc.members.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return domerrors.ErrMembershipNotFound
	}
	if m.PermissionLevel == domain.PermissionOwner {
		owners, err := uc.members.CountOwners(ctx, m.OrganizationID)
		if err != nil {
			return err
		}
		if owners <= 1 {
			return domerrors.ErrLastOwner
		}
	}
	return uc.members.Delete(ctx, id)
}
