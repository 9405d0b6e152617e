package organization

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leaguebase/leaguebase/internal/application/ports"
	"github.com/leaguebase/leaguebase/internal/domain"
	domerrors "github.com/leaguebase/leaguebase/internal/domain/errors"
)

type CreateOrganizationInput struct {
	Type           domain.OrgType
	ParentID       *domain.OrganizationID
	Name           string
	Description    string
	MembershipOpen bool
}

// CreateOrganization creates a node in the league hierarchy, enforcing the
// parent rules (leagues top-level; teams top-level or under a league;
// squads, clubs, practice groups under a team).
type CreateOrganization struct {
	orgs ports.OrganizationRepository
}

func NewCreateOrganization(orgs ports.OrganizationRepository) *CreateOrganization {
	return &CreateOrganization{orgs: orgs}
}

func (uc *CreateOrganization) Execute(ctx context.Context, input CreateOrganizationInput) (*domain.Organization, error) {
	var parentType domain.OrgType
	if input.ParentID != nil {
		parent, err := uc.orgs.GetByID(ctx, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, domerrors.ErrOrganizationNotFound
		}
		parentType = parent.Type
	}

	now := time.Now()
	org := &domain.Organization{
		ID:             domain.NewOrganizationID(uuid.New()),
		Type:           input.Type,
		ParentID:       input.ParentID,
		Name:           input.Name,
		Slug:           slugify(input.Name),
		Description:    input.Description,
		MembershipOpen: input.MembershipOpen,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := org.ValidateHierarchy(parentType); err != nil {
		return nil, err
	}
	if err := uc.orgs.Create(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
