package domain

import (
	"time"

	"github.com/google/uuid"

	domerrors "github.com/leaguebase/leaguebase/internal/domain/errors"
)

// OrganizationID is a value object for organization identity.
type OrganizationID struct{ uuid.UUID }

// NewOrganizationID creates a new OrganizationID from uuid.
func NewOrganizationID(id uuid.UUID) OrganizationID { return OrganizationID{UUID: id} }

// String returns the canonical string form.
func (o OrganizationID) String() string { return o.UUID.String() }

// OrgType is the kind of node an organization is in the league hierarchy.
type OrgType string

const (
	OrgTypeLeague        OrgType = "league"
	OrgTypeTeam          OrgType = "team"
	OrgTypeSquad         OrgType = "squad"
	OrgTypeClub          OrgType = "club"
	OrgTypePracticeGroup OrgType = "practice_group"
)

// Organization is a node in the league/team/squad hierarchy. Leagues are
// top-level; teams are top-level or belong to a league; squads, clubs and
// practice groups always belong to a team.
type Organization struct {
	ID             OrganizationID
	Type           OrgType
	ParentID       *OrganizationID
	Name           string
	Slug           string
	Description    string
	MembershipOpen bool
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidateHierarchy checks the parent rules for the organization's type.
// parentType is the type of the referenced parent; it is ignored when
// ParentID is nil.
func (o *Organization) ValidateHierarchy(parentType OrgType) error {
	switch o.Type {
	case OrgTypeLeague:
		if o.ParentID != nil {
			return domerrors.ErrInvalidHierarchy
		}
	case OrgTypeTeam:
		if o.ParentID != nil && parentType != OrgTypeLeague {
			return domerrors.ErrInvalidHierarchy
		}
	case OrgTypeSquad, OrgTypeClub, OrgTypePracticeGroup:
		if o.ParentID == nil || parentType != OrgTypeTeam {
			return domerrors.ErrInvalidHierarchy
		}
	default:
		return domerrors.ErrInvalidOrgType
	}
	return nil
}
