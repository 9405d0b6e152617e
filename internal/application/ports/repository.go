package ports

import (
	"context"

	"github.com/leaguebase/leaguebase/internal/domain"
)

// OrganizationRepository defines persistence for organizations.
type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, orgID domain.OrganizationID) (*domain.Organization, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Organization, error)
	// ListWithActiveSeason returns every organization that has at least one
	// active season. Distinct: no duplicates even if the join matches more
	// than one season.
	ListWithActiveSeason(ctx context.Context) ([]*domain.Organization, error)
}

// SeasonRepository defines persistence for seasons.
type SeasonRepository interface {
	Create(ctx context.Context, season *domain.Season) error
	GetByID(ctx context.Context, seasonID domain.SeasonID) (*domain.Season, error)
	// ListActive returns all active seasons of an organization. The one-active
	// invariant is enforced at activation time; callers that expect a single
	// season must tolerate violations (pick the first, warn).
	ListActive(ctx context.Context, orgID domain.OrganizationID) ([]*domain.Season, error)
	// Activate flips the season active. Returns ErrActiveSeasonExists when the
	// organization already has a different active season.
	Activate(ctx context.Context, seasonID domain.SeasonID) error
}

// MembershipRepository defines persistence for org-level memberships.
type MembershipRepository interface {
	Create(ctx context.Context, m *domain.Membership) error
	GetByID(ctx context.Context, id domain.MembershipID) (*domain.Membership, error)
	GetByUserAndOrg(ctx context.Context, userID domain.UserID, orgID domain.OrganizationID) (*domain.Membership, error)
	// ListForSync returns the organization's memberships excluding the given
	// statuses and permission levels.
	ListForSync(ctx context.Context, orgID domain.OrganizationID, excludeStatuses []domain.MembershipStatus, excludePermissions []domain.PermissionLevel) ([]*domain.Membership, error)
	// UpdateStatusIf performs a single atomic conditional write:
	// status is set to next only when it still equals prev. Returns whether a
	// row was updated, so concurrent reconciliation runs racing on the same
	// membership count the change at most once each per transition.
	UpdateStatusIf(ctx context.Context, id domain.MembershipID, prev, next domain.MembershipStatus) (bool, error)
	// SetStatus writes status unconditionally (admin flows: approve, ban).
	SetStatus(ctx context.Context, id domain.MembershipID, status domain.MembershipStatus) error
	CountOwners(ctx context.Context, orgID domain.OrganizationID) (int, error)
	Delete(ctx context.Context, id domain.MembershipID) error
}

// SeasonMembershipRepository defines persistence for season registrations.
type SeasonMembershipRepository interface {
	Create(ctx context.Context, sm *domain.SeasonMembership) error
	Get(ctx context.Context, membershipID domain.MembershipID, seasonID domain.SeasonID) (*domain.SeasonMembership, error)
	// HasEngagement reports whether a SeasonMembership exists for
	// (membership, season) with status in the given set.
	HasEngagement(ctx context.Context, membershipID domain.MembershipID, seasonID domain.SeasonID, statuses []domain.SeasonMembershipStatus) (bool, error)
}
