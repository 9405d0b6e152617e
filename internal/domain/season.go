package domain

import (
	"time"

	"github.com/google/uuid"

	domerrors "github.com/leaguebase/leaguebase/internal/domain/errors"
)

// SeasonID is a value object for season identity.
type SeasonID struct{ uuid.UUID }

// NewSeasonID creates a new SeasonID from uuid.
func NewSeasonID(id uuid.UUID) SeasonID { return SeasonID{UUID: id} }

// String returns the canonical string form.
func (s SeasonID) String() string { return s.UUID.String() }

// Season is a time-boxed registration period owned by one organization.
// At most one season per organization may be active at a time; activation is
// rejected at write time when another active season exists.
type Season struct {
	ID                SeasonID
	OrganizationID    OrganizationID
	Name              string
	StartDate         time.Time
	EndDate           time.Time
	RegistrationOpen  time.Time
	RegistrationClose *time.Time
	IsActive          bool
	IsPublished       bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Validate checks the date range and registration window.
func (s *Season) Validate() error {
	if !s.StartDate.Before(s.EndDate) {
		return domerrors.ErrInvalidSeasonDates
	}
	if s.RegistrationClose != nil && !s.RegistrationOpen.Before(*s.RegistrationClose) {
		return domerrors.ErrInvalidSeasonDates
	}
	return nil
}

// RegistrationOpenAt reports whether the registration window contains t.
func (s *Season) RegistrationOpenAt(t time.Time) bool {
	if t.Before(s.RegistrationOpen) {
		return false
	}
	if s.RegistrationClose != nil && t.After(*s.RegistrationClose) {
		return false
	}
	return true
}

// SeasonMembershipStatus is the lifecycle state of a season registration,
// independent of the org-level Membership status.
type SeasonMembershipStatus string

const (
	SeasonRegistered SeasonMembershipStatus = "registered"
	SeasonActive     SeasonMembershipStatus = "active"
	SeasonInactive   SeasonMembershipStatus = "inactive"
	SeasonWaitlist   SeasonMembershipStatus = "waitlist"
	SeasonWithdrew   SeasonMembershipStatus = "withdrew"
)

// SeasonEngagementStatuses are the SeasonMembership states that count as
// "engaged this season" for membership status reconciliation.
var SeasonEngagementStatuses = []SeasonMembershipStatus{
	SeasonRegistered,
	SeasonActive,
}

// SeasonMembership links a Membership to a Season. Unique per
// (membership, season). Created at season registration time.
type SeasonMembership struct {
	ID           uuid.UUID
	MembershipID MembershipID
	SeasonID     SeasonID
	Status       SeasonMembershipStatus
	Fee          *float64
	FeePaid      bool
	RegisteredAt time.Time
	ModifiedAt   time.Time
}
