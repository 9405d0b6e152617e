package domain

import (
	"time"

	"github.com/google/uuid"
)

// MembershipID is a value object for membership identity.
type MembershipID struct{ uuid.UUID }

// NewMembershipID creates a new MembershipID from uuid.
func NewMembershipID(id uuid.UUID) MembershipID { return MembershipID{UUID: id} }

// String returns the canonical string form.
func (m MembershipID) String() string { return m.UUID.String() }

// UserID is a value object for user identity.
type UserID struct{ uuid.UUID }

// NewUserID creates a new UserID from uuid.
func NewUserID(id uuid.UUID) UserID { return UserID{UUID: id} }

// String returns the canonical string form.
func (u UserID) String() string { return u.UUID.String() }

// PermissionLevel is what a member can DO in an organization (authorization).
type PermissionLevel string

const (
	PermissionOwner   PermissionLevel = "owner"
	PermissionAdmin   PermissionLevel = "admin"
	PermissionManager PermissionLevel = "manager"
	PermissionMember  PermissionLevel = "member"
)

// MembershipStatus is the lifecycle state of an org-level membership.
type MembershipStatus string

const (
	MembershipActive         MembershipStatus = "active"
	MembershipInactive       MembershipStatus = "inactive"
	MembershipProspect       MembershipStatus = "prospect"
	MembershipExpired        MembershipStatus = "expired"
	MembershipPendingRenewal MembershipStatus = "pending_renewal"
	MembershipBanned         MembershipStatus = "banned"
)

// Descriptive roles: what a member IS (informational, many-valued).
// Independent of PermissionLevel.
const (
	RoleAthlete = "athlete"
	RoleCoach   = "coach"
	RoleParent  = "parent"
	RoleStudent = "student"
	RoleGuest   = "guest"
)

// Membership links a user to an organization. Unique per (user, organization).
//
// Status is a derived field for ordinary members: the season reconciliation
// engine recomputes it from current season engagement. Owners and admins, and
// memberships in a non-derived state (prospect, expired, pending_renewal,
// banned), are never touched by reconciliation.
type Membership struct {
	ID              MembershipID
	UserID          UserID
	UserEmail       string
	OrganizationID  OrganizationID
	PermissionLevel PermissionLevel
	Status          MembershipStatus
	Roles           []string
	JoinedAt        time.Time
	ModifiedAt      time.Time
}

// SyncExemptStatuses are the lifecycle states the reconciliation engine must
// never overwrite. Exempt memberships are not inspected for season engagement
// at all.
var SyncExemptStatuses = []MembershipStatus{
	MembershipProspect,
	MembershipExpired,
	MembershipPendingRenewal,
	MembershipBanned,
}

// SyncExemptPermissions are permission levels that are always treated as
// active regardless of season engagement.
var SyncExemptPermissions = []PermissionLevel{
	PermissionOwner,
	PermissionAdmin,
}

// SyncExempt reports whether reconciliation must leave this membership alone.
func (m *Membership) SyncExempt() bool {
	for _, p := range SyncExemptPermissions {
		if m.PermissionLevel == p {
			return true
		}
	}
	for _, s := range SyncExemptStatuses {
		if m.Status == s {
			return true
		}
	}
	return false
}
