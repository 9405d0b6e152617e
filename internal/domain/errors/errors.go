package errors

import "errors"

// Sentinel errors for handlers to map to HTTP status.
var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrMembershipNotFound   = errors.New("membership not found")
	ErrSeasonNotFound       = errors.New("season not found")
	ErrInvalidHierarchy     = errors.New("organization violates hierarchy rules")
	ErrInvalidOrgType       = errors.New("unknown organization type")
	ErrMembershipClosed     = errors.New("organization is not accepting new members")
	ErrAlreadyMember        = errors.New("user already has a membership in this organization")
	ErrLastOwner            = errors.New("cannot remove the last owner of an organization")
	ErrActiveSeasonExists   = errors.New("organization already has an active season")
	ErrInvalidSeasonDates   = errors.New("season dates are invalid")
	ErrAlreadyRegistered    = errors.New("membership is already registered for this season")
	ErrRegistrationClosed   = errors.New("season registration window is closed")
)
