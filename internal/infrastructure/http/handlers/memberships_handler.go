package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/leaguebase/leaguebase/internal/application/membership"
	"github.com/leaguebase/leaguebase/internal/domain"
	domerrors "github.com/leaguebase/leaguebase/internal/domain/errors"
)

// MembershipsHandler handles membership lifecycle under
// /organizations/{orgID}/memberships/*.
type MembershipsHandler struct {
	join     *membership.JoinOrganization
	approve  *membership.ApproveRequest
	remove   *membership.RemoveMember
	register *membership.RegisterForSeason
	validate *validator.Validate
	log      zerolog.Logger
}

func NewMembershipsHandler(
	join *membership.JoinOrganization,
	approve *membership.ApproveRequest,
	remove *membership.RemoveMember,
	register *membership.RegisterForSeason,
	log zerolog.Logger,
) *MembershipsHandler {
	return &MembershipsHandler{
		join:     join,
		approve:  approve,
		remove:   remove,
		register: register,
		validate: validator.New(),
		log:      log,
	}
}

// MembershipResponse is the JSON shape for a membership.
type MembershipResponse struct {
	ID              string   `json:"id"`
	UserID          string   `json:"user_id"`
	OrganizationID  string   `json:"organization_id"`
	PermissionLevel string   `json:"permission_level"`
	Status          string   `json:"status"`
	Roles           []string `json:"roles,omitempty"`
	JoinedAt        string   `json:"joined_at"`
}

func membershipResponse(m *domain.Membership) MembershipResponse {
	return MembershipResponse{
		ID:              m.ID.String(),
		UserID:          m.UserID.String(),
		OrganizationID:  m.OrganizationID.String(),
		PermissionLevel: string(m.PermissionLevel),
		Status:          string(m.Status),
		Roles:           m.Roles,
		JoinedAt:        m.JoinedAt.Format(time.RFC3339),
	}
}

// Join creates a membership: prospect on self-request, active on invite.
func (h *MembershipsHandler) Join(w http.ResponseWriter, r *http.Request) {
	orgID, err := uuid.Parse(chi.URLParam(r, "orgID"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid organization id")
		return
	}
	var body struct {
		UserID    string   `json:"user_id" validate:"required,uuid"`
		UserEmail string   `json:"user_email" validate:"required,email"`
		Roles     []string `json:"roles"`
		Invited   bool     `json:"invited"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := h.validate.Struct(body); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	userID, _ := uuid.Parse(body.UserID)
	result, err := h.join.Execute(r.Context(), membership.JoinOrganizationInput{
		UserID:         domain.NewUserID(userID),
		UserEmail:      body.UserEmail,
		OrganizationID: domain.NewOrganizationID(orgID),
		Roles:          body.Roles,
		Invited:        body.Invited,
	})
	if err != nil {
		h.writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, membershipResponse(result.Membership))
}

// Approve moves a prospect membership to active.
func (h *MembershipsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	mid, ok := h.membershipIDFromURL(w, r)
	if !ok {
		return
	}
	m, err := h.approve.Execute(r.Context(), mid)
	if err != nil {
		h.writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, membershipResponse(m))
}

// Remove deletes a membership, refusing to remove the last owner.
func (h *MembershipsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	mid, ok := h.membershipIDFromURL(w, r)
	if !ok {
		return
	}
	if err := h.remove.Execute(r.Context(), mid); err != nil {
		h.writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterForSeason creates a season registration for the membership.
func (h *MembershipsHandler) RegisterForSeason(w http.ResponseWriter, r *http.Request) {
	mid, ok := h.membershipIDFromURL(w, r)
	if !ok {
		return
	}
	var body struct {
		SeasonID string   `json:"season_id" validate:"required,uuid"`
		Fee      *float64 `json:"fee"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := h.validate.Struct(body); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	sid, _ := uuid.Parse(body.SeasonID)
	sm, err := h.register.Execute(r.Context(), membership.RegisterForSeasonInput{
		MembershipID: mid,
		SeasonID:     domain.NewSeasonID(sid),
		Fee:          body.Fee,
	})
	if err != nil {
		h.writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":            sm.ID.String(),
		"membership_id": sm.MembershipID.String(),
		"season_id":     sm.SeasonID.String(),
		"status":        string(sm.Status),
	})
}

func (h *MembershipsHandler) membershipIDFromURL(w http.ResponseWriter, r *http.Request) (domain.MembershipID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "membershipID"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid membership id")
		return domain.MembershipID{}, false
	}
	return domain.NewMembershipID(id), true
}

func (h *MembershipsHandler) writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domerrors.ErrOrganizationNotFound),
		errors.Is(err, domerrors.ErrMembershipNotFound),
		errors.Is(err, domerrors.ErrSeasonNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domerrors.ErrAlreadyMember), errors.Is(err, domerrors.ErrAlreadyRegistered):
		writeErr(w, http.StatusConflict, err.Error())
	case errors.Is(err, domerrors.ErrMembershipClosed),
		errors.Is(err, domerrors.ErrRegistrationClosed),
		errors.Is(err, domerrors.ErrLastOwner):
		writeErr(w, http.StatusForbidden, err.Error())
	default:
		h.log.Error().Err(err).Msg("memberships handler internal error")
		writeErr(w, http.StatusInternalServerError, "internal error")
	}
}
