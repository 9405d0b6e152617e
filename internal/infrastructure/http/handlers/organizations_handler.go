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

	"github.com/leaguebase/leaguebase/internal/application/organization"
	"github.com/leaguebase/leaguebase/internal/application/ports"
	"github.com/leaguebase/leaguebase/internal/domain"
	domerrors "github.com/leaguebase/leaguebase/internal/domain/errors"
)

// OrganizationsHandler handles /organizations/* CRUD and season management.
type OrganizationsHandler struct {
	orgRepo        ports.OrganizationRepository
	createOrg      *organization.CreateOrganization
	createSeason   *organization.CreateSeason
	activateSeason *organization.ActivateSeason
	seasonRepo     ports.SeasonRepository
	validate       *validator.Validate
	log            zerolog.Logger
}

func NewOrganizationsHandler(
	orgRepo ports.OrganizationRepository,
	seasonRepo ports.SeasonRepository,
	createOrg *organization.CreateOrganization,
	createSeason *organization.CreateSeason,
	activateSeason *organization.ActivateSeason,
	log zerolog.Logger,
) *OrganizationsHandler {
	return &OrganizationsHandler{
		orgRepo:        orgRepo,
		seasonRepo:     seasonRepo,
		createOrg:      createOrg,
		createSeason:   createSeason,
		activateSeason: activateSeason,
		validate:       validator.New(),
		log:            log,
	}
}

// OrgResponse is the JSON shape for an organization.
type OrgResponse struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	ParentID       *string `json:"parent_id,omitempty"`
	Name           string  `json:"name"`
	Slug           string  `json:"slug"`
	MembershipOpen bool    `json:"membership_open"`
	CreatedAt      string  `json:"created_at"`
}

// SeasonResponse is the JSON shape for a season.
type SeasonResponse struct {
	ID                string  `json:"id"`
	OrganizationID    string  `json:"organization_id"`
	Name              string  `json:"name"`
	StartDate         string  `json:"start_date"`
	EndDate           string  `json:"end_date"`
	RegistrationOpen  string  `json:"registration_open"`
	RegistrationClose *string `json:"registration_close,omitempty"`
	IsActive          bool    `json:"is_active"`
	IsPublished       bool    `json:"is_published"`
}

func orgResponse(o *domain.Organization) OrgResponse {
	resp := OrgResponse{
		ID:             o.ID.String(),
		Type:           string(o.Type),
		Name:           o.Name,
		Slug:           o.Slug,
		MembershipOpen: o.MembershipOpen,
		CreatedAt:      o.CreatedAt.Format(time.RFC3339),
	}
	if o.ParentID != nil {
		s := o.ParentID.String()
		resp.ParentID = &s
	}
	return resp
}

func seasonResponse(s *domain.Season) SeasonResponse {
	resp := SeasonResponse{
		ID:               s.ID.String(),
		OrganizationID:   s.OrganizationID.String(),
		Name:             s.Name,
		StartDate:        s.StartDate.Format("2006-01-02"),
		EndDate:          s.EndDate.Format("2006-01-02"),
		RegistrationOpen: s.RegistrationOpen.Format(time.RFC3339),
		IsActive:         s.IsActive,
		IsPublished:      s.IsPublished,
	}
	if s.RegistrationClose != nil {
		c := s.RegistrationClose.Format(time.RFC3339)
		resp.RegistrationClose = &c
	}
	return resp
}

// Create creates an organization node.
func (h *OrganizationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Type           string  `json:"type" validate:"required,oneof=league team squad club practice_group"`
		ParentID       *string `json:"parent_id"`
		Name           string  `json:"name" validate:"required,max=200"`
		Description    string  `json:"description" validate:"max=2000"`
		MembershipOpen *bool   `json:"membership_open"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := h.validate.Struct(body); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	input := organization.CreateOrganizationInput{
		Type:           domain.OrgType(body.Type),
		Name:           body.Name,
		Description:    body.Description,
		MembershipOpen: body.MembershipOpen == nil || *body.MembershipOpen,
	}
	if body.ParentID != nil {
		pid, err := uuid.Parse(*body.ParentID)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "invalid parent id")
			return
		}
		oid := domain.NewOrganizationID(pid)
		input.ParentID = &oid
	}
	org, err := h.createOrg.Execute(r.Context(), input)
	if err != nil {
		h.writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, orgResponse(org))
}

// List returns organizations, paginated.
func (h *OrganizationsHandler) List(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.orgRepo.List(r.Context(), 100, 0)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	items := make([]OrgResponse, 0, len(orgs))
	for _, o := range orgs {
		items = append(items, orgResponse(o))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"organizations": items})
}

// Get returns one organization by id.
func (h *OrganizationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgIDFromURL(w, r)
	if !ok {
		return
	}
	org, err := h.orgRepo.GetByID(r.Context(), orgID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	if org == nil {
		writeErr(w, http.StatusNotFound, "organization not found")
		return
	}
	writeJSON(w, http.StatusOK, orgResponse(org))
}

// CreateSeason creates an inactive season under the organization.
func (h *OrganizationsHandler) CreateSeason(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgIDFromURL(w, r)
	if !ok {
		return
	}
	var body struct {
		Name              string  `json:"name" validate:"required,max=200"`
		StartDate         string  `json:"start_date" validate:"required"`
		EndDate           string  `json:"end_date" validate:"required"`
		RegistrationOpen  string  `json:"registration_open" validate:"required"`
		RegistrationClose *string `json:"registration_close"`
		IsPublished       bool    `json:"is_published"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := h.validate.Struct(body); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	start, err1 := time.Parse("2006-01-02", body.StartDate)
	end, err2 := time.Parse("2006-01-02", body.EndDate)
	regOpen, err3 := time.Parse(time.RFC3339, body.RegistrationOpen)
	if err1 != nil || err2 != nil || err3 != nil {
		writeErr(w, http.StatusBadRequest, "invalid date format")
		return
	}
	input := organization.CreateSeasonInput{
		OrganizationID:   orgID,
		Name:             body.Name,
		StartDate:        start,
		EndDate:          end,
		RegistrationOpen: regOpen,
		IsPublished:      body.IsPublished,
	}
	if body.RegistrationClose != nil {
		regClose, err := time.Parse(time.RFC3339, *body.RegistrationClose)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "invalid date format")
			return
		}
		input.RegistrationClose = &regClose
	}
	season, err := h.createSeason.Execute(r.Context(), input)
	if err != nil {
		h.writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, seasonResponse(season))
}

// ActivateSeason marks a season active, rejecting a second active season for
// the organization.
func (h *OrganizationsHandler) ActivateSeason(w http.ResponseWriter, r *http.Request) {
	sid, err := uuid.Parse(chi.URLParam(r, "seasonID"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid season id")
		return
	}
	if err := h.activateSeason.Execute(r.Context(), domain.NewSeasonID(sid)); err != nil {
		h.writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "active"})
}

// GetActiveSeason returns the organization's active season, 404 when none.
func (h *OrganizationsHandler) GetActiveSeason(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgIDFromURL(w, r)
	if !ok {
		return
	}
	seasons, err := h.seasonRepo.ListActive(r.Context(), orgID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	if len(seasons) == 0 {
		writeErr(w, http.StatusNotFound, "no active season")
		return
	}
	writeJSON(w, http.StatusOK, seasonResponse(seasons[0]))
}

func (h *OrganizationsHandler) orgIDFromURL(w http.ResponseWriter, r *http.Request) (domain.OrganizationID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "orgID"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid organization id")
		return domain.OrganizationID{}, false
	}
	return domain.NewOrganizationID(id), true
}

func (h *OrganizationsHandler) writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domerrors.ErrOrganizationNotFound), errors.Is(err, domerrors.ErrSeasonNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domerrors.ErrInvalidHierarchy), errors.Is(err, domerrors.ErrInvalidOrgType),
		errors.Is(err, domerrors.ErrInvalidSeasonDates):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domerrors.ErrActiveSeasonExists):
		writeErr(w, http.StatusConflict, err.Error())
	default:
		h.log.Error().Err(err).Msg("organizations handler internal error")
		writeErr(w, http.StatusInternalServerError, "internal error")
	}
}
