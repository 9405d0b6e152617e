package organization

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/leaguebase/leaguebase/internal/application/ports"
	"github.com/leaguebase/leaguebase/internal/domain"
	domerrors "github.com/leaguebase/leaguebase/internal/domain/errors"
)

type CreateSeasonInput struct {
	OrganizationID    domain.OrganizationID
	Name              string
	StartDate         time.Time
	EndDate           time.Time
	RegistrationOpen  time.Time
	RegistrationClose *time.Time
	IsPublished       bool
}

// CreateSeason creates an inactive season for an organization after
// validating its date range and registration window. Activation is a
// separate, guarded step.
type CreateSeason struct {
	orgs    ports.OrganizationRepository
	seasons ports.SeasonRepository
}

func NewCreateSeason(orgs ports.OrganizationRepository, seasons ports.SeasonRepository) *CreateSeason {
	return &CreateSeason{orgs: orgs, seasons: seasons}
}

func (uc *CreateSeason) Execute(ctx context.Context, input CreateSeasonInput) (*domain.Season, error) {
	org, err := uc.orgs.GetByID(ctx, input.OrganizationID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domerrors.ErrOrganizationNotFound
	}

	now := time.Now()
	season := &domain.Season{
		ID:                domain.NewSeasonID(uuid.New()),
		OrganizationID:    input.OrganizationID,
		Name:              input.Name,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
		RegistrationOpen:  input.RegistrationOpen,
		RegistrationClose: input.RegistrationClose,
		IsActive:          false,
		IsPublished:       input.IsPublished,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := season.Validate(); err != nil {
		return nil, err
	}
	if err := uc.seasons.Create(ctx, season); err != nil {
		return nil, err
	}
	return season, nil
}

// ActivateSeason flips a season active. Write-time rejection of a second
// active season per organization is the source of truth for the one-active
// invariant; the reconciliation engine's tolerance of duplicates is
// defense-in-depth only.
type ActivateSeason struct {
	seasons ports.SeasonRepository
}

func NewActivateSeason(seasons ports.SeasonRepository) *ActivateSeason {
	return &ActivateSeason{seasons: seasons}
}

func (uc *ActivateSeason) Execute(ctx context.Context, seasonID domain.SeasonID) error {
	season, err := uc.seasons.GetByID(ctx, seasonID)
	if err != nil {
		return err
	}
	if season == nil {
		return domerrors.ErrSeasonNotFound
	}
	if season.IsActive {
		return nil
	}
	return uc.seasons.Activate(ctx, seasonID)
}
