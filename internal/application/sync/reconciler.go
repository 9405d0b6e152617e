// Package sync implements the membership/season status reconciliation engine:
// a periodic job that derives each ordinary membership's active/inactive
// status from its engagement with the organization's active season.
// Re-running after a crash produces the same result as a clean run.
package sync

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/leaguebase/leaguebase/internal/application/ports"
	"github.com/leaguebase/leaguebase/internal/domain"
)

// Summary is the aggregate result of one reconciliation run.
type Summary struct {
	OrganizationsProcessed int       `json:"organizations_processed"`
	MembershipsUpdated     int       `json:"memberships_updated"`
	CompletedAt            time.Time `json:"completed_at"`
}

// Reconciler recomputes Membership.status from current season engagement for
// every organization with an active season.
//
// Owners and admins, and memberships in a non-derived lifecycle state
// (prospect, expired, pending_renewal, banned), are exempt: never inspected,
// never written. For everyone else the target status is active iff a
// SeasonMembership exists for the active season with status registered or
// active; a missing row counts the same as withdrew or waitlist.
type Reconciler struct {
	orgs    ports.OrganizationRepository
	seasons ports.SeasonRepository
	members ports.MembershipRepository
	regs    ports.SeasonMembershipRepository
	log     zerolog.Logger
}

// NewReconciler creates the engine.
func NewReconciler(
	orgs ports.OrganizationRepository,
	seasons ports.SeasonRepository,
	members ports.MembershipRepository,
	regs ports.SeasonMembershipRepository,
	log zerolog.Logger,
) *Reconciler {
	return &Reconciler{orgs: orgs, seasons: seasons, members: members, regs: regs, log: log}
}

// Reconcile runs one full pass over the domain store. Idempotent: a second
// run with no intervening writes updates nothing. Safe to invoke
// concurrently with itself; per-membership writes are atomic conditional
// updates, so racing runs converge on the same state.
//
// A fault inside one organization is logged and skipped; only a systemic
// fault (the organization listing itself failing) returns an error, which
// the task queue treats as retryable.
func (r *Reconciler) Reconcile(ctx context.Context) (Summary, error) {
	r.log.Info().Msg("membership status sync started")

	orgs, err := r.orgs.ListWithActiveSeason(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("membership status sync failed to list organizations")
		return Summary{}, err
	}

	var summary Summary
	for _, org := range orgs {
		summary.OrganizationsProcessed++
		summary.MembershipsUpdated += r.reconcileOrganization(ctx, org)
	}

	summary.CompletedAt = time.Now().UTC()
	r.log.Info().
		Int("organizations_processed", summary.OrganizationsProcessed).
		Int("memberships_updated", summary.MembershipsUpdated).
		Time("completed_at", summary.CompletedAt).
		Msg("membership status sync completed")
	return summary, nil
}

// reconcileOrganization processes a single organization and returns the
// number of memberships updated. Faults are contained here so one corrupt or
// concurrently-deleted organization cannot block the rest of the run.
func (r *Reconciler) reconcileOrganization(ctx context.Context, org *domain.Organization) int {
	active, err := r.seasons.ListActive(ctx, org.ID)
	if err != nil {
		r.log.Error().Err(err).
			Str("organization_id", org.ID.String()).
			Str("organization_name", org.Name).
			Msg("skipping organization: active season lookup failed")
		return 0
	}
	if len(active) == 0 {
		// Listed with an active season but none resolves now; it was
		// deactivated mid-run. Nothing to do.
		return 0
	}
	if len(active) > 1 {
		r.log.Warn().
			Str("organization_id", org.ID.String()).
			Str("organization_name", org.Name).
			Int("active_seasons", len(active)).
			Msg("organization has multiple active seasons; using the first")
	}
	season := active[0]

	memberships, err := r.members.ListForSync(ctx, org.ID, domain.SyncExemptStatuses, domain.SyncExemptPermissions)
	if err != nil {
		r.log.Error().Err(err).
			Str("organization_id", org.ID.String()).
			Str("organization_name", org.Name).
			Msg("skipping organization: membership listing failed")
		return 0
	}

	updated := 0
	for _, m := range memberships {
		if m.SyncExempt() {
			// ListForSync already filters; belt against a store that does not.
			continue
		}
		engaged, err := r.regs.HasEngagement(ctx, m.ID, season.ID, domain.SeasonEngagementStatuses)
		if err != nil {
			r.log.Error().Err(err).
				Str("membership_id", m.ID.String()).
				Str("organization_id", org.ID.String()).
				Msg("membership skipped: season engagement lookup failed")
			continue
		}

		newStatus := domain.MembershipInactive
		if engaged {
			newStatus = domain.MembershipActive
		}
		if m.Status == newStatus {
			continue
		}

		changed, err := r.members.UpdateStatusIf(ctx, m.ID, m.Status, newStatus)
		if err != nil {
			r.log.Error().Err(err).
				Str("membership_id", m.ID.String()).
				Str("organization_id", org.ID.String()).
				Msg("membership skipped: status write failed")
			continue
		}
		if !changed {
			// Lost the race to a concurrent run that already wrote the same
			// transition. Not counted.
			continue
		}
		updated++

		r.log.Info().
			Str("user_id", m.UserID.String()).
			Str("user_email", m.UserEmail).
			Str("organization_id", org.ID.String()).
			Str("organization_name", org.Name).
			Str("old_status", string(m.Status)).
			Str("new_status", string(newStatus)).
			Str("season_name", season.Name).
			Bool("has_season_registration", engaged).
			Msg("updated membership status")
	}
	return updated
}
