package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaguebase/leaguebase/internal/domain"
)

// storeState is the shared backing data for the fake repositories.
type storeState struct {
	orgs        []*domain.Organization
	seasons     map[domain.OrganizationID][]*domain.Season
	memberships []*domain.Membership
	// engagements[membershipID][seasonID] = season membership status
	engagements map[domain.MembershipID]map[domain.SeasonID]domain.SeasonMembershipStatus

	failListMemberships map[domain.OrganizationID]bool
	failUpdate          map[domain.MembershipID]bool
	failListOrgs        bool
	// refuseUpdate simulates losing the conditional-write race: the update
	// succeeds at SQL level but matches zero rows.
	refuseUpdate map[domain.MembershipID]bool
}

func newStoreState() *storeState {
	return &storeState{
		seasons:             make(map[domain.OrganizationID][]*domain.Season),
		engagements:         make(map[domain.MembershipID]map[domain.SeasonID]domain.SeasonMembershipStatus),
		failListMemberships: make(map[domain.OrganizationID]bool),
		failUpdate:          make(map[domain.MembershipID]bool),
		refuseUpdate:        make(map[domain.MembershipID]bool),
	}
}

func (s *storeState) addOrg(name string) *domain.Organization {
	org := &domain.Organization{
		ID:   domain.NewOrganizationID(uuid.New()),
		Type: domain.OrgTypeTeam,
		Name: name,
	}
	s.orgs = append(s.orgs, org)
	return org
}

func (s *storeState) addSeason(org *domain.Organization, name string, active bool) *domain.Season {
	season := &domain.Season{
		ID:             domain.NewSeasonID(uuid.New()),
		OrganizationID: org.ID,
		Name:           name,
		IsActive:       active,
	}
	s.seasons[org.ID] = append(s.seasons[org.ID], season)
	return season
}

func (s *storeState) addMembership(org *domain.Organization, level domain.PermissionLevel, status domain.MembershipStatus) *domain.Membership {
	m := &domain.Membership{
		ID:              domain.NewMembershipID(uuid.New()),
		UserID:          domain.NewUserID(uuid.New()),
		UserEmail:       "rider@example.com",
		OrganizationID:  org.ID,
		PermissionLevel: level,
		Status:          status,
	}
	s.memberships = append(s.memberships, m)
	return m
}

func (s *storeState) engage(m *domain.Membership, season *domain.Season, status domain.SeasonMembershipStatus) {
	if s.engagements[m.ID] == nil {
		s.engagements[m.ID] = make(map[domain.SeasonID]domain.SeasonMembershipStatus)
	}
	s.engagements[m.ID][season.ID] = status
}

type fakeOrgRepo struct{ s *storeState }

func (f *fakeOrgRepo) Create(ctx context.Context, org *domain.Organization) error { return nil }
func (f *fakeOrgRepo) GetByID(ctx context.Context, id domain.OrganizationID) (*domain.Organization, error) {
	return nil, nil
}
func (f *fakeOrgRepo) List(ctx context.Context, limit, offset int) ([]*domain.Organization, error) {
	return f.s.orgs, nil
}
func (f *fakeOrgRepo) ListWithActiveSeason(ctx context.Context) ([]*domain.Organization, error) {
	if f.s.failListOrgs {
		return nil, errors.New("store unreachable")
	}
	var out []*domain.Organization
	for _, org := range f.s.orgs {
		for _, season := range f.s.seasons[org.ID] {
			if season.IsActive {
				out = append(out, org)
				break
			}
		}
	}
	return out, nil
}

type fakeSeasonRepo struct{ s *storeState }

func (f *fakeSeasonRepo) Create(ctx context.Context, season *domain.Season) error { return nil }
func (f *fakeSeasonRepo) GetByID(ctx context.Context, id domain.SeasonID) (*domain.Season, error) {
	return nil, nil
}
func (f *fakeSeasonRepo) ListActive(ctx context.Context, orgID domain.OrganizationID) ([]*domain.Season, error) {
	var out []*domain.Season
	for _, season := range f.s.seasons[orgID] {
		if season.IsActive {
			out = append(out, season)
		}
	}
	return out, nil
}
func (f *fakeSeasonRepo) Activate(ctx context.Context, id domain.SeasonID) error { return nil }

type fakeMembershipRepo struct{ s *storeState }

func (f *fakeMembershipRepo) Create(ctx context.Context, m *domain.Membership) error { return nil }
func (f *fakeMembershipRepo) GetByID(ctx context.Context, id domain.MembershipID) (*domain.Membership, error) {
	return nil, nil
}
func (f *fakeMembershipRepo) GetByUserAndOrg(ctx context.Context, userID domain.UserID, orgID domain.OrganizationID) (*domain.Membership, error) {
	return nil, nil
}
func (f *fakeMembershipRepo) ListForSync(ctx context.Context, orgID domain.OrganizationID, excludeStatuses []domain.MembershipStatus, excludePermissions []domain.PermissionLevel) ([]*domain.Membership, error) {
	if f.s.failListMemberships[orgID] {
		return nil, errors.New("membership listing failed")
	}
	var out []*domain.Membership
	for _, m := range f.s.memberships {
		if m.OrganizationID != orgID {
			continue
		}
		excluded := false
		for _, st := range excludeStatuses {
			if m.Status == st {
				excluded = true
			}
		}
		for _, p := range excludePermissions {
			if m.PermissionLevel == p {
				excluded = true
			}
		}
		if !excluded {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (f *fakeMembershipRepo) UpdateStatusIf(ctx context.Context, id domain.MembershipID, prev, next domain.MembershipStatus) (bool, error) {
	if f.s.failUpdate[id] {
		return false, errors.New("row locked")
	}
	if f.s.refuseUpdate[id] {
		return false, nil
	}
	for _, m := range f.s.memberships {
		if m.ID == id && m.Status == prev {
			m.Status = next
			return true, nil
		}
	}
	return false, nil
}
func (f *fakeMembershipRepo) SetStatus(ctx context.Context, id domain.MembershipID, status domain.MembershipStatus) error {
	return nil
}
func (f *fakeMembershipRepo) CountOwners(ctx context.Context, orgID domain.OrganizationID) (int, error) {
	return 0, nil
}
func (f *fakeMembershipRepo) Delete(ctx context.Context, id domain.MembershipID) error { return nil }

type fakeSeasonMembershipRepo struct{ s *storeState }

func (f *fakeSeasonMembershipRepo) Create(ctx context.Context, sm *domain.SeasonMembership) error {
	return nil
}
func (f *fakeSeasonMembershipRepo) Get(ctx context.Context, membershipID domain.MembershipID, seasonID domain.SeasonID) (*domain.SeasonMembership, error) {
	return nil, nil
}
func (f *fakeSeasonMembershipRepo) HasEngagement(ctx context.Context, membershipID domain.MembershipID, seasonID domain.SeasonID, statuses []domain.SeasonMembershipStatus) (bool, error) {
	st, ok := f.s.engagements[membershipID][seasonID]
	if !ok {
		return false, nil
	}
	for _, s := range statuses {
		if st == s {
			return true, nil
		}
	}
	return false, nil
}

func newReconciler(s *storeState) *Reconciler {
	return NewReconciler(
		&fakeOrgRepo{s: s},
		&fakeSeasonRepo{s: s},
		&fakeMembershipRepo{s: s},
		&fakeSeasonMembershipRepo{s: s},
		zerolog.Nop(),
	)
}

func (s *storeState) statusOf(id domain.MembershipID) domain.MembershipStatus {
	for _, m := range s.memberships {
		if m.ID == id {
			return m.Status
		}
	}
	return ""
}

func TestReconcileActivatesEngagedMember(t *testing.T) {
	s := newStoreState()
	org := s.addOrg("Hill Valley BMX")
	season := s.addSeason(org, "2026 Spring", true)
	m := s.addMembership(org, domain.PermissionMember, domain.MembershipInactive)
	s.engage(m, season, domain.SeasonRegistered)

	summary, err := newReconciler(s).Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.OrganizationsProcessed)
	assert.Equal(t, 1, summary.MembershipsUpdated)
	assert.Equal(t, domain.MembershipActive, s.statusOf(m.ID))
	assert.False(t, summary.CompletedAt.IsZero())
}

func TestReconcileDeactivatesUnengagedMember(t *testing.T) {
	s := newStoreState()
	org := s.addOrg("Hill Valley BMX")
	s.addSeason(org, "2026 Spring", true)
	m := s.addMembership(org, domain.PermissionMember, domain.MembershipActive)

	summary, err := newReconciler(s).Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.MembershipsUpdated)
	assert.Equal(t, domain.MembershipInactive, s.statusOf(m.ID))
}

func TestReconcileWaitlistAndWithdrewCountAsUnengaged(t *testing.T) {
	s := newStoreState()
	org := s.addOrg("Hill Valley BMX")
	season := s.addSeason(org, "2026 Spring", true)
	waitlisted := s.addMembership(org, domain.PermissionMember, domain.MembershipActive)
	s.engage(waitlisted, season, domain.SeasonWaitlist)
	withdrew := s.addMembership(org, domain.PermissionMember, domain.MembershipActive)
	s.engage(withdrew, season, domain.SeasonWithdrew)

	summary, err := newReconciler(s).Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.MembershipsUpdated)
	assert.Equal(t, domain.MembershipInactive, s.statusOf(waitlisted.ID))
	assert.Equal(t, domain.MembershipInactive, s.statusOf(withdrew.ID))
}

func TestReconcileOwnersAndAdminsExempt(t *testing.T) {
	s := newStoreState()
	org := s.addOrg("Hill Valley BMX")
	s.addSeason(org, "2026 Spring", true)
	owner := s.addMembership(org, domain.PermissionOwner, domain.MembershipInactive)
	admin := s.addMembership(org, domain.PermissionAdmin, domain.MembershipInactive)

	summary, err := newReconciler(s).Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.MembershipsUpdated)
	assert.Equal(t, domain.MembershipInactive, s.statusOf(owner.ID))
	assert.Equal(t, domain.MembershipInactive, s.statusOf(admin.ID))
}

func TestReconcileExemptStatusesWinOverEngagement(t *testing.T) {
	exempt := []domain.MembershipStatus{
		domain.MembershipProspect,
		domain.MembershipExpired,
		domain.MembershipPendingRenewal,
		domain.MembershipBanned,
	}
	for _, status := range exempt {
		t.Run(string(status), func(t *testing.T) {
			s := newStoreState()
			org := s.addOrg("Hill Valley BMX")
			season := s.addSeason(org, "2026 Spring", true)
			m := s.addMembership(org, domain.PermissionMember, status)
			s.engage(m, season, domain.SeasonActive)

			summary, err := newReconciler(s).Reconcile(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 0, summary.MembershipsUpdated)
			assert.Equal(t, status, s.statusOf(m.ID))
		})
	}
}

func TestReconcileSkipsOrgWithoutActiveSeason(t *testing.T) {
	s := newStoreState()
	org := s.addOrg("Dormant Club")
	s.addSeason(org, "2024 Fall", false)
	m := s.addMembership(org, domain.PermissionMember, domain.MembershipActive)

	summary, err := newReconciler(s).Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.OrganizationsProcessed)
	assert.Equal(t, 0, summary.MembershipsUpdated)
	assert.Equal(t, domain.MembershipActive, s.statusOf(m.ID))
}

func TestReconcileCountsOrgWithZeroMemberships(t *testing.T) {
	s := newStoreState()
	org := s.addOrg("Empty Org")
	s.addSeason(org, "2026 Spring", true)

	summary, err := newReconciler(s).Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.OrganizationsProcessed)
	assert.Equal(t, 0, summary.MembershipsUpdated)
}

func TestReconcileIdempotent(t *testing.T) {
	s := newStoreState()
	org := s.addOrg("Hill Valley BMX")
	season := s.addSeason(org, "2026 Spring", true)
	engaged := s.addMembership(org, domain.PermissionMember, domain.MembershipInactive)
	s.engage(engaged, season, domain.SeasonRegistered)
	s.addMembership(org, domain.PermissionMember, domain.MembershipActive)

	r := newReconciler(s)
	first, err := r.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.MembershipsUpdated)

	second, err := r.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.MembershipsUpdated)
	assert.Equal(t, first.OrganizationsProcessed, second.OrganizationsProcessed)
}

func TestReconcileDerivationCorrectness(t *testing.T) {
	s := newStoreState()
	org := s.addOrg("Hill Valley BMX")
	season := s.addSeason(org, "2026 Spring", true)

	registered := s.addMembership(org, domain.PermissionMember, domain.MembershipInactive)
	s.engage(registered, season, domain.SeasonRegistered)
	seasonActive := s.addMembership(org, domain.PermissionManager, domain.MembershipInactive)
	s.engage(seasonActive, season, domain.SeasonActive)
	seasonInactive := s.addMembership(org, domain.PermissionMember, domain.MembershipActive)
	s.engage(seasonInactive, season, domain.SeasonInactive)
	unregistered := s.addMembership(org, domain.PermissionMember, domain.MembershipActive)

	_, err := newReconciler(s).Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.MembershipActive, s.statusOf(registered.ID))
	assert.Equal(t, domain.MembershipActive, s.statusOf(seasonActive.ID))
	assert.Equal(t, domain.MembershipInactive, s.statusOf(seasonInactive.ID))
	assert.Equal(t, domain.MembershipInactive, s.statusOf(unregistered.ID))
}

func TestReconcileIsolatesRowFaults(t *testing.T) {
	s := newStoreState()
	orgA := s.addOrg("Org A")
	s.addSeason(orgA, "A Spring", true)
	broken := s.addMembership(orgA, domain.PermissionMember, domain.MembershipActive)
	s.failUpdate[broken.ID] = true

	orgB := s.addOrg("Org B")
	seasonB := s.addSeason(orgB, "B Spring", true)
	fine := s.addMembership(orgB, domain.PermissionMember, domain.MembershipInactive)
	s.engage(fine, seasonB, domain.SeasonRegistered)

	summary, err := newReconciler(s).Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.OrganizationsProcessed)
	assert.Equal(t, 1, summary.MembershipsUpdated)
	assert.Equal(t, domain.MembershipActive, s.statusOf(broken.ID), "failed write leaves row untouched")
	assert.Equal(t, domain.MembershipActive, s.statusOf(fine.ID))
}

func TestReconcileIsolatesOrgFaults(t *testing.T) {
	s := newStoreState()
	orgA := s.addOrg("Org A")
	s.addSeason(orgA, "A Spring", true)
	s.failListMemberships[orgA.ID] = true

	orgB := s.addOrg("Org B")
	s.addSeason(orgB, "B Spring", true)
	stale := s.addMembership(orgB, domain.PermissionMember, domain.MembershipActive)

	summary, err := newReconciler(s).Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.OrganizationsProcessed)
	assert.Equal(t, 1, summary.MembershipsUpdated)
	assert.Equal(t, domain.MembershipInactive, s.statusOf(stale.ID))
}

func TestReconcileToleratesDuplicateActiveSeasons(t *testing.T) {
	s := newStoreState()
	org := s.addOrg("Messy Org")
	first := s.addSeason(org, "First", true)
	second := s.addSeason(org, "Second", true)

	m := s.addMembership(org, domain.PermissionMember, domain.MembershipInactive)
	s.engage(m, first, domain.SeasonRegistered)
	// Engagement only with the second season must not count: the engine
	// evaluates against the first resolved season.
	other := s.addMembership(org, domain.PermissionMember, domain.MembershipActive)
	s.engage(other, second, domain.SeasonRegistered)

	summary, err := newReconciler(s).Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.OrganizationsProcessed)
	assert.Equal(t, domain.MembershipActive, s.statusOf(m.ID))
	assert.Equal(t, domain.MembershipInactive, s.statusOf(other.ID))
}

func TestReconcileLostRaceNotCounted(t *testing.T) {
	s := newStoreState()
	org := s.addOrg("Racy Org")
	s.addSeason(org, "2026 Spring", true)
	m := s.addMembership(org, domain.PermissionMember, domain.MembershipActive)
	s.refuseUpdate[m.ID] = true

	summary, err := newReconciler(s).Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.MembershipsUpdated)
}

func TestReconcileSystemicFaultPropagates(t *testing.T) {
	s := newStoreState()
	s.failListOrgs = true

	_, err := newReconciler(s).Reconcile(context.Background())
	require.Error(t, err)
}
