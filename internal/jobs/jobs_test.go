package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentormatch-backend/internal/config"
	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/repository/docstore"
	"mentormatch-backend/internal/service"
	"mentormatch-backend/internal/store"
)

// Collection names mirror the docstore repositories; the maintenance jobs
// read and repair documents other code paths wrote, so the fixtures seed
// raw documents instead of going through the service layer.
const (
	studentsCollection               = "students"
	supervisorsCollection            = "supervisors"
	applicationsCollection           = "applications"
	studentPartnershipsCollection    = "studentPartnershipRequests"
	supervisorPartnershipsCollection = "supervisorPartnershipRequests"
)

type jobFixture struct {
	store *store.MemoryStore
	repos *docstore.Store
}

func newJobFixture(t *testing.T) *jobFixture {
	t.Helper()
	s := store.NewMemoryStore()
	return &jobFixture{store: s, repos: docstore.NewStore(s)}
}

func (f *jobFixture) runner(emailSvc service.EmailService) *JobRunner {
	cfg := &config.Config{}
	cfg.Partnership.StaleRequestDays = 14
	cfg.Partnership.ReminderPendingDays = 7
	return NewJobRunner(f.store, f.repos, emailSvc, cfg)
}

func daysAgo(n int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -n)
}

func seedStudentDoc(t *testing.T, f *jobFixture, id string, status domain.PartnershipStatus, partnerID string) {
	t.Helper()
	err := f.store.Set(context.Background(), studentsCollection, id, &domain.Student{
		Email:             id + "@uni.edu",
		Name:              id,
		PartnershipStatus: status,
		PartnerID:         partnerID,
		MatchStatus:       domain.MatchStatusUnmatched,
		CreatedOn:         daysAgo(30),
		UpdatedOn:         daysAgo(30),
	})
	require.NoError(t, err)
}

func seedSupervisorDoc(t *testing.T, f *jobFixture, id string, current, max int, label domain.AvailabilityStatus) {
	t.Helper()
	err := f.store.Set(context.Background(), supervisorsCollection, id, &domain.Supervisor{
		Email:              id + "@uni.edu",
		Name:               id,
		MaxCapacity:        max,
		CurrentCapacity:    current,
		AvailabilityStatus: label,
		CreatedOn:          daysAgo(30),
		UpdatedOn:          daysAgo(30),
	})
	require.NoError(t, err)
}

func seedStudentRequest(t *testing.T, f *jobFixture, id string, status domain.PartnershipRequestStatus, age int, requesterID, targetID string) {
	t.Helper()
	err := f.store.Set(context.Background(), studentPartnershipsCollection, id, &domain.StudentPartnershipRequest{
		RequesterID: requesterID,
		TargetID:    targetID,
		Status:      status,
		CreatedOn:   daysAgo(age),
	})
	require.NoError(t, err)
}

func seedCoSupRequest(t *testing.T, f *jobFixture, id string, status domain.PartnershipRequestStatus, age int) {
	t.Helper()
	err := f.store.Set(context.Background(), supervisorPartnershipsCollection, id, &domain.SupervisorPartnershipRequest{
		ProjectID:   "proj-1",
		RequesterID: "sup-1",
		TargetID:    "sup-2",
		Status:      status,
		CreatedOn:   daysAgo(age),
	})
	require.NoError(t, err)
}

func seedApplicationDoc(t *testing.T, f *jobFixture, id string, supervisorID string, status domain.ApplicationStatus, age int) {
	t.Helper()
	err := f.store.Set(context.Background(), applicationsCollection, id, &domain.Application{
		StudentID:    "stu-" + id,
		SupervisorID: supervisorID,
		Title:        "Project " + id,
		Status:       status,
		CreatedOn:    daysAgo(age),
		UpdatedOn:    daysAgo(age),
	})
	require.NoError(t, err)
}

func TestExpireStalePartnershipRequests(t *testing.T) {
	ctx := context.Background()

	t.Run("CancelsRequestsPastTheWindow", func(t *testing.T) {
		f := newJobFixture(t)
		seedStudentRequest(t, f, "stale", domain.PartnershipRequestStatusPending, 30, "alice", "bob")
		seedStudentRequest(t, f, "fresh", domain.PartnershipRequestStatusPending, 2, "carol", "dave")
		seedCoSupRequest(t, f, "co-stale", domain.PartnershipRequestStatusPending, 30)

		f.runner(nil).ExpireStalePartnershipRequests()

		stale, err := f.repos.StudentPartnershipRequestRepository.GetByID(ctx, "stale")
		require.NoError(t, err)
		assert.Equal(t, domain.PartnershipRequestStatusCancelled, stale.Status)
		require.NotNil(t, stale.RespondedOn)

		fresh, err := f.repos.StudentPartnershipRequestRepository.GetByID(ctx, "fresh")
		require.NoError(t, err)
		assert.Equal(t, domain.PartnershipRequestStatusPending, fresh.Status)

		coStale, err := f.repos.SupervisorPartnershipRequestRepository.GetByID(ctx, "co-stale")
		require.NoError(t, err)
		assert.Equal(t, domain.PartnershipRequestStatusCancelled, coStale.Status)
	})

	t.Run("SettledRequestsAreLeftAlone", func(t *testing.T) {
		f := newJobFixture(t)
		seedStudentRequest(t, f, "accepted", domain.PartnershipRequestStatusAccepted, 60, "alice", "bob")
		seedStudentRequest(t, f, "rejected", domain.PartnershipRequestStatusRejected, 60, "carol", "dave")

		f.runner(nil).ExpireStalePartnershipRequests()

		accepted, err := f.repos.StudentPartnershipRequestRepository.GetByID(ctx, "accepted")
		require.NoError(t, err)
		assert.Equal(t, domain.PartnershipRequestStatusAccepted, accepted.Status)

		rejected, err := f.repos.StudentPartnershipRequestRepository.GetByID(ctx, "rejected")
		require.NoError(t, err)
		assert.Equal(t, domain.PartnershipRequestStatusRejected, rejected.Status)
	})
}

func TestReconcilePartnershipState(t *testing.T) {
	ctx := context.Background()

	t.Run("UnpairsStudentWhosePartnerMovedOn", func(t *testing.T) {
		f := newJobFixture(t)
		seedStudentDoc(t, f, "alice", domain.PartnershipStatusPaired, "bob")
		seedStudentDoc(t, f, "bob", domain.PartnershipStatusPaired, "carol")
		seedStudentDoc(t, f, "carol", domain.PartnershipStatusPaired, "bob")

		f.runner(nil).ReconcilePartnershipState()

		alice, err := f.repos.StudentRepository.GetByID(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, domain.PartnershipStatusNone, alice.PartnershipStatus)
		assert.Empty(t, alice.PartnerID)

		bob, err := f.repos.StudentRepository.GetByID(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, domain.PartnershipStatusPaired, bob.PartnershipStatus)
		assert.Equal(t, "carol", bob.PartnerID)
	})

	t.Run("ClearsPairingWithMissingPartner", func(t *testing.T) {
		f := newJobFixture(t)
		seedStudentDoc(t, f, "alice", domain.PartnershipStatusPaired, "ghost")

		f.runner(nil).ReconcilePartnershipState()

		alice, err := f.repos.StudentRepository.GetByID(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, domain.PartnershipStatusNone, alice.PartnershipStatus)
		assert.Empty(t, alice.PartnerID)
	})

	t.Run("ClearsPairingWithEmptyPartnerID", func(t *testing.T) {
		f := newJobFixture(t)
		seedStudentDoc(t, f, "alice", domain.PartnershipStatusPaired, "")

		f.runner(nil).ReconcilePartnershipState()

		alice, err := f.repos.StudentRepository.GetByID(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, domain.PartnershipStatusNone, alice.PartnershipStatus)
	})

	t.Run("RecomputesPendingLabels", func(t *testing.T) {
		f := newJobFixture(t)
		seedStudentDoc(t, f, "alice", domain.PartnershipStatusNone, "")
		seedStudentDoc(t, f, "bob", domain.PartnershipStatusNone, "")
		seedStudentDoc(t, f, "carol", domain.PartnershipStatusPendingReceived, "")
		seedStudentRequest(t, f, "req-1", domain.PartnershipRequestStatusPending, 1, "alice", "bob")

		f.runner(nil).ReconcilePartnershipState()

		alice, err := f.repos.StudentRepository.GetByID(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, domain.PartnershipStatusPendingSent, alice.PartnershipStatus)

		bob, err := f.repos.StudentRepository.GetByID(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, domain.PartnershipStatusPendingReceived, bob.PartnershipStatus)

		carol, err := f.repos.StudentRepository.GetByID(ctx, "carol")
		require.NoError(t, err)
		assert.Equal(t, domain.PartnershipStatusNone, carol.PartnershipStatus)
	})
}

func TestRecomputeSupervisorAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("FixesDriftedLabels", func(t *testing.T) {
		f := newJobFixture(t)
		seedSupervisorDoc(t, f, "full-but-available", 3, 3, domain.AvailabilityStatusAvailable)
		seedSupervisorDoc(t, f, "open-but-full", 0, 5, domain.AvailabilityStatusFull)
		seedSupervisorDoc(t, f, "consistent", 4, 5, domain.AvailabilityStatusLimited)

		f.runner(nil).RecomputeSupervisorAvailability()

		sup, err := f.repos.SupervisorRepository.GetByID(ctx, "full-but-available")
		require.NoError(t, err)
		assert.Equal(t, domain.AvailabilityStatusFull, sup.AvailabilityStatus)

		sup, err = f.repos.SupervisorRepository.GetByID(ctx, "open-but-full")
		require.NoError(t, err)
		assert.Equal(t, domain.AvailabilityStatusAvailable, sup.AvailabilityStatus)

		sup, err = f.repos.SupervisorRepository.GetByID(ctx, "consistent")
		require.NoError(t, err)
		assert.Equal(t, domain.AvailabilityStatusLimited, sup.AvailabilityStatus)
		assert.Equal(t, 4, sup.CurrentCapacity)
	})
}

type reminderCall struct {
	email string
	name  string
	count int
}

// recordingEmail captures reminder sends and accepts everything else.
type recordingEmail struct {
	reminders []reminderCall
}

func (r *recordingEmail) SendApplicationSubmitted(ctx context.Context, supervisorEmail, supervisorName, studentName, title string) error {
	return nil
}

func (r *recordingEmail) SendApplicationDecision(ctx context.Context, studentEmail, studentName, title string, status domain.ApplicationStatus, feedback string) error {
	return nil
}

func (r *recordingEmail) SendPartnershipRequest(ctx context.Context, targetEmail, targetName, requesterName string) error {
	return nil
}

func (r *recordingEmail) SendPartnershipResponse(ctx context.Context, requesterEmail, requesterName, targetName string, accepted bool) error {
	return nil
}

func (r *recordingEmail) SendPendingApplicationReminder(ctx context.Context, supervisorEmail, supervisorName string, pendingCount int) error {
	r.reminders = append(r.reminders, reminderCall{email: supervisorEmail, name: supervisorName, count: pendingCount})
	return nil
}

func TestSendPendingApplicationReminders(t *testing.T) {
	t.Run("GroupsAgingApplicationsBySupervisor", func(t *testing.T) {
		f := newJobFixture(t)
		seedSupervisorDoc(t, f, "sup-1", 0, 5, domain.AvailabilityStatusAvailable)
		seedApplicationDoc(t, f, "app-1", "sup-1", domain.ApplicationStatusPending, 10)
		seedApplicationDoc(t, f, "app-2", "sup-1", domain.ApplicationStatusPending, 20)
		seedApplicationDoc(t, f, "app-3", "sup-1", domain.ApplicationStatusPending, 1)
		seedApplicationDoc(t, f, "app-4", "sup-1", domain.ApplicationStatusApproved, 30)

		email := &recordingEmail{}
		f.runner(email).SendPendingApplicationReminders()

		require.Len(t, email.reminders, 1)
		assert.Equal(t, "sup-1@uni.edu", email.reminders[0].email)
		assert.Equal(t, 2, email.reminders[0].count)
	})

	t.Run("SkipsWhenEmailUnconfigured", func(t *testing.T) {
		f := newJobFixture(t)
		seedSupervisorDoc(t, f, "sup-1", 0, 5, domain.AvailabilityStatusAvailable)
		seedApplicationDoc(t, f, "app-1", "sup-1", domain.ApplicationStatusPending, 10)

		f.runner(nil).SendPendingApplicationReminders()
	})
}
