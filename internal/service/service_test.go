package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/repository/docstore"
	"mentormatch-backend/internal/store"
)

// fixture wires the full service layer over an in-memory store. Audit and
// email are disabled; notifications go to the real document repository.
type fixture struct {
	store *store.MemoryStore
	repos *docstore.Store

	apps          ApplicationService
	partnerships  PartnershipService
	coSupervision SupervisorPartnershipService
	students      StudentService
	supervisors   SupervisorService
	projects      ProjectService
	notifications NotificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mem := store.NewMemoryStore()
	repos := docstore.NewStore(mem)
	auditor := NewAuditor(nil)
	ledger := NewCapacityLedger(repos.SupervisorRepository)

	f := &fixture{store: mem, repos: repos}
	f.apps = NewApplicationService(
		mem,
		repos.ApplicationRepository,
		repos.StudentRepository,
		repos.SupervisorRepository,
		repos.ProjectRepository,
		ledger,
		auditor,
		nil,
		repos.NotificationRepository,
	)
	f.partnerships = NewPartnershipService(
		mem,
		repos.StudentRepository,
		repos.StudentPartnershipRequestRepository,
		auditor,
		nil,
		repos.NotificationRepository,
	)
	f.coSupervision = NewSupervisorPartnershipService(
		mem,
		repos.SupervisorRepository,
		repos.ProjectRepository,
		repos.SupervisorPartnershipRequestRepository,
		auditor,
		nil,
		repos.NotificationRepository,
	)
	f.students = NewStudentService(repos.StudentRepository)
	f.supervisors = NewSupervisorService(mem, repos.SupervisorRepository, auditor)
	f.projects = NewProjectService(repos.ProjectRepository)
	f.notifications = NewNotificationService(repos.NotificationRepository)
	return f
}

func (f *fixture) seedStudent(t *testing.T, name string) *domain.Student {
	t.Helper()
	st := &domain.Student{
		Email:        strings.ToLower(name) + "@uni.edu",
		PasswordHash: "hash",
		Name:         name,
		Program:      "Software Engineering",
	}
	require.NoError(t, f.repos.StudentRepository.Create(context.Background(), st))
	return st
}

func (f *fixture) seedSupervisor(t *testing.T, name string, maxCapacity int) *domain.Supervisor {
	t.Helper()
	sup := &domain.Supervisor{
		Email:        strings.ToLower(name) + "@uni.edu",
		PasswordHash: "hash",
		Name:         name,
		Department:   "Computer Science",
		MaxCapacity:  maxCapacity,
	}
	require.NoError(t, f.repos.SupervisorRepository.Create(context.Background(), sup))
	return sup
}

// pairStudents runs the real request/accept protocol so both sides end up in
// a consistent paired state.
func (f *fixture) pairStudents(t *testing.T, a, b *domain.Student) {
	t.Helper()
	ctx := context.Background()
	req, err := f.partnerships.Request(ctx, a.ID, b.ID, "team up?")
	require.NoError(t, err)
	_, err = f.partnerships.Respond(ctx, b.ID, req.ID, true)
	require.NoError(t, err)
}

func (f *fixture) getStudent(t *testing.T, id string) *domain.Student {
	t.Helper()
	st, err := f.repos.StudentRepository.GetByID(context.Background(), id)
	require.NoError(t, err)
	return st
}

func (f *fixture) getSupervisor(t *testing.T, id string) *domain.Supervisor {
	t.Helper()
	sup, err := f.repos.SupervisorRepository.GetByID(context.Background(), id)
	require.NoError(t, err)
	return sup
}

// setCurrentLoad backfills a supervisor's capacity counter as if earlier
// approvals had happened.
func (f *fixture) setCurrentLoad(t *testing.T, supervisorID string, load int) {
	t.Helper()
	sup := f.getSupervisor(t, supervisorID)
	sup.CurrentCapacity = load
	require.NoError(t, f.repos.SupervisorRepository.Update(context.Background(), sup))
}

func studentActor(id string) domain.Actor {
	return domain.Actor{ID: id, Role: domain.RoleStudent}
}

func supervisorActor(id string) domain.Actor {
	return domain.Actor{ID: id, Role: domain.RoleSupervisor}
}

func adminActor() domain.Actor {
	return domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
}

func requireKind(t *testing.T, err error, kind domain.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, domain.KindOf(err), "unexpected error kind for: %v", err)
}
