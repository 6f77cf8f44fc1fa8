package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentormatch-backend/internal/domain"
)

func TestStudentProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("AnyRoleMayRead", func(t *testing.T) {
		f := newFixture(t)
		alice := f.seedStudent(t, "Alice")
		sup := f.seedSupervisor(t, "DrSmith", 3)

		for _, actor := range []domain.Actor{studentActor(alice.ID), supervisorActor(sup.ID), adminActor()} {
			st, err := f.students.GetProfile(ctx, actor, alice.ID)
			require.NoError(t, err)
			assert.Equal(t, alice.Email, st.Email)
		}
	})

	t.Run("MissingStudent", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.students.GetProfile(ctx, adminActor(), "missing")
		requireKind(t, err, domain.KindNotFound)
	})

	t.Run("OwnerUpdatesProfile", func(t *testing.T) {
		f := newFixture(t)
		alice := f.seedStudent(t, "Alice")

		updated, err := f.students.UpdateProfile(ctx, studentActor(alice.ID), UpdateStudentProfileInput{
			Name:          "Alice Zhang",
			StudentNumber: "s123456",
			Program:       "Data Science",
		})
		require.NoError(t, err)
		assert.Equal(t, "Alice Zhang", updated.Name)

		got := f.getStudent(t, alice.ID)
		assert.Equal(t, "s123456", got.StudentNumber)
		assert.Equal(t, "Data Science", got.Program)
	})

	t.Run("NameRequired", func(t *testing.T) {
		f := newFixture(t)
		alice := f.seedStudent(t, "Alice")

		_, err := f.students.UpdateProfile(ctx, studentActor(alice.ID), UpdateStudentProfileInput{Name: "  "})
		requireKind(t, err, domain.KindValidation)
	})

	t.Run("NonStudentsCannotUpdate", func(t *testing.T) {
		f := newFixture(t)
		sup := f.seedSupervisor(t, "DrSmith", 3)

		_, err := f.students.UpdateProfile(ctx, supervisorActor(sup.ID), UpdateStudentProfileInput{Name: "X"})
		requireKind(t, err, domain.KindForbidden)
	})
}

func TestStudentList(t *testing.T) {
	ctx := context.Background()

	t.Run("AdminOnly", func(t *testing.T) {
		f := newFixture(t)
		f.seedStudent(t, "Alice")
		f.seedStudent(t, "Bob")

		students, err := f.students.List(ctx, adminActor())
		require.NoError(t, err)
		assert.Len(t, students, 2)

		_, err = f.students.List(ctx, studentActor("anyone"))
		requireKind(t, err, domain.KindForbidden)
	})

	t.Run("AvailablePartnersExcludeSelfAndPaired", func(t *testing.T) {
		f := newFixture(t)
		alice := f.seedStudent(t, "Alice")
		bob := f.seedStudent(t, "Bob")
		carol := f.seedStudent(t, "Carol")
		dave := f.seedStudent(t, "Dave")
		f.pairStudents(t, carol, dave)

		candidates, err := f.students.ListAvailablePartners(ctx, studentActor(alice.ID))
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, bob.ID, candidates[0].ID)
	})
}

func TestProjectAccess(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	alice := f.seedStudent(t, "Alice")
	mallory := f.seedStudent(t, "Mallory")
	owner := f.seedSupervisor(t, "DrSmith", 3)
	coSup := f.seedSupervisor(t, "DrJones", 3)
	outsider := f.seedSupervisor(t, "DrBrown", 3)
	project := seedProject(t, f, owner.ID, alice.ID)

	req, err := f.coSupervision.Request(ctx, project.ID, owner.ID, coSup.ID, "")
	require.NoError(t, err)
	_, err = f.coSupervision.Respond(ctx, coSup.ID, req.ID, true)
	require.NoError(t, err)

	t.Run("ParticipantsMayRead", func(t *testing.T) {
		for _, actor := range []domain.Actor{
			studentActor(alice.ID),
			supervisorActor(owner.ID),
			supervisorActor(coSup.ID),
			adminActor(),
		} {
			got, err := f.projects.Get(ctx, actor, project.ID)
			require.NoError(t, err)
			assert.Equal(t, project.ID, got.ID)
		}
	})

	t.Run("OthersForbidden", func(t *testing.T) {
		for _, actor := range []domain.Actor{studentActor(mallory.ID), supervisorActor(outsider.ID)} {
			_, err := f.projects.Get(ctx, actor, project.ID)
			requireKind(t, err, domain.KindForbidden)
		}
	})

	t.Run("ListForActor", func(t *testing.T) {
		projects, err := f.projects.ListForActor(ctx, studentActor(alice.ID))
		require.NoError(t, err)
		assert.Len(t, projects, 1)

		projects, err = f.projects.ListForActor(ctx, supervisorActor(coSup.ID))
		require.NoError(t, err)
		assert.Len(t, projects, 1)

		projects, err = f.projects.ListForActor(ctx, supervisorActor(outsider.ID))
		require.NoError(t, err)
		assert.Empty(t, projects)
	})
}
