package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/store"
)

func seedProject(t *testing.T, f *fixture, supervisorID string, studentIDs ...string) *domain.Project {
	t.Helper()
	project := &domain.Project{
		Title:        "Capstone",
		SupervisorID: supervisorID,
		StudentIDs:   studentIDs,
		Status:       domain.ProjectStatusActive,
	}
	err := f.store.RunTransaction(context.Background(), func(tx store.Tx) error {
		return f.repos.ProjectRepository.TxCreate(tx, project)
	})
	require.NoError(t, err)
	return project
}

func TestCoSupervisionRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("ProjectOwnerInvites", func(t *testing.T) {
		f := newFixture(t)
		owner := f.seedSupervisor(t, "DrSmith", 3)
		invitee := f.seedSupervisor(t, "DrJones", 3)
		project := seedProject(t, f, owner.ID)

		req, err := f.coSupervision.Request(ctx, project.ID, owner.ID, invitee.ID, "join me on this one")
		require.NoError(t, err)
		assert.Equal(t, domain.PartnershipRequestStatusPending, req.Status)
		assert.Equal(t, project.ID, req.ProjectID)
		assert.Equal(t, owner.Name, req.RequesterName)
	})

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		f := newFixture(t)
		owner := f.seedSupervisor(t, "DrSmith", 3)
		outsider := f.seedSupervisor(t, "DrJones", 3)
		target := f.seedSupervisor(t, "DrBrown", 3)
		project := seedProject(t, f, owner.ID)

		_, err := f.coSupervision.Request(ctx, project.ID, outsider.ID, target.ID, "")
		requireKind(t, err, domain.KindForbidden)
	})

	t.Run("OccupiedSlotConflicts", func(t *testing.T) {
		f := newFixture(t)
		owner := f.seedSupervisor(t, "DrSmith", 3)
		first := f.seedSupervisor(t, "DrJones", 3)
		second := f.seedSupervisor(t, "DrBrown", 3)
		project := seedProject(t, f, owner.ID)

		req, err := f.coSupervision.Request(ctx, project.ID, owner.ID, first.ID, "")
		require.NoError(t, err)
		_, err = f.coSupervision.Respond(ctx, first.ID, req.ID, true)
		require.NoError(t, err)

		_, err = f.coSupervision.Request(ctx, project.ID, owner.ID, second.ID, "")
		requireKind(t, err, domain.KindConflict)
	})

	t.Run("DuplicatePerProjectConflicts", func(t *testing.T) {
		f := newFixture(t)
		owner := f.seedSupervisor(t, "DrSmith", 3)
		invitee := f.seedSupervisor(t, "DrJones", 3)
		projectA := seedProject(t, f, owner.ID)
		projectB := seedProject(t, f, owner.ID)

		_, err := f.coSupervision.Request(ctx, projectA.ID, owner.ID, invitee.ID, "")
		require.NoError(t, err)
		_, err = f.coSupervision.Request(ctx, projectA.ID, owner.ID, invitee.ID, "")
		requireKind(t, err, domain.KindConflict)

		// The same pair may negotiate independently on another project.
		_, err = f.coSupervision.Request(ctx, projectB.ID, owner.ID, invitee.ID, "")
		require.NoError(t, err)
	})

	t.Run("SelfInviteRejected", func(t *testing.T) {
		f := newFixture(t)
		owner := f.seedSupervisor(t, "DrSmith", 3)
		project := seedProject(t, f, owner.ID)

		_, err := f.coSupervision.Request(ctx, project.ID, owner.ID, owner.ID, "")
		requireKind(t, err, domain.KindValidation)
	})
}

func TestCoSupervisionRespond(t *testing.T) {
	ctx := context.Background()

	t.Run("AcceptAssignsCoSupervisor", func(t *testing.T) {
		f := newFixture(t)
		owner := f.seedSupervisor(t, "DrSmith", 3)
		invitee := f.seedSupervisor(t, "DrJones", 3)
		project := seedProject(t, f, owner.ID)

		req, err := f.coSupervision.Request(ctx, project.ID, owner.ID, invitee.ID, "")
		require.NoError(t, err)
		accepted, err := f.coSupervision.Respond(ctx, invitee.ID, req.ID, true)
		require.NoError(t, err)
		assert.Equal(t, domain.PartnershipRequestStatusAccepted, accepted.Status)

		got, err := f.repos.ProjectRepository.GetByID(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, invitee.ID, got.CoSupervisorID)
	})

	t.Run("AcceptCancelsOtherProjectInvites", func(t *testing.T) {
		f := newFixture(t)
		owner := f.seedSupervisor(t, "DrSmith", 3)
		first := f.seedSupervisor(t, "DrJones", 3)
		second := f.seedSupervisor(t, "DrBrown", 3)
		project := seedProject(t, f, owner.ID)

		toFirst, err := f.coSupervision.Request(ctx, project.ID, owner.ID, first.ID, "")
		require.NoError(t, err)
		toSecond, err := f.coSupervision.Request(ctx, project.ID, owner.ID, second.ID, "")
		require.NoError(t, err)

		_, err = f.coSupervision.Respond(ctx, first.ID, toFirst.ID, true)
		require.NoError(t, err)

		got, err := f.repos.SupervisorPartnershipRequestRepository.GetByID(ctx, toSecond.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.PartnershipRequestStatusCancelled, got.Status)

		_, err = f.coSupervision.Respond(ctx, second.ID, toSecond.ID, true)
		requireKind(t, err, domain.KindConflict)
	})

	t.Run("RejectLeavesSlotEmpty", func(t *testing.T) {
		f := newFixture(t)
		owner := f.seedSupervisor(t, "DrSmith", 3)
		invitee := f.seedSupervisor(t, "DrJones", 3)
		project := seedProject(t, f, owner.ID)

		req, err := f.coSupervision.Request(ctx, project.ID, owner.ID, invitee.ID, "")
		require.NoError(t, err)
		rejected, err := f.coSupervision.Respond(ctx, invitee.ID, req.ID, false)
		require.NoError(t, err)
		assert.Equal(t, domain.PartnershipRequestStatusRejected, rejected.Status)

		got, err := f.repos.ProjectRepository.GetByID(ctx, project.ID)
		require.NoError(t, err)
		assert.Empty(t, got.CoSupervisorID)
	})

	t.Run("OnlyTargetMayRespond", func(t *testing.T) {
		f := newFixture(t)
		owner := f.seedSupervisor(t, "DrSmith", 3)
		invitee := f.seedSupervisor(t, "DrJones", 3)
		project := seedProject(t, f, owner.ID)

		req, err := f.coSupervision.Request(ctx, project.ID, owner.ID, invitee.ID, "")
		require.NoError(t, err)
		_, err = f.coSupervision.Respond(ctx, owner.ID, req.ID, true)
		requireKind(t, err, domain.KindNotFound)
	})
}

func TestCoSupervisionCancel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.seedSupervisor(t, "DrSmith", 3)
	invitee := f.seedSupervisor(t, "DrJones", 3)
	project := seedProject(t, f, owner.ID)

	req, err := f.coSupervision.Request(ctx, project.ID, owner.ID, invitee.ID, "")
	require.NoError(t, err)

	t.Run("OnlyRequesterMayCancel", func(t *testing.T) {
		err := f.coSupervision.Cancel(ctx, invitee.ID, req.ID)
		requireKind(t, err, domain.KindNotFound)
	})

	t.Run("RequesterCancels", func(t *testing.T) {
		require.NoError(t, f.coSupervision.Cancel(ctx, owner.ID, req.ID))
		got, err := f.repos.SupervisorPartnershipRequestRepository.GetByID(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.PartnershipRequestStatusCancelled, got.Status)
	})

	t.Run("SettledRequestCannotBeCancelled", func(t *testing.T) {
		err := f.coSupervision.Cancel(ctx, owner.ID, req.ID)
		requireKind(t, err, domain.KindConflict)
	})
}

func TestRemoveCoSupervisor(t *testing.T) {
	ctx := context.Background()

	assign := func(t *testing.T, f *fixture, projectID, ownerID, inviteeID string) {
		t.Helper()
		req, err := f.coSupervision.Request(ctx, projectID, ownerID, inviteeID, "")
		require.NoError(t, err)
		_, err = f.coSupervision.Respond(ctx, inviteeID, req.ID, true)
		require.NoError(t, err)
	}

	t.Run("EitherSupervisorMayRemove", func(t *testing.T) {
		for _, byCoSupervisor := range []bool{false, true} {
			f := newFixture(t)
			owner := f.seedSupervisor(t, "DrSmith", 3)
			invitee := f.seedSupervisor(t, "DrJones", 3)
			project := seedProject(t, f, owner.ID)
			assign(t, f, project.ID, owner.ID, invitee.ID)

			actor := supervisorActor(owner.ID)
			if byCoSupervisor {
				actor = supervisorActor(invitee.ID)
			}
			require.NoError(t, f.coSupervision.RemoveCoSupervisor(ctx, actor, project.ID))

			got, err := f.repos.ProjectRepository.GetByID(ctx, project.ID)
			require.NoError(t, err)
			assert.Empty(t, got.CoSupervisorID)
		}
	})

	t.Run("AdminMayRemove", func(t *testing.T) {
		f := newFixture(t)
		owner := f.seedSupervisor(t, "DrSmith", 3)
		invitee := f.seedSupervisor(t, "DrJones", 3)
		project := seedProject(t, f, owner.ID)
		assign(t, f, project.ID, owner.ID, invitee.ID)

		require.NoError(t, f.coSupervision.RemoveCoSupervisor(ctx, adminActor(), project.ID))
	})

	t.Run("UnrelatedSupervisorForbidden", func(t *testing.T) {
		f := newFixture(t)
		owner := f.seedSupervisor(t, "DrSmith", 3)
		invitee := f.seedSupervisor(t, "DrJones", 3)
		outsider := f.seedSupervisor(t, "DrBrown", 3)
		project := seedProject(t, f, owner.ID)
		assign(t, f, project.ID, owner.ID, invitee.ID)

		err := f.coSupervision.RemoveCoSupervisor(ctx, supervisorActor(outsider.ID), project.ID)
		requireKind(t, err, domain.KindForbidden)
	})

	t.Run("EmptySlotIsIdempotent", func(t *testing.T) {
		f := newFixture(t)
		owner := f.seedSupervisor(t, "DrSmith", 3)
		project := seedProject(t, f, owner.ID)

		require.NoError(t, f.coSupervision.RemoveCoSupervisor(ctx, supervisorActor(owner.ID), project.ID))
	})
}
