package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/metrics"
	"mentormatch-backend/internal/repository"
	"mentormatch-backend/internal/store"
)

type supervisorPartnershipService struct {
	store       store.Store
	supervisors repository.SupervisorRepository
	projects    repository.ProjectRepository
	requests    repository.SupervisorPartnershipRequestRepository
	auditor     *Auditor
	emailSvc    EmailService
	noteRepo    repository.NotificationRepository
}

func NewSupervisorPartnershipService(
	st store.Store,
	supervisors repository.SupervisorRepository,
	projects repository.ProjectRepository,
	requests repository.SupervisorPartnershipRequestRepository,
	auditor *Auditor,
	emailSvc EmailService,
	noteRepo repository.NotificationRepository,
) SupervisorPartnershipService {
	return &supervisorPartnershipService{
		store:       st,
		supervisors: supervisors,
		projects:    projects,
		requests:    requests,
		auditor:     auditor,
		emailSvc:    emailSvc,
		noteRepo:    noteRepo,
	}
}

func (s *supervisorPartnershipService) Request(ctx context.Context, projectID, requesterID, targetID, message string) (*domain.SupervisorPartnershipRequest, error) {
	if requesterID == targetID {
		return nil, domain.Validationf("cannot send a co-supervision request to yourself")
	}
	if projectID == "" {
		return nil, domain.Validationf("projectId is required")
	}

	var (
		req    *domain.SupervisorPartnershipRequest
		target *domain.Supervisor
	)
	err := s.store.RunTransaction(ctx, func(tx store.Tx) error {
		project, err := s.txGetProject(tx, projectID)
		if err != nil {
			return err
		}
		if project.SupervisorID != requesterID {
			return domain.Forbiddenf("only the project's supervisor can invite a co-supervisor")
		}
		if project.CoSupervisorID != "" {
			return domain.Conflictf("project already has a co-supervisor")
		}

		requester, err := s.txGetSupervisor(tx, requesterID)
		if err != nil {
			return err
		}
		target, err = s.txGetSupervisor(tx, targetID)
		if err != nil {
			return err
		}

		dup, err := s.requests.TxFindPending(tx, projectID, requesterID, targetID)
		if err != nil {
			return domain.Internalf(err, "failed to check pending requests")
		}
		if dup != nil {
			return domain.Conflictf("a pending co-supervision request to this supervisor already exists for this project")
		}
		reciprocal, err := s.requests.TxFindPending(tx, projectID, targetID, requesterID)
		if err != nil {
			return domain.Internalf(err, "failed to check pending requests")
		}
		if reciprocal != nil {
			return domain.Conflictf("%s has already sent a request for this project; respond to that one instead", target.Name)
		}

		req = &domain.SupervisorPartnershipRequest{
			ID:            uuid.NewString(),
			ProjectID:     projectID,
			RequesterID:   requesterID,
			TargetID:      targetID,
			RequesterName: requester.Name,
			TargetName:    target.Name,
			Message:       message,
			Status:        domain.PartnershipRequestStatusPending,
		}
		if err := s.requests.TxCreate(tx, req); err != nil {
			return domain.Internalf(err, "failed to create co-supervision request")
		}
		return nil
	})
	if err != nil {
		return nil, asDomainError(err, "co-supervision request failed")
	}

	metrics.PartnershipRequests.Inc()
	actor := domain.Actor{ID: requesterID, Role: domain.RoleSupervisor}
	s.auditor.Record(ctx, actor, domain.AuditCoSupervisionRequested, "coSupervisionRequest", req.ID, projectID)

	if s.emailSvc != nil {
		_ = s.emailSvc.SendPartnershipRequest(ctx, target.Email, target.Name, req.RequesterName)
	}
	s.notify(ctx, targetID, "Co-Supervision Request",
		fmt.Sprintf("%s invited you to co-supervise a project", req.RequesterName),
		map[string]string{"type": "COSUPERVISION_REQUEST", "requestId": req.ID, "projectId": projectID})

	return req, nil
}

func (s *supervisorPartnershipService) Respond(ctx context.Context, responderID, requestID string, accept bool) (*domain.SupervisorPartnershipRequest, error) {
	var (
		req       *domain.SupervisorPartnershipRequest
		requester *domain.Supervisor
	)
	err := s.store.RunTransaction(ctx, func(tx store.Tx) error {
		var err error
		req, err = s.requests.TxGet(tx, requestID)
		if err != nil {
			if store.IsNotFound(err) {
				return domain.NotFoundf("co-supervision request not found")
			}
			return domain.Internalf(err, "failed to read co-supervision request")
		}
		if req.TargetID != responderID {
			return domain.NotFoundf("co-supervision request not found")
		}
		if req.Status != domain.PartnershipRequestStatusPending {
			return domain.Conflictf("co-supervision request has already been processed")
		}

		requester, err = s.txGetSupervisor(tx, req.RequesterID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if !accept {
			if err := s.requests.TxSetStatus(tx, req.ID, domain.PartnershipRequestStatusRejected, now); err != nil {
				return domain.Internalf(err, "failed to update co-supervision request")
			}
			req.Status = domain.PartnershipRequestStatusRejected
			req.RespondedOn = &now
			return nil
		}

		project, err := s.txGetProject(tx, req.ProjectID)
		if err != nil {
			return err
		}
		// Races against a concurrent acceptance on the same project.
		if project.CoSupervisorID != "" {
			return domain.Conflictf("project already has a co-supervisor")
		}
		others, err := s.requests.TxListPendingForProject(tx, req.ProjectID)
		if err != nil {
			return domain.Internalf(err, "failed to list pending requests")
		}

		if err := s.requests.TxSetStatus(tx, req.ID, domain.PartnershipRequestStatusAccepted, now); err != nil {
			return domain.Internalf(err, "failed to update co-supervision request")
		}
		if err := s.projects.TxSetCoSupervisor(tx, req.ProjectID, responderID); err != nil {
			return domain.Internalf(err, "failed to assign co-supervisor")
		}
		// The slot is taken; remaining pending requests for the project are
		// superseded.
		for _, other := range others {
			if other.ID == req.ID {
				continue
			}
			if err := s.requests.TxSetStatus(tx, other.ID, domain.PartnershipRequestStatusCancelled, now); err != nil {
				return domain.Internalf(err, "failed to cancel superseded request")
			}
		}
		req.Status = domain.PartnershipRequestStatusAccepted
		req.RespondedOn = &now
		return nil
	})
	if err != nil {
		return nil, asDomainError(err, "co-supervision response failed")
	}

	actor := domain.Actor{ID: responderID, Role: domain.RoleSupervisor}
	s.auditor.Record(ctx, actor, domain.AuditCoSupervisionResponded, "coSupervisionRequest", req.ID, string(req.Status))
	if accept {
		metrics.PartnershipsFormed.Inc()
	}

	if s.emailSvc != nil {
		_ = s.emailSvc.SendPartnershipResponse(ctx, requester.Email, requester.Name, req.TargetName, accept)
	}
	s.notify(ctx, req.RequesterID, "Co-Supervision Response",
		fmt.Sprintf("%s %s your co-supervision request", req.TargetName, respondedWord(accept)),
		map[string]string{"type": "COSUPERVISION_RESPONSE", "requestId": req.ID, "status": string(req.Status)})

	return req, nil
}

func (s *supervisorPartnershipService) Cancel(ctx context.Context, requesterID, requestID string) error {
	err := s.store.RunTransaction(ctx, func(tx store.Tx) error {
		req, err := s.requests.TxGet(tx, requestID)
		if err != nil {
			if store.IsNotFound(err) {
				return domain.NotFoundf("co-supervision request not found")
			}
			return domain.Internalf(err, "failed to read co-supervision request")
		}
		if req.RequesterID != requesterID {
			return domain.NotFoundf("co-supervision request not found")
		}
		if req.Status != domain.PartnershipRequestStatusPending {
			return domain.Conflictf("only pending requests can be cancelled")
		}
		if err := s.requests.TxSetStatus(tx, req.ID, domain.PartnershipRequestStatusCancelled, time.Now().UTC()); err != nil {
			return domain.Internalf(err, "failed to cancel co-supervision request")
		}
		return nil
	})
	if err != nil {
		return asDomainError(err, "co-supervision cancellation failed")
	}

	actor := domain.Actor{ID: requesterID, Role: domain.RoleSupervisor}
	s.auditor.Record(ctx, actor, domain.AuditCoSupervisionCancelled, "coSupervisionRequest", requestID, "")
	return nil
}

// RemoveCoSupervisor clears the project's co-supervisor slot. Both
// supervisors on the project (and admins) may do so; it is idempotent when
// the slot is already empty.
func (s *supervisorPartnershipService) RemoveCoSupervisor(ctx context.Context, actor domain.Actor, projectID string) error {
	err := s.store.RunTransaction(ctx, func(tx store.Tx) error {
		project, err := s.txGetProject(tx, projectID)
		if err != nil {
			return err
		}
		switch actor.Role {
		case domain.RoleSupervisor:
			if actor.ID != project.SupervisorID && actor.ID != project.CoSupervisorID {
				return domain.Forbiddenf("not allowed to modify this project")
			}
		case domain.RoleAdmin:
		case domain.RoleStudent:
			return domain.Forbiddenf("not allowed to modify this project")
		default:
			return domain.Forbiddenf("not allowed to modify this project")
		}
		if project.CoSupervisorID == "" {
			return nil
		}
		if err := s.projects.TxSetCoSupervisor(tx, projectID, ""); err != nil {
			return domain.Internalf(err, "failed to remove co-supervisor")
		}
		return nil
	})
	if err != nil {
		return asDomainError(err, "co-supervisor removal failed")
	}

	s.auditor.Record(ctx, actor, domain.AuditCoSupervisionRemoved, "project", projectID, "")
	return nil
}

func (s *supervisorPartnershipService) ListForSupervisor(ctx context.Context, supervisorID string) ([]domain.SupervisorPartnershipRequest, error) {
	reqs, err := s.requests.ListInvolving(ctx, supervisorID)
	if err != nil {
		return nil, domain.Internalf(err, "failed to list co-supervision requests")
	}
	return reqs, nil
}

func (s *supervisorPartnershipService) txGetSupervisor(tx store.Tx, id string) (*domain.Supervisor, error) {
	sup, err := s.supervisors.TxGet(tx, id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domain.NotFoundf("supervisor not found")
		}
		return nil, domain.Internalf(err, "failed to read supervisor")
	}
	return sup, nil
}

func (s *supervisorPartnershipService) txGetProject(tx store.Tx, id string) (*domain.Project, error) {
	project, err := s.projects.TxGet(tx, id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domain.NotFoundf("project not found")
		}
		return nil, domain.Internalf(err, "failed to read project")
	}
	return project, nil
}

func (s *supervisorPartnershipService) notify(ctx context.Context, userID, title, message string, attrs map[string]string) {
	if s.noteRepo == nil {
		return
	}
	_ = s.noteRepo.Create(ctx, &domain.Notification{
		UserID:     userID,
		Role:       domain.RoleSupervisor,
		Title:      title,
		Message:    message,
		Attributes: attrs,
	})
}
