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

type partnershipService struct {
	store    store.Store
	students repository.StudentRepository
	requests repository.StudentPartnershipRequestRepository
	auditor  *Auditor
	emailSvc EmailService
	noteRepo repository.NotificationRepository
}

func NewPartnershipService(
	st store.Store,
	students repository.StudentRepository,
	requests repository.StudentPartnershipRequestRepository,
	auditor *Auditor,
	emailSvc EmailService,
	noteRepo repository.NotificationRepository,
) PartnershipService {
	return &partnershipService{
		store:    st,
		students: students,
		requests: requests,
		auditor:  auditor,
		emailSvc: emailSvc,
		noteRepo: noteRepo,
	}
}

func (s *partnershipService) Request(ctx context.Context, requesterID, targetID, message string) (*domain.StudentPartnershipRequest, error) {
	if requesterID == targetID {
		return nil, domain.Validationf("cannot send a partnership request to yourself")
	}

	var (
		req    *domain.StudentPartnershipRequest
		target *domain.Student
	)
	err := s.store.RunTransaction(ctx, func(tx store.Tx) error {
		requester, err := s.txGetStudent(tx, requesterID)
		if err != nil {
			return err
		}
		target, err = s.txGetStudent(tx, targetID)
		if err != nil {
			return err
		}
		if requester.PartnershipStatus == domain.PartnershipStatusPaired {
			return domain.Conflictf("you already have a partner")
		}
		if target.PartnershipStatus == domain.PartnershipStatusPaired {
			return domain.Conflictf("%s already has a partner", target.Name)
		}

		dup, err := s.requests.TxFindPending(tx, requesterID, targetID)
		if err != nil {
			return domain.Internalf(err, "failed to check pending requests")
		}
		if dup != nil {
			return domain.Conflictf("a pending request to this student already exists")
		}
		reciprocal, err := s.requests.TxFindPending(tx, targetID, requesterID)
		if err != nil {
			return domain.Internalf(err, "failed to check pending requests")
		}
		if reciprocal != nil {
			return domain.Conflictf("%s has already sent you a request; respond to that one instead", target.Name)
		}

		req = &domain.StudentPartnershipRequest{
			ID:            uuid.NewString(),
			RequesterID:   requesterID,
			TargetID:      targetID,
			RequesterName: requester.Name,
			TargetName:    target.Name,
			Message:       message,
			Status:        domain.PartnershipRequestStatusPending,
		}
		if err := s.requests.TxCreate(tx, req); err != nil {
			return domain.Internalf(err, "failed to create partnership request")
		}
		if err := s.students.TxSetPartnership(tx, requesterID, domain.PartnershipStatusPendingSent, ""); err != nil {
			return domain.Internalf(err, "failed to update requester status")
		}
		if err := s.students.TxSetPartnership(tx, targetID, domain.PartnershipStatusPendingReceived, ""); err != nil {
			return domain.Internalf(err, "failed to update target status")
		}
		return nil
	})
	if err != nil {
		return nil, asDomainError(err, "partnership request failed")
	}

	metrics.PartnershipRequests.Inc()
	actor := domain.Actor{ID: requesterID, Role: domain.RoleStudent}
	s.auditor.Record(ctx, actor, domain.AuditPartnershipRequested, "partnershipRequest", req.ID, req.TargetID)

	if s.emailSvc != nil {
		_ = s.emailSvc.SendPartnershipRequest(ctx, target.Email, target.Name, req.RequesterName)
	}
	s.notify(ctx, targetID, "Partnership Request",
		fmt.Sprintf("%s wants to partner with you", req.RequesterName),
		map[string]string{"type": "PARTNERSHIP_REQUEST", "requestId": req.ID})

	return req, nil
}

func (s *partnershipService) Respond(ctx context.Context, responderID, requestID string, accept bool) (*domain.StudentPartnershipRequest, error) {
	var (
		req       *domain.StudentPartnershipRequest
		requester *domain.Student
	)
	err := s.store.RunTransaction(ctx, func(tx store.Tx) error {
		var err error
		req, err = s.requests.TxGet(tx, requestID)
		if err != nil {
			if store.IsNotFound(err) {
				return domain.NotFoundf("partnership request not found")
			}
			return domain.Internalf(err, "failed to read partnership request")
		}
		// A responder who is not the target learns nothing about the request.
		if req.TargetID != responderID {
			return domain.NotFoundf("partnership request not found")
		}
		if req.Status != domain.PartnershipRequestStatusPending {
			return domain.Conflictf("partnership request has already been processed")
		}

		requester, err = s.txGetStudent(tx, req.RequesterID)
		if err != nil {
			return err
		}
		target, err := s.txGetStudent(tx, req.TargetID)
		if err != nil {
			return err
		}
		requesterPending, err := s.requests.TxListPendingInvolving(tx, req.RequesterID)
		if err != nil {
			return domain.Internalf(err, "failed to list pending requests")
		}
		targetPending, err := s.requests.TxListPendingInvolving(tx, req.TargetID)
		if err != nil {
			return domain.Internalf(err, "failed to list pending requests")
		}

		now := time.Now().UTC()
		if !accept {
			if err := s.requests.TxSetStatus(tx, req.ID, domain.PartnershipRequestStatusRejected, now); err != nil {
				return domain.Internalf(err, "failed to update partnership request")
			}
			if err := s.txRefreshLabel(tx, requester, requesterPending, req.ID); err != nil {
				return err
			}
			if err := s.txRefreshLabel(tx, target, targetPending, req.ID); err != nil {
				return err
			}
			req.Status = domain.PartnershipRequestStatusRejected
			req.RespondedOn = &now
			return nil
		}

		// Races against a concurrent acceptance: either side may have paired
		// since this request was created.
		if requester.PartnershipStatus == domain.PartnershipStatusPaired {
			return domain.Conflictf("%s already has a partner", requester.Name)
		}
		if target.PartnershipStatus == domain.PartnershipStatusPaired {
			return domain.Conflictf("you already have a partner")
		}

		if err := s.requests.TxSetStatus(tx, req.ID, domain.PartnershipRequestStatusAccepted, now); err != nil {
			return domain.Internalf(err, "failed to update partnership request")
		}
		if err := s.students.TxSetPartnership(tx, req.RequesterID, domain.PartnershipStatusPaired, req.TargetID); err != nil {
			return domain.Internalf(err, "failed to pair requester")
		}
		if err := s.students.TxSetPartnership(tx, req.TargetID, domain.PartnershipStatusPaired, req.RequesterID); err != nil {
			return domain.Internalf(err, "failed to pair target")
		}
		// Any other pending request involving either party is superseded.
		for _, other := range append(requesterPending, targetPending...) {
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
		return nil, asDomainError(err, "partnership response failed")
	}

	actor := domain.Actor{ID: responderID, Role: domain.RoleStudent}
	s.auditor.Record(ctx, actor, domain.AuditPartnershipResponded, "partnershipRequest", req.ID, string(req.Status))
	if accept {
		metrics.PartnershipsFormed.Inc()
	}

	if s.emailSvc != nil {
		_ = s.emailSvc.SendPartnershipResponse(ctx, requester.Email, requester.Name, req.TargetName, accept)
	}
	s.notify(ctx, req.RequesterID, "Partnership Response",
		fmt.Sprintf("%s %s your partnership request", req.TargetName, respondedWord(accept)),
		map[string]string{"type": "PARTNERSHIP_RESPONSE", "requestId": req.ID, "status": string(req.Status)})

	return req, nil
}

func (s *partnershipService) Cancel(ctx context.Context, requesterID, requestID string) error {
	err := s.store.RunTransaction(ctx, func(tx store.Tx) error {
		req, err := s.requests.TxGet(tx, requestID)
		if err != nil {
			if store.IsNotFound(err) {
				return domain.NotFoundf("partnership request not found")
			}
			return domain.Internalf(err, "failed to read partnership request")
		}
		if req.RequesterID != requesterID {
			return domain.NotFoundf("partnership request not found")
		}
		if req.Status != domain.PartnershipRequestStatusPending {
			return domain.Conflictf("only pending requests can be cancelled")
		}

		requester, err := s.txGetStudent(tx, req.RequesterID)
		if err != nil {
			return err
		}
		target, err := s.txGetStudent(tx, req.TargetID)
		if err != nil {
			return err
		}
		requesterPending, err := s.requests.TxListPendingInvolving(tx, req.RequesterID)
		if err != nil {
			return domain.Internalf(err, "failed to list pending requests")
		}
		targetPending, err := s.requests.TxListPendingInvolving(tx, req.TargetID)
		if err != nil {
			return domain.Internalf(err, "failed to list pending requests")
		}

		now := time.Now().UTC()
		if err := s.requests.TxSetStatus(tx, req.ID, domain.PartnershipRequestStatusCancelled, now); err != nil {
			return domain.Internalf(err, "failed to cancel partnership request")
		}
		if err := s.txRefreshLabel(tx, requester, requesterPending, req.ID); err != nil {
			return err
		}
		return s.txRefreshLabel(tx, target, targetPending, req.ID)
	})
	if err != nil {
		return asDomainError(err, "partnership cancellation failed")
	}

	actor := domain.Actor{ID: requesterID, Role: domain.RoleStudent}
	s.auditor.Record(ctx, actor, domain.AuditPartnershipCancelled, "partnershipRequest", requestID, "")
	return nil
}

// Unpair dissolves an existing pairing from either side. It is idempotent:
// unpairing an unpaired student succeeds without effect.
func (s *partnershipService) Unpair(ctx context.Context, studentID string) error {
	err := s.store.RunTransaction(ctx, func(tx store.Tx) error {
		student, err := s.txGetStudent(tx, studentID)
		if err != nil {
			return err
		}
		if student.PartnershipStatus != domain.PartnershipStatusPaired || student.PartnerID == "" {
			return nil
		}

		partner, err := s.students.TxGet(tx, student.PartnerID)
		if err != nil && !store.IsNotFound(err) {
			return domain.Internalf(err, "failed to read partner")
		}

		if err := s.students.TxSetPartnership(tx, studentID, domain.PartnershipStatusNone, ""); err != nil {
			return domain.Internalf(err, "failed to clear partnership")
		}
		// Only clear the partner's side when it still points back.
		if partner != nil && partner.PartnerID == studentID {
			if err := s.students.TxSetPartnership(tx, partner.ID, domain.PartnershipStatusNone, ""); err != nil {
				return domain.Internalf(err, "failed to clear partner's partnership")
			}
		}
		return nil
	})
	if err != nil {
		return asDomainError(err, "unpair failed")
	}

	actor := domain.Actor{ID: studentID, Role: domain.RoleStudent}
	s.auditor.Record(ctx, actor, domain.AuditPartnershipUnpaired, "student", studentID, "")
	return nil
}

func (s *partnershipService) ListForStudent(ctx context.Context, studentID string) ([]domain.StudentPartnershipRequest, error) {
	reqs, err := s.requests.ListInvolving(ctx, studentID)
	if err != nil {
		return nil, domain.Internalf(err, "failed to list partnership requests")
	}
	return reqs, nil
}

func (s *partnershipService) txGetStudent(tx store.Tx, id string) (*domain.Student, error) {
	st, err := s.students.TxGet(tx, id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domain.NotFoundf("student not found")
		}
		return nil, domain.Internalf(err, "failed to read student")
	}
	return st, nil
}

// txRefreshLabel recomputes the advisory partnershipStatus label for st from
// its remaining pending requests, excluding the request being settled. Paired
// students are never touched.
func (s *partnershipService) txRefreshLabel(tx store.Tx, st *domain.Student, pending []domain.StudentPartnershipRequest, excludeID string) error {
	if st.PartnershipStatus == domain.PartnershipStatusPaired {
		return nil
	}
	label := domain.PartnershipStatusNone
	for _, req := range pending {
		if req.ID == excludeID {
			continue
		}
		if req.RequesterID == st.ID {
			label = domain.PartnershipStatusPendingSent
			break
		}
		if req.TargetID == st.ID {
			label = domain.PartnershipStatusPendingReceived
			break
		}
	}
	if label == st.PartnershipStatus {
		return nil
	}
	if err := s.students.TxSetPartnership(tx, st.ID, label, ""); err != nil {
		return domain.Internalf(err, "failed to refresh partnership status")
	}
	return nil
}

func (s *partnershipService) notify(ctx context.Context, userID, title, message string, attrs map[string]string) {
	if s.noteRepo == nil {
		return
	}
	_ = s.noteRepo.Create(ctx, &domain.Notification{
		UserID:     userID,
		Role:       domain.RoleStudent,
		Title:      title,
		Message:    message,
		Attributes: attrs,
	})
}

func respondedWord(accepted bool) string {
	if accepted {
		return "accepted"
	}
	return "rejected"
}
