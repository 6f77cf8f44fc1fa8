package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/metrics"
	"mentormatch-backend/internal/repository"
	"mentormatch-backend/internal/store"
)

type applicationService struct {
	store       store.Store
	apps        repository.ApplicationRepository
	students    repository.StudentRepository
	supervisors repository.SupervisorRepository
	projects    repository.ProjectRepository
	ledger      *CapacityLedger
	auditor     *Auditor
	emailSvc    EmailService
	noteRepo    repository.NotificationRepository
}

func NewApplicationService(
	st store.Store,
	apps repository.ApplicationRepository,
	students repository.StudentRepository,
	supervisors repository.SupervisorRepository,
	projects repository.ProjectRepository,
	ledger *CapacityLedger,
	auditor *Auditor,
	emailSvc EmailService,
	noteRepo repository.NotificationRepository,
) ApplicationService {
	return &applicationService{
		store:       st,
		apps:        apps,
		students:    students,
		supervisors: supervisors,
		projects:    projects,
		ledger:      ledger,
		auditor:     auditor,
		emailSvc:    emailSvc,
		noteRepo:    noteRepo,
	}
}

func (s *applicationService) Create(ctx context.Context, actor domain.Actor, in CreateApplicationInput) (*domain.Application, error) {
	if actor.Role != domain.RoleStudent {
		return nil, domain.Forbiddenf("only students can submit applications")
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.SupervisorID == "" {
		return nil, domain.Validationf("supervisorId is required")
	}
	if in.Title == "" {
		return nil, domain.Validationf("title is required")
	}

	sup, err := s.supervisors.GetByID(ctx, in.SupervisorID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domain.NotFoundf("supervisor not found")
		}
		return nil, domain.Internalf(err, "failed to read supervisor")
	}

	var lead *domain.Application
	err = s.store.RunTransaction(ctx, func(tx store.Tx) error {
		student, err := s.students.TxGet(tx, actor.ID)
		if err != nil {
			if store.IsNotFound(err) {
				return domain.NotFoundf("student not found")
			}
			return domain.Internalf(err, "failed to read student")
		}

		var partner *domain.Student
		if student.PartnershipStatus == domain.PartnershipStatusPaired && student.PartnerID != "" {
			partner, err = s.students.TxGet(tx, student.PartnerID)
			if err != nil {
				if store.IsNotFound(err) {
					return domain.Conflictf("partner record no longer exists")
				}
				return domain.Internalf(err, "failed to read partner")
			}
		}

		if err := s.txCheckNoActiveApplication(tx, student.ID); err != nil {
			return err
		}
		if partner != nil {
			if err := s.txCheckNoActiveApplication(tx, partner.ID); err != nil {
				return err
			}
		}

		lead = &domain.Application{
			ID:                uuid.NewString(),
			StudentID:         student.ID,
			SupervisorID:      sup.ID,
			StudentName:       student.Name,
			StudentEmail:      student.Email,
			SupervisorName:    sup.Name,
			Title:             in.Title,
			Description:       in.Description,
			Status:            domain.ApplicationStatusPending,
			IsLeadApplication: true,
		}
		if partner != nil {
			mirror := &domain.Application{
				ID:                  uuid.NewString(),
				StudentID:           partner.ID,
				SupervisorID:        sup.ID,
				StudentName:         partner.Name,
				StudentEmail:        partner.Email,
				SupervisorName:      sup.Name,
				Title:               in.Title,
				Description:         in.Description,
				Status:              domain.ApplicationStatusPending,
				HasPartner:          true,
				PartnerID:           student.ID,
				LinkedApplicationID: lead.ID,
				IsLeadApplication:   false,
			}
			lead.HasPartner = true
			lead.PartnerID = partner.ID
			lead.LinkedApplicationID = mirror.ID

			if err := s.apps.TxCreate(tx, mirror); err != nil {
				return domain.Internalf(err, "failed to create partner application")
			}
			if err := s.students.TxSetMatch(tx, partner.ID, domain.MatchStatusPending, ""); err != nil {
				return domain.Internalf(err, "failed to update partner match status")
			}
		}
		if err := s.apps.TxCreate(tx, lead); err != nil {
			return domain.Internalf(err, "failed to create application")
		}
		if err := s.students.TxSetMatch(tx, student.ID, domain.MatchStatusPending, ""); err != nil {
			return domain.Internalf(err, "failed to update match status")
		}
		return nil
	})
	if err != nil {
		return nil, asDomainError(err, "application creation failed")
	}

	metrics.ApplicationsCreated.Inc()
	s.auditor.Record(ctx, actor, domain.AuditApplicationCreated, "application", lead.ID, lead.Title)

	if s.emailSvc != nil {
		_ = s.emailSvc.SendApplicationSubmitted(ctx, sup.Email, sup.Name, lead.StudentName, lead.Title)
	}
	s.notify(ctx, sup.ID, domain.RoleSupervisor, "New Application",
		fmt.Sprintf("%s applied to work with you on %q", lead.StudentName, lead.Title),
		map[string]string{"type": "APPLICATION_SUBMITTED", "applicationId": lead.ID})

	return lead, nil
}

func (s *applicationService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Application, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domain.NotFoundf("application not found")
		}
		return nil, domain.Internalf(err, "failed to read application")
	}
	if !actor.CanAccessApplication(app) {
		return nil, domain.Forbiddenf("not allowed to view this application")
	}
	return app, nil
}

func (s *applicationService) ListForActor(ctx context.Context, actor domain.Actor, status domain.ApplicationStatus) ([]domain.Application, error) {
	switch actor.Role {
	case domain.RoleStudent:
		apps, err := s.apps.ListByStudent(ctx, actor.ID)
		if err != nil {
			return nil, domain.Internalf(err, "failed to list applications")
		}
		if status == "" {
			return apps, nil
		}
		filtered := make([]domain.Application, 0, len(apps))
		for _, a := range apps {
			if a.Status == status {
				filtered = append(filtered, a)
			}
		}
		return filtered, nil
	case domain.RoleSupervisor:
		apps, err := s.apps.ListBySupervisor(ctx, actor.ID, status)
		if err != nil {
			return nil, domain.Internalf(err, "failed to list applications")
		}
		return apps, nil
	case domain.RoleAdmin:
		apps, err := s.apps.List(ctx, status)
		if err != nil {
			return nil, domain.Internalf(err, "failed to list applications")
		}
		return apps, nil
	}
	return nil, domain.Forbiddenf("unknown role")
}

// Edit rewrites title and description while the supervisor has requested a
// revision. The linked partner application is kept in step within the same
// transaction.
func (s *applicationService) Edit(ctx context.Context, actor domain.Actor, id string, in EditApplicationInput) (*domain.Application, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, domain.Validationf("title is required")
	}

	var app *domain.Application
	err := s.store.RunTransaction(ctx, func(tx store.Tx) error {
		var err error
		app, err = s.txGetOwned(tx, actor, id)
		if err != nil {
			return err
		}
		if app.Status != domain.ApplicationStatusRevisionRequested {
			return domain.Conflictf("application can only be edited while a revision is requested")
		}
		if err := s.apps.TxSetContent(tx, app.ID, in.Title, in.Description); err != nil {
			return domain.Internalf(err, "failed to update application")
		}
		if app.LinkedApplicationID != "" {
			if err := s.apps.TxSetContent(tx, app.LinkedApplicationID, in.Title, in.Description); err != nil {
				return domain.Internalf(err, "failed to update linked application")
			}
		}
		return nil
	})
	if err != nil {
		return nil, asDomainError(err, "application edit failed")
	}

	app.Title = in.Title
	app.Description = in.Description
	app.UpdatedOn = time.Now().UTC()
	return app, nil
}

// Resubmit returns a revision_requested application to the pending queue and
// clears the prior feedback.
func (s *applicationService) Resubmit(ctx context.Context, actor domain.Actor, id string) (*domain.Application, error) {
	var app *domain.Application
	err := s.store.RunTransaction(ctx, func(tx store.Tx) error {
		var err error
		app, err = s.txGetOwned(tx, actor, id)
		if err != nil {
			return err
		}
		if app.Status != domain.ApplicationStatusRevisionRequested {
			return domain.Conflictf("only applications awaiting revision can be resubmitted")
		}
		if err := s.apps.TxSetStatus(tx, app.ID, domain.ApplicationStatusPending, ""); err != nil {
			return domain.Internalf(err, "failed to resubmit application")
		}
		if app.LinkedApplicationID != "" {
			if err := s.apps.TxSetStatus(tx, app.LinkedApplicationID, domain.ApplicationStatusPending, ""); err != nil {
				return domain.Internalf(err, "failed to resubmit linked application")
			}
		}
		return nil
	})
	if err != nil {
		return nil, asDomainError(err, "application resubmit failed")
	}

	app.Status = domain.ApplicationStatusPending
	app.Feedback = ""
	app.UpdatedOn = time.Now().UTC()
	s.auditor.Record(ctx, actor, domain.AuditApplicationResubmitted, "application", app.ID, app.Title)
	return app, nil
}

// SetStatus drives the workflow state machine. The application is re-read
// inside the transaction, the transition is validated against the current
// status, and on approval the capacity reservation, project creation, and
// student match updates all commit atomically with the status write.
func (s *applicationService) SetStatus(ctx context.Context, actor domain.Actor, id string, status domain.ApplicationStatus, feedback string) (*domain.Application, error) {
	switch status {
	case domain.ApplicationStatusUnderReview,
		domain.ApplicationStatusApproved,
		domain.ApplicationStatusRejected,
		domain.ApplicationStatusRevisionRequested:
	default:
		return nil, domain.Validationf("invalid target status %q", status)
	}

	var app *domain.Application
	err := s.store.RunTransaction(ctx, func(tx store.Tx) error {
		var err error
		app, err = s.apps.TxGet(tx, id)
		if err != nil {
			if store.IsNotFound(err) {
				return domain.NotFoundf("application not found")
			}
			return domain.Internalf(err, "failed to read application")
		}
		if !actor.CanDecideApplication(app) {
			return domain.Forbiddenf("not allowed to change this application's status")
		}
		if !canTransition(app.Status, status) {
			return domain.Conflictf("cannot move application from %s to %s", app.Status, status)
		}

		switch status {
		case domain.ApplicationStatusApproved:
			return s.txApprove(tx, app, feedback)
		case domain.ApplicationStatusRejected:
			if err := s.txSetStatusBoth(tx, app, status, feedback); err != nil {
				return err
			}
			return s.txSetMatchBoth(tx, app, domain.MatchStatusUnmatched, "")
		default:
			return s.txSetStatusBoth(tx, app, status, feedback)
		}
	})
	if err != nil {
		return nil, asDomainError(err, "status change failed")
	}

	app.Status = status
	app.Feedback = feedback
	app.UpdatedOn = time.Now().UTC()

	metrics.ApplicationTransitions.WithLabelValues(string(status)).Inc()
	s.auditor.Record(ctx, actor, domain.AuditApplicationStatusSet, "application", app.ID, string(status))

	if s.emailSvc != nil {
		_ = s.emailSvc.SendApplicationDecision(ctx, app.StudentEmail, app.StudentName, app.Title, status, feedback)
	}
	s.notify(ctx, app.StudentID, domain.RoleStudent, "Application Update",
		fmt.Sprintf("Your application %q is now %s", app.Title, status),
		map[string]string{"type": "APPLICATION_STATUS", "applicationId": app.ID, "status": string(status)})

	return app, nil
}

// Delete removes the application (and its linked partner application) and
// rolls back the capacity reservation when it had been approved.
func (s *applicationService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	err := s.store.RunTransaction(ctx, func(tx store.Tx) error {
		app, err := s.txGetOwned(tx, actor, id)
		if err != nil {
			return err
		}

		var linked *domain.Application
		if app.LinkedApplicationID != "" {
			linked, err = s.apps.TxGet(tx, app.LinkedApplicationID)
			if err != nil && !store.IsNotFound(err) {
				return domain.Internalf(err, "failed to read linked application")
			}
		}

		leadID := app.ID
		if app.HasPartner && !app.IsLeadApplication && linked != nil {
			leadID = linked.ID
		}
		project, err := s.projects.TxFindBySourceApplication(tx, leadID)
		if err != nil {
			return domain.Internalf(err, "failed to look up project")
		}

		// All transaction reads are done; the ledger read below must stay
		// ahead of the first write.
		if app.Status == domain.ApplicationStatusApproved {
			if err := s.ledger.Decrement(tx, app.SupervisorID); err != nil {
				return err
			}
		}

		if err := s.apps.TxDelete(tx, app.ID); err != nil {
			return domain.Internalf(err, "failed to delete application")
		}
		if linked != nil {
			if err := s.apps.TxDelete(tx, linked.ID); err != nil {
				return domain.Internalf(err, "failed to delete linked application")
			}
		}
		if project != nil && project.Status == domain.ProjectStatusActive {
			if err := s.projects.TxSetStatus(tx, project.ID, domain.ProjectStatusCancelled); err != nil {
				return domain.Internalf(err, "failed to cancel project")
			}
		}
		if err := s.txSetMatchBoth(tx, app, domain.MatchStatusUnmatched, ""); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return asDomainError(err, "application deletion failed")
	}

	s.auditor.Record(ctx, actor, domain.AuditApplicationDeleted, "application", id, "")
	return nil
}

// canTransition encodes the workflow table. Terminal statuses never move;
// under_review is only reachable from pending; decisions come from either
// pending or under_review.
func canTransition(from, to domain.ApplicationStatus) bool {
	if from.IsTerminal() {
		return false
	}
	switch to {
	case domain.ApplicationStatusUnderReview:
		return from == domain.ApplicationStatusPending
	case domain.ApplicationStatusApproved,
		domain.ApplicationStatusRejected,
		domain.ApplicationStatusRevisionRequested:
		return from == domain.ApplicationStatusPending || from == domain.ApplicationStatusUnderReview
	}
	return false
}

// txApprove performs the approval writes. app has already been read and
// authorized; the linked application read, the ledger read, and only then the
// writes keep Firestore's reads-before-writes ordering intact.
func (s *applicationService) txApprove(tx store.Tx, app *domain.Application, feedback string) error {
	var linked *domain.Application
	if app.LinkedApplicationID != "" {
		var err error
		linked, err = s.apps.TxGet(tx, app.LinkedApplicationID)
		if err != nil {
			if store.IsNotFound(err) {
				return domain.Conflictf("linked partner application no longer exists")
			}
			return domain.Internalf(err, "failed to read linked application")
		}
	}

	// One reservation per pair, regardless of which application the
	// supervisor acted on.
	if err := s.ledger.Increment(tx, app.SupervisorID); err != nil {
		return err
	}

	if err := s.apps.TxSetStatus(tx, app.ID, domain.ApplicationStatusApproved, feedback); err != nil {
		return domain.Internalf(err, "failed to update application status")
	}
	if linked != nil {
		if err := s.apps.TxSetStatus(tx, linked.ID, domain.ApplicationStatusApproved, feedback); err != nil {
			return domain.Internalf(err, "failed to update linked application status")
		}
	}

	lead := app
	if app.HasPartner && !app.IsLeadApplication && linked != nil {
		lead = linked
	}
	studentIDs := []string{lead.StudentID}
	if lead.PartnerID != "" {
		studentIDs = append(studentIDs, lead.PartnerID)
	}
	project := &domain.Project{
		ID:                  uuid.NewString(),
		Title:               lead.Title,
		Description:         lead.Description,
		SupervisorID:        lead.SupervisorID,
		StudentIDs:          studentIDs,
		SourceApplicationID: lead.ID,
		Status:              domain.ProjectStatusActive,
	}
	if err := s.projects.TxCreate(tx, project); err != nil {
		return domain.Internalf(err, "failed to create project")
	}

	return s.txSetMatchBoth(tx, app, domain.MatchStatusMatched, app.SupervisorID)
}

// txGetOwned reads the application inside the transaction and enforces the
// modification authorization contract.
func (s *applicationService) txGetOwned(tx store.Tx, actor domain.Actor, id string) (*domain.Application, error) {
	app, err := s.apps.TxGet(tx, id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domain.NotFoundf("application not found")
		}
		return nil, domain.Internalf(err, "failed to read application")
	}
	if !actor.CanModifyApplication(app) {
		return nil, domain.Forbiddenf("not allowed to modify this application")
	}
	return app, nil
}

func (s *applicationService) txSetStatusBoth(tx store.Tx, app *domain.Application, status domain.ApplicationStatus, feedback string) error {
	if err := s.apps.TxSetStatus(tx, app.ID, status, feedback); err != nil {
		return domain.Internalf(err, "failed to update application status")
	}
	if app.LinkedApplicationID != "" {
		if err := s.apps.TxSetStatus(tx, app.LinkedApplicationID, status, feedback); err != nil {
			return domain.Internalf(err, "failed to update linked application status")
		}
	}
	return nil
}

func (s *applicationService) txSetMatchBoth(tx store.Tx, app *domain.Application, status domain.MatchStatus, supervisorID string) error {
	if err := s.students.TxSetMatch(tx, app.StudentID, status, supervisorID); err != nil {
		return domain.Internalf(err, "failed to update student match status")
	}
	if app.PartnerID != "" {
		if err := s.students.TxSetMatch(tx, app.PartnerID, status, supervisorID); err != nil {
			return domain.Internalf(err, "failed to update partner match status")
		}
	}
	return nil
}

// txCheckNoActiveApplication fails with a conflict when the student already
// has an application that is not rejected. Rejected applications do not block
// a fresh submission; revision_requested ones do (the student should edit and
// resubmit instead).
func (s *applicationService) txCheckNoActiveApplication(tx store.Tx, studentID string) error {
	existing, err := s.apps.TxListByStudent(tx, studentID)
	if err != nil {
		return domain.Internalf(err, "failed to check existing applications")
	}
	for _, app := range existing {
		if app.Status != domain.ApplicationStatusRejected {
			return domain.Conflictf("student already has an active application")
		}
	}
	return nil
}

func (s *applicationService) notify(ctx context.Context, userID string, role domain.Role, title, message string, attrs map[string]string) {
	if s.noteRepo == nil {
		return
	}
	_ = s.noteRepo.Create(ctx, &domain.Notification{
		UserID:     userID,
		Role:       role,
		Title:      title,
		Message:    message,
		Attributes: attrs,
	})
}

// asDomainError passes taxonomy errors through untouched and wraps anything
// else (store failures, aborted transactions) as internal.
func asDomainError(err error, msg string) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.Internalf(err, "%s", msg)
}
