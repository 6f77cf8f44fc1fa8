package repository

import (
	"context"
	"time"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/store"
)

// Tx-prefixed methods run against a transaction handle and are how the
// workflow and matching engines compose multi-document invariants. Plain
// methods are single-document or read-only conveniences.

type StudentRepository interface {
	Create(ctx context.Context, st *domain.Student) error
	GetByID(ctx context.Context, id string) (*domain.Student, error)
	GetByEmail(ctx context.Context, email string) (*domain.Student, error)
	Update(ctx context.Context, st *domain.Student) error
	List(ctx context.Context) ([]domain.Student, error)
	ListUnpaired(ctx context.Context) ([]domain.Student, error)

	TxGet(tx store.Tx, id string) (*domain.Student, error)
	// TxSetPartnership writes partnershipStatus and partnerId together; an
	// empty partnerID clears the field. Both sides of a pairing must be
	// written through this inside one transaction.
	TxSetPartnership(tx store.Tx, id string, status domain.PartnershipStatus, partnerID string) error
	TxSetMatch(tx store.Tx, id string, status domain.MatchStatus, supervisorID string) error
}

type SupervisorRepository interface {
	Create(ctx context.Context, sup *domain.Supervisor) error
	GetByID(ctx context.Context, id string) (*domain.Supervisor, error)
	GetByEmail(ctx context.Context, email string) (*domain.Supervisor, error)
	Update(ctx context.Context, sup *domain.Supervisor) error
	List(ctx context.Context) ([]domain.Supervisor, error)

	TxGet(tx store.Tx, id string) (*domain.Supervisor, error)
	// TxSetCurrentCapacity writes the capacity counter and the derived
	// availability label in one update. Only the capacity ledger calls it.
	TxSetCurrentCapacity(tx store.Tx, id string, capacity, maxCapacity int) error
	// TxSetMaxCapacity writes the configured maximum and the derived
	// availability label, leaving currentCapacity untouched.
	TxSetMaxCapacity(tx store.Tx, id string, maxCapacity, currentCapacity int) error
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	Update(ctx context.Context, app *domain.Application) error
	ListByStudent(ctx context.Context, studentID string) ([]domain.Application, error)
	ListBySupervisor(ctx context.Context, supervisorID string, status domain.ApplicationStatus) ([]domain.Application, error)
	List(ctx context.Context, status domain.ApplicationStatus) ([]domain.Application, error)
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Application, error)

	TxGet(tx store.Tx, id string) (*domain.Application, error)
	TxListByStudent(tx store.Tx, studentID string) ([]domain.Application, error)
	TxCreate(tx store.Tx, app *domain.Application) error
	TxSetStatus(tx store.Tx, id string, status domain.ApplicationStatus, feedback string) error
	TxSetContent(tx store.Tx, id, title, description string) error
	TxDelete(tx store.Tx, id string) error
}

type StudentPartnershipRequestRepository interface {
	GetByID(ctx context.Context, id string) (*domain.StudentPartnershipRequest, error)
	ListInvolving(ctx context.Context, studentID string) ([]domain.StudentPartnershipRequest, error)
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.StudentPartnershipRequest, error)

	TxCreate(tx store.Tx, req *domain.StudentPartnershipRequest) error
	TxGet(tx store.Tx, id string) (*domain.StudentPartnershipRequest, error)
	// TxFindPending returns the pending request for the ordered
	// (requester, target) pair, or nil when none exists.
	TxFindPending(tx store.Tx, requesterID, targetID string) (*domain.StudentPartnershipRequest, error)
	TxListPendingInvolving(tx store.Tx, studentID string) ([]domain.StudentPartnershipRequest, error)
	TxSetStatus(tx store.Tx, id string, status domain.PartnershipRequestStatus, respondedOn time.Time) error
}

type SupervisorPartnershipRequestRepository interface {
	GetByID(ctx context.Context, id string) (*domain.SupervisorPartnershipRequest, error)
	ListInvolving(ctx context.Context, supervisorID string) ([]domain.SupervisorPartnershipRequest, error)
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.SupervisorPartnershipRequest, error)

	TxCreate(tx store.Tx, req *domain.SupervisorPartnershipRequest) error
	TxGet(tx store.Tx, id string) (*domain.SupervisorPartnershipRequest, error)
	TxFindPending(tx store.Tx, projectID, requesterID, targetID string) (*domain.SupervisorPartnershipRequest, error)
	TxListPendingForProject(tx store.Tx, projectID string) ([]domain.SupervisorPartnershipRequest, error)
	TxSetStatus(tx store.Tx, id string, status domain.PartnershipRequestStatus, respondedOn time.Time) error
}

type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
	ListBySupervisor(ctx context.Context, supervisorID string) ([]domain.Project, error)
	ListByStudent(ctx context.Context, studentID string) ([]domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error

	TxCreate(tx store.Tx, p *domain.Project) error
	TxGet(tx store.Tx, id string) (*domain.Project, error)
	// TxFindBySourceApplication returns the project created from the given
	// application, or nil when none exists.
	TxFindBySourceApplication(tx store.Tx, applicationID string) (*domain.Project, error)
	TxSetStatus(tx store.Tx, id string, status domain.ProjectStatus) error
	// TxSetCoSupervisor assigns the single co-supervisor slot; an empty id
	// clears it.
	TxSetCoSupervisor(tx store.Tx, id, coSupervisorID string) error
}

type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, id, userID string) error
}

// AuditRepository is backed by PostgreSQL rather than the document store;
// the trail is append-only relational data that admins filter and page.
type AuditRepository interface {
	Record(ctx context.Context, event *domain.AuditEvent) error
	List(ctx context.Context, entityType, entityID string, limit int) ([]domain.AuditEvent, error)
}
