package service

import (
	"context"

	"mentormatch-backend/internal/domain"
)

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type SignupStudentInput struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	Name          string `json:"name"`
	StudentNumber string `json:"studentNumber"`
	Program       string `json:"program"`
}

type SignupSupervisorInput struct {
	Email             string   `json:"email"`
	Password          string   `json:"password"`
	Name              string   `json:"name"`
	Department        string   `json:"department"`
	ResearchInterests []string `json:"researchInterests"`
	MaxCapacity       int      `json:"maxCapacity"`
}

type AuthService interface {
	SignupStudent(ctx context.Context, in SignupStudentInput) (*domain.Student, *TokenPair, error)
	SignupSupervisor(ctx context.Context, in SignupSupervisorInput) (*domain.Supervisor, *TokenPair, error)
	Login(ctx context.Context, email, password string, role domain.Role) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type UpdateStudentProfileInput struct {
	Name          string `json:"name"`
	StudentNumber string `json:"studentNumber"`
	Program       string `json:"program"`
}

type StudentService interface {
	GetProfile(ctx context.Context, actor domain.Actor, studentID string) (*domain.Student, error)
	UpdateProfile(ctx context.Context, actor domain.Actor, in UpdateStudentProfileInput) (*domain.Student, error)
	List(ctx context.Context, actor domain.Actor) ([]domain.Student, error)
	// ListAvailablePartners returns students who are not yet paired,
	// excluding the caller.
	ListAvailablePartners(ctx context.Context, actor domain.Actor) ([]domain.Student, error)
}

type UpdateSupervisorProfileInput struct {
	Name              string   `json:"name"`
	Department        string   `json:"department"`
	ResearchInterests []string `json:"researchInterests"`
}

type SupervisorService interface {
	GetProfile(ctx context.Context, supervisorID string) (*domain.Supervisor, error)
	UpdateProfile(ctx context.Context, actor domain.Actor, in UpdateSupervisorProfileInput) (*domain.Supervisor, error)
	// SetMaxCapacity adjusts the configured maximum. It never touches
	// currentCapacity and rejects a maximum below the current load.
	SetMaxCapacity(ctx context.Context, actor domain.Actor, supervisorID string, maxCapacity int) (*domain.Supervisor, error)
	List(ctx context.Context) ([]domain.Supervisor, error)
}

type CreateApplicationInput struct {
	SupervisorID string `json:"supervisorId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
}

type EditApplicationInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ApplicationService is the application workflow engine. Every status
// transition re-reads the application inside the transaction that writes it,
// and capacity accounting happens in that same transaction.
type ApplicationService interface {
	Create(ctx context.Context, actor domain.Actor, in CreateApplicationInput) (*domain.Application, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.Application, error)
	ListForActor(ctx context.Context, actor domain.Actor, status domain.ApplicationStatus) ([]domain.Application, error)
	Edit(ctx context.Context, actor domain.Actor, id string, in EditApplicationInput) (*domain.Application, error)
	Resubmit(ctx context.Context, actor domain.Actor, id string) (*domain.Application, error)
	SetStatus(ctx context.Context, actor domain.Actor, id string, status domain.ApplicationStatus, feedback string) (*domain.Application, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

// PartnershipService runs the student partner request/accept protocol.
type PartnershipService interface {
	Request(ctx context.Context, requesterID, targetID, message string) (*domain.StudentPartnershipRequest, error)
	Respond(ctx context.Context, responderID, requestID string, accept bool) (*domain.StudentPartnershipRequest, error)
	Cancel(ctx context.Context, requesterID, requestID string) error
	Unpair(ctx context.Context, studentID string) error
	ListForStudent(ctx context.Context, studentID string) ([]domain.StudentPartnershipRequest, error)
}

// SupervisorPartnershipService mirrors PartnershipService for co-supervision,
// scoped per project.
type SupervisorPartnershipService interface {
	Request(ctx context.Context, projectID, requesterID, targetID, message string) (*domain.SupervisorPartnershipRequest, error)
	Respond(ctx context.Context, responderID, requestID string, accept bool) (*domain.SupervisorPartnershipRequest, error)
	Cancel(ctx context.Context, requesterID, requestID string) error
	RemoveCoSupervisor(ctx context.Context, actor domain.Actor, projectID string) error
	ListForSupervisor(ctx context.Context, supervisorID string) ([]domain.SupervisorPartnershipRequest, error)
}

type ProjectService interface {
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.Project, error)
	ListForActor(ctx context.Context, actor domain.Actor) ([]domain.Project, error)
}

type PortalStats struct {
	Students             int `json:"students"`
	Supervisors          int `json:"supervisors"`
	PendingApplications  int `json:"pendingApplications"`
	ApprovedApplications int `json:"approvedApplications"`
	ActiveProjects       int `json:"activeProjects"`
}

type AdminService interface {
	Stats(ctx context.Context, actor domain.Actor) (*PortalStats, error)
	ListApplications(ctx context.Context, actor domain.Actor, status domain.ApplicationStatus) ([]domain.Application, error)
	AuditTrail(ctx context.Context, actor domain.Actor, entityType, entityID string, limit int) ([]domain.AuditEvent, error)
}

type NotificationService interface {
	List(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, userID, notificationID string) error
}

// EmailService sends user-facing mail. All sends are best-effort: a mail
// failure never fails the operation that triggered it.
type EmailService interface {
	SendApplicationSubmitted(ctx context.Context, supervisorEmail, supervisorName, studentName, title string) error
	SendApplicationDecision(ctx context.Context, studentEmail, studentName, title string, status domain.ApplicationStatus, feedback string) error
	SendPartnershipRequest(ctx context.Context, targetEmail, targetName, requesterName string) error
	SendPartnershipResponse(ctx context.Context, requesterEmail, requesterName, targetName string, accepted bool) error
	SendPendingApplicationReminder(ctx context.Context, supervisorEmail, supervisorName string, pendingCount int) error
}
