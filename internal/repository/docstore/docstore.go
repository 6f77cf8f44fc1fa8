package docstore

import (
	"mentormatch-backend/internal/repository"
	"mentormatch-backend/internal/store"
)

// Firestore collection names.
const (
	studentsCollection               = "students"
	supervisorsCollection            = "supervisors"
	applicationsCollection           = "applications"
	studentPartnershipsCollection    = "studentPartnershipRequests"
	supervisorPartnershipsCollection = "supervisorPartnershipRequests"
	projectsCollection               = "projects"
	notificationsCollection          = "notifications"
)

// Store bundles all document-store repositories over one entity store.
type Store struct {
	store store.Store
	repository.StudentRepository
	repository.SupervisorRepository
	repository.ApplicationRepository
	repository.StudentPartnershipRequestRepository
	repository.SupervisorPartnershipRequestRepository
	repository.ProjectRepository
	repository.NotificationRepository
	repository.AdminRepository
}

func NewStore(s store.Store) *Store {
	return &Store{
		store:                                  s,
		StudentRepository:                      NewStudentRepository(s),
		SupervisorRepository:                   NewSupervisorRepository(s),
		ApplicationRepository:                  NewApplicationRepository(s),
		StudentPartnershipRequestRepository:    NewStudentPartnershipRequestRepository(s),
		SupervisorPartnershipRequestRepository: NewSupervisorPartnershipRequestRepository(s),
		ProjectRepository:                      NewProjectRepository(s),
		NotificationRepository:                 NewNotificationRepository(s),
		AdminRepository:                        NewAdminRepository(s),
	}
}
