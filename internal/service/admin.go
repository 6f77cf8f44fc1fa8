package service

import (
	"context"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/logger"
	"mentormatch-backend/internal/repository"
)

type adminService struct {
	students    repository.StudentRepository
	supervisors repository.SupervisorRepository
	apps        repository.ApplicationRepository
	projects    repository.ProjectRepository
	auditRepo   repository.AuditRepository
}

func NewAdminService(
	students repository.StudentRepository,
	supervisors repository.SupervisorRepository,
	apps repository.ApplicationRepository,
	projects repository.ProjectRepository,
	auditRepo repository.AuditRepository,
) AdminService {
	return &adminService{
		students:    students,
		supervisors: supervisors,
		apps:        apps,
		projects:    projects,
		auditRepo:   auditRepo,
	}
}

func (s *adminService) Stats(ctx context.Context, actor domain.Actor) (*PortalStats, error) {
	logger.EnterMethod("adminService.Stats", "actorID", actor.ID)
	if actor.Role != domain.RoleAdmin {
		return nil, domain.Forbiddenf("admin access required")
	}

	students, err := s.students.List(ctx)
	if err != nil {
		logger.ExitMethodWithError("adminService.Stats", err)
		return nil, domain.Internalf(err, "failed to count students")
	}
	supervisors, err := s.supervisors.List(ctx)
	if err != nil {
		logger.ExitMethodWithError("adminService.Stats", err)
		return nil, domain.Internalf(err, "failed to count supervisors")
	}
	pending, err := s.apps.List(ctx, domain.ApplicationStatusPending)
	if err != nil {
		logger.ExitMethodWithError("adminService.Stats", err)
		return nil, domain.Internalf(err, "failed to count pending applications")
	}
	approved, err := s.apps.List(ctx, domain.ApplicationStatusApproved)
	if err != nil {
		logger.ExitMethodWithError("adminService.Stats", err)
		return nil, domain.Internalf(err, "failed to count approved applications")
	}
	projects, err := s.projects.List(ctx)
	if err != nil {
		logger.ExitMethodWithError("adminService.Stats", err)
		return nil, domain.Internalf(err, "failed to count projects")
	}
	active := 0
	for _, p := range projects {
		if p.Status == domain.ProjectStatusActive {
			active++
		}
	}

	logger.ExitMethod("adminService.Stats",
		"students", len(students), "supervisors", len(supervisors), "activeProjects", active)
	return &PortalStats{
		Students:             len(students),
		Supervisors:          len(supervisors),
		PendingApplications:  len(pending),
		ApprovedApplications: len(approved),
		ActiveProjects:       active,
	}, nil
}

func (s *adminService) ListApplications(ctx context.Context, actor domain.Actor, status domain.ApplicationStatus) ([]domain.Application, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, domain.Forbiddenf("admin access required")
	}
	apps, err := s.apps.List(ctx, status)
	if err != nil {
		return nil, domain.Internalf(err, "failed to list applications")
	}
	return apps, nil
}

func (s *adminService) AuditTrail(ctx context.Context, actor domain.Actor, entityType, entityID string, limit int) ([]domain.AuditEvent, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, domain.Forbiddenf("admin access required")
	}
	if s.auditRepo == nil {
		return nil, domain.Internalf(nil, "audit trail storage is not configured")
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	events, err := s.auditRepo.List(ctx, entityType, entityID, limit)
	if err != nil {
		return nil, domain.Internalf(err, "failed to read audit trail")
	}
	return events, nil
}
