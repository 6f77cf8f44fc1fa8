package service

import (
	"context"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/repository"
	"mentormatch-backend/internal/store"
)

type projectService struct {
	projects repository.ProjectRepository
}

func NewProjectService(projects repository.ProjectRepository) ProjectService {
	return &projectService{projects: projects}
}

func (s *projectService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domain.NotFoundf("project not found")
		}
		return nil, domain.Internalf(err, "failed to read project")
	}
	if !canAccessProject(actor, project) {
		return nil, domain.Forbiddenf("not allowed to view this project")
	}
	return project, nil
}

func (s *projectService) ListForActor(ctx context.Context, actor domain.Actor) ([]domain.Project, error) {
	var (
		projects []domain.Project
		err      error
	)
	switch actor.Role {
	case domain.RoleStudent:
		projects, err = s.projects.ListByStudent(ctx, actor.ID)
	case domain.RoleSupervisor:
		projects, err = s.projects.ListBySupervisor(ctx, actor.ID)
	case domain.RoleAdmin:
		projects, err = s.projects.List(ctx)
	default:
		return nil, domain.Forbiddenf("unknown role")
	}
	if err != nil {
		return nil, domain.Internalf(err, "failed to list projects")
	}
	return projects, nil
}

func canAccessProject(actor domain.Actor, project *domain.Project) bool {
	switch actor.Role {
	case domain.RoleStudent:
		for _, id := range project.StudentIDs {
			if id == actor.ID {
				return true
			}
		}
		return false
	case domain.RoleSupervisor:
		return actor.ID == project.SupervisorID || actor.ID == project.CoSupervisorID
	case domain.RoleAdmin:
		return true
	}
	return false
}
