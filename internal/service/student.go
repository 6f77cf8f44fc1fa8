package service

import (
	"context"
	"strings"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/repository"
	"mentormatch-backend/internal/store"
)

type studentService struct {
	students repository.StudentRepository
}

func NewStudentService(students repository.StudentRepository) StudentService {
	return &studentService{students: students}
}

func (s *studentService) GetProfile(ctx context.Context, actor domain.Actor, studentID string) (*domain.Student, error) {
	switch actor.Role {
	case domain.RoleStudent, domain.RoleSupervisor, domain.RoleAdmin:
	default:
		return nil, domain.Forbiddenf("unknown role")
	}
	st, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domain.NotFoundf("student not found")
		}
		return nil, domain.Internalf(err, "failed to read student")
	}
	return st, nil
}

func (s *studentService) UpdateProfile(ctx context.Context, actor domain.Actor, in UpdateStudentProfileInput) (*domain.Student, error) {
	if actor.Role != domain.RoleStudent {
		return nil, domain.Forbiddenf("only students can update a student profile")
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, domain.Validationf("name is required")
	}

	st, err := s.students.GetByID(ctx, actor.ID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domain.NotFoundf("student not found")
		}
		return nil, domain.Internalf(err, "failed to read student")
	}
	st.Name = in.Name
	st.StudentNumber = in.StudentNumber
	st.Program = in.Program
	if err := s.students.Update(ctx, st); err != nil {
		return nil, domain.Internalf(err, "failed to update student")
	}
	return st, nil
}

func (s *studentService) List(ctx context.Context, actor domain.Actor) ([]domain.Student, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, domain.Forbiddenf("only admins can list all students")
	}
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, domain.Internalf(err, "failed to list students")
	}
	return students, nil
}

func (s *studentService) ListAvailablePartners(ctx context.Context, actor domain.Actor) ([]domain.Student, error) {
	if actor.Role != domain.RoleStudent {
		return nil, domain.Forbiddenf("only students can browse partner candidates")
	}
	students, err := s.students.ListUnpaired(ctx)
	if err != nil {
		return nil, domain.Internalf(err, "failed to list students")
	}
	candidates := students[:0]
	for _, st := range students {
		if st.ID != actor.ID {
			candidates = append(candidates, st)
		}
	}
	return candidates, nil
}
