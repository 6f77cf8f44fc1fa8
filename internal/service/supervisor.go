package service

import (
	"context"
	"fmt"
	"strings"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/repository"
	"mentormatch-backend/internal/store"
)

type supervisorService struct {
	store       store.Store
	supervisors repository.SupervisorRepository
	auditor     *Auditor
}

func NewSupervisorService(st store.Store, supervisors repository.SupervisorRepository, auditor *Auditor) SupervisorService {
	return &supervisorService{store: st, supervisors: supervisors, auditor: auditor}
}

func (s *supervisorService) GetProfile(ctx context.Context, supervisorID string) (*domain.Supervisor, error) {
	sup, err := s.supervisors.GetByID(ctx, supervisorID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domain.NotFoundf("supervisor not found")
		}
		return nil, domain.Internalf(err, "failed to read supervisor")
	}
	return sup, nil
}

func (s *supervisorService) UpdateProfile(ctx context.Context, actor domain.Actor, in UpdateSupervisorProfileInput) (*domain.Supervisor, error) {
	if actor.Role != domain.RoleSupervisor {
		return nil, domain.Forbiddenf("only supervisors can update a supervisor profile")
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, domain.Validationf("name is required")
	}

	sup, err := s.supervisors.GetByID(ctx, actor.ID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domain.NotFoundf("supervisor not found")
		}
		return nil, domain.Internalf(err, "failed to read supervisor")
	}
	sup.Name = in.Name
	sup.Department = in.Department
	sup.ResearchInterests = in.ResearchInterests
	if err := s.supervisors.Update(ctx, sup); err != nil {
		return nil, domain.Internalf(err, "failed to update supervisor")
	}
	return sup, nil
}

// SetMaxCapacity adjusts the configured maximum inside a transaction so the
// check against the current load cannot race a concurrent approval. It never
// touches currentCapacity.
func (s *supervisorService) SetMaxCapacity(ctx context.Context, actor domain.Actor, supervisorID string, maxCapacity int) (*domain.Supervisor, error) {
	switch actor.Role {
	case domain.RoleSupervisor:
		if actor.ID != supervisorID {
			return nil, domain.Forbiddenf("supervisors can only change their own capacity")
		}
	case domain.RoleAdmin:
	case domain.RoleStudent:
		return nil, domain.Forbiddenf("not allowed to change supervisor capacity")
	default:
		return nil, domain.Forbiddenf("unknown role")
	}
	if maxCapacity < 0 {
		return nil, domain.Validationf("maxCapacity must not be negative")
	}

	var sup *domain.Supervisor
	err := s.store.RunTransaction(ctx, func(tx store.Tx) error {
		var err error
		sup, err = s.supervisors.TxGet(tx, supervisorID)
		if err != nil {
			if store.IsNotFound(err) {
				return domain.NotFoundf("supervisor not found")
			}
			return domain.Internalf(err, "failed to read supervisor")
		}
		if maxCapacity < sup.CurrentCapacity {
			return domain.Conflictf("maximum capacity cannot be less than current capacity (%d)", sup.CurrentCapacity)
		}
		if err := s.supervisors.TxSetMaxCapacity(tx, supervisorID, maxCapacity, sup.CurrentCapacity); err != nil {
			return domain.Internalf(err, "failed to update supervisor capacity")
		}
		return nil
	})
	if err != nil {
		return nil, asDomainError(err, "capacity change failed")
	}

	sup.MaxCapacity = maxCapacity
	sup.AvailabilityStatus = sup.Availability()
	s.auditor.Record(ctx, actor, domain.AuditCapacityChanged, "supervisor", supervisorID, fmt.Sprintf("maxCapacity=%d", maxCapacity))
	return sup, nil
}

func (s *supervisorService) List(ctx context.Context) ([]domain.Supervisor, error) {
	supervisors, err := s.supervisors.List(ctx)
	if err != nil {
		return nil, domain.Internalf(err, "failed to list supervisors")
	}
	return supervisors, nil
}
