package docstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/repository"
	"mentormatch-backend/internal/store"
)

type supervisorRepository struct {
	s store.Store
}

func NewSupervisorRepository(s store.Store) repository.SupervisorRepository {
	return &supervisorRepository{s: s}
}

func (r *supervisorRepository) Create(ctx context.Context, sup *domain.Supervisor) error {
	if sup.ID == "" {
		sup.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	sup.CreatedOn = now
	sup.UpdatedOn = now
	sup.AvailabilityStatus = sup.Availability()
	return r.s.Set(ctx, supervisorsCollection, sup.ID, sup)
}

func (r *supervisorRepository) GetByID(ctx context.Context, id string) (*domain.Supervisor, error) {
	var sup domain.Supervisor
	if err := r.s.Get(ctx, supervisorsCollection, id, &sup); err != nil {
		return nil, err
	}
	sup.ID = id
	return &sup, nil
}

func (r *supervisorRepository) GetByEmail(ctx context.Context, email string) (*domain.Supervisor, error) {
	snaps, err := r.s.Query(ctx, supervisorsCollection, store.Query{
		Filters: []store.Filter{{Field: "email", Op: "==", Value: email}},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, store.ErrNotFound
	}
	var sup domain.Supervisor
	if err := snaps[0].DataTo(&sup); err != nil {
		return nil, err
	}
	sup.ID = snaps[0].ID()
	return &sup, nil
}

func (r *supervisorRepository) Update(ctx context.Context, sup *domain.Supervisor) error {
	sup.UpdatedOn = time.Now().UTC()
	sup.AvailabilityStatus = sup.Availability()
	return r.s.Set(ctx, supervisorsCollection, sup.ID, sup)
}

func (r *supervisorRepository) List(ctx context.Context) ([]domain.Supervisor, error) {
	snaps, err := r.s.Query(ctx, supervisorsCollection, store.Query{OrderBy: "name"})
	if err != nil {
		return nil, err
	}
	supervisors := make([]domain.Supervisor, 0, len(snaps))
	for _, snap := range snaps {
		var sup domain.Supervisor
		if err := snap.DataTo(&sup); err != nil {
			return nil, err
		}
		sup.ID = snap.ID()
		supervisors = append(supervisors, sup)
	}
	return supervisors, nil
}

func (r *supervisorRepository) TxGet(tx store.Tx, id string) (*domain.Supervisor, error) {
	var sup domain.Supervisor
	if err := tx.Get(supervisorsCollection, id, &sup); err != nil {
		return nil, err
	}
	sup.ID = id
	return &sup, nil
}

func (r *supervisorRepository) TxSetCurrentCapacity(tx store.Tx, id string, capacity, maxCapacity int) error {
	derived := domain.Supervisor{MaxCapacity: maxCapacity, CurrentCapacity: capacity}
	return tx.Update(supervisorsCollection, id, []store.Update{
		{Field: "currentCapacity", Value: capacity},
		{Field: "availabilityStatus", Value: string(derived.Availability())},
		{Field: "updatedOn", Value: time.Now().UTC()},
	})
}

func (r *supervisorRepository) TxSetMaxCapacity(tx store.Tx, id string, maxCapacity, currentCapacity int) error {
	derived := domain.Supervisor{MaxCapacity: maxCapacity, CurrentCapacity: currentCapacity}
	return tx.Update(supervisorsCollection, id, []store.Update{
		{Field: "maxCapacity", Value: maxCapacity},
		{Field: "availabilityStatus", Value: string(derived.Availability())},
		{Field: "updatedOn", Value: time.Now().UTC()},
	})
}
