package docstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/repository"
	"mentormatch-backend/internal/store"
)

const adminsCollection = "admins"

type adminRepository struct {
	s store.Store
}

func NewAdminRepository(s store.Store) repository.AdminRepository {
	return &adminRepository{s: s}
}

func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	admin.CreatedOn = time.Now().UTC()
	return r.s.Set(ctx, adminsCollection, admin.ID, admin)
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	snaps, err := r.s.Query(ctx, adminsCollection, store.Query{
		Filters: []store.Filter{{Field: "email", Op: "==", Value: email}},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, store.ErrNotFound
	}
	var admin domain.Admin
	if err := snaps[0].DataTo(&admin); err != nil {
		return nil, err
	}
	admin.ID = snaps[0].ID()
	return &admin, nil
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	var admin domain.Admin
	if err := r.s.Get(ctx, adminsCollection, id, &admin); err != nil {
		return nil, err
	}
	admin.ID = id
	return &admin, nil
}
