package docstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/repository"
	"mentormatch-backend/internal/store"
)

type applicationRepository struct {
	s store.Store
}

func NewApplicationRepository(s store.Store) repository.ApplicationRepository {
	return &applicationRepository{s: s}
}

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	prepareApplication(app)
	return r.s.Set(ctx, applicationsCollection, app.ID, app)
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	var app domain.Application
	if err := r.s.Get(ctx, applicationsCollection, id, &app); err != nil {
		return nil, err
	}
	app.ID = id
	return &app, nil
}

func (r *applicationRepository) Update(ctx context.Context, app *domain.Application) error {
	app.UpdatedOn = time.Now().UTC()
	return r.s.Set(ctx, applicationsCollection, app.ID, app)
}

func (r *applicationRepository) ListByStudent(ctx context.Context, studentID string) ([]domain.Application, error) {
	snaps, err := r.s.Query(ctx, applicationsCollection, store.Query{
		Filters: []store.Filter{{Field: "studentId", Op: "==", Value: studentID}},
		OrderBy: "createdOn",
		Desc:    true,
	})
	if err != nil {
		return nil, err
	}
	return decodeApplications(snaps)
}

func (r *applicationRepository) ListBySupervisor(ctx context.Context, supervisorID string, status domain.ApplicationStatus) ([]domain.Application, error) {
	filters := []store.Filter{{Field: "supervisorId", Op: "==", Value: supervisorID}}
	if status != "" {
		filters = append(filters, store.Filter{Field: "status", Op: "==", Value: string(status)})
	}
	snaps, err := r.s.Query(ctx, applicationsCollection, store.Query{
		Filters: filters,
		OrderBy: "createdOn",
		Desc:    true,
	})
	if err != nil {
		return nil, err
	}
	return decodeApplications(snaps)
}

func (r *applicationRepository) List(ctx context.Context, status domain.ApplicationStatus) ([]domain.Application, error) {
	var filters []store.Filter
	if status != "" {
		filters = append(filters, store.Filter{Field: "status", Op: "==", Value: string(status)})
	}
	snaps, err := r.s.Query(ctx, applicationsCollection, store.Query{
		Filters: filters,
		OrderBy: "createdOn",
		Desc:    true,
	})
	if err != nil {
		return nil, err
	}
	return decodeApplications(snaps)
}

func (r *applicationRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Application, error) {
	snaps, err := r.s.Query(ctx, applicationsCollection, store.Query{
		Filters: []store.Filter{
			{Field: "status", Op: "==", Value: string(domain.ApplicationStatusPending)},
			{Field: "createdOn", Op: "<", Value: cutoff},
		},
	})
	if err != nil {
		return nil, err
	}
	return decodeApplications(snaps)
}

func (r *applicationRepository) TxGet(tx store.Tx, id string) (*domain.Application, error) {
	var app domain.Application
	if err := tx.Get(applicationsCollection, id, &app); err != nil {
		return nil, err
	}
	app.ID = id
	return &app, nil
}

func (r *applicationRepository) TxListByStudent(tx store.Tx, studentID string) ([]domain.Application, error) {
	snaps, err := tx.Query(applicationsCollection, store.Query{
		Filters: []store.Filter{{Field: "studentId", Op: "==", Value: studentID}},
	})
	if err != nil {
		return nil, err
	}
	return decodeApplications(snaps)
}

func (r *applicationRepository) TxCreate(tx store.Tx, app *domain.Application) error {
	prepareApplication(app)
	return tx.Set(applicationsCollection, app.ID, app)
}

func (r *applicationRepository) TxSetStatus(tx store.Tx, id string, status domain.ApplicationStatus, feedback string) error {
	return tx.Update(applicationsCollection, id, []store.Update{
		{Field: "status", Value: string(status)},
		{Field: "feedback", Value: feedback},
		{Field: "updatedOn", Value: time.Now().UTC()},
	})
}

func (r *applicationRepository) TxSetContent(tx store.Tx, id, title, description string) error {
	return tx.Update(applicationsCollection, id, []store.Update{
		{Field: "title", Value: title},
		{Field: "description", Value: description},
		{Field: "updatedOn", Value: time.Now().UTC()},
	})
}

func (r *applicationRepository) TxDelete(tx store.Tx, id string) error {
	return tx.Delete(applicationsCollection, id)
}

func prepareApplication(app *domain.Application) {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	app.CreatedOn = now
	app.UpdatedOn = now
	if app.Status == "" {
		app.Status = domain.ApplicationStatusPending
	}
}

func decodeApplications(snaps []store.Snapshot) ([]domain.Application, error) {
	apps := make([]domain.Application, 0, len(snaps))
	for _, snap := range snaps {
		var app domain.Application
		if err := snap.DataTo(&app); err != nil {
			return nil, err
		}
		app.ID = snap.ID()
		apps = append(apps, app)
	}
	return apps, nil
}
