package docstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/repository"
	"mentormatch-backend/internal/store"
)

type projectRepository struct {
	s store.Store
}

func NewProjectRepository(s store.Store) repository.ProjectRepository {
	return &projectRepository{s: s}
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	var p domain.Project
	if err := r.s.Get(ctx, projectsCollection, id, &p); err != nil {
		return nil, err
	}
	p.ID = id
	return &p, nil
}

func (r *projectRepository) List(ctx context.Context) ([]domain.Project, error) {
	snaps, err := r.s.Query(ctx, projectsCollection, store.Query{OrderBy: "createdOn", Desc: true})
	if err != nil {
		return nil, err
	}
	return decodeProjects(snaps)
}

func (r *projectRepository) ListBySupervisor(ctx context.Context, supervisorID string) ([]domain.Project, error) {
	owned, err := r.s.Query(ctx, projectsCollection, store.Query{
		Filters: []store.Filter{{Field: "supervisorId", Op: "==", Value: supervisorID}},
	})
	if err != nil {
		return nil, err
	}
	coSupervised, err := r.s.Query(ctx, projectsCollection, store.Query{
		Filters: []store.Filter{{Field: "coSupervisorId", Op: "==", Value: supervisorID}},
	})
	if err != nil {
		return nil, err
	}
	return decodeProjects(append(owned, coSupervised...))
}

func (r *projectRepository) ListByStudent(ctx context.Context, studentID string) ([]domain.Project, error) {
	snaps, err := r.s.Query(ctx, projectsCollection, store.Query{
		Filters: []store.Filter{{Field: "studentIds", Op: "array-contains", Value: studentID}},
	})
	if err != nil {
		return nil, err
	}
	return decodeProjects(snaps)
}

func (r *projectRepository) Update(ctx context.Context, p *domain.Project) error {
	p.UpdatedOn = time.Now().UTC()
	return r.s.Set(ctx, projectsCollection, p.ID, p)
}

func (r *projectRepository) TxCreate(tx store.Tx, p *domain.Project) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedOn = now
	p.UpdatedOn = now
	if p.Status == "" {
		p.Status = domain.ProjectStatusActive
	}
	return tx.Set(projectsCollection, p.ID, p)
}

func (r *projectRepository) TxGet(tx store.Tx, id string) (*domain.Project, error) {
	var p domain.Project
	if err := tx.Get(projectsCollection, id, &p); err != nil {
		return nil, err
	}
	p.ID = id
	return &p, nil
}

func (r *projectRepository) TxFindBySourceApplication(tx store.Tx, applicationID string) (*domain.Project, error) {
	snaps, err := tx.Query(projectsCollection, store.Query{
		Filters: []store.Filter{{Field: "sourceApplicationId", Op: "==", Value: applicationID}},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, nil
	}
	var p domain.Project
	if err := snaps[0].DataTo(&p); err != nil {
		return nil, err
	}
	p.ID = snaps[0].ID()
	return &p, nil
}

func (r *projectRepository) TxSetStatus(tx store.Tx, id string, status domain.ProjectStatus) error {
	return tx.Update(projectsCollection, id, []store.Update{
		{Field: "status", Value: string(status)},
		{Field: "updatedOn", Value: time.Now().UTC()},
	})
}

func (r *projectRepository) TxSetCoSupervisor(tx store.Tx, id, coSupervisorID string) error {
	return tx.Update(projectsCollection, id, []store.Update{
		{Field: "coSupervisorId", Value: coSupervisorID},
		{Field: "updatedOn", Value: time.Now().UTC()},
	})
}

func decodeProjects(snaps []store.Snapshot) ([]domain.Project, error) {
	projects := make([]domain.Project, 0, len(snaps))
	for _, snap := range snaps {
		var p domain.Project
		if err := snap.DataTo(&p); err != nil {
			return nil, err
		}
		p.ID = snap.ID()
		projects = append(projects, p)
	}
	return projects, nil
}
