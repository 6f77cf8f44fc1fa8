package docstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/repository"
	"mentormatch-backend/internal/store"
)

type studentRepository struct {
	s store.Store
}

func NewStudentRepository(s store.Store) repository.StudentRepository {
	return &studentRepository{s: s}
}

func (r *studentRepository) Create(ctx context.Context, st *domain.Student) error {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	st.CreatedOn = now
	st.UpdatedOn = now
	if st.PartnershipStatus == "" {
		st.PartnershipStatus = domain.PartnershipStatusNone
	}
	if st.MatchStatus == "" {
		st.MatchStatus = domain.MatchStatusUnmatched
	}
	return r.s.Set(ctx, studentsCollection, st.ID, st)
}

func (r *studentRepository) GetByID(ctx context.Context, id string) (*domain.Student, error) {
	var st domain.Student
	if err := r.s.Get(ctx, studentsCollection, id, &st); err != nil {
		return nil, err
	}
	st.ID = id
	return &st, nil
}

func (r *studentRepository) GetByEmail(ctx context.Context, email string) (*domain.Student, error) {
	snaps, err := r.s.Query(ctx, studentsCollection, store.Query{
		Filters: []store.Filter{{Field: "email", Op: "==", Value: email}},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, store.ErrNotFound
	}
	var st domain.Student
	if err := snaps[0].DataTo(&st); err != nil {
		return nil, err
	}
	st.ID = snaps[0].ID()
	return &st, nil
}

func (r *studentRepository) Update(ctx context.Context, st *domain.Student) error {
	st.UpdatedOn = time.Now().UTC()
	return r.s.Set(ctx, studentsCollection, st.ID, st)
}

func (r *studentRepository) List(ctx context.Context) ([]domain.Student, error) {
	snaps, err := r.s.Query(ctx, studentsCollection, store.Query{OrderBy: "name"})
	if err != nil {
		return nil, err
	}
	return decodeStudents(snaps)
}

func (r *studentRepository) ListUnpaired(ctx context.Context) ([]domain.Student, error) {
	snaps, err := r.s.Query(ctx, studentsCollection, store.Query{
		Filters: []store.Filter{{Field: "partnershipStatus", Op: "!=", Value: string(domain.PartnershipStatusPaired)}},
	})
	if err != nil {
		return nil, err
	}
	return decodeStudents(snaps)
}

func (r *studentRepository) TxGet(tx store.Tx, id string) (*domain.Student, error) {
	var st domain.Student
	if err := tx.Get(studentsCollection, id, &st); err != nil {
		return nil, err
	}
	st.ID = id
	return &st, nil
}

func (r *studentRepository) TxSetPartnership(tx store.Tx, id string, status domain.PartnershipStatus, partnerID string) error {
	return tx.Update(studentsCollection, id, []store.Update{
		{Field: "partnershipStatus", Value: string(status)},
		{Field: "partnerId", Value: partnerID},
		{Field: "updatedOn", Value: time.Now().UTC()},
	})
}

func (r *studentRepository) TxSetMatch(tx store.Tx, id string, status domain.MatchStatus, supervisorID string) error {
	return tx.Update(studentsCollection, id, []store.Update{
		{Field: "matchStatus", Value: string(status)},
		{Field: "assignedSupervisorId", Value: supervisorID},
		{Field: "updatedOn", Value: time.Now().UTC()},
	})
}

func decodeStudents(snaps []store.Snapshot) ([]domain.Student, error) {
	students := make([]domain.Student, 0, len(snaps))
	for _, snap := range snaps {
		var st domain.Student
		if err := snap.DataTo(&st); err != nil {
			return nil, err
		}
		st.ID = snap.ID()
		students = append(students, st)
	}
	return students, nil
}
