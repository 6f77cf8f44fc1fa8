package docstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/repository"
	"mentormatch-backend/internal/store"
)

type studentPartnershipRequestRepository struct {
	s store.Store
}

func NewStudentPartnershipRequestRepository(s store.Store) repository.StudentPartnershipRequestRepository {
	return &studentPartnershipRequestRepository{s: s}
}

func (r *studentPartnershipRequestRepository) GetByID(ctx context.Context, id string) (*domain.StudentPartnershipRequest, error) {
	var req domain.StudentPartnershipRequest
	if err := r.s.Get(ctx, studentPartnershipsCollection, id, &req); err != nil {
		return nil, err
	}
	req.ID = id
	return &req, nil
}

func (r *studentPartnershipRequestRepository) ListInvolving(ctx context.Context, studentID string) ([]domain.StudentPartnershipRequest, error) {
	sent, err := r.s.Query(ctx, studentPartnershipsCollection, store.Query{
		Filters: []store.Filter{{Field: "requesterId", Op: "==", Value: studentID}},
	})
	if err != nil {
		return nil, err
	}
	received, err := r.s.Query(ctx, studentPartnershipsCollection, store.Query{
		Filters: []store.Filter{{Field: "targetId", Op: "==", Value: studentID}},
	})
	if err != nil {
		return nil, err
	}
	return decodeStudentRequests(append(sent, received...))
}

func (r *studentPartnershipRequestRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.StudentPartnershipRequest, error) {
	snaps, err := r.s.Query(ctx, studentPartnershipsCollection, store.Query{
		Filters: []store.Filter{
			{Field: "status", Op: "==", Value: string(domain.PartnershipRequestStatusPending)},
			{Field: "createdOn", Op: "<", Value: cutoff},
		},
	})
	if err != nil {
		return nil, err
	}
	return decodeStudentRequests(snaps)
}

func (r *studentPartnershipRequestRepository) TxCreate(tx store.Tx, req *domain.StudentPartnershipRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.CreatedOn = time.Now().UTC()
	if req.Status == "" {
		req.Status = domain.PartnershipRequestStatusPending
	}
	return tx.Set(studentPartnershipsCollection, req.ID, req)
}

func (r *studentPartnershipRequestRepository) TxGet(tx store.Tx, id string) (*domain.StudentPartnershipRequest, error) {
	var req domain.StudentPartnershipRequest
	if err := tx.Get(studentPartnershipsCollection, id, &req); err != nil {
		return nil, err
	}
	req.ID = id
	return &req, nil
}

func (r *studentPartnershipRequestRepository) TxFindPending(tx store.Tx, requesterID, targetID string) (*domain.StudentPartnershipRequest, error) {
	snaps, err := tx.Query(studentPartnershipsCollection, store.Query{
		Filters: []store.Filter{
			{Field: "requesterId", Op: "==", Value: requesterID},
			{Field: "targetId", Op: "==", Value: targetID},
			{Field: "status", Op: "==", Value: string(domain.PartnershipRequestStatusPending)},
		},
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, nil
	}
	var req domain.StudentPartnershipRequest
	if err := snaps[0].DataTo(&req); err != nil {
		return nil, err
	}
	req.ID = snaps[0].ID()
	return &req, nil
}

func (r *studentPartnershipRequestRepository) TxListPendingInvolving(tx store.Tx, studentID string) ([]domain.StudentPartnershipRequest, error) {
	sent, err := tx.Query(studentPartnershipsCollection, store.Query{
		Filters: []store.Filter{
			{Field: "requesterId", Op: "==", Value: studentID},
			{Field: "status", Op: "==", Value: string(domain.PartnershipRequestStatusPending)},
		},
	})
	if err != nil {
		return nil, err
	}
	received, err := tx.Query(studentPartnershipsCollection, store.Query{
		Filters: []store.Filter{
			{Field: "targetId", Op: "==", Value: studentID},
			{Field: "status", Op: "==", Value: string(domain.PartnershipRequestStatusPending)},
		},
	})
	if err != nil {
		return nil, err
	}
	return decodeStudentRequests(append(sent, received...))
}

func (r *studentPartnershipRequestRepository) TxSetStatus(tx store.Tx, id string, status domain.PartnershipRequestStatus, respondedOn time.Time) error {
	return tx.Update(studentPartnershipsCollection, id, []store.Update{
		{Field: "status", Value: string(status)},
		{Field: "respondedOn", Value: respondedOn},
	})
}

func decodeStudentRequests(snaps []store.Snapshot) ([]domain.StudentPartnershipRequest, error) {
	reqs := make([]domain.StudentPartnershipRequest, 0, len(snaps))
	for _, snap := range snaps {
		var req domain.StudentPartnershipRequest
		if err := snap.DataTo(&req); err != nil {
			return nil, err
		}
		req.ID = snap.ID()
		reqs = append(reqs, req)
	}
	return reqs, nil
}

type supervisorPartnershipRequestRepository struct {
	s store.Store
}

func NewSupervisorPartnershipRequestRepository(s store.Store) repository.SupervisorPartnershipRequestRepository {
	return &supervisorPartnershipRequestRepository{s: s}
}

func (r *supervisorPartnershipRequestRepository) GetByID(ctx context.Context, id string) (*domain.SupervisorPartnershipRequest, error) {
	var req domain.SupervisorPartnershipRequest
	if err := r.s.Get(ctx, supervisorPartnershipsCollection, id, &req); err != nil {
		return nil, err
	}
	req.ID = id
	return &req, nil
}

func (r *supervisorPartnershipRequestRepository) ListInvolving(ctx context.Context, supervisorID string) ([]domain.SupervisorPartnershipRequest, error) {
	sent, err := r.s.Query(ctx, supervisorPartnershipsCollection, store.Query{
		Filters: []store.Filter{{Field: "requesterId", Op: "==", Value: supervisorID}},
	})
	if err != nil {
		return nil, err
	}
	received, err := r.s.Query(ctx, supervisorPartnershipsCollection, store.Query{
		Filters: []store.Filter{{Field: "targetId", Op: "==", Value: supervisorID}},
	})
	if err != nil {
		return nil, err
	}
	return decodeSupervisorRequests(append(sent, received...))
}

func (r *supervisorPartnershipRequestRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.SupervisorPartnershipRequest, error) {
	snaps, err := r.s.Query(ctx, supervisorPartnershipsCollection, store.Query{
		Filters: []store.Filter{
			{Field: "status", Op: "==", Value: string(domain.PartnershipRequestStatusPending)},
			{Field: "createdOn", Op: "<", Value: cutoff},
		},
	})
	if err != nil {
		return nil, err
	}
	return decodeSupervisorRequests(snaps)
}

func (r *supervisorPartnershipRequestRepository) TxCreate(tx store.Tx, req *domain.SupervisorPartnershipRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.CreatedOn = time.Now().UTC()
	if req.Status == "" {
		req.Status = domain.PartnershipRequestStatusPending
	}
	return tx.Set(supervisorPartnershipsCollection, req.ID, req)
}

func (r *supervisorPartnershipRequestRepository) TxGet(tx store.Tx, id string) (*domain.SupervisorPartnershipRequest, error) {
	var req domain.SupervisorPartnershipRequest
	if err := tx.Get(supervisorPartnershipsCollection, id, &req); err != nil {
		return nil, err
	}
	req.ID = id
	return &req, nil
}

func (r *supervisorPartnershipRequestRepository) TxFindPending(tx store.Tx, projectID, requesterID, targetID string) (*domain.SupervisorPartnershipRequest, error) {
	snaps, err := tx.Query(supervisorPartnershipsCollection, store.Query{
		Filters: []store.Filter{
			{Field: "projectId", Op: "==", Value: projectID},
			{Field: "requesterId", Op: "==", Value: requesterID},
			{Field: "targetId", Op: "==", Value: targetID},
			{Field: "status", Op: "==", Value: string(domain.PartnershipRequestStatusPending)},
		},
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, nil
	}
	var req domain.SupervisorPartnershipRequest
	if err := snaps[0].DataTo(&req); err != nil {
		return nil, err
	}
	req.ID = snaps[0].ID()
	return &req, nil
}

func (r *supervisorPartnershipRequestRepository) TxListPendingForProject(tx store.Tx, projectID string) ([]domain.SupervisorPartnershipRequest, error) {
	snaps, err := tx.Query(supervisorPartnershipsCollection, store.Query{
		Filters: []store.Filter{
			{Field: "projectId", Op: "==", Value: projectID},
			{Field: "status", Op: "==", Value: string(domain.PartnershipRequestStatusPending)},
		},
	})
	if err != nil {
		return nil, err
	}
	return decodeSupervisorRequests(snaps)
}

func (r *supervisorPartnershipRequestRepository) TxSetStatus(tx store.Tx, id string, status domain.PartnershipRequestStatus, respondedOn time.Time) error {
	return tx.Update(supervisorPartnershipsCollection, id, []store.Update{
		{Field: "status", Value: string(status)},
		{Field: "respondedOn", Value: respondedOn},
	})
}

func decodeSupervisorRequests(snaps []store.Snapshot) ([]domain.SupervisorPartnershipRequest, error) {
	reqs := make([]domain.SupervisorPartnershipRequest, 0, len(snaps))
	for _, snap := range snaps {
		var req domain.SupervisorPartnershipRequest
		if err := snap.DataTo(&req); err != nil {
			return nil, err
		}
		req.ID = snap.ID()
		reqs = append(reqs, req)
	}
	return reqs, nil
}
