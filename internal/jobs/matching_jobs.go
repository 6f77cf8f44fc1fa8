package jobs

import (
	"context"
	"time"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/logger"
	"mentormatch-backend/internal/store"
)

// ExpireStalePartnershipRequests cancels pending partnership and
// co-supervision requests that have gone unanswered past the configured
// staleness window. Each request is settled in its own transaction so one
// failure does not block the rest of the sweep.
func (jr *JobRunner) ExpireStalePartnershipRequests() {
	jr.runWithRecovery("ExpireStalePartnershipRequests", func() {
		ctx := context.Background()
		cutoff := time.Now().UTC().AddDate(0, 0, -jr.config.Partnership.StaleRequestDays)

		stale, err := jr.repos.StudentPartnershipRequestRepository.ListPendingOlderThan(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to list stale partnership requests", "error", err)
			return
		}
		expired := 0
		for _, req := range stale {
			err := jr.entityStore.RunTransaction(ctx, func(tx store.Tx) error {
				current, err := jr.repos.StudentPartnershipRequestRepository.TxGet(tx, req.ID)
				if err != nil {
					return err
				}
				if current.Status != domain.PartnershipRequestStatusPending {
					return nil
				}
				return jr.repos.StudentPartnershipRequestRepository.TxSetStatus(tx, req.ID, domain.PartnershipRequestStatusCancelled, time.Now().UTC())
			})
			if err != nil {
				logger.Error("Failed to expire partnership request", "request_id", req.ID, "error", err)
				continue
			}
			expired++
		}

		staleCoSup, err := jr.repos.SupervisorPartnershipRequestRepository.ListPendingOlderThan(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to list stale co-supervision requests", "error", err)
			return
		}
		for _, req := range staleCoSup {
			err := jr.entityStore.RunTransaction(ctx, func(tx store.Tx) error {
				current, err := jr.repos.SupervisorPartnershipRequestRepository.TxGet(tx, req.ID)
				if err != nil {
					return err
				}
				if current.Status != domain.PartnershipRequestStatusPending {
					return nil
				}
				return jr.repos.SupervisorPartnershipRequestRepository.TxSetStatus(tx, req.ID, domain.PartnershipRequestStatusCancelled, time.Now().UTC())
			})
			if err != nil {
				logger.Error("Failed to expire co-supervision request", "request_id", req.ID, "error", err)
				continue
			}
			expired++
		}

		logger.Info("Expired stale partnership requests", "count", expired)
	})
}

// ReconcilePartnershipState repairs the advisory partnershipStatus labels:
// paired students whose partner no longer points back are unpaired, and
// unpaired students get their label recomputed from their remaining pending
// requests.
func (jr *JobRunner) ReconcilePartnershipState() {
	jr.runWithRecovery("ReconcilePartnershipState", func() {
		ctx := context.Background()

		students, err := jr.repos.StudentRepository.List(ctx)
		if err != nil {
			logger.Error("Failed to list students", "error", err)
			return
		}

		repaired := 0
		for _, st := range students {
			changed, err := jr.reconcileStudent(ctx, st.ID)
			if err != nil {
				logger.Error("Failed to reconcile student", "student_id", st.ID, "error", err)
				continue
			}
			if changed {
				repaired++
			}
		}
		logger.Info("Reconciled partnership state", "repaired", repaired)
	})
}

func (jr *JobRunner) reconcileStudent(ctx context.Context, studentID string) (bool, error) {
	changed := false
	err := jr.entityStore.RunTransaction(ctx, func(tx store.Tx) error {
		changed = false
		st, err := jr.repos.StudentRepository.TxGet(tx, studentID)
		if err != nil {
			return err
		}

		if st.PartnershipStatus == domain.PartnershipStatusPaired {
			if st.PartnerID == "" {
				changed = true
				return jr.repos.StudentRepository.TxSetPartnership(tx, st.ID, domain.PartnershipStatusNone, "")
			}
			partner, err := jr.repos.StudentRepository.TxGet(tx, st.PartnerID)
			if err != nil && !store.IsNotFound(err) {
				return err
			}
			if partner == nil || partner.PartnerID != st.ID {
				changed = true
				return jr.repos.StudentRepository.TxSetPartnership(tx, st.ID, domain.PartnershipStatusNone, "")
			}
			return nil
		}

		pending, err := jr.repos.StudentPartnershipRequestRepository.TxListPendingInvolving(tx, st.ID)
		if err != nil {
			return err
		}
		label := domain.PartnershipStatusNone
		for _, req := range pending {
			if req.RequesterID == st.ID {
				label = domain.PartnershipStatusPendingSent
				break
			}
			if req.TargetID == st.ID {
				label = domain.PartnershipStatusPendingReceived
				break
			}
		}
		if label == st.PartnershipStatus {
			return nil
		}
		changed = true
		return jr.repos.StudentRepository.TxSetPartnership(tx, st.ID, label, "")
	})
	return changed, err
}
