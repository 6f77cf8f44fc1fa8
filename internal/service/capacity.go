package service

import (
	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/metrics"
	"mentormatch-backend/internal/repository"
	"mentormatch-backend/internal/store"
)

// CapacityLedger is the only writer of supervisor currentCapacity. Both
// methods take a transaction handle so the capacity change commits or aborts
// together with the application write that triggered it.
//
// Firestore transactions require every read to precede the first write, so
// callers must invoke Increment/Decrement after their own reads and before
// their own writes.
type CapacityLedger struct {
	supervisors repository.SupervisorRepository
}

func NewCapacityLedger(supervisors repository.SupervisorRepository) *CapacityLedger {
	return &CapacityLedger{supervisors: supervisors}
}

// Increment reserves one capacity slot, failing with a conflict when the
// supervisor is already at maximum.
func (l *CapacityLedger) Increment(tx store.Tx, supervisorID string) error {
	sup, err := l.supervisors.TxGet(tx, supervisorID)
	if err != nil {
		if store.IsNotFound(err) {
			return domain.NotFoundf("supervisor not found")
		}
		return domain.Internalf(err, "failed to read supervisor")
	}
	if sup.CurrentCapacity >= sup.MaxCapacity {
		metrics.CapacityRejections.Inc()
		return domain.Conflictf("supervisor is at maximum capacity (%d)", sup.MaxCapacity)
	}
	if err := l.supervisors.TxSetCurrentCapacity(tx, supervisorID, sup.CurrentCapacity+1, sup.MaxCapacity); err != nil {
		return domain.Internalf(err, "failed to update supervisor capacity")
	}
	return nil
}

// Decrement releases one capacity slot, flooring at zero. A missing
// supervisor is not an error: the supervisor may have been removed while
// approved applications still referenced them.
func (l *CapacityLedger) Decrement(tx store.Tx, supervisorID string) error {
	sup, err := l.supervisors.TxGet(tx, supervisorID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil
		}
		return domain.Internalf(err, "failed to read supervisor")
	}
	next := sup.CurrentCapacity - 1
	if next < 0 {
		next = 0
	}
	if err := l.supervisors.TxSetCurrentCapacity(tx, supervisorID, next, sup.MaxCapacity); err != nil {
		return domain.Internalf(err, "failed to update supervisor capacity")
	}
	return nil
}
