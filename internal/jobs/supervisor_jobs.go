package jobs

import (
	"context"
	"time"

	"mentormatch-backend/internal/logger"
	"mentormatch-backend/internal/store"
)

// RecomputeSupervisorAvailability rewrites the derived availability label for
// any supervisor whose stored label has drifted from the capacity counters.
func (jr *JobRunner) RecomputeSupervisorAvailability() {
	jr.runWithRecovery("RecomputeSupervisorAvailability", func() {
		ctx := context.Background()

		supervisors, err := jr.repos.SupervisorRepository.List(ctx)
		if err != nil {
			logger.Error("Failed to list supervisors", "error", err)
			return
		}

		fixed := 0
		for _, sup := range supervisors {
			if sup.AvailabilityStatus == sup.Availability() {
				continue
			}
			supID := sup.ID
			err := jr.entityStore.RunTransaction(ctx, func(tx store.Tx) error {
				current, err := jr.repos.SupervisorRepository.TxGet(tx, supID)
				if err != nil {
					return err
				}
				if current.AvailabilityStatus == current.Availability() {
					return nil
				}
				return jr.repos.SupervisorRepository.TxSetCurrentCapacity(tx, supID, current.CurrentCapacity, current.MaxCapacity)
			})
			if err != nil {
				logger.Error("Failed to recompute availability", "supervisor_id", supID, "error", err)
				continue
			}
			fixed++
		}
		logger.Info("Recomputed supervisor availability", "fixed", fixed)
	})
}

// SendPendingApplicationReminders emails supervisors who have applications
// sitting in the pending queue longer than the configured window.
func (jr *JobRunner) SendPendingApplicationReminders() {
	jr.runWithRecovery("SendPendingApplicationReminders", func() {
		if jr.emailSvc == nil {
			logger.Warn("Email service not configured, skipping reminders")
			return
		}
		ctx := context.Background()
		cutoff := time.Now().UTC().AddDate(0, 0, -jr.config.Partnership.ReminderPendingDays)

		aging, err := jr.repos.ApplicationRepository.ListPendingOlderThan(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to list aging applications", "error", err)
			return
		}

		counts := make(map[string]int)
		for _, app := range aging {
			counts[app.SupervisorID]++
		}

		sent := 0
		for supervisorID, count := range counts {
			sup, err := jr.repos.SupervisorRepository.GetByID(ctx, supervisorID)
			if err != nil {
				logger.Error("Failed to read supervisor for reminder", "supervisor_id", supervisorID, "error", err)
				continue
			}
			if err := jr.emailSvc.SendPendingApplicationReminder(ctx, sup.Email, sup.Name, count); err != nil {
				logger.Error("Failed to send reminder", "supervisor_id", supervisorID, "error", err)
				continue
			}
			sent++
		}
		logger.Info("Sent pending application reminders", "supervisors", sent, "applications", len(aging))
	})
}
