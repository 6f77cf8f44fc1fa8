package jobs

import (
	"mentormatch-backend/internal/config"
	"mentormatch-backend/internal/logger"
	"mentormatch-backend/internal/repository/docstore"
	"mentormatch-backend/internal/service"
	"mentormatch-backend/internal/store"
)

// JobRunner coordinates all scheduled maintenance jobs
type JobRunner struct {
	entityStore store.Store
	repos       *docstore.Store
	emailSvc    service.EmailService
	config      *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(entityStore store.Store, repos *docstore.Store, emailSvc service.EmailService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		entityStore: entityStore,
		repos:       repos,
		emailSvc:    emailSvc,
		config:      cfg,
	}
}

// Config exposes the loaded configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.ExpireStalePartnershipRequests()
	jr.ReconcilePartnershipState()
	jr.RecomputeSupervisorAvailability()
}
