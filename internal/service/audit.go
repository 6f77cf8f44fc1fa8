package service

import (
	"context"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/logger"
	"mentormatch-backend/internal/repository"
)

// Auditor writes admin-trail events after the owning transaction commits.
// Writes are best-effort: a failed write is logged and never propagated to
// the caller. A nil Auditor (or nil repository) is a no-op, which keeps the
// trail optional in tests and local setups without a relational database.
type Auditor struct {
	repo repository.AuditRepository
}

func NewAuditor(repo repository.AuditRepository) *Auditor {
	return &Auditor{repo: repo}
}

func (a *Auditor) Record(ctx context.Context, actor domain.Actor, action, entityType, entityID, detail string) {
	if a == nil || a.repo == nil {
		return
	}
	event := &domain.AuditEvent{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
	}
	if err := a.repo.Record(ctx, event); err != nil {
		logger.Warn("failed to record audit event", "action", action, "entityId", entityID, "error", err)
	}
}
