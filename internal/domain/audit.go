package domain

import "time"

// AuditEvent records one workflow or matching transition for the admin
// trail. Events are written best-effort after the owning transaction
// commits; a failed write is logged and never fails the operation.
type AuditEvent struct {
	ID         int64     `json:"id"`
	ActorID    string    `json:"actorId"`
	ActorRole  Role      `json:"actorRole"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	Detail     string    `json:"detail"`
	CreatedOn  time.Time `json:"createdOn"`
}

// Audit actions.
const (
	AuditApplicationCreated     = "application.created"
	AuditApplicationStatusSet   = "application.status_set"
	AuditApplicationResubmitted = "application.resubmitted"
	AuditApplicationDeleted     = "application.deleted"
	AuditPartnershipRequested   = "partnership.requested"
	AuditPartnershipResponded   = "partnership.responded"
	AuditPartnershipCancelled   = "partnership.cancelled"
	AuditPartnershipUnpaired    = "partnership.unpaired"
	AuditCoSupervisionRequested = "cosupervision.requested"
	AuditCoSupervisionResponded = "cosupervision.responded"
	AuditCoSupervisionCancelled = "cosupervision.cancelled"
	AuditCoSupervisionRemoved   = "cosupervision.removed"
	AuditCapacityChanged        = "supervisor.capacity_changed"
)
