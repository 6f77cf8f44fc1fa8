package postgres

import (
	"context"
	"database/sql"
	"time"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/logger"
	"mentormatch-backend/internal/repository"
)

type auditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Record(ctx context.Context, e *domain.AuditEvent) error {
	query := `INSERT INTO audit_events (actor_id, actor_role, action, entity_type, entity_id, detail, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if e.CreatedOn.IsZero() {
		e.CreatedOn = time.Now().UTC()
	}
	logger.DatabaseCall("INSERT", "audit_events", "action", e.Action, "entityType", e.EntityType)
	err := r.db.QueryRowContext(ctx, query,
		e.ActorID, string(e.ActorRole), e.Action, e.EntityType, e.EntityID, e.Detail, e.CreatedOn,
	).Scan(&e.ID)
	logger.DatabaseResult("INSERT", 1, err, "eventID", e.ID)
	return err
}

func (r *auditRepository) List(ctx context.Context, entityType, entityID string, limit int) ([]domain.AuditEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT id, actor_id, actor_role, action, entity_type, entity_id, detail, created_on
	          FROM audit_events
	          WHERE ($1 = '' OR entity_type = $1) AND ($2 = '' OR entity_id = $2)
	          ORDER BY created_on DESC
	          LIMIT $3`
	logger.DatabaseCall("SELECT", "audit_events", "entityType", entityType, "entityID", entityID)
	rows, err := r.db.QueryContext(ctx, query, entityType, entityID, limit)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err, "entityType", entityType)
		return nil, err
	}
	defer rows.Close()

	var events []domain.AuditEvent
	for rows.Next() {
		var e domain.AuditEvent
		var role string
		if err := rows.Scan(&e.ID, &e.ActorID, &role, &e.Action, &e.EntityType, &e.EntityID, &e.Detail, &e.CreatedOn); err != nil {
			logger.DatabaseResult("SELECT", 0, err, "entityType", entityType)
			return nil, err
		}
		e.ActorRole = domain.Role(role)
		events = append(events, e)
	}
	logger.DatabaseResult("SELECT", int64(len(events)), rows.Err(), "entityType", entityType)
	return events, rows.Err()
}
