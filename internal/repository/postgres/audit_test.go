package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentormatch-backend/internal/domain"
)

func TestAuditRepository_Record(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAuditRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO audit_events").
			WithArgs("user-1", "supervisor", domain.AuditCapacityChanged, "supervisor", "sup-1", "maxCapacity=4", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

		e := &domain.AuditEvent{
			ActorID:    "user-1",
			ActorRole:  domain.RoleSupervisor,
			Action:     domain.AuditCapacityChanged,
			EntityType: "supervisor",
			EntityID:   "sup-1",
			Detail:     "maxCapacity=4",
		}
		require.NoError(t, repo.Record(ctx, e))
		assert.Equal(t, int64(7), e.ID)
		assert.False(t, e.CreatedOn.IsZero())
	})

	t.Run("DatabaseError", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO audit_events").
			WillReturnError(assert.AnError)

		err := repo.Record(ctx, &domain.AuditEvent{ActorID: "user-1", ActorRole: domain.RoleAdmin, Action: "x"})
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAuditRepository(db)
	ctx := context.Background()
	columns := []string{"id", "actor_id", "actor_role", "action", "entity_type", "entity_id", "detail", "created_on"}

	t.Run("FiltersAndDecodes", func(t *testing.T) {
		now := time.Now().UTC()
		rows := sqlmock.NewRows(columns).
			AddRow(int64(2), "user-2", "admin", domain.AuditApplicationStatusSet, "application", "app-1", "approved", now).
			AddRow(int64(1), "user-1", "student", domain.AuditApplicationCreated, "application", "app-1", "Title", now.Add(-time.Hour))

		mock.ExpectQuery("SELECT (.+) FROM audit_events").
			WithArgs("application", "app-1", 50).
			WillReturnRows(rows)

		events, err := repo.List(ctx, "application", "app-1", 50)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, domain.RoleAdmin, events[0].ActorRole)
		assert.Equal(t, "app-1", events[1].EntityID)
	})

	t.Run("NonPositiveLimitDefaults", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM audit_events").
			WithArgs("", "", 100).
			WillReturnRows(sqlmock.NewRows(columns))

		events, err := repo.List(ctx, "", "", 0)
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
