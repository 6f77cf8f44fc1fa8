package docstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/repository"
	"mentormatch-backend/internal/store"
)

type notificationRepository struct {
	s store.Store
}

func NewNotificationRepository(s store.Store) repository.NotificationRepository {
	return &notificationRepository{s: s}
}

func (r *notificationRepository) Create(ctx context.Context, note *domain.Notification) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	note.CreatedOn = time.Now().UTC()
	return r.s.Set(ctx, notificationsCollection, note.ID, note)
}

func (r *notificationRepository) List(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	snaps, err := r.s.Query(ctx, notificationsCollection, store.Query{
		Filters: []store.Filter{{Field: "userId", Op: "==", Value: userID}},
		OrderBy: "createdOn",
		Desc:    true,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	notes := make([]domain.Notification, 0, len(snaps))
	for _, snap := range snaps {
		var note domain.Notification
		if err := snap.DataTo(&note); err != nil {
			return nil, err
		}
		note.ID = snap.ID()
		notes = append(notes, note)
	}
	return notes, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID string) error {
	var note domain.Notification
	if err := r.s.Get(ctx, notificationsCollection, id, &note); err != nil {
		return err
	}
	if note.UserID != userID {
		return store.ErrNotFound
	}
	return r.s.Update(ctx, notificationsCollection, id, []store.Update{
		{Field: "isRead", Value: true},
	})
}
