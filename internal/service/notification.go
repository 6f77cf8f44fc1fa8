package service

import (
	"context"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/repository"
	"mentormatch-backend/internal/store"
)

type notificationService struct {
	notes repository.NotificationRepository
}

func NewNotificationService(notes repository.NotificationRepository) NotificationService {
	return &notificationService{notes: notes}
}

func (s *notificationService) List(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	notes, err := s.notes.List(ctx, userID, limit)
	if err != nil {
		return nil, domain.Internalf(err, "failed to list notifications")
	}
	return notes, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	if err := s.notes.MarkAsRead(ctx, notificationID, userID); err != nil {
		if store.IsNotFound(err) {
			return domain.NotFoundf("notification not found")
		}
		return domain.Internalf(err, "failed to mark notification as read")
	}
	return nil
}
