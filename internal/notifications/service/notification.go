package service

import (
	"context"
	"errors"
	"time"

	notificationserrors "voyago/internal/notifications/errors"
	"voyago/internal/notifications/repository"
	"voyago/pkg/config"
	apperrors "voyago/pkg/errors"
	"voyago/pkg/model"
)

type NotificationService interface {
	List(ctx context.Context, clientID string, filter repository.ListFilter) ([]*model.Notification, int64, error)
	MarkRead(ctx context.Context, clientID string, id string) (*model.Notification, error)
	MarkAllRead(ctx context.Context, clientID string) (int64, error)
	UnreadCount(ctx context.Context, clientID string) (int64, error)
}

type notificationService struct {
	repo repository.NotificationRepository
	cfg  *config.Config

	now func() time.Time
}

func NewNotificationService(repo repository.NotificationRepository, cfg *config.Config) NotificationService {
	return &notificationService{
		repo: repo,
		cfg:  cfg,
		now:  time.Now,
	}
}

func (s *notificationService) List(ctx context.Context, clientID string, filter repository.ListFilter) ([]*model.Notification, int64, error) {
	if clientID == "" {
		return nil, 0, apperrors.InvalidInput("Client ID cannot be empty")
	}

	notifications, total, err := s.repo.FindByClient(ctx, clientID, filter)
	if err != nil {
		s.cfg.Log.Error("Failed to list notifications", "client_id", clientID, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve notifications", err)
	}

	return notifications, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, clientID string, id string) (*model.Notification, error) {
	if clientID == "" {
		return nil, apperrors.InvalidInput("Client ID cannot be empty")
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Notification ID cannot be empty")
	}

	notification, err := s.repo.MarkRead(ctx, id, clientID, s.now())
	if err != nil {
		if errors.Is(err, notificationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Notification", id)
		}
		if errors.Is(err, notificationserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid notification ID format")
		}
		if errors.Is(err, notificationserrors.ErrNotOwner) {
			return nil, apperrors.Forbidden("You do not have access to this notification")
		}
		s.cfg.Log.Error("Failed to mark notification read", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to mark notification read", err)
	}

	return notification, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, clientID string) (int64, error) {
	if clientID == "" {
		return 0, apperrors.InvalidInput("Client ID cannot be empty")
	}

	count, err := s.repo.MarkAllRead(ctx, clientID, s.now())
	if err != nil {
		s.cfg.Log.Error("Failed to mark all notifications read", "client_id", clientID, "error", err)
		return 0, apperrors.Internal("Failed to mark notifications read", err)
	}

	s.cfg.Log.Info("Notifications marked read", "client_id", clientID, "count", count)
	return count, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, clientID string) (int64, error) {
	if clientID == "" {
		return 0, apperrors.InvalidInput("Client ID cannot be empty")
	}

	count, err := s.repo.UnreadCount(ctx, clientID)
	if err != nil {
		s.cfg.Log.Error("Failed to count unread notifications", "client_id", clientID, "error", err)
		return 0, apperrors.Internal("Failed to count unread notifications", err)
	}

	return count, nil
}
