package services

import (
	"context"

	"gin-inventory/constants"
	"gin-inventory/dto"
	"gin-inventory/models"
	"gin-inventory/repositories"

	"github.com/rs/zerolog"
)

type INotificationService interface {
	UnreadMessages(ctx context.Context, userID uint) ([]string, error)
	FindAll(ctx context.Context, userID uint) ([]models.Notification, error)
	MarkRead(ctx context.Context, notificationID uint, userID uint) error
	MarkAllRead(ctx context.Context, userID uint) (int64, error)
	Notify(ctx context.Context, userID uint, message string) (*models.Notification, error)
}

type NotificationService struct {
	repository repositories.INotificationRepository
	hub        *RealtimeHub
	logger     zerolog.Logger
}

// hub may be nil, in which case nothing is pushed.
func NewNotificationService(repository repositories.INotificationRepository, hub *RealtimeHub, logger zerolog.Logger) INotificationService {
	return &NotificationService{repository: repository, hub: hub, logger: logger}
}

func (s *NotificationService) UnreadMessages(ctx context.Context, userID uint) ([]string, error) {
	notifications, err := s.repository.FindUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	messages := make([]string, 0, len(notifications))
	for _, n := range notifications {
		messages = append(messages, n.Message)
	}
	return messages, nil
}

func (s *NotificationService) FindAll(ctx context.Context, userID uint) ([]models.Notification, error) {
	return s.repository.FindAll(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, notificationID uint, userID uint) error {
	return notFoundOr(s.repository.MarkRead(ctx, notificationID, userID), constants.ErrNotificationNotFound)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return s.repository.MarkAllRead(ctx, userID)
}

// Notify stores an unread notification and pushes it to open streams.
func (s *NotificationService) Notify(ctx context.Context, userID uint, message string) (*models.Notification, error) {
	notification, err := s.repository.Create(ctx, models.Notification{UserID: userID, Message: message})
	if err != nil {
		return nil, err
	}
	if s.hub != nil {
		sent := s.hub.Broadcast(userID, dto.NotificationEvent{
			Type:         dto.NotificationEventCreated,
			Notification: notification,
		})
		s.logger.Debug().Uint("user_id", userID).Int("connections", sent).Msg("notification pushed")
	}
	return notification, nil
}
