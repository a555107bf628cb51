package notifications

import (
	"context"

	"github.com/dmsavelev/tripbooking/internal/domain"
	"github.com/dmsavelev/tripbooking/internal/repository"
	"go.uber.org/zap"
)

type NotificationUseCase interface {
	Send(ctx context.Context, input SendInput) (*domain.Notification, error)
}

type NotificationService struct {
	notifications repository.NotificationRepository
	logger        *zap.Logger
}

type SendInput struct {
	UserID  int64  `json:"user_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func NewNotificationService(notifications repository.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, logger: logger}
}

// Send records the notification and simulates delivery. Delivery transport
// (email, SMS) is out of scope; the record plus the log line stand in for
// the handoff to a real provider.
func (s *NotificationService) Send(ctx context.Context, input SendInput) (*domain.Notification, error) {
	if input.UserID <= 0 {
		return nil, &domain.ValidationError{Field: "user_id", Reason: "must be positive"}
	}
	if input.Message == "" {
		return nil, &domain.ValidationError{Field: "message", Reason: "is required"}
	}

	notificationType := input.Type
	if notificationType == "" {
		notificationType = "EMAIL"
	}

	notification := &domain.Notification{
		UserID:  input.UserID,
		Title:   input.Title,
		Message: input.Message,
		Type:    notificationType,
		Status:  domain.NotificationStatusSent,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		return nil, err
	}

	s.logger.Info("notification sent",
		zap.Int64("notification_id", notification.ID),
		zap.Int64("user_id", notification.UserID),
		zap.String("title", notification.Title))
	return notification, nil
}

var _ NotificationUseCase = (*NotificationService)(nil)
