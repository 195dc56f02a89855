package notif

import (
	"context"
	"fmt"
	"time"

	"nexoecos/internal/common"
	"nexoecos/internal/dbmysql"
)

// NotificationService is the append-only per-user message queue. The
// moderation workflow writes into it; the presentation layer drains it.
type NotificationService struct {
	repo common.NotificationRepository
}

func NewNotificationService(repo common.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// Create appends a message to the user's queue
func (s *NotificationService) Create(ctx context.Context, userID int64, message string) error {
	if message == "" {
		return fmt.Errorf("notification message is required")
	}
	return s.repo.Create(ctx, userID, message)
}

type NotificationResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// ListRecent returns the newest notifications first
func (s *NotificationService) ListRecent(ctx context.Context, userID int64, limit int) ([]*NotificationResponse, error) {
	notificationsInterface, err := s.repo.ByUserID(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}

	responses := make([]*NotificationResponse, 0, len(notificationsInterface))
	for _, notifInterface := range notificationsInterface {
		notif, ok := notifInterface.(*dbmysql.Notification)
		if !ok {
			return nil, fmt.Errorf("unexpected notification element %T", notifInterface)
		}
		responses = append(responses, &NotificationResponse{
			ID:        notif.ID,
			Message:   notif.Message,
			IsRead:    notif.IsRead,
			CreatedAt: notif.CreatedAt,
		})
	}

	return responses, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}
