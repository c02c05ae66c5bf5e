package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Stepheeeen/flairecosystem/internal/models"
	"github.com/Stepheeeen/flairecosystem/internal/repositories"
)

// NotificationService maintains the per-company admin activity feed.
type NotificationService interface {
	// Emit records a feed entry. It never returns an error: feed writes
	// are fire-and-forget side effects of checkout and fulfilment.
	Emit(ctx context.Context, companyID uuid.UUID, notificationType models.NotificationType, title, message string, link *string)
	Feed(ctx context.Context, companyID uuid.UUID) (*NotificationFeed, error)
	MarkRead(ctx context.Context, companyID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, companyID uuid.UUID) error
}

// NotificationFeed is the admin polling payload.
type NotificationFeed struct {
	Notifications []*models.Notification `json:"notifications"`
	UnreadCount   int                    `json:"unreadCount"`
}

const feedLimit = 20

type notificationService struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) Emit(ctx context.Context, companyID uuid.UUID, notificationType models.NotificationType, title, message string, link *string) {
	notification := &models.Notification{
		ID:        uuid.New(),
		CompanyID: companyID,
		Title:     title,
		Message:   message,
		Type:      notificationType,
		Read:      false,
		Link:      link,
		CreatedAt: time.Now(),
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		log.Printf("WARN: failed to record %s notification for company %s: %v", notificationType, companyID, err)
	}
}

func (s *notificationService) Feed(ctx context.Context, companyID uuid.UUID) (*NotificationFeed, error) {
	notifications, err := s.notificationRepo.ListLatest(ctx, companyID, feedLimit)
	if err != nil {
		return nil, err
	}
	unread, err := s.notificationRepo.CountUnread(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []*models.Notification{}
	}
	return &NotificationFeed{Notifications: notifications, UnreadCount: unread}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, companyID, id uuid.UUID) error {
	return s.notificationRepo.MarkRead(ctx, companyID, id)
}

func (s *notificationService) MarkAllRead(ctx context.Context, companyID uuid.UUID) error {
	return s.notificationRepo.MarkAllRead(ctx, companyID)
}
